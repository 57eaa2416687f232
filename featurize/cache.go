package featurize

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"os"

	"github.com/ardunn/automatminer/pkg/errors"
)

// featureCache is an optional on-disk cache of per-object feature vectors,
// keyed by a stable hash of the domain object plus the routine name. A fit
// over raw inputs already seen skips recomputation.
type featureCache struct {
	path    string
	entries map[string][]float64
	dirty   bool
}

func newFeatureCache(path string) *featureCache {
	return &featureCache{path: path, entries: make(map[string][]float64)}
}

// load reads the cache file if one exists. A missing file is an empty
// cache, not an error.
func (c *featureCache) load() error {
	if c.path == "" {
		return nil
	}
	f, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "failed to open feature cache")
	}
	defer f.Close()

	decoder := gob.NewDecoder(f)
	if err := decoder.Decode(&c.entries); err != nil {
		return errors.Wrap(err, "failed to decode feature cache")
	}
	return nil
}

// save writes the cache back to disk when entries were added.
func (c *featureCache) save() error {
	if c.path == "" || !c.dirty {
		return nil
	}
	f, err := os.Create(c.path)
	if err != nil {
		return errors.Wrap(err, "failed to create feature cache")
	}
	defer f.Close()

	encoder := gob.NewEncoder(f)
	if err := encoder.Encode(c.entries); err != nil {
		return errors.Wrap(err, "failed to encode feature cache")
	}
	c.dirty = false
	return nil
}

func (c *featureCache) get(key string) ([]float64, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *featureCache) put(key string, values []float64) {
	stored := make([]float64, len(values))
	copy(stored, values)
	c.entries[key] = stored
	c.dirty = true
}

// cacheKey hashes the gob encoding of a domain object together with the
// routine name, so different routines (and objects) never collide and
// identical raw inputs always hit.
func cacheKey(routine string, obj interface{}) (string, bool) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(&obj); err != nil {
		return "", false
	}
	sum := sha256.Sum256(buf.Bytes())
	return routine + "|" + hex.EncodeToString(sum[:]), true
}
