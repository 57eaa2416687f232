package automatminer

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ardunn/automatminer/pkg/errors"
)

// Summarize returns a short human-readable description of the pipeline and
// each stage.
func (p *MatPipe) Summarize() map[string]interface{} {
	return map[string]interface{}{
		"pipeline": map[string]interface{}{
			"preset": p.Config.Preset,
			"state":  p.State.String(),
			"target": p.Target,
		},
		"autofeaturizer": p.Featurizer.Summarize(),
		"cleaner":        p.Cleaner.Summarize(),
		"reducer":        p.Reducer.Summarize(),
		"learner":        p.Learner.Summarize(),
	}
}

// Inspect returns the complete concrete configuration and fitted state of
// every stage.
func (p *MatPipe) Inspect() map[string]interface{} {
	return map[string]interface{}{
		"pipeline": map[string]interface{}{
			"preset": p.Config.Preset,
			"state":  p.State.String(),
			"target": p.Target,
		},
		"autofeaturizer": p.Featurizer.Inspect(),
		"cleaner":        p.Cleaner.Inspect(),
		"reducer":        p.Reducer.Inspect(),
		"learner":        p.Learner.Inspect(),
	}
}

// WriteSummary writes Summarize output to a file, as JSON or YAML chosen
// by the filename extension.
func (p *MatPipe) WriteSummary(filename string) error {
	return writeStructured(filename, p.Summarize())
}

// WriteInspection writes Inspect output to a file, as JSON or YAML chosen
// by the filename extension.
func (p *MatPipe) WriteInspection(filename string) error {
	return writeStructured(filename, p.Inspect())
}

func writeStructured(filename string, doc map[string]interface{}) error {
	var (
		data []byte
		err  error
	)
	switch filepath.Ext(filename) {
	case ".json":
		data, err = json.MarshalIndent(doc, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(doc)
	default:
		return errors.NewValueError("MatPipe", "unsupported report format '"+filepath.Ext(filename)+"'")
	}
	if err != nil {
		return errors.Wrap(err, "encoding pipeline report")
	}
	return errors.Wrap(os.WriteFile(filename, data, 0o644), "writing pipeline report")
}
