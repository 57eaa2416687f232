package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/ardunn/automatminer/pkg/errors"
)

// SaveSnapshot gob-encodes a fitted-state snapshot to a file.
func SaveSnapshot(snapshot interface{}, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create snapshot file")
	}
	defer file.Close()

	if err := SaveSnapshotToWriter(snapshot, file); err != nil {
		return err
	}
	return nil
}

// LoadSnapshot gob-decodes a fitted-state snapshot from a file into
// snapshot, which must be a pointer.
func LoadSnapshot(snapshot interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "failed to open snapshot file")
	}
	defer file.Close()

	return LoadSnapshotFromReader(snapshot, file)
}

// SaveSnapshotToWriter gob-encodes a snapshot to a writer.
func SaveSnapshotToWriter(snapshot interface{}, w io.Writer) error {
	encoder := gob.NewEncoder(w)
	if err := encoder.Encode(snapshot); err != nil {
		return errors.Wrap(err, "failed to encode snapshot")
	}
	return nil
}

// LoadSnapshotFromReader gob-decodes a snapshot from a reader.
func LoadSnapshotFromReader(snapshot interface{}, r io.Reader) error {
	decoder := gob.NewDecoder(r)
	if err := decoder.Decode(snapshot); err != nil {
		return errors.Wrap(err, "failed to decode snapshot")
	}
	return nil
}
