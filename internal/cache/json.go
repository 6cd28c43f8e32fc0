package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// JSONStore keeps translations in a pretty-printed JSON object
type JSONStore struct {
	entries
}

// NewJSONStore creates an empty JSON-backed store
func NewJSONStore() *JSONStore {
	return &JSONStore{entries: make(entries)}
}

// Load replaces the store contents with the file at path. A missing file
// leaves the store empty and is not an error; a corrupt one also leaves it
// empty but is reported.
func (s *JSONStore) Load(path string) error {
	s.entries = make(entries)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &IOError{Op: "load", Path: path, Err: err}
	}

	var loaded map[string]string
	if err := json.Unmarshal(data, &loaded); err != nil {
		return &IOError{Op: "load", Path: path, Err: err}
	}
	if loaded == nil {
		return &IOError{Op: "load", Path: path, Err: errors.New("not a JSON object")}
	}

	s.entries = loaded
	return nil
}

// Save writes the store to path as indented UTF-8 JSON
func (s *JSONStore) Save(path string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]string(s.entries)); err != nil {
		return &IOError{Op: "save", Path: path, Err: err}
	}

	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return &IOError{Op: "save", Path: path, Err: err}
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
