package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// Store holds translations keyed by (source text, target language)
type Store interface {
	Get(text, lang string) (string, bool)
	Put(text, lang, value string)
	Load(path string) error
	Save(path string) error
	Len() int
}

// Key derives the cache key for a text and target language. It is the full
// MD5 hex digest of text + "_" + lang; collisions are not detected.
func Key(text, lang string) string {
	hash := md5.Sum([]byte(text + "_" + lang))
	return hex.EncodeToString(hash[:])
}

// IOError reports a cache file that could not be read or written. The
// pipeline logs it and carries on with whatever is in memory.
type IOError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s cache %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// entries is the in-memory map shared by the file-backed stores
type entries map[string]string

func (m entries) Get(text, lang string) (string, bool) {
	value, ok := m[Key(text, lang)]
	return value, ok
}

// Put allocates the map on first use, so a zero store is writable
func (m *entries) Put(text, lang, value string) {
	if *m == nil {
		*m = make(entries)
	}
	(*m)[Key(text, lang)] = value
}

func (m entries) Len() int {
	return len(m)
}

// Snapshot returns a copy of the raw key/value pairs
func (m entries) Snapshot() map[string]string {
	result := make(map[string]string, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
