package cache

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"codeberg.org/snonux/slidetrans/internal"
)

// Format selects the cache file backend
type Format string

const (
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

// ParseFormat validates a cache format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatSQLite:
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("unsupported cache format: %s (use json or sqlite)", s)
	}
}

func (f Format) extension() string {
	if f == FormatSQLite {
		return ".db"
	}
	return ".json"
}

// Session ties one document and target language to its cache file. The cache
// path is resolved once, before any translation happens.
type Session struct {
	ID           string
	DocumentPath string
	Language     string
	CachePath    string
	Format       Format
}

// NewSession resolves the cache file for documentPath/language inside dir
func NewSession(documentPath, language, dir string, format Format) *Session {
	if format == "" {
		format = FormatJSON
	}
	return &Session{
		ID:           uuid.NewString(),
		DocumentPath: documentPath,
		Language:     language,
		CachePath:    filepath.Join(dir, FileName(documentPath, language, format)),
		Format:       format,
	}
}

// FileName is translation_cache_<stem>_<lang>_<hash8>.<ext>, where hash8 is
// the short MD5 of the document path as given.
func FileName(documentPath, language string, format Format) string {
	base := filepath.Base(documentPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	lang := strings.NewReplacer("/", "_", `\`, "_").Replace(language)
	return fmt.Sprintf("translation_cache_%s_%s_%s%s", stem, lang, internal.ShortHash(documentPath), format.extension())
}

// NewStore returns an empty store matching the session format
func (s *Session) NewStore() Store {
	if s.Format == FormatSQLite {
		return NewSQLiteStore()
	}
	return NewJSONStore()
}

// Load fills store from the session cache file
func (s *Session) Load(store Store) error {
	return store.Load(s.CachePath)
}

// Save persists store to the session cache file
func (s *Session) Save(store Store) error {
	return store.Save(s.CachePath)
}
