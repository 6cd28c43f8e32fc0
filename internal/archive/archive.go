package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CachePrefix starts the name of every translation cache file
const CachePrefix = "translation_cache_"

// ArchiveCaches moves the translation cache files in dir into a new
// timestamped directory under dir/archive. It returns the archive path and
// the number of files moved; nothing is created when dir holds no cache files.
func ArchiveCaches(dir string) (string, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var caches []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), CachePrefix) {
			caches = append(caches, entry.Name())
		}
	}
	if len(caches) == 0 {
		return "", 0, nil
	}

	archiveDir := filepath.Join(dir, "archive")

	// Generate timestamp
	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, "cache-"+timestamp)

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, "cache-"+timestamp)
	}

	if err := os.MkdirAll(archivePath, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create archive directory: %w", err)
	}

	for i, name := range caches {
		if err := os.Rename(filepath.Join(dir, name), filepath.Join(archivePath, name)); err != nil {
			return archivePath, i, fmt.Errorf("failed to archive %s: %w", name, err)
		}
	}

	return archivePath, len(caches), nil
}
