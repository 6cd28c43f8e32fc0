package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extension is the file extension of translatable presentations
const Extension = ".pptx"

// ErrNoDocuments is returned when input discovery finds nothing to translate
var ErrNoDocuments = errors.New("no .pptx files found")

// ReadInputList reads presentation paths from a file, one per line.
// Blank lines and lines starting with '#' are skipped. Relative paths are
// resolved against the directory of the list file.
func ReadInputList(filename string) ([]string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	base := filepath.Dir(filename)
	var paths []string

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}
		paths = append(paths, line)
	}

	return paths, nil
}

// FindDocuments returns the presentations in dir, sorted by name. Office
// lock files (~$name.pptx) are skipped.
func FindDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), Extension) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}

	sort.Strings(paths)
	return paths, nil
}

// ResolveInputs returns the presentations to translate: the given
// arguments followed by the entries of batchFile, or every presentation
// in dir when neither is given.
func ResolveInputs(args []string, batchFile, dir string) ([]string, error) {
	inputs := append([]string(nil), args...)

	if batchFile != "" {
		listed, err := ReadInputList(batchFile)
		if err != nil {
			return nil, err
		}
		if len(listed) == 0 {
			return nil, fmt.Errorf("%w in batch file %s", ErrNoDocuments, batchFile)
		}
		inputs = append(inputs, listed...)
	}

	if len(inputs) > 0 {
		return inputs, nil
	}

	found, err := FindDocuments(dir)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDocuments, dir)
	}
	return found, nil
}
