package processor

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAPIKey is returned before any work when no credential is configured
	ErrNoAPIKey = errors.New("API key not provided: set GEMINI_API_KEY (or OPENAI_API_KEY) or use -k")

	// ErrOutputNotDirectory is returned when several decks share one
	// explicit output path that is not a directory
	ErrOutputNotDirectory = errors.New("output must be an existing directory when translating several presentations")
)

// Op names the document step that failed
type Op string

const (
	OpLoad Op = "load"
	OpSave Op = "save"
)

// DocumentError is a fatal failure for one presentation. Other
// presentations of the same run are still processed.
type DocumentError struct {
	Op   Op
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("failed to %s presentation %s: %v", e.Op, e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}
