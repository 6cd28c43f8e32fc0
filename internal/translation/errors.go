package translation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"google.golang.org/genai"

	"codeberg.org/snonux/slidetrans/internal"
)

// Kind classifies why a translation failed
type Kind string

const (
	KindTimeout     Kind = "timeout"
	KindQuota       Kind = "quota"
	KindCredential  Kind = "credential"
	KindNotFound    Kind = "not_found"
	KindEmpty       Kind = "empty_response"
	KindUnavailable Kind = "unavailable"
	KindCanceled    Kind = "canceled"
	KindOther       Kind = "other"
)

// ErrEmptyResponse is returned when the model answered without text
var ErrEmptyResponse = errors.New("empty response from model")

// Error describes one failed translation. The text it refers to is kept
// unchanged in the document.
type Error struct {
	Kind     Kind
	Text     string
	Language string
	Model    string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("translation %s for '%s' (%s, %s): %v", e.Kind, internal.Truncate(e.Text, 50), e.Language, e.Model, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify maps a generator error to a Kind. Typed API errors are checked
// by status code first, then the message is searched for known phrases.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return KindUnavailable
	case errors.Is(err, ErrEmptyResponse):
		return KindEmpty
	}

	if kind := classifyStatus(statusCode(err)); kind != "" {
		return kind
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "quota", "resource_exhausted", "resource exhausted", "rate limit"):
		return KindQuota
	case containsAny(msg, "api key", "api_key", "invalid key", "unauthenticated", "permission denied", "incorrect api key"):
		return KindCredential
	case containsAny(msg, "not found", "doesn't exist", "does not exist"):
		return KindNotFound
	default:
		return KindOther
	}
}

func statusCode(err error) int {
	var geminiErr genai.APIError
	if errors.As(err, &geminiErr) {
		return geminiErr.Code
	}
	var geminiErrPtr *genai.APIError
	if errors.As(err, &geminiErrPtr) && geminiErrPtr != nil {
		return geminiErrPtr.Code
	}
	var openaiErr *openai.APIError
	if errors.As(err, &openaiErr) {
		return openaiErr.HTTPStatusCode
	}
	var requestErr *openai.RequestError
	if errors.As(err, &requestErr) {
		return requestErr.HTTPStatusCode
	}
	return 0
}

func classifyStatus(code int) Kind {
	switch code {
	case http.StatusTooManyRequests:
		return KindQuota
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindCredential
	case http.StatusNotFound:
		return KindNotFound
	default:
		return ""
	}
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
