package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MockGenerator is a scripted text generator. A prompt is answered with the
// translation of the first scripted source text quoted in it.
type MockGenerator struct {
	Translations map[string]string // source text -> model output
	Errors       map[string]error  // source text -> error
	Delay        time.Duration     // sleep before answering, ignoring ctx
	RespectCtx   bool              // abort the delay when ctx is done
	ProviderName string

	mu    sync.Mutex
	calls []string
}

// NewMockGenerator creates a generator answering with translations
func NewMockGenerator(translations map[string]string) *MockGenerator {
	return &MockGenerator{
		Translations: translations,
		Errors:       make(map[string]error),
	}
}

// Name returns the provider name
func (m *MockGenerator) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// Generate answers prompt from the script
func (m *MockGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	source := m.match(prompt)

	m.mu.Lock()
	m.calls = append(m.calls, source)
	m.mu.Unlock()

	if m.Delay > 0 {
		if m.RespectCtx {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(m.Delay):
			}
		} else {
			time.Sleep(m.Delay)
		}
	}

	if err, ok := m.Errors[source]; ok {
		return "", err
	}
	if out, ok := m.Translations[source]; ok {
		return out, nil
	}
	return "", fmt.Errorf("mock: no response scripted for prompt")
}

// Calls returns the source texts requested so far, in call order
func (m *MockGenerator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallCount returns the number of Generate calls
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *MockGenerator) match(prompt string) string {
	for source := range m.Errors {
		if strings.Contains(prompt, `"`+source+`"`) {
			return source
		}
	}
	for source := range m.Translations {
		if strings.Contains(prompt, `"`+source+`"`) {
			return source
		}
	}
	return ""
}
