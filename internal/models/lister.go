package models

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"codeberg.org/snonux/slidetrans/internal"
	"codeberg.org/snonux/slidetrans/internal/translation"
)

const (
	// DefaultVerifyTimeout bounds each model check
	DefaultVerifyTimeout = 10 * time.Second

	verifyPrompt = "Hello"
	verifyPause  = 500 * time.Millisecond
)

// ErrNoGenerator is returned when an operation needs the remote API but no
// API key was configured
var ErrNoGenerator = errors.New("API key not set: set GEMINI_API_KEY (or OPENAI_API_KEY) or use -k")

var knownModels = []translation.ModelInfo{
	{ID: "gemini-2.5-flash", Description: "Latest Gemini 2.5 flash model (fastest and most efficient)"},
	{ID: "gemini-2.5-pro", Description: "Latest Gemini 2.5 pro model (most capable)"},
	{ID: "gemini-2.0-flash-exp", Description: "Previous experimental flash model"},
	{ID: "gemini-2.0-flash", Description: "Previous stable flash model"},
	{ID: "gemini-2.0-pro", Description: "Previous pro model"},
	{ID: "gemini-1.5-flash", Description: "Legacy flash model"},
	{ID: "gemini-1.5-pro", Description: "Legacy pro model"},
	{ID: "gemini-1.5-flash-exp", Description: "Legacy experimental flash"},
	{ID: "gemini-1.5-pro-exp", Description: "Legacy experimental pro"},
}

// VerifyCandidates are the models checked by VerifyModels by default, in
// order of preference
var VerifyCandidates = []string{
	"gemini-2.5-flash",
	"gemini-2.5-pro",
	"gemini-2.0-flash",
	"gemini-2.0-pro",
	"gemini-1.5-flash",
	"gemini-1.5-pro",
}

// KnownModels returns the Gemini models slidetrans knows about
func KnownModels() []translation.ModelInfo {
	return append([]translation.ModelInfo(nil), knownModels...)
}

// IsKnown reports whether model is one of the known Gemini models
func IsKnown(model string) bool {
	for _, m := range knownModels {
		if m.ID == model {
			return true
		}
	}
	return false
}

// Lister handles listing and checking models of one provider
type Lister struct {
	generator translation.Generator
	timeout   time.Duration
	pause     time.Duration
}

// NewLister creates a new model lister. generator may be nil when no API
// key is configured; only the known models can be listed then.
func NewLister(generator translation.Generator) *Lister {
	return &Lister{
		generator: generator,
		timeout:   DefaultVerifyTimeout,
		pause:     verifyPause,
	}
}

// ListAvailableModels prints the known models, then the models reported by
// the provider when it supports listing
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	fmt.Fprintln(w, "Available Gemini models:")
	for _, m := range knownModels {
		fmt.Fprintf(w, "  %s: %s\n", m.ID, m.Description)
	}

	if l.generator == nil {
		fmt.Fprintln(w, "\nSet an API key to also list the models offered by the provider.")
		return nil
	}

	lister, ok := l.generator.(translation.ModelLister)
	if !ok {
		return nil
	}

	remote, err := lister.ListModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\nModels offered by %s for this API key:\n", l.generator.Name())
	if len(remote) == 0 {
		fmt.Fprintln(w, "  No models found")
	}
	for _, m := range remote {
		if m.Description != "" {
			fmt.Fprintf(w, "  %s (%s)\n", m.ID, m.Description)
		} else {
			fmt.Fprintf(w, "  %s\n", m.ID)
		}
	}
	return nil
}

// VerifyModels sends a short prompt to each model and prints whether it
// answered. It returns the models that did, in the order given.
func (l *Lister) VerifyModels(ctx context.Context, w io.Writer, models []string) ([]string, error) {
	if l.generator == nil {
		return nil, ErrNoGenerator
	}
	if len(models) == 0 {
		models = VerifyCandidates
	}

	fmt.Fprintf(w, "Verifying available %s models...\n", l.generator.Name())
	fmt.Fprintln(w, strings.Repeat("=", 50))

	var available []string
	for i, model := range models {
		if err := ctx.Err(); err != nil {
			fmt.Fprintln(w, "\nVerification interrupted")
			return available, err
		}

		fmt.Fprintf(w, "Testing %s... ", model)
		status, ok := l.check(ctx, model)
		fmt.Fprintln(w, status)
		if ok {
			available = append(available, model)
		}

		if i < len(models)-1 && l.pause > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(l.pause):
			}
		}
	}

	printVerifySummary(w, available)
	return available, nil
}

func (l *Lister) check(ctx context.Context, model string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	text, err := l.generator.Generate(ctx, model, verifyPrompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = translation.ErrEmptyResponse
	}
	if err == nil {
		return "✅ Available", true
	}

	switch translation.Classify(err) {
	case translation.KindTimeout:
		return "⏰ Timeout", false
	case translation.KindEmpty:
		return "❌ No response", false
	case translation.KindNotFound:
		return "❌ Not available", false
	case translation.KindQuota:
		return "❌ Quota exceeded", false
	case translation.KindCredential:
		return "❌ Invalid API key", false
	default:
		return fmt.Sprintf("❌ Error: %s", internal.Truncate(err.Error(), 30)), false
	}
}

func printVerifySummary(w io.Writer, available []string) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 50))
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "Available models: %d\n", len(available))

	if len(available) == 0 {
		fmt.Fprintln(w, "No models available.")
		fmt.Fprintln(w, "\nTroubleshooting:")
		fmt.Fprintln(w, "1. Check your API key is correct")
		fmt.Fprintln(w, "2. Verify you have sufficient quota")
		fmt.Fprintln(w, "3. Check your internet connection")
		fmt.Fprintln(w, "4. Try again later (API might be temporarily unavailable)")
		return
	}

	for _, model := range available {
		fmt.Fprintf(w, "  ✅ %s\n", model)
	}
	fmt.Fprintf(w, "\nRecommended default: %s\n", available[0])
	fmt.Fprintf(w, "For best quality, use: %s\n", strings.Replace(available[0], "-flash", "-pro", 1))
}
