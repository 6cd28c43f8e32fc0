package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/slidetrans/internal"
	"codeberg.org/snonux/slidetrans/internal/cache"
)

// DefaultTimeout bounds a single remote generation call
const DefaultTimeout = 30 * time.Second

// Config holds translation client settings
type Config struct {
	Model   string
	Timeout time.Duration
}

// Translation is the outcome of translating one text
type Translation struct {
	Text   string
	Cached bool // served from the cache
	Remote bool // a remote call was made, successful or not
}

// Stats counts what the client did during a session
type Stats struct {
	Translated int
	CacheHits  int
	Failed     int
	Failures   map[Kind]int
}

// Add accumulates other into s
func (s *Stats) Add(other Stats) {
	s.Translated += other.Translated
	s.CacheHits += other.CacheHits
	s.Failed += other.Failed
	for kind, n := range other.Failures {
		if s.Failures == nil {
			s.Failures = make(map[Kind]int)
		}
		s.Failures[kind] += n
	}
}

// Translator translates single texts through a Generator, consulting and
// filling a cache. It fails open: whenever a translation cannot be produced
// the original text is returned alongside the error.
type Translator struct {
	generator Generator
	cache     cache.Store
	model     string
	timeout   time.Duration
	logger    *zap.Logger
	stats     Stats
}

// NewTranslator creates a translator bound to one cache store
func NewTranslator(generator Generator, store cache.Store, cfg Config, logger *zap.Logger) *Translator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = cache.NewJSONStore()
	}

	return &Translator{
		generator: generator,
		cache:     store,
		model:     cfg.Model,
		timeout:   cfg.Timeout,
		logger:    logger,
		stats:     Stats{Failures: make(map[Kind]int)},
	}
}

// Model returns the configured model name
func (t *Translator) Model() string {
	return t.model
}

// Stats returns a copy of the counters collected so far
func (t *Translator) Stats() Stats {
	var s Stats
	s.Add(t.stats)
	return s
}

// Translate returns text translated into targetLang. Blank text comes back
// unchanged without a remote call. On failure the returned Translation still
// carries the original text and the error is a *Error.
func (t *Translator) Translate(ctx context.Context, text, targetLang, hint string) (Translation, error) {
	if strings.TrimSpace(text) == "" {
		return Translation{Text: text}, nil
	}

	if cached, ok := t.cache.Get(text, targetLang); ok {
		t.stats.CacheHits++
		t.logger.Debug("Cache hit", zap.String("text", internal.Truncate(text, 50)))
		return Translation{Text: cached, Cached: true}, nil
	}

	result := Translation{Text: text, Remote: true}

	output, err := t.generate(ctx, BuildPrompt(text, targetLang, hint))
	if err == nil {
		output = strings.TrimSpace(output)
		if output == "" {
			err = ErrEmptyResponse
		}
	}
	if err != nil {
		return result, t.fail(text, targetLang, err)
	}

	t.cache.Put(text, targetLang, output)
	t.stats.Translated++
	t.logger.Debug("Translated",
		zap.String("text", internal.Truncate(text, 50)),
		zap.String("translation", internal.Truncate(output, 50)),
	)

	result.Text = output
	return result, nil
}

// generate runs one remote call under the client deadline. The call runs on
// its own goroutine so the deadline holds even if the generator ignores ctx;
// a result arriving after the deadline is dropped.
func (t *Translator) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	type response struct {
		text string
		err  error
	}
	done := make(chan response, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- response{err: fmt.Errorf("generator panic: %v", r)}
			}
		}()
		text, err := t.generator.Generate(ctx, t.model, prompt)
		done <- response{text: text, err: err}
	}()

	select {
	case r := <-done:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (t *Translator) fail(text, targetLang string, err error) error {
	kind := Classify(err)
	t.stats.Failed++
	t.stats.Failures[kind]++

	fields := []zap.Field{
		zap.String("text", internal.Truncate(text, 50)),
		zap.String("language", targetLang),
		zap.String("model", t.model),
	}

	switch kind {
	case KindTimeout:
		t.logger.Error("Translation timeout", append(fields, zap.Duration("timeout", t.timeout))...)
	case KindQuota:
		t.logger.Error("API quota exceeded", fields...)
	case KindCredential:
		t.logger.Error("Invalid API key", fields...)
	case KindNotFound:
		t.logger.Error("Model not found", fields...)
	case KindEmpty:
		t.logger.Warn("Empty response from API", fields...)
	case KindUnavailable:
		t.logger.Warn("Provider unavailable, keeping original text", fields...)
	case KindCanceled:
		t.logger.Debug("Translation canceled", fields...)
	default:
		t.logger.Error("Translation error", append(fields, zap.Error(err))...)
	}

	var translationErr *Error
	if errors.As(err, &translationErr) {
		return translationErr
	}
	return &Error{Kind: kind, Text: text, Language: targetLang, Model: t.model, Err: err}
}
