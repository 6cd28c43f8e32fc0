package translation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/slidetrans/internal/cache"
	"codeberg.org/snonux/slidetrans/internal/testutil"
)

func newTestTranslator(gen Generator, store cache.Store, timeout time.Duration) *Translator {
	return NewTranslator(gen, store, Config{Model: "test-model", Timeout: timeout}, nil)
}

func TestNewTranslatorDefaults(t *testing.T) {
	tr := NewTranslator(testutil.NewMockGenerator(nil), nil, Config{}, nil)

	if tr.Model() != DefaultGeminiModel {
		t.Errorf("Expected default model %s, got %s", DefaultGeminiModel, tr.Model())
	}
	if tr.timeout != DefaultTimeout {
		t.Errorf("Expected default timeout %v, got %v", DefaultTimeout, tr.timeout)
	}
	if tr.cache == nil {
		t.Error("Expected a cache store to be created")
	}
}

func TestTranslateBlankText(t *testing.T) {
	gen := testutil.NewMockGenerator(nil)
	tr := newTestTranslator(gen, nil, time.Second)

	for _, text := range []string{"", "   ", "\n\t"} {
		got, err := tr.Translate(context.Background(), text, "es", DefaultContext)
		if err != nil {
			t.Errorf("Translate(%q) returned error: %v", text, err)
		}
		if got.Text != text {
			t.Errorf("Translate(%q) = %q, want unchanged", text, got.Text)
		}
		if got.Remote || got.Cached {
			t.Errorf("Translate(%q) should not touch cache or remote", text)
		}
	}

	if gen.CallCount() != 0 {
		t.Errorf("Expected no remote calls, got %d", gen.CallCount())
	}
}

func TestTranslateCachesResult(t *testing.T) {
	gen := testutil.NewMockGenerator(map[string]string{"Hello": "  Hola\n"})
	store := cache.NewJSONStore()
	tr := newTestTranslator(gen, store, time.Second)

	got, err := tr.Translate(context.Background(), "Hello", "es", DefaultContext)
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got.Text != "Hola" {
		t.Errorf("Expected trimmed 'Hola', got %q", got.Text)
	}
	if !got.Remote || got.Cached {
		t.Errorf("Expected a remote, uncached translation, got %+v", got)
	}

	if cached, ok := store.Get("Hello", "es"); !ok || cached != "Hola" {
		t.Errorf("Expected cache entry 'Hola', got %q (found=%v)", cached, ok)
	}

	// second call is served from the cache
	got, err = tr.Translate(context.Background(), "Hello", "es", DefaultContext)
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if !got.Cached || got.Remote || got.Text != "Hola" {
		t.Errorf("Expected cached 'Hola', got %+v", got)
	}
	if gen.CallCount() != 1 {
		t.Errorf("Expected 1 remote call, got %d", gen.CallCount())
	}

	stats := tr.Stats()
	if stats.Translated != 1 || stats.CacheHits != 1 || stats.Failed != 0 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestTranslateCacheIsPerLanguage(t *testing.T) {
	store := cache.NewJSONStore()
	store.Put("Hello", "fr", "Bonjour")

	gen := testutil.NewMockGenerator(map[string]string{"Hello": "Hola"})
	tr := newTestTranslator(gen, store, time.Second)

	got, _ := tr.Translate(context.Background(), "Hello", "es", DefaultContext)
	if got.Text != "Hola" {
		t.Errorf("Expected 'Hola' for es, got %q", got.Text)
	}
	if gen.CallCount() != 1 {
		t.Errorf("Expected a remote call for a different language, got %d", gen.CallCount())
	}
}

func TestTranslateFailuresKeepOriginal(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		output   string
		wantKind Kind
	}{
		{"quota", errors.New("429 RESOURCE_EXHAUSTED: quota exceeded"), "", KindQuota},
		{"credential", errors.New("API key not valid"), "", KindCredential},
		{"not found", errors.New("models/nope is not found"), "", KindNotFound},
		{"other", errors.New("connection reset by peer"), "", KindOther},
		{"empty response", nil, "   ", KindEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := testutil.NewMockGenerator(map[string]string{"Hello": tt.output})
			if tt.err != nil {
				gen.Errors["Hello"] = tt.err
			}
			store := cache.NewJSONStore()
			tr := newTestTranslator(gen, store, time.Second)

			got, err := tr.Translate(context.Background(), "Hello", "es", DefaultContext)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if got.Text != "Hello" {
				t.Errorf("Expected original text, got %q", got.Text)
			}
			if !got.Remote {
				t.Error("Expected Remote to be set for a failed call")
			}

			var terr *Error
			if !errors.As(err, &terr) {
				t.Fatalf("Expected *Error, got %T", err)
			}
			if terr.Kind != tt.wantKind {
				t.Errorf("Expected kind %s, got %s", tt.wantKind, terr.Kind)
			}
			if terr.Model != "test-model" || terr.Language != "es" {
				t.Errorf("Unexpected error context: %+v", terr)
			}

			if store.Len() != 0 {
				t.Error("Failed translations must not be cached")
			}
			if tr.Stats().Failures[tt.wantKind] != 1 {
				t.Errorf("Expected failure counted under %s, got %+v", tt.wantKind, tr.Stats().Failures)
			}
		})
	}
}

func TestTranslateTimeoutIgnoringContext(t *testing.T) {
	gen := testutil.NewMockGenerator(map[string]string{"Hello": "Hola"})
	gen.Delay = 500 * time.Millisecond
	tr := newTestTranslator(gen, nil, 20*time.Millisecond)

	start := time.Now()
	got, err := tr.Translate(context.Background(), "Hello", "es", DefaultContext)
	elapsed := time.Since(start)

	if elapsed > 300*time.Millisecond {
		t.Errorf("Translate should return at the deadline, took %v", elapsed)
	}
	if got.Text != "Hello" {
		t.Errorf("Expected original text on timeout, got %q", got.Text)
	}
	if Classify(err) != KindTimeout {
		t.Errorf("Expected timeout kind, got %s (%v)", Classify(err), err)
	}
}

func TestTranslateCanceledContext(t *testing.T) {
	gen := testutil.NewMockGenerator(map[string]string{"Hello": "Hola"})
	gen.Delay = time.Second
	gen.RespectCtx = true
	tr := newTestTranslator(gen, nil, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := tr.Translate(ctx, "Hello", "es", DefaultContext)
	if got.Text != "Hello" {
		t.Errorf("Expected original text, got %q", got.Text)
	}
	if Classify(err) != KindCanceled {
		t.Errorf("Expected canceled kind, got %s", Classify(err))
	}
}

type panicGenerator struct{}

func (panicGenerator) Name() string { return "panic" }

func (panicGenerator) Generate(context.Context, string, string) (string, error) {
	panic("boom")
}

func TestTranslateRecoversGeneratorPanic(t *testing.T) {
	tr := newTestTranslator(panicGenerator{}, nil, time.Second)

	got, err := tr.Translate(context.Background(), "Hello", "es", DefaultContext)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Expected panic surfaced as error, got %v", err)
	}
	if got.Text != "Hello" {
		t.Errorf("Expected original text, got %q", got.Text)
	}
}

func TestStatsAdd(t *testing.T) {
	var total Stats
	total.Add(Stats{Translated: 2, CacheHits: 1, Failed: 1, Failures: map[Kind]int{KindQuota: 1}})
	total.Add(Stats{Translated: 1, Failed: 2, Failures: map[Kind]int{KindQuota: 1, KindTimeout: 1}})

	if total.Translated != 3 || total.CacheHits != 1 || total.Failed != 3 {
		t.Errorf("Unexpected totals: %+v", total)
	}
	if total.Failures[KindQuota] != 2 || total.Failures[KindTimeout] != 1 {
		t.Errorf("Unexpected failure counts: %+v", total.Failures)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Quarterly results", "es", DefaultContext)

	for _, want := range []string{
		"Translate the following text to es",
		"Context: PowerPoint presentation content",
		`Text to translate: "Quarterly results"`,
		"Return only the translated text",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q:\n%s", want, prompt)
		}
	}
}
