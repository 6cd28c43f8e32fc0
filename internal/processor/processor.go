package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"codeberg.org/snonux/slidetrans/internal/cache"
	"codeberg.org/snonux/slidetrans/internal/cli"
	"codeberg.org/snonux/slidetrans/internal/pptx"
	"codeberg.org/snonux/slidetrans/internal/translation"
)

// Processor translates presentations one after another
type Processor struct {
	flags       *cli.Flags
	generator   translation.Generator
	cacheFormat cache.Format
	logger      *zap.Logger
	out         io.Writer
}

// Result describes one processed presentation
type Result struct {
	Input    string
	Output   string // equals Input when the deck had no text
	Units    int
	Size     int64
	Duration time.Duration
	Stats    translation.Stats
	Skipped  bool
}

// Summary describes a run over several presentations
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
	Duration  time.Duration
	Stats     translation.Stats
}

// NewProcessor creates a processor for the provider selected in flags.
// It fails with ErrNoAPIKey when no key can be found.
func NewProcessor(ctx context.Context, flags *cli.Flags, logger *zap.Logger) (*Processor, error) {
	provider, err := translation.ParseProvider(flags.Provider)
	if err != nil {
		return nil, err
	}

	apiKey := cli.GetAPIKey(provider, flags.APIKey)
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	generator, err := translation.NewGenerator(ctx, provider, apiKey, flags.BaseURL)
	if err != nil {
		return nil, err
	}
	if flags.Model == "" {
		flags.Model = translation.DefaultModel(provider)
	}

	return NewProcessorWithGenerator(flags, generator, logger)
}

// NewProcessorWithGenerator creates a processor around an existing generator
func NewProcessorWithGenerator(flags *cli.Flags, generator translation.Generator, logger *zap.Logger) (*Processor, error) {
	format, err := cache.ParseFormat(flags.CacheFormat)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Processor{
		flags:       flags,
		generator:   translation.NewBreakerGenerator(generator, uint32(flags.BreakerThreshold), flags.BreakerCooldown, logger),
		cacheFormat: format,
		logger:      logger,
		out:         os.Stdout,
	}, nil
}

// SetOutput redirects progress and summary output, stdout by default
func (p *Processor) SetOutput(w io.Writer) {
	p.out = w
}

func (p *Processor) progressOutput() io.Writer {
	if p.flags.Quiet {
		return io.Discard
	}
	return p.out
}

// OutputPath returns where the translation of input is written. An
// explicit path wins unless it names an existing directory, in which case
// the derived file name is placed inside it. The derived name is
// <stem>_translated_<lang><ext> next to the input.
func OutputPath(input, lang, explicit string) string {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	name := fmt.Sprintf("%s_translated_%s%s", strings.TrimSuffix(base, ext), lang, ext)

	if explicit == "" {
		return filepath.Join(filepath.Dir(input), name)
	}
	if isDir(explicit) {
		return filepath.Join(explicit, name)
	}
	return explicit
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ProcessFile translates one presentation and returns where it was written.
// Load and save failures are returned as *DocumentError; translation
// failures of single texts only leave those texts untranslated.
func (p *Processor) ProcessFile(ctx context.Context, input string) (Result, error) {
	start := time.Now()
	lang := p.flags.Language
	result := Result{Input: input, Output: input}

	cacheDir := p.flags.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Dir(input)
	}
	session := cache.NewSession(input, lang, cacheDir, p.cacheFormat)
	logger := p.logger.With(zap.String("session", session.ID), zap.String("file", input))

	logger.Info(fmt.Sprintf("Starting translation of %s to %s", input, lang))

	deck, err := pptx.Open(input)
	if err != nil {
		logger.Error("Failed to load presentation", zap.Error(err))
		return result, &DocumentError{Op: OpLoad, Path: input, Err: err}
	}
	logger.Info(fmt.Sprintf("Loaded presentation with %d slides", len(deck.Slides())))

	units := deck.Units()
	result.Units = len(units)
	logger.Info(fmt.Sprintf("Extracted %d text elements", len(units)))

	if len(units) == 0 {
		logger.Warn("No text found in presentation")
		result.Skipped = true
		result.Duration = time.Since(start)
		return result, nil
	}

	store := session.NewStore()
	if !p.flags.NoCache {
		if err := session.Load(store); err != nil {
			logger.Warn("Failed to load cache, starting empty", zap.Error(err))
		} else if store.Len() > 0 {
			logger.Info(fmt.Sprintf("Loaded %d cached translations", store.Len()), zap.String("cache", session.CachePath))
		}
	}

	translator := translation.NewTranslator(p.generator, store, translation.Config{
		Model:   p.flags.Model,
		Timeout: p.flags.Timeout,
	}, logger)
	batch := translation.NewBatch(translator, translation.BatchOptions{
		Delay:    p.flags.Delay,
		Verbose:  p.flags.Verbose,
		Progress: p.progressOutput(),
	}, logger)

	translated := batch.TranslateBatch(ctx, pptx.Texts(units), lang, p.flags.Context)
	result.Stats = translator.Stats()

	saveErr := p.save(deck, units, translated, input, logger, &result)

	// translations already paid for are kept even if the deck could not be written
	if !p.flags.NoCache {
		if err := session.Save(store); err != nil {
			logger.Warn("Failed to save cache", zap.Error(err))
		}
	}

	result.Duration = time.Since(start)
	if saveErr != nil {
		result.Output = input
		return result, saveErr
	}

	if p.flags.Profile {
		logger.Info(fmt.Sprintf("Processing time: %.2f seconds", result.Duration.Seconds()))
	}
	return result, nil
}

func (p *Processor) save(deck *pptx.Deck, units []pptx.Unit, translated []string, input string, logger *zap.Logger, result *Result) error {
	output := OutputPath(input, p.flags.Language, p.flags.Output)

	if err := deck.Apply(units, translated); err != nil {
		logger.Error("Failed to apply translations", zap.Error(err))
		return &DocumentError{Op: OpSave, Path: output, Err: err}
	}

	if err := deck.Save(output); err != nil {
		logger.Error("Failed to save translated presentation", zap.Error(err))
		return &DocumentError{Op: OpSave, Path: output, Err: err}
	}

	result.Output = output
	if info, err := os.Stat(output); err == nil {
		result.Size = info.Size()
	}
	logger.Info(fmt.Sprintf("Saved translated presentation to %s (%s)", output, humanize.Bytes(uint64(result.Size))))
	return nil
}

// ProcessFiles translates inputs one after another. A failing presentation
// is logged and counted and the next one is still attempted. The returned
// error is non-nil if any presentation failed or the run was canceled.
func (p *Processor) ProcessFiles(ctx context.Context, inputs []string) (Summary, error) {
	var summary Summary

	if len(inputs) > 1 && p.flags.Output != "" && !isDir(p.flags.Output) {
		return summary, ErrOutputNotDirectory
	}

	start := time.Now()
	for i, input := range inputs {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("Run interrupted", zap.Int("remaining", len(inputs)-i))
			break
		}

		if len(inputs) > 1 {
			fmt.Fprintf(p.out, "\nProcessing %d/%d: %s\n", i+1, len(inputs), input)
		}

		result, err := p.ProcessFile(ctx, input)
		summary.Stats.Add(result.Stats)

		switch {
		case err != nil:
			p.logger.Error(fmt.Sprintf("Failed to translate %s", input), zap.Error(err))
			summary.Failed++
		case result.Skipped:
			summary.Skipped++
		default:
			p.logger.Info(fmt.Sprintf("Successfully translated %s -> %s", input, result.Output))
			summary.Processed++
		}
	}
	summary.Duration = time.Since(start)

	p.printSummary(len(inputs), summary)

	if p.flags.Profile {
		p.logger.Info(fmt.Sprintf("Total processing time: %.2f seconds", summary.Duration.Seconds()))
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	if summary.Failed > 0 {
		return summary, fmt.Errorf("%d of %d presentations failed", summary.Failed, len(inputs))
	}
	return summary, nil
}

func (p *Processor) printSummary(total int, s Summary) {
	fmt.Fprintf(p.out, "\n=== Translation Summary ===\n")
	fmt.Fprintf(p.out, "Presentations: %d\n", total)
	fmt.Fprintf(p.out, "Translated: %d\n", s.Processed)
	if s.Skipped > 0 {
		fmt.Fprintf(p.out, "Skipped (no text): %d\n", s.Skipped)
	}
	if s.Failed > 0 {
		fmt.Fprintf(p.out, "Failed: %d\n", s.Failed)
	}
	fmt.Fprintf(p.out, "Texts: %d translated, %d from cache, %d kept original\n",
		s.Stats.Translated, s.Stats.CacheHits, s.Stats.Failed)
	fmt.Fprintf(p.out, "Time: %s\n", s.Duration.Round(time.Millisecond))
	fmt.Fprintf(p.out, "===========================\n")
}
