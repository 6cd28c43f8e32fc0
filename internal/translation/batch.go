package translation

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/slidetrans/internal"
)

// DefaultDelay separates consecutive remote calls
const DefaultDelay = 100 * time.Millisecond

// TextTranslator translates a single text
type TextTranslator interface {
	Translate(ctx context.Context, text, targetLang, hint string) (Translation, error)
}

// BatchOptions controls batch pacing and progress output
type BatchOptions struct {
	Delay    time.Duration
	Verbose  bool      // one log line per item instead of the progress bar
	Progress io.Writer // progress bar output, stdout when nil
}

// Batch translates ordered lists of texts one item at a time
type Batch struct {
	translator TextTranslator
	opts       BatchOptions
	logger     *zap.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewBatch creates a batch translator
func NewBatch(translator TextTranslator, opts BatchOptions, logger *zap.Logger) *Batch {
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	if opts.Progress == nil {
		opts.Progress = os.Stdout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Batch{
		translator: translator,
		opts:       opts,
		logger:     logger,
		sleep:      sleepContext,
	}
}

// TranslateBatch returns texts translated into targetLang, in input order
// and with the same length. Blank entries are passed through and not
// counted; any entry that fails keeps its original text. If ctx is canceled
// the remaining entries keep their original text too.
func (b *Batch) TranslateBatch(ctx context.Context, texts []string, targetLang, hint string) []string {
	results := make([]string, len(texts))
	copy(results, texts)

	var pending []int
	for i, text := range texts {
		if strings.TrimSpace(text) != "" {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return results
	}

	total := len(pending)
	b.logger.Info(fmt.Sprintf("Starting translation of %d texts to %s", total, targetLang))

	var progress *ProgressBar
	if !b.opts.Verbose {
		progress = NewProgressBar(b.opts.Progress, total, "Translating to "+targetLang)
	}

	failed, processed := 0, 0
	for n, i := range pending {
		if err := ctx.Err(); err != nil {
			b.logger.Warn("Translation interrupted", zap.Int("remaining", total-n), zap.Error(err))
			break
		}

		text := texts[i]
		if b.opts.Verbose {
			b.logger.Info(fmt.Sprintf("Translating %d/%d: %s", n+1, total, internal.Truncate(text, 50)))
		} else {
			progress.Update(n+1, text)
		}

		tr, err := b.translator.Translate(ctx, text, targetLang, hint)
		if err != nil {
			failed++
			b.logger.Debug("Keeping original text", zap.Int("item", n+1), zap.Error(err))
			results[i] = text
		} else {
			results[i] = tr.Text
		}
		processed++

		// cancellation during the pause is picked up at the top of the loop
		if tr.Remote && n < total-1 && b.opts.Delay > 0 {
			_ = b.sleep(ctx, b.opts.Delay)
		}
	}

	if progress != nil {
		progress.Finish()
	}

	b.logger.Info(fmt.Sprintf("Translation completed: %d texts processed", processed), zap.Int("failed", failed))
	return results
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
