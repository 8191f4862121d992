// Package health runs the connection test against the configured services.
package health

import (
	"context"
	"fmt"
	"time"

	"github.com/robalyx/dolmetscher/internal/ai/persona"
	"github.com/robalyx/dolmetscher/internal/backtranslate"
	"github.com/robalyx/dolmetscher/internal/glossary"
	"github.com/robalyx/dolmetscher/internal/profile"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const (
	// ProbeChinese is translated with the professor persona.
	ProbeChinese = "测试"
	// ProbeGerman is back-translated.
	ProbeGerman = "Hallo Welt"
)

// Session provides the current profile's credentials.
type Session interface {
	Credentials(ctx context.Context) (profile.Credentials, error)
}

// Translator produces a German translation.
type Translator interface {
	Translate(ctx context.Context, credential, personaID, source string, entries []glossary.Entry) (string, error)
}

// BackTranslator produces a Chinese back-translation.
type BackTranslator interface {
	BackTranslate(ctx context.Context, creds backtranslate.Credentials, text string) backtranslate.Result
}

// Result is the outcome of one check.
type Result struct {
	Name    string
	OK      bool
	Output  string
	Err     error
	Elapsed time.Duration
}

// String renders the result as a single report line.
func (r Result) String() string {
	if r.OK {
		return fmt.Sprintf("✓ %s (%s): %s", r.Name, r.Elapsed.Round(time.Millisecond), r.Output)
	}
	if r.Err != nil {
		return fmt.Sprintf("✗ %s: %v", r.Name, r.Err)
	}
	return fmt.Sprintf("✗ %s: %s", r.Name, r.Output)
}

// Checker runs the connection test.
type Checker struct {
	translator Translator
	back       BackTranslator
	logger     *zap.Logger
}

// NewChecker creates a Checker.
func NewChecker(translator Translator, back BackTranslator, logger *zap.Logger) *Checker {
	return &Checker{
		translator: translator,
		back:       back,
		logger:     logger.Named("health"),
	}
}

// Check translates ProbeChinese and back-translates ProbeGerman concurrently.
// It fails only when the session has no usable credentials.
func (c *Checker) Check(ctx context.Context, sess Session) ([]Result, error) {
	creds, err := sess.Credentials(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 2)
	p := pool.New().WithContext(ctx)

	p.Go(func(ctx context.Context) error {
		start := time.Now()
		text, err := c.translator.Translate(ctx, creds.Primary, persona.Professor, ProbeChinese, nil)
		results[0] = Result{
			Name:    "translation",
			OK:      err == nil,
			Output:  text,
			Err:     err,
			Elapsed: time.Since(start),
		}
		return nil
	})

	p.Go(func(ctx context.Context) error {
		start := time.Now()
		res := c.back.BackTranslate(ctx, backtranslate.Credentials{
			Primary: creds.Primary,
			Vendor:  creds.Secondary,
		}, ProbeGerman)
		results[1] = Result{
			Name:    "back-translation",
			OK:      res.OK(),
			Output:  fmt.Sprintf("%s [%s]", res.Text, res.Source),
			Err:     res.Reason,
			Elapsed: time.Since(start),
		}
		return nil
	})

	_ = p.Wait()

	for _, r := range results {
		c.logger.Info("Connection check finished",
			zap.String("check", r.Name),
			zap.Bool("ok", r.OK),
			zap.Duration("elapsed", r.Elapsed),
			zap.Error(r.Err))
	}

	return results, nil
}
