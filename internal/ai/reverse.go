package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/robalyx/dolmetscher/internal/ai/client"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// UnknownLanguage is reported when language detection fails.
const UnknownLanguage = "未知"

// LanguageClass is the coarse result of language detection.
type LanguageClass int

const (
	// LanguageUnknown means detection failed or was inconclusive.
	LanguageUnknown LanguageClass = iota
	// LanguageGerman means the input is German.
	LanguageGerman
	// LanguageOther means the input is some other language.
	LanguageOther
)

// String returns the name of the class.
func (c LanguageClass) String() string {
	switch c {
	case LanguageGerman:
		return "german"
	case LanguageOther:
		return "non-german"
	case LanguageUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// ClassifyLanguage maps a detected language name to its class.
func ClassifyLanguage(name string) LanguageClass {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "德") || strings.Contains(lower, "german") || lower == "deutsch":
		return LanguageGerman
	case name == UnknownLanguage || strings.Contains(lower, "unknown"):
		return LanguageUnknown
	default:
		return LanguageOther
	}
}

// ReverseResult is a German to Chinese translation with the detected input language.
type ReverseResult struct {
	Translation string
	Language    string
	Class       LanguageClass
}

// ReverseTranslator translates German into Chinese while detecting the input language.
type ReverseTranslator struct {
	completer client.Completer
	translate client.Settings
	detect    client.Settings
	logger    *zap.Logger
}

// NewReverseTranslator creates a ReverseTranslator. An empty model keeps the default.
func NewReverseTranslator(completer client.Completer, model string, logger *zap.Logger) *ReverseTranslator {
	return &ReverseTranslator{
		completer: completer,
		translate: reverseSettings.WithModel(model),
		detect:    detectSettings.WithModel(model),
		logger:    logger.Named("reverse_translator"),
	}
}

// Translate runs the translation and language detection concurrently. A
// failed detection degrades to UnknownLanguage and never fails the call.
func (r *ReverseTranslator) Translate(ctx context.Context, credential, german string) (*ReverseResult, error) {
	if strings.TrimSpace(german) == "" {
		return nil, ErrEmptyInput
	}

	var (
		p           = pool.New().WithContext(ctx)
		translation string
		language    = UnknownLanguage
	)

	p.Go(func(ctx context.Context) error {
		detected, err := r.completer.Complete(ctx, client.Call{
			Credential: credential,
			Title:      client.TitleDetect,
			Params:     r.detect.Text(fmt.Sprintf(DetectPrompt, german)),
		})
		if err != nil {
			r.logger.Debug("Language detection failed", zap.Error(err))
			return nil
		}
		language = detected
		return nil
	})

	p.Go(func(ctx context.Context) error {
		result, err := r.completer.Complete(ctx, client.Call{
			Credential: credential,
			Title:      client.TitleReverse,
			Params:     r.translate.Text(fmt.Sprintf(ReversePrompt, german)),
		})
		if err != nil {
			return err
		}
		translation = result
		return nil
	})

	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}

	return &ReverseResult{
		Translation: translation,
		Language:    language,
		Class:       ClassifyLanguage(language),
	}, nil
}
