package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/robalyx/dolmetscher/internal/ai/client"
	"github.com/robalyx/dolmetscher/internal/ai/persona"
	"github.com/robalyx/dolmetscher/internal/glossary"
	"go.uber.org/zap"
)

// ErrEmptyInput is returned when an operation receives blank text.
var ErrEmptyInput = errors.New("input text is empty")

// Request settings of each operation.
var (
	translateSettings = client.Settings{Temperature: 0.7, MaxTokens: 1000, Full: true}
	transformSettings = client.Settings{Model: "anthropic/claude-3.5-sonnet", Temperature: 0.3, MaxTokens: 1000}
	backSettings      = client.Settings{Model: "google/gemini-2.5-flash", Temperature: 0.3, MaxTokens: 500}
	grammarSettings   = client.Settings{Model: "anthropic/claude-3.5-sonnet", Temperature: 0.3, MaxTokens: 1500}
	assistantSettings = client.Settings{Model: "openai/gpt-4o-mini", Temperature: 0.7, MaxTokens: 1500}
	ocrSettings       = client.Settings{Model: "qwen/qwen2.5-vl-72b-instruct", Temperature: 0.1, MaxTokens: 2000}
	reverseSettings   = client.Settings{Model: "anthropic/claude-3.5-sonnet", Temperature: 0.3, MaxTokens: 1000}
	detectSettings    = client.Settings{Model: "anthropic/claude-3.5-sonnet", Temperature: 0.1, MaxTokens: 50}
)

// Translator turns Chinese text into German in the voice of a persona.
type Translator struct {
	completer client.Completer
	personas  *persona.Registry
	logger    *zap.Logger
}

// NewTranslator creates a Translator.
func NewTranslator(completer client.Completer, personas *persona.Registry, logger *zap.Logger) *Translator {
	return &Translator{
		completer: completer,
		personas:  personas,
		logger:    logger.Named("translator"),
	}
}

// Translate translates source using the persona's model and prompt. The
// glossary entries are injected into the prompt when present.
func (t *Translator) Translate(
	ctx context.Context, credential, personaID, source string, entries []glossary.Entry,
) (string, error) {
	model, err := t.personas.ModelFor(personaID)
	if err != nil {
		return "", err
	}

	prompt, err := t.personas.BuildPrompt(personaID, source, entries)
	if err != nil {
		return "", err
	}

	text, err := t.completer.Complete(ctx, client.Call{
		Credential: credential,
		Title:      client.TitleTranslate,
		Params:     translateSettings.WithModel(model).Text(prompt),
	})
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}

	t.logger.Debug("Translated text",
		zap.String("persona", personaID),
		zap.String("model", model),
		zap.Int("glossaryEntries", len(entries)),
		zap.Int("sourceLength", len(source)))

	return text, nil
}

// ModelBackTranslator renders German text back into Chinese with a language model.
type ModelBackTranslator struct {
	completer client.Completer
	settings  client.Settings
}

// NewModelBackTranslator creates a ModelBackTranslator. An empty model keeps the default.
func NewModelBackTranslator(completer client.Completer, model string) *ModelBackTranslator {
	return &ModelBackTranslator{
		completer: completer,
		settings:  backSettings.WithModel(model),
	}
}

// BackTranslate returns the Chinese rendering of german.
func (b *ModelBackTranslator) BackTranslate(ctx context.Context, credential, german string) (string, error) {
	return b.completer.Complete(ctx, client.Call{
		Credential: credential,
		Title:      client.TitleBackTranslate,
		Params:     b.settings.Text(fmt.Sprintf(BackTranslatePrompt, german)),
	})
}
