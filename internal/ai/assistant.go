package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/robalyx/dolmetscher/internal/ai/client"
)

// Assistant answers questions about the German language and life in Germany.
type Assistant struct {
	completer client.Completer
	settings  client.Settings
}

// NewAssistant creates an Assistant. An empty model keeps the default.
func NewAssistant(completer client.Completer, model string) *Assistant {
	return &Assistant{completer: completer, settings: assistantSettings.WithModel(model)}
}

// Ask answers question in Chinese.
func (a *Assistant) Ask(ctx context.Context, credential, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyInput
	}

	return a.completer.Complete(ctx, client.Call{
		Credential: credential,
		Title:      client.TitleAssistant,
		Params:     a.settings.Text(fmt.Sprintf(AssistantPrompt, question)),
	})
}
