package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/robalyx/dolmetscher/internal/ai/client"
	"go.uber.org/zap"
)

// ErrUnknownTransform is returned for unsupported transform names.
var ErrUnknownTransform = errors.New("unknown transform")

// TransformKind is a post-edit operation on a translation task.
type TransformKind int

const (
	// RegisterFlip swaps Du and Sie in the German target.
	RegisterFlip TransformKind = iota
	// DashRemoval replaces connector dashes in the German target with commas.
	DashRemoval
	// EmojiRemoval strips emoji from the German target.
	EmojiRemoval
	// CommentStrip removes notes and numbering from the Chinese source.
	CommentStrip
)

var transformNames = map[TransformKind]string{
	RegisterFlip: "register-flip",
	DashRemoval:  "dash-removal",
	EmojiRemoval: "emoji-removal",
	CommentStrip: "comment-strip",
}

// String returns the name of the transform.
func (k TransformKind) String() string {
	if name, ok := transformNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TransformKind(%d)", int(k))
}

// OnSource reports whether the transform edits the Chinese source rather than the target.
func (k TransformKind) OnSource() bool {
	return k == CommentStrip
}

// ParseTransformKind resolves a transform by name.
func ParseTransformKind(name string) (TransformKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, n := range transformNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownTransform, name)
}

// Transformer applies post-edit transforms through the completion service.
type Transformer struct {
	completer client.Completer
	settings  client.Settings
	logger    *zap.Logger
}

// NewTransformer creates a Transformer. An empty model keeps the default.
func NewTransformer(completer client.Completer, model string, logger *zap.Logger) *Transformer {
	return &Transformer{
		completer: completer,
		settings:  transformSettings.WithModel(model),
		logger:    logger.Named("transformer"),
	}
}

// Transform runs the transform on text and returns the rewritten text.
func (t *Transformer) Transform(ctx context.Context, credential string, kind TransformKind, text string) (string, error) {
	var (
		prompt string
		title  string
	)

	switch kind {
	case RegisterFlip:
		prompt, title = RegisterFlipPrompt, client.TitleRegisterFlip
	case DashRemoval:
		prompt, title = DashRemovalPrompt, client.TitleDashRemoval
	case EmojiRemoval:
		prompt, title = EmojiRemovalPrompt, client.TitleEmojiRemoval
	case CommentStrip:
		prompt, title = CommentStripPrompt, client.TitleCommentStrip
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownTransform, kind)
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	result, err := t.completer.Complete(ctx, client.Call{
		Credential: credential,
		Title:      title,
		Params:     t.settings.Text(fmt.Sprintf(prompt, text)),
	})
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", kind, err)
	}

	t.logger.Debug("Applied transform", zap.Stringer("kind", kind))
	return result, nil
}

// Direction is the target form of address of a conversion.
type Direction int

const (
	// ToDu converts to the informal form.
	ToDu Direction = iota
	// ToSie converts to the formal form.
	ToSie
)

// ParseDirection resolves "du" or "sie".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "du":
		return ToDu, nil
	case "sie":
		return ToSie, nil
	default:
		return 0, fmt.Errorf("%w: direction %q", ErrUnknownTransform, s)
	}
}

// Converter converts German text to a fixed form of address.
type Converter struct {
	completer client.Completer
	settings  client.Settings
}

// NewConverter creates a Converter. An empty model keeps the default.
func NewConverter(completer client.Completer, model string) *Converter {
	return &Converter{completer: completer, settings: transformSettings.WithModel(model)}
}

// Convert rewrites text into the requested form of address.
func (c *Converter) Convert(ctx context.Context, credential string, dir Direction, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	prompt := ToDuPrompt
	if dir == ToSie {
		prompt = ToSiePrompt
	}

	return c.completer.Complete(ctx, client.Call{
		Credential: credential,
		Title:      client.TitleConvert,
		Params:     c.settings.Text(fmt.Sprintf(prompt, text)),
	})
}
