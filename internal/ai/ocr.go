package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/openai/openai-go"
	"github.com/robalyx/dolmetscher/internal/ai/client"
)

// MaxImageSize is the largest image accepted for text extraction.
const MaxImageSize = 10 * 1024 * 1024

var (
	// ErrNotImage is returned when the uploaded file is not an image.
	ErrNotImage = errors.New("file is not an image")
	// ErrImageTooLarge is returned when the image exceeds MaxImageSize.
	ErrImageTooLarge = errors.New("image exceeds 10MB")
)

// OCR extracts German and Chinese text from images with a vision model.
type OCR struct {
	completer client.Completer
	settings  client.Settings
}

// NewOCR creates an OCR. An empty model keeps the default.
func NewOCR(completer client.Completer, model string) *OCR {
	return &OCR{completer: completer, settings: ocrSettings.WithModel(model)}
}

// Extract returns a short description of the image followed by its text.
func (o *OCR) Extract(ctx context.Context, credential string, image []byte) (string, error) {
	if len(image) == 0 {
		return "", ErrEmptyInput
	}

	if len(image) > MaxImageSize {
		return "", fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(image))
	}

	mime := mimetype.Detect(image)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotImage, mime.String())
	}

	// Build a data URL without the parameters mimetype may append
	mediaType, _, _ := strings.Cut(mime.String(), ";")
	dataURL := "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(image)

	message := openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(OCRPrompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
	})

	return o.completer.Complete(ctx, client.Call{
		Credential: credential,
		Title:      client.TitleOCR,
		Params:     o.settings.Params(message),
	})
}
