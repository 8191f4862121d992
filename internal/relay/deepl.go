package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/robalyx/dolmetscher/internal/setup/config"
	"github.com/robalyx/dolmetscher/pkg/utils"
	"go.uber.org/zap"
)

// Translation is a single DeepL translation result.
type Translation struct {
	Text                   string `json:"text"`
	DetectedSourceLanguage string `json:"detected_source_language"`
}

type deeplResponse struct {
	Translations []Translation `json:"translations"`
}

// DeepL calls the DeepL translate endpoint.
type DeepL struct {
	http      *resty.Client
	url       string
	userAgent string
	retry     utils.RetryOptions
	logger    *zap.Logger
}

// NewDeepL creates a DeepL vendor client.
func NewDeepL(cfg *config.RelayConfig, retry utils.RetryOptions, logger *zap.Logger) *DeepL {
	c := resty.New().
		SetTimeout(time.Duration(cfg.RequestTimeout) * time.Millisecond).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	return &DeepL{
		http:      c,
		url:       cfg.DeepLURL,
		userAgent: cfg.UserAgent,
		retry:     retry,
		logger:    logger.Named("deepl"),
	}
}

// Translate translates text with the given DeepL key.
// Rate limit and service unavailable answers are retried with backoff.
func (d *DeepL) Translate(ctx context.Context, apiKey, text, sourceLang, targetLang string) (*Translation, error) {
	attempt := 0

	result, err := utils.WithRetry(ctx, func() (*Translation, error) {
		attempt++

		translation, err := d.send(ctx, apiKey, text, sourceLang, targetLang)
		if err == nil {
			return translation, nil
		}

		var vendorErr *VendorError
		if errors.As(err, &vendorErr) && vendorErr.Retryable() {
			d.logger.Warn("DeepL request throttled, retrying",
				zap.Int("status", vendorErr.Status),
				zap.Int("attempt", attempt))
			return nil, err
		}

		return nil, utils.Permanent(err)
	}, d.retry)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (d *DeepL) send(ctx context.Context, apiKey, text, sourceLang, targetLang string) (*Translation, error) {
	resp, err := d.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "DeepL-Auth-Key "+apiKey).
		SetHeader("User-Agent", d.userAgent).
		SetFormData(map[string]string{
			"text":        text,
			"source_lang": sourceLang,
			"target_lang": targetLang,
		}).
		Post(d.url)
	if err != nil {
		return nil, fmt.Errorf("deepl request: %w", err)
	}

	if resp.IsError() {
		return nil, newVendorError(resp)
	}

	var payload deeplResponse
	if err := sonic.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if len(payload.Translations) == 0 {
		return nil, ErrInvalidResponse
	}

	return &payload.Translations[0], nil
}

// newVendorError builds a VendorError from a failed response.
// The body is parsed on a best-effort basis.
func newVendorError(resp *resty.Response) *VendorError {
	details := make(map[string]any)
	_ = sonic.Unmarshal(resp.Body(), &details)

	message, _ := details["message"].(string)
	if strings.TrimSpace(message) == "" {
		message = http.StatusText(resp.StatusCode())
	}

	return &VendorError{
		Status:  resp.StatusCode(),
		Message: message,
		Details: details,
	}
}
