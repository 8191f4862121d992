package relay

import (
	"errors"
	"fmt"
)

// Default language pair of the back-translation relay.
const (
	DefaultSourceLang = "DE"
	DefaultTargetLang = "ZH"
)

// Error codes returned by the relay.
const (
	CodeMissingText           = "MISSING_TEXT"
	CodeMissingAPIKey         = "MISSING_API_KEY"
	CodeTextTooLong           = "TEXT_TOO_LONG"
	CodeBadRequest            = "BAD_REQUEST"
	CodeInvalidAPIKey         = "INVALID_API_KEY"
	CodeRateLimit             = "RATE_LIMIT"
	CodeQuotaExceeded         = "QUOTA_EXCEEDED"
	CodeServiceUnavailable    = "SERVICE_UNAVAILABLE"
	CodeDeepLError            = "DEEPL_ERROR"
	CodeInvalidResponseFormat = "INVALID_RESPONSE_FORMAT"
	CodeFunctionError         = "FUNCTION_ERROR"
)

var (
	// ErrInvalidResponse indicates the vendor or relay returned an unusable payload.
	ErrInvalidResponse = errors.New("invalid response format")
	// ErrEmptyTranslation indicates the relay reported success without a translation.
	ErrEmptyTranslation = errors.New("empty translation")
	// ErrRelayNotConfigured indicates no relay URL is configured.
	ErrRelayNotConfigured = errors.New("relay not configured")
)

// Request is the body accepted by the relay.
type Request struct {
	Text       string `json:"text"`
	APIKey     string `json:"apiKey"`
	SourceLang string `json:"source_lang,omitempty"`
	TargetLang string `json:"target_lang,omitempty"`
}

// Response is the success body returned by the relay.
type Response struct {
	Success                bool   `json:"success"`
	Translation            string `json:"translation"`
	DetectedSourceLanguage string `json:"detected_source_language,omitempty"`
	SourceLang             string `json:"source_lang"`
	TargetLang             string `json:"target_lang"`
}

// ErrorResponse is the failure body returned by the relay.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
	Message string         `json:"message,omitempty"`
}

// RelayError is returned by the Client when the relay answers with a non-2xx status.
type RelayError struct {
	Status  int
	Code    string
	Message string
}

func (e *RelayError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("relay request failed (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("relay request failed (%d %s): %s", e.Status, e.Code, e.Message)
}

// VendorError is returned by DeepL when the vendor answers with a non-2xx status.
type VendorError struct {
	Status  int
	Message string
	Details map[string]any
}

func (e *VendorError) Error() string {
	return fmt.Sprintf("deepl request failed (%d): %s", e.Status, e.Message)
}

// Retryable reports whether the vendor status is worth retrying.
func (e *VendorError) Retryable() bool {
	return e.Status == 429 || e.Status == 503
}
