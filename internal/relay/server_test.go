package relay_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/robalyx/dolmetscher/internal/relay"
	"github.com/robalyx/dolmetscher/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeVendor struct {
	translation *relay.Translation
	err         error
	calls       int
}

func (f *fakeVendor) Translate(_ context.Context, _, _, _, _ string) (*relay.Translation, error) {
	f.calls++
	return f.translation, f.err
}

func newRelayConfig(deeplURL string) *config.RelayConfig {
	return &config.RelayConfig{
		DeepLURL:       deeplURL,
		UserAgent:      "Dolmetscher-Relay/test",
		MaxTextLength:  5000,
		AllowedOrigin:  "*",
		RequestTimeout: 5000,
	}
}

func postTranslate(t *testing.T, handler http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/translate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var payload map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &payload))
	return rec, payload
}

func TestServerValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{
			name:     "missing text",
			body:     `{"apiKey":"k"}`,
			wantCode: relay.CodeMissingText,
		},
		{
			name:     "missing api key",
			body:     `{"text":"Hallo"}`,
			wantCode: relay.CodeMissingAPIKey,
		},
		{
			name:     "text too long",
			body:     `{"text":"` + strings.Repeat("a", 5001) + `","apiKey":"k"}`,
			wantCode: relay.CodeTextTooLong,
		},
		{
			name:     "astral characters count twice",
			body:     `{"text":"` + strings.Repeat("😀", 2501) + `","apiKey":"k"}`,
			wantCode: relay.CodeTextTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			vendor := &fakeVendor{}
			handler := relay.NewServer(newRelayConfig(""), vendor, zap.NewNop())

			rec, payload := postTranslate(t, handler, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, payload["code"])
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Zero(t, vendor.calls)
		})
	}
}

func TestServerTextAtLimit(t *testing.T) {
	t.Parallel()

	vendor := &fakeVendor{translation: &relay.Translation{Text: "笑", DetectedSourceLanguage: "DE"}}
	handler := relay.NewServer(newRelayConfig(""), vendor, zap.NewNop())

	rec, payload := postTranslate(t, handler, `{"text":"`+strings.Repeat("😀", 2500)+`","apiKey":"k"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, 1, vendor.calls)
}

func TestServerTranslate(t *testing.T) {
	t.Parallel()

	vendor := &fakeVendor{translation: &relay.Translation{Text: "你好世界", DetectedSourceLanguage: "DE"}}
	handler := relay.NewServer(newRelayConfig(""), vendor, zap.NewNop())

	rec, payload := postTranslate(t, handler, `{"text":"Hallo Welt","apiKey":"k"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "你好世界", payload["translation"])
	assert.Equal(t, "DE", payload["detected_source_language"])
	assert.Equal(t, "DE", payload["source_lang"])
	assert.Equal(t, "ZH", payload["target_lang"])
}

func TestServerVendorErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "forbidden",
			err:        &relay.VendorError{Status: http.StatusForbidden},
			wantStatus: http.StatusForbidden,
			wantCode:   relay.CodeInvalidAPIKey,
		},
		{
			name:       "quota",
			err:        &relay.VendorError{Status: 456},
			wantStatus: 456,
			wantCode:   relay.CodeQuotaExceeded,
		},
		{
			name:       "rate limit",
			err:        &relay.VendorError{Status: http.StatusTooManyRequests},
			wantStatus: http.StatusTooManyRequests,
			wantCode:   relay.CodeRateLimit,
		},
		{
			name:       "other status",
			err:        &relay.VendorError{Status: http.StatusTeapot, Message: "teapot"},
			wantStatus: http.StatusTeapot,
			wantCode:   relay.CodeDeepLError,
		},
		{
			name:       "invalid payload",
			err:        relay.ErrInvalidResponse,
			wantStatus: http.StatusInternalServerError,
			wantCode:   relay.CodeInvalidResponseFormat,
		},
		{
			name:       "unexpected failure",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantCode:   relay.CodeFunctionError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := relay.NewServer(newRelayConfig(""), &fakeVendor{err: tt.err}, zap.NewNop())

			rec, payload := postTranslate(t, handler, `{"text":"Hallo","apiKey":"k"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, payload["code"])
			assert.NotEmpty(t, payload["error"])
		})
	}
}

func TestServerPreflightAndHealth(t *testing.T) {
	t.Parallel()

	handler := relay.NewServer(newRelayConfig(""), &fakeVendor{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodOptions, "/translate", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "apikey")

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
