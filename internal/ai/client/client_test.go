package client_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/robalyx/dolmetscher/internal/ai/client"
	"github.com/robalyx/dolmetscher/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const completionBody = `{"id":"c1","object":"chat.completion","created":1,"model":"m",` +
	`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":%s}}]}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *client.AIClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Common.OpenAI.BaseURL = server.URL + "/"
	cfg.Common.OpenAI.ModelMappings = map[string]string{"alias/model": "real/model"}

	return client.NewClient(&cfg.Common.OpenAI, &cfg.Common.CircuitBreaker, zap.NewNop())
}

func TestComplete(t *testing.T) {
	t.Parallel()

	var gotAuth, gotTitle, gotReferer, gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotTitle = r.Header.Get("X-Title")
		gotReferer = r.Header.Get("HTTP-Referer")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, strings.Replace(completionBody, "%s", `"  Guten Tag!  "`, 1))
	})

	settings := client.Settings{Model: "alias/model", Temperature: 0.7, MaxTokens: 1000, Full: true}
	text, err := c.Complete(t.Context(), client.Call{
		Credential: "sk-test",
		Title:      client.TitleGrammar,
		Params:     settings.Text("你好"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Guten Tag!", text)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "Chinese-German-Translation-Assistant-Grammar-Check", gotTitle)
	assert.NotEmpty(t, gotReferer)
	assert.Contains(t, gotBody, `"model":"real/model"`)
	assert.Contains(t, gotBody, `"max_tokens":1000`)
	assert.Contains(t, gotBody, `"top_p":1`)
}

func TestCompleteErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		credential string
		status     int
		body       string
		check      func(t *testing.T, err error)
	}{
		{
			name:       "missing credential",
			credential: " ",
			check: func(t *testing.T, err error) {
				t.Helper()
				require.ErrorIs(t, err, client.ErrAuth)
			},
		},
		{
			name:       "unauthorized",
			credential: "bad",
			status:     http.StatusUnauthorized,
			body:       `{"error":{"message":"invalid key"}}`,
			check: func(t *testing.T, err error) {
				t.Helper()
				require.ErrorIs(t, err, client.ErrAuth)
			},
		},
		{
			name:       "upstream failure",
			credential: "sk",
			status:     http.StatusBadRequest,
			body:       `{"error":{"message":"model not found"}}`,
			check: func(t *testing.T, err error) {
				t.Helper()
				var upstream *client.UpstreamError
				require.ErrorAs(t, err, &upstream)
				assert.Equal(t, http.StatusBadRequest, upstream.Status)
				assert.Equal(t, "model not found", upstream.Message)
			},
		},
		{
			name:       "upstream failure without message",
			credential: "sk",
			status:     http.StatusBadGateway,
			body:       `{}`,
			check: func(t *testing.T, err error) {
				t.Helper()
				var upstream *client.UpstreamError
				require.ErrorAs(t, err, &upstream)
				assert.Equal(t, "Bad Gateway", upstream.Message)
			},
		},
		{
			name:       "no choices",
			credential: "sk",
			status:     http.StatusOK,
			body:       `{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[]}`,
			check: func(t *testing.T, err error) {
				t.Helper()
				require.ErrorIs(t, err, client.ErrMalformedResponse)
			},
		},
		{
			name:       "empty content",
			credential: "sk",
			status:     http.StatusOK,
			body:       strings.Replace(completionBody, "%s", `"   "`, 1),
			check: func(t *testing.T, err error) {
				t.Helper()
				require.ErrorIs(t, err, client.ErrMalformedResponse)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.Complete(t.Context(), client.Call{
				Credential: tt.credential,
				Params:     client.Settings{Model: "m", Temperature: 0.3, MaxTokens: 10}.Text("x"),
			})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}
