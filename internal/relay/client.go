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
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Client calls a back-translation relay.
type Client struct {
	http    *resty.Client
	url     string
	key     string
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewClient creates a relay client.
func NewClient(cfg *config.BackTranslate, cb *config.CircuitBreaker, logger *zap.Logger) *Client {
	logger = logger.Named("relay_client")

	c := resty.New().
		SetTimeout(time.Duration(cfg.Timeout) * time.Millisecond).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	settings := gobreaker.Settings{
		Name:        "relay",
		MaxRequests: cb.MaxRequests,
		Timeout:     time.Duration(cb.Timeout) * time.Millisecond,
		Interval:    time.Duration(cb.Interval) * time.Millisecond,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var relayErr *RelayError
			if errors.As(err, &relayErr) {
				return relayErr.Status < http.StatusInternalServerError
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(_ string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &Client{
		http:    c,
		url:     cfg.RelayURL,
		key:     cfg.RelayKey,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// Translate sends German text to the relay and returns the trimmed Chinese translation.
func (c *Client) Translate(ctx context.Context, vendorKey, text string) (string, error) {
	if c.url == "" {
		return "", ErrRelayNotConfigured
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.send(ctx, vendorKey, text)
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

func (c *Client) send(ctx context.Context, vendorKey, text string) (string, error) {
	req := c.http.R().
		SetContext(ctx).
		SetBody(Request{
			Text:       text,
			APIKey:     vendorKey,
			SourceLang: DefaultSourceLang,
			TargetLang: DefaultTargetLang,
		})
	if c.key != "" {
		req.SetHeader("Authorization", "Bearer "+c.key).
			SetHeader("apikey", c.key)
	}

	resp, err := req.Post(c.url)
	if err != nil {
		return "", fmt.Errorf("relay request: %w", err)
	}

	if resp.IsError() {
		var body ErrorResponse
		_ = sonic.Unmarshal(resp.Body(), &body)

		message := body.Error
		if message == "" {
			message = http.StatusText(resp.StatusCode())
		}
		return "", &RelayError{
			Status:  resp.StatusCode(),
			Code:    body.Code,
			Message: message,
		}
	}

	var body Response
	if err := sonic.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	translation := strings.TrimSpace(body.Translation)
	if !body.Success || translation == "" {
		return "", ErrEmptyTranslation
	}

	return translation, nil
}
