package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/robalyx/dolmetscher/internal/setup/config"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// AIClient implements the Completer interface on an OpenAI compatible API.
type AIClient struct {
	client        *openai.Client
	breaker       *gobreaker.CircuitBreaker
	semaphore     *semaphore.Weighted
	modelMappings map[string]string
	referer       string
	title         string
	logger        *zap.Logger
}

// NewClient creates a new AIClient.
func NewClient(cfg *config.OpenAI, cb *config.CircuitBreaker, logger *zap.Logger) *AIClient {
	client := openai.NewClient(
		option.WithBaseURL(cfg.BaseURL),
		option.WithRequestTimeout(time.Duration(cfg.RequestTimeout)*time.Millisecond),
		option.WithMaxRetries(0),
	)

	logger = logger.Named("ai_client")

	// Create circuit breaker settings
	settings := gobreaker.Settings{
		Name:        "completion",
		MaxRequests: cb.MaxRequests,
		Timeout:     time.Duration(cb.Timeout) * time.Millisecond,
		Interval:    time.Duration(cb.Interval) * time.Millisecond,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(_ string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &AIClient{
		client:        &client,
		breaker:       gobreaker.NewCircuitBreaker(settings),
		semaphore:     semaphore.NewWeighted(maxConcurrent),
		modelMappings: cfg.ModelMappings,
		referer:       cfg.Referer,
		title:         cfg.Title,
		logger:        logger,
	}
}

// Complete makes a chat completion request and returns the trimmed message text.
func (c *AIClient) Complete(ctx context.Context, call Call) (string, error) {
	credential := strings.TrimSpace(call.Credential)
	if credential == "" {
		return "", fmt.Errorf("%w: no credential configured", ErrAuth)
	}

	// Map model name
	params := call.Params
	if mappedModel, ok := c.modelMappings[params.Model]; ok {
		params.Model = mappedModel
	}

	// Try to acquire semaphore
	if err := c.semaphore.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("failed to acquire semaphore: %w", err)
	}
	defer c.semaphore.Release(1)

	title := c.title
	if call.Title != "" {
		title += "-" + call.Title
	}

	// Execute request
	result, err := c.breaker.Execute(func() (any, error) {
		return c.client.Chat.Completions.New(ctx, params,
			option.WithAPIKey(credential),
			option.WithHeader("HTTP-Referer", c.referer),
			option.WithHeader("X-Title", title),
		)
	})
	if err != nil {
		err = translateError(err)
		c.logger.Warn("Completion request failed",
			zap.String("model", params.Model),
			zap.String("title", title),
			zap.Error(err))
		return "", err
	}

	resp, ok := result.(*openai.ChatCompletion)
	if !ok || resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty message content", ErrMalformedResponse)
	}

	return content, nil
}

// translateError maps transport and API errors to the package errors.
func translateError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		upstream := &UpstreamError{Status: apiErr.StatusCode, Message: errorMessage(apiErr)}
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: %w", ErrAuth, upstream)
		}
		return upstream
	}

	return fmt.Errorf("completion request failed: %w", err)
}

// errorMessage returns the upstream error message or the status text.
func errorMessage(apiErr *openai.Error) string {
	if apiErr.Message != "" {
		return apiErr.Message
	}

	if node, err := sonic.GetFromString(apiErr.RawJSON(), "error", "message"); err == nil {
		if msg, err := node.String(); err == nil && msg != "" {
			return msg
		}
	}

	return http.StatusText(apiErr.StatusCode)
}

// isBreakerSuccess keeps caller-side failures from tripping the breaker.
func isBreakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 && apiErr.StatusCode != http.StatusTooManyRequests
	}

	return false
}
