package backtranslate

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// Texts shown in place of a back-translation that could not be produced.
const (
	UnavailableText   = "回译功能暂时不可用"
	NotConfiguredText = "回译功能不可用：未配置API密钥"
)

var (
	// ErrNoCredential indicates neither a vendor nor a primary credential is available.
	ErrNoCredential = errors.New("no credential for back-translation")
	// ErrEmptyText indicates there was nothing to back-translate.
	ErrEmptyText = errors.New("empty text")
)

// Source identifies where a back-translation came from.
type Source int

const (
	SourceNone Source = iota
	SourceCache
	SourceVendor
	SourceModel
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceCache:
		return "cache"
	case SourceVendor:
		return "vendor"
	case SourceModel:
		return "model"
	case SourceNone:
	}
	return "none"
}

// Result is the outcome of a back-translation.
// Text is always displayable: on degradation it holds one of the sentinel texts.
type Result struct {
	Text     string
	Source   Source
	Degraded bool
	Reason   error
}

// OK reports whether the result holds a real translation.
func (r Result) OK() bool {
	return !r.Degraded
}

func ok(text string, source Source) Result {
	return Result{Text: text, Source: source}
}

func degraded(text string, reason error) Result {
	return Result{Text: text, Degraded: true, Reason: reason}
}

// Credentials carries the keys used for a single back-translation.
type Credentials struct {
	Primary string
	Vendor  string
}

// Relay translates German text through the vendor relay.
type Relay interface {
	Translate(ctx context.Context, vendorKey, text string) (string, error)
}

// Model translates German text with a language model.
type Model interface {
	BackTranslate(ctx context.Context, credential, german string) (string, error)
}

// Cache stores finished back-translations.
type Cache interface {
	Get(ctx context.Context, text string) (string, bool)
	Set(ctx context.Context, text, translation string)
}

// Service produces Chinese back-translations of German text.
// It prefers the vendor relay and falls back to the language model.
type Service struct {
	relay  Relay
	model  Model
	cache  Cache
	logger *zap.Logger
}

// NewService creates a Service. relay and cache may be nil.
func NewService(relay Relay, model Model, cache Cache, logger *zap.Logger) *Service {
	return &Service{
		relay:  relay,
		model:  model,
		cache:  cache,
		logger: logger.Named("backtranslate"),
	}
}

// BackTranslate never fails; degraded results carry a sentinel text and the reason.
func (s *Service) BackTranslate(ctx context.Context, creds Credentials, text string) Result {
	if strings.TrimSpace(text) == "" {
		return degraded(UnavailableText, ErrEmptyText)
	}

	if s.cache != nil {
		if cached, found := s.cache.Get(ctx, text); found {
			return ok(cached, SourceCache)
		}
	}

	if creds.Vendor != "" && s.relay != nil {
		translation, err := s.relay.Translate(ctx, creds.Vendor, text)
		if err == nil && translation != "" {
			s.store(ctx, text, translation)
			return ok(translation, SourceVendor)
		}
		s.logger.Debug("Vendor back-translation failed, using model fallback", zap.Error(err))
	}

	if creds.Primary == "" {
		return degraded(NotConfiguredText, ErrNoCredential)
	}

	translation, err := s.model.BackTranslate(ctx, creds.Primary, text)
	if err != nil {
		s.logger.Warn("Model back-translation failed", zap.Error(err))
		return degraded(UnavailableText, err)
	}

	translation = strings.TrimSpace(translation)
	s.store(ctx, text, translation)
	return ok(translation, SourceModel)
}

func (s *Service) store(ctx context.Context, text, translation string) {
	if s.cache != nil {
		s.cache.Set(ctx, text, translation)
	}
}
