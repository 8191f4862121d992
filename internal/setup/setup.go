package setup

import (
	"context"
	"log"
	"net/http"
	"time"

	aiClient "github.com/robalyx/dolmetscher/internal/ai/client"

	"github.com/robalyx/dolmetscher/internal/ai"
	"github.com/robalyx/dolmetscher/internal/ai/persona"
	"github.com/robalyx/dolmetscher/internal/backtranslate"
	"github.com/robalyx/dolmetscher/internal/profile"
	"github.com/robalyx/dolmetscher/internal/redis"
	"github.com/robalyx/dolmetscher/internal/relay"
	"github.com/robalyx/dolmetscher/internal/setup/config"
	"github.com/robalyx/dolmetscher/internal/setup/telemetry"
	"github.com/robalyx/dolmetscher/internal/task"
	"github.com/robalyx/dolmetscher/pkg/utils"
	"go.uber.org/zap"
)

// App bundles all core dependencies and services needed by the application.
type App struct {
	Config       *config.Config     // Application configuration
	Logger       *zap.Logger        // Main application logger
	StoreLogger  *zap.Logger        // Profile store logger
	AIClient     *aiClient.AIClient // Completion client
	RedisManager *redis.Manager     // Redis connection manager
	LogManager   *telemetry.Manager // Log management system
	Personas     *persona.Registry  // Translation personas
	Store        *profile.Store     // Profile database, nil for the relay service
	Session      *profile.Session   // Current profile access

	Translator  *ai.Translator
	BackService *backtranslate.Service
	Transformer *ai.Transformer
	Converter   *ai.Converter
	Grammar     *ai.GrammarChecker
	Assistant   *ai.Assistant
	OCR         *ai.OCR
	Reverse     *ai.ReverseTranslator
}

// InitializeApp bootstraps all application dependencies in the correct order,
// ensuring each component has its required dependencies available.
func InitializeApp(ctx context.Context, serviceType telemetry.ServiceType, logDir string) (*App, error) {
	// Load app configuration
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Logging system is initialized next to capture setup issues
	logManager := telemetry.NewManager(serviceType, logDir, &cfg.Common.Debug)

	logger, storeLogger, err := logManager.GetLoggers()
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:       cfg,
		Logger:       logger,
		StoreLogger:  storeLogger.Named("store"),
		RedisManager: redis.NewManager(&cfg.Common.Redis, logger),
		LogManager:   logManager,
		Personas:     persona.Default(),
	}

	// The relay only forwards to the vendor and needs nothing else
	if serviceType == telemetry.ServiceRelay {
		return app, nil
	}

	store, err := profile.Open(cfg.Assistant.StorePath, app.StoreLogger)
	if err != nil {
		app.Cleanup(ctx)
		return nil, err
	}

	app.Store = store
	app.Session = profile.NewSession(store)

	app.initServices(ctx)

	return app, nil
}

// initServices wires the completion client into every AI operation and builds
// the back-translation service with its optional cache.
func (s *App) initServices(ctx context.Context) {
	models := &s.Config.Common.OpenAI

	s.AIClient = aiClient.NewClient(models, &s.Config.Common.CircuitBreaker, s.Logger)
	s.Translator = ai.NewTranslator(s.AIClient, s.Personas, s.Logger)
	s.Transformer = ai.NewTransformer(s.AIClient, models.TransformModel, s.Logger)
	s.Converter = ai.NewConverter(s.AIClient, models.TransformModel)
	s.Grammar = ai.NewGrammarChecker(s.AIClient, models.GrammarModel)
	s.Assistant = ai.NewAssistant(s.AIClient, models.AssistantModel)
	s.OCR = ai.NewOCR(s.AIClient, models.OCRModel)
	s.Reverse = ai.NewReverseTranslator(s.AIClient, models.ReverseModel, s.Logger)

	var relayClient backtranslate.Relay
	if s.Config.Common.BackTranslate.RelayURL != "" {
		relayClient = relay.NewClient(&s.Config.Common.BackTranslate, &s.Config.Common.CircuitBreaker, s.Logger)
	}

	s.BackService = backtranslate.NewService(
		relayClient,
		ai.NewModelBackTranslator(s.AIClient, models.BackTranslateModel),
		s.newCache(ctx),
		s.Logger,
	)
}

// newCache returns the Redis back-translation cache, or nil when Redis is
// disabled or unreachable.
func (s *App) newCache(ctx context.Context) backtranslate.Cache {
	if !s.RedisManager.Enabled() {
		return nil
	}

	client, err := s.RedisManager.GetClient(redis.BackTranslateDBIndex)
	if err != nil {
		s.Logger.Warn("Back-translation cache disabled", zap.Error(err))
		return nil
	}

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		s.Logger.Warn("Back-translation cache unreachable", zap.Error(err))
		return nil
	}

	ttl := time.Duration(s.Config.Common.BackTranslate.CacheTTL) * time.Second

	return backtranslate.NewRedisCache(client, ttl, s.Logger)
}

// NewOrchestrator creates a task orchestrator over the app's services.
func (s *App) NewOrchestrator(listener task.Listener) *task.Orchestrator {
	opts := task.OptionsFromConfig(&s.Config.Assistant)
	opts.Listener = listener

	return task.NewOrchestrator(task.Deps{
		Personas:       s.Personas,
		Translator:     s.Translator,
		BackTranslator: s.BackService,
		Transformer:    s.Transformer,
	}, opts, s.Logger)
}

// NewRelayHandler creates the back-translation relay HTTP handler.
func (s *App) NewRelayHandler() http.Handler {
	retry := s.Config.Common.Retry
	vendor := relay.NewDeepL(
		&s.Config.Relay,
		utils.NewRetryOptions(retry.MaxRetries, retry.Delay, retry.MaxDelay),
		s.Logger,
	)

	return relay.NewServer(&s.Config.Relay, vendor, s.Logger)
}

// Cleanup ensures graceful shutdown of all components in reverse initialization order.
// Logs but does not fail on cleanup errors to ensure all components get cleanup attempts.
func (s *App) Cleanup(_ context.Context) {
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			s.Logger.Error("Failed to close profile store", zap.Error(err))
		}
	}

	// Sync buffered logs before shutdown
	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	if err := s.StoreLogger.Sync(); err != nil {
		log.Printf("Failed to sync store logger: %v", err)
	}

	s.LogManager.Stop()

	// Close Redis connections last as other components might need it during cleanup
	s.RedisManager.Close()
}
