package config

// Default returns a configuration with every value set to its default.
func Default() *Config {
	cfg := &Config{
		Common: CommonConfig{
			Version: CurrentCommonVersion,
		},
		Assistant: AssistantConfig{
			Version: CurrentAssistantVersion,
		},
		Relay: RelayConfig{
			Version: CurrentRelayVersion,
		},
	}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills zero values that have a sensible default.
func (c *Config) applyDefaults() {
	setDefault(&c.Common.Debug.LogLevel, "info")
	setDefault(&c.Common.Debug.MaxLogsToKeep, 10)
	setDefault(&c.Common.Debug.MaxLogLines, 10000)

	setDefault(&c.Common.CircuitBreaker.MaxRequests, 1)
	setDefault(&c.Common.CircuitBreaker.Timeout, 30000)

	setDefault(&c.Common.Retry.MaxRetries, 3)
	setDefault(&c.Common.Retry.Delay, 500)
	setDefault(&c.Common.Retry.MaxDelay, 4000)

	setDefault(&c.Common.Redis.Host, "localhost")
	setDefault(&c.Common.Redis.Port, 6379)

	ai := &c.Common.OpenAI
	setDefault(&ai.BaseURL, "https://openrouter.ai/api/v1")
	setDefault(&ai.Referer, "https://dolmetscher.local")
	setDefault(&ai.Title, "Chinese-German-Translation-Assistant")
	setDefault(&ai.MaxConcurrent, 4)
	setDefault(&ai.RequestTimeout, 90000)
	setDefault(&ai.TransformModel, "anthropic/claude-3.5-sonnet")
	setDefault(&ai.BackTranslateModel, "google/gemini-2.5-flash")
	setDefault(&ai.GrammarModel, "anthropic/claude-3.5-sonnet")
	setDefault(&ai.AssistantModel, "openai/gpt-4o-mini")
	setDefault(&ai.OCRModel, "qwen/qwen2.5-vl-72b-instruct")
	setDefault(&ai.ReverseModel, "anthropic/claude-3.5-sonnet")

	setDefault(&c.Common.BackTranslate.Timeout, 15000)
	setDefault(&c.Common.BackTranslate.CacheTTL, 86400)

	as := &c.Assistant
	setDefault(&as.Slots, 3)
	setDefault(&as.DebounceDelay, 1000)
	setDefault(&as.TimerCap, 20*60*1000)
	setDefault(&as.TimerTick, 1000)
	setDefault(&as.RequestTimeout, 90000)
	setDefault(&as.StorePath, "dolmetscher.db")
	setDefault(&as.DefaultPersona, "professor")

	r := &c.Relay
	setDefault(&r.Host, "0.0.0.0")
	setDefault(&r.Port, 8080)
	setDefault(&r.DeepLURL, "https://api-free.deepl.com/v2/translate")
	setDefault(&r.UserAgent, "Dolmetscher-Relay/1.0")
	setDefault(&r.MaxTextLength, 5000)
	setDefault(&r.AllowedOrigin, "*")
	setDefault(&r.RequestTimeout, 15000)
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}
