package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
)

// RepositoryVersion is the repository version tag for config file references.
const RepositoryVersion = "v0.3.0"

// Current version of the config file.
const (
	CurrentCommonVersion    = 1
	CurrentAssistantVersion = 1
	CurrentRelayVersion     = 1
)

// configFiles lists the config files in load order.
var configFiles = []string{"common", "assistant", "relay"}

// Config represents the entire application configuration.
type Config struct {
	Common    CommonConfig    `koanf:"common"`
	Assistant AssistantConfig `koanf:"assistant"`
	Relay     RelayConfig     `koanf:"relay"`
}

// CommonConfig contains configuration shared between the assistant and the relay.
type CommonConfig struct {
	// Version of the common config.
	Version        int            `koanf:"version"`
	Debug          Debug          `koanf:"debug"`
	CircuitBreaker CircuitBreaker `koanf:"circuit_breaker"`
	Retry          Retry          `koanf:"retry"`
	Redis          Redis          `koanf:"redis"`
	OpenAI         OpenAI         `koanf:"openai"`
	BackTranslate  BackTranslate  `koanf:"backtranslate"`
}

// AssistantConfig contains translation workspace configuration.
type AssistantConfig struct {
	// Version of the assistant config.
	Version int `koanf:"version"`
	// Number of task slots in the workspace.
	Slots int `koanf:"slots"`
	// Quiet period in milliseconds before an edited translation is verified again.
	DebounceDelay int `koanf:"debounce_delay"`
	// Elapsed timer cap in milliseconds.
	TimerCap int `koanf:"timer_cap"`
	// Elapsed timer tick in milliseconds.
	TimerTick int `koanf:"timer_tick"`
	// Request timeout in milliseconds.
	RequestTimeout int `koanf:"request_timeout"`
	// Path of the profile database.
	StorePath string `koanf:"store_path"`
	// Default persona for new translations.
	DefaultPersona string `koanf:"default_persona"`
}

// RelayConfig contains back-translation relay server configuration.
type RelayConfig struct {
	// Version of the relay config.
	Version int `koanf:"version"`
	// Host to listen on.
	Host string `koanf:"host"`
	// Port to listen on.
	Port int `koanf:"port"`
	// DeepL translate endpoint.
	DeepLURL string `koanf:"deepl_url"`
	// User agent sent to DeepL.
	UserAgent string `koanf:"user_agent"`
	// Maximum text length in characters.
	MaxTextLength int `koanf:"max_text_length"`
	// Value of the Access-Control-Allow-Origin header.
	AllowedOrigin string `koanf:"allowed_origin"`
	// Vendor request timeout in milliseconds.
	RequestTimeout int `koanf:"request_timeout"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum log files to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
	// Maximum lines per log file.
	MaxLogLines int `koanf:"max_log_lines"`
}

// CircuitBreaker contains circuit breaker configuration.
type CircuitBreaker struct {
	// Maximum number of requests allowed to pass through when the circuit is half-open.
	MaxRequests uint32 `koanf:"max_requests"`
	// The cyclic period of the closed state for the circuit breaker to clear the internal counts.
	Interval int `koanf:"interval"`
	// The period of the open state after which the state of the circuit breaker becomes half-open.
	Timeout int `koanf:"timeout"`
}

// Retry contains retry configuration.
type Retry struct {
	// Maximum retry attempts.
	MaxRetries uint64 `koanf:"max_retries"`
	// Initial retry delay in milliseconds.
	Delay int `koanf:"delay"`
	// Maximum retry delay in milliseconds.
	MaxDelay int `koanf:"max_delay"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	// Enable the back-translation cache.
	Enabled bool `koanf:"enabled"`
	// Redis hostname.
	Host string `koanf:"host"`
	// Redis port.
	Port int `koanf:"port"`
	// Redis username.
	Username string `koanf:"username"`
	// Redis password.
	Password string `koanf:"password"`
}

// OpenAI contains completion API configuration.
type OpenAI struct {
	// Base URL for the API
	BaseURL string `koanf:"base_url"`
	// Referer header sent with every request
	Referer string `koanf:"referer"`
	// Title header prefix sent with every request
	Title string `koanf:"title"`
	// Maximum concurrent requests
	MaxConcurrent int64 `koanf:"max_concurrent"`
	// Request timeout in milliseconds
	RequestTimeout int `koanf:"request_timeout"`
	// Model name mappings
	ModelMappings map[string]string `koanf:"model_mappings"`
	// Model used for register flip, dash, emoji and comment transforms
	TransformModel string `koanf:"transform_model"`
	// Model used for back-translation when the vendor is unavailable
	BackTranslateModel string `koanf:"backtranslate_model"`
	// Model used for grammar checks
	GrammarModel string `koanf:"grammar_model"`
	// Model used for the German Q&A assistant
	AssistantModel string `koanf:"assistant_model"`
	// Model used for image text extraction
	OCRModel string `koanf:"ocr_model"`
	// Model used for German to Chinese translation and language detection
	ReverseModel string `koanf:"reverse_model"`
}

// BackTranslate contains back-translation relay client configuration.
type BackTranslate struct {
	// Relay endpoint URL. Empty disables the vendor path.
	RelayURL string `koanf:"relay_url"`
	// Bearer key sent to the relay.
	RelayKey string `koanf:"relay_key"`
	// Relay request timeout in milliseconds.
	Timeout int `koanf:"timeout"`
	// Cache lifetime in seconds.
	CacheTTL int `koanf:"cache_ttl"`
}

// LoadConfig loads the configuration from the search paths.
// Returns the config along with the used config directory.
func LoadConfig() (*Config, string, error) {
	// Get user's home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// List search paths
	configPaths := []string{
		".dolmetscher",
		homeDir + "/.dolmetscher/config",
		"/etc/dolmetscher/config",
		"config",
		".",
	}

	return load(configPaths)
}

// LoadConfigFromDir loads the configuration from a single directory.
func LoadConfigFromDir(dir string) (*Config, error) {
	cfg, _, err := load([]string{dir})
	return cfg, err
}

func load(configPaths []string) (*Config, string, error) {
	k := koanf.New(".")

	// Load all config files
	var usedConfigPath string

	for _, configName := range configFiles {
		configLoaded := false

		for _, path := range configPaths {
			configPath := filepath.Join(path, configName+".toml")

			sub := koanf.New(".")
			if err := sub.Load(file.Provider(configPath), toml.Parser()); err != nil {
				continue
			}

			if err := k.MergeAt(sub, configName); err != nil {
				return nil, "", fmt.Errorf("failed to merge %s.toml: %w", configName, err)
			}

			configLoaded = true
			if usedConfigPath == "" {
				usedConfigPath = path
			}

			break
		}

		if !configLoaded {
			return nil, "", fmt.Errorf("%w: %s.toml", ErrConfigFileNotFound, configName)
		}
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Check versions for each config file
	if err := checkConfigVersion("common", config.Common.Version, CurrentCommonVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("assistant", config.Assistant.Version, CurrentAssistantVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("relay", config.Relay.Version, CurrentRelayVersion); err != nil {
		return nil, "", err
	}

	config.applyDefaults()

	return &config, usedConfigPath, nil
}

// checkConfigVersion checks if the config file version is correct.
func checkConfigVersion(name string, current, expected int) error {
	if current == 0 {
		return fmt.Errorf("%w: %s.toml", ErrConfigVersionMissing, name)
	}

	if current != expected {
		return fmt.Errorf(
			"%w: %s.toml (got: %d, expected: %d)\n"+
				"Please update your config file from: https://github.com/robalyx/dolmetscher/tree/%s/config/%s.toml",
			ErrConfigVersionMismatch,
			name,
			current,
			expected,
			RepositoryVersion,
			name,
		)
	}

	return nil
}
