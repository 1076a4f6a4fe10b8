package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv      = "NEWS_ANALYZER_CONFIG"
	newsAPIKeyEnv      = "NEWSAPI_API_KEY"
	geminiKeyEnv       = "GEMINI_API_KEY"
	geminiModelEnv     = "GEMINI_MODEL"
	openRouterKeyEnv   = "OPENROUTER_API_KEY"
	openRouterModelEnv = "OPENROUTER_MODEL"
	databaseDSNEnv     = "DATABASE_DSN"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv  = "TELEGRAM_CHAT_ID"
	newsQueryEnv       = "NEWS_QUERY"
	maxArticlesEnv     = "MAX_ARTICLES"
	outputDirEnv       = "OUTPUT_DIR"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	NewsAPI       NewsAPIConfig      `yaml:"newsapi"`
	Gemini        GeminiConfig       `yaml:"gemini"`
	OpenRouter    OpenRouterConfig   `yaml:"openrouter"`
	Pipeline      PipelineConfig     `yaml:"pipeline"`
	Database      DatabaseConfig     `yaml:"database"`
	Notifications NotificationConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
}

// LoggingConfig controls console log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// NewsAPIConfig describes the article source and the default run request.
type NewsAPIConfig struct {
	APIKey      string `yaml:"apiKey"`
	BaseURL     string `yaml:"baseUrl"`
	Query       string `yaml:"query"`
	Language    string `yaml:"language"`
	MaxArticles int    `yaml:"maxArticles"`
}

// GeminiConfig selects the analysis model.
type GeminiConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// OpenRouterConfig selects the validation model and endpoint.
type OpenRouterConfig struct {
	APIKey   string `yaml:"apiKey"`
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"`
}

// PipelineConfig tunes retries, pacing, and output location.
type PipelineConfig struct {
	RetryAttempts          int     `yaml:"retryAttempts"`
	AnalysisDelaySeconds   float64 `yaml:"analysisDelaySeconds"`
	ValidationDelaySeconds float64 `yaml:"validationDelaySeconds"`
	OutputDir              string  `yaml:"outputDir"`
}

// AnalysisDelay is the pause between consecutive analysis requests.
func (p PipelineConfig) AnalysisDelay() time.Duration {
	return time.Duration(p.AnalysisDelaySeconds * float64(time.Second))
}

// ValidationDelay is the pause between consecutive validation requests.
func (p PipelineConfig) ValidationDelay() time.Duration {
	return time.Duration(p.ValidationDelaySeconds * float64(time.Second))
}

// DatabaseConfig describes optional Postgres persistence.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SchedulerConfig enables recurring runs on a fixed interval.
type SchedulerConfig struct {
	Enabled         bool `yaml:"enabled"`
	IntervalMinutes int  `yaml:"intervalMinutes"`
}

// Interval resolves the configured period.
func (s SchedulerConfig) Interval() time.Duration {
	return time.Duration(s.IntervalMinutes) * time.Minute
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(newsAPIKeyEnv); v != "" {
		c.NewsAPI.APIKey = v
	}
	if v := os.Getenv(geminiKeyEnv); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv(geminiModelEnv); v != "" {
		c.Gemini.Model = v
	}
	if v := os.Getenv(openRouterKeyEnv); v != "" {
		c.OpenRouter.APIKey = v
	}
	if v := os.Getenv(openRouterModelEnv); v != "" {
		c.OpenRouter.Model = v
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
	if v := os.Getenv(newsQueryEnv); v != "" {
		c.NewsAPI.Query = v
	}
	if v := os.Getenv(maxArticlesEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.NewsAPI.MaxArticles = parsed
		} else {
			log.Printf("config: invalid %s=%q, keeping %d", maxArticlesEnv, v, c.NewsAPI.MaxArticles)
		}
	}
	if v := os.Getenv(outputDirEnv); v != "" {
		c.Pipeline.OutputDir = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.NewsAPI.APIKey != "" {
		base.NewsAPI.APIKey = override.NewsAPI.APIKey
	}
	if override.NewsAPI.BaseURL != "" {
		base.NewsAPI.BaseURL = override.NewsAPI.BaseURL
	}
	if override.NewsAPI.Query != "" {
		base.NewsAPI.Query = override.NewsAPI.Query
	}
	if override.NewsAPI.Language != "" {
		base.NewsAPI.Language = override.NewsAPI.Language
	}
	if override.NewsAPI.MaxArticles > 0 {
		base.NewsAPI.MaxArticles = override.NewsAPI.MaxArticles
	}

	if override.Gemini.APIKey != "" {
		base.Gemini.APIKey = override.Gemini.APIKey
	}
	if override.Gemini.Model != "" {
		base.Gemini.Model = override.Gemini.Model
	}

	if override.OpenRouter.APIKey != "" {
		base.OpenRouter.APIKey = override.OpenRouter.APIKey
	}
	if override.OpenRouter.Model != "" {
		base.OpenRouter.Model = override.OpenRouter.Model
	}
	if override.OpenRouter.Endpoint != "" {
		base.OpenRouter.Endpoint = override.OpenRouter.Endpoint
	}

	if override.Pipeline.RetryAttempts > 0 {
		base.Pipeline.RetryAttempts = override.Pipeline.RetryAttempts
	}
	if override.Pipeline.AnalysisDelaySeconds > 0 {
		base.Pipeline.AnalysisDelaySeconds = override.Pipeline.AnalysisDelaySeconds
	}
	if override.Pipeline.ValidationDelaySeconds > 0 {
		base.Pipeline.ValidationDelaySeconds = override.Pipeline.ValidationDelaySeconds
	}
	if override.Pipeline.OutputDir != "" {
		base.Pipeline.OutputDir = override.Pipeline.OutputDir
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Scheduler.Enabled {
		base.Scheduler.Enabled = true
	}
	if override.Scheduler.IntervalMinutes > 0 {
		base.Scheduler.IntervalMinutes = override.Scheduler.IntervalMinutes
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		NewsAPI: NewsAPIConfig{
			Query:       "India politics",
			Language:    "en",
			MaxArticles: 12,
		},
		Gemini: GeminiConfig{Model: "gemini-2.5-flash"},
		OpenRouter: OpenRouterConfig{
			Model:    "mistralai/mistral-7b-instruct",
			Endpoint: "https://openrouter.ai/api/v1/chat/completions",
		},
		Pipeline: PipelineConfig{
			RetryAttempts:          3,
			AnalysisDelaySeconds:   1.0,
			ValidationDelaySeconds: 2.0,
			OutputDir:              "output",
		},
		Scheduler: SchedulerConfig{Enabled: false, IntervalMinutes: 0},
	}
}
