package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "Asia/Jakarta"
	configPathEnv     = "RUPIAHEMAS_CONFIG"
	storeDSNEnv       = "REFERENCE_STORE_DSN"
	groqAPIKeyEnv     = "GROQ_API_KEY"
	groqModelEnv      = "GROQ_MODEL"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Scraper       ScraperConfig      `yaml:"scraper"`
	Groq          GroqConfig         `yaml:"groq"`
	Notifications NotificationConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Store         StoreConfig        `yaml:"store"`
	Rates         RatesConfig        `yaml:"rates"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// ScraperConfig describes how to reach the news site.
type ScraperConfig struct {
	BaseURL        string `yaml:"baseUrl"`
	UserAgent      string `yaml:"userAgent"`
	MaxResults     int    `yaml:"maxResults"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// Timeout resolves the scraper request timeout.
func (s ScraperConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// GroqConfig defines how to contact the Groq chat completion API.
type GroqConfig struct {
	APIKey         string `yaml:"apiKey"`
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"baseUrl"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	UseFallback    bool   `yaml:"useFallback"`
}

// Timeout resolves the per-request model timeout.
func (g GroqConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages. ChatID may
// be a numeric chat or an @channel username.
type TelegramConfig struct {
	BotToken       string `yaml:"botToken"`
	ChatID         string `yaml:"chatId"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// Timeout resolves the per-send request timeout.
func (t TelegramConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// SchedulerConfig defines when the daily run should fire. WeekdaysOnly
// additionally skips Saturday and Sunday triggers for cron expressions
// that do not restrict the weekday themselves.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	WeekdaysOnly   bool           `yaml:"weekdaysOnly"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// StoreConfig selects the reference value store by DSN scheme
// (file://, postgres:// or redis://).
type StoreConfig struct {
	DSN string `yaml:"dsn"`
}

// RatesConfig carries rate constants the pipeline falls back to when
// the live figure is unavailable.
type RatesConfig struct {
	FallbackUSDIDR int64 `yaml:"fallbackUsdIdr"`
}

// LoggingConfig controls log verbosity and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. A .env file in the working directory is honored first.
func Load() Config {
	_ = godotenv.Load()

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
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(storeDSNEnv); v != "" {
		c.Store.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(groqAPIKeyEnv); v != "" {
		c.Groq.APIKey = v
	}

	if v := os.Getenv(groqModelEnv); v != "" {
		c.Groq.Model = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Scraper.BaseURL != "" {
		base.Scraper.BaseURL = override.Scraper.BaseURL
	}
	if override.Scraper.UserAgent != "" {
		base.Scraper.UserAgent = override.Scraper.UserAgent
	}
	if override.Scraper.MaxResults > 0 {
		base.Scraper.MaxResults = override.Scraper.MaxResults
	}
	if override.Scraper.TimeoutSeconds > 0 {
		base.Scraper.TimeoutSeconds = override.Scraper.TimeoutSeconds
	}

	if override.Groq.APIKey != "" {
		base.Groq.APIKey = override.Groq.APIKey
	}
	if override.Groq.Model != "" {
		base.Groq.Model = override.Groq.Model
	}
	if override.Groq.BaseURL != "" {
		base.Groq.BaseURL = override.Groq.BaseURL
	}
	if override.Groq.TimeoutSeconds > 0 {
		base.Groq.TimeoutSeconds = override.Groq.TimeoutSeconds
	}
	if override.Groq.UseFallback {
		base.Groq.UseFallback = true
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}
	if override.Notifications.Telegram.TimeoutSeconds > 0 {
		base.Notifications.Telegram.TimeoutSeconds = override.Notifications.Telegram.TimeoutSeconds
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}
	if override.Scheduler.WeekdaysOnly {
		base.Scheduler.WeekdaysOnly = true
	}

	if override.Store.DSN != "" {
		base.Store.DSN = override.Store.DSN
	}

	if override.Rates.FallbackUSDIDR > 0 {
		base.Rates.FallbackUSDIDR = override.Rates.FallbackUSDIDR
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Scraper: ScraperConfig{
			BaseURL:        "https://www.bloombergtechnoz.com",
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			MaxResults:     3,
			TimeoutSeconds: 30,
		},
		Groq: GroqConfig{
			Model:          "llama-3.1-70b-versatile",
			BaseURL:        "https://api.groq.com/openai/v1/",
			TimeoutSeconds: 30,
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{TimeoutSeconds: 30},
		},
		Scheduler: SchedulerConfig{
			CronExpression: "0 9 * * 1-5",
			Timezone:       defaultTimezone,
			location:       tz,
		},
		Store:   StoreConfig{DSN: "file://reference_rates.json"},
		Rates:   RatesConfig{FallbackUSDIDR: 16000},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}
