package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string

	DBDriver    string // "postgres" or "sqlite"
	DatabaseURL string

	JWTSecret string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleTokenURL     string
	GmailEndpoint      string // empty uses the library default

	AIProvider       string // "anthropic", "ollama" or "gemini"
	AnthropicAPIKey  string
	AnthropicBaseURL string
	AnthropicModel   string
	OllamaBaseURL    string
	OllamaModel      string
	GeminiAPIKey     string
	GeminiBaseURL    string
	GeminiModel      string

	SyncBatchSize    int
	SyncInterval     time.Duration
	SyncLockTTL      time.Duration
	FetchConcurrency int
	HTTPTimeout      time.Duration

	EncryptionKey string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KeyringDir      string
	KeyringPassword string

	LogLevel  string
	LogFormat string
	SentryDSN string
}

// Load reads configuration from .env, the process environment and an
// optional YAML file named by CONFIG_FILE. Environment values win.
func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		// A missing or broken file leaves env and defaults in place.
		_ = v.ReadInConfig()
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=triage port=5432 sslmode=disable")
	v.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	v.SetDefault("GOOGLE_TOKEN_URL", "https://oauth2.googleapis.com/token")
	v.SetDefault("AI_PROVIDER", "anthropic")
	v.SetDefault("ANTHROPIC_BASE_URL", "https://api.anthropic.com")
	v.SetDefault("ANTHROPIC_MODEL", "claude-haiku-4-5-20251001")
	v.SetDefault("OLLAMA_BASE_URL", "http://localhost:11434")
	v.SetDefault("OLLAMA_MODEL", "llama3")
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("SYNC_BATCH_SIZE", 50)
	v.SetDefault("SYNC_INTERVAL", "0s")
	v.SetDefault("SYNC_LOCK_TTL", "2m")
	v.SetDefault("FETCH_CONCURRENCY", 10)
	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("KEYRING_DIR", "~/.config/triage/keyring")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Port:               v.GetString("PORT"),
		Environment:        v.GetString("ENVIRONMENT"),
		DBDriver:           strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleTokenURL:     v.GetString("GOOGLE_TOKEN_URL"),
		GmailEndpoint:      v.GetString("GMAIL_ENDPOINT"),
		AIProvider:         strings.ToLower(v.GetString("AI_PROVIDER")),
		AnthropicAPIKey:    v.GetString("ANTHROPIC_API_KEY"),
		AnthropicBaseURL:   v.GetString("ANTHROPIC_BASE_URL"),
		AnthropicModel:     v.GetString("ANTHROPIC_MODEL"),
		OllamaBaseURL:      v.GetString("OLLAMA_BASE_URL"),
		OllamaModel:        v.GetString("OLLAMA_MODEL"),
		GeminiAPIKey:       v.GetString("GEMINI_API_KEY"),
		GeminiBaseURL:      v.GetString("GEMINI_BASE_URL"),
		GeminiModel:        v.GetString("GEMINI_MODEL"),
		SyncBatchSize:      v.GetInt("SYNC_BATCH_SIZE"),
		SyncInterval:       v.GetDuration("SYNC_INTERVAL"),
		SyncLockTTL:        v.GetDuration("SYNC_LOCK_TTL"),
		FetchConcurrency:   v.GetInt("FETCH_CONCURRENCY"),
		HTTPTimeout:        v.GetDuration("HTTP_TIMEOUT"),
		EncryptionKey:      v.GetString("ENCRYPTION_KEY"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		KeyringDir:         v.GetString("KEYRING_DIR"),
		KeyringPassword:    v.GetString("KEYRING_PASSWORD"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
		SentryDSN:          v.GetString("SENTRY_DSN"),
	}

	if cfg.SyncBatchSize <= 0 {
		cfg.SyncBatchSize = 50
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = 10
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.SyncLockTTL <= 0 {
		cfg.SyncLockTTL = 2 * time.Minute
	}

	return cfg
}
