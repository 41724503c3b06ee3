package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingDB        = errors.New("DATABASE_URL is required")
	ErrInvalidTimeout   = errors.New("timeouts must be positive")
	ErrInvalidLimit     = errors.New("fetch limits must be positive")
	ErrInvalidRateLimit = errors.New("RATE_LIMIT_PER_MINUTE must be positive")
)

type Config struct {
	HTTP      HTTPConfig
	Telegram  TelegramConfig
	Database  DatabaseConfig
	Log       LogConfig
	Timeouts  TimeoutConfig
	Search    SearchConfig
	History   HistoryConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	Catalog   CatalogConfig
}

type HTTPConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
	// TrustedProxies - IP или CIDR, от которых принимаем X-Forwarded-For
	TrustedProxies []string
}

// TelegramConfig - бот опционален, пустой токен его выключает
type TelegramConfig struct {
	Token   string
	BaseURL string
}

func (c TelegramConfig) Enabled() bool {
	return c.Token != ""
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int32
	ConnectRetries uint64
}

type LogConfig struct {
	Level  string
	Format string
	// Output - путь к файлу или stdout/stderr, по умолчанию stderr
	Output string
}

type TimeoutConfig struct {
	Source time.Duration
	Total  time.Duration
}

type SearchConfig struct {
	NoteFetchLimit int
	UserFetchLimit int
}

type HistoryConfig struct {
	MaxEntries int
}

type SessionConfig struct {
	CacheTTL time.Duration
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

type CatalogConfig struct {
	// Path - yaml с курсами и инструментами; пусто - встроенный каталог
	Path string
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{
			Addr:            getEnvOrDefault("HTTP_ADDR", ":8080"),
			ShutdownTimeout: time.Duration(getEnvIntOrDefault("HTTP_SHUTDOWN_TIMEOUT_SEC", 10)) * time.Second,
			TrustedProxies:  getEnvList("TRUSTED_PROXIES"),
		},
		Telegram: TelegramConfig{
			Token:   os.Getenv("TELEGRAM_BOT_TOKEN"),
			BaseURL: os.Getenv("PUBLIC_BASE_URL"),
		},
		Database: DatabaseConfig{
			URL:            os.Getenv("DATABASE_URL"),
			MaxConns:       int32(getEnvIntOrDefault("DB_MAX_CONNS", 10)),
			ConnectRetries: uint64(getEnvIntOrDefault("DB_CONNECT_RETRIES", 5)),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", ""),
			Output: getEnvOrDefault("LOG_OUTPUT", "stderr"),
		},
		Timeouts: TimeoutConfig{
			Source: time.Duration(getEnvIntOrDefault("SOURCE_TIMEOUT_MS", 3000)) * time.Millisecond,
			Total:  time.Duration(getEnvIntOrDefault("TOTAL_TIMEOUT_SEC", 10)) * time.Second,
		},
		Search: SearchConfig{
			NoteFetchLimit: getEnvIntOrDefault("NOTE_FETCH_LIMIT", 20),
			UserFetchLimit: getEnvIntOrDefault("USER_FETCH_LIMIT", 20),
		},
		History: HistoryConfig{
			MaxEntries: getEnvIntOrDefault("HISTORY_MAX_ENTRIES", 20),
		},
		Session: SessionConfig{
			CacheTTL: time.Duration(getEnvIntOrDefault("SESSION_CACHE_TTL_SEC", 60)) * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 60),
		},
		Catalog: CatalogConfig{
			Path: os.Getenv("CATALOG_PATH"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return ErrMissingDB
	}
	if c.Timeouts.Source <= 0 || c.Timeouts.Total <= 0 {
		return ErrInvalidTimeout
	}
	if c.Timeouts.Source > c.Timeouts.Total {
		return fmt.Errorf("%w: source timeout %s exceeds total %s", ErrInvalidTimeout, c.Timeouts.Source, c.Timeouts.Total)
	}
	if c.Search.NoteFetchLimit <= 0 || c.Search.UserFetchLimit <= 0 || c.History.MaxEntries <= 0 {
		return ErrInvalidLimit
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		return ErrInvalidRateLimit
	}
	return nil
}

// LoadDatabase - команде migrate нужна только база и логгер
func LoadDatabase() (DatabaseConfig, LogConfig, error) {
	db := DatabaseConfig{
		URL:            os.Getenv("DATABASE_URL"),
		MaxConns:       int32(getEnvIntOrDefault("DB_MAX_CONNS", 10)),
		ConnectRetries: uint64(getEnvIntOrDefault("DB_CONNECT_RETRIES", 5)),
	}
	log := LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", ""),
		Output: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}
	if db.URL == "" {
		return db, log, ErrMissingDB
	}
	return db, log, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
