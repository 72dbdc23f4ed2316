package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int
	LogLevel     slog.Level

	CORSAllowedOrigins []string

	// Архив снимков сетки в Cloudflare R2. Пустой R2AccountID отключает архив.
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	// Пустой RedisURL отключает кэш сеток.
	RedisURL string

	AutoAdvanceByes bool
}

func (c *Config) ArchiveEnabled() bool { return c.R2AccountID != "" }

func (c *Config) CacheEnabled() bool { return c.RedisURL != "" }

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := &Config{
		DatabaseURL:       get("DATABASE_URL"),
		JWTSecretKey:      get("JWT_SECRET_KEY"),
		R2AccountID:       get("R2_ACCOUNT_ID"),
		R2AccessKeyID:     get("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: get("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      get("R2_BUCKET_NAME"),
		R2PublicBaseURL:   get("R2_PUBLIC_BASE_URL"),
		RedisURL:          get("REDIS_URL"),
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := get("SERVER_PORT")
	if portStr == "" {
		portStr = "8080" // Порт по умолчанию
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	if lvl := get("LOG_LEVEL"); lvl != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(lvl)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
		}
	}

	if origins := get("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	} else {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	if v := get("BRACKET_AUTO_ADVANCE_BYES"); v != "" {
		cfg.AutoAdvanceByes, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BRACKET_AUTO_ADVANCE_BYES environment variable: %w", err)
		}
	}

	// Архив либо настроен полностью, либо не настроен вовсе.
	if cfg.ArchiveEnabled() && (cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2BucketName == "") {
		return nil, fmt.Errorf("R2_ACCOUNT_ID is set but R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY or R2_BUCKET_NAME is missing")
	}

	return cfg, nil
}
