package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL           string
	JWTSecretKey          string
	OrganizerPasswordHash string
	ServerPort            int

	ClockPollInterval        time.Duration
	RatingsRecalcCron        string // пусто: ночной пересчёт выключен
	DefaultGameMinutes       int
	DefaultTournamentMinutes int
	CORSAllowedOrigins       []string

	// Cloudflare R2 для архива турниров. Либо все поля заданы, либо ни одного.
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// ArchiveEnabled reports whether tournament archives should be uploaded.
func (c *Config) ArchiveEnabled() bool {
	return c.R2AccountID != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load() // .env не обязателен
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		JWTSecretKey:          os.Getenv("JWT_SECRET_KEY"),
		OrganizerPasswordHash: os.Getenv("ORGANIZER_PASSWORD_HASH"),
		R2AccountID:           os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:         os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:     os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:          os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:       os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL environment variable is not set")
	}
	if cfg.JWTSecretKey == "" {
		return nil, errors.New("JWT_SECRET_KEY environment variable is not set")
	}
	if cfg.OrganizerPasswordHash == "" {
		return nil, errors.New("ORGANIZER_PASSWORD_HASH environment variable is not set (generate one with `courtctl hash-password`)")
	}

	var err error
	if cfg.ServerPort, err = intFromEnv("SERVER_PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}

	if cfg.DefaultGameMinutes, err = intFromEnv("DEFAULT_GAME_MINUTES", 15); err != nil {
		return nil, err
	}
	if cfg.DefaultGameMinutes <= 0 {
		return nil, fmt.Errorf("DEFAULT_GAME_MINUTES must be positive, got %d", cfg.DefaultGameMinutes)
	}
	if cfg.DefaultTournamentMinutes, err = intFromEnv("DEFAULT_TOURNAMENT_MINUTES", 120); err != nil {
		return nil, err
	}
	if cfg.DefaultTournamentMinutes <= 0 {
		return nil, fmt.Errorf("DEFAULT_TOURNAMENT_MINUTES must be positive, got %d", cfg.DefaultTournamentMinutes)
	}

	cfg.ClockPollInterval = time.Second
	if raw := os.Getenv("CLOCK_POLL_INTERVAL"); raw != "" {
		if cfg.ClockPollInterval, err = time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("invalid CLOCK_POLL_INTERVAL environment variable: %w", err)
		}
		// планировщик работает с секундной точностью
		if cfg.ClockPollInterval < time.Second {
			return nil, fmt.Errorf("CLOCK_POLL_INTERVAL must be at least 1s, got %s", raw)
		}
	}

	cfg.RatingsRecalcCron = strings.TrimSpace(os.Getenv("RATINGS_RECALC_CRON"))
	if cfg.RatingsRecalcCron != "" {
		if _, err := cron.ParseStandard(cfg.RatingsRecalcCron); err != nil {
			return nil, fmt.Errorf("invalid RATINGS_RECALC_CRON environment variable: %w", err)
		}
	}

	cfg.CORSAllowedOrigins = []string{"*"}
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		cfg.CORSAllowedOrigins = cfg.CORSAllowedOrigins[:0]
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
			}
		}
	}

	r2 := []string{cfg.R2AccountID, cfg.R2AccessKeyID, cfg.R2SecretAccessKey, cfg.R2BucketName, cfg.R2PublicBaseURL}
	set := 0
	for _, v := range r2 {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != len(r2) {
		return nil, errors.New("R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_BUCKET_NAME and R2_PUBLIC_BASE_URL must be set together")
	}

	return cfg, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}
