package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	CORSOrigin  string

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3Bucket        string
	S3PublicBaseURL string

	PresignTTL          time.Duration
	UploadMaxSizeBytes  int64
	AllowedContentTypes []string

	SweepInterval time.Duration
	OrphanMaxAge  time.Duration
}

// Load reads configuration from the environment (and .env when present),
// applies defaults and validates required fields.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	accessTTL, err := getEnvDuration("ACCESS_TOKEN_TTL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("parse ACCESS_TOKEN_TTL: %w", err)
	}
	refreshTTL, err := getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("parse REFRESH_TOKEN_TTL: %w", err)
	}
	presignTTL, err := getEnvDuration("S3_PRESIGN_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("parse S3_PRESIGN_TTL: %w", err)
	}
	sweepInterval, err := getEnvDuration("UPLOAD_SWEEP_INTERVAL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("parse UPLOAD_SWEEP_INTERVAL: %w", err)
	}
	orphanMaxAge, err := getEnvDuration("UPLOAD_ORPHAN_MAX_AGE", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("parse UPLOAD_ORPHAN_MAX_AGE: %w", err)
	}
	maxSize, err := getEnvInt64("UPLOAD_MAX_SIZE_BYTES", 10<<20)
	if err != nil {
		return nil, fmt.Errorf("parse UPLOAD_MAX_SIZE_BYTES: %w", err)
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigin:  getEnv("CORS_ORIGIN", "http://localhost:5173"),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,

		S3Endpoint:      getEnv("S3_ENDPOINT", "http://localhost:9000"),
		S3AccessKey:     getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     getEnv("S3_SECRET_KEY", ""),
		S3Bucket:        getEnv("S3_BUCKET", "markethub"),
		S3PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),

		PresignTTL:          presignTTL,
		UploadMaxSizeBytes:  maxSize,
		AllowedContentTypes: getEnvList("UPLOAD_ALLOWED_TYPES", []string{"image/jpeg", "image/png", "image/webp", "image/gif"}),

		SweepInterval: sweepInterval,
		OrphanMaxAge:  orphanMaxAge,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.S3AccessKey == "" || c.S3SecretKey == "" {
		return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY are required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	return time.ParseDuration(v)
}

func getEnvList(key string, defaultValue []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
