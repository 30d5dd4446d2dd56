package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	LogLevel string
	Env      string

	// StoreURL selects the state backend by scheme: file://, kvdb://,
	// postgres:// or memory://.
	StoreURL string
	RedisURL string

	OTLPAddr    string
	ServiceName string

	CORSOrigins []string

	ShareSecret string
	ShareTTL    time.Duration
	PublicURL   string

	CascadeTableDelete bool
}

// LoadConfig reads the environment, after merging an optional .env file
// from the working directory.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shareTTL, err := time.ParseDuration(GetEnv("SHARE_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("parse SHARE_TTL: %w", err)
	}
	if shareTTL <= 0 {
		return nil, fmt.Errorf("SHARE_TTL must be positive, got %s", shareTTL)
	}

	cascade, err := strconv.ParseBool(GetEnv("CASCADE_TABLE_DELETE", "false"))
	if err != nil {
		return nil, fmt.Errorf("parse CASCADE_TABLE_DELETE: %w", err)
	}

	return &Config{
		Port:               GetEnv("PORT", "4000"),
		Env:                GetEnv("ENV", "development"),
		LogLevel:           GetEnv("LOG_LEVEL", "info"),
		StoreURL:           GetEnv("STORE_URL", "file://data.json"),
		RedisURL:           GetEnv("REDIS_URL", ""),
		OTLPAddr:           GetEnv("OTLP_GRPC", ""),
		ServiceName:        GetEnv("SERVICE_NAME", "eventboard"),
		CORSOrigins:        SplitList(GetEnv("CORS_ORIGINS", "*")),
		ShareSecret:        GetEnv("SHARE_SECRET", ""),
		ShareTTL:           shareTTL,
		PublicURL:          strings.TrimRight(GetEnv("PUBLIC_URL", "http://localhost:4000"), "/"),
		CascadeTableDelete: cascade,
	}, nil
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// SplitList splits a comma separated value, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
