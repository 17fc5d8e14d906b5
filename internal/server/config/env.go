package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// dotEnvFile is loaded into the process environment when it exists.
// Variables already set in the environment win.
var dotEnvFile = ".env"

func loadDotEnv() error {
	if err := godotenv.Load(dotEnvFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", dotEnvFile, err)
	}
	return nil
}

// parseEnv overlays OTTO_* variables. Durations use Go syntax ("15m").
func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"OTTO_HTTP_ADDR":          &cfg.HTTPAddr,
		"OTTO_GRPC_ADDR":          &cfg.GRPCAddr,
		"OTTO_DATABASE_DSN":       &cfg.DatabaseDSN,
		"OTTO_SECRET_KEY":         &cfg.SecretKey,
		"OTTO_S3_USER":            &cfg.S3RootUser,
		"OTTO_S3_PASSWORD":        &cfg.S3RootPassword,
		"OTTO_S3_BUCKET":          &cfg.S3Bucket,
		"OTTO_S3_REGION":          &cfg.S3Region,
		"OTTO_S3_ENDPOINT":        &cfg.S3BaseEndpoint,
		"OTTO_STORAGE_PUBLIC_URL": &cfg.StoragePublicURL,
		"OTTO_SITE_URL":           &cfg.SiteURL,
		"OTTO_LOG_LEVEL":          &cfg.Log.Level,
		"OTTO_LOG_TYPE":           &cfg.Log.Type,
		"OTTO_LOG_FILE":           &cfg.Log.FilePath,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"OTTO_ACCESS_TOKEN_TTL":  &cfg.AccessTokenValidityDuration,
		"OTTO_REFRESH_TOKEN_TTL": &cfg.RefreshTokenValidityDuration,
		"OTTO_FILTERS_FRESHNESS": &cfg.FiltersFreshness,
		"OTTO_SCROLL_FRESHNESS":  &cfg.ScrollFreshness,
		"OTTO_RETURN_FRESHNESS":  &cfg.ReturnFlagFreshness,
		"OTTO_REVEAL_DELAY":      &cfg.RevealDelay,
	}
	for key, dst := range durations {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
	}

	if v, ok := lookup("OTTO_RATE_LIMIT"); ok && v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("OTTO_RATE_LIMIT: %w", err)
		}
		cfg.RateLimitPerSecond = uint(n)
	}
	if v, ok := lookup("OTTO_REVEAL_PAGE_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("OTTO_REVEAL_PAGE_SIZE: %w", err)
		}
		cfg.RevealPageSize = n
	}
	if v, ok := lookup("OTTO_CORS_ORIGINS"); ok && v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
