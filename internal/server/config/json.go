package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ottocollect/ottocollect/internal/flagx"
	"github.com/ottocollect/ottocollect/internal/timex"
)

// JSONConfig mirrors Config for JSON files. Durations accept "15m" strings
// or integer nanoseconds. Only fields present in the file override the
// current values.
type JSONConfig struct {
	HTTPAddr                     string          `json:"http_addr"`
	GRPCAddr                     string          `json:"grpc_addr"`
	DatabaseDSN                  string          `json:"database_dsn"`
	SecretKey                    string          `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	S3RootUser                   string          `json:"s3_root_user"`
	S3RootPassword               string          `json:"s3_root_password"`
	S3Bucket                     string          `json:"s3_bucket"`
	S3Region                     string          `json:"s3_region"`
	S3BaseEndpoint               string          `json:"s3_base_endpoint"`
	StoragePublicURL             string          `json:"storage_public_url"`
	SiteURL                      string          `json:"site_url"`
	CORSOrigins                  []string        `json:"cors_origins"`
	RateLimitPerSecond           uint            `json:"rate_limit_per_second"`
	FiltersFreshness             *timex.Duration `json:"filters_freshness"`
	ScrollFreshness              *timex.Duration `json:"scroll_freshness"`
	ReturnFlagFreshness          *timex.Duration `json:"return_flag_freshness"`
	RevealPageSize               int             `json:"reveal_page_size"`
	RevealDelay                  *timex.Duration `json:"reveal_delay"`
	LogLevel                     string          `json:"log_level"`
	LogType                      string          `json:"log_type"`
	LogFile                      string          `json:"log_file"`
}

// parseJSON loads the file named by -c/-config, if any, over cfg.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JSONConfig{}
	if err := json.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.HTTPAddr, c.HTTPAddr)
	setString(&cfg.GRPCAddr, c.GRPCAddr)
	setString(&cfg.DatabaseDSN, c.DatabaseDSN)
	setString(&cfg.SecretKey, c.SecretKey)
	setString(&cfg.S3RootUser, c.S3RootUser)
	setString(&cfg.S3RootPassword, c.S3RootPassword)
	setString(&cfg.S3Bucket, c.S3Bucket)
	setString(&cfg.S3Region, c.S3Region)
	setString(&cfg.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&cfg.StoragePublicURL, c.StoragePublicURL)
	setString(&cfg.SiteURL, c.SiteURL)
	setString(&cfg.Log.Level, c.LogLevel)
	setString(&cfg.Log.Type, c.LogType)
	setString(&cfg.Log.FilePath, c.LogFile)

	setDuration(&cfg.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&cfg.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setDuration(&cfg.FiltersFreshness, c.FiltersFreshness)
	setDuration(&cfg.ScrollFreshness, c.ScrollFreshness)
	setDuration(&cfg.ReturnFlagFreshness, c.ReturnFlagFreshness)
	setDuration(&cfg.RevealDelay, c.RevealDelay)

	if len(c.CORSOrigins) > 0 {
		cfg.CORSOrigins = c.CORSOrigins
	}
	if c.RateLimitPerSecond > 0 {
		cfg.RateLimitPerSecond = c.RateLimitPerSecond
	}
	if c.RevealPageSize > 0 {
		cfg.RevealPageSize = c.RevealPageSize
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
