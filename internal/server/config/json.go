package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/resumeai/internal/flagx"
	"github.com/dmitrijs2005/resumeai/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations
// accept "1h" style strings or integer nanoseconds; absent keys leave the
// current value alone.
type JsonConfig struct {
	HTTPAddr                    string          `json:"http_addr"`
	HealthAddrGRPC              *string         `json:"health_addr_grpc"`
	DatabaseDSN                 string          `json:"database_dsn"`
	SecretKey                   string          `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	ChallengeTTL                *timex.Duration `json:"challenge_ttl"`
	UsageLimit                  int             `json:"usage_limit"`
	DevEchoSecret               *bool           `json:"dev_echo_secret"`
	RedisURL                    string          `json:"redis_url"`
	GeminiAPIKey                string          `json:"gemini_api_key"`
	GeminiModel                 string          `json:"gemini_model"`
	CORSOrigins                 []string        `json:"cors_origins"`
	S3RootUser                  string          `json:"s3_root_user"`
	S3RootPassword              string          `json:"s3_root_password"`
	S3Bucket                    string          `json:"s3_bucket"`
	S3Region                    string          `json:"s3_region"`
	S3BaseEndpoint              string          `json:"s3_base_endpoint"`
	LogFormat                   string          `json:"log_format"`
	LogLevel                    string          `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c or -config, if any.
// It panics when the file cannot be read or is not valid JSON.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.HTTPAddr, jc.HTTPAddr)
	if jc.HealthAddrGRPC != nil {
		cfg.HealthAddrGRPC = *jc.HealthAddrGRPC
	}
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.SecretKey, jc.SecretKey)
	if jc.AccessTokenValidityDuration != nil {
		cfg.AccessTokenValidityDuration = jc.AccessTokenValidityDuration.Duration
	}
	if jc.ChallengeTTL != nil {
		cfg.ChallengeTTL = jc.ChallengeTTL.Duration
	}
	if jc.UsageLimit != 0 {
		cfg.UsageLimit = jc.UsageLimit
	}
	if jc.DevEchoSecret != nil {
		cfg.DevEchoSecret = *jc.DevEchoSecret
	}
	setString(&cfg.RedisURL, jc.RedisURL)
	setString(&cfg.GeminiAPIKey, jc.GeminiAPIKey)
	setString(&cfg.GeminiModel, jc.GeminiModel)
	if len(jc.CORSOrigins) > 0 {
		cfg.CORSOrigins = jc.CORSOrigins
	}
	setString(&cfg.S3RootUser, jc.S3RootUser)
	setString(&cfg.S3RootPassword, jc.S3RootPassword)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.LogLevel, jc.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
