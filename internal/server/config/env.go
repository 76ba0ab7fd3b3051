package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment variable the server reads.
const EnvPrefix = "RESUMEAI_"

// parseEnv overlays cfg with RESUMEAI_* variables. Secrets are expected to
// arrive this way, usually from a .env file loaded at startup. Malformed
// numbers and durations panic like a bad flag would.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	str("HTTP_ADDR", &cfg.HTTPAddr)
	str("HEALTH_ADDR_GRPC", &cfg.HealthAddrGRPC)
	str("DATABASE_DSN", &cfg.DatabaseDSN)
	str("SECRET_KEY", &cfg.SecretKey)
	str("REDIS_URL", &cfg.RedisURL)
	str("GEMINI_API_KEY", &cfg.GeminiAPIKey)
	str("GEMINI_MODEL", &cfg.GeminiModel)
	str("S3_ROOT_USER", &cfg.S3RootUser)
	str("S3_ROOT_PASSWORD", &cfg.S3RootPassword)
	str("S3_BUCKET", &cfg.S3Bucket)
	str("S3_REGION", &cfg.S3Region)
	str("S3_BASE_ENDPOINT", &cfg.S3BaseEndpoint)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("LOG_LEVEL", &cfg.LogLevel)

	if v, ok := lookup(EnvPrefix + "ACCESS_TOKEN_VALIDITY"); ok {
		cfg.AccessTokenValidityDuration = mustDuration("ACCESS_TOKEN_VALIDITY", v)
	}
	if v, ok := lookup(EnvPrefix + "CHALLENGE_TTL"); ok {
		cfg.ChallengeTTL = mustDuration("CHALLENGE_TTL", v)
	}
	if v, ok := lookup(EnvPrefix + "USAGE_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("%sUSAGE_LIMIT: %w", EnvPrefix, err))
		}
		cfg.UsageLimit = n
	}
	if v, ok := lookup(EnvPrefix + "DEV_ECHO_SECRET"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("%sDEV_ECHO_SECRET: %w", EnvPrefix, err))
		}
		cfg.DevEchoSecret = b
	}
	if v, ok := lookup(EnvPrefix + "CORS_ORIGINS"); ok {
		cfg.CORSOrigins = splitList(v)
	}
}

func mustDuration(name, v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
