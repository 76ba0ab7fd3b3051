package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/resumeai/internal/flagx"
)

var knownFlags = []string{"-a", "-g", "-d", "-s", "-t", "-x", "-l", "-dev-echo", "-r", "-k", "-m",
	"-u", "-p", "-b", "-region", "-e", "-log-format", "-log-level"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g. ":8000")
//	-g string   gRPC health bind address; empty disables it
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-x int      sign-in challenge lifetime, minutes
//	-l int      free-tier analysis limit
//	-dev-echo   return the sign-in secret in the challenge response
//	-r string   Redis URL for the challenge store
//	-k string   Gemini API key
//	-m string   Gemini model name
//	-u/-p/-b/-region/-e  S3 user, password, bucket, region, endpoint
//
// Duration flags are integers in minutes. Unknown flags are filtered out
// with flagx.FilterArgs so cobra and the JSON loader can share the line.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "address and port to run the API on")
	fs.StringVar(&cfg.HealthAddrGRPC, "g", cfg.HealthAddrGRPC, "address and port of the gRPC health service")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")

	accessTTL := fs.Int("t", int(cfg.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	challengeTTL := fs.Int("x", int(cfg.ChallengeTTL.Minutes()), "challenge_ttl (in minutes)")

	fs.IntVar(&cfg.UsageLimit, "l", cfg.UsageLimit, "free-tier analysis limit")
	fs.BoolVar(&cfg.DevEchoSecret, "dev-echo", cfg.DevEchoSecret, "echo sign-in secrets (development only)")
	fs.StringVar(&cfg.RedisURL, "r", cfg.RedisURL, "redis URL")
	fs.StringVar(&cfg.GeminiAPIKey, "k", cfg.GeminiAPIKey, "Gemini API key")
	fs.StringVar(&cfg.GeminiModel, "m", cfg.GeminiModel, "Gemini model")

	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 root user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 root password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "region", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: json, text or zap")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		panic(err)
	}

	cfg.AccessTokenValidityDuration = time.Duration(*accessTTL) * time.Minute
	cfg.ChallengeTTL = time.Duration(*challengeTTL) * time.Minute
}
