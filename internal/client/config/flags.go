package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/resumeai/internal/client/models"
	"github.com/dmitrijs2005/resumeai/internal/flagx"
)

var knownFlags = []string{"-s", "-g", "-m", "-l", "-t", "-i", "-d", "-dev-echo", "-log-format", "-log-level"}

// parseFlags populates Config fields from command-line flags. Flags it does
// not know are ignored so the JSON loader's -c/-config can share the line.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "backend base URL")
	fs.StringVar(&cfg.HealthAddr, "g", cfg.HealthAddr, "host:port of the backend gRPC health service (empty uses GET /health)")
	variant := fs.String("m", string(cfg.ChallengeVariant), "sign-in method: link or code")
	fs.IntVar(&cfg.UsageLimit, "l", cfg.UsageLimit, "free-tier analysis limit")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "directory for the local database")
	fs.BoolVar(&cfg.DevEchoSecret, "dev-echo", cfg.DevEchoSecret, "accept a sign-in secret echoed by a development backend")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text, json or zap")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		panic(err)
	}

	cfg.ChallengeVariant = models.ChallengeVariant(*variant)
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
}
