package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/resumeai/internal/client/models"
	"github.com/dmitrijs2005/resumeai/internal/common"
)

// Config holds runtime settings for the resumeai CLI.
type Config struct {
	ServerURL           string
	HealthAddr          string
	ChallengeVariant    models.ChallengeVariant
	UsageLimit          int
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	DataDir             string
	DevEchoSecret       bool
	LogFormat           string
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.HealthAddr = "127.0.0.1:50051"
	c.ChallengeVariant = models.VariantLink
	c.UsageLimit = common.DefaultUsageLimit
	c.RequestTimeout = 90 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
	c.DataDir = ".resumeai"
	c.DevEchoSecret = false
	c.LogFormat = "text"
	c.LogLevel = "warn"
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	if _, err := models.ParseChallengeVariant(string(c.ChallengeVariant)); err != nil {
		return err
	}
	if c.UsageLimit <= 0 {
		return fmt.Errorf("usage limit must be positive, got %d", c.UsageLimit)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive, got %s", c.OnlineCheckInterval)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
