package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/resumeai/internal/client/models"
	"github.com/dmitrijs2005/resumeai/internal/flagx"
	"github.com/dmitrijs2005/resumeai/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the current value alone.
type JsonConfig struct {
	ServerURL           string          `json:"server_url"`
	HealthAddr          *string         `json:"health_addr"`
	ChallengeVariant    string          `json:"challenge_variant"`
	UsageLimit          int             `json:"usage_limit"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	DataDir             string          `json:"data_dir"`
	DevEchoSecret       *bool           `json:"dev_echo_secret"`
	LogFormat           string          `json:"log_format"`
	LogLevel            string          `json:"log_level"`
}

// parseJson overlays Config with values from the file named by -c or -config.
// It panics on read or unmarshal errors.
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

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.HealthAddr != nil {
		cfg.HealthAddr = *jc.HealthAddr
	}
	if jc.ChallengeVariant != "" {
		cfg.ChallengeVariant = models.ChallengeVariant(jc.ChallengeVariant)
	}
	if jc.UsageLimit != 0 {
		cfg.UsageLimit = jc.UsageLimit
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.DevEchoSecret != nil {
		cfg.DevEchoSecret = *jc.DevEchoSecret
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
