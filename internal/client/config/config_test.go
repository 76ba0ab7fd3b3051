package config

import (
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/resumeai/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8000", c.ServerURL)
	assert.Equal(t, models.VariantLink, c.ChallengeVariant)
	assert.Equal(t, 3, c.UsageLimit)
	assert.Equal(t, 5*time.Second, c.OnlineCheckInterval)
	assert.False(t, c.DevEchoSecret)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8000", cfg.ServerURL)
	assert.Equal(t, 90*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"server_url":        "http://json:1",
		"challenge_variant": "code",
	})
	os.Args = []string{"testbin", "-c", path, "-s", "http://flag:2"}

	cfg := LoadConfig()
	assert.Equal(t, "http://flag:2", cfg.ServerURL)
	assert.Equal(t, models.VariantCode, cfg.ChallengeVariant)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"variant", func(c *Config) { c.ChallengeVariant = "sms" }},
		{"limit", func(c *Config) { c.UsageLimit = 0 }},
		{"timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"interval", func(c *Config) { c.OnlineCheckInterval = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
