// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 500, cfg.Search.RetMax)
	assert.Equal(t, "pubmed", cfg.Search.Database)
	assert.Equal(t, 500*time.Millisecond, cfg.Download.PacingInterval)
	assert.Equal(t, "nbib", cfg.Download.Extension)
	assert.Equal(t, "output", cfg.OutputDir)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"retmax above service cap", func(c *Config) { c.Search.RetMax = MaxRetMax + 1 }},
		{"negative retmax", func(c *Config) { c.Search.RetMax = -1 }},
		{"negative pacing", func(c *Config) { c.Download.PacingInterval = -time.Second }},
		{"missing output dir", func(c *Config) { c.OutputDir = "" }},
		{"bad search url", func(c *Config) { c.Search.URL = "not a url" }},
		{"extension with separator", func(c *Config) { c.Download.Extension = "a/b" }},
		{"bad email", func(c *Config) { c.Search.Email = "nobody" }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestConfigValidateAllowsEmptyQuery(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Query = ""
	assert.NoError(t, cfg.Validate())
}

func TestOutcomeOK(t *testing.T) {
	assert.True(t, Outcome{Status: StatusWritten}.OK())
	assert.False(t, Outcome{Status: StatusFailed}.OK())
}
