package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateDefaultsPass(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GROQ_API_KEY", "gsk-test")

	warnings, err := Validate(Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
}

func TestValidateWarnsOnMissingCredentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "gsk-test")

	warnings, err := Validate(Default())
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "OPENAI_API_KEY")
	require.Contains(t, warnings[0].Message, "skipped")
}

func TestValidateRejections(t *testing.T) {
	base := func() Config {
		cfg := Default()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "no provider configured",
			mutate:  func(c *Config) { c.Providers.Primary.Service = ""; c.Providers.Fallback.Service = "" },
			wantErr: "at least one",
		},
		{
			name:    "unknown service",
			mutate:  func(c *Config) { c.Providers.Primary.Service = "deepgram" },
			wantErr: "not supported",
		},
		{
			name:    "service without key env",
			mutate:  func(c *Config) { c.Providers.Primary.APIKeyEnv = "" },
			wantErr: "api_key_env",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Providers.TimeoutMS = 0 },
			wantErr: "timeout_ms",
		},
		{
			name:    "negative min capture",
			mutate:  func(c *Config) { c.Capture.MinMS = -1 },
			wantErr: "capture.min_ms",
		},
		{
			name:    "max not above min",
			mutate:  func(c *Config) { c.Capture.MaxMS = c.Capture.MinMS },
			wantErr: "capture.max_ms",
		},
		{
			name:    "bad indicator backend",
			mutate:  func(c *Config) { c.Indicator.Backend = "overlay" },
			wantErr: "indicator.backend",
		},
		{
			name:    "empty clipboard",
			mutate:  func(c *Config) { c.Clipboard = CommandConfig{} },
			wantErr: "clipboard_cmd",
		},
		{
			name: "paste enabled without shortcut or command",
			mutate: func(c *Config) {
				c.Paste.Enable = true
				c.Paste.Shortcut = ""
				c.PasteCmd = CommandConfig{}
			},
			wantErr: "paste.shortcut",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			_, err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
