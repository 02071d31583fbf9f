package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if err := validateProvider("providers.primary", cfg.Providers.Primary); err != nil {
		return nil, err
	}
	if err := validateProvider("providers.fallback", cfg.Providers.Fallback); err != nil {
		return nil, err
	}
	if cfg.Providers.Primary.Service == "" && cfg.Providers.Fallback.Service == "" {
		return nil, fmt.Errorf("at least one of providers.primary or providers.fallback must set a service")
	}
	if cfg.Providers.TimeoutMS <= 0 {
		return nil, fmt.Errorf("providers.timeout_ms must be > 0")
	}

	if cfg.Capture.MinMS < 0 {
		return nil, fmt.Errorf("capture.min_ms must be >= 0")
	}
	if cfg.Capture.MaxMS <= 0 {
		return nil, fmt.Errorf("capture.max_ms must be > 0")
	}
	if cfg.Capture.MaxMS <= cfg.Capture.MinMS {
		return nil, fmt.Errorf("capture.max_ms must be greater than capture.min_ms")
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Indicator.Backend))
	if backend == "" {
		return nil, fmt.Errorf("indicator.backend must not be empty")
	}
	if backend != "hypr" && backend != "desktop" {
		return nil, fmt.Errorf("indicator.backend must be one of: hypr, desktop")
	}
	if backend == "desktop" && strings.TrimSpace(cfg.Indicator.DesktopAppName) == "" {
		return nil, fmt.Errorf("indicator.desktop_app_name must not be empty when indicator.backend=desktop")
	}
	if cfg.Indicator.ErrorTimeoutMS < 0 {
		return nil, fmt.Errorf("indicator.error_timeout_ms must be >= 0")
	}

	if len(cfg.Clipboard.Argv) == 0 {
		return nil, fmt.Errorf("clipboard_cmd must not be empty")
	}
	if cfg.Paste.Enable && cfg.PasteCmd.Raw != "" && len(cfg.PasteCmd.Argv) == 0 {
		return nil, fmt.Errorf("paste_cmd is configured but empty")
	}
	if cfg.Paste.Enable && len(cfg.PasteCmd.Argv) == 0 && strings.TrimSpace(cfg.Paste.Shortcut) == "" {
		return nil, fmt.Errorf("paste.shortcut must not be empty when paste.enable=true and paste_cmd is unset")
	}

	warnings = append(warnings, credentialWarnings(cfg)...)

	return warnings, nil
}

// validateProvider checks one provider slot. Empty service means unset and is
// always valid; a set service must be known and name its credential env var.
func validateProvider(key string, cfg ProviderConfig) error {
	if cfg.Service == "" {
		return nil
	}
	if !slices.Contains(KnownServices, cfg.Service) {
		return fmt.Errorf("%s.service %q is not supported (known: %s)", key, cfg.Service, strings.Join(KnownServices, ", "))
	}
	if strings.TrimSpace(cfg.APIKeyEnv) == "" {
		return fmt.Errorf("%s.api_key_env must not be empty when a service is set", key)
	}
	return nil
}

// credentialWarnings surfaces missing API keys at load time without failing:
// an unconfigured slot is skipped at session time, and the fallback may still
// carry the session.
func credentialWarnings(cfg Config) []Warning {
	warnings := make([]Warning, 0, 2)
	for _, slot := range []struct {
		key string
		p   ProviderConfig
	}{
		{"providers.primary", cfg.Providers.Primary},
		{"providers.fallback", cfg.Providers.Fallback},
	} {
		if slot.p.Service == "" {
			continue
		}
		if strings.TrimSpace(os.Getenv(slot.p.APIKeyEnv)) == "" {
			warnings = append(warnings, Warning{
				Message: fmt.Sprintf("%s (%s) has no API key in $%s; slot will be skipped", slot.key, slot.p.Service, slot.p.APIKeyEnv),
			})
		}
	}
	return warnings
}
