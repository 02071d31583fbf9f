package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Parse reads configuration content as JSONC. Content must be a single JSON
// object, optionally with //, /* */ comments and trailing commas.
func Parse(content string, base Config) (Config, []Warning, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		validatedWarnings, err := Validate(base)
		if err != nil {
			return Config{}, nil, err
		}
		return base, validatedWarnings, nil
	}

	if !strings.HasPrefix(trimmed, "{") {
		return Config{}, nil, fmt.Errorf("config must be a JSONC object starting with '{'")
	}

	normalized, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, nil, err
	}

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}

	cfg := base
	if err := payload.applyTo(&cfg); err != nil {
		return Config{}, nil, err
	}

	warnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, warnings, nil
}

type jsoncConfig struct {
	Providers  *jsoncProviders  `json:"providers"`
	Capture    *jsoncCapture    `json:"capture"`
	Audio      *jsoncAudio      `json:"audio"`
	Paste      *jsoncPaste      `json:"paste"`
	Transcript *jsoncTranscript `json:"transcript"`
	Indicator  *jsoncIndicator  `json:"indicator"`

	ClipboardCmd *string    `json:"clipboard_cmd"`
	PasteCmd     *string    `json:"paste_cmd"`
	Debug        *jsoncDebug `json:"debug"`
}

type jsoncProviders struct {
	Primary   *jsoncProvider `json:"primary"`
	Fallback  *jsoncProvider `json:"fallback"`
	TimeoutMS *int           `json:"timeout_ms"`
}

type jsoncProvider struct {
	Service   *string `json:"service"`
	Model     *string `json:"model"`
	Language  *string `json:"language"`
	APIKeyEnv *string `json:"api_key_env"`
	BaseURL   *string `json:"base_url"`
}

type jsoncCapture struct {
	MinMS *int `json:"min_ms"`
	MaxMS *int `json:"max_ms"`
}

type jsoncAudio struct {
	Input    *string `json:"input"`
	Fallback *string `json:"fallback"`
}

type jsoncPaste struct {
	Enable   *bool   `json:"enable"`
	Shortcut *string `json:"shortcut"`
}

type jsoncTranscript struct {
	TrailingSpace       *bool `json:"trailing_space"`
	CapitalizeSentences *bool `json:"capitalize_sentences"`
}

type jsoncIndicator struct {
	Enable         *bool   `json:"enable"`
	Backend        *string `json:"backend"`
	DesktopAppName *string `json:"desktop_app_name"`
	SoundEnable    *bool   `json:"sound_enable"`
	ErrorTimeoutMS *int    `json:"error_timeout_ms"`
}

type jsoncDebug struct {
	AudioDump *bool `json:"audio_dump"`
}

func (payload jsoncConfig) applyTo(cfg *Config) error {
	if payload.Providers != nil {
		if payload.Providers.Primary != nil {
			payload.Providers.Primary.applyTo(&cfg.Providers.Primary)
		}
		if payload.Providers.Fallback != nil {
			payload.Providers.Fallback.applyTo(&cfg.Providers.Fallback)
		}
		if payload.Providers.TimeoutMS != nil {
			cfg.Providers.TimeoutMS = *payload.Providers.TimeoutMS
		}
	}

	if payload.Capture != nil {
		if payload.Capture.MinMS != nil {
			cfg.Capture.MinMS = *payload.Capture.MinMS
		}
		if payload.Capture.MaxMS != nil {
			cfg.Capture.MaxMS = *payload.Capture.MaxMS
		}
	}

	if payload.Audio != nil {
		if payload.Audio.Input != nil {
			cfg.Audio.Input = *payload.Audio.Input
		}
		if payload.Audio.Fallback != nil {
			cfg.Audio.Fallback = *payload.Audio.Fallback
		}
	}

	if payload.Paste != nil {
		if payload.Paste.Enable != nil {
			cfg.Paste.Enable = *payload.Paste.Enable
		}
		if payload.Paste.Shortcut != nil {
			cfg.Paste.Shortcut = strings.TrimSpace(*payload.Paste.Shortcut)
		}
	}

	if payload.Transcript != nil {
		if payload.Transcript.TrailingSpace != nil {
			cfg.Transcript.TrailingSpace = *payload.Transcript.TrailingSpace
		}
		if payload.Transcript.CapitalizeSentences != nil {
			cfg.Transcript.CapitalizeSentences = *payload.Transcript.CapitalizeSentences
		}
	}

	if payload.Indicator != nil {
		if payload.Indicator.Enable != nil {
			cfg.Indicator.Enable = *payload.Indicator.Enable
		}
		if payload.Indicator.Backend != nil {
			cfg.Indicator.Backend = strings.TrimSpace(*payload.Indicator.Backend)
		}
		if payload.Indicator.DesktopAppName != nil {
			cfg.Indicator.DesktopAppName = strings.TrimSpace(*payload.Indicator.DesktopAppName)
		}
		if payload.Indicator.SoundEnable != nil {
			cfg.Indicator.SoundEnable = *payload.Indicator.SoundEnable
		}
		if payload.Indicator.ErrorTimeoutMS != nil {
			cfg.Indicator.ErrorTimeoutMS = *payload.Indicator.ErrorTimeoutMS
		}
	}

	if payload.ClipboardCmd != nil {
		raw := *payload.ClipboardCmd
		argv, err := parseArgv(raw)
		if err != nil {
			return fmt.Errorf("invalid clipboard_cmd: %w", err)
		}
		cfg.Clipboard = CommandConfig{Raw: raw, Argv: argv}
	}

	if payload.PasteCmd != nil {
		raw := *payload.PasteCmd
		argv, err := parseArgv(raw)
		if err != nil {
			return fmt.Errorf("invalid paste_cmd: %w", err)
		}
		cfg.PasteCmd = CommandConfig{Raw: raw, Argv: argv}
	}

	if payload.Debug != nil && payload.Debug.AudioDump != nil {
		cfg.Debug.EnableAudioDump = *payload.Debug.AudioDump
	}

	return nil
}

func (p jsoncProvider) applyTo(cfg *ProviderConfig) {
	if p.Service != nil {
		cfg.Service = strings.ToLower(strings.TrimSpace(*p.Service))
	}
	if p.Model != nil {
		cfg.Model = strings.TrimSpace(*p.Model)
	}
	if p.Language != nil {
		cfg.Language = strings.TrimSpace(*p.Language)
	}
	if p.APIKeyEnv != nil {
		cfg.APIKeyEnv = strings.TrimSpace(*p.APIKeyEnv)
	}
	if p.BaseURL != nil {
		cfg.BaseURL = strings.TrimSpace(*p.BaseURL)
	}
}
