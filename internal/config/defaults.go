package config

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	clipboard := "wl-copy --trim-newline"

	return Config{
		Providers: ProvidersConfig{
			Primary: ProviderConfig{
				Service:   "openai",
				Model:     "whisper-1",
				Language:  "en",
				APIKeyEnv: "OPENAI_API_KEY",
			},
			Fallback: ProviderConfig{
				Service:   "groq",
				Model:     "whisper-large-v3",
				Language:  "en",
				APIKeyEnv: "GROQ_API_KEY",
			},
			TimeoutMS: 20000,
		},
		Capture: CaptureConfig{
			MinMS: 300,
			MaxMS: 120000,
		},
		Audio: AudioConfig{
			Input:    "default",
			Fallback: "default",
		},
		Paste: PasteConfig{Enable: true, Shortcut: "CTRL,V"},
		Transcript: TranscriptConfig{
			TrailingSpace:       true,
			CapitalizeSentences: false,
		},
		Indicator: IndicatorConfig{
			Enable:         true,
			Backend:        "hypr",
			DesktopAppName: "openwhisper-indicator",
			SoundEnable:    true,
			ErrorTimeoutMS: 1600,
		},
		Clipboard: CommandConfig{Raw: clipboard, Argv: mustParseArgv(clipboard)},
		Debug:     DebugConfig{},
	}
}
