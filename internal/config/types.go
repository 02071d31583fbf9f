// Package config resolves, parses, validates, and defaults openwhisper
// configuration.
package config

// Config is the fully materialized runtime configuration used by openwhisper.
type Config struct {
	Providers  ProvidersConfig
	Capture    CaptureConfig
	Audio      AudioConfig
	Paste      PasteConfig
	Transcript TranscriptConfig
	Indicator  IndicatorConfig
	Clipboard  CommandConfig
	PasteCmd   CommandConfig
	Debug      DebugConfig
}

// ProvidersConfig holds the ordered provider pair and the shared per-attempt
// budget.
type ProvidersConfig struct {
	Primary  ProviderConfig
	Fallback ProviderConfig
	// TimeoutMS bounds each provider attempt; the two-attempt protocol bounds
	// worst-case latency to roughly two of these windows.
	TimeoutMS int
}

// ProviderConfig describes one remote speech service slot. An empty Service
// leaves the slot unconfigured.
type ProviderConfig struct {
	Service   string
	Model     string
	Language  string
	APIKeyEnv string
	BaseURL   string
}

// CaptureConfig bounds utterance length.
type CaptureConfig struct {
	// MinMS is the shortest capture worth sending to a provider.
	MinMS int
	// MaxMS force-stops a capture that the user forgot about.
	MaxMS int
}

// AudioConfig controls preferred and fallback input-source selection.
type AudioConfig struct {
	Input    string
	Fallback string
}

// PasteConfig controls post-delivery paste behavior.
type PasteConfig struct {
	Enable   bool
	Shortcut string
}

// TranscriptConfig controls transcript normalization before delivery.
type TranscriptConfig struct {
	TrailingSpace       bool
	CapitalizeSentences bool
}

// IndicatorConfig controls visual indicator and audio cue behavior.
type IndicatorConfig struct {
	Enable            bool
	Backend           string
	DesktopAppName    string
	SoundEnable       bool
	SoundStartFile    string
	SoundStopFile     string
	SoundCompleteFile string
	SoundCancelFile   string
	ErrorTimeoutMS    int
}

// CommandConfig stores a raw command string and its parsed argv form.
type CommandConfig struct {
	Raw  string
	Argv []string
}

// DebugConfig controls optional debug artifact output.
type DebugConfig struct {
	EnableAudioDump bool
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}

// KnownServices lists the provider service names this build can construct.
var KnownServices = []string{"openai", "groq"}
