// Package doctor runs runtime readiness diagnostics for config, tools, audio,
// and speech provider credentials.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/openwhisper/openwhisper/internal/audio"
	"github.com/openwhisper/openwhisper/internal/config"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(cfg config.Loaded) Report {
	checks := []Check{}

	checks = append(checks, Check{
		Name:    "config",
		Pass:    true,
		Message: fmt.Sprintf("loaded %q", cfg.Path),
	})

	checks = append(checks, checkEnv("XDG_SESSION_TYPE", func(v string) bool {
		return strings.EqualFold(strings.TrimSpace(v), "wayland")
	}, "session type is wayland", "expected XDG_SESSION_TYPE=wayland"))

	checks = append(checks, checkEnv("HYPRLAND_INSTANCE_SIGNATURE", func(v string) bool {
		return strings.TrimSpace(v) != ""
	}, "Hyprland session detected", "HYPRLAND_INSTANCE_SIGNATURE is empty"))

	checks = append(checks, checkCommand(cfg.Config.Clipboard.Argv, "clipboard_cmd"))

	if cfg.Config.Paste.Enable {
		if len(cfg.Config.PasteCmd.Argv) > 0 {
			checks = append(checks, checkCommand(cfg.Config.PasteCmd.Argv, "paste_cmd"))
		} else {
			checks = append(checks, checkBinary("hyprctl", "default paste path requires hyprctl"))
		}
	}

	checks = append(checks, checkAudioSelection(cfg.Config))
	checks = append(checks, checkProviders(cfg.Config)...)

	return Report{Checks: checks}
}

// checkEnv validates an environment variable through a caller-supplied predicate.
func checkEnv(name string, predicate func(string) bool, okMsg, failMsg string) Check {
	value := os.Getenv(name)
	if predicate(value) {
		return Check{Name: name, Pass: true, Message: okMsg}
	}
	return Check{Name: name, Pass: false, Message: failMsg}
}

// checkCommand validates that argv contains a runnable command.
func checkCommand(argv []string, name string) Check {
	if len(argv) == 0 {
		return Check{Name: name, Pass: false, Message: "command is empty"}
	}
	return checkBinary(argv[0], fmt.Sprintf("%s command is available", name))
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}

// checkAudioSelection runs live device selection to surface selection/fallback issues.
func checkAudioSelection(cfg config.Config) Check {
	selection, err := audio.SelectDevice(context.Background(), cfg.Audio.Input, cfg.Audio.Fallback)
	if err != nil {
		return Check{Name: "audio.device", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("selected %q", selection.Device.ID)
	if selection.Warning != "" {
		message = message + " (" + selection.Warning + ")"
	}
	return Check{Name: "audio.device", Pass: true, Message: message}
}

// checkProviders verifies each configured provider slot has its API key in the
// environment. Key values are never printed.
func checkProviders(cfg config.Config) []Check {
	slots := []struct {
		name string
		slot config.ProviderConfig
	}{
		{"providers.primary", cfg.Providers.Primary},
		{"providers.fallback", cfg.Providers.Fallback},
	}

	checks := make([]Check, 0, len(slots)+1)
	configured := 0
	for _, s := range slots {
		service := strings.TrimSpace(s.slot.Service)
		if service == "" {
			checks = append(checks, Check{Name: s.name, Pass: true, Message: "not configured (slot skipped)"})
			continue
		}
		configured++

		envName := strings.TrimSpace(s.slot.APIKeyEnv)
		if envName == "" {
			checks = append(checks, Check{Name: s.name, Pass: false, Message: fmt.Sprintf("%s slot has no api_key_env", service)})
			continue
		}
		if strings.TrimSpace(os.Getenv(envName)) == "" {
			checks = append(checks, Check{Name: s.name, Pass: false, Message: fmt.Sprintf("%s is not set; %s slot will be skipped", envName, service)})
			continue
		}
		checks = append(checks, Check{Name: s.name, Pass: true, Message: fmt.Sprintf("%s credential present (%s)", service, envName)})
	}

	if configured == 0 {
		checks = append(checks, Check{Name: "providers", Pass: false, Message: "no speech provider configured"})
	}
	return checks
}
