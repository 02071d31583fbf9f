// Package hypr wraps the hyprctl dispatch and query surface used for paste
// injection and on-screen indicators.
package hypr

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const defaultNotifyColor = "rgb(89b4fa)"

// ActiveWindow identifies the window that should receive a paste dispatch.
type ActiveWindow struct {
	Address      string `json:"address"`
	Class        string `json:"class"`
	InitialClass string `json:"initialClass"`
}

type monitor struct {
	Name    string `json:"name"`
	Focused bool   `json:"focused"`
}

// QueryActiveWindow asks hyprctl for the currently focused window and rejects
// responses without a usable address.
func QueryActiveWindow(ctx context.Context) (ActiveWindow, error) {
	raw, err := hyprctlOutput(ctx, "-j", "activewindow")
	if err != nil {
		return ActiveWindow{}, err
	}

	var win ActiveWindow
	if err := json.Unmarshal(raw, &win); err != nil {
		return ActiveWindow{}, fmt.Errorf("decode hyprctl activewindow json: %w", err)
	}
	win.Address = strings.TrimSpace(win.Address)
	win.Class = strings.TrimSpace(win.Class)
	win.InitialClass = strings.TrimSpace(win.InitialClass)
	if win.Address == "" {
		return ActiveWindow{}, fmt.Errorf("hyprctl activewindow returned empty address")
	}
	return win, nil
}

// QueryFocusedMonitor returns the focused monitor name, falling back to the
// first listed output when none reports focus.
func QueryFocusedMonitor(ctx context.Context) (string, error) {
	raw, err := hyprctlOutput(ctx, "-j", "monitors")
	if err != nil {
		return "", err
	}

	var monitors []monitor
	if err := json.Unmarshal(raw, &monitors); err != nil {
		return "", fmt.Errorf("decode hyprctl monitors json: %w", err)
	}
	for _, mon := range monitors {
		if mon.Focused {
			return strings.TrimSpace(mon.Name), nil
		}
	}
	if len(monitors) == 0 {
		return "", fmt.Errorf("hyprctl monitors returned no outputs")
	}
	return strings.TrimSpace(monitors[0].Name), nil
}

// SendShortcut dispatches a literal sendshortcut payload, typically
// "MOD,KEY,address:0x..." to target a specific window.
func SendShortcut(ctx context.Context, shortcut string) error {
	shortcut = strings.TrimSpace(shortcut)
	if shortcut == "" {
		return fmt.Errorf("sendshortcut requires a non-empty payload")
	}
	return hyprctl(ctx, "--quiet", "dispatch", "sendshortcut", shortcut)
}

// Notify shows a Hyprland notification.
func Notify(ctx context.Context, icon int, timeoutMS int, color string, text string) error {
	if strings.TrimSpace(color) == "" {
		color = defaultNotifyColor
	}
	return hyprctl(
		ctx,
		"--quiet",
		"dispatch",
		"notify",
		strconv.Itoa(icon),
		strconv.Itoa(timeoutMS),
		color,
		text,
	)
}

// DismissNotify clears active Hyprland notifications.
func DismissNotify(ctx context.Context) error {
	return hyprctl(ctx, "--quiet", "dispatch", "dismissnotify")
}

func hyprctl(ctx context.Context, args ...string) error {
	_, err := hyprctlOutput(ctx, args...)
	return err
}

func hyprctlOutput(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "hyprctl", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed == "" {
			return nil, fmt.Errorf("hyprctl %v failed: %w", args, err)
		}
		return nil, fmt.Errorf("hyprctl %v failed: %w (%s)", args, err, trimmed)
	}
	return out, nil
}
