// Package pipeline owns the microphone capture lifecycle behind the session
// controller's Recorder seam.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/openwhisper/openwhisper/internal/audio"
	"github.com/openwhisper/openwhisper/internal/config"
	"github.com/openwhisper/openwhisper/internal/session"
)

// Recorder captures one utterance from the selected Pulse source and hands
// back a WAV payload on Stop.
type Recorder struct {
	cfg    config.Config
	logger *slog.Logger

	mu      sync.Mutex
	started bool

	selection audio.Selection
	capture   *audio.Capture
	drainDone chan struct{}
}

// NewRecorder constructs a pipeline recorder from runtime config.
func NewRecorder(cfg config.Config, logger *slog.Logger) *Recorder {
	return &Recorder{cfg: cfg, logger: logger}
}

// Start resolves device selection and begins audio capture.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return fmt.Errorf("recorder already started")
	}

	selection, err := audio.SelectDevice(ctx, r.cfg.Audio.Input, r.cfg.Audio.Fallback)
	if err != nil {
		return err
	}
	r.selection = selection
	if selection.Warning != "" {
		r.logWarn(selection.Warning)
	}

	capture, err := audio.StartCapture(ctx, selection.Device)
	if err != nil {
		return err
	}
	r.capture = capture

	// Keep the chunk channel flowing so capture backpressure never stalls
	// Pulse writes; the assembled PCM is read from the capture snapshot on
	// Stop.
	r.drainDone = make(chan struct{})
	go func(c *audio.Capture, done chan struct{}) {
		defer close(done)
		for range c.Chunks() {
		}
	}(capture, r.drainDone)

	r.started = true
	return nil
}

// Stop halts capture and assembles the recorded audio into a WAV payload.
func (r *Recorder) Stop(_ context.Context) (session.Capture, error) {
	r.mu.Lock()
	started := r.started
	capture := r.capture
	selection := r.selection
	drainDone := r.drainDone
	r.started = false
	r.capture = nil
	r.drainDone = nil
	r.mu.Unlock()

	if !started || capture == nil {
		return session.Capture{}, session.ErrRecorderUnavailable
	}

	_ = capture.Stop()
	if drainDone != nil {
		<-drainDone
	}

	rawPCM := capture.RawPCM()
	r.writeDebugAudio(rawPCM)

	return session.Capture{
		WAV:      audio.EncodeWAV(rawPCM),
		Duration: audio.PCMDuration(int64(len(rawPCM))),
		Device:   describeDevice(selection.Device),
		Bytes:    capture.BytesCaptured(),
	}, nil
}

// Cancel discards the capture without producing a payload.
func (r *Recorder) Cancel(_ context.Context) error {
	r.mu.Lock()
	capture := r.capture
	drainDone := r.drainDone
	r.started = false
	r.capture = nil
	r.drainDone = nil
	r.mu.Unlock()

	if capture != nil {
		_ = capture.Stop()
		if drainDone != nil {
			<-drainDone
		}
		r.writeDebugAudio(capture.RawPCM())
	}
	return nil
}

// describeDevice formats device metadata for logs/session results.
func describeDevice(device audio.Device) string {
	description := strings.TrimSpace(device.Description)
	id := strings.TrimSpace(device.ID)
	if description == "" {
		return id
	}
	if id == "" {
		return description
	}
	return fmt.Sprintf("%s (%s)", description, id)
}

func (r *Recorder) logWarn(message string) {
	if r.logger == nil {
		return
	}
	r.logger.Warn(message)
}

// writeDebugAudio writes captured PCM to WAV when debug.audio_dump is enabled.
func (r *Recorder) writeDebugAudio(rawPCM []byte) {
	if !r.cfg.Debug.EnableAudioDump || len(rawPCM) == 0 {
		return
	}

	file, err := createDebugFile("audio", "wav")
	if err != nil {
		r.logWarn(fmt.Sprintf("unable to create debug audio dump: %v", err))
		return
	}
	defer file.Close()

	if _, err := file.Write(audio.EncodeWAV(rawPCM)); err != nil {
		r.logWarn(fmt.Sprintf("unable to write debug audio dump: %v", err))
	}
}

// createDebugFile creates timestamped debug artifacts under
// state/openwhisper/debug.
func createDebugFile(prefix string, extension string) (*os.File, error) {
	stateDir, err := resolveStateDir()
	if err != nil {
		return nil, err
	}
	debugDir := filepath.Join(stateDir, "openwhisper", "debug")
	if err := os.MkdirAll(debugDir, 0o700); err != nil {
		return nil, fmt.Errorf("create debug dir: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405.000")
	path := filepath.Join(debugDir, fmt.Sprintf("%s-%s.%s", prefix, timestamp, extension))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open debug file %q: %w", path, err)
	}
	return file, nil
}

// resolveStateDir returns the XDG_STATE_HOME fallback path for debug
// artifacts.
func resolveStateDir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); xdg != "" {
		return xdg, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory for state: %w", err)
	}
	return filepath.Join(home, ".local", "state"), nil
}
