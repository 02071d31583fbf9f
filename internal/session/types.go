package session

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrRecorderUnavailable indicates runtime capture wiring is missing.
	ErrRecorderUnavailable = errors.New("audio capture pipeline not implemented")
	// ErrEmptyTranscript indicates the provider returned no usable speech.
	ErrEmptyTranscript = errors.New("no speech recognized; check microphone input or mute state")
	// ErrCaptureTooShort indicates the capture fell below the minimum worth
	// sending to a provider.
	ErrCaptureTooShort = errors.New("capture too short; held for less than the minimum duration")
	// ErrSessionActive indicates an activation arrived while a session was
	// already running.
	ErrSessionActive = errors.New("a dictation session is already running")
)

// Mode distinguishes how a session ends: toggle sessions stop on a second
// hotkey press, hold sessions stop when the key is released.
type Mode string

const (
	ModeToggle Mode = "toggle"
	ModeHold   Mode = "hold"
)

// Capture is the recorder output consumed by the session controller.
type Capture struct {
	WAV      []byte
	Duration time.Duration
	Device   string
	Bytes    int64
}

// Recorder abstracts microphone capture for session orchestration.
type Recorder interface {
	Start(context.Context) error
	Stop(context.Context) (Capture, error)
	Cancel(context.Context) error
}

// PlaceholderRecorder is a no-op placeholder used in tests/fallback wiring.
type PlaceholderRecorder struct{}

func (PlaceholderRecorder) Start(context.Context) error {
	return nil
}

func (PlaceholderRecorder) Stop(context.Context) (Capture, error) {
	return Capture{}, ErrRecorderUnavailable
}

func (PlaceholderRecorder) Cancel(context.Context) error {
	return nil
}

// Committer delivers a finished transcript and reports the text that was
// actually delivered after normalization.
type Committer interface {
	Commit(context.Context, string) (string, error)
}

// CommitFunc adapts a function to the Committer interface.
type CommitFunc func(context.Context, string) (string, error)

func (f CommitFunc) Commit(ctx context.Context, transcript string) (string, error) {
	return f(ctx, transcript)
}

// Indicator is the session-facing subset of indicator behavior.
type Indicator interface {
	ShowRecording(context.Context)
	ShowTranscribing(context.Context)
	ShowError(context.Context, string)
	CueStop(context.Context)
	CueComplete(context.Context)
	CueCancel(context.Context)
	Hide(context.Context)
	FocusedMonitor() string
}

// noopIndicator preserves session flow when no indicator is wired.
type noopIndicator struct{}

func (noopIndicator) ShowRecording(context.Context)     {}
func (noopIndicator) ShowTranscribing(context.Context)  {}
func (noopIndicator) ShowError(context.Context, string) {}
func (noopIndicator) CueStop(context.Context)           {}
func (noopIndicator) CueComplete(context.Context)       {}
func (noopIndicator) CueCancel(context.Context)         {}
func (noopIndicator) Hide(context.Context)              {}
func (noopIndicator) FocusedMonitor() string            { return "" }
