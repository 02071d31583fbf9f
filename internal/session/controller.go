// Package session coordinates one dictation lifecycle: capture, provider
// failover, and transcript delivery, with cooperative cancellation throughout.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openwhisper/openwhisper/internal/config"
	"github.com/openwhisper/openwhisper/internal/fsm"
	"github.com/openwhisper/openwhisper/internal/ipc"
	"github.com/openwhisper/openwhisper/internal/provider"
)

type action int

const (
	actionStop action = iota + 1
	actionCancel
)

const defaultAttemptTimeout = 20 * time.Second

// Result is the complete lifecycle output returned by one Run invocation.
type Result struct {
	SessionID       string
	Mode            Mode
	State           fsm.State
	Transcript      string
	Provider        string
	Attempts        int
	Cancelled       bool
	Err             error
	AudioDevice     string
	AudioDuration   time.Duration
	BytesCaptured   int64
	ProviderLatency time.Duration
	StartedAt       time.Time
	FinishedAt      time.Time
	FocusedMonitor  string
}

// Controller orchestrates session state transitions and side effects. One
// controller serves the daemon's lifetime; at most one session runs at a time.
type Controller struct {
	logger    *slog.Logger
	cfg       config.Config
	recorder  Recorder
	registry  *provider.Registry
	commit    Committer
	indicator Indicator

	mu         sync.RWMutex
	state      fsm.State
	token      *Token
	activeMode Mode

	actions chan action
}

// NewController constructs a session controller with safe default fallbacks.
func NewController(
	logger *slog.Logger,
	cfg config.Config,
	recorder Recorder,
	registry *provider.Registry,
	committer Committer,
	indicator Indicator,
) *Controller {
	if recorder == nil {
		recorder = PlaceholderRecorder{}
	}
	if registry == nil {
		registry = provider.NewRegistry(provider.Entry{}, provider.Entry{})
	}
	if committer == nil {
		committer = CommitFunc(func(_ context.Context, text string) (string, error) { return text, nil })
	}
	if indicator == nil {
		indicator = noopIndicator{}
	}

	return &Controller{
		logger:    logger,
		cfg:       cfg,
		recorder:  recorder,
		registry:  registry,
		commit:    committer,
		indicator: indicator,
		state:     fsm.StateIdle,
		actions:   make(chan action, 1),
	}
}

// State returns the current FSM state snapshot.
func (c *Controller) State() fsm.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// transition applies one FSM event to the controller state.
func (c *Controller) transition(event fsm.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fsm.Transition(c.state, event)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// Run executes one session from activation to a terminal outcome. The
// controller resets to idle when Run returns, so the terminal state is only
// visible through the Result.
func (c *Controller) Run(ctx context.Context, mode Mode) Result {
	result := Result{SessionID: uuid.NewString(), Mode: mode, StartedAt: time.Now()}

	c.mu.Lock()
	if c.state != fsm.StateIdle {
		state := c.state
		c.mu.Unlock()
		result.State = state
		result.Err = ErrSessionActive
		result.FinishedAt = time.Now()
		return result
	}
	token := NewToken()
	c.token = token
	c.activeMode = mode
	c.mu.Unlock()

	// Drop any stale action left over from a previous session.
	select {
	case <-c.actions:
	default:
	}

	defer func() {
		c.mu.Lock()
		c.state = fsm.StateIdle
		c.token = nil
		c.mu.Unlock()
	}()

	if err := c.transition(fsm.EventActivate); err != nil {
		return c.finish(&result, err)
	}

	c.indicator.ShowRecording(ctx)

	if err := c.recorder.Start(ctx); err != nil {
		c.indicator.ShowError(ctx, "Unable to start recording")
		_ = c.transition(fsm.EventFail)
		return c.finish(&result, err)
	}

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 800*time.Millisecond)
		defer cancel()
		c.indicator.Hide(cleanupCtx)
	}()

	maxCapture := time.Duration(c.cfg.Capture.MaxMS) * time.Millisecond
	if maxCapture <= 0 {
		maxCapture = 2 * time.Minute
	}
	maxTimer := time.NewTimer(maxCapture)
	defer maxTimer.Stop()

	stopped := false
	select {
	case <-ctx.Done():
		_ = c.recorder.Cancel(context.Background())
		c.indicator.CueCancel(context.Background())
		_ = c.transition(fsm.EventCancel)
		result.Cancelled = true
		return c.finish(&result, ctx.Err())
	case <-maxTimer.C:
		// Forgotten capture: treat the cap as an implicit stop.
		c.logWarn("maximum capture duration reached; stopping", "session_id", result.SessionID)
		stopped = true
	case a := <-c.actions:
		switch a {
		case actionCancel:
			token.Cancel()
			_ = c.recorder.Cancel(context.Background())
			c.indicator.CueCancel(context.Background())
			_ = c.transition(fsm.EventCancel)
			result.Cancelled = true
			return c.finish(&result, nil)
		case actionStop:
			stopped = true
		default:
			_ = c.transition(fsm.EventFail)
			return c.finish(&result, fmt.Errorf("unknown action %d", a))
		}
	}

	if !stopped {
		_ = c.transition(fsm.EventFail)
		return c.finish(&result, fmt.Errorf("capture phase ended without stop"))
	}

	if err := c.transition(fsm.EventStop); err != nil {
		_ = c.transition(fsm.EventFail)
		return c.finish(&result, err)
	}
	c.indicator.CueStop(context.Background())

	capture, err := c.recorder.Stop(ctx)
	result.AudioDevice = capture.Device
	result.AudioDuration = capture.Duration
	result.BytesCaptured = capture.Bytes
	if err != nil {
		c.indicator.ShowError(context.Background(), "Audio capture failed")
		_ = c.transition(fsm.EventFail)
		return c.finish(&result, err)
	}

	if token.Cancelled() {
		_ = c.transition(fsm.EventCancel)
		c.indicator.CueCancel(context.Background())
		result.Cancelled = true
		return c.finish(&result, nil)
	}

	// Empty or too-short captures never bill a provider call. The empty case
	// holds even when no minimum is configured.
	minCapture := time.Duration(c.cfg.Capture.MinMS) * time.Millisecond
	if capture.Duration <= 0 || (minCapture > 0 && capture.Duration < minCapture) {
		_ = c.recorder.Cancel(context.Background())
		c.indicator.ShowError(context.Background(), failureMessage(ErrCaptureTooShort))
		_ = c.transition(fsm.EventFail)
		return c.finish(&result, ErrCaptureTooShort)
	}

	c.indicator.ShowTranscribing(ctx)

	outcome := c.transcribe(ctx, token, capture.WAV, result.SessionID)
	result.Provider = outcome.providerName
	result.Attempts = outcome.attempts
	result.ProviderLatency = outcome.latency
	if outcome.cancelled {
		_ = c.transition(fsm.EventCancel)
		c.indicator.CueCancel(context.Background())
		result.Cancelled = true
		return c.finish(&result, nil)
	}
	if outcome.err != nil {
		c.indicator.ShowError(context.Background(), failureMessage(outcome.err))
		_ = c.transition(fsm.EventFail)
		return c.finish(&result, outcome.err)
	}

	if err := c.transition(fsm.EventSuccess); err != nil {
		_ = c.transition(fsm.EventFail)
		return c.finish(&result, err)
	}

	delivered, err := c.commit.Commit(ctx, outcome.text)
	if err != nil {
		c.indicator.ShowError(context.Background(), "Output dispatch failed")
		_ = c.transition(fsm.EventFail)
		return c.finish(&result, err)
	}
	if delivered == "" {
		c.indicator.ShowError(context.Background(), failureMessage(ErrEmptyTranscript))
		_ = c.transition(fsm.EventFail)
		return c.finish(&result, ErrEmptyTranscript)
	}

	c.indicator.CueComplete(context.Background())
	result.Transcript = delivered

	if err := c.transition(fsm.EventDelivered); err != nil {
		return c.finish(&result, err)
	}
	return c.finish(&result, nil)
}

type attemptOutcome struct {
	text         string
	providerName string
	attempts     int
	latency      time.Duration
	cancelled    bool
	err          error
}

// transcribe runs the resolved attempt plan: primary first, at most one
// fallback hop, transient errors only. The error surfaced on total failure is
// the one from the last attempt actually made.
func (c *Controller) transcribe(ctx context.Context, token *Token, wav []byte, sessionID string) attemptOutcome {
	plan, err := c.registry.Snapshot()
	if err != nil {
		return attemptOutcome{err: err}
	}

	timeout := time.Duration(c.cfg.Providers.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultAttemptTimeout
	}

	var outcome attemptOutcome
	for i, entry := range plan.Attempts {
		if token.Cancelled() {
			outcome.cancelled = true
			return outcome
		}
		if ctx.Err() != nil {
			outcome.cancelled = true
			return outcome
		}

		outcome.attempts = i + 1

		attemptCtx, cancelAttempt := context.WithTimeout(ctx, timeout)
		watchDone := make(chan struct{})
		go func() {
			defer close(watchDone)
			select {
			case <-token.Done():
				cancelAttempt()
			case <-attemptCtx.Done():
			}
		}()

		started := time.Now()
		text, attemptErr := entry.Client.Transcribe(attemptCtx, wav, provider.Request{
			Language: c.languageFor(entry.Role),
		})
		cancelAttempt()
		<-watchDone

		// A cancel that raced the provider response wins; the late result is
		// dropped without delivery.
		if token.Cancelled() {
			outcome.cancelled = true
			return outcome
		}
		if ctx.Err() != nil {
			outcome.cancelled = true
			return outcome
		}

		if attemptErr == nil {
			outcome.text = text
			outcome.providerName = entry.Name
			outcome.latency = time.Since(started)
			return outcome
		}

		outcome.err = attemptErr
		classified, classifiedOK := provider.AsClassified(attemptErr)
		lastAttempt := i == len(plan.Attempts)-1
		if !classifiedOK || !classified.Transient() || lastAttempt {
			return outcome
		}

		c.logWarn("provider attempt failed; falling back",
			"session_id", sessionID,
			"provider", entry.Name,
			"kind", string(classified.Kind),
			"error", attemptErr.Error(),
		)
		if err := c.transition(fsm.EventTransient); err != nil {
			outcome.err = err
			return outcome
		}
	}

	return outcome
}

// languageFor resolves the configured language hint for a registry role.
func (c *Controller) languageFor(role provider.Role) string {
	if role == provider.RoleFallback {
		return c.cfg.Providers.Fallback.Language
	}
	return c.cfg.Providers.Primary.Language
}

// Handle serves IPC commands for the active owner session.
func (c *Controller) Handle(_ context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case "status":
		return ipc.Response{OK: true, State: string(c.State()), Message: "status"}
	case "toggle":
		return c.requestStop("toggle")
	case "stop":
		return c.requestStop("stop")
	case "cancel":
		return c.requestCancel()
	default:
		return ipc.Response{OK: false, State: string(c.State()), Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}
}

// requestStop enqueues a stop action when state and mode permit it.
func (c *Controller) requestStop(source string) ipc.Response {
	c.mu.RLock()
	state := c.state
	mode := c.activeMode
	c.mu.RUnlock()

	if source == "toggle" && mode == ModeHold {
		return ipc.Response{OK: false, State: string(state), Error: "hold session in progress; release the key to stop"}
	}
	if state == fsm.StateAwaitingPrimary || state == fsm.StateAwaitingFallback {
		return ipc.Response{OK: false, State: string(state), Error: "already transcribing"}
	}
	if state != fsm.StateCapturing {
		return ipc.Response{OK: false, State: string(state), Error: fmt.Sprintf("cannot %s from state %s", source, state)}
	}

	select {
	case c.actions <- actionStop:
		return ipc.Response{OK: true, State: string(state), Message: "stop requested"}
	default:
		return ipc.Response{OK: true, State: string(state), Message: "stop already requested"}
	}
}

// requestCancel aborts the in-flight session by firing the session token;
// during capture it additionally nudges the action channel so a blocked
// capture loop wakes promptly. Delivery cannot be cancelled.
func (c *Controller) requestCancel() ipc.Response {
	c.mu.RLock()
	state := c.state
	token := c.token
	c.mu.RUnlock()

	switch state {
	case fsm.StateCapturing:
		// Fire the token regardless of the action slot: a stop may already be
		// queued there, and cancel must still win that race. Run re-checks the
		// token after the capture stops.
		if token != nil {
			token.Cancel()
		}
		select {
		case c.actions <- actionCancel:
		default:
		}
		return ipc.Response{OK: true, State: string(state), Message: "cancel requested"}
	case fsm.StateAwaitingPrimary, fsm.StateAwaitingFallback:
		if token != nil {
			token.Cancel()
		}
		return ipc.Response{OK: true, State: string(state), Message: "cancel requested"}
	case fsm.StateDelivering:
		return ipc.Response{OK: false, State: string(state), Error: "delivery already committed; cannot cancel"}
	default:
		return ipc.Response{OK: false, State: string(state), Error: fmt.Sprintf("cannot cancel from state %s", state)}
	}
}

// finish stamps terminal bookkeeping onto the result.
func (c *Controller) finish(result *Result, err error) Result {
	if err != nil {
		result.Err = err
	}
	result.State = c.State()
	result.FinishedAt = time.Now()
	result.FocusedMonitor = c.indicator.FocusedMonitor()
	return *result
}

// failureMessage maps session failures to short indicator text.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, ErrCaptureTooShort):
		return "Recording too short"
	case errors.Is(err, ErrEmptyTranscript):
		return "No speech detected"
	case errors.Is(err, provider.ErrNoConfiguredProvider):
		return "No speech service configured"
	}

	if classified, ok := provider.AsClassified(err); ok {
		switch classified.Kind {
		case provider.KindMissingCredential:
			return "Speech service credentials missing"
		case provider.KindRateLimited:
			return "Speech service rate limited"
		case provider.KindTimeout:
			return "Speech service timed out"
		case provider.KindNetworkError:
			return "Speech service unreachable"
		case provider.KindServerError:
			return "Speech service error"
		case provider.KindInvalidResponse:
			return "Speech service returned an unusable response"
		}
	}
	return "Speech recognition failed"
}

func (c *Controller) logWarn(message string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Warn(message, args...)
}
