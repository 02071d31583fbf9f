package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitionHappyPath(t *testing.T) {
	s := StateIdle

	next, err := Transition(s, EventActivate)
	require.NoError(t, err)
	require.Equal(t, StateCapturing, next)

	next, err = Transition(next, EventStop)
	require.NoError(t, err)
	require.Equal(t, StateAwaitingPrimary, next)

	next, err = Transition(next, EventSuccess)
	require.NoError(t, err)
	require.Equal(t, StateDelivering, next)

	next, err = Transition(next, EventDelivered)
	require.NoError(t, err)
	require.Equal(t, StateIdle, next)
}

func TestTransitionFallbackPath(t *testing.T) {
	next, err := Transition(StateAwaitingPrimary, EventTransient)
	require.NoError(t, err)
	require.Equal(t, StateAwaitingFallback, next)

	next, err = Transition(next, EventSuccess)
	require.NoError(t, err)
	require.Equal(t, StateDelivering, next)
}

func TestTransitionCancelFromEveryNonTerminalState(t *testing.T) {
	cancellable := []State{StateCapturing, StateAwaitingPrimary, StateAwaitingFallback}
	for _, state := range cancellable {
		next, err := Transition(state, EventCancel)
		require.NoError(t, err, "state %s", state)
		require.Equal(t, StateCancelled, next)
	}
}

func TestTerminalStatesRejectAllEvents(t *testing.T) {
	events := []Event{EventActivate, EventStop, EventCancel, EventTransient, EventSuccess, EventFail, EventDelivered}
	for _, terminal := range []State{StateCancelled, StateFailed} {
		require.True(t, IsTerminal(terminal))
		for _, event := range events {
			next, err := Transition(terminal, event)
			require.Error(t, err)
			require.Equal(t, terminal, next)
		}
	}
}

func TestTransitionMatrixInvalidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		event   Event
		want    State
		wantErr bool
	}{
		{name: "idle stop invalid", state: StateIdle, event: EventStop, want: StateIdle, wantErr: true},
		{name: "idle cancel invalid", state: StateIdle, event: EventCancel, want: StateIdle, wantErr: true},
		{name: "idle success invalid", state: StateIdle, event: EventSuccess, want: StateIdle, wantErr: true},
		{name: "capturing activate invalid", state: StateCapturing, event: EventActivate, want: StateCapturing, wantErr: true},
		{name: "capturing success invalid", state: StateCapturing, event: EventSuccess, want: StateCapturing, wantErr: true},
		{name: "capturing transient invalid", state: StateCapturing, event: EventTransient, want: StateCapturing, wantErr: true},
		{name: "awaiting primary activate invalid", state: StateAwaitingPrimary, event: EventActivate, want: StateAwaitingPrimary, wantErr: true},
		{name: "awaiting primary stop invalid", state: StateAwaitingPrimary, event: EventStop, want: StateAwaitingPrimary, wantErr: true},
		{name: "awaiting fallback transient invalid", state: StateAwaitingFallback, event: EventTransient, want: StateAwaitingFallback, wantErr: true},
		{name: "delivering activate invalid", state: StateDelivering, event: EventActivate, want: StateDelivering, wantErr: true},
		{name: "delivering cancel invalid", state: StateDelivering, event: EventCancel, want: StateDelivering, wantErr: true},
		{name: "delivering fail valid", state: StateDelivering, event: EventFail, want: StateFailed, wantErr: false},
		{name: "capturing fail valid", state: StateCapturing, event: EventFail, want: StateFailed, wantErr: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Transition(tc.state, tc.event)
			require.Equal(t, tc.want, next)
			if tc.wantErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), "invalid transition")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNoPathBackIntoAwaitingAfterDelivering(t *testing.T) {
	for _, event := range []Event{EventActivate, EventStop, EventCancel, EventTransient, EventSuccess} {
		next, err := Transition(StateDelivering, event)
		require.Error(t, err)
		require.Equal(t, StateDelivering, next)
	}
}
