// Package fsm defines the dictation session state machine.
package fsm

import "fmt"

type State string

type Event string

const (
	StateIdle             State = "idle"
	StateCapturing        State = "capturing"
	StateAwaitingPrimary  State = "awaiting_primary"
	StateAwaitingFallback State = "awaiting_fallback"
	StateDelivering       State = "delivering"
	StateCancelled        State = "cancelled"
	StateFailed           State = "failed"
)

const (
	EventActivate  Event = "activate"
	EventStop      Event = "stop"
	EventCancel    Event = "cancel"
	EventTransient Event = "transient"
	EventSuccess   Event = "success"
	EventFail      Event = "fail"
	EventDelivered Event = "delivered"
)

// IsTerminal reports whether a session in the given state has finished.
// Delivering exits through EventDelivered back to Idle, so it is not terminal.
func IsTerminal(state State) bool {
	return state == StateCancelled || state == StateFailed
}

// Transition applies one event to the current state and returns the next state.
// Invalid event/state pairs leave the state unchanged and return an error so
// callers can log rejected events without corrupting the session.
func Transition(current State, event Event) (State, error) {
	switch current {
	case StateIdle:
		switch event {
		case EventActivate:
			return StateCapturing, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateCapturing:
		switch event {
		case EventStop:
			return StateAwaitingPrimary, nil
		case EventCancel:
			return StateCancelled, nil
		case EventFail:
			return StateFailed, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateAwaitingPrimary:
		switch event {
		case EventSuccess:
			return StateDelivering, nil
		case EventTransient:
			return StateAwaitingFallback, nil
		case EventCancel:
			return StateCancelled, nil
		case EventFail:
			return StateFailed, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateAwaitingFallback:
		switch event {
		case EventSuccess:
			return StateDelivering, nil
		case EventCancel:
			return StateCancelled, nil
		case EventFail:
			return StateFailed, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateDelivering:
		switch event {
		case EventDelivered:
			return StateIdle, nil
		case EventFail:
			return StateFailed, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateCancelled, StateFailed:
		return current, invalidTransition(current, event)
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
