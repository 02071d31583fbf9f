package session

import "sync"

// Token is a per-session cancellation flag. A cancelled token never resets;
// each session gets a fresh one so a late cancel cannot leak into the next
// session.
type Token struct {
	once sync.Once
	done chan struct{}
}

// NewToken creates an uncancelled token.
func NewToken() *Token {
	return &Token{done: make(chan struct{})}
}

// Cancel marks the token cancelled. Safe to call multiple times and from any
// goroutine.
func (t *Token) Cancel() {
	t.once.Do(func() {
		close(t.done)
	})
}

// Done returns a channel closed on cancellation.
func (t *Token) Done() <-chan struct{} {
	return t.done
}

// Cancelled reports whether Cancel has been called.
func (t *Token) Cancelled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
