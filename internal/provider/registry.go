package provider

import "errors"

// ErrNoConfiguredProvider indicates that neither registry entry can serve a
// session.
var ErrNoConfiguredProvider = errors.New("no speech provider is configured")

// Role identifies a registry slot.
type Role string

const (
	RolePrimary  Role = "primary"
	RoleFallback Role = "fallback"
)

// Entry is one registry slot. An entry with Configured=false is skipped as if
// absent.
type Entry struct {
	Role       Role
	Name       string
	Client     Client
	Configured bool
}

// Registry holds the ordered primary/fallback pair. It is pure lookup: no
// session state lives here, so configuration changes picked up by a rebuild
// apply to the next session without affecting one in flight.
type Registry struct {
	primary  Entry
	fallback Entry
}

// NewRegistry builds a registry from the configured slots. Role fields are
// normalized from position.
func NewRegistry(primary Entry, fallback Entry) *Registry {
	primary.Role = RolePrimary
	fallback.Role = RoleFallback
	return &Registry{primary: primary, fallback: fallback}
}

// Plan is the resolved attempt order for exactly one session: one or two
// entries, primary first.
type Plan struct {
	Attempts []Entry
}

// HasFallback reports whether the plan carries a second attempt.
func (p Plan) HasFallback() bool {
	return len(p.Attempts) > 1
}

// Snapshot resolves the attempt order for one session. An unconfigured
// primary promotes the fallback to the sole attempt; an unconfigured fallback
// leaves a single-attempt plan. With nothing configured the session cannot
// proceed.
func (r *Registry) Snapshot() (Plan, error) {
	usable := make([]Entry, 0, 2)
	if r.primary.Configured && r.primary.Client != nil {
		usable = append(usable, r.primary)
	}
	if r.fallback.Configured && r.fallback.Client != nil {
		usable = append(usable, r.fallback)
	}
	if len(usable) == 0 {
		return Plan{}, ErrNoConfiguredProvider
	}
	return Plan{Attempts: usable}, nil
}
