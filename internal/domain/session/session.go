package session

import "time"

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Session is an authenticated user plus the token that proves it.
type Session struct {
	User        User      `json:"user"`
	AccessToken string    `json:"-"`
	TokenID     string    `json:"-"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type EventKind string

const (
	SignedIn  EventKind = "SIGNED_IN"
	SignedOut EventKind = "SIGNED_OUT"
)

type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeLocal  Scope = "local"
)

// ParseScope defaults to global for anything unrecognised.
func ParseScope(s string) Scope {
	if Scope(s) == ScopeLocal {
		return ScopeLocal
	}
	return ScopeGlobal
}

// Event is an auth-state change for one user. TokenID is set when the
// change only concerns a single session.
type Event struct {
	Kind    EventKind `json:"kind"`
	UserID  string    `json:"user_id"`
	TokenID string    `json:"token_id,omitempty"`
	Session *Session  `json:"session,omitempty"`
}

// Listener receives auth-state changes.
type Listener func(Event)
