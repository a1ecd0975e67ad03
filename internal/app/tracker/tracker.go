// Package tracker mirrors the auth state of one view and sends the viewer
// to the login page when there is no session.
package tracker

import (
	"context"
	"sync"

	"impulsa-web/internal/domain/session"

	"go.uber.org/zap"
)

const LoginPath = "/auth"

type AuthClient interface {
	GetSession(ctx context.Context, token string) (*session.Session, error)
	OnAuthStateChange(token string, fn session.Listener) (unsubscribe func())
}

type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Tracker is the single writer of a view's session.
type Tracker struct {
	auth AuthClient
	nav  Navigator
	log  *zap.Logger

	mu          sync.Mutex
	sess        *session.Session
	observed    bool
	closed      bool
	unsubscribe func()
}

func New(auth AuthClient, nav Navigator, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{auth: auth, nav: nav, log: log}
}

// Start registers the listener and then fetches the current session once.
// A listener event that lands first wins over the fetched session.
func (t *Tracker) Start(ctx context.Context, token string) *session.Session {
	unsub := t.auth.OnAuthStateChange(token, t.onEvent)

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		unsub()
		return nil
	}
	t.unsubscribe = unsub
	t.mu.Unlock()

	sess, err := t.auth.GetSession(ctx, token)
	if err != nil {
		t.log.Warn("session lookup failed", zap.Error(err))
		sess = nil
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	if t.observed {
		current := t.sess
		t.mu.Unlock()
		return current
	}
	t.sess = sess
	t.mu.Unlock()

	if sess == nil {
		t.nav.Navigate(LoginPath)
	}
	return sess
}

func (t *Tracker) onEvent(evt session.Event) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.observed = true
	t.sess = evt.Session
	leave := evt.Kind == session.SignedOut && t.sess == nil
	t.mu.Unlock()

	if leave {
		t.nav.Navigate(LoginPath)
	}
}

func (t *Tracker) Session() *session.Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sess
}

func (t *Tracker) User() *session.User {
	s := t.Session()
	if s == nil {
		return nil
	}
	u := s.User
	return &u
}

// Close unsubscribes. Later events are ignored.
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	unsub := t.unsubscribe
	t.unsubscribe = nil
	t.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}
