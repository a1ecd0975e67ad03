// Package authprovider issues and resolves session tokens and broadcasts
// auth-state changes to interested views.
package authprovider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"impulsa-web/internal/domain/session"
	"impulsa-web/internal/metrics"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidToken = errors.New("authprovider: invalid token")

// Claims is the JWT payload of a session token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	Gen   int64  `json:"gen"`
	jwt.RegisteredClaims
}

type Provider struct {
	secret []byte
	ttl    time.Duration
	bus    Bus
	store  RevocationStore
	now    func() time.Time
	log    *zap.Logger
}

type Option func(*Provider)

func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Provider) { p.log = l }
}

func New(secret []byte, ttl time.Duration, bus Bus, store RevocationStore, opts ...Option) *Provider {
	p := &Provider{
		secret: secret,
		ttl:    ttl,
		bus:    bus,
		store:  store,
		now:    time.Now,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SignIn mints a session for u and announces it.
func (p *Provider) SignIn(ctx context.Context, u session.User) (*session.Session, error) {
	if u.ID == "" {
		return nil, errors.New("authprovider: user id required")
	}

	gen, err := p.store.Generation(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("read generation: %w", err)
	}

	now := p.now()
	claims := Claims{
		Email: u.Email,
		Role:  u.Role,
		Gen:   gen,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	sess := sessionFrom(signed, &claims)
	_ = p.publish(ctx, session.Event{Kind: session.SignedIn, UserID: u.ID, TokenID: claims.ID, Session: sess})
	return sess, nil
}

// GetSession resolves token into a session. Empty, malformed, expired and
// revoked tokens yield a nil session without error; only a failing
// revocation store is an error.
func (p *Provider) GetSession(ctx context.Context, token string) (*session.Session, error) {
	claims, err := p.parse(token, true)
	if err != nil {
		return nil, nil
	}

	revoked, err := p.revoked(ctx, claims)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, nil
	}
	return sessionFrom(token, claims), nil
}

// OnAuthStateChange subscribes fn to changes affecting token's session:
// user-wide events and events carrying this token's id. Expired tokens
// still subscribe so their views can be told to leave. An unreadable
// token subscribes to nothing.
func (p *Provider) OnAuthStateChange(token string, fn session.Listener) func() {
	claims, err := p.parse(token, false)
	if err != nil {
		return func() {}
	}

	own := claims.ID
	return p.bus.Subscribe(claims.Subject, func(evt session.Event) {
		if evt.TokenID != "" && evt.TokenID != own {
			return
		}
		fn(evt)
	})
}

// SignOut ends token's session. ScopeGlobal ends every session of the
// user, ScopeLocal only this one.
func (p *Provider) SignOut(ctx context.Context, token string, scope session.Scope) error {
	claims, err := p.parse(token, false)
	if err != nil {
		return ErrInvalidToken
	}

	evt := session.Event{Kind: session.SignedOut, UserID: claims.Subject}
	switch scope {
	case session.ScopeLocal:
		until := p.now().Add(p.ttl)
		if claims.ExpiresAt != nil {
			until = claims.ExpiresAt.Time
		}
		if err := p.store.RevokeToken(ctx, claims.ID, until); err != nil {
			return fmt.Errorf("revoke token: %w", err)
		}
		evt.TokenID = claims.ID
	default:
		if _, err := p.store.BumpGeneration(ctx, claims.Subject); err != nil {
			return fmt.Errorf("revoke sessions: %w", err)
		}
	}

	return p.publish(ctx, evt)
}

func (p *Provider) publish(ctx context.Context, evt session.Event) error {
	metrics.AuthEventsTotal.WithLabelValues(string(evt.Kind)).Inc()
	if err := p.bus.Publish(ctx, evt); err != nil {
		p.log.Warn("auth event publish failed",
			zap.String("kind", string(evt.Kind)),
			zap.String("user_id", evt.UserID),
			zap.Error(err))
		return fmt.Errorf("publish %s: %w", evt.Kind, err)
	}
	return nil
}

func (p *Provider) parse(token string, validate bool) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
	}
	if !validate {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (p *Provider) revoked(ctx context.Context, c *Claims) (bool, error) {
	gen, err := p.store.Generation(ctx, c.Subject)
	if err != nil {
		return false, err
	}
	if c.Gen < gen {
		return true, nil
	}
	return p.store.TokenRevoked(ctx, c.ID)
}

func sessionFrom(token string, c *Claims) *session.Session {
	s := &session.Session{
		User:        session.User{ID: c.Subject, Email: c.Email, Role: c.Role},
		AccessToken: token,
		TokenID:     c.ID,
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s
}
