package authprovider

import (
	"context"
	"testing"
	"time"

	"impulsa-web/internal/domain/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisBusCrossInstance(t *testing.T) {
	ctx := context.Background()
	rdb := newRedis(t)

	web1, err := NewRedisBus(ctx, rdb, "", zap.NewNop())
	require.NoError(t, err)
	defer web1.Close()
	web2, err := NewRedisBus(ctx, rdb, "", zap.NewNop())
	require.NoError(t, err)
	defer web2.Close()

	got := make(chan session.Event, 1)
	unsub := web2.Subscribe("user-1", func(e session.Event) { got <- e })
	defer unsub()

	require.NoError(t, web1.Publish(ctx, session.Event{Kind: session.SignedOut, UserID: "user-1"}))

	select {
	case evt := <-got:
		assert.Equal(t, session.SignedOut, evt.Kind)
		assert.Equal(t, "user-1", evt.UserID)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestRedisBusDoesNotLeakTokens(t *testing.T) {
	ctx := context.Background()
	rdb := newRedis(t)

	bus, err := NewRedisBus(ctx, rdb, "", zap.NewNop())
	require.NoError(t, err)
	defer bus.Close()

	got := make(chan session.Event, 1)
	bus.Subscribe("user-1", func(e session.Event) { got <- e })

	sess := &session.Session{User: session.User{ID: "user-1"}, AccessToken: "secret-token"}
	require.NoError(t, bus.Publish(ctx, session.Event{Kind: session.SignedIn, UserID: "user-1", Session: sess}))

	select {
	case evt := <-got:
		require.NotNil(t, evt.Session)
		assert.Equal(t, "user-1", evt.Session.User.ID)
		assert.Empty(t, evt.Session.AccessToken)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestRedisRevocations(t *testing.T) {
	ctx := context.Background()
	store := NewRedisRevocations(newRedis(t))

	gen, err := store.Generation(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	gen, err = store.BumpGeneration(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	gen, err = store.Generation(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	require.NoError(t, store.RevokeToken(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err := store.TokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.TokenRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestProviderOverRedis(t *testing.T) {
	ctx := context.Background()
	rdb := newRedis(t)

	bus, err := NewRedisBus(ctx, rdb, "", zap.NewNop())
	require.NoError(t, err)
	defer bus.Close()

	p := New([]byte("secret"), time.Hour, bus, NewRedisRevocations(rdb))
	sess, err := p.SignIn(ctx, testUser)
	require.NoError(t, err)

	signedOut := make(chan struct{}, 1)
	unsub := p.OnAuthStateChange(sess.AccessToken, func(e session.Event) {
		if e.Kind == session.SignedOut {
			signedOut <- struct{}{}
		}
	})
	defer unsub()

	require.NoError(t, p.SignOut(ctx, sess.AccessToken, session.ScopeGlobal))

	select {
	case <-signedOut:
	case <-time.After(2 * time.Second):
		t.Fatal("sign-out not delivered")
	}

	got, err := p.GetSession(ctx, sess.AccessToken)
	require.NoError(t, err)
	assert.Nil(t, got)
}
