package authprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"impulsa-web/internal/domain/session"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	DefaultChannel = "impulsa:auth:events"
	keyPrefix      = "impulsa:auth:"
)

// RedisBus publishes events on a Redis channel so that every instance
// sharing the channel delivers them to its local listeners.
type RedisBus struct {
	rdb     *redis.Client
	channel string
	local   *MemoryBus
	sub     *redis.PubSub
	done    chan struct{}
	log     *zap.Logger
}

// NewRedisBus subscribes to channel and starts forwarding messages.
// Close stops the forwarding goroutine.
func NewRedisBus(ctx context.Context, rdb *redis.Client, channel string, log *zap.Logger) (*RedisBus, error) {
	if channel == "" {
		channel = DefaultChannel
	}

	sub := rdb.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	b := &RedisBus{
		rdb:     rdb,
		channel: channel,
		local:   NewMemoryBus(),
		sub:     sub,
		done:    make(chan struct{}),
		log:     log,
	}
	go b.forward()
	return b, nil
}

func (b *RedisBus) forward() {
	defer close(b.done)
	for msg := range b.sub.Channel() {
		var evt session.Event
		if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
			b.log.Warn("auth event: bad payload", zap.Error(err))
			continue
		}
		b.local.deliver(evt)
	}
}

func (b *RedisBus) Publish(ctx context.Context, evt session.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, payload).Err()
}

func (b *RedisBus) Subscribe(userID string, fn session.Listener) func() {
	return b.local.Subscribe(userID, fn)
}

func (b *RedisBus) Subscribers(userID string) int {
	return b.local.Subscribers(userID)
}

func (b *RedisBus) Close() error {
	err := b.sub.Close()
	<-b.done
	return err
}

// RedisRevocations keeps generations and revoked token ids in Redis.
// Generation counters never expire; revoked ids live until the token would.
type RedisRevocations struct {
	rdb *redis.Client
}

func NewRedisRevocations(rdb *redis.Client) *RedisRevocations {
	return &RedisRevocations{rdb: rdb}
}

func genKey(userID string) string    { return keyPrefix + "gen:" + userID }
func tokenKey(tokenID string) string { return keyPrefix + "revoked:" + tokenID }

func (r *RedisRevocations) Generation(ctx context.Context, userID string) (int64, error) {
	n, err := r.rdb.Get(ctx, genKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (r *RedisRevocations) BumpGeneration(ctx context.Context, userID string) (int64, error) {
	return r.rdb.Incr(ctx, genKey(userID)).Result()
}

func (r *RedisRevocations) RevokeToken(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, tokenKey(tokenID), "1", ttl).Err()
}

func (r *RedisRevocations) TokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, tokenKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
