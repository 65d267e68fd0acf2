package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ServiceOrderLocker serializes submissions that touch the same service
// order, closing the read-count-then-write race on the OS item cap.
type ServiceOrderLocker interface {
	// Lock acquires the OS lock and returns its release function.
	Lock(ctx context.Context, osNumber string) (func(), error)
}

// RedisServiceOrderLocker implements the lock with SET NX and a TTL so a
// crashed holder cannot jam an OS forever.
type RedisServiceOrderLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisServiceOrderLocker(client *redis.Client) *RedisServiceOrderLocker {
	return &RedisServiceOrderLocker{client: client, ttl: 10 * time.Second}
}

func (l *RedisServiceOrderLocker) Lock(ctx context.Context, osNumber string) (func(), error) {
	key := "oslock:" + osNumber
	deadline := time.Now().Add(3 * time.Second)

	for {
		ok, err := l.client.SetNX(ctx, key, "1", l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				l.client.Del(context.Background(), key)
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrServiceOrderBusy
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// NoopServiceOrderLocker is used when no Redis is configured; the in-database
// cap re-check inside the submission transaction remains the backstop.
type NoopServiceOrderLocker struct{}

func (NoopServiceOrderLocker) Lock(ctx context.Context, osNumber string) (func(), error) {
	return func() {}, nil
}
