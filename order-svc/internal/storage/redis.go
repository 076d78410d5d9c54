package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"tableside/order-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisCarts keeps each session cart as a JSON value that expires after TTL
// of inactivity.
type RedisCarts struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisCarts(client *redis.Client, prefix string, ttl time.Duration) *RedisCarts {
	return &RedisCarts{Client: client, Prefix: prefix, TTL: ttl}
}

func (s *RedisCarts) CartKey(session string) string {
	return s.Prefix + ":cart:" + session
}

func (s *RedisCarts) Load(ctx context.Context, session string) (*domain.Cart, error) {
	raw, err := s.Client.Get(ctx, s.CartKey(session)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.NewCart(session), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", session, err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", session, err)
	}
	cart.Session = session
	return &cart, nil
}

func (s *RedisCarts) Save(ctx context.Context, cart *domain.Cart) error {
	if cart.IsEmpty() {
		return s.Delete(ctx, cart.Session)
	}
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", cart.Session, err)
	}
	return s.Client.Set(ctx, s.CartKey(cart.Session), payload, s.TTL).Err()
}

func (s *RedisCarts) Delete(ctx context.Context, session string) error {
	return s.Client.Del(ctx, s.CartKey(session)).Err()
}

// RedisAcks stores each waiter's acknowledged codes as a set.
type RedisAcks struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisAcks(client *redis.Client, prefix string, ttl time.Duration) *RedisAcks {
	return &RedisAcks{Client: client, Prefix: prefix, TTL: ttl}
}

func (s *RedisAcks) AckKey(waiter string) string {
	return s.Prefix + ":acks:" + waiter
}

func (s *RedisAcks) Acked(ctx context.Context, waiter string) ([]string, error) {
	codes, err := s.Client.SMembers(ctx, s.AckKey(waiter)).Result()
	if err != nil {
		return nil, fmt.Errorf("load acks for %s: %w", waiter, err)
	}
	slices.Sort(codes)
	return codes, nil
}

func (s *RedisAcks) Ack(ctx context.Context, waiter, code string) error {
	key := s.AckKey(waiter)
	pipe := s.Client.TxPipeline()
	pipe.SAdd(ctx, key, code)
	pipe.Expire(ctx, key, s.TTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisAcks) Forget(ctx context.Context, waiter string, codes ...string) error {
	if len(codes) == 0 {
		return nil
	}
	members := make([]any, len(codes))
	for i, code := range codes {
		members[i] = code
	}
	return s.Client.SRem(ctx, s.AckKey(waiter), members...).Err()
}
