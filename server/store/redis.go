package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "bj:session:"

// Redis keeps attributes under a prefixed key that expires with the session.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Redis{client: client, ttl: ttl}
}

// DialRedis connects and pings once so a bad address fails at start-up.
func DialRedis(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedis(client, ttl), nil
}

func (s *Redis) Load(ctx context.Context, sessionID string) (json.RawMessage, error) {
	data, err := s.client.Get(ctx, sessionPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

func (s *Redis) Save(ctx context.Context, sessionID string, attrs json.RawMessage) error {
	return s.client.Set(ctx, sessionPrefix+sessionID, []byte(attrs), s.ttl).Err()
}

func (s *Redis) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionPrefix+sessionID).Err()
}

func (s *Redis) Close() error { return s.client.Close() }

func (s *Redis) Ping(ctx context.Context) error { return s.client.Ping(ctx).Err() }
