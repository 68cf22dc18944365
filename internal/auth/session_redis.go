package auth

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

type RedisSessionStore struct {
	rdb *redis.Client
}

func NewRedisSessionStore(addr, password string, db int) *RedisSessionStore {
	return &RedisSessionStore{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisSessionStore) Issue(ctx context.Context, username string) (string, error) {
	for {
		tok, err := newToken()
		if err != nil {
			return "", err
		}

		// SETNX keeps the never-overwrite guarantee across processes.
		ok, err := s.rdb.SetNX(ctx, sessionKeyPrefix+tok, username, 0).Result()
		if err != nil {
			return "", err
		}
		if ok {
			return tok, nil
		}
	}
}

func (s *RedisSessionStore) Resolve(ctx context.Context, token string) (string, bool, error) {
	username, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return username, true, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+token).Err()
}
