package session

import (
	"context"
	"time"

	"books.xdoubleu.com/pkg/backend"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultKey = "booktracker:session"

	AccessTokenField  = "access_token"
	RefreshTokenField = "refresh_token"
)

// Redis shares one session between machines pointed at the same redis.
// The session is kept as a hash with one field per cookie.
type Redis struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedis(client *redis.Client, key string, ttl time.Duration) *Redis {
	if key == "" {
		key = DefaultKey
	}

	return &Redis{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

func (store *Redis) Load(ctx context.Context) (backend.Session, error) {
	fields, err := store.client.HGetAll(ctx, store.key).Result()
	if err != nil {
		//nolint:exhaustruct //zero session
		return backend.Session{}, err
	}

	return backend.Session{
		AccessToken:  fields[AccessTokenField],
		RefreshToken: fields[RefreshTokenField],
	}, nil
}

func (store *Redis) Save(ctx context.Context, session backend.Session) error {
	_, err := store.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, store.key,
			AccessTokenField, session.AccessToken,
			RefreshTokenField, session.RefreshToken,
		)
		if store.ttl > 0 {
			pipe.Expire(ctx, store.key, store.ttl)
		}
		return nil
	})
	return err
}

func (store *Redis) Clear(ctx context.Context) error {
	return store.client.Del(ctx, store.key).Err()
}
