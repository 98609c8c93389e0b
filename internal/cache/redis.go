package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/whoamihappyhacking/chatlens/internal/errors"
)

const redisKeyPrefix = "chatlens:report:"

// RedisStore 多个进程共享同一份报告缓存时使用
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 连接并 ping 一次，不可用时直接返回错误
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "connect redis failed", 0)
	}
	return NewRedisStoreWithClient(client), nil
}

func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return val, err
}

func (s *RedisStore) Put(ctx context.Context, key string, val []byte) error {
	return s.client.Set(ctx, redisKeyPrefix+key, val, 0).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
