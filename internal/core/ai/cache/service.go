package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// redisStore Redis 後端，值為已生成的回覆文本
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// newRedisStore 建立 Redis 連線並驗證可達
func newRedisStore(addr string, ttl time.Duration) (*redisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisStore{
		client: client,
		ttl:    ttl,
	}, nil
}

// Get 獲取緩存
func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	data, err := s.client.Get(ctx, s.redisKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", fmt.Errorf("cache miss")
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	return data, nil
}

// Set 設置緩存
func (s *redisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.redisKey(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close 關閉連線
func (s *redisStore) Close() error {
	return s.client.Close()
}

// redisKey 生成帶命名空間的鍵
func (s *redisStore) redisKey(key string) string {
	return fmt.Sprintf("ai:reply:%s", key)
}
