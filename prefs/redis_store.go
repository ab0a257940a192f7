/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-09 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-19 11:24:05
 * @FilePath: \go-livemirror\prefs\redis_store.go
 * @Description: 偏好设置 Redis 存储 - 多终端共享同一份设置
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package prefs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix 默认 key 前缀
const DefaultKeyPrefix = "livemirror:prefs:"

// RedisStore Redis 实现
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string        // key 前缀
	ttl       time.Duration // 过期时间，0 表示永不过期
}

// NewRedisStore 创建 Redis 偏好存储
// 参数:
//   - client: Redis 客户端 (github.com/redis/go-redis/v9)
//   - keyPrefix: key 前缀，为空时使用 DefaultKeyPrefix
//   - ttl: 过期时间，0 表示永不过期
func NewRedisStore(client redis.UniversalClient, keyPrefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: mathx.IF(keyPrefix == "", DefaultKeyPrefix, keyPrefix),
		ttl:       mathx.IF(ttl < 0, 0, ttl),
	}
}

// GetKey 获取偏好项的完整 key
func (s *RedisStore) GetKey(key string) string {
	return fmt.Sprintf("%s%s", s.keyPrefix, key)
}

// Get 读取键值
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.GetKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errorx.WrapError("failed to get preference", err)
	}
	return v, true, nil
}

// Set 写入键值
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.GetKey(key), value, s.ttl).Err(); err != nil {
		return errorx.WrapError("failed to set preference", err)
	}
	return nil
}
