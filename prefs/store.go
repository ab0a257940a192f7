/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-09 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-19 11:24:05
 * @FilePath: \go-livemirror\prefs\store.go
 * @Description: 偏好设置存储接口与内存实现
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package prefs

import (
	"context"
	"sync"

	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// Store 偏好设置键值存储
type Store interface {
	// Get 读取键值，键不存在时 found=false 且 err=nil
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set 写入键值
	Set(ctx context.Context, key, value string) error
}

// MemoryStore 进程内存储，单机或测试使用
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get 读取键值
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set 写入键值
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	syncx.WithLock(&s.mu, func() {
		s.values[key] = value
	})
	return nil
}
