/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-03 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-20 14:31:55
 * @FilePath: \go-livemirror\protocol\ack.go
 * @Description: ACK请求应答登记
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package protocol

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/kamalyes/go-livemirror/models"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// pendingAck 等待应答的请求
type pendingAck struct {
	event    string      // 请求事件名
	callback AckFunc     // 应答回调
	timer    *time.Timer // 超时定时器
	sentAt   time.Time   // 发出时间
}

// AckRegistry 请求应答登记表
// 每个回调保证恰好被调用一次：应答、超时、或连接断开三者之一
type AckRegistry struct {
	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]*pendingAck
	timeout time.Duration
}

// NewAckRegistry 创建应答登记表
func NewAckRegistry(timeout time.Duration) *AckRegistry {
	return &AckRegistry{
		pending: make(map[uint64]*pendingAck),
		timeout: mathx.IF(timeout > 0, timeout, 10*time.Second),
	}
}

// Register 登记回调并返回分配的请求编号
func (r *AckRegistry) Register(event string, callback AckFunc) uint64 {
	return syncx.WithLockReturnValue(&r.mu, func() uint64 {
		r.nextID++
		id := r.nextID
		p := &pendingAck{event: event, callback: callback, sentAt: time.Now()}
		p.timer = time.AfterFunc(r.timeout, func() {
			r.expire(id)
		})
		r.pending[id] = p
		return id
	})
}

// Resolve 收到应答帧，返回是否存在对应的请求
func (r *AckRegistry) Resolve(id uint64, args []json.RawMessage) bool {
	p := r.take(id)
	if p == nil {
		return false
	}
	p.callback(args, nil)
	return true
}

// Cancel 放弃请求（例如入队失败），以 err 通知回调
func (r *AckRegistry) Cancel(id uint64, err error) {
	if p := r.take(id); p != nil {
		p.callback(nil, err)
	}
}

// Discard 移除请求且不回调，用于请求未能发出的场景
func (r *AckRegistry) Discard(id uint64) {
	r.take(id)
}

// FailAll 以 err 通知所有等待中的请求，连接断开时调用
func (r *AckRegistry) FailAll(err error) int {
	drained := syncx.WithLockReturnValue(&r.mu, func() []*pendingAck {
		out := make([]*pendingAck, 0, len(r.pending))
		for id, p := range r.pending {
			p.timer.Stop()
			out = append(out, p)
			delete(r.pending, id)
		}
		return out
	})
	for _, p := range drained {
		p.callback(nil, err)
	}
	return len(drained)
}

// Pending 等待中的请求数
func (r *AckRegistry) Pending() int {
	return syncx.WithLockReturnValue(&r.mu, func() int {
		return len(r.pending)
	})
}

// expire 超时处理
func (r *AckRegistry) expire(id uint64) {
	p := r.take(id)
	if p == nil {
		return
	}
	p.callback(nil, errorx.NewError(models.ErrTypeAckTimeout, p.event))
}

// take 原子地取出并移除请求
func (r *AckRegistry) take(id uint64) *pendingAck {
	return syncx.WithLockReturnValue(&r.mu, func() *pendingAck {
		p, ok := r.pending[id]
		if !ok {
			return nil
		}
		p.timer.Stop()
		delete(r.pending, id)
		return p
	})
}
