/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-06 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-23 19:37:14
 * @FilePath: \go-livemirror\mirror\mirror.go
 * @Description: 实时状态镜像 - 监控项、最新心跳、心跳历史与聚合统计的本地副本
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package mirror

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/kamalyes/go-livemirror/models"
	"github.com/kamalyes/go-livemirror/protocol"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// DefaultHistoryLimit 每个监控项保留的心跳历史条数
const DefaultHistoryLimit = 150

// Channel 镜像依赖的事件通道，*client.Wsc 即为其实现
type Channel interface {
	// Connect 阻塞直到连接成功或放弃，非断开状态下为空操作
	Connect()
	// Close 任意状态下关闭通道
	Close()
	// Closed 是否处于断开状态
	Closed() bool
	// Emit 非阻塞发送事件，返回错误时 ack 不会被调用
	Emit(event string, ack protocol.AckFunc, args ...any) error
	// On 注册入站事件处理函数
	On(event string, handler protocol.EventHandler)
	// OnConnected 每条物理连接建立时回调一次
	OnConnected(f func(session uint64))
	// OnStopped 通道自行停止（重试耗尽、服务端关闭）时回调
	OnStopped(f func(err error))
}

// Option 镜像选项
type Option func(*Mirror)

// WithLogger 设置日志器
func WithLogger(l logger.ILogger) Option {
	return func(m *Mirror) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithHistoryLimit 设置单个监控项的心跳历史上限
func WithHistoryLimit(n int) Option {
	return func(m *Mirror) {
		m.historyLimit = mathx.IF(n > 0, n, DefaultHistoryLimit)
	}
}

// Mirror 实时状态镜像
// 所有状态变更都发生在入站消息投递时；会话失效后到达的消息一律丢弃
// 断开连接不清空数据，数据保留到下一次全量同步覆盖为止
type Mirror struct {
	channel      Channel
	logger       logger.ILogger
	historyLimit int

	mu             sync.RWMutex
	monitors       map[int64]*models.Monitor
	lastHeartbeats map[int64]models.HeartbeatSample
	history        map[int64][]models.HeartbeatSample
	stats          models.AggregateStats
	open           bool   // Connect 之后、Disconnect 之前为 true
	session        uint64 // 当前有效会话，0 表示无

	observersMu   sync.RWMutex
	observers     []observerEntry
	nextObserver  uint64
	notifications atomic.Int64
	failedNotify  atomic.Int64
}

// New 创建镜像并在通道上注册入站事件处理
func New(channel Channel, opts ...Option) *Mirror {
	m := &Mirror{
		channel:        channel,
		logger:         logger.NewEmptyLogger(),
		historyLimit:   DefaultHistoryLimit,
		monitors:       make(map[int64]*models.Monitor),
		lastHeartbeats: make(map[int64]models.HeartbeatSample),
		history:        make(map[int64][]models.HeartbeatSample),
	}
	for _, opt := range opts {
		opt(m)
	}

	channel.OnConnected(m.handleConnected)
	channel.OnStopped(m.handleStopped)
	channel.On(protocol.EventMonitorList, m.handleMonitorList)
	channel.On(protocol.EventUpdateMonitorIntoList, m.handleUpdateMonitorIntoList)
	channel.On(protocol.EventDeleteMonitorFromList, m.handleDeleteMonitorFromList)
	channel.On(protocol.EventLastHeartbeat, m.handleLastHeartbeat)
	channel.On(protocol.EventHeartbeat, m.handleHeartbeat)
	channel.On(protocol.EventHeartbeatList, m.handleHeartbeatList)
	return m
}

// Connect 建立事件通道，幂等：通道已打开或正在连接时为空操作
// 每次物理连接（含自动重连）成功后发起一次全量同步
func (m *Mirror) Connect() {
	started := syncx.WithLockReturnValue(&m.mu, func() bool {
		if m.open {
			return false
		}
		m.open = true
		return true
	})
	if !started {
		m.logger.DebugKV("通道已打开，忽略重复连接")
		return
	}

	m.logger.InfoKV("开始连接事件通道")
	syncx.Go().
		OnPanic(func(r any) {
			m.logger.ErrorKV("连接协程 panic", "panic", r)
		}).
		Exec(func() {
			if !m.isOpen() {
				return
			}
			m.channel.Connect()
		})
}

// Disconnect 关闭事件通道；已同步的数据保留
func (m *Mirror) Disconnect() {
	wasOpen := syncx.WithLockReturnValue(&m.mu, func() bool {
		was := m.open
		m.open = false
		m.session = 0
		return was
	})

	m.channel.Close()
	if wasOpen {
		m.logger.InfoKV("事件通道已释放")
		m.notify(StateEvent{Kind: models.StateEventDisconnected, Stats: m.Stats()})
	}
}

// Acquire 打开通道并返回释放函数，释放函数可重复调用
// 用法：release := m.Acquire(); defer release()
func (m *Mirror) Acquire() (release func()) {
	m.Connect()
	var once sync.Once
	return func() {
		once.Do(m.Disconnect)
	}
}

// Run 在 ctx 生命周期内保持通道打开，任何退出路径都会释放通道
func (m *Mirror) Run(ctx context.Context) error {
	release := m.Acquire()
	defer release()

	<-ctx.Done()
	return ctx.Err()
}

// RequestFullState 请求全量监控列表，立即返回
// 数据通过 monitorList 推送异步到达；cb 仅用于报告请求本身的结果，可为 nil
// 未连接时请求被丢弃并以错误回调，原有状态保持不变
func (m *Mirror) RequestFullState(cb func(err error)) {
	if cb == nil {
		cb = func(error) {}
	}

	err := m.channel.Emit(protocol.EventGetMonitorList, func(args []json.RawMessage, err error) {
		if err == nil {
			err = protocol.AckError(protocol.EventGetMonitorList, args)
		}
		if err != nil {
			m.logger.WarnKV("全量同步请求失败", "error", err)
		}
		cb(err)
	})
	if err != nil {
		m.logger.WarnKV("全量同步请求未发出", "error", err)
		cb(err)
	}
}

// Connected 当前是否持有有效会话
func (m *Mirror) Connected() bool {
	return syncx.WithRLockReturnValue(&m.mu, func() bool {
		return m.session != 0
	})
}

// Session 当前有效会话编号
func (m *Mirror) Session() uint64 {
	return syncx.WithRLockReturnValue(&m.mu, func() uint64 {
		return m.session
	})
}

func (m *Mirror) isOpen() bool {
	return syncx.WithRLockReturnValue(&m.mu, func() bool {
		return m.open
	})
}

// handleConnected 物理连接建立：登记会话并发起全量同步
func (m *Mirror) handleConnected(session uint64) {
	accepted := syncx.WithLockReturnValue(&m.mu, func() bool {
		if !m.open {
			return false
		}
		m.session = session
		return true
	})
	if !accepted {
		// Disconnect 与拨号成功交错，补关一次避免通道泄漏
		m.logger.DebugKV("镜像已释放，关闭迟到的连接", "session", session)
		syncx.Go().Exec(m.channel.Close)
		return
	}

	m.logger.InfoKV("事件通道已连接，发起全量同步", "session", session)
	m.notify(StateEvent{Kind: models.StateEventConnected, Session: session, Stats: m.Stats()})
	m.RequestFullState(nil)
}

// handleStopped 通道自行停止，允许之后再次 Connect
func (m *Mirror) handleStopped(err error) {
	syncx.WithLock(&m.mu, func() {
		m.open = false
		m.session = 0
	})
	m.logger.WarnKV("事件通道已停止", "error", err)
	m.notify(StateEvent{Kind: models.StateEventDisconnected, Stats: m.Stats()})
}
