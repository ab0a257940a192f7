/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-04 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-22 11:46:09
 * @FilePath: \go-livemirror\client\wsc.go
 * @Description: Wsc 结构体及其方法
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/kamalyes/go-livemirror/protocol"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// Wsc 结构体表示自动重连的事件通道客户端
// 同一时刻至多持有一条物理连接，入站事件由单个读协程串行投递
type Wsc struct {
	mu           sync.Mutex                            // 保护 cancel
	stateMu      sync.Mutex                            // 串行化状态检查与转换，配合每轮上下文判定归属
	Config       *Config                               // 配置信息
	WebSocket    *WebSocket                            // 底层 WebSocket 连接
	stateMachine *syncx.StateMachine[ConnectionStatus] // 连接状态机
	logger       logger.ILogger                        // 日志器
	acks         *protocol.AckRegistry                 // 请求应答登记
	session      atomic.Uint64                         // 物理连接编号，每次连接成功递增
	cancel       context.CancelFunc                    // 取消当前一轮连接（拨号、退避、读循环）

	handlersMu sync.RWMutex
	handlers   map[string]protocol.EventHandler // 事件名 -> 处理函数

	// 连接相关的回调函数
	onConnected    atomic.Value // 连接成功回调 func(uint64)
	onConnectError atomic.Value // 单次拨号失败回调 func(error)
	onDisconnected atomic.Value // 连接异常断开回调 func(error)
	onStopped      atomic.Value // 通道自行停止回调（重试耗尽或服务端关闭） func(error)
	onClose        atomic.Value // 主动关闭回调 func(int, string)
	onSentError    atomic.Value // 消息发送错误回调 func(error)
}

// New 创建一个新的 Wsc 客户端
// 参数 url: WebSocket 服务器的地址
func New(url string) *Wsc {
	return NewWithConfig(url, NewDefaultConfig())
}

// NewWithConfig 使用指定配置创建客户端
func NewWithConfig(url string, config *Config) *Wsc {
	if config == nil {
		config = NewDefaultConfig()
	}

	sm := syncx.NewStateMachine(ConnectionStatusDisconnected)
	// 配置允许的状态转换
	sm.AllowTransitions(ConnectionStatusDisconnected, ConnectionStatusConnecting)
	sm.AllowTransitions(ConnectionStatusConnecting, ConnectionStatusConnected, ConnectionStatusDisconnected, ConnectionStatusError)
	sm.AllowTransitions(ConnectionStatusConnected, ConnectionStatusReconnecting, ConnectionStatusDisconnected, ConnectionStatusError)
	sm.AllowTransitions(ConnectionStatusReconnecting, ConnectionStatusConnected, ConnectionStatusDisconnected, ConnectionStatusError)
	sm.AllowTransitions(ConnectionStatusError, ConnectionStatusReconnecting, ConnectionStatusDisconnected)

	return &Wsc{
		Config:       config,
		WebSocket:    NewWebSocket(url),
		stateMachine: sm,
		logger:       logger.NewEmptyLogger(),
		acks:         protocol.NewAckRegistry(config.AckTimeout),
		handlers:     make(map[string]protocol.EventHandler),
	}
}

// SetConfig 设置客户端配置，需在 Connect 之前调用
func (wsc *Wsc) SetConfig(config *Config) {
	wsc.Config = config
	wsc.acks = protocol.NewAckRegistry(config.AckTimeout)
}

// SetLogger 设置日志器
func (wsc *Wsc) SetLogger(l logger.ILogger) {
	if l != nil {
		wsc.logger = l
	}
}

// OnConnected 设置连接成功的回调，每条物理连接触发一次
func (wsc *Wsc) OnConnected(f func(session uint64)) {
	wsc.onConnected.Store(f)
}

// OnConnectError 设置单次拨号失败的回调
func (wsc *Wsc) OnConnectError(f func(err error)) {
	wsc.onConnectError.Store(f)
}

// OnDisconnected 设置连接异常断开的回调
func (wsc *Wsc) OnDisconnected(f func(err error)) {
	wsc.onDisconnected.Store(f)
}

// OnStopped 设置通道自行停止的回调（重试耗尽或服务端正常关闭）
func (wsc *Wsc) OnStopped(f func(err error)) {
	wsc.onStopped.Store(f)
}

// OnClose 设置主动关闭的回调
func (wsc *Wsc) OnClose(f func(code int, text string)) {
	wsc.onClose.Store(f)
}

// OnSentError 设置发送消息出错的回调
func (wsc *Wsc) OnSentError(f func(err error)) {
	wsc.onSentError.Store(f)
}

// GetConnectionStatus 获取当前连接状态
func (wsc *Wsc) GetConnectionStatus() ConnectionStatus {
	return wsc.stateMachine.CurrentState()
}

// IsConnected 检查是否已连接
func (wsc *Wsc) IsConnected() bool {
	return wsc.stateMachine.CurrentState() == ConnectionStatusConnected
}

// IsConnecting 检查是否正在连接（包括两次重试之间）
func (wsc *Wsc) IsConnecting() bool {
	switch wsc.stateMachine.CurrentState() {
	case ConnectionStatusConnecting, ConnectionStatusReconnecting, ConnectionStatusError:
		return true
	default:
		return false
	}
}

// Closed 是否处于断开状态
func (wsc *Wsc) Closed() bool {
	return wsc.stateMachine.CurrentState() == ConnectionStatusDisconnected
}

// Session 当前物理连接编号，从未连接时为 0
func (wsc *Wsc) Session() uint64 {
	return wsc.session.Load()
}

// PendingAcks 等待应答的请求数
func (wsc *Wsc) PendingAcks() int {
	return wsc.acks.Pending()
}

// IsNormalClose 检查WebSocket关闭是否为正常关闭
func IsNormalClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
