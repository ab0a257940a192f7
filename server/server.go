/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-24 10:18:52
 * @FilePath: \go-livemirror\server\server.go
 * @Description: 事件端点 - WebSocket 升级、连接登记、事件路由与广播
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-livemirror/protocol"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// HandlerFunc 事件处理函数
// 返回值作为应答参数；返回错误时应答 {"ok":false,"msg":err}
type HandlerFunc func(ctx context.Context, conn *Conn, args []json.RawMessage) (any, error)

// Authenticator 从升级请求中识别用户，返回空 userID 表示匿名连接
type Authenticator func(r *http.Request) (userID string, err error)

// Options 端点配置
type Options struct {
	Origins        []string      // 允许的 Origin，空表示不限制
	BufferSize     int           // 读写缓冲与单连接发送队列大小
	WriteTimeout   time.Duration // 单帧写超时
	MaxMessageSize int64         // 单帧最大字节数
}

// 默认值
const (
	DefaultBufferSize     = 256
	DefaultWriteTimeout   = 10 * time.Second
	DefaultMaxMessageSize = 4 << 20
)

// OptionsFromConfig 读取 go-config 的 WSC 配置中与升级器相关的字段，未设置的字段交给 New 补默认值
func OptionsFromConfig(cfg *wscconfig.WSC) Options {
	if cfg == nil {
		return Options{}
	}
	return Options{
		Origins:      append([]string(nil), cfg.WebSocketOrigins...),
		BufferSize:   cfg.MessageBufferSize,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// Server 事件端点
type Server struct {
	opts     Options
	upgrader *websocket.Upgrader
	logger   logger.ILogger
	auth     Authenticator

	handlersMu sync.RWMutex
	handlers   map[string]HandlerFunc

	connsMu sync.RWMutex
	conns   map[uint64]*Conn
	nextID  atomic.Uint64

	onConnect    func(*Conn)
	onDisconnect func(*Conn)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New 创建事件端点
func New(opts Options) *Server {
	opts.BufferSize = mathx.IF(opts.BufferSize > 0, opts.BufferSize, DefaultBufferSize)
	opts.WriteTimeout = mathx.IF(opts.WriteTimeout > 0, opts.WriteTimeout, DefaultWriteTimeout)
	opts.MaxMessageSize = mathx.IF(opts.MaxMessageSize > 0, opts.MaxMessageSize, int64(DefaultMaxMessageSize))

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		opts:     opts,
		logger:   logger.NewEmptyLogger(),
		handlers: make(map[string]HandlerFunc),
		conns:    make(map[uint64]*Conn),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.upgrader = s.configureUpgrader()
	return s
}

// SetLogger 设置日志器
func (s *Server) SetLogger(l logger.ILogger) *Server {
	if l != nil {
		s.logger = l
	}
	return s
}

// SetAuthenticator 设置鉴权函数
func (s *Server) SetAuthenticator(auth Authenticator) *Server {
	s.auth = auth
	return s
}

// OnConnect 连接建立回调
func (s *Server) OnConnect(f func(*Conn)) *Server {
	s.onConnect = f
	return s
}

// OnDisconnect 连接断开回调
func (s *Server) OnDisconnect(f func(*Conn)) *Server {
	s.onDisconnect = f
	return s
}

// Handle 注册事件处理函数
func (s *Server) Handle(event string, h HandlerFunc) {
	syncx.WithLock(&s.handlersMu, func() {
		s.handlers[event] = h
	})
}

// configureUpgrader 配置 WebSocket 升级器，支持 Origin 白名单
func (s *Server) configureUpgrader() *websocket.Upgrader {
	upgrader := &websocket.Upgrader{
		ReadBufferSize:  s.opts.BufferSize,
		WriteBufferSize: s.opts.BufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	if len(s.opts.Origins) > 0 {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range s.opts.Origins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		}
	}
	return upgrader
}

// ServeHTTP 处理 WebSocket 升级请求
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if s.ctx.Err() != nil {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}

	var userID string
	if s.auth != nil {
		id, err := s.auth(r)
		if err != nil {
			s.logger.WarnKV("[WebSocket] 鉴权失败", "remote_addr", r.RemoteAddr, "error", err)
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		userID = id
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.ErrorKV("[WebSocket] 升级失败",
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return
	}

	conn := newConn(s, s.nextID.Add(1), ws, userID)
	s.logger.InfoKV("[WebSocket] 升级成功",
		"conn_id", conn.id,
		"user_id", userID,
		"remote_addr", ws.RemoteAddr().String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	s.register(conn)
}

// register 登记连接并启动读写协程，端点已关闭时直接关掉刚升级的连接
func (s *Server) register(c *Conn) {
	registered := syncx.WithLockReturnValue(&s.connsMu, func() bool {
		if s.ctx.Err() != nil {
			return false
		}
		s.conns[c.id] = c
		s.wg.Add(2)
		return true
	})
	if !registered {
		s.logger.WarnKV("[WebSocket] 端点已关闭，拒绝登记连接", "conn_id", c.id)
		c.closeWithCode(websocket.CloseGoingAway, "server shutdown")
		return
	}
	go c.writeLoop()
	go c.readLoop()

	if s.onConnect != nil {
		s.onConnect(c)
	}
}

// unregister 移除连接，重复调用安全
func (s *Server) unregister(c *Conn) {
	removed := syncx.WithLockReturnValue(&s.connsMu, func() bool {
		if _, ok := s.conns[c.id]; !ok {
			return false
		}
		delete(s.conns, c.id)
		return true
	})
	if !removed {
		return
	}
	c.close()
	s.logger.InfoKV("[WebSocket] 连接断开", "conn_id", c.id, "user_id", c.userID)
	if s.onDisconnect != nil {
		s.onDisconnect(c)
	}
}

// Broadcast 向所有连接推送事件，返回成功入队的连接数
func (s *Server) Broadcast(event string, args ...any) int {
	frame, err := protocol.NewEventFrame(event, 0, args...)
	if err != nil {
		s.logger.ErrorKV("广播编码失败", "event", event, "error", err)
		return 0
	}
	data, err := protocol.Encode(frame)
	if err != nil {
		s.logger.ErrorKV("广播编码失败", "event", event, "error", err)
		return 0
	}

	sent := 0
	for _, c := range s.Conns() {
		if c.send(data) == nil {
			sent++
		}
	}
	s.logger.DebugKV("广播完成", "event", event, "sent", sent)
	return sent
}

// Conns 当前连接快照
func (s *Server) Conns() []*Conn {
	return syncx.WithRLockReturnValue(&s.connsMu, func() []*Conn {
		out := make([]*Conn, 0, len(s.conns))
		for _, c := range s.conns {
			out = append(out, c)
		}
		return out
	})
}

// ConnCount 当前连接数
func (s *Server) ConnCount() int {
	return syncx.WithRLockReturnValue(&s.connsMu, func() int {
		return len(s.conns)
	})
}

// Shutdown 关闭所有连接并等待读写协程退出
func (s *Server) Shutdown(ctx context.Context) error {
	syncx.WithLock(&s.connsMu, s.cancel)
	for _, c := range s.Conns() {
		c.closeWithCode(websocket.CloseGoingAway, "server shutdown")
		s.unregister(c)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// dispatch 路由一帧入站消息
func (s *Server) dispatch(c *Conn, data []byte) {
	frame, err := protocol.Decode(data)
	if err != nil {
		s.logger.WarnKV("丢弃无效帧", "conn_id", c.id, "error", err)
		return
	}
	if frame.Type != protocol.FrameTypeEvent {
		s.logger.DebugKV("忽略客户端应答帧", "conn_id", c.id, "ack_id", frame.ID)
		return
	}

	h := syncx.WithRLockReturnValue(&s.handlersMu, func() HandlerFunc {
		return s.handlers[frame.Event]
	})
	if h == nil {
		s.logger.DebugKV("未注册的事件", "event", frame.Event, "conn_id", c.id)
		if frame.WantsAck() {
			c.ack(frame.ID, protocol.AckResult{OK: false, Msg: "unknown event " + frame.Event})
		}
		return
	}

	result, err := s.invoke(h, c, frame)
	if !frame.WantsAck() {
		return
	}
	if err != nil {
		s.logger.ErrorKV("事件处理失败", "event", frame.Event, "conn_id", c.id, "error", err)
		c.ack(frame.ID, protocol.AckResult{OK: false, Msg: err.Error()})
		return
	}
	if result == nil {
		result = protocol.AckResult{OK: true}
	}
	c.ack(frame.ID, result)
}

// invoke 调用处理函数，panic 转为错误
func (s *Server) invoke(h HandlerFunc, c *Conn, frame *protocol.Frame) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorKV("事件处理函数 panic", "event", frame.Event, "panic", r)
			result, err = nil, errPanic
		}
	}()
	ctx := context.WithValue(s.ctx, contextKeyConn, c)
	return h(ctx, c, frame.Args)
}
