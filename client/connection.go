/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-04 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-22 11:46:09
 * @FilePath: \go-livemirror\client\connection.go
 * @Description: 连接管理逻辑（拨号、退避重连、读写协程、关闭）
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
	"github.com/kamalyes/go-livemirror/models"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// Connect 发起连接，阻塞直到连接成功、重试耗尽或被 Close 取消
// 仅在断开状态下生效，其余状态下调用为空操作
func (wsc *Wsc) Connect() {
	ctx, ok := wsc.beginRound()
	if !ok {
		wsc.logger.DebugKV("忽略重复连接请求", "state", wsc.GetConnectionStatus())
		return
	}
	wsc.dialLoop(ctx, false)
}

// beginRound 仅在断开状态下开启新一轮连接，返回该轮的上下文
func (wsc *Wsc) beginRound() (context.Context, bool) {
	wsc.stateMu.Lock()
	defer wsc.stateMu.Unlock()

	if wsc.stateMachine.CurrentState() != ConnectionStatusDisconnected {
		return nil, false
	}
	if err := wsc.stateMachine.TransitionTo(ConnectionStatusConnecting); err != nil {
		return nil, false
	}
	ctx, cancel := context.WithCancel(context.Background())
	syncx.WithLock(&wsc.mu, func() {
		wsc.cancel = cancel
	})
	return ctx, true
}

// transition 替 ctx 所属的一轮连接转换状态
// ctx 已取消（该轮已被关闭或停止）或已处于目标状态时拒绝
func (wsc *Wsc) transition(ctx context.Context, to ConnectionStatus) bool {
	wsc.stateMu.Lock()
	defer wsc.stateMu.Unlock()
	return wsc.transitionLocked(ctx, to)
}

func (wsc *Wsc) transitionLocked(ctx context.Context, to ConnectionStatus) bool {
	if ctx.Err() != nil || wsc.stateMachine.CurrentState() == to {
		return false
	}
	return wsc.stateMachine.TransitionTo(to) == nil
}

// createBackoff 创建退避策略
func (wsc *Wsc) createBackoff() *backoff.Backoff {
	return &backoff.Backoff{
		Min:    wsc.Config.ReconnectDelay,
		Max:    wsc.Config.ReconnectDelayMax,
		Factor: mathx.IF(wsc.Config.ReconnectFactor >= 1, wsc.Config.ReconnectFactor, DefaultReconnectFactor),
		Jitter: true,
	}
}

// dialLoop 带退避的拨号循环
// delayFirst 为 true 表示断线重连，先等待一个退避间隔再拨号
func (wsc *Wsc) dialLoop(ctx context.Context, delayFirst bool) {
	b := wsc.createBackoff()

	// 首次连接：1 次 + ReconnectAttempts 次重试；断线重连：ReconnectAttempts 次
	maxTries := 1
	if wsc.Config.Reconnection {
		maxTries = mathx.IF(delayFirst, wsc.Config.ReconnectAttempts, wsc.Config.ReconnectAttempts+1)
	}

	var lastErr error
	for try := 1; try <= maxTries; try++ {
		if delayFirst || try > 1 {
			if !wsc.wait(ctx, b.Duration()) {
				return
			}
		}

		conn, resp, err := wsc.attemptConnection(ctx)
		if err == nil {
			if !wsc.onConnectionSuccess(ctx, conn, resp) {
				_ = conn.Close()
			}
			return
		}
		if ctx.Err() != nil {
			return
		}

		lastErr = err
		wsc.logger.WarnKV("连接失败", "url", wsc.WebSocket.Url, "try", try, "max_tries", maxTries, "error", err)
		wsc.handleConnectError(err)

		// connecting/reconnecting -> error -> reconnecting，被 Close 抢先时转换失败直接退出
		_ = wsc.transition(ctx, ConnectionStatusError)
		if try < maxTries {
			if !wsc.transition(ctx, ConnectionStatusReconnecting) {
				return
			}
		}
	}

	wsc.stop(ctx, errorx.NewError(models.ErrTypeReconnectExhausted, maxTries, lastErr))
}

// wait 等待 d，被取消时返回 false
func (wsc *Wsc) wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// attemptConnection 尝试建立连接，单次拨号受 ConnectTimeout 约束
func (wsc *Wsc) attemptConnection(ctx context.Context) (*websocket.Conn, *http.Response, error) {
	dialer := *wsc.WebSocket.Dialer
	dialer.HandshakeTimeout = wsc.Config.ConnectTimeout

	dialCtx, cancel := context.WithTimeout(ctx, wsc.Config.ConnectTimeout)
	defer cancel()
	return dialer.DialContext(dialCtx, wsc.WebSocket.Url, wsc.WebSocket.RequestHeader)
}

// handleConnectError 处理连接错误
func (wsc *Wsc) handleConnectError(err error) {
	if f := wsc.onConnectError.Load(); f != nil {
		f.(func(error))(err)
	}
}

// onConnectionSuccess 连接成功后的处理，返回 false 表示该轮已被关闭或已有连接
func (wsc *Wsc) onConnectionSuccess(ctx context.Context, conn *websocket.Conn, resp *http.Response) bool {
	conn.SetReadLimit(wsc.Config.MaxMessageSize)
	wsc.setupHandlers(conn)

	wsc.stateMu.Lock()
	if !wsc.transitionLocked(ctx, ConnectionStatusConnected) {
		wsc.stateMu.Unlock()
		wsc.logger.DebugKV("丢弃过期的拨号结果", "url", wsc.WebSocket.Url, "state", wsc.GetConnectionStatus())
		return false
	}
	sendChan := wsc.WebSocket.attach(conn, resp, wsc.Config.MessageBufferSize)
	session := wsc.session.Add(1)
	wsc.stateMu.Unlock()

	wsc.logger.InfoKV("连接成功", "url", wsc.WebSocket.Url, "session", session)

	go wsc.writeMessages(conn, sendChan)
	// 先通知再启动读协程，保证回调里登记的会话先于该会话的任何入站事件生效
	wsc.notifyConnected(session)
	go wsc.readMessages(ctx, conn, session)
	return true
}

// notifyConnected 通知连接成功
func (wsc *Wsc) notifyConnected(session uint64) {
	if f := wsc.onConnected.Load(); f != nil {
		f.(func(uint64))(session)
	}
}

// setupHandlers 设置关闭处理函数
func (wsc *Wsc) setupHandlers(conn *websocket.Conn) {
	defaultCloseHandler := conn.CloseHandler()
	conn.SetCloseHandler(func(code int, text string) error {
		wsc.logger.InfoKV("收到服务端关闭帧", "code", code, "text", text)
		return defaultCloseHandler(code, text)
	})
}

// readMessages 读协程：串行解码并投递入站帧
func (wsc *Wsc) readMessages(ctx context.Context, conn *websocket.Conn, session uint64) {
	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			wsc.handleReadError(ctx, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		wsc.dispatch(session, message)
	}
}

// handleReadError 处理读取消息时的错误
func (wsc *Wsc) handleReadError(ctx context.Context, err error) {
	// 主动关闭导致的读错误由 Close 负责收尾
	if ctx.Err() != nil {
		return
	}

	wsc.logger.WarnKV("连接断开", "url", wsc.WebSocket.Url, "session", wsc.Session(), "error", err)
	wsc.notifyDisconnected(err)
	wsc.WebSocket.detach()
	wsc.acks.FailAll(ErrConnectionClosed)

	// 服务端正常关闭不重连
	if !wsc.Config.Reconnection || IsNormalClose(err) {
		wsc.stop(ctx, err)
		return
	}

	if !wsc.transition(ctx, ConnectionStatusReconnecting) {
		return
	}
	syncx.Go().
		OnPanic(func(r any) {
			wsc.logger.ErrorKV("重连协程 panic", "panic", r)
		}).
		Exec(func() {
			wsc.dialLoop(ctx, true)
		})
}

// notifyDisconnected 通知断线
func (wsc *Wsc) notifyDisconnected(err error) {
	if f := wsc.onDisconnected.Load(); f != nil {
		f.(func(error))(err)
	}
}

// stop 通道自行停止：转为断开状态并通知
func (wsc *Wsc) stop(ctx context.Context, err error) {
	stopped := syncx.WithLockReturnValue(&wsc.stateMu, func() bool {
		if !wsc.transitionLocked(ctx, ConnectionStatusDisconnected) {
			return false
		}
		// 持锁取消，新一轮 Connect 无法在此之前登记自己的 cancel
		wsc.releaseCancel()
		return true
	})
	if !stopped {
		return
	}
	wsc.logger.ErrorKV("事件通道已停止", "url", wsc.WebSocket.Url, "error", err)
	if f := wsc.onStopped.Load(); f != nil {
		f.(func(error))(err)
	}
}

// releaseCancel 取消并清除当前一轮连接的上下文
func (wsc *Wsc) releaseCancel() {
	cancel := syncx.WithLockReturnValue(&wsc.mu, func() context.CancelFunc {
		c := wsc.cancel
		wsc.cancel = nil
		return c
	})
	if cancel != nil {
		cancel()
	}
}

// writeMessages 写协程：消费本次连接的发送通道，通道关闭时退出
func (wsc *Wsc) writeMessages(conn *websocket.Conn, sendChan chan *ClientMessage) {
	for msg := range sendChan {
		if err := wsc.send(conn, msg.T, msg.Msg); err != nil {
			wsc.logger.WarnKV("消息发送失败", "error", err)
			if f := wsc.onSentError.Load(); f != nil {
				f.(func(error))(err)
			}
		}
	}
}

// send 写入一帧
func (wsc *Wsc) send(conn *websocket.Conn, messageType int, data []byte) error {
	wsc.WebSocket.sendMu.Lock()
	defer wsc.WebSocket.sendMu.Unlock()

	_ = conn.SetWriteDeadline(time.Now().Add(wsc.Config.WriteTimeout))
	return conn.WriteMessage(messageType, data)
}

// Close 主动关闭连接
func (wsc *Wsc) Close() {
	wsc.CloseWithMsg("")
}

// CloseWithMsg 主动关闭连接并附带消息，任意状态下均可调用
func (wsc *Wsc) CloseWithMsg(msg string) {
	wasConnected, closed := false, false
	syncx.WithLock(&wsc.stateMu, func() {
		// 先取消，阻止读协程触发重连以及拨号循环继续
		wsc.releaseCancel()
		state := wsc.stateMachine.CurrentState()
		if state == ConnectionStatusDisconnected {
			return
		}
		wasConnected = state == ConnectionStatusConnected
		closed = wsc.stateMachine.TransitionTo(ConnectionStatusDisconnected) == nil
	})
	if !closed {
		return
	}

	if conn := wsc.WebSocket.GetConn(); wasConnected && conn != nil {
		_ = wsc.send(conn, websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, msg))
	}
	wsc.WebSocket.detach()
	if n := wsc.acks.FailAll(ErrConnectionClosed); n > 0 {
		wsc.logger.DebugKV("关闭时取消等待中的请求", "count", n)
	}

	wsc.logger.InfoKV("连接已关闭", "url", wsc.WebSocket.Url)
	if f := wsc.onClose.Load(); f != nil {
		f.(func(int, string))(websocket.CloseNormalClosure, msg)
	}
}
