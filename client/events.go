/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-04 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-19 08:55:20
 * @FilePath: \go-livemirror\client\events.go
 * @Description: 事件订阅、事件发送与入站帧分发
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/kamalyes/go-livemirror/protocol"
)

// On 注册事件处理函数，同名事件后注册的覆盖先注册的
func (wsc *Wsc) On(event string, handler protocol.EventHandler) {
	wsc.handlersMu.Lock()
	defer wsc.handlersMu.Unlock()
	if handler == nil {
		delete(wsc.handlers, event)
		return
	}
	wsc.handlers[event] = handler
}

// Off 注销事件处理函数
func (wsc *Wsc) Off(event string) {
	wsc.On(event, nil)
}

// Emit 发送事件，立即返回
// ack 非空时登记应答回调：收到应答、超时或连接断开时恰好回调一次
// 返回错误时（未连接、缓冲区满、编码失败）ack 不会被调用
func (wsc *Wsc) Emit(event string, ack protocol.AckFunc, args ...any) error {
	if !wsc.IsConnected() {
		return ErrConnectionClosed
	}

	var id uint64
	if ack != nil {
		id = wsc.acks.Register(event, ack)
	}

	frame, err := protocol.NewEventFrame(event, id, args...)
	if err == nil {
		var data []byte
		if data, err = protocol.Encode(frame); err == nil {
			err = wsc.WebSocket.enqueue(&ClientMessage{T: websocket.TextMessage, Msg: data})
		}
	}
	if err != nil {
		if id != 0 {
			wsc.acks.Discard(id)
		}
		wsc.logger.WarnKV("事件发送失败", "event", event, "error", err)
		return err
	}

	wsc.logger.DebugKV("事件已入队", "event", event, "ack_id", id)
	return nil
}

// dispatch 分发一帧入站消息
func (wsc *Wsc) dispatch(session uint64, data []byte) {
	frame, err := protocol.Decode(data)
	if err != nil {
		wsc.logger.WarnKV("丢弃无效帧", "session", session, "error", err)
		return
	}

	if frame.Type == protocol.FrameTypeAck {
		if !wsc.acks.Resolve(frame.ID, frame.Args) {
			wsc.logger.DebugKV("忽略未知或已过期的应答", "ack_id", frame.ID)
		}
		return
	}

	wsc.handlersMu.RLock()
	handler := wsc.handlers[frame.Event]
	wsc.handlersMu.RUnlock()
	if handler == nil {
		wsc.logger.DebugKV("未注册处理函数的事件", "event", frame.Event)
		return
	}

	wsc.invoke(frame.Event, handler, session, frame.Args)
}

// invoke 调用处理函数，处理函数 panic 不会终止读协程
func (wsc *Wsc) invoke(event string, handler protocol.EventHandler, session uint64, args []json.RawMessage) {
	defer func() {
		if r := recover(); r != nil {
			wsc.logger.ErrorKV("事件处理函数 panic", "event", event, "panic", r)
		}
	}()
	handler(session, args)
}
