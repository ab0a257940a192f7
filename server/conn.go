/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-24 10:18:52
 * @FilePath: \go-livemirror\server\conn.go
 * @Description: 服务端连接 - 每连接一个读协程一个写协程
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package server

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kamalyes/go-livemirror/models"
	"github.com/kamalyes/go-livemirror/protocol"
)

var errPanic = errors.New("internal error")

// Conn 服务端侧的一条事件连接
type Conn struct {
	id          uint64
	userID      string
	server      *Server
	ws          *websocket.Conn
	sendChan    chan []byte
	closeOnce   sync.Once
	done        chan struct{}
	ConnectedAt time.Time
}

func newConn(s *Server, id uint64, ws *websocket.Conn, userID string) *Conn {
	return &Conn{
		id:          id,
		userID:      userID,
		server:      s,
		ws:          ws,
		sendChan:    make(chan []byte, s.opts.BufferSize),
		done:        make(chan struct{}),
		ConnectedAt: time.Now(),
	}
}

// ID 连接编号
func (c *Conn) ID() uint64 { return c.id }

// UserID 鉴权得到的用户，匿名连接为空
func (c *Conn) UserID() string { return c.userID }

// Emit 向该连接推送事件，不等待应答
func (c *Conn) Emit(event string, args ...any) error {
	frame, err := protocol.NewEventFrame(event, 0, args...)
	if err != nil {
		return err
	}
	data, err := protocol.Encode(frame)
	if err != nil {
		return err
	}
	return c.send(data)
}

// ack 回复应答帧
func (c *Conn) ack(id uint64, args ...any) {
	frame, err := protocol.NewAckFrame(id, args...)
	if err == nil {
		var data []byte
		if data, err = protocol.Encode(frame); err == nil {
			err = c.send(data)
		}
	}
	if err != nil {
		c.server.logger.WarnKV("应答发送失败", "conn_id", c.id, "ack_id", id, "error", err)
	}
}

// send 非阻塞入队
func (c *Conn) send(data []byte) error {
	select {
	case <-c.done:
		return models.ErrConnectionClosed
	default:
	}
	select {
	case c.sendChan <- data:
		return nil
	case <-c.done:
		return models.ErrConnectionClosed
	default:
		return models.ErrMessageBufferFull
	}
}

// close 关闭底层连接，重复调用安全
func (c *Conn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

// closeWithCode 发送关闭帧后关闭
func (c *Conn) closeWithCode(code int, text string) {
	deadline := time.Now().Add(time.Second)
	_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), deadline)
	c.close()
}

// writeLoop 写协程
func (c *Conn) writeLoop() {
	defer c.server.wg.Done()
	for {
		select {
		case data := <-c.sendChan:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.server.opts.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.server.logger.WarnKV("连接写入失败", "conn_id", c.id, "error", err)
				c.server.unregister(c)
				return
			}
		case <-c.done:
			return
		}
	}
}

// readLoop 读协程，退出时注销连接
func (c *Conn) readLoop() {
	defer c.server.wg.Done()
	defer c.server.unregister(c)

	c.ws.SetReadLimit(c.server.opts.MaxMessageSize)
	for {
		messageType, data, err := c.ws.ReadMessage()
		if err != nil {
			c.server.logger.DebugKV("连接读取结束", "conn_id", c.id, "error", err)
			return
		}
		if messageType != websocket.TextMessage {
			c.server.logger.DebugKV("忽略非文本帧", "conn_id", c.id, "type", messageType)
			continue
		}
		c.server.dispatch(c, data)
	}
}
