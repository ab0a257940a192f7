/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-04 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-17 22:08:41
 * @FilePath: \go-livemirror\client\websocket.go
 * @Description: WebSocket 结构体及其方法
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocket 结构体表示底层 WebSocket 连接
type WebSocket struct {
	Url            string              // 连接 URL
	Conn           *websocket.Conn     // 当前物理连接
	Dialer         *websocket.Dialer   // WebSocket 拨号器
	RequestHeader  http.Header         // 请求头（鉴权 token 等）
	HttpResponse   *http.Response      // 握手响应
	isConnected    bool                // 是否已连接
	connMu         *sync.RWMutex       // 连接状态锁
	sendMu         *sync.Mutex         // 写锁，gorilla 只允许一个并发写者
	sendChan       chan *ClientMessage // 发送消息缓冲池，每次连接成功时重建
	sendChanMu     *sync.RWMutex       // 保护 sendChan 指针和关闭操作
	sendChanClosed bool                // 发送通道是否已关闭
}

// ClientMessage 待发送的消息
type ClientMessage struct {
	T   int    // 消息类型
	Msg []byte // 消息内容
}

// NewWebSocket 创建一个新的 WebSocket 连接描述
func NewWebSocket(url string) *WebSocket {
	return &WebSocket{
		Url:            url,
		Dialer:         websocket.DefaultDialer,
		RequestHeader:  http.Header{},
		connMu:         &sync.RWMutex{},
		sendMu:         &sync.Mutex{},
		sendChanMu:     &sync.RWMutex{},
		sendChanClosed: true,
	}
}

// WithDialer 设置自定义的 WebSocket 拨号器
func (ws *WebSocket) WithDialer(dialer *websocket.Dialer) *WebSocket {
	ws.Dialer = dialer
	return ws
}

// WithRequestHeader 设置请求头
func (ws *WebSocket) WithRequestHeader(header http.Header) *WebSocket {
	ws.RequestHeader = header
	return ws
}

// WithCustomURL 设置自定义 URL
func (ws *WebSocket) WithCustomURL(url string) *WebSocket {
	ws.Url = url
	return ws
}

// IsConnected 获取连接状态
func (ws *WebSocket) IsConnected() bool {
	ws.connMu.RLock()
	defer ws.connMu.RUnlock()
	return ws.isConnected
}

// GetURL 获取连接 URL
func (ws *WebSocket) GetURL() string {
	return ws.Url
}

// GetConn 获取当前物理连接
func (ws *WebSocket) GetConn() *websocket.Conn {
	ws.connMu.RLock()
	defer ws.connMu.RUnlock()
	return ws.Conn
}

// GetHttpResponse 获取握手响应
func (ws *WebSocket) GetHttpResponse() *http.Response {
	ws.connMu.RLock()
	defer ws.connMu.RUnlock()
	return ws.HttpResponse
}

// GetSendChanLength 获取发送通道的当前长度
func (ws *WebSocket) GetSendChanLength() int {
	ws.sendChanMu.RLock()
	defer ws.sendChanMu.RUnlock()
	if ws.sendChan == nil {
		return 0
	}
	return len(ws.sendChan)
}

// attach 绑定新的物理连接并重建发送通道，返回新通道供写协程消费
func (ws *WebSocket) attach(conn *websocket.Conn, resp *http.Response, bufferSize int) chan *ClientMessage {
	ws.connMu.Lock()
	ws.Conn = conn
	ws.HttpResponse = resp
	ws.isConnected = true
	ws.connMu.Unlock()

	ws.sendChanMu.Lock()
	defer ws.sendChanMu.Unlock()
	ws.sendChan = make(chan *ClientMessage, bufferSize)
	ws.sendChanClosed = false
	return ws.sendChan
}

// detach 关闭物理连接与发送通道，重复调用安全
func (ws *WebSocket) detach() {
	ws.connMu.Lock()
	ws.isConnected = false
	if ws.Conn != nil {
		_ = ws.Conn.Close()
	}
	ws.connMu.Unlock()

	ws.sendChanMu.Lock()
	if !ws.sendChanClosed && ws.sendChan != nil {
		close(ws.sendChan)
	}
	ws.sendChanClosed = true
	ws.sendChanMu.Unlock()
}

// enqueue 非阻塞入队
func (ws *WebSocket) enqueue(msg *ClientMessage) error {
	ws.sendChanMu.RLock()
	defer ws.sendChanMu.RUnlock()
	if ws.sendChanClosed {
		return ErrConnectionClosed
	}
	select {
	case ws.sendChan <- msg:
		return nil
	default:
		return ErrMessageBufferFull
	}
}
