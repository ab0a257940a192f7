/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-04 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-04 00:00:00
 * @FilePath: \go-livemirror\client\aliases.go
 * @Description: Client 类型别名 - 为 models 包中的类型创建别名，便于在 client 层使用
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package client

import (
	"github.com/kamalyes/go-livemirror/models"
)

type (
	ConnectionStatus = models.ConnectionStatus
)

// 常量别名
const (
	ConnectionStatusConnecting   = models.ConnectionStatusConnecting
	ConnectionStatusConnected    = models.ConnectionStatusConnected
	ConnectionStatusDisconnected = models.ConnectionStatusDisconnected
	ConnectionStatusReconnecting = models.ConnectionStatusReconnecting
	ConnectionStatusError        = models.ConnectionStatusError
)

// 错误别名
var (
	ErrConnectionClosed  = models.ErrConnectionClosed
	ErrMessageBufferFull = models.ErrMessageBufferFull
)
