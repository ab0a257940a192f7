/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-18 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-25 10:02:47
 * @FilePath: \go-livemirror\exports.go
 * @Description: 常用类型导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package livemirror

import (
	"github.com/kamalyes/go-livemirror/client"
	"github.com/kamalyes/go-livemirror/mirror"
	"github.com/kamalyes/go-livemirror/models"
)

// ==================== 客户端 ====================
type (
	Client       = client.Wsc
	ClientConfig = client.Config
)

var NewClientConfig = client.NewDefaultConfig

// ==================== 镜像 ====================
type (
	Mirror     = mirror.Mirror
	Snapshot   = mirror.Snapshot
	StateEvent = mirror.StateEvent
	Observer   = mirror.Observer
	Option     = mirror.Option
)

var (
	WithLogger       = mirror.WithLogger
	WithHistoryLimit = mirror.WithHistoryLimit
	ComputeStats     = mirror.ComputeStats
)

// ==================== 数据模型 ====================
type (
	Monitor         = models.Monitor
	HeartbeatSample = models.HeartbeatSample
	HeartbeatStatus = models.HeartbeatStatus
	AggregateStats  = models.AggregateStats
	StateEventKind  = models.StateEventKind
)

const (
	HeartbeatStatusDown    = models.HeartbeatStatusDown
	HeartbeatStatusUp      = models.HeartbeatStatusUp
	HeartbeatStatusPending = models.HeartbeatStatusPending
)
