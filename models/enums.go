/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-18 21:40:12
 * @FilePath: \go-livemirror\models\enums.go
 * @Description: 枚举类型定义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

// HeartbeatStatus 心跳状态码（线上编码：0=down 1=up 2=pending）
type HeartbeatStatus int

const (
	HeartbeatStatusDown    HeartbeatStatus = 0 // 宕机
	HeartbeatStatusUp      HeartbeatStatus = 1 // 正常
	HeartbeatStatusPending HeartbeatStatus = 2 // 待定

	HeartbeatStatusUnknown HeartbeatStatus = -1 // 无法识别的状态码，不计入统计
)

// String 实现Stringer接口
func (s HeartbeatStatus) String() string {
	switch s {
	case HeartbeatStatusDown:
		return "down"
	case HeartbeatStatusUp:
		return "up"
	case HeartbeatStatusPending:
		return "pending"
	default:
		return "unknown"
	}
}

// IsValid 检查状态码是否属于已知集合
func (s HeartbeatStatus) IsValid() bool {
	return HeartbeatStatusValidator.IsValid(s)
}

// ConnectionStatus 连接状态
type ConnectionStatus string

const (
	ConnectionStatusConnecting   ConnectionStatus = "connecting"   // 连接中
	ConnectionStatusConnected    ConnectionStatus = "connected"    // 已连接
	ConnectionStatusDisconnected ConnectionStatus = "disconnected" // 已断开
	ConnectionStatusReconnecting ConnectionStatus = "reconnecting" // 重连中
	ConnectionStatusError        ConnectionStatus = "error"        // 连接错误
)

// String 实现Stringer接口
func (s ConnectionStatus) String() string {
	return string(s)
}

// IsValid 检查连接状态是否有效
func (s ConnectionStatus) IsValid() bool {
	return ConnectionStatusValidator.IsValid(s)
}

// StateEventKind 镜像状态变更类型
type StateEventKind string

const (
	StateEventMonitorList      StateEventKind = "monitorList"           // 全量替换
	StateEventMonitorUpdated   StateEventKind = "updateMonitorIntoList" // 增量合并
	StateEventMonitorDeleted   StateEventKind = "deleteMonitorFromList" // 删除
	StateEventLastHeartbeat    StateEventKind = "lastHeartbeat"         // 最新心跳
	StateEventHeartbeat        StateEventKind = "heartbeat"             // 心跳追加
	StateEventHeartbeatHistory StateEventKind = "heartbeatList"         // 心跳历史
	StateEventConnected        StateEventKind = "connected"             // 会话建立
	StateEventDisconnected     StateEventKind = "disconnected"          // 会话结束
)

// String 实现Stringer接口
func (k StateEventKind) String() string {
	return string(k)
}

// AffectsStats 该类变更是否会触发统计重算
func (k StateEventKind) AffectsStats() bool {
	switch k {
	case StateEventMonitorList, StateEventMonitorUpdated, StateEventMonitorDeleted, StateEventLastHeartbeat:
		return true
	default:
		return false
	}
}
