/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-19 17:25:03
 * @FilePath: \go-livemirror\models\errors.go
 * @Description: 错误定义 - 基于errorx.BaseError模式
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"errors"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// ErrorType 错误类型定义，基于errorx.ErrorType
type ErrorType = errorx.ErrorType

// 使用 9xxxx 区间
const (
	// 连接相关错误 (90100-90199) - 可重试
	ErrTypeConnectionClosed   ErrorType = 90101 // 连接已关闭
	ErrTypeConnectionTimeout  ErrorType = 90102 // 连接超时
	ErrTypeReconnectExhausted ErrorType = 90103 // 重连次数耗尽
	ErrTypeMessageBufferFull  ErrorType = 90104 // 发送缓冲区已满

	// 请求相关错误 (90200-90299)
	ErrTypeAckTimeout      ErrorType = 90201 // ACK超时 - 可重试
	ErrTypeRequestRejected ErrorType = 90202 // 服务端拒绝请求 - 不可重试
	ErrTypeStaleSession    ErrorType = 90203 // 会话已失效 - 不可重试

	// 载荷错误 (90300-90399) - 不可重试
	ErrTypeInvalidPayload ErrorType = 90301 // 无效的载荷
	ErrTypeInvalidFrame   ErrorType = 90302 // 无效的帧

	// 鉴权与业务错误 (90400-90499) - 不可重试
	ErrTypeNotLoggedIn       ErrorType = 90401 // 未登录
	ErrTypeInvalidPreference ErrorType = 90402 // 无效的偏好设置值
	ErrTypeRepositoryNotSet  ErrorType = 90403 // 仓库未设置
	ErrTypeInvalidConfig     ErrorType = 90404 // 无效配置
)

func init() {
	errorx.RegisterError(ErrTypeConnectionClosed, "connection closed")
	errorx.RegisterError(ErrTypeConnectionTimeout, "connection timeout")
	errorx.RegisterError(ErrTypeReconnectExhausted, "reconnect attempts exhausted after %d tries: %v")
	errorx.RegisterError(ErrTypeMessageBufferFull, "message buffer is full")

	errorx.RegisterError(ErrTypeAckTimeout, "ack timeout for event %s")
	errorx.RegisterError(ErrTypeRequestRejected, "request %s rejected: %s")
	errorx.RegisterError(ErrTypeStaleSession, "stale session")

	errorx.RegisterError(ErrTypeInvalidPayload, "invalid payload: %s")
	errorx.RegisterError(ErrTypeInvalidFrame, "invalid frame: %s")

	errorx.RegisterError(ErrTypeNotLoggedIn, "you are not logged in")
	errorx.RegisterError(ErrTypeInvalidPreference, "invalid value %q for preference %s")
	errorx.RegisterError(ErrTypeRepositoryNotSet, "repository is not set")
	errorx.RegisterError(ErrTypeInvalidConfig, "invalid config: %s")
}

// 常用错误变量
var (
	ErrConnectionClosed  = errorx.NewError(ErrTypeConnectionClosed)
	ErrMessageBufferFull = errorx.NewError(ErrTypeMessageBufferFull)
	ErrStaleSession      = errorx.NewError(ErrTypeStaleSession)
	ErrNotLoggedIn       = errorx.NewError(ErrTypeNotLoggedIn)
	ErrRepositoryNotSet  = errorx.NewError(ErrTypeRepositoryNotSet)
)

// IsErrorType 判断错误是否为指定类型
func IsErrorType(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}
	var typed interface{ Type() ErrorType }
	if errors.As(err, &typed) {
		return typed.Type() == errType
	}
	return false
}

// IsRetryableError 判断错误是否可以重试
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var typed interface{ Type() ErrorType }
	if !errors.As(err, &typed) {
		return false
	}
	switch typed.Type() {
	case ErrTypeConnectionClosed, ErrTypeConnectionTimeout, ErrTypeReconnectExhausted,
		ErrTypeMessageBufferFull, ErrTypeAckTimeout:
		return true
	default:
		return false
	}
}
