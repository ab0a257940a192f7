/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-18 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-25 09:40:12
 * @FilePath: \go-livemirror\errors.go
 * @Description: 错误类型导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package livemirror

import "github.com/kamalyes/go-livemirror/models"

type ErrorType = models.ErrorType

const (
	ErrTypeConnectionClosed   = models.ErrTypeConnectionClosed
	ErrTypeConnectionTimeout  = models.ErrTypeConnectionTimeout
	ErrTypeReconnectExhausted = models.ErrTypeReconnectExhausted
	ErrTypeMessageBufferFull  = models.ErrTypeMessageBufferFull
	ErrTypeAckTimeout         = models.ErrTypeAckTimeout
	ErrTypeRequestRejected    = models.ErrTypeRequestRejected
	ErrTypeStaleSession       = models.ErrTypeStaleSession
	ErrTypeInvalidPayload     = models.ErrTypeInvalidPayload
	ErrTypeInvalidFrame       = models.ErrTypeInvalidFrame
	ErrTypeNotLoggedIn        = models.ErrTypeNotLoggedIn
	ErrTypeInvalidPreference  = models.ErrTypeInvalidPreference
	ErrTypeRepositoryNotSet   = models.ErrTypeRepositoryNotSet
	ErrTypeInvalidConfig      = models.ErrTypeInvalidConfig
)

var (
	ErrConnectionClosed  = models.ErrConnectionClosed
	ErrMessageBufferFull = models.ErrMessageBufferFull
	ErrStaleSession      = models.ErrStaleSession
	ErrNotLoggedIn       = models.ErrNotLoggedIn
	ErrRepositoryNotSet  = models.ErrRepositoryNotSet
)

var (
	IsErrorType      = models.IsErrorType
	IsRetryableError = models.IsRetryableError
)
