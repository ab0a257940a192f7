/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-09 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-21 09:48:33
 * @FilePath: \go-livemirror\prefs\prefs.go
 * @Description: 展示偏好管理 - 主题、心跳条样式、耗时样式
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package prefs

import (
	"context"

	"github.com/kamalyes/go-livemirror/models"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/types"
)

// 存储键名
const (
	KeyTheme             = "theme"
	KeyHeartbeatBarTheme = "heartbeatBarTheme"
	KeyStyleElapsedTime  = "styleElapsedTime"
)

// Theme 界面主题
type Theme string

const (
	ThemeAuto  Theme = "auto"  // 跟随系统
	ThemeLight Theme = "light" // 浅色
	ThemeDark  Theme = "dark"  // 深色
)

// HeartbeatBarTheme 心跳条位置
type HeartbeatBarTheme string

const (
	HeartbeatBarNormal HeartbeatBarTheme = "normal" // 默认位置
	HeartbeatBarBottom HeartbeatBarTheme = "bottom" // 底部
	HeartbeatBarNone   HeartbeatBarTheme = "none"   // 不显示
)

// ElapsedTimeStyle 耗时显示样式
type ElapsedTimeStyle string

const (
	ElapsedTimeNoLine   ElapsedTimeStyle = "no-line"   // 无分隔线
	ElapsedTimeWithLine ElapsedTimeStyle = "with-line" // 带分隔线
	ElapsedTimeNone     ElapsedTimeStyle = "none"      // 不显示
)

// 默认值
const (
	DefaultTheme             = ThemeAuto
	DefaultHeartbeatBarTheme = HeartbeatBarNormal
	DefaultElapsedTimeStyle  = ElapsedTimeNoLine
)

var (
	themeValidator            = types.NewEnumValidator(ThemeAuto, ThemeLight, ThemeDark)
	heartbeatBarValidator     = types.NewEnumValidator(HeartbeatBarNormal, HeartbeatBarBottom, HeartbeatBarNone)
	elapsedTimeStyleValidator = types.NewEnumValidator(ElapsedTimeNoLine, ElapsedTimeWithLine, ElapsedTimeNone)
)

// Manager 偏好设置管理器，读取时对缺失或非法值回落到默认值，写入时先校验
type Manager struct {
	store  Store
	logger logger.ILogger
}

// NewManager 创建偏好管理器，store 为 nil 时使用内存存储
func NewManager(store Store) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Manager{store: store, logger: logger.NewEmptyLogger()}
}

// SetLogger 设置日志器
func (m *Manager) SetLogger(l logger.ILogger) *Manager {
	if l != nil {
		m.logger = l
	}
	return m
}

// Theme 当前主题
func (m *Manager) Theme(ctx context.Context) Theme {
	return readEnum(ctx, m, KeyTheme, DefaultTheme, themeValidator.IsValid)
}

// SetTheme 设置主题
func (m *Manager) SetTheme(ctx context.Context, t Theme) error {
	return writeEnum(ctx, m, KeyTheme, t, themeValidator.IsValid)
}

// HeartbeatBarTheme 当前心跳条样式
func (m *Manager) HeartbeatBarTheme(ctx context.Context) HeartbeatBarTheme {
	return readEnum(ctx, m, KeyHeartbeatBarTheme, DefaultHeartbeatBarTheme, heartbeatBarValidator.IsValid)
}

// SetHeartbeatBarTheme 设置心跳条样式
func (m *Manager) SetHeartbeatBarTheme(ctx context.Context, t HeartbeatBarTheme) error {
	return writeEnum(ctx, m, KeyHeartbeatBarTheme, t, heartbeatBarValidator.IsValid)
}

// ElapsedTimeStyle 当前耗时样式
func (m *Manager) ElapsedTimeStyle(ctx context.Context) ElapsedTimeStyle {
	return readEnum(ctx, m, KeyStyleElapsedTime, DefaultElapsedTimeStyle, elapsedTimeStyleValidator.IsValid)
}

// SetElapsedTimeStyle 设置耗时样式
func (m *Manager) SetElapsedTimeStyle(ctx context.Context, s ElapsedTimeStyle) error {
	return writeEnum(ctx, m, KeyStyleElapsedTime, s, elapsedTimeStyleValidator.IsValid)
}

// ResolveTheme 将 auto 解析为系统配色
func (m *Manager) ResolveTheme(ctx context.Context, systemDark bool) Theme {
	t := m.Theme(ctx)
	if t != ThemeAuto {
		return t
	}
	if systemDark {
		return ThemeDark
	}
	return ThemeLight
}

func readEnum[T ~string](ctx context.Context, m *Manager, key string, def T, valid func(T) bool) T {
	raw, found, err := m.store.Get(ctx, key)
	if err != nil {
		m.logger.WarnKV("读取偏好失败，使用默认值", "key", key, "error", err)
		return def
	}
	if !found || raw == "" {
		return def
	}
	v := T(raw)
	if !valid(v) {
		m.logger.WarnKV("偏好值无效，使用默认值", "key", key, "value", raw)
		return def
	}
	return v
}

func writeEnum[T ~string](ctx context.Context, m *Manager, key string, v T, valid func(T) bool) error {
	if !valid(v) {
		return errorx.NewError(models.ErrTypeInvalidPreference, string(v), key)
	}
	return m.store.Set(ctx, key, string(v))
}
