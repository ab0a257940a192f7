/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-04 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-17 22:08:41
 * @FilePath: \go-livemirror\client\config.go
 * @Description: Config 结构体
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"fmt"
	"time"

	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-livemirror/models"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
)

// 默认值
const (
	DefaultReconnectAttempts = 5
	DefaultReconnectDelay    = 1000 * time.Millisecond
	DefaultReconnectDelayMax = 5000 * time.Millisecond
	DefaultReconnectFactor   = 2.0
	DefaultConnectTimeout    = 20000 * time.Millisecond
	DefaultWriteTimeout      = 10 * time.Second
	DefaultAckTimeout        = 10 * time.Second
	DefaultMaxMessageSize    = 4 << 20
	DefaultMessageBufferSize = 256
)

// Config 结构体表示事件通道客户端的配置
type Config struct {
	Reconnection      bool          `mapstructure:"reconnection"`        // 断线后是否自动重连
	ReconnectAttempts int           `mapstructure:"reconnect_attempts"`  // 每轮最大重试次数
	ReconnectDelay    time.Duration `mapstructure:"reconnect_delay"`     // 初始重连间隔
	ReconnectDelayMax time.Duration `mapstructure:"reconnect_delay_max"` // 重连间隔上限
	ReconnectFactor   float64       `mapstructure:"reconnect_factor"`    // 退避因子
	ConnectTimeout    time.Duration `mapstructure:"connect_timeout"`     // 单次拨号超时
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`       // 写超时
	AckTimeout        time.Duration `mapstructure:"ack_timeout"`         // 请求应答超时
	MaxMessageSize    int64         `mapstructure:"max_message_size"`    // 最大消息长度
	MessageBufferSize int           `mapstructure:"message_buffer_size"` // 发送缓冲池大小
}

// NewDefaultConfig 创建默认配置
func NewDefaultConfig() *Config {
	return &Config{
		Reconnection:      true,
		ReconnectAttempts: DefaultReconnectAttempts,
		ReconnectDelay:    DefaultReconnectDelay,
		ReconnectDelayMax: DefaultReconnectDelayMax,
		ReconnectFactor:   DefaultReconnectFactor,
		ConnectTimeout:    DefaultConnectTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		AckTimeout:        DefaultAckTimeout,
		MaxMessageSize:    DefaultMaxMessageSize,
		MessageBufferSize: DefaultMessageBufferSize,
	}
}

// NewConfigFromWSC 以默认配置为底，覆盖 go-config 的 WSC 配置中已设置的重连、超时与缓冲字段
func NewConfigFromWSC(cfg *wscconfig.WSC) *Config {
	c := NewDefaultConfig()
	if cfg == nil {
		return c
	}
	c.Reconnection = cfg.AutoReconnect
	c.ReconnectDelay = mathx.IF(cfg.MinRecTime > 0, cfg.MinRecTime, c.ReconnectDelay)
	c.ReconnectDelayMax = mathx.IF(cfg.MaxRecTime > 0, cfg.MaxRecTime, c.ReconnectDelayMax)
	c.ReconnectFactor = mathx.IF(cfg.RecFactor >= 1, cfg.RecFactor, c.ReconnectFactor)
	c.WriteTimeout = mathx.IF(cfg.WriteTimeout > 0, cfg.WriteTimeout, c.WriteTimeout)
	c.AckTimeout = mathx.IF(cfg.AckTimeout > 0, cfg.AckTimeout, c.AckTimeout)
	c.MessageBufferSize = mathx.IF(cfg.MessageBufferSize > 0, cfg.MessageBufferSize, c.MessageBufferSize)
	return c
}

// WithReconnection 设置是否自动重连并返回当前配置对象
func (c *Config) WithReconnection(enabled bool) *Config {
	c.Reconnection = enabled
	return c
}

// WithReconnectAttempts 设置最大重试次数并返回当前配置对象
func (c *Config) WithReconnectAttempts(n int) *Config {
	c.ReconnectAttempts = n
	return c
}

// WithReconnectDelay 设置初始重连间隔并返回当前配置对象
func (c *Config) WithReconnectDelay(d time.Duration) *Config {
	c.ReconnectDelay = d
	return c
}

// WithReconnectDelayMax 设置重连间隔上限并返回当前配置对象
func (c *Config) WithReconnectDelayMax(d time.Duration) *Config {
	c.ReconnectDelayMax = d
	return c
}

// WithReconnectFactor 设置退避因子并返回当前配置对象
func (c *Config) WithReconnectFactor(f float64) *Config {
	c.ReconnectFactor = f
	return c
}

// WithConnectTimeout 设置拨号超时并返回当前配置对象
func (c *Config) WithConnectTimeout(d time.Duration) *Config {
	c.ConnectTimeout = d
	return c
}

// WithWriteTimeout 设置写超时并返回当前配置对象
func (c *Config) WithWriteTimeout(d time.Duration) *Config {
	c.WriteTimeout = d
	return c
}

// WithAckTimeout 设置请求应答超时并返回当前配置对象
func (c *Config) WithAckTimeout(d time.Duration) *Config {
	c.AckTimeout = d
	return c
}

// WithMaxMessageSize 设置最大消息长度并返回当前配置对象
func (c *Config) WithMaxMessageSize(size int64) *Config {
	c.MaxMessageSize = size
	return c
}

// WithMessageBufferSize 设置发送缓冲池大小并返回当前配置对象
func (c *Config) WithMessageBufferSize(size int) *Config {
	c.MessageBufferSize = size
	return c
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch {
	case c.ReconnectAttempts < 0:
		return errorx.NewError(models.ErrTypeInvalidConfig, fmt.Sprintf("reconnect_attempts must be >= 0, got %d", c.ReconnectAttempts))
	case c.ReconnectDelay <= 0:
		return errorx.NewError(models.ErrTypeInvalidConfig, "reconnect_delay must be positive")
	case c.ReconnectDelayMax < c.ReconnectDelay:
		return errorx.NewError(models.ErrTypeInvalidConfig, fmt.Sprintf("reconnect_delay_max %s is below reconnect_delay %s", c.ReconnectDelayMax, c.ReconnectDelay))
	case c.ReconnectFactor < 1:
		return errorx.NewError(models.ErrTypeInvalidConfig, "reconnect_factor must be >= 1")
	case c.ConnectTimeout <= 0:
		return errorx.NewError(models.ErrTypeInvalidConfig, "connect_timeout must be positive")
	case c.MessageBufferSize <= 0:
		return errorx.NewError(models.ErrTypeInvalidConfig, "message_buffer_size must be positive")
	}
	return nil
}
