/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-18 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-25 09:40:12
 * @FilePath: \go-livemirror\logger.go
 * @Description: go-livemirror 日志接口，直接复用 go-logger
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package livemirror

import (
	"os"
	"strings"
	"time"

	"github.com/kamalyes/go-config/pkg/logging"
	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-logger"
)

// Logger 直接使用 go-logger.ILogger
type Logger = logger.ILogger

// LogOptions 日志输出配置
type LogOptions struct {
	Level      string `mapstructure:"level"`       // debug / info / warn / error / fatal
	Output     string `mapstructure:"output"`      // console / file / rotate
	FilePath   string `mapstructure:"file_path"`   // 文件输出路径
	MaxSize    int    `mapstructure:"max_size"`    // 单文件上限（MB），大于 0 且 MaxBackups 大于 0 时轮转
	MaxBackups int    `mapstructure:"max_backups"` // 保留的轮转文件数
}

// NewDefaultLogger 创建默认配置的日志器
func NewDefaultLogger() Logger {
	return NewLogger(LogOptions{Level: "info"})
}

// NewNoOpLogger 创建空日志实例
func NewNoOpLogger() Logger {
	return logger.NewEmptyLogger()
}

// NewLogger 根据配置创建日志器
func NewLogger(opts LogOptions) Logger {
	return logger.NewLogger().
		WithLevel(ParseLogLevel(opts.Level)).
		WithPrefix("[LiveMirror] ").
		WithShowCaller(false).
		WithColorful(true).
		WithTimeFormat(time.DateTime).
		WithOutput(newLogWriter(opts))
}

// newLogWriter 按输出类型创建写入器
// file 同时给出 MaxSize 与 MaxBackups 时按轮转处理，文件路径缺失时退回控制台
func newLogWriter(opts LogOptions) logger.IWriter {
	cfg := &logger.WriterConfig{
		Type:     logger.OutputType(strings.ToLower(strings.TrimSpace(opts.Output))),
		FilePath: opts.FilePath,
	}
	if cfg.Type == logger.OutputFile && opts.MaxSize > 0 && opts.MaxBackups > 0 {
		cfg.Type = logger.OutputRotate
	}
	if cfg.Type == logger.OutputRotate {
		cfg.MaxSize = int64(opts.MaxSize) * 1024 * 1024 // 转换为字节
		cfg.MaxFiles = opts.MaxBackups
	}
	w, err := logger.CreateWriter(cfg)
	if err != nil {
		return logger.NewConsoleWriter(logger.WithConsoleOutput(os.Stdout))
	}
	return w
}

// LogOptionsFromLogging 转换 go-config 的日志配置
func LogOptionsFromLogging(cfg *logging.Logging) LogOptions {
	if cfg == nil {
		return LogOptions{Level: "info"}
	}
	return LogOptions{
		Level:      cfg.Level,
		Output:     string(cfg.Output),
		FilePath:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
	}
}

// NewLoggerFromConfig 按 go-config 的 WSC 配置创建日志器，未启用日志时返回默认日志器
func NewLoggerFromConfig(cfg *wscconfig.WSC) Logger {
	if cfg == nil || cfg.Logging == nil || !cfg.Logging.Enabled {
		return NewDefaultLogger()
	}
	return NewLogger(LogOptionsFromLogging(cfg.Logging))
}

// ParseLogLevel 解析日志级别字符串，无法识别时返回 INFO
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logger.DEBUG
	case "warn", "warning":
		return logger.WARN
	case "error":
		return logger.ERROR
	case "fatal":
		return logger.FATAL
	default:
		return logger.INFO
	}
}
