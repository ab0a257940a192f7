/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-19 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-26 14:12:05
 * @FilePath: \go-livemirror\internal\cli\config.go
 * @Description: 命令行配置 - 配置文件、环境变量与命令行参数
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package cli

import (
	"errors"
	"strings"
	"time"

	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	livemirror "github.com/kamalyes/go-livemirror"
	"github.com/kamalyes/go-livemirror/client"
	"github.com/kamalyes/go-livemirror/models"
	"github.com/kamalyes/go-livemirror/server"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/spf13/viper"
)

const (
	ConfigName = ".livemirror"
	EnvPrefix  = "LIVEMIRROR"
)

// Config 命令行全部配置
type Config struct {
	URL          string                `mapstructure:"url"`           // watch 连接的事件端点
	HistoryLimit int                   `mapstructure:"history_limit"` // 单监控心跳历史上限
	Log          livemirror.LogOptions `mapstructure:"log"`
	Client       client.Config         `mapstructure:"client"`
	Prefs        PrefsConfig           `mapstructure:"prefs"`
	Serve        ServeConfig           `mapstructure:"serve"`
	WSC          *wscconfig.WSC        `mapstructure:"wsc"` // 可选，go-config 的 WSC 配置段，提供日志与端点参数
}

// newLogger wsc.logging 启用时按其创建日志器，否则使用 log 段
func (c *Config) newLogger() logger.ILogger {
	if c.WSC != nil && c.WSC.Logging != nil && c.WSC.Logging.Enabled {
		return livemirror.NewLoggerFromConfig(c.WSC)
	}
	return livemirror.NewLogger(c.Log)
}

// endpointOptions 端点参数取自 wsc 段，serve.origins 非空时优先
func (c *Config) endpointOptions() server.Options {
	opts := server.OptionsFromConfig(c.WSC)
	if len(c.Serve.Origins) > 0 {
		opts.Origins = c.Serve.Origins
	}
	return opts
}

// PrefsConfig 偏好存储，Redis 地址为空时使用内存
type PrefsConfig struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
	SystemDark    bool          `mapstructure:"system_dark"` // theme=auto 时视为深色
}

// ServeConfig serve 子命令配置
type ServeConfig struct {
	Addr      string            `mapstructure:"addr"`
	DSN       string            `mapstructure:"dsn"`
	Origins   []string          `mapstructure:"origins"`
	Users     map[string]string `mapstructure:"users"` // token -> userID
	Monitors  []MonitorConfig   `mapstructure:"monitors"`
	Clients   []ClientConfig    `mapstructure:"clients"`
	Locations []LocationConfig  `mapstructure:"locations"`
}

// MonitorConfig 静态监控项
type MonitorConfig struct {
	ID       int64  `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	Type     string `mapstructure:"type"`
	URL      string `mapstructure:"url"`
	Interval int    `mapstructure:"interval"`
	Active   bool   `mapstructure:"active"`
}

// ClientConfig 静态客户条目
type ClientConfig struct {
	ID          int64  `mapstructure:"id"`
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
}

// LocationConfig 静态站点条目
type LocationConfig struct {
	ID       int64  `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	Address  string `mapstructure:"address"`
	ClientID int64  `mapstructure:"client_id"`
}

// setDefaults 写入默认值，同时让环境变量可以覆盖嵌套键
func setDefaults(v *viper.Viper) {
	def := client.NewDefaultConfig()
	v.SetDefault("url", "ws://127.0.0.1:3001/socket")
	v.SetDefault("history_limit", 150)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "console")
	v.SetDefault("client.reconnection", def.Reconnection)
	v.SetDefault("client.reconnect_attempts", def.ReconnectAttempts)
	v.SetDefault("client.reconnect_delay", def.ReconnectDelay)
	v.SetDefault("client.reconnect_delay_max", def.ReconnectDelayMax)
	v.SetDefault("client.reconnect_factor", def.ReconnectFactor)
	v.SetDefault("client.connect_timeout", def.ConnectTimeout)
	v.SetDefault("client.write_timeout", def.WriteTimeout)
	v.SetDefault("client.ack_timeout", def.AckTimeout)
	v.SetDefault("client.max_message_size", def.MaxMessageSize)
	v.SetDefault("client.message_buffer_size", def.MessageBufferSize)
	v.SetDefault("prefs.redis_addr", "")
	v.SetDefault("prefs.key_prefix", "livemirror:prefs:")
	v.SetDefault("prefs.system_dark", false)
	v.SetDefault("serve.addr", ":3001")
	v.SetDefault("serve.dsn", "")
}

// newViper 创建带默认值与环境变量前缀的 viper 实例
// configFile 为空时依次在当前目录与用户目录查找 .livemirror.yaml
func newViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errorx.WrapError("读取配置文件失败", err)
		}
	}
	return v, nil
}

// decodeConfig 将 viper 内容解析为 Config 并校验客户端配置
func decodeConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errorx.WrapError("解析配置失败", err)
	}
	if err := cfg.Client.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// monitors 转换为数据模型
func (c *ServeConfig) monitors() []*models.Monitor {
	out := make([]*models.Monitor, 0, len(c.Monitors))
	for _, m := range c.Monitors {
		out = append(out, &models.Monitor{
			ID: m.ID, Name: m.Name, Type: m.Type, URL: m.URL, Interval: m.Interval, Active: m.Active,
		})
	}
	return out
}

// directory 转换为静态目录数据
func (c *ServeConfig) directory() ([]*models.Client, []*models.ClientLocation) {
	clients := make([]*models.Client, 0, len(c.Clients))
	for _, cl := range c.Clients {
		clients = append(clients, &models.Client{ID: cl.ID, Name: cl.Name, Description: cl.Description, Active: true})
	}
	locations := make([]*models.ClientLocation, 0, len(c.Locations))
	for _, loc := range c.Locations {
		l := &models.ClientLocation{ID: loc.ID, Name: loc.Name, Address: loc.Address, Active: true}
		if loc.ClientID != 0 {
			id := loc.ClientID
			l.ClientID = &id
		}
		locations = append(locations, l)
	}
	return clients, locations
}
