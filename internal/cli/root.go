/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-19 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-26 14:12:05
 * @FilePath: \go-livemirror\internal\cli\root.go
 * @Description: 根命令
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
)

// SetVersionInfo 由 main 在启动时注入版本信息
func SetVersionInfo(v, c string) {
	version, commit = v, c
}

// state 在 PersistentPreRunE 中加载配置，供子命令读取
type state struct {
	v *viper.Viper
}

// config 解析当前配置
func (s *state) config() (*Config, error) {
	return decodeConfig(s.v)
}

// bind 将命令行参数绑定到嵌套配置键，keys 为 配置键 -> 参数名
func (s *state) bind(cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		if err := s.v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

// NewRootCommand 构建命令树，每次调用返回独立实例
func NewRootCommand() *cobra.Command {
	var configFile string
	st := &state{}

	root := &cobra.Command{
		Use:           "livemirror",
		Short:         "Live status mirror for an uptime monitoring server",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := newViper(configFile)
			if err != nil {
				return err
			}
			if err := loaded.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			st.v = loaded
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default .livemirror.yaml)")
	root.PersistentFlags().String("log.level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newWatchCommand(st),
		newServeCommand(st),
		newPrefsCommand(st),
	)
	return root
}

// Execute 运行命令行，收到 SIGINT/SIGTERM 时取消上下文
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
