/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-19 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-26 16:08:19
 * @FilePath: \go-livemirror\internal\cli\watch.go
 * @Description: watch 子命令 - 镜像远端状态并在每次变更时重绘
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package cli

import (
	"context"
	"fmt"
	"io"

	livemirror "github.com/kamalyes/go-livemirror"
	"github.com/kamalyes/go-livemirror/mirror"
	"github.com/kamalyes/go-livemirror/prefs"
	"github.com/kamalyes/go-logger"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const clearScreen = "\033[H\033[2J"

func newWatchCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Mirror the monitor list and heartbeats of a server",
		Long: `Connect to the event endpoint, keep a live copy of every monitor and
its heartbeats, and redraw the summary on each change.

Examples:
  livemirror watch --url ws://127.0.0.1:3001/socket
  LIVEMIRROR_URL=ws://status.local/socket livemirror watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := st.config()
			if err != nil {
				return err
			}
			log := cfg.newLogger()
			mgr, closeStore := newPrefsManager(cfg.Prefs, log)
			defer closeStore()
			return runWatch(cmd.Context(), cfg, mgr, log, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("url", "", "event endpoint, e.g. ws://127.0.0.1:3001/socket")
	cmd.Flags().Int("history_limit", 0, "heartbeats kept per monitor")
	return cmd
}

// newPrefsManager 按配置选择 Redis 或内存偏好存储
func newPrefsManager(cfg PrefsConfig, log logger.ILogger) (*prefs.Manager, func()) {
	if cfg.RedisAddr == "" {
		return prefs.NewManager(nil).SetLogger(log), func() {}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	store := prefs.NewRedisStore(rdb, cfg.KeyPrefix, cfg.TTL)
	return prefs.NewManager(store).SetLogger(log), func() { _ = rdb.Close() }
}

// renderOptions 读取显示偏好
func renderOptions(ctx context.Context, mgr *prefs.Manager, systemDark bool) RenderOptions {
	return RenderOptions{
		Theme:        mgr.ResolveTheme(ctx, systemDark),
		HeartbeatBar: mgr.HeartbeatBarTheme(ctx),
		ElapsedStyle: mgr.ElapsedTimeStyle(ctx),
	}
}

// runWatch 持有镜像直到 ctx 结束，退出时总是断开
func runWatch(ctx context.Context, cfg *Config, mgr *prefs.Manager, log logger.ILogger, out io.Writer) error {
	m, _ := livemirror.New(cfg.URL, &cfg.Client, log, mirror.WithHistoryLimit(cfg.HistoryLimit))
	opts := renderOptions(ctx, mgr, cfg.Prefs.SystemDark)

	updates := make(chan struct{}, 1)
	unsubscribe := m.Subscribe(func(mirror.StateEvent) {
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	release := m.Acquire()
	defer release()
	log.InfoKV("开始镜像", "url", cfg.URL)

	for {
		select {
		case <-ctx.Done():
			log.InfoKV("停止镜像", "url", cfg.URL)
			return nil
		case <-updates:
			fmt.Fprint(out, clearScreen+RenderSnapshot(m.Snapshot(), opts)+"\n")
		}
	}
}
