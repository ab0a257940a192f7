/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-20 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-26 17:21:50
 * @FilePath: \go-livemirror\internal\cli\serve.go
 * @Description: serve 子命令 - 提供事件端点、客户目录与静态监控列表
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/kamalyes/go-livemirror/repository"
	"github.com/kamalyes/go-livemirror/server"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/spf13/cobra"
)

// SocketPath 事件端点路径
const SocketPath = "/socket"

const shutdownTimeout = 5 * time.Second

var errInvalidToken = errors.New("invalid token")

func newServeCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the event endpoint with a static monitor list",
		Long: `Serve getMonitorList, getClients and getLocations over WebSocket.

The client directory comes from MySQL when --dsn is set, otherwise from
the serve.clients and serve.locations entries of the config file.

Examples:
  livemirror serve --addr :3001
  livemirror serve --dsn "user:pass@tcp(127.0.0.1:3306)/uptime?parseTime=true"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := st.bind(cmd, map[string]string{"serve.addr": "addr", "serve.dsn": "dsn"}); err != nil {
				return err
			}
			cfg, err := st.config()
			if err != nil {
				return err
			}
			log := cfg.newLogger()
			ln, err := net.Listen("tcp", cfg.Serve.Addr)
			if err != nil {
				return errorx.WrapError("监听地址失败", err)
			}
			return runServe(cmd.Context(), &cfg.Serve, cfg.endpointOptions(), log, ln)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default :3001)")
	cmd.Flags().String("dsn", "", "MySQL DSN for the client directory")
	return cmd
}

// tokenAuthenticator 从 ?token= 或 Authorization: Bearer 识别用户
// 不携带 token 的连接为匿名，携带未知 token 拒绝升级
func tokenAuthenticator(users map[string]string) server.Authenticator {
	return func(r *http.Request) (string, error) {
		token := r.URL.Query().Get("token")
		if token == "" {
			token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if token == "" {
			return "", nil
		}
		user, ok := users[token]
		if !ok {
			return "", errInvalidToken
		}
		return user, nil
	}
}

// openDirectory DSN 为空时使用配置中的静态目录
func openDirectory(cfg *ServeConfig, log logger.ILogger) (repository.DirectoryRepository, func(), error) {
	if cfg.DSN == "" {
		clients, locations := cfg.directory()
		return repository.NewStaticDirectory(clients, locations), func() {}, nil
	}
	db, err := repository.OpenMySQL(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return repository.NewDirectoryRepository(db, log), closer, nil
}

// newEndpoint 组装事件端点
func newEndpoint(cfg *ServeConfig, opts server.Options, log logger.ILogger, dir repository.DirectoryRepository) (*server.Server, *server.StaticMonitorSource) {
	srv := server.New(opts).SetLogger(log)
	if len(cfg.Users) > 0 {
		srv.SetAuthenticator(tokenAuthenticator(cfg.Users))
	}
	source := server.NewStaticMonitorSource(cfg.monitors()...)
	srv.RegisterMonitorSource(source)
	srv.RegisterDirectory(dir)
	return srv, source
}

// runServe 在 ln 上提供服务直到 ctx 结束
func runServe(ctx context.Context, cfg *ServeConfig, opts server.Options, log logger.ILogger, ln net.Listener) error {
	dir, closeDir, err := openDirectory(cfg, log)
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer closeDir()

	endpoint, _ := newEndpoint(cfg, opts, log, dir)
	mux := http.NewServeMux()
	mux.Handle(SocketPath, endpoint)
	httpServer := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()
	log.InfoKV("事件端点已启动", "addr", ln.Addr().String(), "path", SocketPath)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return errorx.WrapError("事件端点异常退出", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := endpoint.Shutdown(shutdownCtx); err != nil {
		log.WarnKV("关闭连接超时", "error", err)
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errorx.WrapError("关闭事件端点失败", err)
	}
	log.InfoKV("事件端点已关闭")
	return nil
}
