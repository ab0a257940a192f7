/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-14 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-24 10:31:07
 * @FilePath: \go-livemirror\server\handlers.go
 * @Description: 内置事件处理 - 客户目录与监控列表
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package server

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/kamalyes/go-livemirror/models"
	"github.com/kamalyes/go-livemirror/protocol"
	"github.com/kamalyes/go-livemirror/repository"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

type contextKey string

const contextKeyConn contextKey = "livemirror.conn"

// ConnFromContext 获取处理函数所属的连接
func ConnFromContext(ctx context.Context) (*Conn, bool) {
	c, ok := ctx.Value(contextKeyConn).(*Conn)
	return c, ok
}

// checkLogin 连接未携带用户时拒绝请求
func checkLogin(c *Conn) error {
	if c == nil || c.userID == "" {
		return models.ErrNotLoggedIn
	}
	return nil
}

// ClientsResult getClients 应答
type ClientsResult struct {
	OK      bool                   `json:"ok"`
	Clients []models.ClientSummary `json:"clients"`
}

// LocationsResult getLocations 应答
type LocationsResult struct {
	OK        bool                     `json:"ok"`
	Locations []models.LocationSummary `json:"locations"`
}

// RegisterDirectory 注册 getClients / getLocations
func (s *Server) RegisterDirectory(repo repository.DirectoryRepository) {
	s.Handle(protocol.EventGetClients, func(ctx context.Context, c *Conn, _ []json.RawMessage) (any, error) {
		if err := checkLogin(c); err != nil {
			return nil, err
		}
		if repo == nil {
			return nil, models.ErrRepositoryNotSet
		}
		list, err := repo.ListClients(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]models.ClientSummary, 0, len(list))
		for _, cl := range list {
			out = append(out, cl.Summary())
		}
		return ClientsResult{OK: true, Clients: out}, nil
	})

	s.Handle(protocol.EventGetLocations, func(ctx context.Context, c *Conn, _ []json.RawMessage) (any, error) {
		if err := checkLogin(c); err != nil {
			return nil, err
		}
		if repo == nil {
			return nil, models.ErrRepositoryNotSet
		}
		list, err := repo.ListLocations(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]models.LocationSummary, 0, len(list))
		for _, loc := range list {
			out = append(out, loc.Summary())
		}
		return LocationsResult{OK: true, Locations: out}, nil
	})
}

// MonitorSource 监控列表数据源
type MonitorSource interface {
	MonitorList(ctx context.Context) (map[int64]*models.Monitor, error)
}

// RegisterMonitorSource 注册 getMonitorList：先向请求方推送 monitorList，再应答 {"ok":true}
func (s *Server) RegisterMonitorSource(src MonitorSource) {
	s.Handle(protocol.EventGetMonitorList, func(ctx context.Context, c *Conn, _ []json.RawMessage) (any, error) {
		list, err := src.MonitorList(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.Emit(protocol.EventMonitorList, list); err != nil {
			return nil, err
		}
		return protocol.AckResult{OK: true}, nil
	})
}

// StaticMonitorSource 内存监控列表，变更时可通过 Server.Broadcast 推送增量
type StaticMonitorSource struct {
	mu       sync.RWMutex
	monitors map[int64]*models.Monitor
}

// NewStaticMonitorSource 创建内存监控列表
func NewStaticMonitorSource(monitors ...*models.Monitor) *StaticMonitorSource {
	src := &StaticMonitorSource{monitors: make(map[int64]*models.Monitor, len(monitors))}
	for _, m := range monitors {
		src.monitors[m.ID] = m.Clone()
	}
	return src
}

// MonitorList 返回副本
func (s *StaticMonitorSource) MonitorList(context.Context) (map[int64]*models.Monitor, error) {
	return syncx.WithRLockReturnValue(&s.mu, func() map[int64]*models.Monitor {
		out := make(map[int64]*models.Monitor, len(s.monitors))
		for id, m := range s.monitors {
			out[id] = m.Clone()
		}
		return out
	}), nil
}

// Put 新增或替换监控项
func (s *StaticMonitorSource) Put(m *models.Monitor) {
	syncx.WithLock(&s.mu, func() {
		s.monitors[m.ID] = m.Clone()
	})
}

// Delete 删除监控项
func (s *StaticMonitorSource) Delete(id int64) {
	syncx.WithLock(&s.mu, func() {
		delete(s.monitors, id)
	})
}
