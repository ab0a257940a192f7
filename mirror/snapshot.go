/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-06 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-18 16:20:11
 * @FilePath: \go-livemirror\mirror\snapshot.go
 * @Description: 只读快照访问，返回的数据均为副本
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package mirror

import (
	"sort"

	"github.com/kamalyes/go-livemirror/models"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// Snapshot 某一时刻的完整镜像数据
type Snapshot struct {
	Monitors       map[int64]*models.Monitor
	LastHeartbeats map[int64]models.HeartbeatSample
	History        map[int64][]models.HeartbeatSample
	Stats          models.AggregateStats
	Session        uint64
}

// SortedMonitors 按ID升序返回监控项
func (s *Snapshot) SortedMonitors() []*models.Monitor {
	out := make([]*models.Monitor, 0, len(s.Monitors))
	for _, m := range s.Monitors {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Snapshot 复制当前全部数据
func (m *Mirror) Snapshot() *Snapshot {
	return syncx.WithRLockReturnValue(&m.mu, func() *Snapshot {
		s := &Snapshot{
			Monitors:       make(map[int64]*models.Monitor, len(m.monitors)),
			LastHeartbeats: make(map[int64]models.HeartbeatSample, len(m.lastHeartbeats)),
			History:        make(map[int64][]models.HeartbeatSample, len(m.history)),
			Stats:          m.stats,
			Session:        m.session,
		}
		for id, monitor := range m.monitors {
			s.Monitors[id] = monitor.Clone()
		}
		for id, beat := range m.lastHeartbeats {
			s.LastHeartbeats[id] = beat
		}
		for id, h := range m.history {
			s.History[id] = append([]models.HeartbeatSample(nil), h...)
		}
		return s
	})
}

// Stats 当前聚合统计
func (m *Mirror) Stats() models.AggregateStats {
	return syncx.WithRLockReturnValue(&m.mu, func() models.AggregateStats {
		return m.stats
	})
}

// Monitor 按ID读取监控项副本
func (m *Mirror) Monitor(id int64) (*models.Monitor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	monitor, ok := m.monitors[id]
	return monitor.Clone(), ok
}

// Monitors 全部监控项副本
func (m *Mirror) Monitors() map[int64]*models.Monitor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[int64]*models.Monitor, len(m.monitors))
	for id, monitor := range m.monitors {
		out[id] = monitor.Clone()
	}
	return out
}

// MonitorCount 监控项数量
func (m *Mirror) MonitorCount() int {
	return syncx.WithRLockReturnValue(&m.mu, func() int {
		return len(m.monitors)
	})
}

// LastHeartbeat 某监控项的最新心跳
func (m *Mirror) LastHeartbeat(id int64) (models.HeartbeatSample, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	beat, ok := m.lastHeartbeats[id]
	return beat, ok
}

// LastHeartbeats 全部最新心跳副本
func (m *Mirror) LastHeartbeats() map[int64]models.HeartbeatSample {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[int64]models.HeartbeatSample, len(m.lastHeartbeats))
	for id, beat := range m.lastHeartbeats {
		out[id] = beat
	}
	return out
}

// History 某监控项的心跳历史，按时间从旧到新
func (m *Mirror) History(id int64) []models.HeartbeatSample {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.history[id]
	if !ok {
		return nil
	}
	return append([]models.HeartbeatSample(nil), h...)
}
