/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-06 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-18 16:05:41
 * @FilePath: \go-livemirror\mirror\stats.go
 * @Description: 聚合统计计算
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package mirror

import (
	"github.com/kamalyes/go-livemirror/models"
)

// ComputeStats 从监控集合与最新心跳重新计算聚合统计
// 启用/暂停按 active 标志计数；有最新心跳的再按状态码归入 up/down/pending，未知状态码不计入
func ComputeStats(monitors map[int64]*models.Monitor, lastHeartbeats map[int64]models.HeartbeatSample) models.AggregateStats {
	var stats models.AggregateStats
	for id, monitor := range monitors {
		if monitor == nil {
			continue
		}
		if monitor.Active {
			stats.Active++
		} else {
			stats.Pause++
		}

		beat, ok := lastHeartbeats[id]
		if !ok {
			continue
		}
		switch beat.Status {
		case models.HeartbeatStatusUp:
			stats.Up++
		case models.HeartbeatStatusDown:
			stats.Down++
		case models.HeartbeatStatusPending:
			stats.Pending++
		}
	}
	return stats
}

// RecomputeStats 按当前数据重新计算并保存聚合统计
func (m *Mirror) RecomputeStats() models.AggregateStats {
	m.mu.Lock()
	m.stats = ComputeStats(m.monitors, m.lastHeartbeats)
	stats := m.stats
	m.mu.Unlock()
	return stats
}
