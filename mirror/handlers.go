/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-06 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-23 19:40:02
 * @FilePath: \go-livemirror\mirror\handlers.go
 * @Description: 入站推送事件处理 - 全量、增量、删除、最新心跳、心跳采样、心跳历史
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package mirror

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/kamalyes/go-livemirror/models"
	"github.com/kamalyes/go-livemirror/protocol"
)

// apply 在会话有效时执行变更，必要时重算统计，解锁后通知观察者
// 返回 false 表示消息来自失效会话并已丢弃
func (m *Mirror) apply(session uint64, kind models.StateEventKind, monitorID int64, mutate func()) bool {
	m.mu.Lock()
	if session == 0 || session != m.session {
		current := m.session
		m.mu.Unlock()
		m.logger.DebugKV("丢弃失效会话的消息", "event", kind.String(), "session", session, "current", current)
		return false
	}
	mutate()
	if kind.AffectsStats() {
		m.stats = ComputeStats(m.monitors, m.lastHeartbeats)
	}
	stats := m.stats
	m.mu.Unlock()

	m.notify(StateEvent{Kind: kind, Session: session, MonitorID: monitorID, Stats: stats})
	return true
}

// handleMonitorList 全量同步：整体替换监控集合
func (m *Mirror) handleMonitorList(session uint64, args []json.RawMessage) {
	var raw map[string]json.RawMessage
	if _, err := protocol.DecodeArg(args, 0, &raw); err != nil {
		m.logger.WarnKV("全量监控列表解码失败", "error", err)
		return
	}

	next := make(map[int64]*models.Monitor, len(raw))
	for key, body := range raw {
		monitor := &models.Monitor{}
		if err := json.Unmarshal(body, monitor); err != nil {
			// 部分字段失败仍保留其余字段
			m.logger.WarnKV("监控项字段解码失败", "key", key, "error", err)
		}
		id, ok := monitorKey(key, monitor.ID)
		if !ok {
			m.logger.WarnKV("忽略无法识别ID的监控项", "key", key)
			continue
		}
		if monitor.ID == 0 {
			monitor.ID = id
		}
		next[id] = monitor
	}

	if m.apply(session, models.StateEventMonitorList, 0, func() { m.monitors = next }) {
		m.logger.DebugKV("全量监控列表已应用", "count", len(next))
	}
}

// handleUpdateMonitorIntoList 增量更新：逐字段合并，不存在则创建
func (m *Mirror) handleUpdateMonitorIntoList(session uint64, args []json.RawMessage) {
	var raw map[string]models.MonitorPatch
	if _, err := protocol.DecodeArg(args, 0, &raw); err != nil {
		m.logger.WarnKV("增量监控更新解码失败", "error", err)
		return
	}

	patches := make(map[int64]models.MonitorPatch, len(raw))
	for key, patch := range raw {
		var bodyID int64
		if idRaw, ok := patch[models.MonitorFieldID]; ok {
			bodyID, _ = models.ParseMonitorID(idRaw)
		}
		id, ok := monitorKey(key, bodyID)
		if !ok {
			m.logger.WarnKV("忽略无法识别ID的增量更新", "key", key)
			continue
		}
		patches[id] = patch
	}

	var monitorID int64
	if len(patches) == 1 {
		for id := range patches {
			monitorID = id
		}
	}

	m.apply(session, models.StateEventMonitorUpdated, monitorID, func() {
		for id, patch := range patches {
			monitor, ok := m.monitors[id]
			if !ok {
				monitor = &models.Monitor{ID: id}
			} else {
				// 快照持有旧对象，合并在副本上进行
				monitor = monitor.Clone()
			}
			if err := monitor.Merge(patch); err != nil {
				m.logger.WarnKV("增量更新部分字段失败", "monitor_id", id, "error", err)
			}
			if monitor.ID == 0 {
				monitor.ID = id
			}
			m.monitors[id] = monitor
		}
	})
}

// handleDeleteMonitorFromList 删除监控项，不存在时为空操作
func (m *Mirror) handleDeleteMonitorFromList(session uint64, args []json.RawMessage) {
	if len(args) == 0 {
		m.logger.WarnKV("删除消息缺少监控ID")
		return
	}
	id, err := models.ParseMonitorID(args[0])
	if err != nil {
		m.logger.WarnKV("删除消息监控ID无效", "error", err)
		return
	}

	m.apply(session, models.StateEventMonitorDeleted, id, func() {
		delete(m.monitors, id)
	})
}

// handleLastHeartbeat 覆盖该监控项的最新心跳
func (m *Mirror) handleLastHeartbeat(session uint64, args []json.RawMessage) {
	sample, ok := m.decodeSample(protocol.EventLastHeartbeat, args, 0)
	if !ok {
		return
	}

	m.apply(session, models.StateEventLastHeartbeat, sample.MonitorID, func() {
		m.lastHeartbeats[sample.MonitorID] = sample
	})
}

// handleHeartbeat 追加心跳采样，超过上限时丢弃最旧的一条
func (m *Mirror) handleHeartbeat(session uint64, args []json.RawMessage) {
	sample, ok := m.decodeSample(protocol.EventHeartbeat, args, 0)
	if !ok {
		return
	}

	m.apply(session, models.StateEventHeartbeat, sample.MonitorID, func() {
		m.history[sample.MonitorID] = appendCapped(m.history[sample.MonitorID], sample, m.historyLimit)
	})
}

// handleHeartbeatList 心跳历史：覆盖或无历史时直接替换，否则前插到已有历史之前
// 参数依次为 (monitorID, samples, overwrite)
func (m *Mirror) handleHeartbeatList(session uint64, args []json.RawMessage) {
	if len(args) == 0 {
		m.logger.WarnKV("心跳历史缺少监控ID")
		return
	}
	id, err := models.ParseMonitorID(args[0])
	if err != nil {
		m.logger.WarnKV("心跳历史监控ID无效", "error", err)
		return
	}

	samples, ok := m.decodeHistory(id, args)
	if !ok {
		return
	}
	var overwrite bool
	if _, err := protocol.DecodeArg(args, 2, &overwrite); err != nil {
		m.logger.WarnKV("心跳历史覆盖标志无效，按不覆盖处理", "monitor_id", id, "error", err)
		overwrite = false
	}

	m.apply(session, models.StateEventHeartbeatHistory, id, func() {
		existing, ok := m.history[id]
		if overwrite || !ok {
			m.history[id] = append([]models.HeartbeatSample(nil), samples...)
			return
		}
		merged := make([]models.HeartbeatSample, 0, len(samples)+len(existing))
		merged = append(merged, samples...)
		merged = append(merged, existing...)
		m.history[id] = merged
	})
}

// decodeHistory 逐条解码心跳历史，坏条目单独丢弃，缺少监控ID的条目归入本次的监控项
func (m *Mirror) decodeHistory(id int64, args []json.RawMessage) ([]models.HeartbeatSample, bool) {
	var items []json.RawMessage
	if _, err := protocol.DecodeArg(args, 1, &items); err != nil {
		m.logger.WarnKV("心跳历史解码失败", "monitor_id", id, "error", err)
		return nil, false
	}
	samples := make([]models.HeartbeatSample, 0, len(items))
	for i, item := range items {
		var sample models.HeartbeatSample
		if err := json.Unmarshal(item, &sample); err != nil {
			m.logger.WarnKV("丢弃无效的心跳历史条目", "monitor_id", id, "index", i, "error", err)
			continue
		}
		if sample.MonitorID == 0 {
			sample.MonitorID = id
		}
		samples = append(samples, sample)
	}
	if dropped := len(items) - len(samples); dropped > 0 {
		m.logger.WarnKV("心跳历史部分条目被丢弃", "monitor_id", id, "dropped", dropped, "kept", len(samples))
	}
	return samples, true
}

// decodeSample 解码心跳采样，缺少监控ID的采样被丢弃
func (m *Mirror) decodeSample(event string, args []json.RawMessage, i int) (models.HeartbeatSample, bool) {
	var sample models.HeartbeatSample
	found, err := protocol.DecodeArg(args, i, &sample)
	if err != nil || !found {
		m.logger.WarnKV("心跳采样解码失败", "event", event, "error", err)
		return sample, false
	}
	if sample.MonitorID == 0 {
		m.logger.WarnKV("心跳采样缺少监控ID", "event", event)
		return sample, false
	}
	return sample, true
}

// appendCapped 追加后保持长度不超过 limit，始终分配新切片以免影响已发出的快照
func appendCapped(history []models.HeartbeatSample, sample models.HeartbeatSample, limit int) []models.HeartbeatSample {
	n := len(history) + 1
	drop := 0
	if n > limit {
		drop = n - limit
	}
	out := make([]models.HeartbeatSample, 0, n-drop)
	out = append(out, history[drop:]...)
	return append(out, sample)
}

// monitorKey 优先使用映射键作为监控ID，键无法解析时退回载荷中的ID
func monitorKey(key string, fallback int64) (int64, bool) {
	if id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64); err == nil {
		return id, true
	}
	return fallback, fallback != 0
}
