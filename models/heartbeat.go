/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-16 09:12:30
 * @FilePath: \go-livemirror\models\heartbeat.go
 * @Description: 心跳采样与聚合统计模型
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// HeartbeatSample 某个监控项在某一时刻的状态观测
type HeartbeatSample struct {
	MonitorID int64           `json:"monitorID"`          // 所属监控项
	Status    HeartbeatStatus `json:"status"`             // 状态码
	Time      string          `json:"time"`               // 服务端时间戳（原样保存）
	Msg       string          `json:"msg,omitempty"`      // 描述信息
	Ping      *float64        `json:"ping,omitempty"`     // 响应耗时（毫秒），可能缺失
	Important bool            `json:"important"`          // 是否为状态切换点
	Duration  int64           `json:"duration,omitempty"` // 距上次心跳的秒数
}

// 心跳采样的线上键名
const (
	HeartbeatFieldMonitorID = "monitorID"
	HeartbeatFieldStatus    = "status"
	HeartbeatFieldTime      = "time"
	HeartbeatFieldMsg       = "msg"
	HeartbeatFieldPing      = "ping"
	HeartbeatFieldImportant = "important"
	HeartbeatFieldDuration  = "duration"
)

// UnmarshalJSON 宽松解码：数字、数字字符串、0/1 标志互通
// 只有载荷不是对象或监控ID无法解析时返回错误，其余字段解码失败时保留零值，状态码记为未知
func (s *HeartbeatSample) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return errorx.NewError(ErrTypeInvalidPayload, "heartbeat "+string(data))
	}

	*s = HeartbeatSample{}
	if raw, ok := fields[HeartbeatFieldMonitorID]; ok && !isNull(raw) {
		id, err := ParseMonitorID(raw)
		if err != nil {
			return err
		}
		s.MonitorID = id
	}
	if raw, ok := fields[HeartbeatFieldStatus]; ok && !isNull(raw) {
		n, err := decodeInt(raw)
		s.Status = HeartbeatStatus(n)
		if err != nil {
			s.Status = HeartbeatStatusUnknown
		}
	}
	s.Time = decodeText(fields[HeartbeatFieldTime])
	s.Msg = decodeText(fields[HeartbeatFieldMsg])
	if raw, ok := fields[HeartbeatFieldPing]; ok && !isNull(raw) {
		if ping, err := decodeFloat(raw); err == nil {
			s.Ping = &ping
		}
	}
	if raw, ok := fields[HeartbeatFieldImportant]; ok {
		var important bool
		if decodeFlag(raw, &important) == nil {
			s.Important = important
		}
	}
	if raw, ok := fields[HeartbeatFieldDuration]; ok && !isNull(raw) {
		if d, err := decodeInt(raw); err == nil {
			s.Duration = d
		}
	}
	return nil
}

// decodeNumber 数字或数字字符串
func decodeNumber(raw json.RawMessage) (string, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return "", err
	}
	return strings.TrimSpace(str), nil
}

func decodeInt(raw json.RawMessage) (int64, error) {
	text, err := decodeNumber(raw)
	if err != nil {
		return 0, err
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func decodeFloat(raw json.RawMessage) (float64, error) {
	text, err := decodeNumber(raw)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(text, 64)
}

// decodeText 字符串原样返回，数字等标量取其字面量，null 与对象返回空串
func decodeText(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	if text := strings.TrimSpace(string(raw)); text != "" && text[0] != '{' && text[0] != '[' {
		return text
	}
	return ""
}

// AggregateStats 基于监控集合与最新心跳的派生计数
type AggregateStats struct {
	Up      int `json:"up"`
	Down    int `json:"down"`
	Pending int `json:"pending"`
	Active  int `json:"active"`
	Pause   int `json:"pause"`
}

// Total 监控项总数（启用+暂停）
func (s AggregateStats) Total() int {
	return s.Active + s.Pause
}

// Unknown 启用中但尚无可分类心跳的数量，仅用于展示
func (s AggregateStats) Unknown() int {
	n := s.Total() - s.Up - s.Down - s.Pending
	if n < 0 {
		return 0
	}
	return n
}
