/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-21 10:02:47
 * @FilePath: \go-livemirror\models\monitor.go
 * @Description: 监控项模型及字段级合并
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// 已知字段的线上键名
const (
	MonitorFieldID          = "id"
	MonitorFieldName        = "name"
	MonitorFieldType        = "type"
	MonitorFieldURL         = "url"
	MonitorFieldHostname    = "hostname"
	MonitorFieldDescription = "description"
	MonitorFieldInterval    = "interval"
	MonitorFieldActive      = "active"
	MonitorFieldParent      = "parent"
)

// MonitorPatch 增量更新载荷：字段名 -> 原始JSON值，可以是部分字段也可以是全部字段
type MonitorPatch map[string]json.RawMessage

// Monitor 监控项
// 常用展示字段为强类型，其他字段原样保存在 Attributes 中
// 编解码走 MarshalJSON/UnmarshalJSON，线上键名见 MonitorField* 常量
type Monitor struct {
	ID          int64
	Name        string
	Type        string
	URL         string
	Hostname    string
	Description string
	Interval    int
	Active      bool
	ParentID    *int64
	Attributes  map[string]json.RawMessage
}

// Merge 将补丁按字段合并到当前监控项，后出现的字段覆盖先前的值
// 单个字段解码失败不会影响其他字段，所有失败字段汇总到返回的错误中
func (m *Monitor) Merge(patch MonitorPatch) error {
	if len(patch) == 0 {
		return nil
	}

	// 排序保证相同补丁的应用结果确定
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var failed []string
	for _, key := range keys {
		if err := m.applyField(key, patch[key]); err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", key, err))
		}
	}

	if len(failed) > 0 {
		return errorx.NewError(ErrTypeInvalidPayload, fmt.Sprintf("monitor %d fields [%s]", m.ID, strings.Join(failed, "; ")))
	}
	return nil
}

// applyField 应用单个字段
func (m *Monitor) applyField(key string, raw json.RawMessage) error {
	switch key {
	case MonitorFieldID:
		id, err := ParseMonitorID(raw)
		if err != nil {
			return err
		}
		m.ID = id
		return nil
	case MonitorFieldName:
		return decodeString(raw, &m.Name)
	case MonitorFieldType:
		return decodeString(raw, &m.Type)
	case MonitorFieldURL:
		return decodeString(raw, &m.URL)
	case MonitorFieldHostname:
		return decodeString(raw, &m.Hostname)
	case MonitorFieldDescription:
		return decodeString(raw, &m.Description)
	case MonitorFieldInterval:
		if isNull(raw) {
			m.Interval = 0
			return nil
		}
		return json.Unmarshal(raw, &m.Interval)
	case MonitorFieldActive:
		return decodeFlag(raw, &m.Active)
	case MonitorFieldParent:
		if isNull(raw) {
			m.ParentID = nil
			return nil
		}
		id, err := ParseMonitorID(raw)
		if err != nil {
			return err
		}
		m.ParentID = &id
		return nil
	default:
		if m.Attributes == nil {
			m.Attributes = make(map[string]json.RawMessage)
		}
		m.Attributes[key] = append(json.RawMessage(nil), raw...)
		return nil
	}
}

// Attribute 读取扩展字段并解码到 out
func (m *Monitor) Attribute(key string, out any) (bool, error) {
	raw, ok := m.Attributes[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

// Clone 深拷贝
func (m *Monitor) Clone() *Monitor {
	if m == nil {
		return nil
	}
	cp := *m
	if m.ParentID != nil {
		parent := *m.ParentID
		cp.ParentID = &parent
	}
	if m.Attributes != nil {
		cp.Attributes = make(map[string]json.RawMessage, len(m.Attributes))
		for k, v := range m.Attributes {
			cp.Attributes[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &cp
}

// UnmarshalJSON 以合并到零值的方式解码完整监控项
func (m *Monitor) UnmarshalJSON(data []byte) error {
	var patch MonitorPatch
	if err := json.Unmarshal(data, &patch); err != nil {
		return err
	}
	*m = Monitor{}
	return m.Merge(patch)
}

// MarshalJSON 强类型字段与扩展字段平铺为一个对象
func (m Monitor) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Attributes)+9)
	for k, v := range m.Attributes {
		out[k] = v
	}
	out[MonitorFieldID] = m.ID
	out[MonitorFieldName] = m.Name
	out[MonitorFieldType] = m.Type
	out[MonitorFieldURL] = m.URL
	out[MonitorFieldHostname] = m.Hostname
	out[MonitorFieldDescription] = m.Description
	out[MonitorFieldInterval] = m.Interval
	out[MonitorFieldActive] = m.Active
	out[MonitorFieldParent] = m.ParentID
	return json.Marshal(out)
}

// ParseMonitorID 解析监控ID，兼容数字与数字字符串两种编码
func ParseMonitorID(raw json.RawMessage) (int64, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.ParseInt(n.String(), 10, 64)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, errorx.NewError(ErrTypeInvalidPayload, "monitor id "+string(raw))
	}
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func decodeString(raw json.RawMessage, dst *string) error {
	if isNull(raw) {
		*dst = ""
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// decodeFlag 兼容 true/false 与 0/1 两种编码（数据库里 active 是整数）
func decodeFlag(raw json.RawMessage, dst *bool) error {
	if isNull(raw) {
		*dst = false
		return nil
	}
	if err := json.Unmarshal(raw, dst); err == nil {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return err
	}
	*dst = n != 0
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
