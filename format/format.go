/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-17 15:02:19
 * @FilePath: \go-livemirror\format\format.go
 * @Description: 展示用格式化工具 - 相对时间、耗时、日期、监控页地址
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package format

import (
	"fmt"
	"time"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

// DateLayout Date 使用的本地时间格式
const DateLayout = "2006-01-02 15:04:05"

// RelativeTime 相对 now 的简短描述，t 为零值时返回空串
// 未来时间按 "just now" 处理
func RelativeTime(now, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < day:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	case diff < week:
		return fmt.Sprintf("%dd ago", int(diff/day))
	case diff < month:
		return fmt.Sprintf("%dw ago", int(diff/week))
	case diff < year:
		return fmt.Sprintf("%dmo ago", int(diff/month))
	default:
		return fmt.Sprintf("%dy ago", int(diff/year))
	}
}

// Duration 耗时的简短描述，精度到秒
func Duration(d time.Duration) string {
	if d == 0 {
		return "0ms"
	}
	seconds := int64(d / time.Second)
	minutes := seconds / 60
	hours := minutes / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes%60)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds%60)
	}
	return fmt.Sprintf("%ds", seconds)
}

// Date 本地时区的日期时间，零值返回空串
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(DateLayout)
}

// ParseTime 解析心跳中的服务端时间，兼容 RFC3339 与 "2006-01-02 15:04:05.000"（按 UTC）
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.000", DateLayout} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MonitorRelativeURL 监控详情页相对地址
func MonitorRelativeURL(id int64) string {
	return fmt.Sprintf("/monitor/%d", id)
}
