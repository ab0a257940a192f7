/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-10 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-17 15:02:19
 * @FilePath: \go-livemirror\format\format_test.go
 * @Description: 格式化工具测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"刚刚", 30 * time.Second, "just now"},
		{"未来", -time.Hour, "just now"},
		{"分钟", 5 * time.Minute, "5m ago"},
		{"小时", 3*time.Hour + 59*time.Minute, "3h ago"},
		{"天", 2 * day, "2d ago"},
		{"周", 15 * day, "2w ago"},
		{"月", 65 * day, "2mo ago"},
		{"年", 800 * day, "2y ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(now, now.Add(-tt.ago)))
		})
	}
	assert.Equal(t, "", RelativeTime(now, time.Time{}))
}

func TestDuration(t *testing.T) {
	assert.Equal(t, "0ms", Duration(0))
	assert.Equal(t, "0s", Duration(500*time.Millisecond))
	assert.Equal(t, "42s", Duration(42*time.Second))
	assert.Equal(t, "2m 5s", Duration(125*time.Second))
	assert.Equal(t, "1h 1m", Duration(time.Hour+time.Minute+30*time.Second))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "", Date(time.Time{}))
	tm := time.Date(2026, 3, 10, 8, 30, 0, 0, time.Local)
	assert.Equal(t, "2026-03-10 08:30:00", Date(tm))
}

func TestParseTime(t *testing.T) {
	tm, ok := ParseTime("2026-03-10 08:30:15.250")
	require.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, time.Duration(tm.Nanosecond()))

	_, ok = ParseTime("2026-03-10T08:30:15Z")
	assert.True(t, ok)

	_, ok = ParseTime("yesterday")
	assert.False(t, ok)
}

func TestMonitorRelativeURL(t *testing.T) {
	assert.Equal(t, "/monitor/17", MonitorRelativeURL(17))
}
