/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-19 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-26 15:30:44
 * @FilePath: \go-livemirror\internal\cli\render.go
 * @Description: 终端渲染 - 汇总统计、监控列表与心跳条
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/kamalyes/go-livemirror/format"
	"github.com/kamalyes/go-livemirror/mirror"
	"github.com/kamalyes/go-livemirror/models"
	"github.com/kamalyes/go-livemirror/prefs"
)

// 状态配色（ANSI 色号）
const (
	ColorUp      lipgloss.Color = "2"
	ColorDown    lipgloss.Color = "1"
	ColorPending lipgloss.Color = "3"
	ColorPause   lipgloss.Color = "8"
)

// barWidth 心跳条显示的最近采样数
const barWidth = 30

// RenderOptions 渲染偏好
type RenderOptions struct {
	Theme        prefs.Theme // 已解析的 light / dark
	HeartbeatBar prefs.HeartbeatBarTheme
	ElapsedStyle prefs.ElapsedTimeStyle
	Now          time.Time
}

// Palette 随主题变化的配色
type Palette struct {
	Title lipgloss.Style
	Label lipgloss.Style
	Muted lipgloss.Style
}

// NewPalette 按主题创建配色
func NewPalette(theme prefs.Theme) Palette {
	fg := lipgloss.Color("0")
	if theme == prefs.ThemeDark {
		fg = lipgloss.Color("15")
	}
	return Palette{
		Title: lipgloss.NewStyle().Bold(true).Foreground(fg),
		Label: lipgloss.NewStyle().Foreground(fg),
		Muted: lipgloss.NewStyle().Foreground(ColorPause),
	}
}

// statusStyle 心跳状态对应的样式
func statusStyle(status models.HeartbeatStatus) lipgloss.Style {
	switch status {
	case models.HeartbeatStatusUp:
		return lipgloss.NewStyle().Foreground(ColorUp)
	case models.HeartbeatStatusDown:
		return lipgloss.NewStyle().Foreground(ColorDown)
	case models.HeartbeatStatusPending:
		return lipgloss.NewStyle().Foreground(ColorPending)
	default:
		return lipgloss.NewStyle().Foreground(ColorPause)
	}
}

// RenderStats 汇总行
func RenderStats(stats models.AggregateStats, p Palette) string {
	parts := []string{
		statusStyle(models.HeartbeatStatusUp).Render(fmt.Sprintf("up %d", stats.Up)),
		statusStyle(models.HeartbeatStatusDown).Render(fmt.Sprintf("down %d", stats.Down)),
		statusStyle(models.HeartbeatStatusPending).Render(fmt.Sprintf("pending %d", stats.Pending)),
		p.Muted.Render(fmt.Sprintf("unknown %d", stats.Unknown())),
		p.Muted.Render(fmt.Sprintf("pause %d", stats.Pause)),
	}
	return p.Title.Render("Monitors") + "  " + strings.Join(parts, "  ")
}

// RenderBar 最近若干次心跳的状态条
func RenderBar(history []models.HeartbeatSample, width int) string {
	if len(history) > width {
		history = history[len(history)-width:]
	}
	var b strings.Builder
	for i := 0; i < width-len(history); i++ {
		b.WriteString(lipgloss.NewStyle().Foreground(ColorPause).Render("·"))
	}
	for _, s := range history {
		b.WriteString(statusStyle(s.Status).Render("█"))
	}
	return b.String()
}

// RenderSnapshot 渲染完整画面
func RenderSnapshot(snap *mirror.Snapshot, opts RenderOptions) string {
	p := NewPalette(opts.Theme)
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	lines := []string{RenderStats(snap.Stats, p)}
	var bars []string
	for _, m := range snap.SortedMonitors() {
		beat, hasBeat := snap.LastHeartbeats[m.ID]
		marker := p.Muted.Render("○")
		if hasBeat && m.Active {
			marker = statusStyle(beat.Status).Render("●")
		}

		line := fmt.Sprintf("%s %s %s", marker, p.Label.Render(m.Name), p.Muted.Render(format.MonitorRelativeURL(m.ID)))
		if !m.Active {
			line += " " + p.Muted.Render("(paused)")
		}
		if hasBeat && opts.ElapsedStyle != prefs.ElapsedTimeNone {
			if t, ok := format.ParseTime(beat.Time); ok {
				sep := " "
				if opts.ElapsedStyle == prefs.ElapsedTimeWithLine {
					sep = " │ "
				}
				line += sep + p.Muted.Render(format.RelativeTime(now, t))
			}
		}

		switch opts.HeartbeatBar {
		case prefs.HeartbeatBarNone:
		case prefs.HeartbeatBarBottom:
			bars = append(bars, fmt.Sprintf("%-16s %s", m.Name, RenderBar(snap.History[m.ID], barWidth)))
		default:
			line += "  " + RenderBar(snap.History[m.ID], barWidth)
		}
		lines = append(lines, line)
	}
	if len(bars) > 0 {
		lines = append(lines, "")
		lines = append(lines, bars...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
