/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-06 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-18 16:20:11
 * @FilePath: \go-livemirror\mirror\observer.go
 * @Description: 状态变更观察者
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package mirror

import (
	"github.com/kamalyes/go-livemirror/models"
)

// StateEvent 一次已应用的状态变更
type StateEvent struct {
	Kind      models.StateEventKind // 变更类型
	Session   uint64                // 产生该变更的会话，断开事件为 0
	MonitorID int64                 // 涉及单个监控项时非零
	Stats     models.AggregateStats // 变更后的聚合统计
}

// Observer 状态变更回调，在投递消息的协程中同步调用，不应阻塞
type Observer func(StateEvent)

type observerEntry struct {
	id uint64
	fn Observer
}

// Subscribe 注册观察者，返回取消订阅函数
func (m *Mirror) Subscribe(fn Observer) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	m.observersMu.Lock()
	m.nextObserver++
	id := m.nextObserver
	m.observers = append(m.observers, observerEntry{id: id, fn: fn})
	m.observersMu.Unlock()

	return func() {
		m.observersMu.Lock()
		defer m.observersMu.Unlock()
		for i, e := range m.observers {
			if e.id == id {
				m.observers = append(m.observers[:i:i], m.observers[i+1:]...)
				return
			}
		}
	}
}

// ObserverStats 观察者统计
func (m *Mirror) ObserverStats() models.ObserverManagerStats {
	m.observersMu.RLock()
	n := len(m.observers)
	m.observersMu.RUnlock()
	return models.ObserverManagerStats{
		TotalObservers:      n,
		TotalNotifications:  m.notifications.Load(),
		FailedNotifications: m.failedNotify.Load(),
	}
}

// notify 通知所有观察者，单个观察者 panic 不影响其余观察者
func (m *Mirror) notify(ev StateEvent) {
	m.observersMu.RLock()
	observers := make([]observerEntry, len(m.observers))
	copy(observers, m.observers)
	m.observersMu.RUnlock()

	for _, e := range observers {
		m.safeCall(e.fn, ev)
	}
}

func (m *Mirror) safeCall(fn Observer, ev StateEvent) {
	m.notifications.Add(1)
	defer func() {
		if r := recover(); r != nil {
			m.failedNotify.Add(1)
			m.logger.ErrorKV("观察者回调 panic", "event", ev.Kind.String(), "panic", r)
		}
	}()
	fn(ev)
}
