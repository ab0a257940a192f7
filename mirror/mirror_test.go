/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-07 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-23 20:12:40
 * @FilePath: \go-livemirror\mirror\mirror_test.go
 * @Description: 镜像状态同步测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kamalyes/go-livemirror/models"
	"github.com/kamalyes/go-livemirror/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emitted 记录一次出站请求
type emitted struct {
	event string
	ack   protocol.AckFunc
	args  []any
}

// fakeChannel 内存事件通道，Connect 同步完成并分配新会话
type fakeChannel struct {
	mu          sync.Mutex
	handlers    map[string]protocol.EventHandler
	onConnected func(uint64)
	onStopped   func(error)
	connected   bool
	session     uint64
	connects    int
	closes      int
	emits       []emitted
	emitErr     error
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{handlers: make(map[string]protocol.EventHandler)}
}

func (c *fakeChannel) Connect() {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return
	}
	c.connected = true
	c.connects++
	c.session++
	session := c.session
	cb := c.onConnected
	c.mu.Unlock()
	if cb != nil {
		cb(session)
	}
}

func (c *fakeChannel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	c.closes++
}

func (c *fakeChannel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.connected
}

func (c *fakeChannel) Emit(event string, ack protocol.AckFunc, args ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return models.ErrConnectionClosed
	}
	if c.emitErr != nil {
		return c.emitErr
	}
	c.emits = append(c.emits, emitted{event: event, ack: ack, args: args})
	return nil
}

func (c *fakeChannel) On(event string, handler protocol.EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = handler
}

func (c *fakeChannel) OnConnected(f func(uint64)) { c.onConnected = f }
func (c *fakeChannel) OnStopped(f func(error))    { c.onStopped = f }

// stop 模拟通道自行停止（重试耗尽）
func (c *fakeChannel) stop(err error) {
	c.mu.Lock()
	c.connected = false
	cb := c.onStopped
	c.mu.Unlock()
	cb(err)
}

func (c *fakeChannel) currentSession() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *fakeChannel) counts() (connects, closes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connects, c.closes
}

func (c *fakeChannel) emitCount(event string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.emits {
		if e.event == event {
			n++
		}
	}
	return n
}

func (c *fakeChannel) lastEmit() emitted {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.emits[len(c.emits)-1]
}

// deliver 以指定会话投递一条推送
func (c *fakeChannel) deliver(t *testing.T, session uint64, event string, args ...any) {
	t.Helper()
	raw := make([]json.RawMessage, 0, len(args))
	for _, a := range args {
		if r, ok := a.(string); ok && json.Valid([]byte(r)) {
			raw = append(raw, json.RawMessage(r))
			continue
		}
		data, err := json.Marshal(a)
		require.NoError(t, err)
		raw = append(raw, data)
	}
	c.mu.Lock()
	h := c.handlers[event]
	c.mu.Unlock()
	require.NotNil(t, h, "handler for %s", event)
	h(session, raw)
}

// connectedMirror 返回已建立会话的镜像
func connectedMirror(t *testing.T, opts ...Option) (*Mirror, *fakeChannel) {
	t.Helper()
	ch := newFakeChannel()
	m := New(ch, opts...)
	m.Connect()
	require.Eventually(t, m.Connected, time.Second, 5*time.Millisecond)
	return m, ch
}

func sample(id int64, status models.HeartbeatStatus, tm string) models.HeartbeatSample {
	return models.HeartbeatSample{MonitorID: id, Status: status, Time: tm}
}

func TestMirror_ConnectRequestsFullState(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()

	assert.Equal(t, 1, ch.emitCount(protocol.EventGetMonitorList))
	assert.Equal(t, ch.currentSession(), m.Session())
}

func TestMirror_ConnectTwiceOpensOneChannel(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()

	m.Connect()
	m.Connect()
	time.Sleep(20 * time.Millisecond)

	connects, _ := ch.counts()
	assert.Equal(t, 1, connects)
	assert.Equal(t, 1, ch.emitCount(protocol.EventGetMonitorList))
}

func TestMirror_ResyncOnEveryPhysicalConnection(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()

	// 模拟自动重连：同一通道上建立新的物理连接
	ch.Close()
	ch.Connect()

	assert.Equal(t, 2, ch.emitCount(protocol.EventGetMonitorList))
	assert.Equal(t, uint64(2), m.Session())
}

func TestMirror_MonitorListReplacesWholesale(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()
	s := m.Session()

	ch.deliver(t, s, protocol.EventMonitorList, `{"1":{"id":1,"name":"a","active":true},"2":{"id":2,"name":"b","active":false}}`)
	assert.Equal(t, 2, m.MonitorCount())

	ch.deliver(t, s, protocol.EventMonitorList, `{"3":{"id":3,"name":"c","active":1}}`)
	assert.Equal(t, 1, m.MonitorCount())
	_, ok := m.Monitor(1)
	assert.False(t, ok)
	mon, ok := m.Monitor(3)
	require.True(t, ok)
	assert.Equal(t, "c", mon.Name)
	assert.True(t, mon.Active)
	assert.Equal(t, models.AggregateStats{Active: 1}, m.Stats())
}

func TestMirror_MonitorListKeyFillsMissingID(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()

	ch.deliver(t, m.Session(), protocol.EventMonitorList, `{"7":{"name":"no-id"}}`)
	mon, ok := m.Monitor(7)
	require.True(t, ok)
	assert.Equal(t, int64(7), mon.ID)
}

func TestMirror_UpdateMergesFields(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()
	s := m.Session()

	ch.deliver(t, s, protocol.EventMonitorList, `{"1":{"id":1,"name":"web","url":"https://a","active":true,"interval":60}}`)
	ch.deliver(t, s, protocol.EventUpdateMonitorIntoList, `{"1":{"name":"web-renamed"}}`)

	mon, ok := m.Monitor(1)
	require.True(t, ok)
	assert.Equal(t, "web-renamed", mon.Name)
	assert.Equal(t, "https://a", mon.URL)
	assert.Equal(t, 60, mon.Interval)
	assert.True(t, mon.Active)
}

func TestMirror_UpdateCreatesMissingMonitor(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()

	ch.deliver(t, m.Session(), protocol.EventUpdateMonitorIntoList, `{"9":{"name":"new","active":true,"keyword":"ok"}}`)

	mon, ok := m.Monitor(9)
	require.True(t, ok)
	assert.Equal(t, int64(9), mon.ID)
	assert.Equal(t, "new", mon.Name)
	var keyword string
	found, err := mon.Attribute("keyword", &keyword)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ok", keyword)
	assert.Equal(t, models.AggregateStats{Active: 1}, m.Stats())
}

func TestMirror_UpdateDoesNotMutateSnapshot(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()
	s := m.Session()

	ch.deliver(t, s, protocol.EventMonitorList, `{"1":{"id":1,"name":"before"}}`)
	snap := m.Snapshot()
	ch.deliver(t, s, protocol.EventUpdateMonitorIntoList, `{"1":{"name":"after"}}`)

	assert.Equal(t, "before", snap.Monitors[1].Name)
	mon, _ := m.Monitor(1)
	assert.Equal(t, "after", mon.Name)
}

func TestMirror_DeleteUnknownIsNoop(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()
	s := m.Session()

	ch.deliver(t, s, protocol.EventMonitorList, `{"1":{"id":1,"active":true}}`)
	ch.deliver(t, s, protocol.EventDeleteMonitorFromList, 42)
	assert.Equal(t, 1, m.MonitorCount())

	ch.deliver(t, s, protocol.EventDeleteMonitorFromList, "1")
	assert.Equal(t, 0, m.MonitorCount())
	assert.Equal(t, models.AggregateStats{}, m.Stats())
}

func TestComputeStats_Empty(t *testing.T) {
	assert.Equal(t, models.AggregateStats{}, ComputeStats(nil, nil))
}

func TestComputeStats_Classification(t *testing.T) {
	monitors := map[int64]*models.Monitor{
		1: {ID: 1, Active: true},
		2: {ID: 2, Active: true},
		3: {ID: 3, Active: false},
	}
	beats := map[int64]models.HeartbeatSample{
		2: sample(2, models.HeartbeatStatusUp, ""),
		3: sample(3, models.HeartbeatStatusDown, ""),
	}

	stats := ComputeStats(monitors, beats)
	assert.Equal(t, models.AggregateStats{Up: 1, Down: 1, Pending: 0, Active: 2, Pause: 1}, stats)
	assert.Equal(t, 3, stats.Total())
	assert.Equal(t, 0, stats.Unknown())
}

func TestComputeStats_UnknownStatusExcluded(t *testing.T) {
	monitors := map[int64]*models.Monitor{1: {ID: 1, Active: true}, 2: {ID: 2, Active: true}}
	beats := map[int64]models.HeartbeatSample{
		1: sample(1, models.HeartbeatStatus(3), ""),
		2: sample(2, models.HeartbeatStatusPending, ""),
	}

	stats := ComputeStats(monitors, beats)
	assert.Equal(t, models.AggregateStats{Pending: 1, Active: 2}, stats)
	assert.Equal(t, 1, stats.Unknown())
}

func TestComputeStats_HeartbeatWithoutMonitorIgnored(t *testing.T) {
	beats := map[int64]models.HeartbeatSample{5: sample(5, models.HeartbeatStatusUp, "")}
	assert.Equal(t, models.AggregateStats{}, ComputeStats(map[int64]*models.Monitor{}, beats))
}

func TestMirror_LastHeartbeatRecomputesStats(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()
	s := m.Session()

	ch.deliver(t, s, protocol.EventMonitorList, `{"1":{"id":1,"active":true}}`)
	assert.Equal(t, models.AggregateStats{Active: 1}, m.Stats())

	ch.deliver(t, s, protocol.EventLastHeartbeat, sample(1, models.HeartbeatStatusDown, "t1"))
	assert.Equal(t, models.AggregateStats{Down: 1, Active: 1}, m.Stats())

	ch.deliver(t, s, protocol.EventLastHeartbeat, sample(1, models.HeartbeatStatusUp, "t2"))
	assert.Equal(t, models.AggregateStats{Up: 1, Active: 1}, m.Stats())

	beat, ok := m.LastHeartbeat(1)
	require.True(t, ok)
	assert.Equal(t, "t2", beat.Time)
}

func TestMirror_StatsMatchRecompute(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()
	s := m.Session()

	ch.deliver(t, s, protocol.EventMonitorList, `{"1":{"id":1,"active":true},"2":{"id":2,"active":false}}`)
	ch.deliver(t, s, protocol.EventLastHeartbeat, sample(1, models.HeartbeatStatusUp, ""))
	ch.deliver(t, s, protocol.EventUpdateMonitorIntoList, `{"2":{"active":true}}`)
	ch.deliver(t, s, protocol.EventLastHeartbeat, sample(2, models.HeartbeatStatusPending, ""))
	ch.deliver(t, s, protocol.EventDeleteMonitorFromList, 1)

	current := m.Stats()
	assert.Equal(t, current, m.RecomputeStats())
	assert.Equal(t, models.AggregateStats{Pending: 1, Active: 1}, current)
}

func TestMirror_HeartbeatHistoryCapped(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()
	s := m.Session()

	for i := 0; i < DefaultHistoryLimit+10; i++ {
		ch.deliver(t, s, protocol.EventHeartbeat, sample(1, models.HeartbeatStatusUp, fmt.Sprintf("t%d", i)))
	}

	h := m.History(1)
	require.Len(t, h, DefaultHistoryLimit)
	assert.Equal(t, "t10", h[0].Time)
	assert.Equal(t, fmt.Sprintf("t%d", DefaultHistoryLimit+9), h[len(h)-1].Time)
}

func TestMirror_HeartbeatDoesNotTouchStats(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()
	s := m.Session()

	ch.deliver(t, s, protocol.EventMonitorList, `{"1":{"id":1,"active":true}}`)
	ch.deliver(t, s, protocol.EventHeartbeat, sample(1, models.HeartbeatStatusDown, "t"))

	assert.Equal(t, models.AggregateStats{Active: 1}, m.Stats())
	_, ok := m.LastHeartbeat(1)
	assert.False(t, ok)
}

func TestMirror_HistoryLimitOption(t *testing.T) {
	m, ch := connectedMirror(t, WithHistoryLimit(3))
	defer m.Disconnect()
	s := m.Session()

	for i := 0; i < 5; i++ {
		ch.deliver(t, s, protocol.EventHeartbeat, sample(1, models.HeartbeatStatusUp, fmt.Sprintf("t%d", i)))
	}
	h := m.History(1)
	require.Len(t, h, 3)
	assert.Equal(t, "t2", h[0].Time)
}

func TestMirror_HeartbeatListMergeOrder(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()
	s := m.Session()

	existing := []models.HeartbeatSample{sample(1, 1, "e1"), sample(1, 1, "e2")}
	older := []models.HeartbeatSample{sample(1, 0, "o1"), sample(1, 0, "o2"), sample(1, 0, "o3")}

	ch.deliver(t, s, protocol.EventHeartbeatList, 1, existing)
	ch.deliver(t, s, protocol.EventHeartbeatList, 1, older, false)

	h := m.History(1)
	require.Len(t, h, 5)
	times := make([]string, 0, len(h))
	for _, b := range h {
		times = append(times, b.Time)
	}
	assert.Equal(t, []string{"o1", "o2", "o3", "e1", "e2"}, times)
}

func TestMirror_HeartbeatListOverwrite(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()
	s := m.Session()

	ch.deliver(t, s, protocol.EventHeartbeatList, "1", []models.HeartbeatSample{sample(1, 1, "a"), sample(1, 1, "b")})
	ch.deliver(t, s, protocol.EventHeartbeatList, "1", []models.HeartbeatSample{sample(1, 0, "c")}, true)

	h := m.History(1)
	require.Len(t, h, 1)
	assert.Equal(t, "c", h[0].Time)
}

func TestMirror_DisconnectKeepsData(t *testing.T) {
	m, ch := connectedMirror(t)
	s := m.Session()

	ch.deliver(t, s, protocol.EventMonitorList, `{"1":{"id":1,"active":true}}`)
	ch.deliver(t, s, protocol.EventLastHeartbeat, sample(1, models.HeartbeatStatusUp, ""))
	m.Disconnect()

	assert.False(t, m.Connected())
	assert.Equal(t, 1, m.MonitorCount())
	assert.Equal(t, models.AggregateStats{Up: 1, Active: 1}, m.Stats())
	_, closes := ch.counts()
	assert.Equal(t, 1, closes)
}

func TestMirror_LateMessageAfterDisconnectIgnored(t *testing.T) {
	m, ch := connectedMirror(t)
	s := m.Session()

	ch.deliver(t, s, protocol.EventMonitorList, `{"1":{"id":1,"active":true}}`)
	before := m.Snapshot()

	m.Disconnect()
	ch.deliver(t, s, protocol.EventMonitorList, `{"2":{"id":2}}`)
	ch.deliver(t, s, protocol.EventUpdateMonitorIntoList, `{"1":{"name":"late"}}`)
	ch.deliver(t, s, protocol.EventDeleteMonitorFromList, 1)
	ch.deliver(t, s, protocol.EventLastHeartbeat, sample(1, models.HeartbeatStatusDown, ""))
	ch.deliver(t, s, protocol.EventHeartbeat, sample(1, models.HeartbeatStatusDown, ""))

	after := m.Snapshot()
	assert.Equal(t, before.Monitors, after.Monitors)
	assert.Equal(t, before.LastHeartbeats, after.LastHeartbeats)
	assert.Equal(t, before.History, after.History)
	assert.Equal(t, before.Stats, after.Stats)
}

func TestMirror_StaleSessionIgnoredAfterReconnect(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()
	old := m.Session()

	ch.Close()
	ch.Connect()
	require.NotEqual(t, old, m.Session())

	ch.deliver(t, old, protocol.EventMonitorList, `{"1":{"id":1}}`)
	assert.Equal(t, 0, m.MonitorCount())

	ch.deliver(t, m.Session(), protocol.EventMonitorList, `{"1":{"id":1}}`)
	assert.Equal(t, 1, m.MonitorCount())
}

func TestMirror_RequestFullStateWhileDisconnected(t *testing.T) {
	ch := newFakeChannel()
	m := New(ch)

	var got error
	m.RequestFullState(func(err error) { got = err })
	assert.True(t, models.IsErrorType(got, models.ErrTypeConnectionClosed))
	assert.Equal(t, 0, ch.emitCount(protocol.EventGetMonitorList))
}

func TestMirror_RequestFullStateAckOutcome(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()

	var mu sync.Mutex
	var results []error
	cb := func(err error) {
		mu.Lock()
		results = append(results, err)
		mu.Unlock()
	}

	m.RequestFullState(cb)
	ch.lastEmit().ack([]json.RawMessage{json.RawMessage(`{"ok":true}`)}, nil)

	m.RequestFullState(cb)
	ch.lastEmit().ack([]json.RawMessage{json.RawMessage(`{"ok":false,"msg":"denied"}`)}, nil)

	m.RequestFullState(cb)
	ch.lastEmit().ack(nil, errors.New("timeout"))

	require.Len(t, results, 3)
	assert.NoError(t, results[0])
	assert.True(t, models.IsErrorType(results[1], models.ErrTypeRequestRejected))
	assert.EqualError(t, results[2], "timeout")
}

func TestMirror_StoppedAllowsReconnect(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()

	ch.stop(errors.New("exhausted"))
	assert.False(t, m.Connected())

	m.Connect()
	require.Eventually(t, m.Connected, time.Second, 5*time.Millisecond)
	connects, _ := ch.counts()
	assert.Equal(t, 2, connects)
}

func TestMirror_ObserversNotified(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()

	var mu sync.Mutex
	var kinds []models.StateEventKind
	unsubscribe := m.Subscribe(func(ev StateEvent) {
		mu.Lock()
		kinds = append(kinds, ev.Kind)
		mu.Unlock()
	})
	m.Subscribe(func(StateEvent) { panic("boom") })

	ch.deliver(t, m.Session(), protocol.EventMonitorList, `{"1":{"id":1}}`)
	ch.deliver(t, m.Session(), protocol.EventHeartbeat, sample(1, 1, ""))
	unsubscribe()
	ch.deliver(t, m.Session(), protocol.EventDeleteMonitorFromList, 1)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []models.StateEventKind{models.StateEventMonitorList, models.StateEventHeartbeat}, kinds)

	stats := m.ObserverStats()
	assert.Equal(t, 1, stats.TotalObservers)
	assert.Equal(t, int64(3), stats.FailedNotifications)
}

func TestMirror_RunReleasesOnCancel(t *testing.T) {
	ch := newFakeChannel()
	m := New(ch)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	require.Eventually(t, m.Connected, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
	assert.False(t, m.Connected())
	assert.True(t, ch.Closed())
}

func TestMirror_AcquireReleaseIdempotent(t *testing.T) {
	ch := newFakeChannel()
	m := New(ch)

	release := m.Acquire()
	require.Eventually(t, m.Connected, time.Second, 5*time.Millisecond)
	release()
	release()

	_, closes := ch.counts()
	assert.Equal(t, 1, closes)
}

func TestMirror_MalformedPayloadIgnored(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()
	s := m.Session()

	ch.deliver(t, s, protocol.EventMonitorList, `{"1":{"id":1,"active":true}}`)
	ch.deliver(t, s, protocol.EventMonitorList, `[1,2,3]`)
	ch.deliver(t, s, protocol.EventDeleteMonitorFromList, `{"x":1}`)
	ch.deliver(t, s, protocol.EventLastHeartbeat, `{"status":1}`)
	ch.deliver(t, s, protocol.EventHeartbeatList, `"abc"`, `[]`)

	assert.Equal(t, 1, m.MonitorCount())
	assert.Equal(t, models.AggregateStats{Active: 1}, m.Stats())
}

func TestMirror_LastHeartbeatsCopy(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()
	s := m.Session()

	ch.deliver(t, s, protocol.EventLastHeartbeat, sample(1, models.HeartbeatStatusUp, "2026-03-01 10:00:00"))
	ch.deliver(t, s, protocol.EventLastHeartbeat, sample(2, models.HeartbeatStatusDown, "2026-03-01 10:00:01"))

	beats := m.LastHeartbeats()
	require.Len(t, beats, 2)
	delete(beats, 1)

	_, ok := m.LastHeartbeat(1)
	assert.True(t, ok)
	assert.Len(t, m.LastHeartbeats(), 2)
}

func TestMirror_LastHeartbeatLooseEncoding(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()
	s := m.Session()

	ch.deliver(t, s, protocol.EventMonitorList, `{"1":{"id":1,"active":1}}`)
	ch.deliver(t, s, protocol.EventLastHeartbeat, `{"monitorID":"1","status":1,"time":1773655200,"important":1}`)

	beat, ok := m.LastHeartbeat(1)
	require.True(t, ok)
	assert.True(t, beat.Important)
	assert.Equal(t, "1773655200", beat.Time)
	assert.Equal(t, models.AggregateStats{Up: 1, Active: 1}, m.Stats())
}

func TestMirror_HeartbeatListSkipsBadEntries(t *testing.T) {
	m, ch := connectedMirror(t)
	defer m.Disconnect()
	s := m.Session()

	ch.deliver(t, s, protocol.EventHeartbeatList, 1,
		`[{"monitorID":1,"status":1,"time":"a","important":1},"junk",{"monitorID":"x"},{"status":0,"time":"b"},{"monitorID":"1","status":"2","time":3}]`,
		true)

	h := m.History(1)
	require.Len(t, h, 3)
	assert.Equal(t, "a", h[0].Time)
	assert.True(t, h[0].Important)
	assert.Equal(t, "b", h[1].Time)
	assert.Equal(t, int64(1), h[1].MonitorID)
	assert.Equal(t, "3", h[2].Time)
	assert.Equal(t, models.HeartbeatStatusPending, h[2].Status)
}
