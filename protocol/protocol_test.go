/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-03 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-20 15:02:48
 * @FilePath: \go-livemirror\protocol\protocol_test.go
 * @Description: 帧编解码与应答登记测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package protocol

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kamalyes/go-livemirror/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame_EventWireFormat(t *testing.T) {
	f, err := NewEventFrame(EventHeartbeatList, 7, 3, []int{1, 2}, true)
	require.NoError(t, err)
	data, err := Encode(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"event","event":"heartbeatList","args":[3,[1,2],true],"id":7}`, string(data))

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, decoded.WantsAck())

	var overwrite bool
	found, err := decoded.Arg(2, &overwrite)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, overwrite)
}

func TestFrame_RawArgsPassThrough(t *testing.T) {
	raw := json.RawMessage(`{"1":{"id":1}}`)
	f, err := NewEventFrame(EventMonitorList, 0, raw)
	require.NoError(t, err)
	assert.Equal(t, raw, f.Args[0])
	assert.False(t, f.WantsAck())
}

func TestDecode_Invalid(t *testing.T) {
	for _, in := range []string{
		`not json`,
		`{"type":"event"}`,
		`{"type":"ack","args":[]}`,
		`{"type":"ping"}`,
	} {
		_, err := Decode([]byte(in))
		assert.True(t, models.IsErrorType(err, models.ErrTypeInvalidFrame), in)
	}
}

func TestDecodeArg_MissingAndNull(t *testing.T) {
	args := []json.RawMessage{json.RawMessage(`null`)}
	var v int
	found, err := DecodeArg(args, 0, &v)
	assert.NoError(t, err)
	assert.False(t, found)

	found, err = DecodeArg(args, 3, &v)
	assert.NoError(t, err)
	assert.False(t, found)

	found, err = DecodeArg([]json.RawMessage{json.RawMessage(`"x"`)}, 0, &v)
	assert.True(t, found)
	assert.True(t, models.IsErrorType(err, models.ErrTypeInvalidPayload))
}

func TestAckError(t *testing.T) {
	ok := []json.RawMessage{json.RawMessage(`{"ok":true}`)}
	rejected := []json.RawMessage{json.RawMessage(`{"ok":false,"msg":"You are not logged in."}`)}
	noOK := []json.RawMessage{json.RawMessage(`{"clients":[]}`)}

	assert.NoError(t, AckError("getClients", ok))
	assert.NoError(t, AckError("getClients", noOK))
	assert.NoError(t, AckError("getClients", nil))

	err := AckError("getClients", rejected)
	require.Error(t, err)
	assert.True(t, models.IsErrorType(err, models.ErrTypeRequestRejected))
	assert.Contains(t, err.Error(), "not logged in")
}

func TestAckRegistry_ResolveOnce(t *testing.T) {
	r := NewAckRegistry(time.Second)
	var calls atomic.Int32
	id := r.Register("getMonitorList", func(args []json.RawMessage, err error) {
		calls.Add(1)
		assert.NoError(t, err)
		assert.Len(t, args, 1)
	})

	assert.Equal(t, 1, r.Pending())
	assert.True(t, r.Resolve(id, []json.RawMessage{json.RawMessage(`{"ok":true}`)}))
	assert.False(t, r.Resolve(id, nil))
	r.Cancel(id, errors.New("late"))

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 0, r.Pending())
}

func TestAckRegistry_Timeout(t *testing.T) {
	r := NewAckRegistry(20 * time.Millisecond)
	errCh := make(chan error, 1)
	id := r.Register("getMonitorList", func(_ []json.RawMessage, err error) { errCh <- err })

	select {
	case err := <-errCh:
		assert.True(t, models.IsErrorType(err, models.ErrTypeAckTimeout))
	case <-time.After(time.Second):
		t.Fatal("timeout callback not invoked")
	}
	assert.False(t, r.Resolve(id, nil))
}

func TestAckRegistry_FailAll(t *testing.T) {
	r := NewAckRegistry(time.Minute)
	var wg sync.WaitGroup
	var failed atomic.Int32
	for i := 0; i < 5; i++ {
		wg.Add(1)
		r.Register("x", func(_ []json.RawMessage, err error) {
			defer wg.Done()
			if errors.Is(err, models.ErrConnectionClosed) {
				failed.Add(1)
			}
		})
	}

	assert.Equal(t, 5, r.FailAll(models.ErrConnectionClosed))
	wg.Wait()
	assert.Equal(t, int32(5), failed.Load())
	assert.Equal(t, 0, r.FailAll(models.ErrConnectionClosed))
}

func TestAckRegistry_DiscardSkipsCallback(t *testing.T) {
	r := NewAckRegistry(time.Minute)
	called := false
	id := r.Register("x", func([]json.RawMessage, error) { called = true })
	r.Discard(id)
	assert.False(t, called)
	assert.Equal(t, 0, r.Pending())
}
