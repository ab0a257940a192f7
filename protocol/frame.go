/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-03 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-20 14:31:55
 * @FilePath: \go-livemirror\protocol\frame.go
 * @Description: 事件帧编解码（事件名 + 参数列表 + 可选ACK编号）
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package protocol

import (
	"encoding/json"

	"github.com/kamalyes/go-livemirror/models"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// FrameType 帧类型
type FrameType string

const (
	FrameTypeEvent FrameType = "event" // 事件推送或请求
	FrameTypeAck   FrameType = "ack"   // 请求应答
)

// 推送事件（服务端 -> 镜像）
const (
	EventMonitorList           = "monitorList"
	EventUpdateMonitorIntoList = "updateMonitorIntoList"
	EventDeleteMonitorFromList = "deleteMonitorFromList"
	EventLastHeartbeat         = "lastHeartbeat"
	EventHeartbeat             = "heartbeat"
	EventHeartbeatList         = "heartbeatList"
)

// 请求事件（镜像 -> 服务端）
const (
	EventGetMonitorList = "getMonitorList"
	EventGetClients     = "getClients"
	EventGetLocations   = "getLocations"
)

// EventHandler 事件处理函数，session 为投递该事件的物理连接编号
type EventHandler func(session uint64, args []json.RawMessage)

// AckFunc 请求应答回调，err 非空时 args 为空
type AckFunc func(args []json.RawMessage, err error)

// Frame 线上帧
type Frame struct {
	Type  FrameType         `json:"type"`
	Event string            `json:"event,omitempty"`
	Args  []json.RawMessage `json:"args,omitempty"`
	ID    uint64            `json:"id,omitempty"` // 事件帧：非零表示需要应答；应答帧：对应的请求编号
}

// WantsAck 事件帧是否期待应答
func (f *Frame) WantsAck() bool {
	return f.Type == FrameTypeEvent && f.ID != 0
}

// Arg 解码第 i 个参数，参数缺失时返回 false
func (f *Frame) Arg(i int, out any) (bool, error) {
	return DecodeArg(f.Args, i, out)
}

// NewEventFrame 构造事件帧
func NewEventFrame(event string, id uint64, args ...any) (*Frame, error) {
	raw, err := encodeArgs(args)
	if err != nil {
		return nil, err
	}
	return &Frame{Type: FrameTypeEvent, Event: event, Args: raw, ID: id}, nil
}

// NewAckFrame 构造应答帧
func NewAckFrame(id uint64, args ...any) (*Frame, error) {
	raw, err := encodeArgs(args)
	if err != nil {
		return nil, err
	}
	return &Frame{Type: FrameTypeAck, Args: raw, ID: id}, nil
}

// Encode 编码为文本帧
func Encode(f *Frame) ([]byte, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, errorx.WrapError("failed to encode frame", err)
	}
	return data, nil
}

// Decode 解码并校验文本帧
func Decode(data []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errorx.NewError(models.ErrTypeInvalidFrame, err.Error())
	}
	switch f.Type {
	case FrameTypeEvent:
		if f.Event == "" {
			return nil, errorx.NewError(models.ErrTypeInvalidFrame, "event frame without event name")
		}
	case FrameTypeAck:
		if f.ID == 0 {
			return nil, errorx.NewError(models.ErrTypeInvalidFrame, "ack frame without id")
		}
	default:
		return nil, errorx.NewError(models.ErrTypeInvalidFrame, "unknown frame type "+string(f.Type))
	}
	return &f, nil
}

// DecodeArg 解码参数列表中的第 i 个参数
func DecodeArg(args []json.RawMessage, i int, out any) (bool, error) {
	if i < 0 || i >= len(args) || len(args[i]) == 0 || string(args[i]) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(args[i], out); err != nil {
		return true, errorx.NewError(models.ErrTypeInvalidPayload, err.Error())
	}
	return true, nil
}

func encodeArgs(args []any) ([]json.RawMessage, error) {
	if len(args) == 0 {
		return nil, nil
	}
	raw := make([]json.RawMessage, 0, len(args))
	for _, a := range args {
		if r, ok := a.(json.RawMessage); ok {
			raw = append(raw, r)
			continue
		}
		data, err := json.Marshal(a)
		if err != nil {
			return nil, errorx.WrapError("failed to encode frame argument", err)
		}
		raw = append(raw, data)
	}
	return raw, nil
}

// AckResult 请求应答的通用结果体 {"ok":bool,"msg":string}
type AckResult struct {
	OK  bool   `json:"ok"`
	Msg string `json:"msg,omitempty"`
}

// AckError 将应答参数解释为错误：缺少 ok 字段或 ok=true 视为成功
func AckError(event string, args []json.RawMessage) error {
	var res struct {
		OK  *bool  `json:"ok"`
		Msg string `json:"msg"`
	}
	if found, err := DecodeArg(args, 0, &res); err != nil || !found || res.OK == nil {
		return nil
	}
	if !*res.OK {
		return errorx.NewError(models.ErrTypeRequestRejected, event, res.Msg)
	}
	return nil
}
