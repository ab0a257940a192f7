/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-18 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-25 10:02:47
 * @FilePath: \go-livemirror\livemirror.go
 * @Description: 客户端与状态镜像的组装入口
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package livemirror

import (
	"github.com/kamalyes/go-livemirror/client"
	"github.com/kamalyes/go-livemirror/mirror"
)

// New 创建指向 url 的事件通道客户端，并在其上构建状态镜像
// cfg 为空时使用默认配置，log 为空时不输出日志
func New(url string, cfg *client.Config, log Logger, opts ...mirror.Option) (*mirror.Mirror, *client.Wsc) {
	if log == nil {
		log = NewNoOpLogger()
	}
	wsc := client.NewWithConfig(url, cfg)
	wsc.SetLogger(log)

	opts = append([]mirror.Option{mirror.WithLogger(log)}, opts...)
	return mirror.New(wsc, opts...), wsc
}
