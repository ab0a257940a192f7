/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-19 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-26 14:12:05
 * @FilePath: \go-livemirror\cmd\livemirror\main.go
 * @Description: livemirror 命令行入口
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package main

import "github.com/kamalyes/go-livemirror/internal/cli"

// 构建时通过 -ldflags "-X main.version=... -X main.commit=..." 注入
var (
	version = "dev"
	commit  = "none"
)

func main() {
	cli.SetVersionInfo(version, commit)
	cli.Execute()
}
