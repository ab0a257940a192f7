/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-22 17:41:30
 * @FilePath: \go-livemirror\repository\static_directory.go
 * @Description: 内存目录 - 未配置数据库时使用
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package repository

import (
	"context"
	"sort"

	"github.com/kamalyes/go-livemirror/models"
)

// StaticDirectory 固定数据的目录实现
type StaticDirectory struct {
	clients   []*models.Client
	locations []*models.ClientLocation
}

// NewStaticDirectory 创建内存目录，入参按 id 排序后保存
func NewStaticDirectory(clients []*models.Client, locations []*models.ClientLocation) *StaticDirectory {
	d := &StaticDirectory{
		clients:   append([]*models.Client(nil), clients...),
		locations: append([]*models.ClientLocation(nil), locations...),
	}
	sort.Slice(d.clients, func(i, j int) bool { return d.clients[i].ID < d.clients[j].ID })
	sort.Slice(d.locations, func(i, j int) bool { return d.locations[i].ID < d.locations[j].ID })
	return d
}

// ListClients 列出全部客户
func (d *StaticDirectory) ListClients(context.Context) ([]*models.Client, error) {
	out := make([]*models.Client, len(d.clients))
	for i, c := range d.clients {
		cp := *c
		out[i] = &cp
	}
	return out, nil
}

// ListLocations 列出全部站点并填充所属客户
func (d *StaticDirectory) ListLocations(context.Context) ([]*models.ClientLocation, error) {
	refs := make(map[int64]*models.ClientRef, len(d.clients))
	for _, c := range d.clients {
		refs[c.ID] = &models.ClientRef{ID: c.ID, Name: c.Name}
	}
	out := make([]*models.ClientLocation, len(d.locations))
	for i, l := range d.locations {
		cp := *l
		cp.Client = nil
		if cp.ClientID != nil {
			cp.Client = refs[*cp.ClientID]
		}
		out[i] = &cp
	}
	return out, nil
}

// GetClient 按 id 获取客户
func (d *StaticDirectory) GetClient(_ context.Context, id int64) (*models.Client, error) {
	for _, c := range d.clients {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}
