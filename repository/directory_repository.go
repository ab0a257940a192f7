/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-11 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-22 17:40:08
 * @FilePath: \go-livemirror\repository\directory_repository.go
 * @Description: 客户与站点目录仓库
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package repository

import (
	"context"
	"errors"

	"github.com/kamalyes/go-livemirror/models"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"gorm.io/gorm"
)

// DirectoryRepository 客户目录只读仓储接口
type DirectoryRepository interface {
	// ListClients 列出全部客户，按 id 升序
	ListClients(ctx context.Context) ([]*models.Client, error)

	// ListLocations 列出全部站点，按 id 升序，附带所属客户的简要信息
	ListLocations(ctx context.Context) ([]*models.ClientLocation, error)

	// GetClient 按 id 获取客户，不存在时返回 (nil, nil)
	GetClient(ctx context.Context, id int64) (*models.Client, error)
}

var (
	_ DirectoryRepository = (*GormDirectoryRepository)(nil)
	_ DirectoryRepository = (*StaticDirectory)(nil)
)

// GormDirectoryRepository GORM 实现
type GormDirectoryRepository struct {
	db            *gorm.DB
	clientTable   string // 自定义表名（用于测试隔离）
	locationTable string
	logger        logger.ILogger
}

// NewDirectoryRepository 创建目录仓储实例
// 参数:
//   - db: GORM 数据库实例
//   - log: 日志记录器，传 nil 时不输出日志
func NewDirectoryRepository(db *gorm.DB, log logger.ILogger) *GormDirectoryRepository {
	if log == nil {
		log = logger.NewEmptyLogger()
	}
	return &GormDirectoryRepository{db: db, logger: log}
}

// WithTableNames 设置自定义表名（用于测试隔离）
func (r *GormDirectoryRepository) WithTableNames(clientTable, locationTable string) *GormDirectoryRepository {
	return &GormDirectoryRepository{
		db:            r.db,
		clientTable:   clientTable,
		locationTable: locationTable,
		logger:        r.logger,
	}
}

func (r *GormDirectoryRepository) clients(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.clientTable != "" {
		return db.Table(r.clientTable)
	}
	return db.Model(&models.Client{})
}

func (r *GormDirectoryRepository) locations(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.locationTable != "" {
		return db.Table(r.locationTable)
	}
	return db.Model(&models.ClientLocation{})
}

// ListClients 列出全部客户
func (r *GormDirectoryRepository) ListClients(ctx context.Context) ([]*models.Client, error) {
	var list []*models.Client
	if err := r.clients(ctx).Order("id ASC").Find(&list).Error; err != nil {
		r.logger.ErrorKV("查询客户列表失败", "error", err)
		return nil, errorx.WrapError("failed to list clients", err)
	}
	return list, nil
}

// ListLocations 列出全部站点并填充所属客户
func (r *GormDirectoryRepository) ListLocations(ctx context.Context) ([]*models.ClientLocation, error) {
	var list []*models.ClientLocation
	if err := r.locations(ctx).Order("id ASC").Find(&list).Error; err != nil {
		r.logger.ErrorKV("查询站点列表失败", "error", err)
		return nil, errorx.WrapError("failed to list locations", err)
	}

	ids := make([]int64, 0, len(list))
	seen := make(map[int64]struct{}, len(list))
	for _, loc := range list {
		if loc.ClientID == nil {
			continue
		}
		if _, ok := seen[*loc.ClientID]; !ok {
			seen[*loc.ClientID] = struct{}{}
			ids = append(ids, *loc.ClientID)
		}
	}
	if len(ids) == 0 {
		return list, nil
	}

	var owners []*models.Client
	if err := r.clients(ctx).Select("id", "name").Where("id IN ?", ids).Find(&owners).Error; err != nil {
		r.logger.ErrorKV("查询站点所属客户失败", "error", err)
		return nil, errorx.WrapError("failed to load location owners", err)
	}
	refs := make(map[int64]*models.ClientRef, len(owners))
	for _, c := range owners {
		refs[c.ID] = &models.ClientRef{ID: c.ID, Name: c.Name}
	}
	for _, loc := range list {
		if loc.ClientID != nil {
			loc.Client = refs[*loc.ClientID]
		}
	}
	return list, nil
}

// GetClient 按 id 获取客户
func (r *GormDirectoryRepository) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	var c models.Client
	err := r.clients(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errorx.WrapError("failed to get client", err)
	}
	return &c, nil
}
