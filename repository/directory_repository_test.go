/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-22 17:52:44
 * @FilePath: \go-livemirror\repository\directory_repository_test.go
 * @Description: 目录仓库测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/kamalyes/go-livemirror/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func int64Ptr(v int64) *int64 { return &v }

func TestStaticDirectory(t *testing.T) {
	ctx := context.Background()
	dir := NewStaticDirectory(
		[]*models.Client{{ID: 2, Name: "beta"}, {ID: 1, Name: "acme", Description: "first"}},
		[]*models.ClientLocation{
			{ID: 11, Name: "hq", ClientID: int64Ptr(1)},
			{ID: 10, Name: "orphan"},
			{ID: 12, Name: "ghost", ClientID: int64Ptr(99)},
		},
	)

	clients, err := dir.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "acme", clients[0].Name)
	assert.Equal(t, models.ClientSummary{ID: 1, Name: "acme", Description: "first"}, clients[0].Summary())

	locations, err := dir.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 3)
	assert.Equal(t, int64(10), locations[0].ID)
	assert.Nil(t, locations[0].Client)
	require.NotNil(t, locations[1].Client)
	assert.Equal(t, "acme", locations[1].Client.Name)
	assert.Nil(t, locations[2].Client)

	c, err := dir.GetClient(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "beta", c.Name)

	c, err = dir.GetClient(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestStaticDirectory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	dir := NewStaticDirectory([]*models.Client{{ID: 1, Name: "acme"}}, nil)

	clients, _ := dir.ListClients(ctx)
	clients[0].Name = "changed"

	again, _ := dir.ListClients(ctx)
	assert.Equal(t, "acme", again[0].Name)
}

// 测试用 MySQL，通过环境变量提供 DSN
func getDirectoryTestDB(t *testing.T) *gorm.DB {
	dsn := os.Getenv("LIVEMIRROR_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("LIVEMIRROR_TEST_MYSQL_DSN 未设置，跳过 MySQL 测试")
	}
	db, err := OpenMySQL(dsn)
	require.NoError(t, err, "数据库连接失败")
	return db
}

func TestGormDirectoryRepository(t *testing.T) {
	db := getDirectoryTestDB(t)
	ctx := context.Background()

	suffix := fmt.Sprintf("_%d", time.Now().UnixNano())
	clientTable := "clients" + suffix
	locationTable := "client_location" + suffix
	require.NoError(t, db.Table(clientTable).AutoMigrate(&models.Client{}))
	require.NoError(t, db.Table(locationTable).AutoMigrate(&models.ClientLocation{}))
	defer func() {
		_ = db.Migrator().DropTable(clientTable)
		_ = db.Migrator().DropTable(locationTable)
	}()

	require.NoError(t, db.Table(clientTable).Create(&models.Client{ID: 1, Name: "acme", Active: true}).Error)
	require.NoError(t, db.Table(clientTable).Create(&models.Client{ID: 2, Name: "beta", Active: true}).Error)
	require.NoError(t, db.Table(locationTable).Create(&models.ClientLocation{ID: 1, Name: "hq", ClientID: int64Ptr(2), Active: true}).Error)
	require.NoError(t, db.Table(locationTable).Create(&models.ClientLocation{ID: 2, Name: "lab", Active: true}).Error)

	repo := NewDirectoryRepository(db, nil).WithTableNames(clientTable, locationTable)

	clients, err := repo.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "acme", clients[0].Name)

	locations, err := repo.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	require.NotNil(t, locations[0].Client)
	assert.Equal(t, "beta", locations[0].Client.Name)
	assert.Nil(t, locations[1].Client)

	c, err := repo.GetClient(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "beta", c.Name)

	c, err = repo.GetClient(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, c)
}
