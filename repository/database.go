/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-11 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-22 17:40:08
 * @FilePath: \go-livemirror\repository\database.go
 * @Description: MySQL 连接与连接池配置
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package repository

import (
	"time"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// 连接池默认值
const (
	DefaultMaxIdleConns    = 10
	DefaultMaxOpenConns    = 20
	DefaultConnMaxLifetime = time.Hour
)

// OpenMySQL 打开 MySQL 连接并配置连接池
// dsn 示例: user:pass@tcp(127.0.0.1:3306)/kuma?charset=utf8mb4&parseTime=True&loc=Local&timeout=10s
func OpenMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true, // 只读查询，无需默认事务
		PrepareStmt:            true, // 预编译语句
	})
	if err != nil {
		return nil, errorx.WrapError("failed to open mysql", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errorx.WrapError("failed to get sql.DB", err)
	}
	sqlDB.SetMaxIdleConns(DefaultMaxIdleConns)
	sqlDB.SetMaxOpenConns(DefaultMaxOpenConns)
	sqlDB.SetConnMaxLifetime(DefaultConnMaxLifetime)
	return db, nil
}
