/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-05 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-05 00:00:00
 * @FilePath: \go-livemirror\models\directory.go
 * @Description: 客户与客户站点模型
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

// Client 客户组织
type Client struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description  string `gorm:"column:description;type:text" json:"description"`
	ContactName  string `gorm:"column:contact_name;type:varchar(255)" json:"contactName"`
	ContactEmail string `gorm:"column:contact_email;type:varchar(255)" json:"contactEmail"`
	ContactPhone string `gorm:"column:contact_phone;type:varchar(64)" json:"contactPhone"`
	Active       bool   `gorm:"column:active;default:true" json:"active"`
}

// TableName 指定表名
func (Client) TableName() string {
	return "clients"
}

// ClientRef 站点上携带的客户简要信息
type ClientRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ClientLocation 客户站点
type ClientLocation struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string     `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	Address     string     `gorm:"column:address;type:varchar(512)" json:"address"`
	City        string     `gorm:"column:city;type:varchar(128)" json:"city"`
	State       string     `gorm:"column:state;type:varchar(128)" json:"state"`
	Zip         string     `gorm:"column:zip;type:varchar(32)" json:"zip"`
	Country     string     `gorm:"column:country;type:varchar(128)" json:"country"`
	ClientID    *int64     `gorm:"column:client_id;index" json:"clientId"`
	Active      bool       `gorm:"column:active;default:true" json:"active"`
	Client      *ClientRef `gorm:"-" json:"client"`
}

// TableName 指定表名
func (ClientLocation) TableName() string {
	return "client_location"
}

// ClientSummary getClients 返回的列表项
type ClientSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LocationSummary getLocations 返回的列表项
type LocationSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	ClientID    *int64 `json:"clientId"`
}

// Summary 转换为列表项
func (c *Client) Summary() ClientSummary {
	return ClientSummary{ID: c.ID, Name: c.Name, Description: c.Description}
}

// Summary 转换为列表项
func (l *ClientLocation) Summary() LocationSummary {
	return LocationSummary{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Address:     l.Address,
		ClientID:    l.ClientID,
	}
}
