/**
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-06 22:15:33
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-18 22:15:33
 * @FilePath: \go-livemirror\models\observer.go
 * @Description: 观察者相关数据模型
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package models

// ObserverManagerStats 观察者统计信息
type ObserverManagerStats struct {
	TotalObservers      int   `json:"total_observers"`      // 当前订阅者数量
	TotalNotifications  int64 `json:"total_notifications"`  // 总通知次数
	FailedNotifications int64 `json:"failed_notifications"` // 回调 panic 次数
}
