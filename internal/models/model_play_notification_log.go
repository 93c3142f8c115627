package models

import (
	"time"

	"gorm.io/datatypes"
)

type PlayNotificationLogStatus string

const (
	PlayNotificationLogStatusReceived     PlayNotificationLogStatus = "received"
	PlayNotificationLogStatusHandled      PlayNotificationLogStatus = "handled"
	PlayNotificationLogStatusSkipped      PlayNotificationLogStatus = "skipped"
	PlayNotificationLogStatusHandleFailed PlayNotificationLogStatus = "handle_failed"
)

// PlayNotificationLog is an audit row per processed push delivery. Rows are
// written best-effort and never block acknowledgment.
type PlayNotificationLog struct {
	ID               string                    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	MessageID        string                    `gorm:"column:message_id;type:varchar(128)" json:"message_id"`
	TraceID          string                    `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	PurchaseToken    string                    `gorm:"column:purchase_token;type:varchar(255)" json:"purchase_token"`
	SubscriptionID   string                    `gorm:"column:subscription_id;type:varchar(128)" json:"subscription_id"`
	NotificationType int64                     `gorm:"column:notification_type" json:"notification_type"`
	Data             datatypes.JSON            `gorm:"column:data;type:jsonb" json:"data"`
	Result           *datatypes.JSON           `gorm:"column:result;type:jsonb" json:"result"`
	Status           PlayNotificationLogStatus `gorm:"column:status;type:varchar(64);not null" json:"status"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

func (PlayNotificationLog) TableName() string { return "play_notification_log" }
