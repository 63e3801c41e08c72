package domain

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotifBookingCreated       NotificationType = "booking_created"
	NotifBookingStatusChanged NotificationType = "booking_status_changed"
	NotifBookingPaid          NotificationType = "booking_paid"
	NotifWalletFunded         NotificationType = "wallet_funded"
)

type Notification struct {
	ID        int64            `json:"id" gorm:"primaryKey"`
	UserID    int64            `json:"user_id" gorm:"index:idx_notifications_user_unread"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message,omitempty" gorm:"type:text"`
	Data      json.RawMessage  `json:"data,omitempty" gorm:"type:jsonb"`
	IsRead    bool             `json:"is_read" gorm:"index:idx_notifications_user_unread"`
	CreatedAt time.Time        `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
