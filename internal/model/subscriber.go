package model

import "time"

// Subscriber is a Telegram chat that receives the daily digest.
type Subscriber struct {
	ID        uint  `gorm:"primaryKey"`
	ChatID    int64 `gorm:"uniqueIndex"`
	FirstName string
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
