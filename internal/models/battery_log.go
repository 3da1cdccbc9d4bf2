package models

import "time"

const (
	BatteryScoreMin = 0
	BatteryScoreMax = 100
)

// BatteryLog is an append-only record of a user's self-reported social
// energy. The "current" battery for a user is its latest entry within
// the user's local calendar day.
type BatteryLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Score     int       `gorm:"not null" json:"score"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
