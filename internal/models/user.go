package models

import "time"

const (
	StrictnessGentle = "gentle"
	StrictnessNormal = "normal"
	StrictnessStrict = "strict"
)

const (
	DefaultTimezone        = "Asia/Kolkata"
	DefaultInnerCircleSize = 6
)

type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	TelegramID      string     `gorm:"uniqueIndex;not null" json:"telegram_id"`
	DisplayName     string     `gorm:"not null" json:"display_name"`
	AvatarURL       string     `json:"avatar_url,omitempty"`
	Timezone        string     `gorm:"not null;default:Asia/Kolkata" json:"timezone"`
	InnerCircleSize int        `gorm:"not null;default:6" json:"inner_circle_size"`
	DriftStrictness string     `gorm:"not null;default:normal" json:"drift_strictness"`
	Onboarded       bool       `gorm:"not null;default:false" json:"onboarded"`
	LastBattery     *int       `json:"last_battery"`
	LastBatteryAt   *time.Time `json:"last_battery_at"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
}

func IsValidStrictness(value string) bool {
	switch value {
	case StrictnessGentle, StrictnessNormal, StrictnessStrict:
		return true
	default:
		return false
	}
}

// Location resolves the user's timezone, falling back to UTC for
// unknown or empty values so date math never fails downstream.
func (user *User) Location() *time.Location {
	if user == nil || user.Timezone == "" {
		return time.UTC
	}
	location, err := time.LoadLocation(user.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}
