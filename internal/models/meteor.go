package models

import "time"

// Meteor is a small memory attached to a person: something to bring up,
// a follow-up, a date to remember.
type Meteor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PersonID  uint      `gorm:"not null;index" json:"person_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Content   string    `gorm:"not null" json:"content"`
	Tag       string    `json:"tag,omitempty"`
	DueDate   string    `json:"due_date,omitempty"`
	Done      bool      `gorm:"not null;default:false" json:"done"`
	Archived  bool      `gorm:"not null;default:false" json:"archived"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
