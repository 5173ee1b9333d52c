package models

import "time"

// ActivitySubResponsible links an activity to a supporting organizer.
type ActivitySubResponsible struct {
	ActivityID uint64    `gorm:"primarykey" json:"activity_id"`
	UserID     uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Activity Activity `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
	User     User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
