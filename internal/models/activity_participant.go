package models

import "time"

// ActivityParticipant links an activity to a signed-up member.
type ActivityParticipant struct {
	ActivityID uint64    `gorm:"primarykey" json:"activity_id"`
	UserID     uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Activity Activity `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
	User     User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
