package models

import (
	"time"
)

type ActivityStatus string

const (
	ActivityStatusPending   ActivityStatus = "pending"
	ActivityStatusApproved  ActivityStatus = "approved"
	ActivityStatusRejected  ActivityStatus = "rejected"
	ActivityStatusOngoing   ActivityStatus = "ongoing"
	ActivityStatusCompleted ActivityStatus = "completed"
)

type Activity struct {
	ID                uint64         `gorm:"primarykey" json:"id"`
	Title             string         `gorm:"type:varchar(200);not null" json:"title"`
	Description       string         `gorm:"type:text" json:"description"`
	Points            int            `gorm:"not null" json:"points"`
	StartTime         time.Time      `gorm:"not null" json:"start_time"`
	EndTime           time.Time      `gorm:"not null" json:"end_time"`
	Location          string         `gorm:"type:varchar(200);not null" json:"location"`
	Status            ActivityStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ApplicantID       uint64         `gorm:"not null;index" json:"applicant_id"`
	MainResponsibleID uint64         `gorm:"not null;index" json:"main_responsible_id"`
	ReviewerID        *uint64        `json:"reviewer_id"`
	CreatedAt         time.Time      `json:"created_at"`
	ReviewedAt        *time.Time     `json:"reviewed_at"`

	// Relations
	Applicant       User                     `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	MainResponsible User                     `gorm:"foreignKey:MainResponsibleID" json:"main_responsible,omitempty"`
	Reviewer        *User                    `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	SubResponsibles []ActivitySubResponsible `gorm:"foreignKey:ActivityID" json:"sub_responsibles,omitempty"`
	Participants    []ActivityParticipant    `gorm:"foreignKey:ActivityID" json:"participants,omitempty"`
}
