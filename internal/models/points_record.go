package models

import (
	"time"
)

type RecordStatus string

const (
	RecordStatusPending  RecordStatus = "pending"
	RecordStatusApproved RecordStatus = "approved"
	RecordStatusRejected RecordStatus = "rejected"
)

// Settlement subcategories written under CategoryActivity.
const (
	CategoryActivity         = "活动"
	SubcategoryMainOrganizer = "主要负责人"
	SubcategorySubOrganizer  = "次要负责人"
)

type PointsRecord struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	UserID      uint64       `gorm:"not null;index" json:"user_id"`
	Points      int          `gorm:"not null" json:"points"`
	Category    string       `gorm:"type:varchar(80)" json:"category"`
	Subcategory string       `gorm:"type:varchar(80)" json:"subcategory"`
	Summary     string       `gorm:"type:text" json:"summary"`
	// Reason holds the old "category-subcategory: summary" encoding for rows
	// imported from the previous system. New rows leave it empty.
	Reason      string       `gorm:"type:text" json:"-"`
	EvidenceKey string       `gorm:"type:varchar(255)" json:"evidence_key,omitempty"`
	Status      RecordStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewerID  *uint64      `json:"reviewer_id"`
	CreatedAt   time.Time    `gorm:"index" json:"created_at"`
	ReviewedAt  *time.Time   `json:"reviewed_at"`

	// Relations
	User     User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}
