package models

import (
	"time"
)

type MembershipType string

const (
	MembershipNormal MembershipType = "normal"
	MembershipBranch MembershipType = "branch"
)

// Reserved branch-committee roles. At most one branch member may hold each.
const (
	RolePublicityOfficer = "宣传委员"
	RoleOrganizerOfficer = "组织委员"
	RoleBranchSecretary  = "支部书记"
)

// ReservedRoles lists the committee roles that must be unique among branch members.
var ReservedRoles = []string{RolePublicityOfficer, RoleOrganizerOfficer, RoleBranchSecretary}

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(80);uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Name         string         `gorm:"type:varchar(80);not null" json:"name"`
	Type         MembershipType `gorm:"type:varchar(20);not null" json:"type"`
	Role         string         `gorm:"type:varchar(20);not null" json:"role"`
	Points       int            `gorm:"not null;default:80" json:"points"`
	CreatedAt    time.Time      `json:"created_at"`

	// Relations
	PointsRecords     []PointsRecord `gorm:"foreignKey:UserID" json:"-"`
	AppliedActivities []Activity     `gorm:"foreignKey:ApplicantID" json:"-"`
	LeadActivities    []Activity     `gorm:"foreignKey:MainResponsibleID" json:"-"`
}

// IsBranchMember reports whether the user carries the review capability.
func (u *User) IsBranchMember() bool {
	return u.Type == MembershipBranch
}

// IsAdmin reports whether the user is the branch secretary.
func (u *User) IsAdmin() bool {
	return u.Role == RoleBranchSecretary
}

// IsReservedRole reports whether role is one of the unique committee roles.
func IsReservedRole(role string) bool {
	for _, r := range ReservedRoles {
		if r == role {
			return true
		}
	}
	return false
}
