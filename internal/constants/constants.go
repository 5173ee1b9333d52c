package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyClaims = "claims"
)

// Points defaults
const (
	// DefaultUserPoints is the base balance every member starts with.
	DefaultUserPoints = 80

	// ActivityBasePoints is the fixed award attached to every activity.
	ActivityBasePoints = 5

	// MainResponsiblePoints is credited to the lead organizer on settlement.
	MainResponsiblePoints = 5

	// SubResponsiblePoints is credited to each supporting organizer on settlement.
	SubResponsiblePoints = 3
)

// Pagination limits
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// MinPasswordLength is the minimum accepted password length for admin-created users.
const MinPasswordLength = 6
