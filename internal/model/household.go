package model

import "time"

// Household is a group of users sharing finances, categories, budgets and
// accounts.
type Household struct {
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Name       string
	Currency   string
	CreatedBy  string
	ID         int64
	CycleStart int // day of month (1-31) on which the budget cycle begins
}

// MemberRole describes a user's standing within a household.
type MemberRole string

const (
	// RoleAdmin members can manage household settings and membership.
	RoleAdmin MemberRole = "admin"
	// RoleMember members can record and view finances.
	RoleMember MemberRole = "member"
)

// Member links a user to a household.
type Member struct {
	JoinedAt    time.Time
	UserID      string
	Role        MemberRole
	ID          int64
	HouseholdID int64
}
