package model

import "time"

// CSVMapping is a named, reusable assignment of semantic roles to CSV
// columns, scoped to a household. It is created during an import and can be
// reused on subsequent imports from the same bank.
type CSVMapping struct {
	CreatedAt         time.Time
	Name              string
	DateColumn        string
	DescriptionColumn string
	AmountColumn      string
	TypeColumn        string // optional
	BalanceColumn     string // optional
	DateFormat        string // e.g. "YYYY-MM-DD"
	Delimiter         string
	ID                int64
	HouseholdID       int64
	HasHeader         bool
}
