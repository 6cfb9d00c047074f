package model

import (
	"strings"
	"time"
)

// Pattern maps transaction descriptions to a category via a pipe-delimited
// set of lowercase keyword fragments. Patterns are evaluated in priority
// order (higher wins), with seeded defaults ranking below user-learned
// patterns of equal priority.
type Pattern struct {
	CreatedAt   time.Time
	Keywords    string // pipe-delimited lowercase fragments, e.g. "netflix|spotify|hulu"
	ID          int64
	HouseholdID int64
	CategoryID  int64
	Priority    int
	IsDefault   bool
}

// Matches reports whether any keyword fragment occurs as a case-insensitive
// substring of the description.
func (p *Pattern) Matches(description string) bool {
	desc := strings.ToLower(description)
	for _, fragment := range strings.Split(strings.ToLower(p.Keywords), "|") {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		if strings.Contains(desc, fragment) {
			return true
		}
	}
	return false
}
