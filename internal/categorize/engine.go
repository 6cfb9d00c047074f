// Package categorize assigns categories to transactions by matching their
// descriptions against ordered keyword patterns, and learns new patterns from
// user corrections.
package categorize

import (
	"github.com/hearthfin/hearth/internal/model"
)

// Categorize returns the category of the first pattern matching the
// description. Patterns must arrive pre-sorted in evaluation order (priority
// descending, then user-learned before seeded defaults); the storage layer's
// pattern queries return them that way. The boolean is false when no pattern
// matches, in which case the transaction stays uncategorized.
func Categorize(description string, patterns []model.Pattern) (int64, bool) {
	for i := range patterns {
		if patterns[i].Matches(description) {
			return patterns[i].CategoryID, true
		}
	}
	return 0, false
}
