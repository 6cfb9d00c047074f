package categorize

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hearthfin/hearth/internal/model"
	"github.com/hearthfin/hearth/internal/service"
)

// learnedPriority ranks user-learned patterns above every seeded default.
const learnedPriority = 10

// Service coordinates pattern learning and bulk categorization against the
// storage layer.
type Service struct {
	store service.Storage
}

// NewService creates a categorization service.
func NewService(store service.Storage) *Service {
	return &Service{store: store}
}

// Learn records that descriptions containing the keyword belong to the
// category, so future imports categorize them automatically. Returns true
// when a brand-new pattern was created rather than an existing one updated.
func (s *Service) Learn(ctx context.Context, householdID, categoryID int64, keyword string) (bool, error) {
	if _, err := s.store.GetCategoryByID(ctx, categoryID, householdID); err != nil {
		return false, err
	}

	isNew, err := s.store.SavePattern(ctx, &model.Pattern{
		HouseholdID: householdID,
		CategoryID:  categoryID,
		Keywords:    keyword,
		Priority:    learnedPriority,
	})
	if err != nil {
		return false, fmt.Errorf("failed to learn pattern: %w", err)
	}

	slog.Info("learned categorization pattern",
		"household_id", householdID,
		"category_id", categoryID,
		"keyword", keyword,
		"new", isNew)
	return isNew, nil
}

// FindMatches returns uncategorized transactions whose descriptions contain
// the keyword, as candidates for bulk categorization. excludeID skips the
// transaction the keyword was learned from.
func (s *Service) FindMatches(ctx context.Context, householdID int64, keyword, excludeID string) ([]model.Transaction, error) {
	return s.store.FindUncategorizedMatching(ctx, householdID, keyword, excludeID)
}

// BulkApply assigns the category to each listed transaction. Rows are updated
// independently; a failure on one is logged and counted but does not stop the
// rest. Returns how many updates succeeded.
func (s *Service) BulkApply(ctx context.Context, householdID, categoryID int64, transactionIDs []string) (int, error) {
	if _, err := s.store.GetCategoryByID(ctx, categoryID, householdID); err != nil {
		return 0, err
	}

	applied := 0
	for _, id := range transactionIDs {
		if err := s.store.UpdateTransactionCategory(ctx, id, householdID, categoryID); err != nil {
			slog.Warn("failed to apply category",
				"transaction_id", id,
				"category_id", categoryID,
				"error", err)
			continue
		}
		applied++
	}
	return applied, nil
}

// Recategorize sets the transaction's category and learns a pattern from its
// description so similar transactions follow automatically.
func (s *Service) Recategorize(ctx context.Context, householdID int64, transactionID string, categoryID int64) (string, error) {
	txn, err := s.store.GetTransactionByID(ctx, transactionID, householdID)
	if err != nil {
		return "", err
	}

	if err := s.store.UpdateTransactionCategory(ctx, transactionID, householdID, categoryID); err != nil {
		return "", err
	}

	keyword := SuggestPattern(txn.Description)
	if keyword == "" {
		return "", nil
	}
	if _, err := s.Learn(ctx, householdID, categoryID, keyword); err != nil {
		// The transaction itself was updated; losing the pattern is not fatal.
		slog.Warn("failed to learn pattern from recategorization",
			"transaction_id", transactionID,
			"error", err)
		return "", nil
	}
	return keyword, nil
}
