// Package reconcile compares an account's stored balance against a balance
// calculated from its transaction history.
package reconcile

import (
	"context"
	"fmt"

	"github.com/hearthfin/hearth/internal/service"
)

// Epsilon is the largest stored-vs-calculated difference still considered a
// match, absorbing float rounding in currency arithmetic.
const Epsilon = 0.01

// Result pairs the stored balance with the calculated one. Difference is
// stored minus calculated; callers compare its magnitude against Epsilon.
type Result struct {
	StoredBalance     float64
	CalculatedBalance float64
	Difference        float64
}

// Matches reports whether the difference is within Epsilon.
func (r Result) Matches() bool {
	diff := r.Difference
	if diff < 0 {
		diff = -diff
	}
	return diff <= Epsilon
}

// Reconcile calculates the account balance from history and compares it with
// the stored balance. The calculation anchors on the most recent statement
// checkpoint when one exists, else on the earliest balance snapshot plus the
// full transaction net. An account with neither is trivially reconciled
// against its own stored balance.
func Reconcile(ctx context.Context, store service.Storage, accountID, householdID int64) (*Result, error) {
	account, err := store.GetAccount(ctx, accountID, householdID)
	if err != nil {
		return nil, err
	}

	calculated := account.Balance

	checkpoint, err := store.GetLatestCheckpoint(ctx, accountID)
	if err != nil {
		return nil, err
	}

	switch {
	case checkpoint != nil:
		net, err := store.NetAfterCheckpoint(ctx, accountID, *checkpoint)
		if err != nil {
			return nil, err
		}
		calculated = checkpoint.Balance + net

	default:
		snapshot, err := store.GetEarliestSnapshot(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if snapshot != nil {
			net, _, err := store.NetAll(ctx, accountID)
			if err != nil {
				return nil, fmt.Errorf("failed to net transactions: %w", err)
			}
			calculated = snapshot.Balance + net
		}
	}

	return &Result{
		StoredBalance:     account.Balance,
		CalculatedBalance: calculated,
		Difference:        account.Balance - calculated,
	}, nil
}
