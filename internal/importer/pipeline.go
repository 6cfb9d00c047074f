// Package importer runs the CSV import pipeline: parse, map columns, parse
// amounts and dates, auto-categorize, persist, and roll the account balance
// forward from the statement's running balance.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/hearthfin/hearth/internal/categorize"
	"github.com/hearthfin/hearth/internal/common"
	"github.com/hearthfin/hearth/internal/csvdetect"
	"github.com/hearthfin/hearth/internal/model"
	"github.com/hearthfin/hearth/internal/money"
	"github.com/hearthfin/hearth/internal/service"
)

// Result summarizes one import run.
type Result struct {
	// FinalBalance is the last running balance seen in the file, nil when the
	// file has no balance column.
	FinalBalance *float64
	BatchID      int64
	Imported     int
	Failed       int
}

// Importer drives the import pipeline against the storage layer.
type Importer struct {
	store service.Storage

	// Progress, when set, is invoked after each data row with (done, total).
	Progress func(done, total int)
}

// New creates an importer.
func New(store service.Storage) *Importer {
	return &Importer{store: store}
}

// Import parses the CSV text and persists its rows as transactions for the
// household. Rows are processed strictly in file order. A file that cannot be
// parsed at all aborts with ErrMalformedCSV; individual rows with bad dates,
// bad amounts, or persistence failures are skipped and counted, never fatal.
func (imp *Importer) Import(ctx context.Context, householdID int64, userID, csvText string, mapping csvdetect.ColumnMapping, accountID *int64) (*Result, error) {
	headers, records, err := parseAll(csvText)
	if err != nil {
		return nil, err
	}

	index, err := columnIndex(headers, mapping)
	if err != nil {
		return nil, err
	}

	// One pattern load serves the whole batch.
	patterns, err := imp.store.GetPatterns(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to load patterns: %w", err)
	}

	result := &Result{BatchID: time.Now().UnixMilli()}
	total := len(records)

	for i, record := range records {
		txn, rowErr := imp.buildTransaction(record, index, mapping, patterns)
		if rowErr != nil {
			result.Failed++
			slog.Warn("skipping unparseable row",
				"row", i+2,
				"error", rowErr)
		} else {
			txn.HouseholdID = householdID
			txn.AccountID = accountID
			txn.ImportBatchID = &result.BatchID
			txn.CreatedBy = userID

			if err := imp.store.SaveTransaction(ctx, txn); err != nil {
				result.Failed++
				slog.Warn("failed to save imported row",
					"row", i+2,
					"error", err)
			} else {
				result.Imported++
				if txn.BalanceAfter != nil {
					result.FinalBalance = txn.BalanceAfter
				}
			}
		}

		if imp.Progress != nil {
			imp.Progress(i+1, total)
		}
	}

	// The statement's closing balance becomes the account's stored balance.
	if accountID != nil && result.FinalBalance != nil {
		if err := imp.store.UpdateAccountBalance(ctx, *accountID, *result.FinalBalance); err != nil {
			return nil, fmt.Errorf("failed to update account balance: %w", err)
		}
	}

	slog.Info("import finished",
		"household_id", householdID,
		"batch_id", result.BatchID,
		"imported", result.Imported,
		"failed", result.Failed)
	return result, nil
}

// buildTransaction converts one CSV record into a transaction, categorizing
// it against the preloaded patterns.
func (imp *Importer) buildTransaction(record []string, index columnIndexes, mapping csvdetect.ColumnMapping, patterns []model.Pattern) (*model.Transaction, error) {
	date, err := parseRowDate(fieldAt(record, index.date), mapping.DateFormat)
	if err != nil {
		return nil, err
	}

	rawAmount := fieldAt(record, index.amount)
	amount, err := money.ParseAmount(rawAmount)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(fieldAt(record, index.description))
	if description == "" {
		description = "Unknown"
	}

	txn := &model.Transaction{
		Date:        date,
		Description: description,
		Type:        determineType(fieldAt(record, index.typ), amount),
	}
	if amount < 0 {
		amount = -amount
	}
	txn.Amount = amount

	if index.balance >= 0 {
		if raw := strings.TrimSpace(fieldAt(record, index.balance)); raw != "" {
			balance, err := money.ParseAmount(raw)
			if err != nil {
				return nil, err
			}
			txn.BalanceAfter = &balance
		}
	}

	if categoryID, ok := categorize.Categorize(description, patterns); ok {
		txn.CategoryID = &categoryID
	}
	return txn, nil
}

// determineType classifies a row as income or expense. A credit/income type
// column marks income, and so does a positive raw amount even when the type
// column says otherwise; everything else is an expense.
func determineType(typeValue string, signedAmount float64) model.TransactionType {
	if typeValue != "" {
		lower := strings.ToLower(typeValue)
		if strings.Contains(lower, "credit") || strings.Contains(lower, "income") || signedAmount > 0 {
			return model.TypeIncome
		}
		return model.TypeExpense
	}
	if signedAmount > 0 {
		return model.TypeIncome
	}
	return model.TypeExpense
}

// parseAll reads the entire file up front so a malformed file aborts before
// any row is persisted.
func parseAll(csvText string) ([]string, [][]string, error) {
	r := csv.NewReader(strings.NewReader(csvText))
	r.Comma = csvdetect.DetectDelimiter(csvText)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrMalformedCSV, err)
	}

	var records [][]string
	for {
		record, readErr := r.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, nil, fmt.Errorf("%w: %v", common.ErrMalformedCSV, readErr)
		}
		if isEmptyRecord(record) {
			continue
		}
		records = append(records, record)
	}
	return headers, records, nil
}

func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// columnIndexes holds the positions of the mapped columns. Optional columns
// are -1 when absent.
type columnIndexes struct {
	date        int
	description int
	amount      int
	typ         int
	balance     int
}

func columnIndex(headers []string, mapping csvdetect.ColumnMapping) (columnIndexes, error) {
	index := columnIndexes{
		date:        headerIndex(headers, mapping.DateColumn),
		description: headerIndex(headers, mapping.DescriptionColumn),
		amount:      headerIndex(headers, mapping.AmountColumn),
		typ:         headerIndex(headers, mapping.TypeColumn),
		balance:     headerIndex(headers, mapping.BalanceColumn),
	}
	if index.date < 0 {
		return index, fmt.Errorf("%w: date column %q not found", common.ErrMalformedCSV, mapping.DateColumn)
	}
	if index.amount < 0 {
		return index, fmt.Errorf("%w: amount column %q not found", common.ErrMalformedCSV, mapping.AmountColumn)
	}
	return index, nil
}

func headerIndex(headers []string, name string) int {
	if name == "" {
		return -1
	}
	for i, header := range headers {
		if strings.EqualFold(strings.TrimSpace(header), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

func fieldAt(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

// dateLayouts are tried in order when the mapping's declared format fails.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
	"02.01.2006",
	"Jan 2, 2006",
}

// formatTokens translates the mapping's spreadsheet-style date format into a
// Go reference layout.
var formatTokens = strings.NewReplacer(
	"YYYY", "2006",
	"YY", "06",
	"MM", "01",
	"DD", "02",
)

func parseRowDate(raw, declaredFormat string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", common.ErrInvalidDate)
	}

	if declaredFormat != "" {
		if t, err := time.Parse(formatTokens.Replace(declaredFormat), raw); err == nil {
			return t, nil
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", common.ErrInvalidDate, raw)
}
