package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/hearthfin/hearth/internal/cli"
	"github.com/hearthfin/hearth/internal/common"
	"github.com/hearthfin/hearth/internal/csvdetect"
	"github.com/hearthfin/hearth/internal/importer"
	"github.com/hearthfin/hearth/internal/model"
	"github.com/hearthfin/hearth/internal/service"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import transactions from a CSV export",
		Long: `Import a bank CSV export. The column layout comes from, in order of
preference: a saved mapping (--mapping), explicit column flags, or automatic
detection. Rows that match learned patterns are categorized on the way in,
and a running-balance column updates the account's stored balance.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("mapping", "", "name of a saved column mapping to use")
	cmd.Flags().String("save-mapping", "", "save the resolved mapping under this name")
	cmd.Flags().Int64("account", 0, "account id to import into")
	cmd.Flags().String("date-col", "", "date column header")
	cmd.Flags().String("desc-col", "", "description column header")
	cmd.Flags().String("amount-col", "", "amount column header")
	cmd.Flags().String("type-col", "", "type column header (optional)")
	cmd.Flags().String("balance-col", "", "running balance column header (optional)")
	cmd.Flags().String("date-format", "", "date format, e.g. YYYY-MM-DD or DD/MM/YYYY")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	csvText, err := readFileArg(args[0])
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	householdID, userID, err := requireHousehold(ctx, store)
	if err != nil {
		return err
	}

	mapping, err := resolveMapping(cmd, store, householdID, csvText)
	if err != nil {
		return err
	}

	var accountID *int64
	if id, _ := cmd.Flags().GetInt64("account"); id > 0 {
		// Scope check up front so a typo fails before anything is written.
		if _, err := store.GetAccount(ctx, id, householdID); err != nil {
			return err
		}
		accountID = &id
	}

	imp := importer.New(store)
	var bar *progressbar.ProgressBar
	imp.Progress = func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Importing transactions..."),
			)
		}
		if err := bar.Set(done); err != nil {
			slog.Warn("failed to update progress bar", "error", err)
		}
	}

	result, err := imp.Import(ctx, householdID, userID, csvText, mapping, accountID)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transaction(s) in batch %d", result.Imported, result.BatchID)))
	if result.Failed > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("Skipped %d unparseable row(s); see the log for details", result.Failed)))
	}
	if accountID != nil && result.FinalBalance != nil {
		fmt.Println(cli.FormatInfo(fmt.Sprintf("Account balance updated to %.2f from the statement", *result.FinalBalance)))
	}

	if name, _ := cmd.Flags().GetString("save-mapping"); name != "" {
		saved := &model.CSVMapping{
			HouseholdID:       householdID,
			Name:              name,
			DateColumn:        mapping.DateColumn,
			DescriptionColumn: mapping.DescriptionColumn,
			AmountColumn:      mapping.AmountColumn,
			TypeColumn:        mapping.TypeColumn,
			BalanceColumn:     mapping.BalanceColumn,
			DateFormat:        mapping.DateFormat,
			Delimiter:         string(csvdetect.DetectDelimiter(csvText)),
			HasHeader:         true,
		}
		if err := store.SaveMapping(ctx, saved); err != nil {
			return fmt.Errorf("import succeeded but saving the mapping failed: %w", err)
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Saved mapping %q for next time", name)))
	}
	return nil
}

// resolveMapping builds the column mapping from a saved mapping, detection,
// or both. Explicit column flags override whatever the base mapping says.
func resolveMapping(cmd *cobra.Command, store service.Storage, householdID int64, csvText string) (csvdetect.ColumnMapping, error) {
	var mapping csvdetect.ColumnMapping

	if name, _ := cmd.Flags().GetString("mapping"); name != "" {
		saved, err := store.GetMappingByName(cmd.Context(), householdID, name)
		if err != nil {
			return mapping, err
		}
		mapping = csvdetect.ColumnMapping{
			DateColumn:        saved.DateColumn,
			DescriptionColumn: saved.DescriptionColumn,
			AmountColumn:      saved.AmountColumn,
			TypeColumn:        saved.TypeColumn,
			BalanceColumn:     saved.BalanceColumn,
			DateFormat:        saved.DateFormat,
		}
	} else {
		detection, err := csvdetect.Detect(csvText)
		if err != nil {
			return mapping, err
		}
		mapping = detection.Suggested
	}

	for flag, target := range map[string]*string{
		"date-col":    &mapping.DateColumn,
		"desc-col":    &mapping.DescriptionColumn,
		"amount-col":  &mapping.AmountColumn,
		"type-col":    &mapping.TypeColumn,
		"balance-col": &mapping.BalanceColumn,
		"date-format": &mapping.DateFormat,
	} {
		if value, _ := cmd.Flags().GetString(flag); value != "" {
			*target = value
		}
	}

	if mapping.DateColumn == "" || mapping.AmountColumn == "" {
		return mapping, fmt.Errorf("%w: could not determine the date and amount columns; pass --date-col and --amount-col", common.ErrMalformedCSV)
	}
	return mapping, nil
}
