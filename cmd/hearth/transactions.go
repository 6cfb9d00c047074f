package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hearthfin/hearth/internal/categorize"
	"github.com/hearthfin/hearth/internal/cli"
	"github.com/hearthfin/hearth/internal/model"
	"github.com/hearthfin/hearth/internal/period"
	"github.com/hearthfin/hearth/internal/service"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List and manage transactions",
	}

	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(deleteTransactionCmd())
	cmd.AddCommand(categorizeTransactionCmd())

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			limit, _ := cmd.Flags().GetInt("limit")
			accountID, _ := cmd.Flags().GetInt64("account")
			categoryID, _ := cmd.Flags().GetInt64("category")
			currentPeriod, _ := cmd.Flags().GetBool("period")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			householdID, _, err := requireHousehold(ctx, store)
			if err != nil {
				return err
			}

			filter := service.TransactionFilter{Limit: limit}
			if accountID > 0 {
				filter.AccountID = &accountID
			}
			if categoryID > 0 {
				filter.CategoryID = &categoryID
			}
			if currentPeriod {
				h, err := store.GetHousehold(ctx, householdID)
				if err != nil {
					return err
				}
				p := period.Current(h.CycleStart, time.Now())
				filter.StartDate = &p.Start
				filter.EndDate = &p.End
				fmt.Println(cli.SubtleStyle.Render("Period: " + p.Label()))
			}

			transactions, err := store.GetTransactions(ctx, householdID, filter)
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}
			if len(transactions) == 0 {
				fmt.Println(cli.FormatInfo("No transactions found."))
				return nil
			}

			categoryNames, err := categoryNameIndex(ctx, store, householdID)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "DATE\tDESCRIPTION\tAMOUNT\tCATEGORY\tID")
			for _, txn := range transactions {
				category := "-"
				if txn.CategoryID != nil {
					if name, ok := categoryNames[*txn.CategoryID]; ok {
						category = name
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%+.2f\t%s\t%s\n",
					txn.Date.Format("2006-01-02"),
					txn.Description,
					txn.Signed(),
					category,
					txn.ID)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 50, "maximum rows to show (0 for all)")
	cmd.Flags().Int64("account", 0, "filter by account id")
	cmd.Flags().Int64("category", 0, "filter by category id")
	cmd.Flags().Bool("period", false, "only the current budget period")
	return cmd
}

func addTransactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <description> <amount>",
		Short: "Add a manual transaction",
		Long: `Record a transaction by hand. Negative amounts are expenses, positive
amounts income, unless --type says otherwise. The description is matched
against learned patterns for automatic categorization.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dateStr, _ := cmd.Flags().GetString("date")
			typeStr, _ := cmd.Flags().GetString("type")
			accountID, _ := cmd.Flags().GetInt64("account")
			excluded, _ := cmd.Flags().GetBool("excluded")

			var amount float64
			if _, err := fmt.Sscanf(args[1], "%f", &amount); err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}

			date := time.Now().UTC().Truncate(24 * time.Hour)
			if dateStr != "" {
				parsed, err := time.Parse("2006-01-02", dateStr)
				if err != nil {
					return fmt.Errorf("invalid date %q, want YYYY-MM-DD", dateStr)
				}
				date = parsed
			}

			txnType := model.TypeExpense
			switch {
			case typeStr == "income":
				txnType = model.TypeIncome
			case typeStr == "expense":
			case typeStr == "" && amount > 0:
				txnType = model.TypeIncome
			case typeStr != "":
				return fmt.Errorf("invalid type %q, want income or expense", typeStr)
			}
			if amount < 0 {
				amount = -amount
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

			txn := &model.Transaction{
				HouseholdID: householdID,
				Date:        date,
				Description: args[0],
				Amount:      amount,
				Type:        txnType,
				CreatedBy:   userID,
				Excluded:    excluded,
			}
			if accountID > 0 {
				txn.AccountID = &accountID
			}

			patterns, err := store.GetPatterns(ctx, householdID)
			if err != nil {
				return err
			}
			if categoryID, ok := categorize.Categorize(txn.Description, patterns); ok {
				txn.CategoryID = &categoryID
			}

			if err := store.SaveTransaction(ctx, txn); err != nil {
				return fmt.Errorf("failed to save transaction: %w", err)
			}
			if err := applyBalanceAdjustment(ctx, store, householdID, txn); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s %.2f (%s)", txn.Type, txn.Amount, txn.ID)))
			if txn.CategoryID == nil {
				fmt.Println(cli.SubtleStyle.Render("Uncategorized. Use 'hearth tx categorize' to assign a category and teach a pattern."))
			}
			return nil
		},
	}

	cmd.Flags().String("date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().String("type", "", "income or expense (default from amount sign)")
	cmd.Flags().Int64("account", 0, "account id to book against")
	cmd.Flags().Bool("excluded", false, "exclude from budgets and reports")
	return cmd
}

func deleteTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			householdID, _, err := requireHousehold(ctx, store)
			if err != nil {
				return err
			}

			if err := store.DeleteTransaction(ctx, args[0], householdID); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Transaction deleted"))
			return nil
		},
	}
}

func categorizeTransactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize <transaction-id> <category-id>",
		Short: "Assign a category and learn from it",
		Long: `Set the transaction's category and learn a keyword pattern from its
description so similar transactions categorize automatically. With --apply,
other uncategorized transactions matching the keyword get the category too.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			apply, _ := cmd.Flags().GetBool("apply")

			categoryID, err := parseID(args[1], "category id")
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			householdID, _, err := requireHousehold(ctx, store)
			if err != nil {
				return err
			}

			svc := categorize.NewService(store)
			keyword, err := svc.Recategorize(ctx, householdID, args[0], categoryID)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Category assigned"))
			if keyword == "" {
				return nil
			}
			fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("Learned pattern %q", keyword)))

			if !apply {
				return nil
			}
			matches, err := svc.FindMatches(ctx, householdID, keyword, args[0])
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				return nil
			}
			ids := make([]string, len(matches))
			for i, match := range matches {
				ids[i] = match.ID
			}
			applied, err := svc.BulkApply(ctx, householdID, categoryID, ids)
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Applied to %d matching transaction(s)", applied)))
			return nil
		},
	}

	cmd.Flags().Bool("apply", false, "also categorize matching uncategorized transactions")
	return cmd
}

// applyBalanceAdjustment rolls a manually booked transaction into its
// account's stored balance: income adds, expense subtracts. Transactions
// without an account leave every balance untouched.
func applyBalanceAdjustment(ctx context.Context, store service.Storage, householdID int64, txn *model.Transaction) error {
	if txn.AccountID == nil {
		return nil
	}
	account, err := store.GetAccount(ctx, *txn.AccountID, householdID)
	if err != nil {
		return err
	}

	balance := account.Balance
	if txn.Type == model.TypeIncome {
		balance += txn.Amount
	} else {
		balance -= txn.Amount
	}
	if err := store.UpdateAccountBalance(ctx, *txn.AccountID, balance); err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}
	return nil
}

func categoryNameIndex(ctx context.Context, store service.Storage, householdID int64) (map[int64]string, error) {
	categories, err := store.GetCategories(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	index := make(map[int64]string, len(categories))
	for _, category := range categories {
		index[category.ID] = category.Name
	}
	return index, nil
}
