package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hearthfin/hearth/internal/cli"
	"github.com/hearthfin/hearth/internal/model"
	"github.com/hearthfin/hearth/internal/period"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Manage category budgets",
		Long:  `Set spending caps per category and track them against the household's budget cycle.`,
	}

	cmd.AddCommand(listBudgetsCmd())
	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(deleteBudgetCmd())
	cmd.AddCommand(budgetProgressCmd())

	return cmd
}

func listBudgetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all budgets",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			budgets, err := store.ListBudgets(ctx, householdID)
			if err != nil {
				return fmt.Errorf("failed to list budgets: %w", err)
			}
			if len(budgets) == 0 {
				fmt.Println(cli.FormatInfo("No budgets yet. Use 'hearth budgets set' to create one."))
				return nil
			}

			categoryNames, err := categoryNameIndex(ctx, store, householdID)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ID\tCATEGORY\tAMOUNT\tPERIOD\tSINCE")
			for _, budget := range budgets {
				fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%s\n",
					budget.ID,
					categoryNames[budget.CategoryID],
					budget.Amount,
					budget.Period,
					budget.StartDate.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func setBudgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <category-id> <amount>",
		Short: "Set a budget for a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			periodStr, _ := cmd.Flags().GetString("period")

			categoryID, err := parseID(args[0], "category id")
			if err != nil {
				return err
			}
			var amount float64
			if _, err := fmt.Sscanf(args[1], "%f", &amount); err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
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

			// The category must exist in this household.
			category, err := store.GetCategoryByID(ctx, categoryID, householdID)
			if err != nil {
				return err
			}

			budget := &model.Budget{
				HouseholdID: householdID,
				CategoryID:  categoryID,
				Amount:      amount,
				Period:      model.BudgetPeriodType(periodStr),
				StartDate:   time.Now().UTC().Truncate(24 * time.Hour),
			}
			if err := store.CreateBudget(ctx, budget); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Budget set: %s %.2f per %s cycle", category.Name, amount, budget.Period)))
			return nil
		},
	}

	cmd.Flags().String("period", "monthly", "budget recurrence (monthly or yearly)")
	return cmd
}

func deleteBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <budget-id>",
		Short: "Delete a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			budgetID, err := parseID(args[0], "budget id")
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

			if err := store.DeleteBudget(ctx, budgetID, householdID); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Budget deleted"))
			return nil
		},
	}
}

func budgetProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show spend against budgets for a budget period",
		Long: `Show each monthly budget's live spend inside one budget cycle. Cycles
follow the household's configured start day, so with cycle start 25 the
current period runs from the 25th of one month through the 24th of the next.
Yearly budgets are tracked against the calendar year instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ago, _ := cmd.Flags().GetInt("ago")
			yearly, _ := cmd.Flags().GetBool("yearly")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			householdID, _, err := requireHousehold(ctx, store)
			if err != nil {
				return err
			}

			h, err := store.GetHousehold(ctx, householdID)
			if err != nil {
				return err
			}

			periodType := model.BudgetMonthly
			var startStr, endStr, label string
			if yearly {
				periodType = model.BudgetYearly
				year := time.Now().Year() - ago
				startStr = fmt.Sprintf("%d-01-01", year)
				endStr = fmt.Sprintf("%d-12-31", year)
				label = fmt.Sprintf("%d", year)
			} else {
				p := period.NAgo(h.CycleStart, ago, time.Now())
				startStr, endStr = p.StartStr, p.EndStr
				label = p.Label()
			}

			lines, err := store.BudgetProgress(ctx, householdID, periodType, startStr, endStr)
			if err != nil {
				return fmt.Errorf("failed to compute budget progress: %w", err)
			}

			fmt.Println(cli.FormatTitle("Budgets: " + label))
			if len(lines) == 0 {
				fmt.Println(cli.FormatInfo("No budgets for this period type."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "CATEGORY\tSPENT\tBUDGET\tUSED\t")
			for _, line := range lines {
				used := 0.0
				if line.Budget.Amount > 0 {
					used = line.Spent / line.Budget.Amount * 100
				}
				marker := ""
				switch {
				case used > 100:
					marker = cli.ErrorStyle.Render("over budget")
				case used > 80:
					marker = cli.WarningStyle.Render("nearly there")
				}
				fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.0f%%\t%s\n",
					line.CategoryName, line.Spent, line.Budget.Amount, used, marker)
			}
			return nil
		},
	}

	cmd.Flags().Int("ago", 0, "how many periods back (0 for the current one)")
	cmd.Flags().Bool("yearly", false, "show yearly budgets against the calendar year")
	return cmd
}
