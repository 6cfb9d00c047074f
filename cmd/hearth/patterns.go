package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hearthfin/hearth/internal/categorize"
	"github.com/hearthfin/hearth/internal/cli"
)

func patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Manage categorization patterns",
		Long:  `Inspect and teach the keyword patterns that categorize transactions automatically.`,
	}

	cmd.AddCommand(listPatternsCmd())
	cmd.AddCommand(learnPatternCmd())
	cmd.AddCommand(suggestPatternCmd())

	return cmd
}

func listPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List patterns in match order",
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

			patterns, err := store.GetPatterns(ctx, householdID)
			if err != nil {
				return fmt.Errorf("failed to list patterns: %w", err)
			}
			if len(patterns) == 0 {
				fmt.Println(cli.FormatInfo("No patterns yet. Categorize a transaction or use 'hearth patterns learn'."))
				return nil
			}

			categoryNames, err := categoryNameIndex(ctx, store, householdID)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "PRIORITY\tKEYWORDS\tCATEGORY\tSOURCE")
			for _, p := range patterns {
				source := "learned"
				if p.IsDefault {
					source = "default"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.Priority, p.Keywords, categoryNames[p.CategoryID], source)
			}
			return nil
		},
	}
}

func learnPatternCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learn <keyword> <category-id>",
		Short: "Teach a keyword pattern",
		Long: `Map descriptions containing the keyword to the category. With --apply,
existing uncategorized transactions that match are categorized immediately.`,
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
			isNew, err := svc.Learn(ctx, householdID, categoryID, args[0])
			if err != nil {
				return err
			}
			if isNew {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Learned pattern %q", args[0])))
			} else {
				fmt.Println(cli.FormatInfo(fmt.Sprintf("Pattern %q updated", args[0])))
			}

			if !apply {
				return nil
			}
			matches, err := svc.FindMatches(ctx, householdID, args[0], "")
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No uncategorized transactions match."))
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
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Categorized %d matching transaction(s)", applied)))
			return nil
		},
	}

	cmd.Flags().Bool("apply", false, "also categorize matching uncategorized transactions")
	return cmd
}

func suggestPatternCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <description>",
		Short: "Show the keyword that would be learned from a description",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			keyword := categorize.SuggestPattern(args[0])
			if keyword == "" {
				fmt.Println(cli.FormatWarning("No usable keyword in that description."))
				return
			}
			fmt.Println(keyword)
		},
	}
}
