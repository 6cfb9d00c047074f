package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hearthfin/hearth/internal/cli"
	"github.com/hearthfin/hearth/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage income and expense categories",
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(seedCategoriesCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
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

			categories, err := store.GetCategories(ctx, householdID)
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}
			if len(categories) == 0 {
				fmt.Println(cli.FormatInfo("No categories. Use 'hearth categories seed' for the defaults or 'add' for your own."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ID\tNAME\tTYPE\tCOLOR")
			for _, category := range categories {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", category.ID, category.Name, category.Type, category.Color)
			}
			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			typeStr, _ := cmd.Flags().GetString("type")
			color, _ := cmd.Flags().GetString("color")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			householdID, _, err := requireHousehold(ctx, store)
			if err != nil {
				return err
			}

			category, err := store.CreateCategory(ctx, householdID, args[0], model.CategoryType(typeStr), color)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created category %q (id %d)", category.Name, category.ID)))
			return nil
		},
	}

	cmd.Flags().String("type", "expense", "category type (income or expense)")
	cmd.Flags().String("color", "", "hex color for charts (default theme blue)")
	return cmd
}

func seedCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the default categories and patterns",
		Long: `Create the stock set of income and expense categories together with
their keyword patterns. Does nothing if the household already has any
category.`,
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

			if err := store.EnsureDefaultCategories(ctx, householdID); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Default categories in place"))
			return nil
		},
	}
}
