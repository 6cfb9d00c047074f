package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hearthfin/hearth/internal/cli"
)

func mappingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mappings",
		Short: "Manage saved CSV column mappings",
		Long:  `List and inspect the named column mappings saved from previous imports.`,
	}

	cmd.AddCommand(listMappingsCmd())
	cmd.AddCommand(showMappingCmd())

	return cmd
}

func listMappingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved mappings",
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

			mappings, err := store.ListMappings(ctx, householdID)
			if err != nil {
				return fmt.Errorf("failed to list mappings: %w", err)
			}
			if len(mappings) == 0 {
				fmt.Println(cli.FormatInfo("No saved mappings. Import with --save-mapping to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "NAME\tDATE\tDESCRIPTION\tAMOUNT\tFORMAT\tDELIMITER")
			for _, mapping := range mappings {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%q\n",
					mapping.Name,
					mapping.DateColumn,
					mapping.DescriptionColumn,
					mapping.AmountColumn,
					mapping.DateFormat,
					mapping.Delimiter)
			}
			return nil
		},
	}
}

func showMappingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one saved mapping in full",
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

			mapping, err := store.GetMappingByName(ctx, householdID, args[0])
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle(mapping.Name))
			fmt.Printf("Date column:        %s\n", mapping.DateColumn)
			fmt.Printf("Description column: %s\n", mapping.DescriptionColumn)
			fmt.Printf("Amount column:      %s\n", mapping.AmountColumn)
			fmt.Printf("Type column:        %s\n", orDash(mapping.TypeColumn))
			fmt.Printf("Balance column:     %s\n", orDash(mapping.BalanceColumn))
			fmt.Printf("Date format:        %s\n", mapping.DateFormat)
			fmt.Printf("Delimiter:          %q\n", mapping.Delimiter)
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
