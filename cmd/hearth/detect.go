package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hearthfin/hearth/internal/cli"
	"github.com/hearthfin/hearth/internal/csvdetect"
)

func detectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file.csv>",
		Short: "Inspect a CSV export and guess its column layout",
		Long: `Parse a sample of the CSV file, detect the delimiter, and guess which
columns carry the date, description, amount, type, and running balance.
The guess is advisory; confirm or correct it when importing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			csvText, err := readFileArg(args[0])
			if err != nil {
				return err
			}

			detection, err := csvdetect.Detect(csvText)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle("CSV structure"))
			fmt.Printf("Delimiter: %q\n", detection.Delimiter)
			fmt.Printf("Columns:   %d\n\n", len(detection.Headers))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ROLE\tCOLUMN")
			printRole := func(role, column string) {
				if column == "" {
					column = cli.SubtleStyle.Render("(not detected)")
				}
				fmt.Fprintf(w, "%s\t%s\n", role, column)
			}
			printRole("date", detection.Suggested.DateColumn)
			printRole("description", detection.Suggested.DescriptionColumn)
			printRole("amount", detection.Suggested.AmountColumn)
			printRole("type", detection.Suggested.TypeColumn)
			printRole("balance", detection.Suggested.BalanceColumn)
			if err := w.Flush(); err != nil {
				return err
			}

			if len(detection.Samples) > 0 {
				fmt.Println()
				fmt.Println(cli.BoldStyle.Render("First row:"))
				for _, header := range detection.Headers {
					fmt.Printf("  %s = %s\n", header, detection.Samples[0][header])
				}
			}
			return nil
		},
	}
}
