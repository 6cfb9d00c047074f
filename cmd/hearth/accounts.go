package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hearthfin/hearth/internal/cli"
	"github.com/hearthfin/hearth/internal/model"
	"github.com/hearthfin/hearth/internal/reconcile"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage bank accounts",
		Long:  `List, add, update, and reconcile the household's bank accounts.`,
	}

	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(setBalanceCmd())
	cmd.AddCommand(deactivateAccountCmd())
	cmd.AddCommand(deleteAccountCmd())
	cmd.AddCommand(reconcileCmd())

	return cmd
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
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

			accounts, err := store.ListAccounts(ctx, householdID)
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}
			if len(accounts) == 0 {
				fmt.Println(cli.FormatInfo("No accounts yet. Use 'hearth accounts add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ID\tNAME\tTYPE\tINSTITUTION\tBALANCE\tSTATUS")
			for _, account := range accounts {
				status := "active"
				if !account.IsActive {
					status = "inactive"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					account.ID,
					account.Name,
					account.Type,
					account.Institution,
					formatMoney(account.Balance, account.Currency),
					status)
			}
			return nil
		},
	}
}

func addAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a bank account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			accountType, _ := cmd.Flags().GetString("type")
			institution, _ := cmd.Flags().GetString("institution")
			last4, _ := cmd.Flags().GetString("last4")
			balance, _ := cmd.Flags().GetFloat64("balance")
			currency, _ := cmd.Flags().GetString("currency")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			householdID, _, err := requireHousehold(ctx, store)
			if err != nil {
				return err
			}

			account := &model.Account{
				HouseholdID: householdID,
				Name:        args[0],
				Type:        model.AccountType(accountType),
				Institution: institution,
				NumberLast4: last4,
				Balance:     balance,
				Currency:    currency,
			}
			if err := store.CreateAccount(ctx, account); err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created account %q (id %d) with opening balance %s",
				account.Name, account.ID, formatMoney(account.Balance, account.Currency))))
			return nil
		},
	}

	cmd.Flags().String("type", "checking", "account type (checking, savings, credit_card, investment, other)")
	cmd.Flags().String("institution", "", "bank or institution name")
	cmd.Flags().String("last4", "", "last four digits of the account number")
	cmd.Flags().Float64("balance", 0, "opening balance")
	cmd.Flags().String("currency", "USD", "account currency code")
	return cmd
}

func setBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-balance <account-id> <balance>",
		Short: "Set an account's balance",
		Long: `Overwrite the stored balance and record a snapshot in the balance
history. Use after checking the real balance against your bank.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			accountID, err := parseID(args[0], "account id")
			if err != nil {
				return err
			}
			var balance float64
			if _, err := fmt.Sscanf(args[1], "%f", &balance); err != nil {
				return fmt.Errorf("invalid balance %q", args[1])
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

			// Scope check before the write.
			if _, err := store.GetAccount(ctx, accountID, householdID); err != nil {
				return err
			}
			if err := store.UpdateAccountBalance(ctx, accountID, balance); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Balance set to %.2f", balance)))
			return nil
		},
	}
}

func deactivateAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <account-id>",
		Short: "Deactivate an account",
		Long:  `Hide an account from import and entry flows while keeping its history.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			accountID, err := parseID(args[0], "account id")
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

			if err := store.SetAccountActive(ctx, accountID, householdID, false); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Account deactivated"))
			return nil
		},
	}
}

func deleteAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account-id>",
		Short: "Delete an account with no transactions",
		Long: `Delete an account. Accounts that already have transactions cannot be
deleted; deactivate them instead so past imports stay auditable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			accountID, err := parseID(args[0], "account id")
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

			if err := store.DeleteAccount(ctx, accountID, householdID); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Account deleted"))
			return nil
		},
	}
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <account-id>",
		Short: "Reconcile an account's stored balance against its history",
		Long: `Calculate the account balance from transaction history and compare it
with the stored balance. The calculation anchors on the latest statement
balance from an import when one exists, otherwise on the account's opening
balance snapshot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			accountID, err := parseID(args[0], "account id")
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

			result, err := reconcile.Reconcile(ctx, store, accountID, householdID)
			if err != nil {
				return err
			}

			account, err := store.GetAccount(ctx, accountID, householdID)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle("Reconciliation: " + account.Name))
			fmt.Printf("Stored balance:     %s\n", formatMoney(result.StoredBalance, account.Currency))
			fmt.Printf("Calculated balance: %s\n", formatMoney(result.CalculatedBalance, account.Currency))

			if result.Matches() {
				fmt.Println(cli.FormatSuccess("Balances match"))
				return nil
			}
			fmt.Println(cli.FormatWarning(fmt.Sprintf(
				"Balances differ by %s. Look for missing or duplicate transactions, or set the balance with 'hearth accounts set-balance'.",
				formatMoney(result.Difference, account.Currency))))
			return nil
		},
	}
}
