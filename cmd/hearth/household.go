package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hearthfin/hearth/internal/cli"
	"github.com/hearthfin/hearth/internal/model"
)

func householdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "household",
		Short: "Manage households and membership",
		Long:  `Create households, add members, and adjust household-wide settings such as the budget cycle start day.`,
	}

	cmd.AddCommand(createHouseholdCmd())
	cmd.AddCommand(showHouseholdCmd())
	cmd.AddCommand(addMemberCmd())
	cmd.AddCommand(settingsCmd())

	return cmd
}

func createHouseholdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new household",
		Long: `Create a household owned by the current user and seed it with the
default income and expense categories.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			currency, _ := cmd.Flags().GetString("currency")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			user, err := currentUser()
			if err != nil {
				return err
			}

			h, err := store.CreateHousehold(ctx, args[0], currency, user)
			if err != nil {
				return fmt.Errorf("failed to create household: %w", err)
			}

			if err := store.EnsureDefaultCategories(ctx, h.ID); err != nil {
				return fmt.Errorf("failed to seed default categories: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created household %q (id %d)", h.Name, h.ID)))
			fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("Select it with --household %d or set household.id in your config.", h.ID)))
			return nil
		},
	}

	cmd.Flags().String("currency", "USD", "household currency code")
	return cmd
}

func showHouseholdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the selected household",
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

			h, err := store.GetHousehold(ctx, householdID)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle(h.Name))
			fmt.Printf("Currency:           %s\n", h.Currency)
			fmt.Printf("Budget cycle start: day %d\n", h.CycleStart)
			fmt.Printf("Created by:         %s\n", h.CreatedBy)
			return nil
		},
	}
}

func addMemberCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-member <user-id>",
		Short: "Add a member to the selected household",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			admin, _ := cmd.Flags().GetBool("admin")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			householdID, _, err := requireHousehold(ctx, store)
			if err != nil {
				return err
			}

			role := model.RoleMember
			if admin {
				role = model.RoleAdmin
			}
			if err := store.AddMember(ctx, householdID, args[0], role); err != nil {
				return fmt.Errorf("failed to add member: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %s as %s", args[0], role)))
			return nil
		},
	}

	cmd.Flags().Bool("admin", false, "grant the new member the admin role")
	return cmd
}

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Update household settings",
		Long: `Update the household currency and the day of the month each budget
cycle starts on. A cycle start of 25 makes budget periods run from the 25th
of one month through the 24th of the next, which suits payday-aligned
budgeting.`,
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

			h, err := store.GetHousehold(ctx, householdID)
			if err != nil {
				return err
			}

			currency := h.Currency
			if cmd.Flags().Changed("currency") {
				currency, _ = cmd.Flags().GetString("currency")
			}
			cycleStart := h.CycleStart
			if cmd.Flags().Changed("cycle-start") {
				cycleStart, _ = cmd.Flags().GetInt("cycle-start")
			}

			if err := store.UpdateHouseholdSettings(ctx, householdID, currency, cycleStart); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Settings updated: currency %s, cycle start day %d", currency, cycleStart)))
			return nil
		},
	}

	cmd.Flags().String("currency", "", "household currency code")
	cmd.Flags().Int("cycle-start", 0, "day of month each budget cycle starts on (1-31)")
	return cmd
}
