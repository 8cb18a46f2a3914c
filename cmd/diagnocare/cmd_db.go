package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/diagnocare/app/models"
	"github.com/shashiranjanraj/diagnocare/database/seeders"
	"github.com/shashiranjanraj/diagnocare/internal/kernel"
	"github.com/shashiranjanraj/diagnocare/pkg/database"
)

// diagnocare seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, _, err := database.Connect(ctx, models.UniqueFields())
		if err != nil {
			return err
		}
		defer db.Close(ctx) //nolint:errcheck

		fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
		return seeders.RunAll(ctx, db, cmd.OutOrStdout())
	},
}

// diagnocare user:promote <email>
var promoteCmd = &cobra.Command{
	Use:   "user:promote <email>",
	Short: "Grant the admin role to a registered user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		k, err := kernel.Boot(ctx)
		if err != nil {
			return err
		}
		defer k.Shutdown(ctx) //nolint:errcheck

		if err := k.Auth.Promote(ctx, args[0]); err != nil {
			return fmt.Errorf("promote %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅  %s is now an admin\n", args[0])
		return nil
	},
}
