// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/gatehouse/gatehouse/internal/config"
	"github.com/gatehouse/gatehouse/internal/store"
)

// newMigrateCmd creates the migrate subcommand tree.
func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}

	cmd.PersistentFlags().String("database.url", "", "PostgreSQL connection URL")

	cmd.AddCommand(newMigrateUpCmd())
	cmd.AddCommand(newMigrateDownCmd())
	cmd.AddCommand(newMigrateStepsCmd())
	cmd.AddCommand(newMigrateVersionCmd())
	cmd.AddCommand(newMigrateForceCmd())
	cmd.AddCommand(newMigrateStatusCmd())

	return cmd
}

// openMigrator loads configuration and opens a migrator for the
// configured database.
func openMigrator(cmd *cobra.Command) (*store.Migrator, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	return store.NewMigrator(cfg.Database.URL)
}

func closeMigrator(cmd *cobra.Command, m *store.Migrator) {
	if err := m.Close(); err != nil {
		cmd.PrintErrln("warning: failed to close migrator:", err)
	}
}

func newMigrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			migrator, err := openMigrator(cmd)
			if err != nil {
				return err
			}
			defer closeMigrator(cmd, migrator)

			if err := migrator.Up(); err != nil {
				return err
			}
			cmd.Println("Migrations applied")
			return nil
		},
	}
}

func newMigrateDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations (drops all tables and data)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			migrator, err := openMigrator(cmd)
			if err != nil {
				return err
			}
			defer closeMigrator(cmd, migrator)

			if err := migrator.Down(); err != nil {
				return err
			}
			cmd.Println("Migrations rolled back")
			return nil
		},
	}
}

func newMigrateStepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "steps <n>",
		Short: "Apply n migrations (negative n rolls back)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return oops.Code("INVALID_ARGUMENT").Errorf("steps must be an integer, got %q", args[0])
			}

			migrator, err := openMigrator(cmd)
			if err != nil {
				return err
			}
			defer closeMigrator(cmd, migrator)

			if err := migrator.Steps(n); err != nil {
				return err
			}
			cmd.Printf("Applied %d migration step(s)\n", n)
			return nil
		},
	}
}

func newMigrateVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the current migration version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			migrator, err := openMigrator(cmd)
			if err != nil {
				return err
			}
			defer closeMigrator(cmd, migrator)

			version, dirty, err := migrator.Version()
			if err != nil {
				return err
			}
			if version == 0 {
				cmd.Println("No migrations applied")
				return nil
			}

			name, err := store.MigrationName(version)
			if err != nil {
				return err
			}
			if name == "" {
				name = "unknown"
			}
			cmd.Printf("Version: %d (%s), dirty: %v\n", version, name, dirty)
			return nil
		},
	}
}

func newMigrateForceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "force <version>",
		Short: "Set the migration version without running migrations",
		Long: `Set the migration version without running migrations. Use only to
recover from a dirty state after fixing the database by hand.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil || version < 0 {
				return oops.Code("INVALID_ARGUMENT").Errorf("version must be a non-negative integer, got %q", args[0])
			}

			migrator, err := openMigrator(cmd)
			if err != nil {
				return err
			}
			defer closeMigrator(cmd, migrator)

			if err := migrator.Force(version); err != nil {
				return err
			}
			cmd.Printf("Forced version to %d\n", version)
			return nil
		},
	}
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			migrator, err := openMigrator(cmd)
			if err != nil {
				return err
			}
			defer closeMigrator(cmd, migrator)

			version, dirty, err := migrator.Version()
			if err != nil {
				return err
			}
			applied, err := migrator.AppliedMigrations()
			if err != nil {
				return err
			}
			pending, err := migrator.PendingMigrations()
			if err != nil {
				return err
			}

			cmd.Printf("Current version: %d, dirty: %v\n", version, dirty)

			cmd.Println("Applied:")
			if len(applied) == 0 {
				cmd.Println("  (none)")
			}
			for _, v := range applied {
				name, nameErr := store.MigrationName(v)
				if nameErr != nil {
					return nameErr
				}
				cmd.Printf("  %06d %s\n", v, name)
			}

			cmd.Println("Pending:")
			if len(pending) == 0 {
				cmd.Println("  (none)")
			}
			for _, v := range pending {
				name, nameErr := store.MigrationName(v)
				if nameErr != nil {
					return nameErr
				}
				cmd.Printf("  %06d %s\n", v, name)
			}
			return nil
		},
	}
}
