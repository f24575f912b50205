package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the migrate subcommand and its children.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE:  runMigrateUp,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recently applied migration",
		Args:  cobra.NoArgs,
		RunE:  runMigrateDown,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE:  runMigrateStatus,
	})

	return cmd
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer closeDatabase(db, log)

	if err := db.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	cmd.Println("Migrations completed successfully")
	return nil
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer closeDatabase(db, log)

	if err := db.MigrateDown(cmd.Context()); err != nil {
		return fmt.Errorf("rolling back migration: %w", err)
	}
	cmd.Println("Rolled back latest migration")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer closeDatabase(db, log)

	applied, pending, err := db.GetMigrationStatus(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading migration status: %w", err)
	}

	for _, m := range applied {
		cmd.Printf("applied  %s  (%s)\n", m.Version, m.AppliedAt.Format("2006-01-02 15:04:05"))
	}
	for _, m := range pending {
		cmd.Printf("pending  %s  %s\n", m.Version, m.Name)
	}
	if len(applied) == 0 && len(pending) == 0 {
		cmd.Println("No migrations found")
	}
	return nil
}
