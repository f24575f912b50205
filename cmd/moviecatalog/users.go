package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/movie-catalog/internal/auth"
)

// NewCreateUserCmd creates the create-user subcommand.
func NewCreateUserCmd() *cobra.Command {
	var (
		username string
		password string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account",
		Long:  `Create a user or admin account. Pending migrations are applied first.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			a, err := newApp(cfg, db, log)
			if err != nil {
				return err
			}

			u := &auth.User{Username: username, Password: password, Role: auth.Role(role)}
			if err := a.users.Create(cmd.Context(), u); err != nil {
				return fmt.Errorf("creating user: %w", err)
			}
			cmd.Printf("Created %s %q with id %d\n", u.Role, u.Username, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "account username (required)")
	cmd.Flags().StringVar(&password, "password", "", "account password (required)")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleUser), "account role: user or admin")
	cmd.MarkFlagRequired("username") //nolint:errcheck // flag is defined above
	cmd.MarkFlagRequired("password") //nolint:errcheck // flag is defined above

	return cmd
}
