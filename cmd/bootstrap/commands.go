package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/infrastructure/database"
	"clinic-management-api/internal/usecase"
	"clinic-management-api/pkg/validator"

	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "clinic-api",
		Short:         "Clinic management API: patients, expedientes, clinical history, agenda and reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newCreateAdminCommand())

	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := LoadConfig()
			if err != nil {
				return err
			}

			// Initialize application with all dependencies
			app, err := New(cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			// Run the application
			return app.Run()
		},
	}
}

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	withMigrator := func(fn func(*database.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, log, err := LoadConfig()
			if err != nil {
				return err
			}
			mg, err := database.NewMigrator(cfg.DB, log)
			if err != nil {
				return err
			}
			defer mg.Close()
			return fn(mg)
		}
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: withMigrator(func(mg *database.Migrator) error {
			return mg.Up()
		}),
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: withMigrator(func(mg *database.Migrator) error {
			return mg.Down(steps)
		}),
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current migration version",
		RunE: withMigrator(func(mg *database.Migrator) error {
			v, dirty, err := mg.Version()
			if err != nil {
				return err
			}
			fmt.Printf("version: %d dirty: %t\n", v, dirty)
			return nil
		}),
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

// newCreateAdminCommand creates the first administrator from ADMIN_* settings.
// An existing account with the same username or e-mail is left untouched.
func newCreateAdminCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create-admin",
		Short: "Create the initial administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := LoadConfig()
			if err != nil {
				return err
			}

			req := &dto.CreateUserRequest{
				Username:  cfg.Admin.Username,
				Email:     cfg.Admin.Email,
				Password:  cfg.Admin.Password,
				FirstName: "System",
				LastName:  "Administrator",
				RoleID:    entity.RoleIDAdmin,
			}
			v := validator.NewValidator()
			if err := v.Validate(req); err != nil {
				return fmt.Errorf("invalid ADMIN_* settings: %v", v.FormatValidationErrors(err))
			}

			app, err := New(cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer app.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			user, err := app.UserUsecase.CreateUser(ctx, req)
			switch {
			case errors.Is(err, usecase.ErrUsernameAlreadyExists), errors.Is(err, usecase.ErrEmailAlreadyExists):
				log.Infof("Administrator %q already exists", req.Username)
				return nil
			case err != nil:
				return fmt.Errorf("failed to create administrator: %w", err)
			}

			log.Infof("Administrator %q created with id %s", user.Username, user.ID)
			return nil
		},
	}
}
