package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/database"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/logging"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/remote"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/seed"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/services"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/session"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/store"
)

// openDB connects and migrates; callers close it.
func openDB(cfg *config.Config) (*gorm.DB, error) {
	logging.Setup(cfg.LogLevel)
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(config.Load())
			if err != nil {
				return err
			}
			defer database.Close(db)
			fmt.Println("Schema is up to date.")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a YAML portfolio fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			cfg := config.Load()

			fixture, err := seed.Load(path)
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			// Writes publish on the configured broker so a running server
			// refreshes its mirror.
			broker, err := newBroker(cfg)
			if err != nil {
				return err
			}
			defer broker.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			st := store.New(remote.NewGormClient(db, broker, cfg.RemoteTimeout))
			if _, err := st.FetchAll(ctx); err != nil {
				return err
			}
			res, err := seed.Apply(ctx, st, services.NewAuthService(db, cfg), fixture)
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %d managers, %d properties, %d units, %d tenants, %d payments, %d accounts.\n",
				res.Managers, res.Properties, res.Units, res.Tenants, res.Payments, res.Accounts)
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "seed.yaml", "fixture file")
	return cmd
}

func createAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-account",
		Short: "Create a login for a super admin, manager or tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			role, _ := cmd.Flags().GetString("role")
			profile, _ := cmd.Flags().GetString("profile")

			cfg := config.Load()
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			user, err := services.NewAuthService(db, cfg).CreateAccount(&dto.CreateAccountRequest{
				Email:     email,
				Password:  password,
				Role:      session.Role(role),
				ProfileID: profile,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created %s account %s (%s).\n", user.Role, user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().String("email", "", "login email")
	cmd.Flags().String("password", "", "password, at least 8 characters")
	cmd.Flags().String("role", string(session.RoleSuperAdmin), "super_admin, manager or tenant")
	cmd.Flags().String("profile", "", "manager id for manager accounts")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
