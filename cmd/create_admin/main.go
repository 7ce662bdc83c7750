package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"moblind/internal/config"
	"moblind/internal/database"
	"moblind/internal/logging"
	"moblind/internal/services"
)

type options struct {
	username string
	email    string
	password string
	admin    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "create_admin",
		Short: "Create a staff account that can read submitted inquiries",
		Long: `Creates a staff account in the configured database.
The password may be given with --password or the ADMIN_PASSWORD environment variable.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.username, "username", "admin", "account username")
	flags.StringVar(&opts.email, "email", "", "account email address")
	flags.StringVar(&opts.password, "password", "", "account password (at least 8 characters)")
	flags.BoolVar(&opts.admin, "admin", false, "grant administrator rights")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runCreate(cmd *cobra.Command, opts *options) error {
	if opts.password == "" {
		opts.password = os.Getenv("ADMIN_PASSWORD")
	}
	if opts.password == "" {
		return fmt.Errorf("a password is required: pass --password or set ADMIN_PASSWORD")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.App.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := database.Init(logger.Named("database")); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warn("error closing database", zap.Error(err))
		}
	}()

	// Account creation never issues tokens.
	auth := services.NewAuthService(database.GetDB(), nil, logger)
	user, err := auth.CreateUser(cmd.Context(), &services.CreateUserPayload{
		Username: opts.username,
		Email:    opts.email,
		Password: opts.password,
		IsAdmin:  opts.admin,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	role := "staff"
	if user.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s account %q (id %d)\n", role, user.Username, user.ID)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
