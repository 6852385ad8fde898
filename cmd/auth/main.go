// Command auth runs the CMS authentication service and its administrative
// commands.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aussiebroadwan/cms/internal/auth/app"
	"github.com/aussiebroadwan/cms/internal/auth/domain"
	"github.com/aussiebroadwan/cms/internal/auth/service"
	"github.com/aussiebroadwan/cms/pkg/cryptox"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	serve := func(cmd *cobra.Command, args []string) error {
		cfg, err := app.LoadConfig(envFile)
		if err != nil {
			return err
		}

		application, err := app.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		return application.Run()
	}

	cmd := &cobra.Command{
		Use:           "auth",
		Short:         "CMS authentication service",
		Long:          "Issues and refreshes access tokens for the CMS and manages the accounts behind them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional env file read before the environment")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE:  serve,
	})
	cmd.AddCommand(userCmd(&envFile))
	cmd.AddCommand(secretsCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "auth version %s\n", app.BuildVersion)
		},
	})

	return cmd
}

func userCmd(envFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var req service.CreateUserRequest
	var role string

	create := &cobra.Command{
		Use:   "create",
		Short: "Create an active user",
		Long:  "Creates an active user. When --password is omitted a random password is generated and printed once.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(*envFile)
			if err != nil {
				return err
			}

			generated := req.Password == ""
			if generated {
				if req.Password, err = cryptox.GenerateToken(cryptox.TokenSize128); err != nil {
					return err
				}
			}
			req.Role = domain.Role(role)

			application, err := app.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer func() { _ = application.Close() }()

			u, err := application.Users().CreateUser(context.Background(), req)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "created user %d (%s, %s)\n", u.ID, u.Username, u.Role)
			if generated {
				fmt.Fprintf(out, "password: %s\n", req.Password)
			}
			return nil
		},
	}
	create.Flags().StringVar(&req.Username, "username", "", "Username (at least 5 characters)")
	create.Flags().StringVar(&req.Name, "name", "", "Display name")
	create.Flags().StringVar(&req.Email, "email", "", "Email address")
	create.Flags().StringVar(&req.Password, "password", "", "Password (generated when empty)")
	create.Flags().StringVar(&role, "role", string(domain.DefaultRole), "Role: superadmin, admin or editor")
	_ = create.MarkFlagRequired("username")

	cmd.AddCommand(create)
	return cmd
}

func secretsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Manage process secrets",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Print a fresh set of secrets in .env format",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.GenerateSecrets()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "SECRET_KEY=%s\n", s.SecretKey)
			fmt.Fprintf(out, "JWT_SECRET=%s\n", s.JWTSecret)
			fmt.Fprintf(out, "JWT_REFRESH_SIGNATURE=%s\n", s.RefreshSignature)
			fmt.Fprintf(out, "JWT_CIPHER_KEY=%s\n", s.CipherKey)
			fmt.Fprintf(out, "AUTH_PEPPER=%s\n", s.Pepper)
			return nil
		},
	})
	return cmd
}
