// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Hashmapw/claude-code-hub/internal/app"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "claude-code-hub",
	Short: "API provider hub and admin console",
	Long:  `claude-code-hub relays versioned API requests across upstream provider accounts and serves a server-rendered console for keys, quotas, and usage.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(cfgFile)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration commands",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply the schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.RunMigrations(cfgFile, "up")
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which tables exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.RunMigrations(cfgFile, "status")
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		app.PrintVersion()
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("validation error: %w", err)
		}
		fmt.Println("Configuration is valid")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration (sensitive values masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		cfg.PrintMasked()
		return nil
	},
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin management commands",
}

var adminResetPasswordCmd = &cobra.Command{
	Use:   "reset-password [NEW_PASSWORD]",
	Short: "Reset admin user password (or create admin if missing)",
	Long: `Reset the password for the 'admin' user. If the admin user
doesn't exist, it will be created.

If no password is provided, a secure random password is generated
and printed to stderr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var password string
		if len(args) > 0 {
			password = args[0]
		} else {
			b := make([]byte, 16)
			if _, err := rand.Read(b); err != nil {
				return fmt.Errorf("generate random password: %w", err)
			}
			password = hex.EncodeToString(b)
			fmt.Fprintf(os.Stderr, "Generated admin password: %s\n", password)
			fmt.Fprintf(os.Stderr, "Save this password — it will not be shown again.\n")
		}
		if len(password) < 8 {
			return fmt.Errorf("password must be at least 8 characters")
		}
		return app.ResetAdminPassword(cfgFile, password)
	},
}

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "API key management commands",
}

var keyCreateCmd = &cobra.Command{
	Use:   "create USERNAME NAME",
	Short: "Mint an API key for a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		webLogin, _ := cmd.Flags().GetBool("web-login")
		return app.CreateKey(cfgFile, args[0], args[1], webLogin)
	},
}

var genSecretCmd = &cobra.Command{
	Use:   "gen-secret",
	Short: "Generate a random JWT secret",
	RunE: func(cmd *cobra.Command, args []string) error {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return fmt.Errorf("generate secret: %w", err)
		}
		fmt.Println(hex.EncodeToString(b))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: /etc/claude-code-hub/config.yaml or ./config.yaml)")

	keyCreateCmd.Flags().Bool("web-login", false, "allow the key to sign in to the web console")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(genSecretCmd)

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)

	configCmd.AddCommand(configCheckCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)

	adminCmd.AddCommand(adminResetPasswordCmd)
	rootCmd.AddCommand(adminCmd)

	keyCmd.AddCommand(keyCreateCmd)
	rootCmd.AddCommand(keyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
