package main

import (
	"fmt"

	"github.com/presupuestos/budget-service/internal/auth"
	"github.com/presupuestos/budget-service/internal/types"
	"github.com/spf13/cobra"
)

var (
	userRole     string
	userPassword string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage API users",
}

// createUserCmd creates or updates a user
var createUserCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user or reset its password and role",
	Example: `  budget-service users create maria --role vendedor --password s3cret
  budget-service users create auditor --role lector --password s3cret`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := types.Role(userRole)
		switch role {
		case types.RoleAdmin, types.RoleVendedor, types.RoleLector:
		default:
			return fmt.Errorf("invalid role %q (use admin, vendedor or lector)", userRole)
		}

		svc := auth.NewService(store, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
		user, err := svc.EnsureUser(cmd.Context(), args[0], userPassword, role)
		if err != nil {
			return err
		}

		logger.Info().Str("id", user.ID).Str("username", user.Username).Str("role", string(user.Role)).Msg("User saved")
		return nil
	},
}

// hashPasswordCmd prints a bcrypt hash for seeding users by hand
var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print the bcrypt hash of a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(createUserCmd)
	usersCmd.AddCommand(hashPasswordCmd)

	createUserCmd.Flags().StringVar(&userRole, "role", string(types.RoleVendedor), "Role: admin, vendedor or lector")
	createUserCmd.Flags().StringVar(&userPassword, "password", "", "Password (required)")
	createUserCmd.MarkFlagRequired("password")
}
