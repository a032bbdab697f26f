package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/clubhub/backend/internal/config"
	"github.com/clubhub/backend/internal/database"
	"github.com/clubhub/backend/internal/models"
	"github.com/clubhub/backend/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var db *gorm.DB

var rootCmd = &cobra.Command{
	Use:           "clubctl",
	Short:         "Operator tool for the club management backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		var err error
		db, err = database.Connect(cfg.DB)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		return nil
	},
}

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the default admin account if no users exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.SeedAdminUser(db); err != nil {
			return fmt.Errorf("seeding admin: %w", err)
		}
		fmt.Println("admin seed complete")
		return nil
	},
}

var setRoleCmd = &cobra.Command{
	Use:   "set-role <email> <role>",
	Short: "Set a user's role (admin, leader, member, user)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := args[0]
		role := models.UserRole(args[1])
		if !models.IsValidUserRole(role) {
			return fmt.Errorf("invalid role %q", args[1])
		}

		var user models.User
		if err := db.First(&user, "email = ?", email).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("no user with email %q", email)
			}
			return fmt.Errorf("loading user: %w", err)
		}
		if err := db.Model(&user).Update("role", role).Error; err != nil {
			return fmt.Errorf("updating role: %w", err)
		}

		fmt.Printf("%s is now %s\n", user.Email, role)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print platform statistics as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats := services.NewStatsService(db).Compute(context.Background())
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	},
}

func init() {
	rootCmd.AddCommand(seedAdminCmd)
	rootCmd.AddCommand(setRoleCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
