package main

import (
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/devburger/config"
	"github.com/shashiranjanraj/devburger/database/seeders"
	"github.com/shashiranjanraj/devburger/pkg/database"
	"github.com/shashiranjanraj/devburger/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

// devburger migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		return migration.New(database.DB, cmd.OutOrStdout()).Run()
	},
}

// devburger migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		return migration.New(database.DB, cmd.OutOrStdout()).Rollback()
	},
}

// devburger migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		return migration.New(database.DB, cmd.OutOrStdout()).Status()
	},
}

// devburger seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		return seeders.RunAll(cmd.Context(), database.DB, cmd.OutOrStdout())
	},
}
