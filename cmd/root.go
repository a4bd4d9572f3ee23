package cmd

import (
	"cafes/config"
	"cafes/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:          "cafes",
	Short:        "Cafe & Wifi catalogue",
	Long:         "A catalogue of cafes with their wifi, sockets, seating and coffee prices.",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

// bootDB loads config, opens the store and makes sure the tables exist.
func bootDB() (config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	if err := database.Migrate(db); err != nil {
		return config.Config{}, nil, err
	}
	return cfg, db, nil
}
