package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		gdb, err := db.Connect(cfg.DBDSN, cfg.IsProduction())
		if err != nil {
			return err
		}
		if err := db.Migrate(gdb); err != nil {
			return err
		}
		log.Println("[db] migrated")
		return nil
	},
}
