package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "devhire",
	Short:        "DevHire marketplace API",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "YAML file overlaying the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func loadConfig() (config.Config, error) {
	_ = godotenv.Load()
	return config.Load(configPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
