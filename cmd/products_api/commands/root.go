package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/products_api/internal/config"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "products_api",
	Short: "Products and users HTTP service",
	Long: `products_api serves a JSON API for products and the users that own them.

Commands:
  serve    - run the HTTP server
  migrate  - create or update the database schema`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Env file loaded before reading the environment")
}

func loadConfig() (config.Config, error) {
	cfg := config.Load(envFile)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
