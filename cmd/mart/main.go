package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// migrations and seeders register themselves in init()
	_ "github.com/eburutu/mart/database/migrations"
	_ "github.com/eburutu/mart/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "mart",
	Short:         "Eburutu Mart API",
	Long:          "mart serves the marketplace API and manages its database.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
}
