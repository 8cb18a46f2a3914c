// Command diagnocare runs and manages the DiagnoCare booking API.
//
//	diagnocare serve                  # start server (aliases: run, start)
//	diagnocare route:list             # list API routes
//	diagnocare seed                   # insert sample tests, banners, tips
//	diagnocare user:promote <email>   # grant the admin role
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/diagnocare/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "diagnocare",
	Short:         "DiagnoCare diagnostic-test booking API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.Load()
	},
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(promoteCmd)
}
