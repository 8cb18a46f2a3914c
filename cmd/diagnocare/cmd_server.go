package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/diagnocare/config"
	"github.com/shashiranjanraj/diagnocare/internal/kernel"
	"github.com/shashiranjanraj/diagnocare/pkg/auth"
	"github.com/shashiranjanraj/diagnocare/pkg/store"
)

// diagnocare serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		k, err := kernel.Boot(ctx)
		if err != nil {
			return err
		}
		return k.Application().Serve(ctx, ":"+config.AppPort())
	},
}

// diagnocare route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Routes do not depend on live connections.
		k := kernel.New(kernel.Deps{
			DB:     store.NewMemory(),
			Tokens: auth.NewTokenService(config.JWTSecret(), kernel.TokenTTL),
		})
		defer k.Shutdown(context.Background()) //nolint:errcheck

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range k.Application().RouteTable() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
