package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/devburger/internal/kernel"
	"github.com/shashiranjanraj/devburger/internal/server"
	"github.com/shashiranjanraj/devburger/pkg/router"
)

// devburger serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// devburger route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List every registered route",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Handlers are never invoked, so no backend is needed.
		r := kernel.NewRouter(kernel.Dependencies{})
		return printRoutes(cmd.OutOrStdout(), r.Routes())
	},
}

func printRoutes(out io.Writer, routes []router.Route) error {
	if len(routes) == 0 {
		fmt.Fprintln(out, "No routes registered.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range routes {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}
