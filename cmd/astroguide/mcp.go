package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/astroguide/internal/mcpserver"
	"github.com/spf13/cobra"
)

var mcpFlags struct {
	http bool
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the calculation and city lookup as MCP tools",
	Long: `Serve astroguide as a Model Context Protocol server.

Tools: list-focuses, calculate and resolve-cities. By default the server
speaks MCP over stdin/stdout; --http serves it on a random loopback port
until interrupted.`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().BoolVar(&mcpFlags.http, "http", false, "Serve over streamable HTTP instead of stdio")
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	srv := mcpserver.New(a.collector, a.resolver, version)
	if !mcpFlags.http {
		return srv.ServeStdio()
	}

	if _, err := srv.Start(cmd.Context()); err != nil {
		return fmt.Errorf("failed to start MCP server: %w", err)
	}
	defer func() {
		if err := srv.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on %s\n", srv.URL())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigChan:
	case <-cmd.Context().Done():
	}
	fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down gracefully...")
	return nil
}
