package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/forkhestra/forkhestra/pkg/mcpserver"
)

var version = "dev"

var mcpServeCmd = &cobra.Command{
	Use:   "mcp-serve",
	Short: "Serve Task Store operations over MCP on stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := mcpserver.NewServer(version, flagRoot)
		if err := server.ServeStdio(s); err != nil {
			fmt.Fprintln(os.Stderr, "mcp-serve:", err)
			os.Exit(1)
		}
		return nil
	},
}
