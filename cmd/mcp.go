package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/asciitree/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing directory rendering and tree normalization tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// Stdout carries the protocol; the logger writes to stderr.
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintln(os.Stderr, "asciitree MCP server started on stdio")

		srv := mcpserver.NewServer(mcpserver.Options{
			Exclude:      cfg.Ingest.Exclude,
			Sort:         cfg.Ingest.Sort,
			Placeholders: placeholders(cfg),
			Logger:       log,
		})
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
