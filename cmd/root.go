package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/asciitree/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "asciitree",
	Short: "Build, edit and export ASCII tree diagrams",
	Long: `asciitree turns hierarchies into plain-text tree diagrams drawn with |-- and \--
connectors. Edit a tree in the browser, render a folder from the command
line, or expose tree rendering to AI agents over MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.ConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
