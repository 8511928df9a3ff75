package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the gworkspace-mcp application
var rootCmd = &cobra.Command{
	Use:   "gworkspace-mcp",
	Short: "MCP server for Gmail, Google Calendar, Docs, Sheets and Drive",
	Long: `gworkspace-mcp exposes Google Workspace operations as Model Context
Protocol tools for AI assistants.

One Google credential, stored in the installation root, backs every tool.
Run "gworkspace-mcp auth login" once, then start the server with
"gworkspace-mcp serve" (the default command).`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "gworkspace-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	addGlobalFlags(rootCmd)

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newToolsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
