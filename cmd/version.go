package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/teemow/gworkspace-mcp/internal/config"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (%s, %s/%s)\n",
				config.AppName, version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
