package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func newVersionCmd(streams Streams) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(streams.Out, "pathgrip %s\n", Version)
			fmt.Fprintf(streams.Out, "  commit: %s\n", GitCommit)
			fmt.Fprintf(streams.Out, "  built:  %s\n", BuildDate)
		},
	}
}
