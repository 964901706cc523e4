package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of GIC Cinemas",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s", info.Name, info.Version)
			if info.Commit != "none" && info.Commit != "" {
				fmt.Fprintf(out, " (%s)", info.Commit)
			}
			fmt.Fprintln(out)
		},
	}
}
