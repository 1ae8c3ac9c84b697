package workflow

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Cmd is the parent command for workflow operations.
var Cmd = &cobra.Command{
	Use:   "workflow",
	Short: "Inspect and manage workflows",
}

func init() {
	Cmd.AddCommand(upstreamCmd, applyCmd, releaseCmd, startCmd)
}

func writeCmdOut(cmd *cobra.Command, format string, args ...any) error {
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), format, args...); err != nil {
		cmd.PrintErrf("write output: %v\n", err)
		return err
	}
	return nil
}
