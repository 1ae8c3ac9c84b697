package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/caesium-cloud/dolphin/cmd/project"
	"github.com/caesium-cloud/dolphin/cmd/schedule"
	"github.com/caesium-cloud/dolphin/cmd/workflow"
	"github.com/spf13/cobra"
)

var cmds = []*cobra.Command{
	project.Cmd,
	workflow.Cmd,
	schedule.Cmd,
}

// Execute builds the command tree and executes commands.
func Execute() error {
	command := &cobra.Command{
		Use:           "dolphin",
		Short:         "Inspect and manage a DolphinScheduler deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Usage()
		},
	}

	for _, c := range cmds {
		command.AddCommand(c)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return command.ExecuteContext(ctx)
}
