package schedule

import (
	"fmt"
	"strings"

	"github.com/caesium-cloud/dolphin/cmd/sdk"
	"github.com/caesium-cloud/dolphin/pkg/code"
	"github.com/spf13/cobra"
)

// Cmd is the parent command for schedule operations.
var Cmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage workflow schedules",
}

var (
	releaseProject int64
	releaseID      int64
	releaseState   string
)

var releaseCmd = &cobra.Command{
	Use:     "release",
	Short:   "Bring a schedule online or take it offline",
	Example: "dolphin schedule release --project 7 --id 42 --state online",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := code.ParseReleaseState(strings.ToUpper(releaseState))
		if err != nil {
			return err
		}

		w, err := sdk.Web()
		if err != nil {
			return err
		}
		if err := w.ReleaseSchedule(cmd.Context(), releaseProject, releaseID, state); err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Schedule %d is %s\n", releaseID, state.Wire())
		return err
	},
}

func init() {
	releaseCmd.Flags().Int64Var(&releaseProject, "project", 0, "Project code")
	releaseCmd.Flags().Int64Var(&releaseID, "id", 0, "Schedule id")
	releaseCmd.Flags().StringVar(&releaseState, "state", "online", "Target state (online or offline)")
	_ = releaseCmd.MarkFlagRequired("project")
	_ = releaseCmd.MarkFlagRequired("id")

	Cmd.AddCommand(releaseCmd)
}
