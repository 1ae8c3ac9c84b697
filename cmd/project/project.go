package project

import (
	"fmt"
	"text/tabwriter"

	"github.com/caesium-cloud/dolphin/cmd/sdk"
	"github.com/caesium-cloud/dolphin/pkg/models"
	"github.com/spf13/cobra"
)

// Cmd is the parent command for project introspection.
var Cmd = &cobra.Command{
	Use:   "project",
	Short: "Inspect projects in the metadata store",
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List every project",
	Example: "dolphin project list",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := sdk.Meta()
		if err != nil {
			return err
		}

		projects, err := m.Projects(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME\tDESCRIPTION")
		for _, p := range projects {
			fmt.Fprintf(w, "%d\t%s\t%s\n", p.Code, p.Name, p.Description)
		}
		return w.Flush()
	},
}

var workflowsProject int64

var workflowsCmd = &cobra.Command{
	Use:     "workflows",
	Short:   "List the workflows of a project with their schedules",
	Example: "dolphin project workflows --project 7",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := sdk.Meta()
		if err != nil {
			return err
		}

		defs, err := m.ProcessDefinitionRecordsByProject(cmd.Context(), workflowsProject)
		if err != nil {
			return err
		}

		keys := make([]models.ProcessDefinition, 0, len(defs))
		for _, d := range defs {
			keys = append(keys, d.ProcessDefinition)
		}
		schedules, err := m.ScheduleRecords(cmd.Context(), keys)
		if err != nil {
			return err
		}
		crontabs := make(map[int64]string, len(schedules))
		for _, s := range schedules {
			crontabs[s.ProcessCode] = fmt.Sprintf("%s (%s)", s.Crontab, s.ReleaseState.Wire())
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME\tVERSION\tSTATE\tSCHEDULE")
		for _, d := range defs {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", d.ProcessCode, d.Name, d.Version, d.ReleaseState.Wire(), crontabs[d.ProcessCode])
		}
		return w.Flush()
	},
}

func init() {
	workflowsCmd.Flags().Int64Var(&workflowsProject, "project", 0, "Project code")
	_ = workflowsCmd.MarkFlagRequired("project")

	Cmd.AddCommand(listCmd, workflowsCmd)
}
