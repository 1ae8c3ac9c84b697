package workflow

import (
	"strings"

	"github.com/caesium-cloud/dolphin/cmd/sdk"
	"github.com/caesium-cloud/dolphin/pkg/code"
	"github.com/caesium-cloud/dolphin/pkg/models"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	releaseProject int64
	releaseCode    int64
	releaseName    string
	releaseState   string
)

var releaseCmd = &cobra.Command{
	Use:     "release",
	Short:   "Bring a workflow online or take it offline",
	Example: "dolphin workflow release --project 7 --code 3003 --state offline",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := code.ParseReleaseState(strings.ToUpper(releaseState))
		if err != nil {
			return err
		}

		def := models.ProcessDefinition{ProjectCode: releaseProject, ProcessCode: releaseCode}
		name := releaseName
		if name == "" {
			// The release endpoint wants the current name.
			m, err := sdk.Meta()
			if err != nil {
				return err
			}
			recs, err := m.ProcessDefinitionRecords(cmd.Context(), []models.ProcessDefinition{def})
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				return errors.Errorf("workflow %s not found", def)
			}
			name = recs[0].Name
		}

		w, err := sdk.Web()
		if err != nil {
			return err
		}
		if err := w.ReleaseWorkflow(cmd.Context(), def, name, state); err != nil {
			return err
		}
		return writeCmdOut(cmd, "Workflow %s is %s\n", def, state.Wire())
	},
}

func init() {
	releaseCmd.Flags().Int64Var(&releaseProject, "project", 0, "Project code")
	releaseCmd.Flags().Int64Var(&releaseCode, "code", 0, "Workflow code")
	releaseCmd.Flags().StringVar(&releaseName, "name", "", "Workflow name (looked up in the metadata store when empty)")
	releaseCmd.Flags().StringVar(&releaseState, "state", "online", "Target state (online or offline)")
	_ = releaseCmd.MarkFlagRequired("project")
	_ = releaseCmd.MarkFlagRequired("code")
}
