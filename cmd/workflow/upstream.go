package workflow

import (
	"net/url"

	"github.com/caesium-cloud/dolphin/cmd/sdk"
	"github.com/caesium-cloud/dolphin/pkg/models"
	"github.com/caesium-cloud/dolphin/pkg/web"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	upstreamProject     int64
	upstreamCodes       []int64
	upstreamIDs         []int64
	upstreamIncludeSelf bool
	upstreamURLs        bool
)

var upstreamCmd = &cobra.Command{
	Use:   "upstream",
	Short: "List the workflows the given workflows depend on",
	Long: "Follows DEPENDENT tasks through the metadata store, across projects, " +
		"and prints every workflow reachable upstream of the given ones.",
	Example: "dolphin workflow upstream --project 7 --code 3003 --include-self",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(upstreamCodes) > 0 && upstreamProject == 0 {
			return errors.New("--code requires --project")
		}

		m, err := sdk.Meta()
		if err != nil {
			return err
		}

		start := make([]models.ProcessDefinition, 0, len(upstreamCodes)+len(upstreamIDs))
		for _, c := range upstreamCodes {
			start = append(start, models.ProcessDefinition{ProjectCode: upstreamProject, ProcessCode: c})
		}
		for _, id := range upstreamIDs {
			def, err := m.ProcessDefinitionByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			start = append(start, def)
		}
		if len(start) == 0 {
			return errors.New("name at least one workflow with --code or --id")
		}

		defs, err := m.UpstreamProcessDefinitions(cmd.Context(), start, upstreamIncludeSelf)
		if err != nil {
			return err
		}

		var baseURL *url.URL
		if upstreamURLs {
			cfg, err := web.ConfigFromEnv()
			if err != nil {
				return err
			}
			baseURL = cfg.BaseURL
		}

		for _, line := range upstreamLines(defs, baseURL) {
			if err := writeCmdOut(cmd, "%s\n", line); err != nil {
				return err
			}
		}
		return nil
	},
}

// upstreamLines renders one line per workflow: its key, or its UI link
// when baseURL is set.
func upstreamLines(defs []models.ProcessDefinition, baseURL *url.URL) []string {
	lines := make([]string, 0, len(defs))
	for _, def := range defs {
		if baseURL != nil {
			lines = append(lines, def.URL(baseURL.String()))
			continue
		}
		lines = append(lines, def.String())
	}
	return lines
}

func init() {
	upstreamCmd.Flags().Int64Var(&upstreamProject, "project", 0, "Project code of the workflows named by --code")
	upstreamCmd.Flags().Int64SliceVar(&upstreamCodes, "code", nil, "Workflow codes to start from")
	upstreamCmd.Flags().Int64SliceVar(&upstreamIDs, "id", nil, "Workflow row ids to start from")
	upstreamCmd.Flags().BoolVar(&upstreamIncludeSelf, "include-self", false, "Include the starting workflows in the output")
	upstreamCmd.Flags().BoolVar(&upstreamURLs, "urls", false, "Print web UI links instead of project/code pairs")
}
