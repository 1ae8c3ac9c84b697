package workflow

import (
	"time"

	"github.com/caesium-cloud/dolphin/cmd/sdk"
	"github.com/caesium-cloud/dolphin/pkg/env"
	"github.com/caesium-cloud/dolphin/pkg/form"
	"github.com/spf13/cobra"
)

var (
	startProject     int64
	startCode        int64
	startWorkerGroup string
	startParams      map[string]string
	startDryRun      bool
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run a workflow once for today",
	Long: "Starts one instance of the workflow. Parameters from DOLPHIN_STARTPARAMS are " +
		"passed to the instance, overridden by --param.",
	Example: "dolphin workflow start --project 7 --code 3003 --param bizdate=20240101",
	RunE: func(cmd *cobra.Command, args []string) error {
		workerGroup := startWorkerGroup
		if workerGroup == "" {
			workerGroup = env.Variables().WorkerGroup
		}

		f := form.DefaultStartInstance(startCode, workerGroup, time.Now())
		f.StartParams = env.Variables().StartParams.Merge(startParams)
		f.DryRun = startDryRun

		w, err := sdk.Web()
		if err != nil {
			return err
		}
		if err := w.StartInstance(cmd.Context(), startProject, f); err != nil {
			return err
		}
		return writeCmdOut(cmd, "Started workflow %d/%d\n", startProject, startCode)
	},
}

func init() {
	startCmd.Flags().Int64Var(&startProject, "project", 0, "Project code")
	startCmd.Flags().Int64Var(&startCode, "code", 0, "Workflow code")
	startCmd.Flags().StringVar(&startWorkerGroup, "worker-group", "", "Worker group (default from DOLPHIN_WORKERGROUP)")
	startCmd.Flags().StringToStringVar(&startParams, "param", nil, "Start parameters as key=value")
	startCmd.Flags().BoolVar(&startDryRun, "dry-run", false, "Ask the scheduler for a dry run")
	_ = startCmd.MarkFlagRequired("project")
	_ = startCmd.MarkFlagRequired("code")
}
