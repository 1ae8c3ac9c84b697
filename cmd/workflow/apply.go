package workflow

import (
	"context"
	"time"

	"github.com/caesium-cloud/dolphin/cmd/sdk"
	"github.com/caesium-cloud/dolphin/pkg/code"
	"github.com/caesium-cloud/dolphin/pkg/env"
	"github.com/caesium-cloud/dolphin/pkg/form"
	"github.com/caesium-cloud/dolphin/pkg/log"
	"github.com/caesium-cloud/dolphin/pkg/models"
	"github.com/caesium-cloud/dolphin/pkg/web"
	"github.com/caesium-cloud/dolphin/pkg/workflowdef"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	applyPaths   []string
	applyRelease bool
	applyDryRun  bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Create or update workflows from definition files",
	Long: "Reads workflow documents, reserves task codes and submits each workflow through " +
		"the management API. Documents with metadata.code update that workflow instead. " +
		"A schedule section creates a schedule for a newly created workflow.",
	Example: "dolphin workflow apply -f workflows/ --release",
	RunE: func(cmd *cobra.Command, args []string) error {
		defs, err := workflowdef.Load(applyPaths)
		if err != nil {
			return err
		}
		if len(defs) == 0 {
			return writeCmdOut(cmd, "No workflow definitions found.\n")
		}

		if applyDryRun {
			for i := range defs {
				if err := printForm(cmd, &defs[i]); err != nil {
					return err
				}
			}
			return nil
		}

		w, err := sdk.Web()
		if err != nil {
			return err
		}
		for i := range defs {
			def, err := apply(cmd.Context(), w, &defs[i], time.Now())
			if err != nil {
				return errors.Wrapf(err, "workflow %q", defs[i].Metadata.Name)
			}
			if err := writeCmdOut(cmd, "Applied %s as %s\n", defs[i].Metadata.Name, def); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	applyCmd.Flags().StringSliceVarP(&applyPaths, "file", "f", nil, "Paths to workflow definition files or directories (default: current directory)")
	applyCmd.Flags().BoolVar(&applyRelease, "release", false, "Bring applied workflows and their schedules online")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Print the request forms with placeholder task codes instead of submitting")
}

func build(d *workflowdef.Definition, taskCodes []int64) (*form.CreateWorkflow, error) {
	f, err := workflowdef.Build(d, taskCodes, env.Variables().WorkerGroup)
	if err != nil {
		return nil, err
	}
	if d.Metadata.Tenant == "" && env.Variables().TenantCode != "" {
		f.TenantCode = env.Variables().TenantCode
	}
	return f, nil
}

func apply(ctx context.Context, w *web.SDK, d *workflowdef.Definition, now time.Time) (models.ProcessDefinition, error) {
	project := d.Metadata.Project

	taskCodes, err := w.GenTaskCodes(ctx, project, len(d.Tasks))
	if err != nil {
		return models.ProcessDefinition{}, err
	}
	f, err := build(d, taskCodes)
	if err != nil {
		return models.ProcessDefinition{}, err
	}

	def := models.ProcessDefinition{ProjectCode: project, ProcessCode: d.Metadata.Code}
	if def.ProcessCode != 0 {
		if err := w.UpdateWorkflow(ctx, def, f); err != nil {
			return def, err
		}
	} else if def, err = w.CreateWorkflow(ctx, project, f); err != nil {
		return def, err
	}

	if applyRelease {
		if err := w.ReleaseWorkflow(ctx, def, f.Name, code.ReleaseStateOnline); err != nil {
			return def, err
		}
	}

	if d.Metadata.Code != 0 {
		if d.Schedule != nil {
			log.Warn("schedule of an updated workflow is left unchanged", "workflow", def.String())
		}
		return def, nil
	}

	if d.Schedule != nil && d.Schedule.Timezone == "" {
		d.Schedule.Timezone = env.Variables().TimezoneID
	}
	schedule, err := workflowdef.BuildSchedule(d, def.ProcessCode, env.Variables().WorkerGroup, now)
	if err != nil || schedule == nil {
		return def, err
	}
	id, err := w.CreateSchedule(ctx, project, schedule)
	if err != nil {
		return def, err
	}
	if next, err := schedule.Next(now); err == nil {
		log.Info("created schedule", "workflow", def.String(), "schedule", id, "next_run", next)
	}
	if applyRelease {
		return def, w.ReleaseSchedule(ctx, project, id, code.ReleaseStateOnline)
	}
	return def, nil
}

func printForm(cmd *cobra.Command, d *workflowdef.Definition) error {
	placeholders := make([]int64, len(d.Tasks))
	for i := range placeholders {
		placeholders[i] = int64(i + 1)
	}
	f, err := build(d, placeholders)
	if err != nil {
		return err
	}
	values, err := f.Values()
	if err != nil {
		return err
	}
	return writeCmdOut(cmd, "# %s (project %d)\n%s\n", d.Metadata.Name, d.Metadata.Project, values.Encode())
}
