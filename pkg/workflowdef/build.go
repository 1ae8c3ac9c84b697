package workflowdef

import (
	"time"

	"github.com/caesium-cloud/dolphin/pkg/code"
	"github.com/caesium-cloud/dolphin/pkg/form"
	"github.com/caesium-cloud/dolphin/pkg/models"
	"github.com/caesium-cloud/dolphin/pkg/params"
	"github.com/caesium-cloud/dolphin/pkg/records"
	"github.com/pkg/errors"
)

// Canvas grid used for task locations.
const (
	originX  = 100
	originY  = 100
	columnDX = 250
	rowDY    = 120
)

// Build turns the definition into a create workflow form. taskCodes are
// codes reserved through the API, one per task in document order.
func Build(d *Definition, taskCodes []int64, workerGroup string) (*form.CreateWorkflow, error) {
	if len(taskCodes) != len(d.Tasks) {
		return nil, errors.Errorf("workflow %q has %d tasks but %d task codes were given", d.Metadata.Name, len(d.Tasks), len(taskCodes))
	}
	layers, err := d.layers()
	if err != nil {
		return nil, err
	}

	codes := make(map[string]int64, len(d.Tasks))
	for i, task := range d.Tasks {
		codes[task.Name] = taskCodes[i]
	}

	tasks := make([]*records.TaskDefinitionRecord, 0, len(d.Tasks))
	upstream := make(map[string][]int64, len(d.Tasks))
	for i, task := range d.Tasks {
		rec := records.NewTaskDefinitionRecord(d.Metadata.Project, taskCodes[i], task.Name, task.params())
		rec.Description = task.Description
		rec.FailRetryTimes = task.Retries
		rec.FailRetryInterval = task.RetryInterval
		rec.WorkerGroup = workerGroup
		if task.WorkerGroup != "" {
			rec.WorkerGroup = task.WorkerGroup
		}
		tasks = append(tasks, rec)

		for _, next := range task.Next {
			upstream[next] = append(upstream[next], taskCodes[i])
		}
	}

	var relations []form.Relation
	for i, task := range d.Tasks {
		pre := upstream[task.Name]
		if len(pre) == 0 {
			relations = append(relations, form.StandaloneRelation(taskCodes[i]))
			continue
		}
		for _, p := range pre {
			relations = append(relations, form.NewRelation(p, taskCodes[i]))
		}
	}

	var locations []models.Location
	for col, layer := range layers {
		for row, i := range layer {
			locations = append(locations, models.Location{
				TaskCode: taskCodes[i],
				X:        float64(originX + col*columnDX),
				Y:        float64(originY + row*rowDY),
			})
		}
	}

	f := form.NewCreateWorkflow(d.Metadata.Name, tasks, relations, locations)
	f.Description = d.Metadata.Description
	f.Timeout = d.Metadata.Timeout
	if d.Metadata.Tenant != "" {
		f.TenantCode = d.Metadata.Tenant
	}
	if d.Metadata.ExecutionType != "" {
		if f.ExecutionType, err = code.ParseProcessExecutionType(d.Metadata.ExecutionType); err != nil {
			return nil, err
		}
	}
	return f, f.Validate()
}

func (t Task) params() params.TaskParams {
	switch t.Type {
	case TaskDependent:
		return params.DailyDependent(t.DependsOn.Project, t.DependsOn.Workflow)
	case TaskSpark:
		return params.SparkScript(t.Script, nil)
	default:
		return params.NewShell(t.Script)
	}
}

// BuildSchedule returns the schedule form for the created workflow, or
// nil when the definition has no schedule.
func BuildSchedule(d *Definition, processCode int64, workerGroup string, now time.Time) (*form.Schedule, error) {
	if d.Schedule == nil {
		return nil, nil
	}
	if d.Schedule.WorkerGroup != "" {
		workerGroup = d.Schedule.WorkerGroup
	}
	f := form.CronSchedule(processCode, d.Schedule.Crontab, workerGroup, d.Schedule.Timezone, now)
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}
