// Package models holds the scheduler's value objects: identity keys for
// workflows and tasks, layout and schedule descriptors, and the
// dependency structure stored inside DEPENDENT task parameters.
package models

import (
	"fmt"
	"sort"
	"strings"
)

// ProcessDefinition identifies a workflow definition. It is comparable
// and is used directly as a map key and graph node.
type ProcessDefinition struct {
	ProjectCode int64 `json:"projectCode"`
	ProcessCode int64 `json:"processCode"`
}

// URL returns the UI page of the workflow under domain.
func (p ProcessDefinition) URL(domain string) string {
	return workflowURL(domain, p.ProjectCode, p.ProcessCode)
}

func (p ProcessDefinition) String() string {
	return fmt.Sprintf("%d/%d", p.ProjectCode, p.ProcessCode)
}

// TaskDefinition identifies a task definition. ProcessCode is zero when
// the task was read without workflow context, e.g. straight from
// t_ds_task_definition.
type TaskDefinition struct {
	ProjectCode int64 `json:"projectCode"`
	ProcessCode int64 `json:"processCode,omitempty"`
	TaskCode    int64 `json:"taskCode"`
}

// Process returns the workflow owning the task.
func (t TaskDefinition) Process() ProcessDefinition {
	return ProcessDefinition{ProjectCode: t.ProjectCode, ProcessCode: t.ProcessCode}
}

// URL returns the UI page of the owning workflow under domain.
func (t TaskDefinition) URL(domain string) string {
	return workflowURL(domain, t.ProjectCode, t.ProcessCode)
}

func workflowURL(domain string, project, process int64) string {
	return fmt.Sprintf("%s/dolphinscheduler/ui/projects/%d/workflow/definitions/%d",
		strings.TrimSuffix(domain, "/"), project, process)
}

// SortProcessDefinitions orders defs by project then process code.
func SortProcessDefinitions(defs []ProcessDefinition) {
	sort.Slice(defs, func(i, j int) bool {
		if defs[i].ProjectCode != defs[j].ProjectCode {
			return defs[i].ProjectCode < defs[j].ProjectCode
		}
		return defs[i].ProcessCode < defs[j].ProcessCode
	})
}
