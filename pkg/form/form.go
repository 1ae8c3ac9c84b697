// Package form builds the flat request bodies of the management API.
// Every value is a string: numbers and booleans are formatted, unset
// optionals render as "", and nested structures are JSON-encoded under a
// single key.
package form

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/caesium-cloud/dolphin/pkg/code"
	"github.com/caesium-cloud/dolphin/pkg/jsonutil"
	"github.com/caesium-cloud/dolphin/pkg/models"
	"github.com/caesium-cloud/dolphin/pkg/records"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

// Form is a request body.
type Form interface {
	Values() (url.Values, error)
}

// Relation is one edge of the task DAG submitted with a workflow.
type Relation struct {
	Name            string
	PreTaskCode     int64
	PreTaskVersion  int
	PostTaskCode    int64
	PostTaskVersion int
	ConditionType   code.ConditionType
	ConditionParams datatypes.JSON
}

// StandaloneRelation attaches taskCode to the workflow with no upstream task.
func StandaloneRelation(taskCode int64) Relation {
	return Relation{PostTaskCode: taskCode}
}

// NewRelation runs post after pre.
func NewRelation(pre, post int64) Relation {
	return Relation{PreTaskCode: pre, PostTaskCode: post}
}

func RelationFromRecord(r *records.ProcessTaskRelationRecord) Relation {
	return Relation{
		Name:            r.Name,
		PreTaskCode:     r.PreTaskCode,
		PreTaskVersion:  r.PreTaskVersion,
		PostTaskCode:    r.PostTaskCode,
		PostTaskVersion: r.PostTaskVersion,
		ConditionType:   r.ConditionType,
		ConditionParams: r.ConditionParams,
	}
}

func (r Relation) MarshalJSON() ([]byte, error) {
	params := r.ConditionParams
	if len(params) == 0 {
		params = datatypes.JSON("{}")
	}
	return json.Marshal(struct {
		Name            string         `json:"name"`
		PreTaskCode     int64          `json:"preTaskCode"`
		PreTaskVersion  int            `json:"preTaskVersion"`
		PostTaskCode    int64          `json:"postTaskCode"`
		PostTaskVersion int            `json:"postTaskVersion"`
		ConditionType   string         `json:"conditionType"`
		ConditionParams datatypes.JSON `json:"conditionParams"`
	}{r.Name, r.PreTaskCode, r.PreTaskVersion, r.PostTaskCode, r.PostTaskVersion, r.ConditionType.Wire(), params})
}

// CreateWorkflow is the body of the create and update workflow calls.
type CreateWorkflow struct {
	Tasks         []*records.TaskDefinitionRecord
	Relations     []Relation
	Locations     []models.Location
	Name          string
	TenantCode    string
	ExecutionType code.ProcessExecutionType
	Description   string
	GlobalParams  datatypes.JSON
	Timeout       int
}

// NewCreateWorkflow returns a form with the platform's defaults.
func NewCreateWorkflow(name string, tasks []*records.TaskDefinitionRecord, relations []Relation, locations []models.Location) *CreateWorkflow {
	return &CreateWorkflow{
		Tasks:         tasks,
		Relations:     relations,
		Locations:     locations,
		Name:          name,
		TenantCode:    "default",
		ExecutionType: code.ProcessExecutionTypeParallel,
		GlobalParams:  datatypes.JSON("[]"),
	}
}

// Validate checks that the form describes a connected task set.
func (f *CreateWorkflow) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.New("workflow name is required")
	}
	if len(f.Tasks) == 0 {
		return errors.New("workflow has no tasks")
	}

	known := make(map[int64]bool, len(f.Tasks))
	for _, t := range f.Tasks {
		if known[t.TaskCode] {
			return errors.Errorf("duplicate task code %d", t.TaskCode)
		}
		known[t.TaskCode] = true
	}

	attached := make(map[int64]bool, len(f.Tasks))
	for _, r := range f.Relations {
		if !known[r.PostTaskCode] {
			return errors.Errorf("relation targets unknown task %d", r.PostTaskCode)
		}
		if r.PreTaskCode != 0 && !known[r.PreTaskCode] {
			return errors.Errorf("relation starts at unknown task %d", r.PreTaskCode)
		}
		attached[r.PostTaskCode] = true
	}
	for _, t := range f.Tasks {
		if !attached[t.TaskCode] {
			return errors.Errorf("task %d has no relation", t.TaskCode)
		}
	}
	return nil
}

func (f *CreateWorkflow) Values() (url.Values, error) {
	tasks, err := jsonutil.MarshalSliceString(f.Tasks)
	if err != nil {
		return nil, err
	}
	relations, err := jsonutil.MarshalSliceString(f.Relations)
	if err != nil {
		return nil, err
	}
	locations, err := jsonutil.MarshalSliceString(f.Locations)
	if err != nil {
		return nil, err
	}

	globalParams := "[]"
	if len(f.GlobalParams) > 0 {
		globalParams = string(f.GlobalParams)
	}

	v := url.Values{}
	v.Set("taskDefinitionJson", tasks)
	v.Set("taskRelationJson", relations)
	v.Set("locations", locations)
	v.Set("name", f.Name)
	v.Set("tenantCode", f.TenantCode)
	v.Set("executionType", f.ExecutionType.Wire())
	v.Set("description", f.Description)
	v.Set("globalParams", globalParams)
	v.Set("timeout", strconv.Itoa(f.Timeout))
	return v, nil
}

// Release toggles the release state of a workflow.
type Release struct {
	Name  string
	State code.ReleaseState
}

func (f Release) Values() (url.Values, error) {
	v := url.Values{}
	v.Set("name", f.Name)
	v.Set("releaseState", f.State.Wire())
	return v, nil
}

func optional[T int | int64](p *T) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(int64(*p), 10)
}
