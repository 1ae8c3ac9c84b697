// Package records maps metadata-store rows onto immutable record values.
// Every column is read by name; a missing column fails the whole row with
// a *models.MalformedRowError.
package records

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/caesium-cloud/dolphin/pkg/code"
	"github.com/caesium-cloud/dolphin/pkg/models"
	"gorm.io/datatypes"
)

// ProjectRecord is one row of t_ds_project.
type ProjectRecord struct {
	ID          int64
	Name        string
	Code        int64
	Description string
	UserID      int64
	Flag        code.AvailableFlag
	CreateTime  time.Time
	UpdateTime  time.Time
}

func ProjectFromRow(row models.Row) (*ProjectRecord, error) {
	r := row.NewReader("project")
	p := &ProjectRecord{
		ID:          r.Int64("id"),
		Name:        r.String("name"),
		Code:        r.Int64("code"),
		Description: r.String("description"),
		UserID:      r.Int64("user_id"),
		Flag:        models.Enum(r, "flag", code.AvailableFlagFromStorage),
		CreateTime:  r.Time("create_time"),
		UpdateTime:  r.Time("update_time"),
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

// ProcessDefinitionRecord is one row of t_ds_process_definition.
type ProcessDefinitionRecord struct {
	models.ProcessDefinition

	ID             int64
	Name           string
	Version        int
	Description    string
	ReleaseState   code.ReleaseState
	UserID         int64
	GlobalParams   string
	Flag           code.AvailableFlag
	Locations      []models.Location
	WarningGroupID int64
	Timeout        int
	TenantID       int64
	ExecutionType  code.ProcessExecutionType
	CreateTime     time.Time
	UpdateTime     time.Time
}

func ProcessDefinitionFromRow(row models.Row) (*ProcessDefinitionRecord, error) {
	r := row.NewReader("process definition")
	p := &ProcessDefinitionRecord{
		ProcessDefinition: models.ProcessDefinition{
			ProjectCode: r.Int64("project_code"),
			ProcessCode: r.Int64("code"),
		},
		ID:             r.Int64("id"),
		Name:           r.String("name"),
		Version:        r.Int("version"),
		Description:    r.String("description"),
		ReleaseState:   models.Enum(r, "release_state", code.ReleaseStateFromStorage),
		UserID:         r.Int64("user_id"),
		GlobalParams:   r.String("global_params"),
		Flag:           models.Enum(r, "flag", code.AvailableFlagFromStorage),
		WarningGroupID: r.Int64("warning_group_id"),
		Timeout:        r.Int("timeout"),
		TenantID:       r.Int64("tenant_id"),
		ExecutionType:  models.Enum(r, "execution_type", code.ProcessExecutionTypeFromStorage),
		CreateTime:     r.Time("create_time"),
		UpdateTime:     r.Time("update_time"),
	}
	locations := r.String("locations")
	if err := r.Err(); err != nil {
		return nil, err
	}

	var err error
	if p.Locations, err = models.ParseLocations(locations); err != nil {
		return nil, &models.MalformedRowError{Record: "process definition", Key: "locations", Err: err}
	}
	return p, nil
}

// ProcessTaskRelationRecord is one edge of a workflow's task DAG, read
// from t_ds_process_task_relation. PreTaskCode is zero for root tasks.
type ProcessTaskRelationRecord struct {
	ID              int64
	Name            string
	ProjectCode     int64
	ProcessCode     int64
	ProcessVersion  int
	PreTaskCode     int64
	PreTaskVersion  int
	PostTaskCode    int64
	PostTaskVersion int
	ConditionType   code.ConditionType
	ConditionParams datatypes.JSON
	CreateTime      time.Time
	UpdateTime      time.Time
}

func ProcessTaskRelationFromRow(row models.Row) (*ProcessTaskRelationRecord, error) {
	r := row.NewReader("process task relation")
	p := &ProcessTaskRelationRecord{
		ID:              r.Int64("id"),
		Name:            r.String("name"),
		ProjectCode:     r.Int64("project_code"),
		ProcessCode:     r.Int64("process_definition_code"),
		ProcessVersion:  r.Int("process_definition_version"),
		PreTaskCode:     r.Int64("pre_task_code"),
		PreTaskVersion:  r.Int("pre_task_version"),
		PostTaskCode:    r.Int64("post_task_code"),
		PostTaskVersion: r.Int("post_task_version"),
		ConditionType:   models.Enum(r, "condition_type", code.ConditionTypeFromStorage),
		CreateTime:      r.Time("create_time"),
		UpdateTime:      r.Time("update_time"),
	}
	params, present := r.NullString("condition_params")
	if err := r.Err(); err != nil {
		return nil, err
	}

	if present && strings.TrimSpace(params) != "" {
		if !json.Valid([]byte(params)) {
			return nil, &models.MalformedRowError{
				Record: "process task relation",
				Key:    "condition_params",
				Err:    errInvalidJSON,
			}
		}
		p.ConditionParams = datatypes.JSON(params)
	}
	return p, nil
}

// Process returns the workflow the edge belongs to.
func (p ProcessTaskRelationRecord) Process() models.ProcessDefinition {
	return models.ProcessDefinition{ProjectCode: p.ProjectCode, ProcessCode: p.ProcessCode}
}

// Post returns the task the edge points at.
func (p ProcessTaskRelationRecord) Post() models.TaskDefinition {
	return models.TaskDefinition{ProjectCode: p.ProjectCode, ProcessCode: p.ProcessCode, TaskCode: p.PostTaskCode}
}

func (p ProcessTaskRelationRecord) MarshalJSON() ([]byte, error) {
	params := p.ConditionParams
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
	}{
		Name:            p.Name,
		PreTaskCode:     p.PreTaskCode,
		PreTaskVersion:  p.PreTaskVersion,
		PostTaskCode:    p.PostTaskCode,
		PostTaskVersion: p.PostTaskVersion,
		ConditionType:   p.ConditionType.Wire(),
		ConditionParams: params,
	})
}

// ScheduleRecord is one row of t_ds_schedules.
type ScheduleRecord struct {
	ID                      int64
	ProcessCode             int64
	StartTime               time.Time
	EndTime                 time.Time
	TimezoneID              string
	Crontab                 string
	FailureStrategy         code.FailureStrategy
	UserID                  int64
	ReleaseState            code.ReleaseState
	WarningType             code.WarningType
	WarningGroupID          int64
	ProcessInstancePriority code.Priority
	WorkerGroup             string
	EnvironmentCode         int64
	CreateTime              time.Time
	UpdateTime              time.Time
}

func ScheduleFromRow(row models.Row) (*ScheduleRecord, error) {
	r := row.NewReader("schedule")
	s := &ScheduleRecord{
		ID:                      r.Int64("id"),
		ProcessCode:             r.Int64("process_definition_code"),
		StartTime:               r.Time("start_time"),
		EndTime:                 r.Time("end_time"),
		TimezoneID:              r.String("timezone_id"),
		Crontab:                 r.String("crontab"),
		FailureStrategy:         models.Enum(r, "failure_strategy", code.FailureStrategyFromStorage),
		UserID:                  r.Int64("user_id"),
		ReleaseState:            models.Enum(r, "release_state", code.ReleaseStateFromStorage),
		WarningType:             models.Enum(r, "warning_type", code.WarningTypeFromStorage),
		WarningGroupID:          r.Int64("warning_group_id"),
		ProcessInstancePriority: models.Enum(r, "process_instance_priority", code.PriorityFromStorage),
		WorkerGroup:             r.String("worker_group"),
		EnvironmentCode:         r.Int64("environment_code"),
		CreateTime:              r.Time("create_time"),
		UpdateTime:              r.Time("update_time"),
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// Schedule returns the timing part of s.
func (s ScheduleRecord) Schedule() models.Schedule {
	return models.Schedule{
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		Crontab:    s.Crontab,
		TimezoneID: s.TimezoneID,
	}
}
