package records

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/caesium-cloud/dolphin/pkg/code"
	"github.com/caesium-cloud/dolphin/pkg/models"
	"github.com/caesium-cloud/dolphin/pkg/params"
	"github.com/pkg/errors"
)

var errInvalidJSON = errors.New("invalid JSON")

// TaskDefinitionRecord is one row of t_ds_task_definition with its
// parameters decoded into the variant matching task_type.
type TaskDefinitionRecord struct {
	models.TaskDefinition

	ID                    int64
	Name                  string
	Version               int
	Description           string
	UserID                int64
	TaskExecuteType       code.TaskExecuteType
	Params                params.TaskParams
	Flag                  code.AvailableFlag
	Priority              code.Priority
	WorkerGroup           string
	EnvironmentCode       int64
	FailRetryTimes        int
	FailRetryInterval     int
	TimeoutFlag           code.TimeoutFlag
	TimeoutNotifyStrategy string
	Timeout               int
	DelayTime             int
	ResourceIDs           string
	TaskGroupID           int64
	TaskGroupPriority     int
	CPUQuota              int
	MemoryMax             int
	CreateTime            time.Time
	UpdateTime            time.Time
}

// NewTaskDefinitionRecord returns a record ready to submit through the
// HTTP API, filled with the platform's defaults.
func NewTaskDefinitionRecord(project, taskCode int64, name string, p params.TaskParams) *TaskDefinitionRecord {
	return &TaskDefinitionRecord{
		TaskDefinition:    models.TaskDefinition{ProjectCode: project, TaskCode: taskCode},
		Name:              name,
		TaskExecuteType:   code.TaskExecuteTypeBatch,
		Params:            p,
		Flag:              code.AvailableFlagAvailable,
		Priority:          code.PriorityMedium,
		WorkerGroup:       "default",
		FailRetryInterval: 1,
		TimeoutFlag:       code.TimeoutFlagClose,
		CPUQuota:          -1,
		MemoryMax:         -1,
	}
}

// TaskType is derived from the parameter variant.
func (t TaskDefinitionRecord) TaskType() code.TaskType {
	if t.Params == nil {
		return code.TaskTypeUnknown
	}
	return t.Params.TaskType()
}

// TaskDefinitionFromRow decodes row. processCode is the owning workflow
// when known and zero otherwise.
func TaskDefinitionFromRow(row models.Row, processCode int64) (*TaskDefinitionRecord, error) {
	r := row.NewReader("task definition")
	t := &TaskDefinitionRecord{
		TaskDefinition: models.TaskDefinition{
			ProjectCode: r.Int64("project_code"),
			ProcessCode: processCode,
			TaskCode:    r.Int64("code"),
		},
		ID:                    r.Int64("id"),
		Name:                  r.String("name"),
		Version:               r.Int("version"),
		Description:           r.String("description"),
		UserID:                r.Int64("user_id"),
		TaskExecuteType:       models.Enum(r, "task_execute_type", taskExecuteType),
		Flag:                  models.Enum(r, "flag", code.AvailableFlagFromStorage),
		Priority:              models.Enum(r, "task_priority", code.PriorityFromStorage),
		WorkerGroup:           r.String("worker_group"),
		EnvironmentCode:       r.Int64("environment_code"),
		FailRetryTimes:        r.Int("fail_retry_times"),
		FailRetryInterval:     r.Int("fail_retry_interval"),
		TimeoutFlag:           models.Enum(r, "timeout_flag", code.TimeoutFlagFromStorage),
		TimeoutNotifyStrategy: r.Text("timeout_notify_strategy"),
		Timeout:               r.Int("timeout"),
		DelayTime:             r.Int("delay_time"),
		ResourceIDs:           r.String("resource_ids"),
		TaskGroupID:           r.Int64("task_group_id"),
		TaskGroupPriority:     r.Int("task_group_priority"),
		CPUQuota:              r.Int("cpu_quota"),
		MemoryMax:             r.Int("memory_max"),
		CreateTime:            r.Time("create_time"),
		UpdateTime:            r.Time("update_time"),
	}
	taskType := r.String("task_type")
	stored := r.String("task_params")
	if err := r.Err(); err != nil {
		return nil, err
	}

	p, err := params.Decode(taskType, stored)
	if err != nil {
		return nil, &models.MalformedRowError{Record: "task definition", Key: "task_params", Err: err}
	}
	t.Params = p
	return t, nil
}

func taskExecuteType(v int) (code.TaskExecuteType, error) {
	if v == code.TaskExecuteTypeUnset.Storage() {
		return code.TaskExecuteTypeUnset, nil
	}
	return code.TaskExecuteTypeFromStorage(v)
}

// MarshalJSON renders the shape the create and update workflow endpoints
// expect inside taskDefinitionJson.
func (t TaskDefinitionRecord) MarshalJSON() ([]byte, error) {
	if t.Params == nil {
		return nil, errors.Errorf("task %d has no params", t.TaskCode)
	}
	taskParams, err := params.Encode(t.Params)
	if err != nil {
		return nil, err
	}

	taskType := t.TaskType().Wire()
	if u, ok := t.Params.(*params.Unknown); ok {
		taskType = u.Tag
	}

	return json.Marshal(struct {
		Code                  int64           `json:"code"`
		Name                  string          `json:"name"`
		TaskType              string          `json:"taskType"`
		EnvironmentCode       int64           `json:"environmentCode"`
		TaskParams            json.RawMessage `json:"taskParams"`
		DelayTime             string          `json:"delayTime"`
		Description           string          `json:"description"`
		FailRetryInterval     string          `json:"failRetryInterval"`
		FailRetryTimes        string          `json:"failRetryTimes"`
		Flag                  string          `json:"flag"`
		Timeout               int             `json:"timeout"`
		TaskPriority          string          `json:"taskPriority"`
		TimeoutFlag           string          `json:"timeoutFlag"`
		TimeoutNotifyStrategy string          `json:"timeoutNotifyStrategy"`
		WorkerGroup           string          `json:"workerGroup"`
		CPUQuota              int             `json:"cpuQuota"`
		MemoryMax             int             `json:"memoryMax"`
		TaskExecuteType       string          `json:"taskExecuteType"`
	}{
		Code:                  t.TaskCode,
		Name:                  t.Name,
		TaskType:              taskType,
		EnvironmentCode:       t.EnvironmentCode,
		TaskParams:            taskParams,
		DelayTime:             strconv.Itoa(t.DelayTime),
		Description:           t.Description,
		FailRetryInterval:     strconv.Itoa(t.FailRetryInterval),
		FailRetryTimes:        strconv.Itoa(t.FailRetryTimes),
		Flag:                  t.Flag.Wire(),
		Timeout:               t.Timeout,
		TaskPriority:          t.Priority.Wire(),
		TimeoutFlag:           t.TimeoutFlag.Wire(),
		TimeoutNotifyStrategy: t.TimeoutNotifyStrategy,
		WorkerGroup:           t.WorkerGroup,
		CPUQuota:              t.CPUQuota,
		MemoryMax:             t.MemoryMax,
		TaskExecuteType:       t.TaskExecuteType.Wire(),
	})
}
