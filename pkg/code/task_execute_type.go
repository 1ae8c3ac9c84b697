package code

// TaskExecuteType enumerates t_ds_task_definition.task_execute_type.
// Rows written by older scheduler releases leave the column NULL, which
// decodes to TaskExecuteTypeUnset.
type TaskExecuteType int

const (
	TaskExecuteTypeUnset  TaskExecuteType = -1
	TaskExecuteTypeBatch  TaskExecuteType = 0
	TaskExecuteTypeStream TaskExecuteType = 1
)

var taskExecuteTypeMembers = []TaskExecuteType{TaskExecuteTypeBatch, TaskExecuteTypeStream}

// TaskExecuteTypeFromStorage returns the member stored as v.
func TaskExecuteTypeFromStorage(v int) (TaskExecuteType, error) {
	return lookup("TaskExecuteType", taskExecuteTypeMembers, v)
}

// ParseTaskExecuteType returns the member whose wire code is s.
func ParseTaskExecuteType(s string) (TaskExecuteType, error) {
	return parseWire("TaskExecuteType", taskExecuteTypeMembers, s)
}

func (c TaskExecuteType) Storage() int { return int(c) }

func (c TaskExecuteType) Wire() string {
	switch c {
	case TaskExecuteTypeBatch:
		return "BATCH"
	case TaskExecuteTypeStream:
		return "STREAM"
	default:
		return ""
	}
}

func (c TaskExecuteType) String() string {
	if c == TaskExecuteTypeUnset {
		return "UNSET"
	}
	return c.Wire()
}
