package code

// TaskType is the discriminant of a task definition. It selects the
// parameter shape stored in t_ds_task_definition.task_params.
type TaskType string

const (
	TaskTypeConditions TaskType = "CONDITIONS"
	TaskTypeShell      TaskType = "SHELL"
	TaskTypeDependent  TaskType = "DEPENDENT"
	TaskTypeSpark      TaskType = "SPARK"
	TaskTypeSQL        TaskType = "SQL"
	TaskTypeFlink      TaskType = "FLINK"

	// TaskTypeUnknown tags task types this package does not model. It is
	// never returned by TaskTypeFromStorage.
	TaskTypeUnknown TaskType = "UNKNOWN"
)

var taskTypeMembers = []TaskType{
	TaskTypeConditions,
	TaskTypeShell,
	TaskTypeDependent,
	TaskTypeSpark,
	TaskTypeSQL,
	TaskTypeFlink,
}

// TaskTypes lists the modeled task types.
func TaskTypes() []TaskType {
	return append([]TaskType(nil), taskTypeMembers...)
}

// TaskTypeFromStorage returns the modeled task type stored as v.
func TaskTypeFromStorage(v string) (TaskType, error) {
	return lookup("TaskType", taskTypeMembers, v)
}

func (t TaskType) Storage() string { return string(t) }

func (t TaskType) Wire() string { return string(t) }

func (t TaskType) String() string { return string(t) }

// DependRelation joins dependency groups and items.
type DependRelation string

const (
	DependRelationAnd DependRelation = "AND"
	DependRelationOr  DependRelation = "OR"
)

var dependRelationMembers = []DependRelation{DependRelationAnd, DependRelationOr}

// DependRelationFromStorage returns the relation stored as v.
func DependRelationFromStorage(v string) (DependRelation, error) {
	return lookup("DependRelation", dependRelationMembers, v)
}

func (r DependRelation) Storage() string { return string(r) }

func (r DependRelation) Wire() string { return string(r) }

func (r DependRelation) String() string { return string(r) }
