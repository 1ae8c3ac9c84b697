package code

import "fmt"

// Priority enumerates process and task priority (t_ds_task_definition.task_priority, t_ds_schedules.process_instance_priority).
type Priority int

const (
	PriorityHighest Priority = iota
	PriorityHigh
	PriorityMedium
	PriorityLow
	PriorityLowest
)

var priorityWire = []string{"HIGHEST", "HIGH", "MEDIUM", "LOW", "LOWEST"}

var priorityMembers = []Priority{PriorityHighest, PriorityHigh, PriorityMedium, PriorityLow, PriorityLowest}

// PriorityFromStorage returns the member stored as v.
func PriorityFromStorage(v int) (Priority, error) {
	return lookup("Priority", priorityMembers, v)
}

// ParsePriority returns the member whose wire code is s.
func ParsePriority(s string) (Priority, error) {
	return parseWire("Priority", priorityMembers, s)
}

func (c Priority) Storage() int { return int(c) }

func (c Priority) Wire() string {
	if c < 0 || int(c) >= len(priorityWire) {
		return fmt.Sprintf("Priority(%d)", int(c))
	}
	return priorityWire[c]
}

func (c Priority) String() string { return c.Wire() }

// FailureStrategy enumerates what a workflow instance does after a task fails (t_ds_schedules.failure_strategy).
type FailureStrategy int

const (
	FailureStrategyEnd FailureStrategy = iota
	FailureStrategyContinue
)

var failureStrategyWire = []string{"END", "CONTINUE"}

var failureStrategyMembers = []FailureStrategy{FailureStrategyEnd, FailureStrategyContinue}

// FailureStrategyFromStorage returns the member stored as v.
func FailureStrategyFromStorage(v int) (FailureStrategy, error) {
	return lookup("FailureStrategy", failureStrategyMembers, v)
}

// ParseFailureStrategy returns the member whose wire code is s.
func ParseFailureStrategy(s string) (FailureStrategy, error) {
	return parseWire("FailureStrategy", failureStrategyMembers, s)
}

func (c FailureStrategy) Storage() int { return int(c) }

func (c FailureStrategy) Wire() string {
	if c < 0 || int(c) >= len(failureStrategyWire) {
		return fmt.Sprintf("FailureStrategy(%d)", int(c))
	}
	return failureStrategyWire[c]
}

func (c FailureStrategy) String() string { return c.Wire() }

// WarningType enumerates which workflow outcomes send an alert (t_ds_schedules.warning_type).
type WarningType int

const (
	WarningTypeNone WarningType = iota
	WarningTypeSuccess
	WarningTypeFailure
	WarningTypeAll
)

var warningTypeWire = []string{"NONE", "SUCCESS", "FAILURE", "ALL"}

var warningTypeMembers = []WarningType{WarningTypeNone, WarningTypeSuccess, WarningTypeFailure, WarningTypeAll}

// WarningTypeFromStorage returns the member stored as v.
func WarningTypeFromStorage(v int) (WarningType, error) {
	return lookup("WarningType", warningTypeMembers, v)
}

// ParseWarningType returns the member whose wire code is s.
func ParseWarningType(s string) (WarningType, error) {
	return parseWire("WarningType", warningTypeMembers, s)
}

func (c WarningType) Storage() int { return int(c) }

func (c WarningType) Wire() string {
	if c < 0 || int(c) >= len(warningTypeWire) {
		return fmt.Sprintf("WarningType(%d)", int(c))
	}
	return warningTypeWire[c]
}

func (c WarningType) String() string { return c.Wire() }

// ReleaseState enumerates whether a workflow or schedule is online.
type ReleaseState int

const (
	ReleaseStateOffline ReleaseState = iota
	ReleaseStateOnline
)

var releaseStateWire = []string{"OFFLINE", "ONLINE"}

var releaseStateMembers = []ReleaseState{ReleaseStateOffline, ReleaseStateOnline}

// ReleaseStateFromStorage returns the member stored as v.
func ReleaseStateFromStorage(v int) (ReleaseState, error) {
	return lookup("ReleaseState", releaseStateMembers, v)
}

// ParseReleaseState returns the member whose wire code is s.
func ParseReleaseState(s string) (ReleaseState, error) {
	return parseWire("ReleaseState", releaseStateMembers, s)
}

func (c ReleaseState) Storage() int { return int(c) }

func (c ReleaseState) Wire() string {
	if c < 0 || int(c) >= len(releaseStateWire) {
		return fmt.Sprintf("ReleaseState(%d)", int(c))
	}
	return releaseStateWire[c]
}

func (c ReleaseState) String() string { return c.Wire() }

// AvailableFlag enumerates the flag column of t_ds_project and t_ds_task_definition.
type AvailableFlag int

const (
	AvailableFlagNotAvailable AvailableFlag = iota
	AvailableFlagAvailable
)

var availableFlagWire = []string{"NO", "YES"}

var availableFlagMembers = []AvailableFlag{AvailableFlagNotAvailable, AvailableFlagAvailable}

// AvailableFlagFromStorage returns the member stored as v.
func AvailableFlagFromStorage(v int) (AvailableFlag, error) {
	return lookup("AvailableFlag", availableFlagMembers, v)
}

// ParseAvailableFlag returns the member whose wire code is s.
func ParseAvailableFlag(s string) (AvailableFlag, error) {
	return parseWire("AvailableFlag", availableFlagMembers, s)
}

func (c AvailableFlag) Storage() int { return int(c) }

func (c AvailableFlag) Wire() string {
	if c < 0 || int(c) >= len(availableFlagWire) {
		return fmt.Sprintf("AvailableFlag(%d)", int(c))
	}
	return availableFlagWire[c]
}

func (c AvailableFlag) String() string { return c.Wire() }

// TimeoutFlag enumerates whether a task timeout is enforced.
type TimeoutFlag int

const (
	TimeoutFlagClose TimeoutFlag = iota
	TimeoutFlagOpen
)

var timeoutFlagWire = []string{"CLOSE", "OPEN"}

var timeoutFlagMembers = []TimeoutFlag{TimeoutFlagClose, TimeoutFlagOpen}

// TimeoutFlagFromStorage returns the member stored as v.
func TimeoutFlagFromStorage(v int) (TimeoutFlag, error) {
	return lookup("TimeoutFlag", timeoutFlagMembers, v)
}

// ParseTimeoutFlag returns the member whose wire code is s.
func ParseTimeoutFlag(s string) (TimeoutFlag, error) {
	return parseWire("TimeoutFlag", timeoutFlagMembers, s)
}

func (c TimeoutFlag) Storage() int { return int(c) }

func (c TimeoutFlag) Wire() string {
	if c < 0 || int(c) >= len(timeoutFlagWire) {
		return fmt.Sprintf("TimeoutFlag(%d)", int(c))
	}
	return timeoutFlagWire[c]
}

func (c TimeoutFlag) String() string { return c.Wire() }

// RunMode enumerates how a complement run executes its dates.
type RunMode int

const (
	RunModeSerial RunMode = iota
	RunModeParallel
)

var runModeWire = []string{"RUN_MODE_SERIAL", "RUN_MODE_PARALLEL"}

var runModeMembers = []RunMode{RunModeSerial, RunModeParallel}

// RunModeFromStorage returns the member stored as v.
func RunModeFromStorage(v int) (RunMode, error) {
	return lookup("RunMode", runModeMembers, v)
}

// ParseRunMode returns the member whose wire code is s.
func ParseRunMode(s string) (RunMode, error) {
	return parseWire("RunMode", runModeMembers, s)
}

func (c RunMode) Storage() int { return int(c) }

func (c RunMode) Wire() string {
	if c < 0 || int(c) >= len(runModeWire) {
		return fmt.Sprintf("RunMode(%d)", int(c))
	}
	return runModeWire[c]
}

func (c RunMode) String() string { return c.Wire() }

// ComplementDependentMode enumerates whether a complement run also triggers dependent workflows.
type ComplementDependentMode int

const (
	ComplementDependentModeOff ComplementDependentMode = iota
	ComplementDependentModeAllDependent
)

var complementDependentModeWire = []string{"OFF_MODE", "ALL_DEPENDENT"}

var complementDependentModeMembers = []ComplementDependentMode{ComplementDependentModeOff, ComplementDependentModeAllDependent}

// ComplementDependentModeFromStorage returns the member stored as v.
func ComplementDependentModeFromStorage(v int) (ComplementDependentMode, error) {
	return lookup("ComplementDependentMode", complementDependentModeMembers, v)
}

// ParseComplementDependentMode returns the member whose wire code is s.
func ParseComplementDependentMode(s string) (ComplementDependentMode, error) {
	return parseWire("ComplementDependentMode", complementDependentModeMembers, s)
}

func (c ComplementDependentMode) Storage() int { return int(c) }

func (c ComplementDependentMode) Wire() string {
	if c < 0 || int(c) >= len(complementDependentModeWire) {
		return fmt.Sprintf("ComplementDependentMode(%d)", int(c))
	}
	return complementDependentModeWire[c]
}

func (c ComplementDependentMode) String() string { return c.Wire() }

// ConditionType enumerates the condition attached to a process/task relation.
type ConditionType int

const (
	ConditionTypeNone ConditionType = iota
	ConditionTypeJudge
	ConditionTypeDelay
)

var conditionTypeWire = []string{"NONE", "JUDGE", "DELAY"}

var conditionTypeMembers = []ConditionType{ConditionTypeNone, ConditionTypeJudge, ConditionTypeDelay}

// ConditionTypeFromStorage returns the member stored as v.
func ConditionTypeFromStorage(v int) (ConditionType, error) {
	return lookup("ConditionType", conditionTypeMembers, v)
}

// ParseConditionType returns the member whose wire code is s.
func ParseConditionType(s string) (ConditionType, error) {
	return parseWire("ConditionType", conditionTypeMembers, s)
}

func (c ConditionType) Storage() int { return int(c) }

func (c ConditionType) Wire() string {
	if c < 0 || int(c) >= len(conditionTypeWire) {
		return fmt.Sprintf("ConditionType(%d)", int(c))
	}
	return conditionTypeWire[c]
}

func (c ConditionType) String() string { return c.Wire() }

// ProcessExecutionType enumerates how concurrent instances of one workflow are handled (t_ds_process_definition.execution_type).
type ProcessExecutionType int

const (
	ProcessExecutionTypeParallel ProcessExecutionType = iota
	ProcessExecutionTypeSerialWait
	ProcessExecutionTypeSerialDiscard
	ProcessExecutionTypeSerialPriority
)

var processExecutionTypeWire = []string{"PARALLEL", "SERIAL_WAIT", "SERIAL_DISCARD", "SERIAL_PRIORITY"}

var processExecutionTypeMembers = []ProcessExecutionType{ProcessExecutionTypeParallel, ProcessExecutionTypeSerialWait, ProcessExecutionTypeSerialDiscard, ProcessExecutionTypeSerialPriority}

// ProcessExecutionTypeFromStorage returns the member stored as v.
func ProcessExecutionTypeFromStorage(v int) (ProcessExecutionType, error) {
	return lookup("ProcessExecutionType", processExecutionTypeMembers, v)
}

// ParseProcessExecutionType returns the member whose wire code is s.
func ParseProcessExecutionType(s string) (ProcessExecutionType, error) {
	return parseWire("ProcessExecutionType", processExecutionTypeMembers, s)
}

func (c ProcessExecutionType) Storage() int { return int(c) }

func (c ProcessExecutionType) Wire() string {
	if c < 0 || int(c) >= len(processExecutionTypeWire) {
		return fmt.Sprintf("ProcessExecutionType(%d)", int(c))
	}
	return processExecutionTypeWire[c]
}

func (c ProcessExecutionType) String() string { return c.Wire() }
