package form

import (
	"net/url"
	"strconv"
	"time"

	"github.com/caesium-cloud/dolphin/pkg/code"
	"github.com/caesium-cloud/dolphin/pkg/jsonutil"
	"github.com/caesium-cloud/dolphin/pkg/models"
)

// StartInstance is the body of the start process instance call.
type StartInstance struct {
	ProcessCode               int64
	FailureStrategy           code.FailureStrategy
	WarningType               code.WarningType
	WarningGroupID            *int64
	ComplementDependentMode   code.ComplementDependentMode
	RunMode                   code.RunMode
	ProcessInstancePriority   code.Priority
	WorkerGroup               string
	EnvironmentCode           *int64
	StartParams               map[string]string
	ExpectedParallelismNumber *int
	DryRun                    bool
	ScheduleTime              models.ComplementTimeRange
}

// DefaultStartInstance starts processCode once for today.
func DefaultStartInstance(processCode int64, workerGroup string, now time.Time) *StartInstance {
	return &StartInstance{
		ProcessCode:             processCode,
		FailureStrategy:         code.FailureStrategyContinue,
		WarningType:             code.WarningTypeNone,
		ComplementDependentMode: code.ComplementDependentModeOff,
		RunMode:                 code.RunModeSerial,
		ProcessInstancePriority: code.PriorityMedium,
		WorkerGroup:             workerGroup,
		ScheduleTime:            models.DefaultComplementTimeRange(now),
	}
}

func (f *StartInstance) Values() (url.Values, error) {
	startParams, err := jsonutil.MarshalOptionalMapString(f.StartParams)
	if err != nil {
		return nil, err
	}
	scheduleTime, err := jsonutil.MarshalString(f.ScheduleTime)
	if err != nil {
		return nil, err
	}

	dryRun := "0"
	if f.DryRun {
		dryRun = "1"
	}

	v := url.Values{}
	v.Set("processDefinitionCode", strconv.FormatInt(f.ProcessCode, 10))
	v.Set("failureStrategy", f.FailureStrategy.Wire())
	v.Set("warningType", f.WarningType.Wire())
	v.Set("warningGroupId", optional(f.WarningGroupID))
	v.Set("execType", "START_PROCESS")
	v.Set("startNodeList", "")
	v.Set("taskDependType", "TASK_POST")
	v.Set("complementDependentMode", f.ComplementDependentMode.Wire())
	v.Set("runMode", f.RunMode.Wire())
	v.Set("processInstancePriority", f.ProcessInstancePriority.Wire())
	v.Set("workerGroup", f.WorkerGroup)
	v.Set("environmentCode", optional(f.EnvironmentCode))
	v.Set("startParams", startParams)
	v.Set("expectedParallelismNumber", optional(f.ExpectedParallelismNumber))
	v.Set("dryRun", dryRun)
	v.Set("scheduleTime", scheduleTime)
	return v, nil
}
