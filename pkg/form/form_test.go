package form

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/caesium-cloud/dolphin/pkg/code"
	"github.com/caesium-cloud/dolphin/pkg/models"
	"github.com/caesium-cloud/dolphin/pkg/params"
	"github.com/caesium-cloud/dolphin/pkg/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 7, 15, 16, 20, 0, 0, time.UTC)

func TestStartInstanceDefaults(t *testing.T) {
	v, err := DefaultStartInstance(100, "default", now).Values()
	require.NoError(t, err)

	for key, want := range map[string]string{
		"processDefinitionCode":     "100",
		"failureStrategy":           "CONTINUE",
		"warningType":               "NONE",
		"warningGroupId":            "",
		"execType":                  "START_PROCESS",
		"startNodeList":             "",
		"taskDependType":            "TASK_POST",
		"complementDependentMode":   "OFF_MODE",
		"runMode":                   "RUN_MODE_SERIAL",
		"processInstancePriority":   "MEDIUM",
		"workerGroup":               "default",
		"environmentCode":           "",
		"startParams":               "",
		"expectedParallelismNumber": "",
		"dryRun":                    "0",
	} {
		got, ok := v[key]
		require.True(t, ok, "missing key %s", key)
		assert.Equal(t, []string{want}, got, key)
	}
	assert.JSONEq(t,
		`{"complementStartDate":"2024-07-15 00:00:00","complementEndDate":"2024-07-15 00:00:00"}`,
		v.Get("scheduleTime"))
}

func TestStartInstanceOptionals(t *testing.T) {
	group := int64(3)
	parallelism := 4
	f := DefaultStartInstance(100, "etl", now)
	f.WarningGroupID = &group
	f.ExpectedParallelismNumber = &parallelism
	f.StartParams = map[string]string{"day": "2024-07-14"}
	f.DryRun = true
	f.RunMode = code.RunModeParallel

	v, err := f.Values()
	require.NoError(t, err)
	assert.Equal(t, "3", v.Get("warningGroupId"))
	assert.Equal(t, "4", v.Get("expectedParallelismNumber"))
	assert.Equal(t, "1", v.Get("dryRun"))
	assert.Equal(t, "RUN_MODE_PARALLEL", v.Get("runMode"))
	assert.JSONEq(t, `{"day":"2024-07-14"}`, v.Get("startParams"))
}

func TestCronSchedule(t *testing.T) {
	f := CronSchedule(100, "0 0 2 * * ? *", "default", "", now)
	require.NoError(t, f.Validate())

	assert.Equal(t, DefaultTimezone, f.Schedule.TimezoneID)
	assert.Equal(t, time.Date(2124, 7, 15, 0, 0, 0, 0, time.UTC), f.Schedule.EndTime)

	v, err := f.Values()
	require.NoError(t, err)
	assert.Equal(t, "100", v.Get("processDefinitionCode"))
	assert.Equal(t, "CONTINUE", v.Get("failureStrategy"))
	assert.Equal(t, "MEDIUM", v.Get("processInstancePriority"))
	for _, key := range []string{"warningGroupId", "environmentCode", "deadline"} {
		require.Contains(t, v, key)
		assert.Equal(t, "", v.Get(key), key)
	}
	assert.JSONEq(t, `{
		"startTime":"2024-07-15 00:00:00",
		"endTime":"2124-07-15 00:00:00",
		"crontab":"0 0 2 * * ? *",
		"timezoneId":"Asia/Shanghai"
	}`, v.Get("schedule"))
}

func TestScheduleNext(t *testing.T) {
	// now is Monday 2024-07-15 16:20 UTC.
	cases := map[string]time.Time{
		"0 30 2 * * ?":   time.Date(2024, 7, 16, 2, 30, 0, 0, time.UTC),
		"0 0 0 ? * 1":    time.Date(2024, 7, 21, 0, 0, 0, 0, time.UTC),
		"0 0 0 ? * 7":    time.Date(2024, 7, 20, 0, 0, 0, 0, time.UTC),
		"0 0 0 ? * 2-6":  time.Date(2024, 7, 16, 0, 0, 0, 0, time.UTC),
		"0 0 0 ? * 1,7":  time.Date(2024, 7, 20, 0, 0, 0, 0, time.UTC),
		"0 0 0 ? * SAT":  time.Date(2024, 7, 20, 0, 0, 0, 0, time.UTC),
		"0 0 18 ? * 2-2": time.Date(2024, 7, 15, 18, 0, 0, 0, time.UTC),
	}
	for crontab, want := range cases {
		t.Run(crontab, func(t *testing.T) {
			f := CronSchedule(100, crontab, "default", "UTC", now)
			require.NoError(t, f.Validate())
			next, err := f.Next(now)
			require.NoError(t, err)
			assert.Equal(t, want, next.UTC())
		})
	}
}

func TestScheduleValidate(t *testing.T) {
	cases := map[string]func(*Schedule){
		"too few fields":   func(s *Schedule) { s.Schedule.Crontab = "0 2 * * *" },
		"bad minute":       func(s *Schedule) { s.Schedule.Crontab = "0 61 2 * * ?" },
		"explicit year":    func(s *Schedule) { s.Schedule.Crontab = "0 0 2 * * ? 2030" },
		"unknown timezone": func(s *Schedule) { s.Schedule.TimezoneID = "Mars/Olympus" },
		"empty window":     func(s *Schedule) { s.Schedule.EndTime = s.Schedule.StartTime },
		"no process":       func(s *Schedule) { s.ProcessCode = 0 },
		"weekday zero":     func(s *Schedule) { s.Schedule.Crontab = "0 0 0 ? * 0" },
		"weekday eight":    func(s *Schedule) { s.Schedule.Crontab = "0 0 0 ? * 1-8" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := CronSchedule(100, "0 0 2 * * ? *", "default", "", now)
			mutate(f)
			assert.Error(t, f.Validate())
		})
	}
}

func TestCreateWorkflow(t *testing.T) {
	shell := records.NewTaskDefinitionRecord(10, 1, "extract", params.NewShell("echo extract"))
	dep := records.NewTaskDefinitionRecord(10, 2, "wait", params.DailyDependent(10, 99))

	f := NewCreateWorkflow("daily", []*records.TaskDefinitionRecord{shell, dep},
		[]Relation{StandaloneRelation(2), NewRelation(2, 1)},
		[]models.Location{{TaskCode: 2, X: 0, Y: 0}, {TaskCode: 1, X: 200, Y: 0}})
	require.NoError(t, f.Validate())

	v, err := f.Values()
	require.NoError(t, err)
	assert.Equal(t, "daily", v.Get("name"))
	assert.Equal(t, "default", v.Get("tenantCode"))
	assert.Equal(t, "PARALLEL", v.Get("executionType"))
	assert.Equal(t, "", v.Get("description"))
	assert.Equal(t, "[]", v.Get("globalParams"))
	assert.Equal(t, "0", v.Get("timeout"))
	assert.Len(t, v, 9)

	var tasks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(v.Get("taskDefinitionJson")), &tasks))
	require.Len(t, tasks, 2)
	assert.Equal(t, "SHELL", tasks[0]["taskType"])
	assert.Equal(t, "DEPENDENT", tasks[1]["taskType"])

	assert.JSONEq(t, `[
		{"name":"","preTaskCode":0,"preTaskVersion":0,"postTaskCode":2,"postTaskVersion":0,"conditionType":"NONE","conditionParams":{}},
		{"name":"","preTaskCode":2,"preTaskVersion":0,"postTaskCode":1,"postTaskVersion":0,"conditionType":"NONE","conditionParams":{}}
	]`, v.Get("taskRelationJson"))
	assert.JSONEq(t, `[{"taskCode":2,"x":0,"y":0},{"taskCode":1,"x":200,"y":0}]`, v.Get("locations"))
}

func TestCreateWorkflowValidate(t *testing.T) {
	task := records.NewTaskDefinitionRecord(10, 1, "extract", params.NewShell("true"))

	assert.Error(t, NewCreateWorkflow("", []*records.TaskDefinitionRecord{task}, []Relation{StandaloneRelation(1)}, nil).Validate())
	assert.Error(t, NewCreateWorkflow("wf", nil, nil, nil).Validate())
	assert.Error(t, NewCreateWorkflow("wf", []*records.TaskDefinitionRecord{task}, nil, nil).Validate())
	assert.Error(t, NewCreateWorkflow("wf", []*records.TaskDefinitionRecord{task}, []Relation{NewRelation(5, 1)}, nil).Validate())
	assert.Error(t, NewCreateWorkflow("wf", []*records.TaskDefinitionRecord{task, task}, []Relation{StandaloneRelation(1)}, nil).Validate())
}

func TestRelease(t *testing.T) {
	v, err := Release{Name: "daily", State: code.ReleaseStateOnline}.Values()
	require.NoError(t, err)
	assert.Equal(t, "daily", v.Get("name"))
	assert.Equal(t, "ONLINE", v.Get("releaseState"))
}

func TestRelationFromRecord(t *testing.T) {
	rec := &records.ProcessTaskRelationRecord{PreTaskCode: 1, PostTaskCode: 2, ConditionType: code.ConditionTypeJudge}
	b, err := json.Marshal(RelationFromRecord(rec))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"","preTaskCode":1,"preTaskVersion":0,"postTaskCode":2,"postTaskVersion":0,"conditionType":"JUDGE","conditionParams":{}}`, string(b))
}
