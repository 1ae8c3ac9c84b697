package models

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/caesium-cloud/dolphin/pkg/code"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowReader(t *testing.T) {
	created := time.Date(2024, 3, 1, 8, 30, 0, 0, time.Local)
	row := Row{
		"id":          int64(7),
		"code":        []byte("123456789"),
		"name":        "etl",
		"description": nil,
		"timeout":     uint8(5),
		"create_time": created,
		"update_time": "2024-03-02 09:00:00",
	}

	r := row.NewReader("process definition")
	assert.Equal(t, int64(7), r.Int64("id"))
	assert.Equal(t, int64(123456789), r.Int64("code"))
	assert.Equal(t, "etl", r.String("name"))
	assert.Equal(t, "", r.String("description"))
	assert.Equal(t, 5, r.Int("timeout"))
	assert.Equal(t, created, r.Time("create_time"))
	assert.Equal(t, time.Date(2024, 3, 2, 9, 0, 0, 0, time.Local), r.Time("update_time"))

	_, ok := r.NullString("description")
	assert.False(t, ok)
	require.NoError(t, r.Err())

	assert.Zero(t, r.Int64("version"))
	var malformed *MalformedRowError
	require.ErrorAs(t, r.Err(), &malformed)
	assert.Equal(t, "process definition", malformed.Record)
	assert.Equal(t, "version", malformed.Key)
	assert.True(t, errors.Is(r.Err(), ErrMissingKey))

	// the first failure wins
	r.Int64("flag")
	require.ErrorAs(t, r.Err(), &malformed)
	assert.Equal(t, "version", malformed.Key)
}

func TestRowReaderUnconvertible(t *testing.T) {
	r := Row{"code": "abc"}.NewReader("project")
	r.Int64("code")

	var malformed *MalformedRowError
	require.ErrorAs(t, r.Err(), &malformed)
	assert.Equal(t, "code", malformed.Key)
	assert.False(t, errors.Is(r.Err(), ErrMissingKey))
}

func TestRowReaderIntegerRange(t *testing.T) {
	r := Row{"a": float64(42), "b": float32(-3), "c": uint64(math.MaxInt64)}.NewReader("task definition")
	assert.Equal(t, int64(42), r.Int64("a"))
	assert.Equal(t, int64(-3), r.Int64("b"))
	assert.Equal(t, int64(math.MaxInt64), r.Int64("c"))
	require.NoError(t, r.Err())

	for key, v := range map[string]any{
		"fraction": float64(1.9),
		"huge":     float64(1e19),
		"overflow": uint64(math.MaxInt64) + 1,
	} {
		t.Run(key, func(t *testing.T) {
			r := Row{key: v}.NewReader("task definition")
			assert.Zero(t, r.Int64(key))

			var malformed *MalformedRowError
			require.ErrorAs(t, r.Err(), &malformed)
			assert.Equal(t, key, malformed.Key)
		})
	}
}

func TestParseLocations(t *testing.T) {
	locs, err := ParseLocations(`[{"taskCode":1,"x":10,"y":"20.5"},{"x":1,"y":1},{"taskCode":"2","x":"3","y":4}]`)
	require.NoError(t, err)
	assert.Equal(t, []Location{
		{TaskCode: 1, X: 10, Y: 20.5},
		{TaskCode: 2, X: 3, Y: 4},
	}, locs)

	for _, empty := range []string{"", "  ", "null"} {
		locs, err = ParseLocations(empty)
		require.NoError(t, err)
		assert.Empty(t, locs)
	}

	_, err = ParseLocations(`{"taskCode":1}`)
	assert.Error(t, err)

	_, err = ParseLocations(`[{"taskCode":1,"x":"left","y":0}]`)
	assert.Error(t, err)
}

func TestComplementTimeRange(t *testing.T) {
	now := time.Date(2024, 5, 6, 17, 45, 12, 0, time.UTC)
	r := DefaultComplementTimeRange(now)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, r.Start, r.End)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"complementStartDate":"2024-05-06 00:00:00","complementEndDate":"2024-05-06 00:00:00"}`, string(b))
}

func TestScheduleJSON(t *testing.T) {
	s := Schedule{
		StartTime:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2124, 1, 1, 0, 0, 0, 0, time.UTC),
		Crontab:    "0 0 2 * * ? *",
		TimezoneID: "Asia/Shanghai",
	}
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"startTime":"2024-01-01 00:00:00",
		"endTime":"2124-01-01 00:00:00",
		"crontab":"0 0 2 * * ? *",
		"timezoneId":"Asia/Shanghai"
	}`, string(b))
}

func TestDependenceDecode(t *testing.T) {
	payload := `{
		"relation": "AND",
		"dependTaskList": [
			{"relation": "OR", "dependItemList": [
				{"projectCode": 1, "definitionCode": 10, "depTaskCode": 0, "cycle": "day", "dateValue": "today"},
				{"projectCode": 2, "definitionCode": 20, "depTaskCode": 5, "cycle": "hour", "dateValue": "last1Hour", "state": 7}
			]},
			{"relation": "AND", "dependItemList": [
				{"projectCode": 1, "definitionCode": 10}
			]}
		]
	}`

	var d Dependence
	require.NoError(t, json.Unmarshal([]byte(payload), &d))
	assert.Equal(t, code.DependRelationAnd, d.Relation)
	require.Len(t, d.Tasks, 2)
	assert.Equal(t, code.DependRelationOr, d.Tasks[0].Relation)
	require.NotNil(t, d.Tasks[0].Items[1].State)
	assert.Equal(t, 7, *d.Tasks[0].Items[1].State)
	assert.Nil(t, d.Tasks[0].Items[0].State)

	assert.Equal(t, []ProcessDefinition{
		{ProjectCode: 1, ProcessCode: 10},
		{ProjectCode: 2, ProcessCode: 20},
		{ProjectCode: 1, ProcessCode: 10},
	}, d.Upstream())
}

func TestDependenceEmpty(t *testing.T) {
	for _, payload := range []string{"{}", "null"} {
		var d Dependence
		require.NoError(t, json.Unmarshal([]byte(payload), &d), payload)
		assert.True(t, d.IsEmpty())
		assert.Empty(t, d.Upstream())
	}

	b, err := json.Marshal(Dependence{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))
}

func TestDependenceMissingFields(t *testing.T) {
	cases := []struct {
		payload string
		path    string
		field   string
	}{
		{`{"dependTaskList": []}`, "", "relation"},
		{`{"relation": "AND"}`, "", "dependTaskList"},
		{`{"relation": "AND", "dependTaskList": [{"relation": "AND"}]}`, "dependTaskList[0]", "dependItemList"},
		{`{"relation": "AND", "dependTaskList": [{"dependItemList": []}]}`, "dependTaskList[0]", "relation"},
		{`{"relation": "AND", "dependTaskList": [{"relation": "OR", "dependItemList": [{"projectCode": 1}]}]}`,
			"dependTaskList[0].dependItemList[0]", "definitionCode"},
		{`{"relation": "AND", "dependTaskList": [{"relation": "OR", "dependItemList": [{"definitionCode": 1}]}]}`,
			"dependTaskList[0].dependItemList[0]", "projectCode"},
	}

	for _, tc := range cases {
		var d Dependence
		err := json.Unmarshal([]byte(tc.payload), &d)

		var missing *MissingFieldError
		require.ErrorAs(t, err, &missing, tc.payload)
		assert.Equal(t, tc.path, missing.Path)
		assert.Equal(t, tc.field, missing.Field)
	}
}

func TestDependenceBadRelation(t *testing.T) {
	var d Dependence
	err := json.Unmarshal([]byte(`{"relation": "XOR", "dependTaskList": []}`), &d)
	assert.ErrorIs(t, err, code.ErrNoSuchCode)
}

func TestDailyDependenceRoundTrip(t *testing.T) {
	d := DailyDependence(3, 30)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"relation": "AND",
		"dependTaskList": [{
			"relation": "AND",
			"dependItemList": [{
				"projectCode": 3, "definitionCode": 30, "depTaskCode": 0,
				"cycle": "day", "dateValue": "today", "state": null
			}]
		}]
	}`, string(b))

	var back Dependence
	require.NoError(t, json.Unmarshal(b, &back))
	if diff := cmp.Diff(d, back); diff != "" {
		t.Errorf("dependence changed after round trip (-want +got):\n%s", diff)
	}
}

func TestKeys(t *testing.T) {
	task := TaskDefinition{ProjectCode: 1, ProcessCode: 2, TaskCode: 3}
	assert.Equal(t, ProcessDefinition{ProjectCode: 1, ProcessCode: 2}, task.Process())
	assert.Equal(t, "http://ds:12345/dolphinscheduler/ui/projects/1/workflow/definitions/2", task.URL("http://ds:12345/"))
	assert.Equal(t, task.URL("http://ds:12345"), task.Process().URL("http://ds:12345"))

	seen := map[ProcessDefinition]bool{{ProjectCode: 1, ProcessCode: 2}: true}
	assert.True(t, seen[task.Process()])

	defs := []ProcessDefinition{{2, 1}, {1, 9}, {1, 3}}
	SortProcessDefinitions(defs)
	assert.Equal(t, []ProcessDefinition{{1, 3}, {1, 9}, {2, 1}}, defs)
	assert.Equal(t, "1/3", defs[0].String())
}
