package meta

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/caesium-cloud/dolphin/pkg/models"
)

type call struct {
	query string
	args  []any
}

// fakeQuerier serves the handful of query shapes SDK issues from
// in-memory tables and records every call.
type fakeQuerier struct {
	mu        sync.Mutex
	relations []models.Row
	tasks     []models.Row
	processes []models.Row
	schedules []models.Row
	calls     []call
	err       error
}

func (f *fakeQuerier) record(query string, args []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{query: query, args: args})
}

func (f *fakeQuerier) callsTo(table string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if strings.Contains(c.query, "FROM "+table+" ") || strings.HasSuffix(c.query, "FROM "+table) {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeQuerier) SelectOne(ctx context.Context, query string, args ...any) (models.Row, error) {
	rows, err := f.SelectAll(ctx, query, args...)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (f *fakeQuerier) SelectAll(_ context.Context, query string, args ...any) ([]models.Row, error) {
	f.record(query, args)
	if f.err != nil {
		return nil, f.err
	}

	switch {
	case strings.Contains(query, "FROM t_ds_process_task_relation WHERE project_code = ?"):
		project, codes := args[0].(int64), args[1].([]int64)
		return filter(f.relations, func(r models.Row) bool {
			return r["project_code"] == project && slices.Contains(codes, r["process_definition_code"].(int64))
		}), nil
	case strings.Contains(query, "FROM t_ds_task_definition WHERE code IN ?"):
		return filterIn(f.tasks, "code", args[0].([]int64)), nil
	case strings.Contains(query, "FROM t_ds_process_definition WHERE code IN ?"):
		return filterIn(f.processes, "code", args[0].([]int64)), nil
	case strings.Contains(query, "FROM t_ds_process_definition WHERE id = ?"):
		return filterIn(f.processes, "id", []int64{args[0].(int64)}), nil
	case strings.Contains(query, "FROM t_ds_schedules WHERE process_definition_code IN ?"):
		return filterIn(f.schedules, "process_definition_code", args[0].([]int64)), nil
	}
	return nil, fmt.Errorf("unexpected query %q", query)
}

func (f *fakeQuerier) SelectIter(_ context.Context, query, _ string, args ...any) iter.Seq2[models.Row, error] {
	f.record(query, args)
	return func(yield func(models.Row, error) bool) {
		if f.err != nil {
			yield(nil, f.err)
			return
		}
		var rows []models.Row
		switch {
		case strings.Contains(query, "FROM t_ds_task_definition"):
			rows = f.tasks
		case strings.Contains(query, "FROM t_ds_process_task_relation"):
			rows = f.relations
		case strings.Contains(query, "FROM t_ds_process_definition WHERE project_code = ?"):
			rows = filterIn(f.processes, "project_code", []int64{args[0].(int64)})
		default:
			yield(nil, fmt.Errorf("unexpected query %q", query))
			return
		}
		for _, r := range rows {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func filter(rows []models.Row, keep func(models.Row) bool) []models.Row {
	var out []models.Row
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func filterIn(rows []models.Row, key string, values []int64) []models.Row {
	return filter(rows, func(r models.Row) bool {
		return slices.Contains(values, r[key].(int64))
	})
}

var stamp = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func (f *fakeQuerier) addTask(project, process, task int64, taskType, taskParams string) {
	f.relations = append(f.relations, models.Row{
		"project_code":            project,
		"process_definition_code": process,
		"post_task_code":          task,
	})
	f.tasks = append(f.tasks, taskRow(project, task, taskType, taskParams))
}

func taskRow(project, task int64, taskType, taskParams string) models.Row {
	return models.Row{
		"id":                      task,
		"code":                    task,
		"name":                    fmt.Sprintf("task-%d", task),
		"version":                 int64(1),
		"description":             "",
		"project_code":            project,
		"user_id":                 int64(1),
		"task_type":               taskType,
		"task_params":             taskParams,
		"task_execute_type":       int64(0),
		"flag":                    int64(1),
		"task_priority":           int64(2),
		"worker_group":            "default",
		"environment_code":        int64(-1),
		"fail_retry_times":        int64(0),
		"fail_retry_interval":     int64(1),
		"timeout_flag":            int64(0),
		"timeout_notify_strategy": nil,
		"timeout":                 int64(0),
		"delay_time":              int64(0),
		"resource_ids":            nil,
		"task_group_id":           int64(0),
		"task_group_priority":     int64(0),
		"cpu_quota":               int64(-1),
		"memory_max":              int64(-1),
		"create_time":             stamp,
		"update_time":             stamp,
	}
}

func dependsOn(upstream ...models.ProcessDefinition) string {
	items := make([]string, 0, len(upstream))
	for _, up := range upstream {
		items = append(items, fmt.Sprintf(
			`{"projectCode":%d,"definitionCode":%d,"depTaskCode":0,"cycle":"day","dateValue":"today"}`,
			up.ProjectCode, up.ProcessCode))
	}
	return `{"localParams":[],"resourceList":[],"dependence":{"relation":"AND","dependTaskList":[{"relation":"AND","dependItemList":[` +
		strings.Join(items, ",") + `]}]}}`
}

const shellParams = `{"rawScript":"echo ok","localParams":[],"resourceList":[]}`
