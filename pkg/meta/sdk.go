package meta

import (
	"context"
	"iter"
	"sort"

	"github.com/caesium-cloud/dolphin/pkg/log"
	"github.com/caesium-cloud/dolphin/pkg/models"
	"github.com/caesium-cloud/dolphin/pkg/params"
	"github.com/caesium-cloud/dolphin/pkg/records"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize bounds the identifiers bound to a single IN clause.
const DefaultBatchSize = 100

// ErrNotFound is returned when a lookup by primary key matches no row.
var ErrNotFound = errors.New("not found")

// SDK answers metadata questions through a Querier.
type SDK struct {
	q           Querier
	batchSize   int
	concurrency int
}

type Option func(*SDK)

// WithBatchSize sets how many identifiers go into one query. Values
// below one are ignored.
func WithBatchSize(n int) Option {
	return func(s *SDK) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithConcurrency lets up to n batches run at once. The Querier must
// then be safe for concurrent use.
func WithConcurrency(n int) Option {
	return func(s *SDK) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func New(q Querier, opts ...Option) *SDK {
	s := &SDK{q: q, batchSize: DefaultBatchSize, concurrency: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SDK) Projects(ctx context.Context) ([]*records.ProjectRecord, error) {
	rows, err := s.q.SelectAll(ctx, "SELECT * FROM t_ds_project ORDER BY id")
	if err != nil {
		return nil, errors.Wrap(err, "select projects")
	}
	return decodeAll(rows, records.ProjectFromRow)
}

// ProcessDefinitionByID resolves the t_ds_process_definition primary key
// to the workflow's identity.
func (s *SDK) ProcessDefinitionByID(ctx context.Context, id int64) (models.ProcessDefinition, error) {
	row, err := s.q.SelectOne(ctx, "SELECT project_code, code FROM t_ds_process_definition WHERE id = ?", id)
	if err != nil {
		return models.ProcessDefinition{}, errors.Wrapf(err, "select process definition %d", id)
	}
	if row == nil {
		return models.ProcessDefinition{}, errors.Wrapf(ErrNotFound, "process definition %d", id)
	}

	r := row.NewReader("process definition")
	def := models.ProcessDefinition{ProjectCode: r.Int64("project_code"), ProcessCode: r.Int64("code")}
	return def, r.Err()
}

func (s *SDK) ProcessDefinitionRecordsByProject(ctx context.Context, project int64) ([]*records.ProcessDefinitionRecord, error) {
	seq := s.q.SelectIter(ctx, "SELECT * FROM t_ds_process_definition WHERE project_code = ?", "id", project)

	var out []*records.ProcessDefinitionRecord
	for rec, err := range decodeSeq(seq, records.ProcessDefinitionFromRow) {
		if err != nil {
			return nil, errors.Wrapf(err, "select process definitions of project %d", project)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *SDK) ProcessDefinitionRecords(ctx context.Context, defs []models.ProcessDefinition) ([]*records.ProcessDefinitionRecord, error) {
	return batched(ctx, s, processCodes(defs), func(ctx context.Context, codes []int64) ([]*records.ProcessDefinitionRecord, error) {
		rows, err := s.q.SelectAll(ctx, "SELECT * FROM t_ds_process_definition WHERE code IN ?", codes)
		if err != nil {
			return nil, errors.Wrap(err, "select process definitions")
		}
		return decodeAll(rows, records.ProcessDefinitionFromRow)
	})
}

// TaskDefinitions lists the tasks attached to defs according to
// t_ds_process_task_relation. Each task appears once even when it has
// several upstream edges.
func (s *SDK) TaskDefinitions(ctx context.Context, defs []models.ProcessDefinition) ([]models.TaskDefinition, error) {
	seen := make(map[models.TaskDefinition]struct{})
	var out []models.TaskDefinition

	for _, group := range byProject(defs) {
		project := group[0].ProjectCode
		tasks, err := batched(ctx, s, processCodes(group), func(ctx context.Context, codes []int64) ([]models.TaskDefinition, error) {
			rows, err := s.q.SelectAll(ctx,
				"SELECT project_code, process_definition_code, post_task_code FROM t_ds_process_task_relation "+
					"WHERE project_code = ? AND process_definition_code IN ?",
				project, codes)
			if err != nil {
				return nil, errors.Wrapf(err, "select task relations of project %d", project)
			}
			return decodeAll(rows, func(row models.Row) (models.TaskDefinition, error) {
				r := row.NewReader("process task relation")
				t := models.TaskDefinition{
					ProjectCode: r.Int64("project_code"),
					ProcessCode: r.Int64("process_definition_code"),
					TaskCode:    r.Int64("post_task_code"),
				}
				return t, r.Err()
			})
		})
		if err != nil {
			return nil, err
		}

		for _, t := range tasks {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ProjectCode != b.ProjectCode {
			return a.ProjectCode < b.ProjectCode
		}
		if a.ProcessCode != b.ProcessCode {
			return a.ProcessCode < b.ProcessCode
		}
		return a.TaskCode < b.TaskCode
	})
	return out, nil
}

// TaskDefinitionRecords fetches the definitions of tasks. The process
// code of each task is carried over onto its record.
func (s *SDK) TaskDefinitionRecords(ctx context.Context, tasks []models.TaskDefinition) ([]*records.TaskDefinitionRecord, error) {
	return s.taskDefinitionRecords(ctx, tasks, false)
}

// taskDefinitionRecords skips rows whose parameters fail to decode when
// tolerant is set.
func (s *SDK) taskDefinitionRecords(ctx context.Context, tasks []models.TaskDefinition, tolerant bool) ([]*records.TaskDefinitionRecord, error) {
	owner := make(map[int64]int64, len(tasks))
	codes := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		if _, ok := owner[t.TaskCode]; !ok {
			codes = append(codes, t.TaskCode)
		}
		owner[t.TaskCode] = t.ProcessCode
	}

	return batched(ctx, s, codes, func(ctx context.Context, codes []int64) ([]*records.TaskDefinitionRecord, error) {
		rows, err := s.q.SelectAll(ctx, "SELECT * FROM t_ds_task_definition WHERE code IN ?", codes)
		if err != nil {
			return nil, errors.Wrap(err, "select task definitions")
		}

		out := make([]*records.TaskDefinitionRecord, 0, len(rows))
		for _, row := range rows {
			taskCode := row.NewReader("task definition").Int64("code")
			rec, err := records.TaskDefinitionFromRow(row, owner[taskCode])
			if err != nil {
				var decodeErr *params.DecodeError
				if tolerant && errors.As(err, &decodeErr) {
					log.Warn("skipping task with undecodable params",
						"task_code", taskCode,
						"task_type", decodeErr.TaskType,
						"error", err)
					continue
				}
				return nil, err
			}
			out = append(out, rec)
		}
		return out, nil
	})
}

// AllTaskDefinitionRecords streams every row of t_ds_task_definition.
func (s *SDK) AllTaskDefinitionRecords(ctx context.Context) iter.Seq2[*records.TaskDefinitionRecord, error] {
	seq := s.q.SelectIter(ctx, "SELECT * FROM t_ds_task_definition", "id")
	return decodeSeq(seq, func(row models.Row) (*records.TaskDefinitionRecord, error) {
		return records.TaskDefinitionFromRow(row, 0)
	})
}

// ScheduleRecords fetches the schedules attached to defs.
func (s *SDK) ScheduleRecords(ctx context.Context, defs []models.ProcessDefinition) ([]*records.ScheduleRecord, error) {
	return batched(ctx, s, processCodes(defs), func(ctx context.Context, codes []int64) ([]*records.ScheduleRecord, error) {
		rows, err := s.q.SelectAll(ctx, "SELECT * FROM t_ds_schedules WHERE process_definition_code IN ?", codes)
		if err != nil {
			return nil, errors.Wrap(err, "select schedules")
		}
		return decodeAll(rows, records.ScheduleFromRow)
	})
}

// AllProcessTaskRelations streams every row of t_ds_process_task_relation.
func (s *SDK) AllProcessTaskRelations(ctx context.Context) iter.Seq2[*records.ProcessTaskRelationRecord, error] {
	seq := s.q.SelectIter(ctx, "SELECT * FROM t_ds_process_task_relation", "id")
	return decodeSeq(seq, records.ProcessTaskRelationFromRow)
}

// batched splits items into chunks of the SDK's batch size and runs fetch
// on each, concurrently when WithConcurrency allows it.
func batched[T, R any](ctx context.Context, s *SDK, items []T, fetch func(context.Context, []T) ([]R, error)) ([]R, error) {
	chunks := chunk(items, s.batchSize)
	results := make([][]R, len(chunks))

	if s.concurrency <= 1 || len(chunks) <= 1 {
		for i, c := range chunks {
			log.Debug("querying batch", "batch", i+1, "of", len(chunks), "size", len(c))
			res, err := fetch(ctx, c)
			if err != nil {
				return nil, err
			}
			results[i] = res
		}
		return flatten(results), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, c := range chunks {
		g.Go(func() error {
			log.Debug("querying batch", "batch", i+1, "of", len(chunks), "size", len(c))
			res, err := fetch(gctx, c)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return flatten(results), nil
}

func chunk[T any](items []T, size int) [][]T {
	var out [][]T
	for lo := 0; lo < len(items); lo += size {
		hi := min(lo+size, len(items))
		out = append(out, items[lo:hi])
	}
	return out
}

func flatten[R any](parts [][]R) []R {
	var out []R
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func decodeAll[T any](rows []models.Row, decode func(models.Row) (T, error)) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		v, err := decode(row)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// decodeSeq maps seq through decode, stopping at the first error.
func decodeSeq[T any](seq iter.Seq2[models.Row, error], decode func(models.Row) (T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		for row, err := range seq {
			if err != nil {
				yield(zero, err)
				return
			}
			v, err := decode(row)
			if err != nil {
				yield(zero, err)
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

func processCodes(defs []models.ProcessDefinition) []int64 {
	seen := make(map[int64]struct{}, len(defs))
	codes := make([]int64, 0, len(defs))
	for _, d := range defs {
		if _, ok := seen[d.ProcessCode]; ok {
			continue
		}
		seen[d.ProcessCode] = struct{}{}
		codes = append(codes, d.ProcessCode)
	}
	return codes
}

// byProject groups defs by project code, in ascending project order.
func byProject(defs []models.ProcessDefinition) [][]models.ProcessDefinition {
	groups := make(map[int64][]models.ProcessDefinition)
	var projects []int64
	for _, d := range defs {
		if _, ok := groups[d.ProjectCode]; !ok {
			projects = append(projects, d.ProjectCode)
		}
		groups[d.ProjectCode] = append(groups[d.ProjectCode], d)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i] < projects[j] })

	out := make([][]models.ProcessDefinition, 0, len(projects))
	for _, p := range projects {
		out = append(out, groups[p])
	}
	return out
}
