package meta

import (
	"context"

	"github.com/caesium-cloud/dolphin/pkg/log"
	"github.com/caesium-cloud/dolphin/pkg/models"
	"github.com/caesium-cloud/dolphin/pkg/params"
)

// UpstreamProcessDefinitions returns every workflow that start depends
// on, directly or transitively, through DEPENDENT tasks. The walk is
// breadth first and visits each workflow once, so dependency cycles
// terminate. start itself is part of the result only when includeSelf
// is set. The result is sorted.
//
// Tasks whose parameters cannot be decoded are logged and skipped.
// CONDITIONS tasks are not followed.
func (s *SDK) UpstreamProcessDefinitions(ctx context.Context, start []models.ProcessDefinition, includeSelf bool) ([]models.ProcessDefinition, error) {
	visited := make(map[models.ProcessDefinition]struct{}, len(start))
	var frontier []models.ProcessDefinition
	for _, def := range start {
		if _, ok := visited[def]; ok {
			continue
		}
		visited[def] = struct{}{}
		frontier = append(frontier, def)
	}

	for round := 1; len(frontier) > 0; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log.Debug("resolving upstream workflows", "round", round, "frontier", len(frontier))

		tasks, err := s.TaskDefinitions(ctx, frontier)
		if err != nil {
			return nil, err
		}
		recs, err := s.taskDefinitionRecords(ctx, tasks, true)
		if err != nil {
			return nil, err
		}

		var next []models.ProcessDefinition
		for _, rec := range recs {
			dep, ok := rec.Params.(*params.Dependent)
			if !ok {
				continue
			}
			for _, up := range dep.Dependence.Upstream() {
				if _, ok := visited[up]; ok {
					continue
				}
				visited[up] = struct{}{}
				next = append(next, up)
			}
		}
		frontier = next
	}

	if !includeSelf {
		for _, def := range start {
			delete(visited, def)
		}
	}

	out := make([]models.ProcessDefinition, 0, len(visited))
	for def := range visited {
		out = append(out, def)
	}
	models.SortProcessDefinitions(out)
	return out, nil
}
