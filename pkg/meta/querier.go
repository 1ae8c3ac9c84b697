// Package meta reads the scheduler's metadata store: projects, workflow
// and task definitions, schedules, and the cross-workflow dependency
// closure derived from DEPENDENT tasks.
package meta

import (
	"context"
	"iter"

	"github.com/caesium-cloud/dolphin/pkg/models"
)

// Querier runs read-only SQL against the metadata store. Placeholders are
// written as ?; a slice argument bound to "IN ?" expands to one
// placeholder per element.
type Querier interface {
	// SelectOne returns the first row, or nil when there is none.
	SelectOne(ctx context.Context, query string, args ...any) (models.Row, error)
	SelectAll(ctx context.Context, query string, args ...any) ([]models.Row, error)
	// SelectIter pages through query ordered by primaryKey. The sequence
	// is finite and not restartable; breaking the loop abandons it.
	SelectIter(ctx context.Context, query, primaryKey string, args ...any) iter.Seq2[models.Row, error]
}
