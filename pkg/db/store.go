package db

import (
	"context"
	"fmt"
	"iter"
	"regexp"

	"github.com/caesium-cloud/dolphin/pkg/log"
	"github.com/caesium-cloud/dolphin/pkg/meta"
	"github.com/caesium-cloud/dolphin/pkg/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// DefaultPageSize is the number of rows SelectIter fetches per query.
const DefaultPageSize = 1000

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var _ meta.Querier = (*Store)(nil)

// Store runs raw read queries through gorm and returns rows keyed by
// column name.
type Store struct {
	db       *gorm.DB
	pageSize int
}

type StoreOption func(*Store)

// WithPageSize sets the SelectIter page size. Values below one are ignored.
func WithPageSize(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

func NewStore(db *gorm.DB, opts ...StoreOption) *Store {
	s := &Store{db: db, pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) SelectOne(ctx context.Context, query string, args ...any) (models.Row, error) {
	rows, err := s.SelectAll(ctx, query, args...)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (s *Store) SelectAll(ctx context.Context, query string, args ...any) ([]models.Row, error) {
	var scanned []map[string]any
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&scanned).Error; err != nil {
		return nil, errors.Wrap(err, "query failed")
	}

	rows := make([]models.Row, 0, len(scanned))
	for _, m := range scanned {
		rows = append(rows, models.Row(m))
	}
	return rows, nil
}

// SelectIter wraps query in a keyset-paginated outer select ordered by
// primaryKey, so query must project that column.
func (s *Store) SelectIter(ctx context.Context, query, primaryKey string, args ...any) iter.Seq2[models.Row, error] {
	return func(yield func(models.Row, error) bool) {
		if !identifier.MatchString(primaryKey) {
			yield(nil, errors.Errorf("invalid primary key column %q", primaryKey))
			return
		}

		first := fmt.Sprintf("SELECT * FROM (%s) AS page ORDER BY page.%s LIMIT %d", query, primaryKey, s.pageSize)
		rest := fmt.Sprintf("SELECT * FROM (%s) AS page WHERE page.%s > ? ORDER BY page.%s LIMIT %d",
			query, primaryKey, primaryKey, s.pageSize)

		var last any
		for page := 1; ; page++ {
			var (
				rows []models.Row
				err  error
			)
			if last == nil {
				rows, err = s.SelectAll(ctx, first, args...)
			} else {
				rows, err = s.SelectAll(ctx, rest, append(append([]any{}, args...), last)...)
			}
			if err != nil {
				yield(nil, err)
				return
			}
			log.Debug("fetched page", "page", page, "rows", len(rows), "primary_key", primaryKey)

			for _, row := range rows {
				if !yield(row, nil) {
					return
				}
			}
			if len(rows) < s.pageSize {
				return
			}

			var ok bool
			if last, ok = rows[len(rows)-1][primaryKey]; !ok || last == nil {
				yield(nil, &models.MalformedRowError{Record: "page", Key: primaryKey, Err: models.ErrMissingKey})
				return
			}
		}
	}
}
