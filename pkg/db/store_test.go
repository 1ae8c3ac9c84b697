package db

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/caesium-cloud/dolphin/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mockStore(t *testing.T, opts ...StoreOption) (*Store, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = conn.Close()
	})
	return NewStore(gdb, opts...), mock
}

func TestSelectAllExpandsIn(t *testing.T) {
	store, mock := mockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM t_ds_task_definition WHERE code IN (?,?,?)")).
		WithArgs(int64(1), int64(2), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name"}).
			AddRow(int64(10), int64(1), "extract").
			AddRow(int64(11), int64(2), "load"))

	rows, err := store.SelectAll(context.Background(), "SELECT * FROM t_ds_task_definition WHERE code IN ?", []int64{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	r := rows[1].NewReader("task definition")
	assert.Equal(t, int64(2), r.Int64("code"))
	assert.Equal(t, "load", r.String("name"))
	require.NoError(t, r.Err())
}

func TestSelectOne(t *testing.T) {
	store, mock := mockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT project_code, code FROM t_ds_process_definition WHERE id = ?")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"project_code", "code"}).AddRow(int64(1), int64(100)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT project_code, code FROM t_ds_process_definition WHERE id = ?")).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"project_code", "code"}))

	row, err := store.SelectOne(context.Background(), "SELECT project_code, code FROM t_ds_process_definition WHERE id = ?", int64(7))
	require.NoError(t, err)
	assert.Equal(t, int64(100), row.NewReader("process definition").Int64("code"))

	row, err = store.SelectOne(context.Background(), "SELECT project_code, code FROM t_ds_process_definition WHERE id = ?", int64(8))
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestSelectAllError(t *testing.T) {
	store, mock := mockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM t_ds_project")).WillReturnError(assert.AnError)

	_, err := store.SelectAll(context.Background(), "SELECT * FROM t_ds_project")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSelectIterPaginates(t *testing.T) {
	store, mock := mockStore(t, WithPageSize(2))

	inner := "SELECT * FROM t_ds_process_definition WHERE project_code = ?"
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM ("+inner+") AS page ORDER BY page.id LIMIT 2")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code"}).AddRow(int64(1), int64(100)).AddRow(int64(2), int64(200)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM ("+inner+") AS page WHERE page.id > ? ORDER BY page.id LIMIT 2")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code"}).AddRow(int64(5), int64(500)))

	var codes []int64
	for row, err := range store.SelectIter(context.Background(), inner, "id", int64(1)) {
		require.NoError(t, err)
		codes = append(codes, row.NewReader("process definition").Int64("code"))
	}
	assert.Equal(t, []int64{100, 200, 500}, codes)
}

func TestSelectIterStopsEarly(t *testing.T) {
	store, mock := mockStore(t, WithPageSize(2))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM (SELECT * FROM t_ds_task_definition) AS page ORDER BY page.id LIMIT 2")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)))

	seen := 0
	for _, err := range store.SelectIter(context.Background(), "SELECT * FROM t_ds_task_definition", "id") {
		require.NoError(t, err)
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestSelectIterRejectsBadPrimaryKey(t *testing.T) {
	store, _ := mockStore(t)

	for row, err := range store.SelectIter(context.Background(), "SELECT * FROM t_ds_project", "id; DROP TABLE t_ds_project") {
		assert.Nil(t, row)
		assert.ErrorContains(t, err, "invalid primary key")
	}
}

func TestOpen(t *testing.T) {
	_, err := Open("oracle", "")
	assert.ErrorContains(t, err, "unsupported database type")

	_, err = Open(TypeMySQL, "not a dsn")
	assert.ErrorContains(t, err, "invalid mysql dsn")

	gdb, err := Open(TypeSQLite, ":memory:")
	require.NoError(t, err)

	rows, err := NewStore(gdb).SelectAll(context.Background(), "SELECT 1 AS one")
	require.NoError(t, err)
	assert.Equal(t, []models.Row{{"one": int64(1)}}, rows)
}
