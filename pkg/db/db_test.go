package db

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/JayJamieson/sql-admin/pkg/schema"
	"github.com/JayJamieson/sql-admin/pkg/statement"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteDB(t *testing.T, allowCTE bool) *DB {
	t.Helper()

	db, err := New(Options{
		Driver:        DriverSQLite,
		URL:           filepath.Join(t.TempDir(), "admin.db"),
		AllowCTEReads: allowCTE,
		Logger:        zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newMockDB(t *testing.T, driver string) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := NewWithConn(sqlx.NewDb(mockDB, "sqlmock"), Options{Driver: driver, Logger: zerolog.Nop()})
	require.NoError(t, err)
	return db, mock
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		driver  string
		dialect string
	}{
		{DriverLibSQL, schema.DialectSQLite},
		{DriverSQLite, schema.DialectSQLite},
		{DriverDuckDB, schema.DialectDuckDB},
		{DriverPostgres, schema.DialectPostgres},
		{DriverMySQL, schema.DialectMySQL},
	}

	for _, tt := range tests {
		got, err := DialectFor(tt.driver)
		require.NoError(t, err)
		assert.Equal(t, tt.dialect, got)
	}

	_, err := DialectFor("oracle")
	assert.EqualError(t, err, "unsupported database driver: oracle")
}

func TestNew_RejectsBadConnectionStrings(t *testing.T) {
	_, err := New(Options{Driver: "oracle", URL: "x"})
	assert.ErrorContains(t, err, "unsupported database driver")

	_, err = New(Options{Driver: DriverMySQL, URL: "not a dsn"})
	assert.ErrorContains(t, err, "failed to parse connection string")

	_, err = New(Options{Driver: DriverPostgres, URL: "postgres://host:notaport/db"})
	assert.ErrorContains(t, err, "failed to parse connection string")
}

func TestCreateDescribeDrop(t *testing.T) {
	db := newSQLiteDB(t, false)
	ctx := context.Background()

	require.NoError(t, db.CreateTable(ctx, "CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT NOT NULL)"))

	names, err := db.ListTableNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, names)

	desc, err := db.DescribeTable(ctx, "users")
	require.NoError(t, err)
	require.Len(t, desc.Columns, 2)
	assert.Equal(t, "email", desc.Columns[1].Name)
	assert.False(t, desc.Columns[1].Nullable)

	require.NoError(t, db.DropTable(ctx, "users"))

	names, err = db.ListTableNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCreateTable_RejectsOtherStatements(t *testing.T) {
	db := newSQLiteDB(t, false)

	err := db.CreateTable(context.Background(), "DROP TABLE users")
	require.Error(t, err)
	assert.ErrorIs(t, err, statement.ErrRejected)
	assert.Equal(t, statement.ReasonCreateTableSchema, err.Error())
}

func TestCreateTable_EngineErrorPassesThrough(t *testing.T) {
	db := newSQLiteDB(t, false)
	ctx := context.Background()

	require.NoError(t, db.CreateTable(ctx, "CREATE TABLE dup (id INTEGER)"))

	err := db.CreateTable(ctx, "CREATE TABLE dup (id INTEGER)")
	require.Error(t, err)
	assert.NotErrorIs(t, err, statement.ErrRejected)
	assert.Contains(t, err.Error(), "already exists")
}

func TestDropTable_MissingTableDoesNotMutate(t *testing.T) {
	db := newSQLiteDB(t, false)
	ctx := context.Background()

	require.NoError(t, db.CreateTable(ctx, "CREATE TABLE keep (id INTEGER)"))

	err := db.DropTable(ctx, "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.EqualError(t, err, `table "ghost" not found`)

	names, err := db.ListTableNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, names)
}

func TestDropTable_MatchesExactName(t *testing.T) {
	db := newSQLiteDB(t, false)
	ctx := context.Background()

	require.NoError(t, db.CreateTable(ctx, "CREATE TABLE keep (id INTEGER)"))

	err := db.DropTable(ctx, "keep; DROP TABLE keep")
	assert.ErrorIs(t, err, ErrTableNotFound)

	names, err := db.ListTableNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, names)
}

func TestDropTable_QuotesIdentifier(t *testing.T) {
	db, mock := newMockDB(t, DriverMySQL)

	mock.ExpectQuery("FROM information_schema.tables").
		WithArgs("we`ird").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE `we``ird`")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, db.DropTable(context.Background(), "we`ird"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDropTable_AbsentTableExecutesNothing(t *testing.T) {
	db, mock := newMockDB(t, DriverSQLite)

	mock.ExpectQuery("FROM sqlite_master").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	err := db.DropTable(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteRead(t *testing.T) {
	db := newSQLiteDB(t, false)
	ctx := context.Background()

	_, err := db.ExecuteWrite(ctx, "CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)")
	require.NoError(t, err)
	_, err = db.ExecuteWrite(ctx, "INSERT INTO items (name) VALUES ('a'), ('b')")
	require.NoError(t, err)

	resp, err := db.ExecuteRead(ctx, "  SELECT id, name FROM items ORDER BY id", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, resp.Meta.Columns)
	assert.Equal(t, 2, resp.Meta.RowsRead)
	assert.Equal(t, []any{
		map[string]any{"id": int64(1), "name": "a"},
		map[string]any{"id": int64(2), "name": "b"},
	}, resp.Results)
	assert.GreaterOrEqual(t, resp.Duration, 0.0)

	arr, err := db.ExecuteRead(ctx, "select id, name from items order by id", ShapeArray)
	require.NoError(t, err)
	assert.Equal(t, []any{
		[]any{int64(1), "a"},
		[]any{int64(2), "b"},
	}, arr.Results)
}

func TestExecuteRead_WrappedSelectReachesEngine(t *testing.T) {
	db := newSQLiteDB(t, false)

	_, err := db.ExecuteRead(context.Background(), "(SELECT 1)", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, statement.ErrRejected)
	assert.Contains(t, err.Error(), "syntax error")
}

func TestExecuteRead_EmptyResultIsNotNil(t *testing.T) {
	db := newSQLiteDB(t, false)
	ctx := context.Background()

	require.NoError(t, db.CreateTable(ctx, "CREATE TABLE empty (id INTEGER)"))

	resp, err := db.ExecuteRead(ctx, "SELECT * FROM empty", "")
	require.NoError(t, err)
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
	assert.Equal(t, 0, resp.Meta.RowsRead)
}

func TestExecuteRead_Gate(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		allowCTE bool
		rejected bool
	}{
		{"select", "SELECT 1", false, false},
		{"write", "DELETE FROM items", false, true},
		{"cte disabled", "WITH x AS (SELECT 1) SELECT * FROM x", false, true},
		{"cte enabled", "WITH x AS (SELECT 1) SELECT * FROM x", true, false},
		{"empty", "   ", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newSQLiteDB(t, tt.allowCTE)

			_, err := db.ExecuteRead(context.Background(), tt.query, "")
			if tt.rejected {
				assert.ErrorIs(t, err, statement.ErrRejected)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExecuteRead_RejectedStatementNeverReachesDriver(t *testing.T) {
	db, mock := newMockDB(t, DriverSQLite)

	_, err := db.ExecuteRead(context.Background(), "DROP TABLE users", "")
	assert.ErrorIs(t, err, statement.ErrRejected)

	_, err = db.ExecuteWrite(context.Background(), "SELECT * FROM users")
	assert.ErrorIs(t, err, statement.ErrRejected)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteRead_EngineErrorPassesThrough(t *testing.T) {
	db := newSQLiteDB(t, false)

	_, err := db.ExecuteRead(context.Background(), "SELECT * FROM nope", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, statement.ErrRejected)
	assert.Contains(t, err.Error(), "no such table")
}

func TestExecuteWrite(t *testing.T) {
	db := newSQLiteDB(t, false)
	ctx := context.Background()

	_, err := db.ExecuteWrite(ctx, "CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)")
	require.NoError(t, err)

	resp, err := db.ExecuteWrite(ctx, "INSERT INTO items (name) VALUES ('a'), ('b'), ('c')")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(3), resp.RowsAffected)

	resp, err = db.ExecuteWrite(ctx, "update items set name = 'z' where id > 1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.RowsAffected)

	_, err = db.ExecuteWrite(ctx, "WITH doomed AS (SELECT id FROM items) DELETE FROM items WHERE id IN doomed")
	var rejected *statement.RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, statement.OperationUpdate, rejected.Operation)
	assert.Equal(t, statement.CommonTableExpression, rejected.Category)
}

func TestExecuteWrite_DriverErrorPassesThrough(t *testing.T) {
	db, mock := newMockDB(t, DriverPostgres)

	driverErr := errors.New(`relation "items" does not exist`)
	mock.ExpectExec("DELETE FROM items").WillReturnError(driverErr)

	_, err := db.ExecuteWrite(context.Background(), "DELETE FROM items")
	assert.Equal(t, driverErr, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidShape(t *testing.T) {
	assert.True(t, ValidShape(""))
	assert.True(t, ValidShape(ShapeObjects))
	assert.True(t, ValidShape(ShapeArray))
	assert.False(t, ValidShape("csv"))
}
