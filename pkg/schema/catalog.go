// Package schema reconstructs table descriptions from engine catalogs.
//
// A Catalog only fetches raw reflection records, shaped after the SQLite
// pragma results (notnull, dflt_value, pk, unique flags). Normalization of
// those records into models.TableDescription happens in the Introspector so
// every engine goes through the same rules.
package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const (
	DialectSQLite   = "sqlite"
	DialectDuckDB   = "duckdb"
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
)

// RawColumn is one row of a per-table column reflection command.
type RawColumn struct {
	Name         string         `db:"name"`
	Type         string         `db:"type"`
	NotNull      int64          `db:"notnull"`
	DefaultValue sql.NullString `db:"dflt_value"`
	PK           int64          `db:"pk"`
}

// RawIndex is one row of a per-table index list command.
type RawIndex struct {
	Name   string `db:"name"`
	Unique int64  `db:"unique"`
}

type Catalog interface {
	Dialect() string
	ListTables(ctx context.Context) ([]string, error)
	TableExists(ctx context.Context, table string) (bool, error)
	TableColumns(ctx context.Context, table string) ([]RawColumn, error)
	TableIndexes(ctx context.Context, table string) ([]RawIndex, error)
	// IndexColumns returns member columns in index key order.
	IndexColumns(ctx context.Context, table, index string) ([]string, error)
	QuoteIdentifier(name string) string
}

func NewCatalog(dialect string, db *sqlx.DB) (Catalog, error) {
	switch dialect {
	case DialectSQLite:
		return &SQLiteCatalog{db: db}, nil
	case DialectDuckDB:
		return &DuckDBCatalog{db: db}, nil
	case DialectPostgres:
		return &PostgresCatalog{db: db}, nil
	case DialectMySQL:
		return &MySQLCatalog{db: db}, nil
	default:
		return nil, fmt.Errorf("unsupported catalog dialect: %s", dialect)
	}
}

// quoteWith wraps name in q, doubling any embedded q.
func quoteWith(name string, q string) string {
	return q + strings.ReplaceAll(name, q, q+q) + q
}

func selectStrings(ctx context.Context, db *sqlx.DB, query string, args ...any) ([]string, error) {
	var out []string
	if err := db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}
