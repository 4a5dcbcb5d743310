package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLiteCatalog serves SQLite-compatible engines: libsql, Turso, D1 and
// local files opened through modernc sqlite.
type SQLiteCatalog struct {
	db *sqlx.DB
}

// sqlite_ and _cf_ prefixed tables belong to the engine or the hosting
// platform, not the user.
const sqliteUserTables = `
	SELECT name
	FROM sqlite_master
	WHERE type = 'table'
	AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
	AND name NOT LIKE '\_cf\_%' ESCAPE '\'`

func (c *SQLiteCatalog) Dialect() string { return DialectSQLite }

func (c *SQLiteCatalog) ListTables(ctx context.Context) ([]string, error) {
	tables, err := selectStrings(ctx, c.db, sqliteUserTables+" ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (c *SQLiteCatalog) TableExists(ctx context.Context, table string) (bool, error) {
	var name string
	err := c.db.GetContext(ctx, &name, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check table existence: %w", err)
	}
	return true, nil
}

func (c *SQLiteCatalog) TableColumns(ctx context.Context, table string) ([]RawColumn, error) {
	var columns []RawColumn
	err := c.db.SelectContext(ctx, &columns, `
		SELECT name, type, "notnull", dflt_value, pk
		FROM pragma_table_info(?)
		ORDER BY cid`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	return columns, nil
}

func (c *SQLiteCatalog) TableIndexes(ctx context.Context, table string) ([]RawIndex, error) {
	var indexes []RawIndex
	err := c.db.SelectContext(ctx, &indexes, `
		SELECT name, "unique"
		FROM pragma_index_list(?)
		ORDER BY seq`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	return indexes, nil
}

// IndexColumns reports expression members of an index as empty names.
func (c *SQLiteCatalog) IndexColumns(ctx context.Context, _ string, index string) ([]string, error) {
	var names []sql.NullString
	err := c.db.SelectContext(ctx, &names, `
		SELECT name
		FROM pragma_index_info(?)
		ORDER BY seqno`, index)
	if err != nil {
		return nil, fmt.Errorf("failed to query index columns: %w", err)
	}

	columns := make([]string, 0, len(names))
	for _, n := range names {
		columns = append(columns, n.String)
	}
	return columns, nil
}

func (c *SQLiteCatalog) QuoteIdentifier(name string) string {
	return quoteWith(name, `"`)
}
