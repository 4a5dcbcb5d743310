package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

type DuckDBCatalog struct {
	db *sqlx.DB
}

func (c *DuckDBCatalog) Dialect() string { return DialectDuckDB }

func (c *DuckDBCatalog) ListTables(ctx context.Context) ([]string, error) {
	tables, err := selectStrings(ctx, c.db, `
		SELECT table_name
		FROM duckdb_tables()
		WHERE NOT internal AND schema_name = current_schema()
		ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (c *DuckDBCatalog) TableExists(ctx context.Context, table string) (bool, error) {
	var count int
	err := c.db.GetContext(ctx, &count, `
		SELECT count(*)
		FROM duckdb_tables()
		WHERE NOT internal AND schema_name = current_schema() AND table_name = ?`, table)
	if err != nil {
		return false, fmt.Errorf("failed to check table existence: %w", err)
	}
	return count > 0, nil
}

// TableColumns passes the table as a string literal because pragma
// table functions do not take bound parameters.
func (c *DuckDBCatalog) TableColumns(ctx context.Context, table string) ([]RawColumn, error) {
	var columns []RawColumn
	query := fmt.Sprintf(`
		SELECT name, type, CAST("notnull" AS INTEGER) AS "notnull", dflt_value, CAST(pk AS INTEGER) AS pk
		FROM pragma_table_info(%s)
		ORDER BY cid`, quoteWith(table, "'"))
	if err := c.db.SelectContext(ctx, &columns, query); err != nil {
		if isDuckDBMissingTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	return columns, nil
}

// TableIndexes lists CREATE INDEX indexes only. duckdb_indexes() omits the
// indexes backing PRIMARY KEY and UNIQUE constraints, so unlike SQLite's
// sqlite_autoindex_* entries those never appear here; primary keys still
// surface through is_primary_key on the columns.
func (c *DuckDBCatalog) TableIndexes(ctx context.Context, table string) ([]RawIndex, error) {
	var indexes []RawIndex
	err := c.db.SelectContext(ctx, &indexes, `
		SELECT index_name AS name, CAST(is_unique AS INTEGER) AS "unique"
		FROM duckdb_indexes()
		WHERE schema_name = current_schema() AND table_name = ?
		ORDER BY index_name`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	return indexes, nil
}

func (c *DuckDBCatalog) IndexColumns(ctx context.Context, table, index string) ([]string, error) {
	var expressions string
	err := c.db.GetContext(ctx, &expressions, `
		SELECT CAST(expressions AS VARCHAR)
		FROM duckdb_indexes()
		WHERE schema_name = current_schema() AND table_name = ? AND index_name = ?`, table, index)
	if err != nil {
		return nil, fmt.Errorf("failed to query index columns: %w", err)
	}
	return parseDuckDBExpressions(expressions), nil
}

func (c *DuckDBCatalog) QuoteIdentifier(name string) string {
	return quoteWith(name, `"`)
}

// parseDuckDBExpressions splits the rendered expression list of an index,
// e.g. `[name, "Last Name"]`, into its member columns in key order.
func parseDuckDBExpressions(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		return []string{}
	}

	parts := strings.Split(s, ",")
	columns := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.Trim(p, `'"`)
		columns = append(columns, p)
	}
	return columns
}

// DuckDB raises a catalog error for pragma_table_info on a missing table
// where SQLite returns no rows. Both surface as an empty description.
func isDuckDBMissingTable(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Catalog Error") && strings.Contains(msg, "does not exist")
}
