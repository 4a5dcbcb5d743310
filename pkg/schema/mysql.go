package schema

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// MySQLCatalog reflects tables in the connection's default database.
// Column aliases are explicit since MySQL 8 reports information_schema
// columns in upper case.
type MySQLCatalog struct {
	db *sqlx.DB
}

func (c *MySQLCatalog) Dialect() string { return DialectMySQL }

func (c *MySQLCatalog) ListTables(ctx context.Context) ([]string, error) {
	tables, err := selectStrings(ctx, c.db, `
		SELECT table_name AS name
		FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
		ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (c *MySQLCatalog) TableExists(ctx context.Context, table string) (bool, error) {
	var exists bool
	err := c.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE' AND table_name = ?
		)`, table)
	if err != nil {
		return false, fmt.Errorf("failed to check table existence: %w", err)
	}
	return exists, nil
}

func (c *MySQLCatalog) TableColumns(ctx context.Context, table string) ([]RawColumn, error) {
	var columns []RawColumn
	err := c.db.SelectContext(ctx, &columns, "SELECT"+
		" column_name AS `name`,"+
		" column_type AS `type`,"+
		" CASE WHEN is_nullable = 'NO' THEN 1 ELSE 0 END AS `notnull`,"+
		" column_default AS `dflt_value`,"+
		" CASE WHEN column_key = 'PRI' THEN 1 ELSE 0 END AS `pk`"+
		" FROM information_schema.columns"+
		" WHERE table_schema = DATABASE() AND table_name = ?"+
		" ORDER BY ordinal_position", table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	return columns, nil
}

func (c *MySQLCatalog) TableIndexes(ctx context.Context, table string) ([]RawIndex, error) {
	var indexes []RawIndex
	err := c.db.SelectContext(ctx, &indexes, "SELECT"+
		" index_name AS `name`,"+
		" MAX(CASE WHEN non_unique = 0 THEN 1 ELSE 0 END) AS `unique`"+
		" FROM information_schema.statistics"+
		" WHERE table_schema = DATABASE() AND table_name = ?"+
		" GROUP BY index_name"+
		" ORDER BY index_name", table)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	return indexes, nil
}

func (c *MySQLCatalog) IndexColumns(ctx context.Context, table, index string) ([]string, error) {
	columns, err := selectStrings(ctx, c.db, `
		SELECT COALESCE(column_name, '')
		FROM information_schema.statistics
		WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?
		ORDER BY seq_in_index`, table, index)
	if err != nil {
		return nil, fmt.Errorf("failed to query index columns: %w", err)
	}
	return columns, nil
}

func (c *MySQLCatalog) QuoteIdentifier(name string) string {
	return quoteWith(name, "`")
}
