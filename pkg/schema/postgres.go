package schema

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresCatalog reflects tables in the connection's current schema.
type PostgresCatalog struct {
	db *sqlx.DB
}

func (c *PostgresCatalog) Dialect() string { return DialectPostgres }

func (c *PostgresCatalog) ListTables(ctx context.Context) ([]string, error) {
	tables, err := selectStrings(ctx, c.db, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
		ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (c *PostgresCatalog) TableExists(ctx context.Context, table string) (bool, error) {
	var exists bool
	err := c.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_type = 'BASE TABLE' AND table_name = $1
		)`, table)
	if err != nil {
		return false, fmt.Errorf("failed to check table existence: %w", err)
	}
	return exists, nil
}

// TableColumns reports the primary key ordinal in pk, matching the SQLite
// pragma where 0 means the column is not part of the key.
func (c *PostgresCatalog) TableColumns(ctx context.Context, table string) ([]RawColumn, error) {
	var columns []RawColumn
	err := c.db.SelectContext(ctx, &columns, `
		SELECT
			c.column_name AS name,
			c.data_type AS type,
			CASE WHEN c.is_nullable = 'NO' THEN 1 ELSE 0 END AS "notnull",
			c.column_default AS dflt_value,
			COALESCE(pk.ordinal_position, 0) AS pk
		FROM information_schema.columns c
		LEFT JOIN (
			SELECT k.table_schema, k.table_name, k.column_name, k.ordinal_position
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage k
				ON k.constraint_name = tc.constraint_name
				AND k.table_schema = tc.table_schema
				AND k.table_name = tc.table_name
			WHERE tc.constraint_type = 'PRIMARY KEY'
		) pk ON pk.table_schema = c.table_schema
			AND pk.table_name = c.table_name
			AND pk.column_name = c.column_name
		WHERE c.table_schema = current_schema() AND c.table_name = $1
		ORDER BY c.ordinal_position`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	return columns, nil
}

func (c *PostgresCatalog) TableIndexes(ctx context.Context, table string) ([]RawIndex, error) {
	var indexes []RawIndex
	err := c.db.SelectContext(ctx, &indexes, `
		SELECT i.relname AS name, CASE WHEN ix.indisunique THEN 1 ELSE 0 END AS "unique"
		FROM pg_index ix
		JOIN pg_class t ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		WHERE n.nspname = current_schema() AND t.relname = $1
		ORDER BY i.relname`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	return indexes, nil
}

func (c *PostgresCatalog) IndexColumns(ctx context.Context, _ string, index string) ([]string, error) {
	columns, err := selectStrings(ctx, c.db, `
		SELECT COALESCE(a.attname, '')
		FROM pg_index ix
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_namespace n ON n.oid = i.relnamespace
		CROSS JOIN LATERAL unnest(ix.indkey::int2[]) WITH ORDINALITY AS k(attnum, ord)
		LEFT JOIN pg_attribute a ON a.attrelid = ix.indrelid AND a.attnum = k.attnum
		WHERE n.nspname = current_schema() AND i.relname = $1
		ORDER BY k.ord`, index)
	if err != nil {
		return nil, fmt.Errorf("failed to query index columns: %w", err)
	}
	return columns, nil
}

func (c *PostgresCatalog) QuoteIdentifier(name string) string {
	return quoteWith(name, `"`)
}
