package schema

import (
	"context"
	"fmt"

	"github.com/JayJamieson/sql-admin/pkg/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 4

// TableError attaches the table being described to a catalog failure.
type TableError struct {
	Table string
	Err   error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("table %q: %v", e.Table, e.Err)
}

func (e *TableError) Unwrap() error {
	return e.Err
}

type Introspector struct {
	catalog     Catalog
	concurrency int
	logger      zerolog.Logger
}

func NewIntrospector(catalog Catalog, concurrency int, logger zerolog.Logger) *Introspector {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Introspector{
		catalog:     catalog,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (i *Introspector) Catalog() Catalog {
	return i.catalog
}

// ListTableNames returns user tables in ascending order.
func (i *Introspector) ListTableNames(ctx context.Context) ([]string, error) {
	names, err := i.catalog.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// DescribeTable returns columns and indexes for table. A table the catalog
// does not know yields an empty description rather than an error.
func (i *Introspector) DescribeTable(ctx context.Context, table string) (*models.TableDescription, error) {
	columns, err := i.describeColumns(ctx, table)
	if err != nil {
		return nil, err
	}

	rawIndexes, err := i.catalog.TableIndexes(ctx, table)
	if err != nil {
		return nil, &TableError{Table: table, Err: err}
	}

	indexes := make([]models.IndexDescription, 0, len(rawIndexes))
	for _, idx := range rawIndexes {
		members, err := i.catalog.IndexColumns(ctx, table, idx.Name)
		if err != nil {
			return nil, &TableError{Table: table, Err: fmt.Errorf("index %q: %w", idx.Name, err)}
		}
		if members == nil {
			members = []string{}
		}
		indexes = append(indexes, models.IndexDescription{
			Name:    idx.Name,
			Unique:  idx.Unique != 0,
			Columns: members,
		})
	}

	i.logger.Debug().
		Str("table", table).
		Int("columns", len(columns)).
		Int("indexes", len(indexes)).
		Msg("described table")

	return &models.TableDescription{
		TableName: table,
		Columns:   columns,
		Indexes:   indexes,
	}, nil
}

// DescribeAllTables describes the columns of every table. Per-table catalog
// reads run concurrently, bounded by the introspector's concurrency, and
// the result keeps the order of ListTableNames. The first failing table
// fails the whole call.
func (i *Introspector) DescribeAllTables(ctx context.Context) ([]models.TableDescription, error) {
	names, err := i.ListTableNames(ctx)
	if err != nil {
		return nil, err
	}

	tables := make([]models.TableDescription, len(names))

	var g errgroup.Group
	g.SetLimit(i.concurrency)
	for n, name := range names {
		g.Go(func() error {
			columns, err := i.describeColumns(ctx, name)
			if err != nil {
				return err
			}
			tables[n] = models.TableDescription{TableName: name, Columns: columns}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return tables, nil
}

func (i *Introspector) describeColumns(ctx context.Context, table string) ([]models.ColumnDescription, error) {
	raw, err := i.catalog.TableColumns(ctx, table)
	if err != nil {
		return nil, &TableError{Table: table, Err: err}
	}
	return NormalizeColumns(raw), nil
}

// NormalizeColumns converts raw catalog flags. A nonzero pk ordinal marks key
// membership. Nullable is the negation of notnull, and key members are never
// nullable since SQLite reports notnull=0 for INTEGER PRIMARY KEY columns.
// The default is kept verbatim with NULL meaning no default.
func NormalizeColumns(raw []RawColumn) []models.ColumnDescription {
	columns := make([]models.ColumnDescription, 0, len(raw))
	for _, col := range raw {
		var def *string
		if col.DefaultValue.Valid {
			v := col.DefaultValue.String
			def = &v
		}
		columns = append(columns, models.ColumnDescription{
			Name:         col.Name,
			Type:         col.Type,
			Nullable:     col.NotNull == 0 && col.PK == 0,
			DefaultValue: def,
			IsPrimaryKey: col.PK != 0,
		})
	}
	return columns
}
