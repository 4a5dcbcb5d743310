package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/JayJamieson/sql-admin/pkg/models"
	"github.com/JayJamieson/sql-admin/pkg/schema"
	"github.com/JayJamieson/sql-admin/pkg/statement"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/rs/zerolog"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

const (
	DriverLibSQL   = "libsql"
	DriverSQLite   = "sqlite"
	DriverDuckDB   = "duckdb"
	DriverPostgres = "pgx"
	DriverMySQL    = "mysql"
)

var driverDialects = map[string]string{
	DriverLibSQL:   schema.DialectSQLite,
	DriverSQLite:   schema.DialectSQLite,
	DriverDuckDB:   schema.DialectDuckDB,
	DriverPostgres: schema.DialectPostgres,
	DriverMySQL:    schema.DialectMySQL,
}

var ErrTableNotFound = errors.New("table not found")

type NotFoundError struct {
	Table string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("table %q not found", e.Table)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrTableNotFound
}

type Options struct {
	Driver              string
	URL                 string
	MaxOpenConns        int
	ConnMaxIdleTime     time.Duration
	AllowCTEReads       bool
	DescribeConcurrency int
	Logger              zerolog.Logger
}

// DB executes admin operations against one database handle. It keeps no
// request state; every call goes straight to the driver.
type DB struct {
	conn         *sqlx.DB
	driver       string
	introspector *schema.Introspector
	allowCTE     bool
	logger       zerolog.Logger
}

func DialectFor(driver string) (string, error) {
	dialect, ok := driverDialects[driver]
	if !ok {
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
	return dialect, nil
}

func New(opts Options) (*DB, error) {
	conn, err := open(opts.Driver, opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.ConnMaxIdleTime > 0 {
		conn.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}

	db, err := NewWithConn(conn, opts)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := db.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// NewWithConn wraps an already opened handle, e.g. one backed by sqlmock.
func NewWithConn(conn *sqlx.DB, opts Options) (*DB, error) {
	dialect, err := DialectFor(opts.Driver)
	if err != nil {
		return nil, err
	}

	catalog, err := schema.NewCatalog(dialect, conn)
	if err != nil {
		return nil, err
	}

	return &DB{
		conn:         conn,
		driver:       opts.Driver,
		introspector: schema.NewIntrospector(catalog, opts.DescribeConcurrency, opts.Logger),
		allowCTE:     opts.AllowCTEReads,
		logger:       opts.Logger,
	}, nil
}

func open(driver, url string) (*sqlx.DB, error) {
	switch driver {
	case DriverPostgres:
		config, err := pgx.ParseConfig(url)
		if err != nil {
			return nil, fmt.Errorf("failed to parse connection string: %w", err)
		}
		return sqlx.NewDb(stdlib.OpenDB(*config), DriverPostgres), nil
	case DriverMySQL:
		if _, err := mysql.ParseDSN(url); err != nil {
			return nil, fmt.Errorf("failed to parse connection string: %w", err)
		}
	case DriverLibSQL, DriverSQLite, DriverDuckDB:
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	return sqlx.Open(driver, url)
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Pool exposes the underlying handle for connection pool statistics.
func (db *DB) Pool() *sql.DB {
	return db.conn.DB
}

func (db *DB) Driver() string {
	return db.driver
}

func (db *DB) Dialect() string {
	return db.introspector.Catalog().Dialect()
}

func (db *DB) ListTableNames(ctx context.Context) ([]string, error) {
	return db.introspector.ListTableNames(ctx)
}

func (db *DB) DescribeTable(ctx context.Context, table string) (*models.TableDescription, error) {
	return db.introspector.DescribeTable(ctx, table)
}

func (db *DB) DescribeAllTables(ctx context.Context) ([]models.TableDescription, error) {
	return db.introspector.DescribeAllTables(ctx)
}

// ExecuteRead runs a read statement and returns every row. Engine errors
// are returned as is so the caller sees the engine's own message.
func (db *DB) ExecuteRead(ctx context.Context, query string, shape string) (*models.QueryResponse, error) {
	stmt, err := statement.ForQuery(query, db.allowCTE)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()

	rows, err := db.conn.QueryxContext(ctx, stmt.Text)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, results, err := scanRows(rows, shape)
	if err != nil {
		return nil, err
	}

	duration := elapsedMS(startTime)

	db.logger.Debug().
		Str("statement", stmt.Describe()).
		Int("rows", len(results)).
		Float64("duration_ms", duration).
		Msg("executed read statement")

	return &models.QueryResponse{
		Results: results,
		Meta: models.QueryMeta{
			Columns:  columns,
			RowsRead: len(results),
			Duration: duration,
		},
		Duration: duration,
	}, nil
}

func (db *DB) ExecuteWrite(ctx context.Context, query string) (*models.UpdateResponse, error) {
	stmt, err := statement.ForUpdate(query)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()

	res, err := db.conn.ExecContext(ctx, stmt.Text)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	duration := elapsedMS(startTime)

	db.logger.Debug().
		Str("statement", stmt.Describe()).
		Int64("rows_affected", affected).
		Float64("duration_ms", duration).
		Msg("executed write statement")

	return &models.UpdateResponse{
		Success:      true,
		RowsAffected: affected,
		Duration:     duration,
	}, nil
}

// CreateTable runs a CREATE TABLE statement verbatim.
func (db *DB) CreateTable(ctx context.Context, schemaSQL string) error {
	stmt, err := statement.ForCreateTable(schemaSQL)
	if err != nil {
		return err
	}

	if _, err := db.conn.ExecContext(ctx, stmt.Text); err != nil {
		return err
	}

	db.logger.Info().Str("statement", stmt.Describe()).Msg("created table")
	return nil
}

// DropTable removes table after an exact-name existence check. A missing
// table fails with ErrTableNotFound and nothing is executed.
func (db *DB) DropTable(ctx context.Context, table string) error {
	catalog := db.introspector.Catalog()

	exists, err := catalog.TableExists(ctx, table)
	if err != nil {
		return err
	}
	if !exists {
		return &NotFoundError{Table: table}
	}

	if _, err := db.conn.ExecContext(ctx, "DROP TABLE "+catalog.QuoteIdentifier(table)); err != nil {
		return err
	}

	db.logger.Info().Str("table", table).Msg("dropped table")
	return nil
}

func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
