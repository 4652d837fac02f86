package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"agridash/config"
	"agridash/dataset"
	"agridash/utils"
)

// Warehouse runs read-only SQL against the pre-built analytical store.
// Each query opens its own connection and releases it before returning, so
// concurrent callers never share a handle.
type Warehouse struct {
	driver string
	path   string
	dsn    string
	log    *zap.Logger
}

func NewWarehouse(cfg *config.Warehouse, log *zap.Logger) *Warehouse {
	return &Warehouse{
		driver: cfg.Driver,
		path:   cfg.Path,
		dsn:    cfg.DSN,
		log:    log.Named("warehouse"),
	}
}

// RunQuery executes sqlText with positional args and returns the result set.
// Failures are *dataset.QueryError.
func (w *Warehouse) RunQuery(ctx context.Context, sqlText string, args ...any) (*dataset.Table, error) {
	if strings.TrimSpace(sqlText) == "" {
		return nil, &dataset.QueryError{Op: "validate", Err: errors.New("empty query")}
	}
	if !utils.ValidateSQL(sqlText) {
		return nil, &dataset.QueryError{Op: "validate", Err: errors.New("query contains forbidden operations")}
	}

	start := time.Now()
	var (
		t   *dataset.Table
		err error
	)
	switch w.driver {
	case "duckdb":
		t, err = w.queryDuckDB(ctx, sqlText, args)
	case "postgres":
		t, err = w.queryPostgres(ctx, sqlText, args)
	default:
		err = &dataset.QueryError{Op: "open", Err: fmt.Errorf("unsupported driver %q", w.driver)}
	}
	if err != nil {
		w.log.Info("query failed", zap.String("driver", w.driver), zap.Error(err))
		return nil, err
	}
	w.log.Debug("query finished",
		zap.String("driver", w.driver),
		zap.Int("rows", t.Len()),
		zap.Duration("elapsed", time.Since(start)))
	return t, nil
}

func (w *Warehouse) queryDuckDB(ctx context.Context, sqlText string, args []any) (*dataset.Table, error) {
	// duckdb would create a missing file, which a read-only store must not do
	if _, err := os.Stat(w.path); err != nil {
		return nil, &dataset.QueryError{Op: "open", Err: err}
	}
	db, err := sql.Open("duckdb", w.path+"?access_mode=read_only")
	if err != nil {
		return nil, &dataset.QueryError{Op: "open", Err: err}
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, &dataset.QueryError{Op: "execute", Err: err}
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, &dataset.QueryError{Op: "columns", Err: err}
	}

	var out [][]dataset.Value
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &dataset.QueryError{Op: "scan", Err: err}
		}
		out = append(out, convertRow(values))
	}
	if err := rows.Err(); err != nil {
		return nil, &dataset.QueryError{Op: "execute", Err: err}
	}
	return buildTable(names, out)
}

func (w *Warehouse) queryPostgres(ctx context.Context, sqlText string, args []any) (*dataset.Table, error) {
	conn, err := pgx.Connect(ctx, w.dsn)
	if err != nil {
		return nil, &dataset.QueryError{Op: "open", Err: err}
	}
	defer conn.Close(context.Background())

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, &dataset.QueryError{Op: "begin", Err: err}
	}
	// nothing is ever committed
	defer tx.Rollback(context.Background())

	rows, err := tx.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, &dataset.QueryError{Op: "execute", Err: err}
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, fd := range fields {
		names[i] = fd.Name
	}

	var out [][]dataset.Value
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, &dataset.QueryError{Op: "scan", Err: err}
		}
		out = append(out, convertRow(values))
	}
	if err := rows.Err(); err != nil {
		return nil, &dataset.QueryError{Op: "execute", Err: err}
	}
	return buildTable(names, out)
}

func buildTable(names []string, rows [][]dataset.Value) (*dataset.Table, error) {
	t, err := dataset.New(dataset.UniqueNames(names), rows)
	if err != nil {
		return nil, &dataset.QueryError{Op: "result", Err: err}
	}
	return t, nil
}
