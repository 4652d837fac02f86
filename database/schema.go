package database

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/marcboeker/go-duckdb"

	"agridash/dataset"
)

type TableSchema struct {
	Name    string         `json:"name"`
	Columns []ColumnSchema `json:"columns"`
}

type ColumnSchema struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

const describeSQL = `SELECT table_name, column_name, data_type, is_nullable
FROM information_schema.columns
WHERE table_schema NOT IN ('information_schema', 'pg_catalog')
ORDER BY table_name, ordinal_position`

// Describe lists the warehouse's user tables and their columns.
func (w *Warehouse) Describe(ctx context.Context) ([]TableSchema, error) {
	t, err := w.RunQuery(ctx, describeSQL)
	if err != nil {
		return nil, err
	}
	out := []TableSchema{}
	for i := 0; i < t.Len(); i++ {
		name := t.At(i, "table_name").Text()
		col := ColumnSchema{
			Name:     t.At(i, "column_name").Text(),
			Type:     t.At(i, "data_type").Text(),
			Nullable: strings.EqualFold(t.At(i, "is_nullable").Text(), "YES"),
		}
		if n := len(out); n > 0 && out[n-1].Name == name {
			out[n-1].Columns = append(out[n-1].Columns, col)
			continue
		}
		out = append(out, TableSchema{Name: name, Columns: []ColumnSchema{col}})
	}
	return out, nil
}

func convertRow(values []any) []dataset.Value {
	row := make([]dataset.Value, len(values))
	for i, v := range values {
		row[i] = convertValue(v)
	}
	return row
}

// convertValue maps driver values onto table cells.
func convertValue(v any) dataset.Value {
	switch x := v.(type) {
	case time.Time:
		return dataset.String(x.Format(time.RFC3339))
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return dataset.Null()
		}
		return dataset.Float(f.Float64)
	case duckdb.Decimal:
		return dataset.Float(x.Float64())
	}
	return dataset.FromAny(v)
}
