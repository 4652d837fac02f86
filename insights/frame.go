package insights

import (
	"fmt"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"agridash/dataset"
)

// frameColumn copies one table column into a gota series. cell returns nil
// for a gap, which gota stores as NaN.
type frameColumn struct {
	name string
	typ  series.Type
	cell func(row int) interface{}
}

// toFrame builds a DataFrame from the given table rows.
func toFrame(rows []int, cols ...frameColumn) dataframe.DataFrame {
	ss := make([]series.Series, len(cols))
	for c, col := range cols {
		vals := make([]interface{}, len(rows))
		for i, r := range rows {
			vals[i] = col.cell(r)
		}
		ss[c] = series.New(vals, col.typ, col.name)
	}
	return dataframe.New(ss...)
}

func textColumn(t *dataset.Table, name string) frameColumn {
	return frameColumn{name: name, typ: series.String, cell: func(r int) interface{} {
		v := t.At(r, name)
		if v.IsNull() {
			return nil
		}
		return v.Text()
	}}
}

func intColumn(t *dataset.Table, name string) frameColumn {
	return frameColumn{name: name, typ: series.Int, cell: func(r int) interface{} {
		if n, ok := t.At(r, name).Int64(); ok {
			return int(n)
		}
		return nil
	}}
}

func floatColumn(t *dataset.Table, name string) frameColumn {
	return frameColumn{name: name, typ: series.Float, cell: func(r int) interface{} {
		if f, ok := t.At(r, name).Float64(); ok {
			return f
		}
		return nil
	}}
}

// measured drops the rows where column is NaN. It reports false when no
// row is left.
func measured(df dataframe.DataFrame, column string) (dataframe.DataFrame, bool) {
	var keep []int
	for i, na := range df.Col(column).IsNaN() {
		if !na {
			keep = append(keep, i)
		}
	}
	switch len(keep) {
	case 0:
		return df, false
	case df.Nrow():
		return df, true
	}
	return df.Subset(keep), true
}

// aggregate groups df by keys and applies one aggregation to measure. It
// returns the grouped frame and the name gota gave the result column.
func aggregate(df dataframe.DataFrame, agg dataframe.AggregationType, measure string, keys ...string) (dataframe.DataFrame, string, error) {
	out := df.GroupBy(keys...).Aggregation([]dataframe.AggregationType{agg}, []string{measure})
	if out.Err != nil {
		return out, "", out.Err
	}
	for _, name := range out.Names() {
		if !slices.Contains(keys, name) {
			return out, name, nil
		}
	}
	return out, "", fmt.Errorf("aggregate %s: no result column", measure)
}
