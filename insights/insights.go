// Package insights filters, groups and joins the crop and rainfall tables
// behind the dashboard's insight endpoints. Grouping and joining run on gota
// DataFrames; results come back as dataset tables. Inputs are never modified.
package insights

import (
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"agridash/dataset"
)

const (
	ColDistrict      = "district"
	ColCrop          = "crop"
	ColYear          = "year"
	ColYield         = "yield_t_ha"
	ColRainfall      = "rainfall_mm"
	ColTotalRainfall = "total_rainfall_mm"
)

// ListDistinct returns the unique non-null values of column as text,
// sorted ascending. A missing column yields an empty list.
func ListDistinct(t *dataset.Table, column string) []string {
	out := []string{}
	if !t.Has(column) {
		return out
	}
	seen := make(map[string]struct{})
	for i := 0; i < t.Len(); i++ {
		v := t.At(i, column)
		if v.IsNull() {
			continue
		}
		s := v.Text()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

type yieldKey struct {
	district string
	crop     string
	year     int64
}

// AggregateYield keeps crop rows whose district, crop and year are each in
// the given sets, then averages yield_t_ha per (district, crop, year). Gaps
// are skipped; a key whose yields are all gaps keeps a null mean. Output
// rows are ordered by key.
func AggregateYield(crops *dataset.Table, districts, cropNames []string, years []int) (*dataset.Table, error) {
	names := []string{ColDistrict, ColCrop, ColYear, ColYield}
	if crops.Len() == 0 {
		return dataset.MustNew(names, nil), nil
	}
	if err := requireColumns(crops, "crop", ColDistrict, ColCrop, ColYear, ColYield); err != nil {
		return nil, err
	}
	keyed := keyedRows(crops, ColDistrict, ColCrop)
	if len(districts) == 0 || len(cropNames) == 0 || len(years) == 0 || len(keyed) == 0 {
		return dataset.MustNew(names, nil), nil
	}

	df := toFrame(keyed,
		textColumn(crops, ColDistrict),
		textColumn(crops, ColCrop),
		intColumn(crops, ColYear),
		floatColumn(crops, ColYield),
	).
		Filter(dataframe.F{Colname: ColDistrict, Comparator: series.In, Comparando: districts}).
		Filter(dataframe.F{Colname: ColCrop, Comparator: series.In, Comparando: cropNames}).
		Filter(dataframe.F{Colname: ColYear, Comparator: series.In, Comparando: years})
	if df.Err != nil {
		return nil, df.Err
	}
	if df.Nrow() == 0 {
		return dataset.MustNew(names, nil), nil
	}

	selected, err := yieldKeys(df)
	if err != nil {
		return nil, err
	}
	means := make(map[yieldKey]dataset.Value, len(selected))
	for _, k := range selected {
		means[k] = dataset.Null()
	}
	if m, ok := measured(df, ColYield); ok {
		grouped, col, err := aggregate(m, dataframe.Aggregation_MEAN, ColYield, ColDistrict, ColCrop, ColYear)
		if err != nil {
			return nil, err
		}
		keys, err := yieldKeys(grouped)
		if err != nil {
			return nil, err
		}
		mean := grouped.Col(col)
		for i, k := range keys {
			means[k] = dataset.Float(mean.Elem(i).Float())
		}
	}

	keys := make([]yieldKey, 0, len(means))
	for k := range means {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		ka, kb := keys[a], keys[b]
		if ka.district != kb.district {
			return ka.district < kb.district
		}
		if ka.crop != kb.crop {
			return ka.crop < kb.crop
		}
		return ka.year < kb.year
	})

	rows := make([][]dataset.Value, len(keys))
	for i, k := range keys {
		rows[i] = []dataset.Value{
			dataset.String(k.district),
			dataset.String(k.crop),
			dataset.Int(k.year),
			means[k],
		}
	}
	return dataset.New(names, rows)
}

type rainKey struct {
	district string
	year     int64
}

// joinRow is the left-hand position column carried through the rainfall join.
const joinRow = "row"

// Correlate keeps crop rows for exactly one district and crop and left-joins
// them to rainfall summed per (district, year). Every kept crop row appears
// once, in input order; total_rainfall_mm is null where no rainfall matches.
// A crop table that already has total_rainfall_mm gets _x and _y suffixes on
// the two columns.
func Correlate(crops, rainfall *dataset.Table, district, crop string) (*dataset.Table, error) {
	if crops.Len() == 0 {
		return dataset.Empty(), nil
	}
	if err := requireColumns(crops, "crop", ColDistrict, ColCrop, ColYear); err != nil {
		return nil, err
	}

	filtered := crops.Filter(func(i int) bool {
		d, c := crops.At(i, ColDistrict), crops.At(i, ColCrop)
		return !d.IsNull() && !c.IsNull() && d.Text() == district && c.Text() == crop
	})

	totals, err := rainfallByYear(rainfall)
	if err != nil {
		return nil, err
	}

	joined := make([]dataset.Value, filtered.Len())
	if filtered.Len() > 0 && len(totals) > 0 {
		positions := make([]int, filtered.Len())
		for i := range positions {
			positions[i] = i
		}
		left := toFrame(positions,
			frameColumn{name: joinRow, typ: series.Int, cell: func(r int) interface{} { return r }},
			textColumn(filtered, ColDistrict),
			intColumn(filtered, ColYear),
		)
		out := left.LeftJoin(totalsFrame(totals), ColDistrict, ColYear)
		if out.Err != nil {
			return nil, out.Err
		}
		pos, sums := out.Col(joinRow), out.Col(ColTotalRainfall)
		for i := 0; i < out.Nrow(); i++ {
			r, err := pos.Elem(i).Int()
			if err != nil {
				return nil, err
			}
			if e := sums.Elem(i); !e.IsNA() {
				joined[r] = dataset.Float(e.Float())
			}
		}
	}

	names := filtered.ColumnNames()
	total := ColTotalRainfall
	if c := filtered.Index(ColTotalRainfall); c >= 0 {
		names[c] = ColTotalRainfall + "_x"
		total = ColTotalRainfall + "_y"
	}
	names = append(names, total)
	rows := make([][]dataset.Value, filtered.Len())
	for i := range rows {
		rows[i] = append(filtered.Row(i), joined[i])
	}
	return dataset.New(names, rows)
}

// rainfallByYear sums rainfall_mm per (district, year). Null measurements
// add nothing, so a group of nulls sums to zero. Rows with a null or
// non-integral key are dropped.
func rainfallByYear(rainfall *dataset.Table) (map[rainKey]float64, error) {
	totals := make(map[rainKey]float64)
	if rainfall.Len() == 0 {
		return totals, nil
	}
	if err := requireColumns(rainfall, "rainfall", ColDistrict, ColYear, ColRainfall); err != nil {
		return nil, err
	}
	keyed := keyedRows(rainfall, ColDistrict)
	if len(keyed) == 0 {
		return totals, nil
	}

	df := toFrame(keyed,
		textColumn(rainfall, ColDistrict),
		intColumn(rainfall, ColYear),
		floatColumn(rainfall, ColRainfall),
	)
	all, err := rainKeys(df)
	if err != nil {
		return nil, err
	}
	for _, k := range all {
		totals[k] = 0
	}

	m, ok := measured(df, ColRainfall)
	if !ok {
		return totals, nil
	}
	grouped, col, err := aggregate(m, dataframe.Aggregation_SUM, ColRainfall, ColDistrict, ColYear)
	if err != nil {
		return nil, err
	}
	keys, err := rainKeys(grouped)
	if err != nil {
		return nil, err
	}
	sum := grouped.Col(col)
	for i, k := range keys {
		totals[k] = sum.Elem(i).Float()
	}
	return totals, nil
}

func totalsFrame(totals map[rainKey]float64) dataframe.DataFrame {
	districts := make([]string, 0, len(totals))
	years := make([]int, 0, len(totals))
	sums := make([]float64, 0, len(totals))
	for k, v := range totals {
		districts = append(districts, k.district)
		years = append(years, int(k.year))
		sums = append(sums, v)
	}
	return dataframe.New(
		series.New(districts, series.String, ColDistrict),
		series.New(years, series.Int, ColYear),
		series.New(sums, series.Float, ColTotalRainfall),
	)
}

// RainfallTable renders rainfallByYear as a table ordered by district, year.
func RainfallTable(rainfall *dataset.Table) (*dataset.Table, error) {
	totals, err := rainfallByYear(rainfall)
	if err != nil {
		return nil, err
	}
	keys := make([]rainKey, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].district != keys[b].district {
			return keys[a].district < keys[b].district
		}
		return keys[a].year < keys[b].year
	})
	rows := make([][]dataset.Value, len(keys))
	for i, k := range keys {
		rows[i] = []dataset.Value{dataset.String(k.district), dataset.Int(k.year), dataset.Float(totals[k])}
	}
	return dataset.New([]string{ColDistrict, ColYear, ColTotalRainfall}, rows)
}

// keyedRows lists the rows with an integral year and no gap in the text
// key columns.
func keyedRows(t *dataset.Table, text ...string) []int {
	var rows []int
	for i := 0; i < t.Len(); i++ {
		if _, ok := t.At(i, ColYear).Int64(); !ok {
			continue
		}
		present := true
		for _, c := range text {
			if t.At(i, c).IsNull() {
				present = false
				break
			}
		}
		if present {
			rows = append(rows, i)
		}
	}
	return rows
}

func yieldKeys(df dataframe.DataFrame) ([]yieldKey, error) {
	d, c, y := df.Col(ColDistrict), df.Col(ColCrop), df.Col(ColYear)
	keys := make([]yieldKey, df.Nrow())
	for i := range keys {
		year, err := y.Elem(i).Int()
		if err != nil {
			return nil, err
		}
		keys[i] = yieldKey{district: d.Elem(i).String(), crop: c.Elem(i).String(), year: int64(year)}
	}
	return keys, nil
}

func rainKeys(df dataframe.DataFrame) ([]rainKey, error) {
	d, y := df.Col(ColDistrict), df.Col(ColYear)
	keys := make([]rainKey, df.Nrow())
	for i := range keys {
		year, err := y.Elem(i).Int()
		if err != nil {
			return nil, err
		}
		keys[i] = rainKey{district: d.Elem(i).String(), year: int64(year)}
	}
	return keys, nil
}

func requireColumns(t *dataset.Table, table string, columns ...string) error {
	for _, c := range columns {
		if !t.Has(c) {
			return dataset.MissingColumn(table, c)
		}
	}
	return nil
}
