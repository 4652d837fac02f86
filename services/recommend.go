package services

import "agridash/dataset"

const (
	ChartLine    = "line"
	ChartScatter = "scatter"
	ChartBar     = "bar"
	ChartTable   = "table"
)

// Recommendation is a chart kind plus its axis mapping. X and Y are empty
// for the table fallback.
type Recommendation struct {
	Chart string `json:"chart"`
	X     string `json:"x,omitempty"`
	Y     string `json:"y,omitempty"`
}

// RecommendChart picks a chart for a table from its column types. Rules are
// tried in order and the first match wins; ties follow column order.
func RecommendChart(t *dataset.Table) Recommendation {
	numeric := t.NumericColumns()

	if t.Has("year") && len(numeric) > 0 {
		// plot year against the first other measure; year alone plots itself
		y := numeric[0]
		for _, n := range numeric {
			if n != "year" {
				y = n
				break
			}
		}
		return Recommendation{Chart: ChartLine, X: "year", Y: y}
	}
	if len(numeric) >= 2 {
		return Recommendation{Chart: ChartScatter, X: numeric[0], Y: numeric[1]}
	}
	if len(numeric) == 1 {
		for _, c := range t.Columns() {
			if !c.Type.Numeric() {
				return Recommendation{Chart: ChartBar, X: c.Name, Y: numeric[0]}
			}
		}
	}
	return Recommendation{Chart: ChartTable}
}
