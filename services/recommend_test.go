package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agridash/dataset"
)

func TestRecommendChart(t *testing.T) {
	s, i, f := dataset.String, dataset.Int, dataset.Float

	tests := []struct {
		name  string
		table *dataset.Table
		want  Recommendation
	}{
		{
			name: "year wins over the bar rule",
			table: dataset.MustNew([]string{"year", "sales", "region"}, [][]dataset.Value{
				{i(2019), f(2.5), s("South")},
			}),
			want: Recommendation{Chart: ChartLine, X: "year", Y: "sales"},
		},
		{
			name: "numeric year as the only measure",
			table: dataset.MustNew([]string{"district", "year"}, [][]dataset.Value{
				{s("Mysuru"), i(2019)},
			}),
			want: Recommendation{Chart: ChartLine, X: "year", Y: "year"},
		},
		{
			name: "string year still draws a line over the first numeric column",
			table: dataset.MustNew([]string{"year", "rainfall_mm"}, [][]dataset.Value{
				{s("2019-20"), f(120)},
			}),
			want: Recommendation{Chart: ChartLine, X: "year", Y: "rainfall_mm"},
		},
		{
			name: "two numeric columns scatter",
			table: dataset.MustNew([]string{"city", "pm25", "pm10"}, [][]dataset.Value{
				{s("Bengaluru"), f(40), f(80)},
			}),
			want: Recommendation{Chart: ChartScatter, X: "pm25", Y: "pm10"},
		},
		{
			name: "a column of blanks is numeric",
			table: dataset.MustNew([]string{"region", "notes", "sales"}, [][]dataset.Value{
				{s("South"), dataset.Null(), f(2.5)},
				{s("North"), dataset.Null(), f(3.5)},
			}),
			want: Recommendation{Chart: ChartScatter, X: "notes", Y: "sales"},
		},
		{
			name: "one numeric and one label is a bar chart",
			table: dataset.MustNew([]string{"value", "district"}, [][]dataset.Value{
				{i(3), s("Hassan")},
			}),
			want: Recommendation{Chart: ChartBar, X: "district", Y: "value"},
		},
		{
			name: "single numeric column falls back to table",
			table: dataset.MustNew([]string{"value"}, [][]dataset.Value{
				{i(3)},
			}),
			want: Recommendation{Chart: ChartTable},
		},
		{
			name:  "no numeric columns",
			table: dataset.MustNew([]string{"a", "b"}, [][]dataset.Value{{s("x"), s("y")}}),
			want:  Recommendation{Chart: ChartTable},
		},
		{
			name:  "empty table",
			table: dataset.Empty(),
			want:  Recommendation{Chart: ChartTable},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecommendChart(tt.table))
		})
	}
}

func TestRecommendationJSON(t *testing.T) {
	b, err := json.Marshal(Recommendation{Chart: ChartTable})
	require.NoError(t, err)
	assert.JSONEq(t, `{"chart":"table"}`, string(b))

	b, err = json.Marshal(Recommendation{Chart: ChartBar, X: "district", Y: "value"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"chart":"bar","x":"district","y":"value"}`, string(b))
}
