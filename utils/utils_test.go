package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agridash/dataset"
	"agridash/services"
)

func TestValidateSQL(t *testing.T) {
	allowed := []string{
		"SELECT district, AVG(yield_t_ha) FROM crop_yield GROUP BY district",
		"with t as (select * from rainfall) select count(*) from t",
		"SELECT updated_at FROM stations",
	}
	for _, q := range allowed {
		assert.True(t, ValidateSQL(q), q)
	}

	rejected := []string{
		"DROP TABLE rainfall",
		"select 1; delete from rainfall",
		"INSERT INTO rainfall VALUES (1)",
		"ATTACH 'other.duckdb' AS o",
		"COPY rainfall TO 'out.csv'",
		"install httpfs",
	}
	for _, q := range rejected {
		assert.False(t, ValidateSQL(q), q)
	}
}

func TestParseRecommendationToChartJSLine(t *testing.T) {
	tbl := dataset.MustNew([]string{"year", "rainfall_mm"}, [][]dataset.Value{
		{dataset.Int(2019), dataset.Float(120.5)},
		{dataset.Int(2020), dataset.Null()},
	})
	data, options := ParseRecommendationToChartJS(services.RecommendChart(tbl), tbl)
	require.NotNil(t, data)
	require.NotNil(t, options)

	b, err := json.Marshal(data)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"labels": [2019, 2020],
		"datasets": [{"label": "rainfall_mm", "data": [120.5, null], "backgroundColor": "rgba(59, 130, 246, 0.5)"}]
	}`, string(b))
	assert.Equal(t, true, options["responsive"])
}

func TestParseRecommendationToChartJSScatter(t *testing.T) {
	tbl := dataset.MustNew([]string{"pm25", "pm10"}, [][]dataset.Value{
		{dataset.Float(40), dataset.Float(80)},
	})
	data, _ := ParseRecommendationToChartJS(services.RecommendChart(tbl), tbl)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"datasets": [{"label": "pm10 vs pm25", "data": [{"x": 40, "y": 80}], "backgroundColor": "rgba(59, 130, 246, 0.5)"}]
	}`, string(b))
}

func TestParseRecommendationToChartJSTable(t *testing.T) {
	tbl := dataset.MustNew([]string{"region"}, [][]dataset.Value{{dataset.String("South")}})
	data, options := ParseRecommendationToChartJS(services.RecommendChart(tbl), tbl)
	assert.Nil(t, data)
	assert.Nil(t, options)
}
