package utils

import (
	"fmt"

	"agridash/dataset"
	"agridash/services"
)

// ParseRecommendationToChartJS renders a recommendation over t as Chart.js
// data and options. The table fallback has no chart, so both maps are nil.
func ParseRecommendationToChartJS(rec services.Recommendation, t *dataset.Table) (map[string]interface{}, map[string]interface{}) {
	if rec.Chart == services.ChartTable || rec.X == "" || rec.Y == "" {
		return nil, nil
	}

	var data map[string]interface{}
	if rec.Chart == services.ChartScatter {
		points := make([]map[string]interface{}, 0, t.Len())
		for i := 0; i < t.Len(); i++ {
			points = append(points, map[string]interface{}{
				"x": t.At(i, rec.X).Interface(),
				"y": t.At(i, rec.Y).Interface(),
			})
		}
		data = map[string]interface{}{
			"datasets": []map[string]interface{}{
				{
					"label":           fmt.Sprintf("%s vs %s", rec.Y, rec.X),
					"data":            points,
					"backgroundColor": "rgba(59, 130, 246, 0.5)",
				},
			},
		}
	} else {
		labels := make([]interface{}, 0, t.Len())
		values := make([]interface{}, 0, t.Len())
		for i := 0; i < t.Len(); i++ {
			labels = append(labels, t.At(i, rec.X).Interface())
			values = append(values, t.At(i, rec.Y).Interface())
		}
		data = map[string]interface{}{
			"labels": labels,
			"datasets": []map[string]interface{}{
				{
					"label":           rec.Y,
					"data":            values,
					"backgroundColor": "rgba(59, 130, 246, 0.5)",
				},
			},
		}
	}

	options := map[string]interface{}{
		"responsive": true,
		"plugins": map[string]interface{}{
			"title": map[string]interface{}{
				"display": true,
				"text":    fmt.Sprintf("%s by %s", rec.Y, rec.X),
			},
		},
		"scales": map[string]interface{}{
			"x": map[string]interface{}{
				"title": map[string]interface{}{
					"display": true,
					"text":    rec.X,
				},
			},
			"y": map[string]interface{}{
				"title": map[string]interface{}{
					"display": true,
					"text":    rec.Y,
				},
			},
		},
	}

	return data, options
}
