package pricing

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"

	"github.com/tidwall/sjson"
)

const quickChartBase = "https://quickchart.io/chart"

// chartTemplate is the static QuickChart line-chart config; dynamic
// values are injected per request.
const chartTemplate = `{
	"type": "line",
	"data": {
		"datasets": [{
			"label": "",
			"data": [],
			"fill": true,
			"borderColor": "#FFD700",
			"backgroundColor": "rgba(255, 215, 0, 0.2)",
			"pointBackgroundColor": "#FFD700",
			"pointBorderColor": "#fff",
			"pointRadius": 3,
			"tension": 0.4
		}]
	},
	"options": {
		"title": {"display": true, "text": "", "fontColor": "#eee", "fontSize": 16},
		"legend": {"labels": {"fontColor": "#ccc"}},
		"scales": {
			"xAxes": [{
				"type": "time",
				"ticks": {"fontColor": "#aaa", "autoSkip": true, "maxTicksLimit": 6},
				"gridLines": {"color": "rgba(255, 255, 255, 0.05)"}
			}],
			"yAxes": [{
				"ticks": {"fontColor": "#aaa"},
				"gridLines": {"color": "rgba(255, 255, 255, 0.05)"}
			}]
		}
	}
}`

type chartPoint struct {
	X int64   `json:"x"`
	Y float64 `json:"y"`
}

// ChartURL builds a QuickChart URL plotting the cost of amount gold
// over the recorded history.
func ChartURL(history []Record, amount int64) string {
	points := make([]chartPoint, 0, len(history))
	for _, rec := range history {
		points = append(points, chartPoint{
			X: rec.Timestamp,
			Y: math.Round(rec.Price*float64(amount)*100) / 100,
		})
	}
	data, _ := json.Marshal(points)

	cfg := chartTemplate
	cfg, _ = sjson.Set(cfg, "data.datasets.0.label", fmt.Sprintf("Cost for %d Gold (USD)", amount))
	cfg, _ = sjson.SetRaw(cfg, "data.datasets.0.data", string(data))
	cfg, _ = sjson.Set(cfg, "options.title.text", fmt.Sprintf("Gold Price History (%dg)", amount))

	q := url.Values{}
	q.Set("c", cfg)
	q.Set("backgroundColor", "#2f3136")
	q.Set("width", "600")
	q.Set("height", "350")
	q.Set("devicePixelRatio", "2.0")
	return quickChartBase + "?" + q.Encode()
}
