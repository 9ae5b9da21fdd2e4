package http

import (
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"neowatch/monitoring"
)

// 图表类型，决定页面中 plotly 的绘制方式
const (
	chartHistogram  = "histogram"
	chartTimeSeries = "timeseries"
	chartScatter    = "scatter"
)

var chartPage = template.Must(template.New("chart").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://cdn.plot.ly/plotly-2.35.2.min.js"></script>
</head>
<body>
<p><a href="/">Back</a></p>
<div id="chart" style="width:100%;height:600px"></div>
<script>
var kind = {{.Kind}};
var chart = {{.Chart}};
var traces = [];
if (kind === "histogram") {
  traces.push({type: "bar", x: chart.bins.map(function (b) { return b.label; }), y: chart.bins.map(function (b) { return b.count; })});
} else if (kind === "timeseries") {
  chart.series.forEach(function (s) {
    traces.push({type: "scatter", mode: "lines+markers", name: s.label, x: chart.buckets, y: s.counts});
  });
} else {
  var groups = {};
  chart.points.forEach(function (p) {
    var g = groups[p.prediction] || (groups[p.prediction] = {type: "scatter", mode: "markers", name: p.prediction, x: [], y: []});
    g.x.push(p.miss_distance_km);
    g.y.push(p.velocity_kph);
  });
  Object.keys(groups).forEach(function (k) { traces.push(groups[k]); });
}
Plotly.newPlot("chart", traces, {title: chart.title, xaxis: {title: chart.axes.x}, yaxis: {title: chart.axes.y}});
</script>
</body>
</html>
`))

type chartView struct {
	Title string
	Kind  string
	Chart any
}

func RegisterChartHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /line-graph", handleSizeChart)
	mux.HandleFunc("GET /time-series", handleTimeSeriesChart)
	mux.HandleFunc("GET /trajectory", handleTrajectoryChart)
}

func handleSizeChart(w http.ResponseWriter, r *http.Request) {
	if !chartsReady(w) {
		return
	}
	c := visualizationService.SizeChart()
	renderChart(w, r, chartView{Title: c.Title, Kind: chartHistogram, Chart: c})
}

func handleTimeSeriesChart(w http.ResponseWriter, r *http.Request) {
	if !chartsReady(w) {
		return
	}
	c := visualizationService.TimeSeriesChart()
	renderChart(w, r, chartView{Title: c.Title, Kind: chartTimeSeries, Chart: c})
}

func handleTrajectoryChart(w http.ResponseWriter, r *http.Request) {
	if !chartsReady(w) {
		return
	}
	c := visualizationService.TrajectoryChart()
	renderChart(w, r, chartView{Title: c.Title, Kind: chartScatter, Chart: c})
}

func chartsReady(w http.ResponseWriter) bool {
	if visualizationService == nil {
		http.Error(w, "dataset not loaded", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// renderChart 根据 ?format=json 或 Accept 头返回JSON，否则返回HTML页面
func renderChart(w http.ResponseWriter, r *http.Request, view chartView) {
	if metrics != nil {
		metrics.IncrCounter(monitoring.MetricChartRequests, 1, map[string]string{"chart": view.Kind})
	}

	if wantsJSON(r) {
		respondJSON(w, view.Chart)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := chartPage.Execute(w, view); err != nil {
		zap.L().Error("render chart page", zap.String("chart", view.Kind), zap.Error(err))
	}
}

func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
