package monitoring

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// MetricType 指标类型
type MetricType string

const (
	MetricTypeCounter MetricType = "counter"
	MetricTypeGauge   MetricType = "gauge"
)

// 业务指标名
const (
	MetricPredictions      = "neowatch_predictions_total"
	MetricPredictionErrors = "neowatch_prediction_errors_total"
	MetricChartRequests    = "neowatch_chart_requests_total"
	MetricHTTPRequests     = "neowatch_http_requests_total"
	MetricDatasetRecords   = "neowatch_dataset_records"
	MetricGoroutines       = "neowatch_goroutines"
	MetricHeapAlloc        = "neowatch_memory_heap_alloc_bytes"
)

// Metric 指标
type Metric struct {
	Name      string            `json:"name"`
	Type      MetricType        `json:"type"`
	Value     float64           `json:"value"`
	Labels    map[string]string `json:"labels,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Help      string            `json:"help,omitempty"`
}

// MetricsCollector 指标收集器，每个 名称+标签 组合保存一个当前值
type MetricsCollector struct {
	metrics     map[string]*Metric
	metricsLock sync.RWMutex

	help      map[string]string
	startTime time.Time
}

// NewMetricsCollector 创建指标收集器
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*Metric),
		help: map[string]string{
			MetricPredictions:      "Predictions served, by label",
			MetricPredictionErrors: "Prediction requests answered with an error, by kind",
			MetricChartRequests:    "Chart data requests, by chart",
			MetricHTTPRequests:     "HTTP requests, by method and status",
			MetricDatasetRecords:   "Records in the loaded dataset",
			MetricGoroutines:       "Number of goroutines",
			MetricHeapAlloc:        "Heap bytes allocated",
		},
		startTime: time.Now(),
	}
}

// IncrCounter 增加计数器
func (mc *MetricsCollector) IncrCounter(name string, value float64, labels map[string]string) {
	mc.metricsLock.Lock()
	defer mc.metricsLock.Unlock()

	m := mc.lookup(name, MetricTypeCounter, labels)
	m.Value += value
	m.Timestamp = time.Now()
}

// SetGauge 设置仪表
func (mc *MetricsCollector) SetGauge(name string, value float64, labels map[string]string) {
	mc.metricsLock.Lock()
	defer mc.metricsLock.Unlock()

	m := mc.lookup(name, MetricTypeGauge, labels)
	m.Value = value
	m.Timestamp = time.Now()
}

// Value 获取指标当前值，不存在时返回0
func (mc *MetricsCollector) Value(name string, labels map[string]string) float64 {
	mc.metricsLock.RLock()
	defer mc.metricsLock.RUnlock()

	if m, ok := mc.metrics[seriesKey(name, labels)]; ok {
		return m.Value
	}
	return 0
}

// GetAllMetrics 获取所有指标副本，按名称和标签排序
func (mc *MetricsCollector) GetAllMetrics() []Metric {
	mc.metricsLock.RLock()
	keys := make([]string, 0, len(mc.metrics))
	for key := range mc.metrics {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	result := make([]Metric, 0, len(keys))
	for _, key := range keys {
		m := *mc.metrics[key]
		m.Labels = copyLabels(m.Labels)
		result = append(result, m)
	}
	mc.metricsLock.RUnlock()
	return result
}

// ExportPrometheus 导出Prometheus文本格式
func (mc *MetricsCollector) ExportPrometheus() string {
	var b strings.Builder
	lastName := ""
	for _, m := range mc.GetAllMetrics() {
		if m.Name != lastName {
			help := m.Help
			if help == "" {
				help = fmt.Sprintf("Metric %s", m.Name)
			}
			fmt.Fprintf(&b, "# HELP %s %s\n", m.Name, help)
			fmt.Fprintf(&b, "# TYPE %s %s\n", m.Name, m.Type)
			lastName = m.Name
		}
		fmt.Fprintf(&b, "%s%s %g\n", m.Name, formatLabels(m.Labels), m.Value)
	}
	return b.String()
}

// Run 周期性采集运行时指标，直到ctx结束
func (mc *MetricsCollector) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	mc.collectRuntimeMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mc.collectRuntimeMetrics()
		}
	}
}

// collectRuntimeMetrics 收集内存和协程指标
func (mc *MetricsCollector) collectRuntimeMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	mc.SetGauge(MetricHeapAlloc, float64(m.HeapAlloc), nil)
	mc.SetGauge(MetricGoroutines, float64(runtime.NumGoroutine()), nil)
}

// GetUptime 获取运行时间
func (mc *MetricsCollector) GetUptime() time.Duration {
	return time.Since(mc.startTime)
}

func (mc *MetricsCollector) lookup(name string, typ MetricType, labels map[string]string) *Metric {
	key := seriesKey(name, labels)
	m, ok := mc.metrics[key]
	if !ok {
		m = &Metric{Name: name, Type: typ, Labels: copyLabels(labels), Help: mc.help[name]}
		mc.metrics[key] = m
	}
	return m
}

func seriesKey(name string, labels map[string]string) string {
	return name + formatLabels(labels)
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		value := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(labels[k])
		parts[i] = fmt.Sprintf(`%s="%s"`, k, value)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func copyLabels(labels map[string]string) map[string]string {
	if len(labels) == 0 {
		return nil
	}
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v
	}
	return out
}
