// Package metrics собирает метрики поиска в собственный реестр Prometheus.
// Методы безопасно вызывать на nil: сервис работает и без метрик.
package metrics

import (
	"net/http"
	"time"

	"taskSearch/internal/stats"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tasksearch"

type Metrics struct {
	registry *prometheus.Registry

	filterDuration *prometheus.HistogramVec
	filterResults  prometheus.Histogram
	searches       *prometheus.CounterVec
	tasks          *prometheus.GaugeVec
	completionRate prometheus.Gauge
	presets        prometheus.Gauge
	historySize    prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		filterDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "filter",
			Name:      "duration_seconds",
			Help:      "Время одного прохода движка фильтрации.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 14),
		}, []string{"clauses"}),
		filterResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "filter",
			Name:      "result_size",
			Help:      "Количество задач, прошедших фильтр.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 9),
		}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Количество поисков по активному условию.",
		}, []string{"clause"}),
		tasks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "count",
			Help:      "Сводка по задачам из агрегатора статистики.",
		}, []string{"kind"}),
		completionRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "completion_rate_percent",
			Help:      "Процент выполненных задач.",
		}),
		presets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "presets",
			Help:      "Количество сохранённых пресетов.",
		}),
		historySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "history_size",
			Help:      "Количество записей в истории поиска.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.filterDuration,
		m.filterResults,
		m.searches,
		m.tasks,
		m.completionRate,
		m.presets,
		m.historySize,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveFilter фиксирует проход движка; clauses - имена активных условий
func (m *Metrics) ObserveFilter(clauses []string, elapsed time.Duration, returned int) {
	if m == nil {
		return
	}
	m.filterDuration.WithLabelValues(clauseLabel(len(clauses))).Observe(elapsed.Seconds())
	m.filterResults.Observe(float64(returned))
	for _, c := range clauses {
		m.searches.WithLabelValues(c).Inc()
	}
}

func (m *Metrics) SetSummary(s stats.Summary) {
	if m == nil {
		return
	}
	m.tasks.WithLabelValues("total").Set(float64(s.Total))
	m.tasks.WithLabelValues("completed").Set(float64(s.Completed))
	m.tasks.WithLabelValues("in_progress").Set(float64(s.InProgress))
	m.tasks.WithLabelValues("todo").Set(float64(s.Todo))
	m.tasks.WithLabelValues("overdue").Set(float64(s.Overdue))
	m.tasks.WithLabelValues("high_priority").Set(float64(s.HighPriority))
	m.completionRate.Set(float64(s.CompletionRate))
}

func (m *Metrics) SetSearchState(presets, history int) {
	if m == nil {
		return
	}
	m.presets.Set(float64(presets))
	m.historySize.Set(float64(history))
}

// clauseLabel ограничивает кардинальность метки
func clauseLabel(n int) string {
	switch {
	case n == 0:
		return "0"
	case n == 1:
		return "1"
	case n <= 3:
		return "2-3"
	default:
		return "4+"
	}
}
