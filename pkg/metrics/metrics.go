package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Database
	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	// Domain
	SlotsMaterialized   *prometheus.CounterVec
	MaterializationRace *prometheus.CounterVec
	CapacityRejections  *prometheus.CounterVec
	HoldsCreated        *prometheus.CounterVec
}

// New создает и регистрирует метрики в default registry
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики с указанным registerer (для тестов - отдельный registry)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),

		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		DBOpenConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBInUse: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBIdle: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBWaitCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),

		SlotsMaterialized: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "slots_materialized_total",
			Help:        "Slots created for recurrence occurrences",
			ConstLabels: constLabels,
		}, []string{"source"}),

		MaterializationRace: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_materialization_races_total",
			Help:        "Duplicate-key inserts resolved by re-reading the existing slot",
			ConstLabels: constLabels,
		}, []string{}),

		CapacityRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "capacity_rejections_total",
			Help:        "Capacity checks that rejected a request",
			ConstLabels: constLabels,
		}, []string{"reason"}),

		HoldsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "holds_created_total",
			Help:        "Temporary seat holds created",
			ConstLabels: constLabels,
		}, []string{}),
	}
}

// IncSlotMaterialized увеличивает счетчик созданных слотов
func (m *Metrics) IncSlotMaterialized(source string) {
	m.SlotsMaterialized.WithLabelValues(source).Inc()
}

// IncMaterializationRace увеличивает счетчик разрешенных гонок материализации
func (m *Metrics) IncMaterializationRace() {
	m.MaterializationRace.WithLabelValues().Inc()
}

// IncCapacityRejection увеличивает счетчик отказов по вместимости
func (m *Metrics) IncCapacityRejection(reason string) {
	m.CapacityRejections.WithLabelValues(reason).Inc()
}

// IncHoldCreated увеличивает счетчик созданных холдов
func (m *Metrics) IncHoldCreated() {
	m.HoldsCreated.WithLabelValues().Inc()
}

// Nop реализация доменных метрик для запуска без prometheus
type Nop struct{}

func (Nop) IncSlotMaterialized(string)  {}
func (Nop) IncMaterializationRace()     {}
func (Nop) IncCapacityRejection(string) {}
func (Nop) IncHoldCreated()             {}
