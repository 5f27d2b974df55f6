package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics exposes counters for the slot-fill engine.
type IntakeMetrics struct {
	turnsTotal         *prometheus.CounterVec
	extractionTotal    *prometheus.CounterVec
	completedTotal     *prometheus.CounterVec
	persistenceFailure *prometheus.CounterVec
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bloodhelp",
			Subsystem: "intake",
			Name:      "turns_total",
			Help:      "Inbound conversation turns by step handled",
		}, []string{"step"}),
		extractionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bloodhelp",
			Subsystem: "intake",
			Name:      "extraction_total",
			Help:      "Extractor calls by model used (\"error\" when degraded)",
		}, []string{"model"}),
		completedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bloodhelp",
			Subsystem: "intake",
			Name:      "completed_total",
			Help:      "Completed intakes by role",
		}, []string{"role"}),
		persistenceFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bloodhelp",
			Subsystem: "intake",
			Name:      "persistence_failure_total",
			Help:      "Persistence failures by operation",
		}, []string{"op"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.extractionTotal, m.completedTotal, m.persistenceFailure)
	return m
}

func (m *IntakeMetrics) ObserveTurn(step string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(step).Inc()
}

func (m *IntakeMetrics) ObserveExtraction(model string) {
	if m == nil {
		return
	}
	m.extractionTotal.WithLabelValues(model).Inc()
}

func (m *IntakeMetrics) ObserveCompleted(role string) {
	if m == nil {
		return
	}
	m.completedTotal.WithLabelValues(role).Inc()
}

func (m *IntakeMetrics) ObservePersistenceFailure(op string) {
	if m == nil {
		return
	}
	m.persistenceFailure.WithLabelValues(op).Inc()
}
