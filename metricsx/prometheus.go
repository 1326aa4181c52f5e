package metricsx

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusExporter mirrors a Registry's values into Prometheus gauges
// on demand, used by cmd/gridflow-bench's optional /metrics endpoint.
// The core Plan() call path never touches this type: wiring metrics
// into HTTP is the demo CLI's concern, not the planner's. The planner
// itself holds no I/O handles.
type PrometheusExporter struct {
	registry *Registry
	gauges   map[string]prometheus.Gauge
}

// NewPrometheusExporter builds an exporter registered against reg, with
// one gauge per known metric key under the gridflow_planner namespace.
func NewPrometheusExporter(reg *Registry, promReg *prometheus.Registry) *PrometheusExporter {
	e := &PrometheusExporter{registry: reg, gauges: make(map[string]prometheus.Gauge)}
	for _, key := range []string{
		KeyPIBTBacktracks, KeyPIBTRuntimeMs, KeyLNSIterations, KeyLNSReroutes,
		KeySumOfCosts, KeyDeadlineTruncations, KeyUnreachableGoals, KeyHeuristicTables,
	} {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gridflow",
			Subsystem: "planner",
			Name:      key,
		})
		promReg.MustRegister(g)
		e.gauges[key] = g
	}
	return e
}

// Sync copies the current registry values into the Prometheus gauges.
// Call this periodically from the demo CLI, never from the hot Plan()
// path.
func (e *PrometheusExporter) Sync() {
	e.registry.Ints.Range(func(key string, ptr *atomic.Int64) {
		if g, ok := e.gauges[key]; ok {
			g.Set(float64(ptr.Load()))
		}
	})
	e.registry.Floats.Range(func(key string, ptr *AtomicFloat) {
		if g, ok := e.gauges[key]; ok {
			g.Set(ptr.Get())
		}
	})
}
