package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var latencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// promCollectors mirrors the in-memory counters into a private registry.
type promCollectors struct {
	registry        *prometheus.Registry
	requestTotal    *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	errorTotal      *prometheus.CounterVec
	reassignPasses  *prometheus.CounterVec
	reassignMoves   prometheus.Counter
	autoAssignments prometheus.Counter
}

func newPromCollectors() *promCollectors {
	p := &promCollectors{
		registry: prometheus.NewRegistry(),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskmanager",
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "taskmanager",
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   latencyBuckets,
		}, []string{"method", "route"}),
		errorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskmanager",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Error responses by code",
		}, []string{"method", "route", "code"}),
		reassignPasses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskmanager",
			Subsystem: "workload",
			Name:      "reassign_passes_total",
			Help:      "Reassignment passes by outcome",
		}, []string{"outcome"}),
		reassignMoves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "taskmanager",
			Subsystem: "workload",
			Name:      "reassigned_tasks_total",
			Help:      "Tasks moved by reassignment passes",
		}),
		autoAssignments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "taskmanager",
			Subsystem: "workload",
			Name:      "auto_assignments_total",
			Help:      "Tasks placed by auto-assign",
		}),
	}
	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.requestTotal,
		p.requestLatency,
		p.errorTotal,
		p.reassignPasses,
		p.reassignMoves,
		p.autoAssignments,
	)
	return p
}

func (p *promCollectors) request(route, method string, status int, duration time.Duration) {
	p.requestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.requestLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (p *promCollectors) reassignment(moves int, failed bool) {
	outcome := "ok"
	if failed {
		outcome = "failed"
	}
	p.reassignPasses.WithLabelValues(outcome).Inc()
	p.reassignMoves.Add(float64(moves))
}
