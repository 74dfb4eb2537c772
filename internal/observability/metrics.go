package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics keeps in-memory counters for the JSON snapshot and mirrors them
// into a Prometheus registry.
type Metrics struct {
	prom            *promCollectors
	mu              sync.Mutex
	requestCount    map[string]int64
	requestLatency  map[string]time.Duration
	errorCount      map[string]int64
	reassignPasses  int64
	reassignMoves   int64
	reassignFailed  int64
	autoAssignments int64
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Requests        map[string]int64 `json:"requests"`
	AvgLatencyMs    map[string]int64 `json:"avg_latency_ms"`
	Errors          map[string]int64 `json:"errors"`
	ReassignPasses  int64            `json:"reassign_passes"`
	ReassignMoves   int64            `json:"reassign_moves"`
	ReassignFailed  int64            `json:"reassign_failed"`
	AutoAssignments int64            `json:"auto_assignments"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		prom:           newPromCollectors(),
		requestCount:   make(map[string]int64),
		requestLatency: make(map[string]time.Duration),
		errorCount:     make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.prom.request(path, method, status, duration)
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.requestLatency[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.prom.errorTotal.WithLabelValues(method, path, code).Inc()
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordReassignment counts one reassignment pass and the moves it committed.
func (m *Metrics) RecordReassignment(moves int, failed bool) {
	if m == nil {
		return
	}
	m.prom.reassignment(moves, failed)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reassignPasses++
	m.reassignMoves += int64(moves)
	if failed {
		m.reassignFailed++
	}
}

// RecordAutoAssignment counts one successful auto-assignment.
func (m *Metrics) RecordAutoAssignment() {
	if m == nil {
		return
	}
	m.prom.autoAssignments.Inc()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoAssignments++
}

// Registry exposes the Prometheus registry backing these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.prom.registry
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Requests:        make(map[string]int64, len(m.requestCount)),
		AvgLatencyMs:    make(map[string]int64, len(m.requestCount)),
		Errors:          make(map[string]int64, len(m.errorCount)),
		ReassignPasses:  m.reassignPasses,
		ReassignMoves:   m.reassignMoves,
		ReassignFailed:  m.reassignFailed,
		AutoAssignments: m.autoAssignments,
	}
	for k, v := range m.requestCount {
		snap.Requests[k] = v
		snap.AvgLatencyMs[k] = (m.requestLatency[k] / time.Duration(v)).Milliseconds()
	}
	for k, v := range m.errorCount {
		snap.Errors[k] = v
	}
	return snap
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
