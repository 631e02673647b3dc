// Package monitoring provides in-process counters and a websocket feed of
// prediction events.
package monitoring

import (
	"sync"
	"time"
)

// Metrics counts what the prediction service does. All methods are safe
// for concurrent use.
type Metrics struct {
	mu sync.Mutex

	requests         uint64
	served           uint64
	validationErrors uint64
	unknownCategory  uint64
	artifactReloads  uint64
	cacheHits        uint64

	totalLatency time.Duration
	startTime    time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

func (m *Metrics) RecordRequest() {
	m.mu.Lock()
	m.requests++
	m.mu.Unlock()
}

func (m *Metrics) RecordServed(latency time.Duration) {
	m.mu.Lock()
	m.served++
	m.totalLatency += latency
	m.mu.Unlock()
}

func (m *Metrics) RecordValidationError() {
	m.mu.Lock()
	m.validationErrors++
	m.mu.Unlock()
}

// RecordUnknownCategory counts vocabulary rejections separately from schema
// errors; a rising rate signals data drift against the frozen encoders.
func (m *Metrics) RecordUnknownCategory() {
	m.mu.Lock()
	m.unknownCategory++
	m.mu.Unlock()
}

func (m *Metrics) RecordArtifactReload() {
	m.mu.Lock()
	m.artifactReloads++
	m.mu.Unlock()
}

func (m *Metrics) RecordCacheHit() {
	m.mu.Lock()
	m.cacheHits++
	m.mu.Unlock()
}

// Snapshot is a point-in-time JSON view of the counters.
type Snapshot struct {
	Requests         uint64  `json:"requests"`
	Served           uint64  `json:"served"`
	ValidationErrors uint64  `json:"validation_errors"`
	UnknownCategory  uint64  `json:"unknown_category"`
	ArtifactReloads  uint64  `json:"artifact_reloads"`
	CacheHits        uint64  `json:"cache_hits"`
	AvgLatencyMs     float64 `json:"avg_latency_ms"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Requests:         m.requests,
		Served:           m.served,
		ValidationErrors: m.validationErrors,
		UnknownCategory:  m.unknownCategory,
		ArtifactReloads:  m.artifactReloads,
		CacheHits:        m.cacheHits,
		UptimeSeconds:    time.Since(m.startTime).Seconds(),
	}
	if m.served > 0 {
		snap.AvgLatencyMs = float64(m.totalLatency.Milliseconds()) / float64(m.served)
	}
	return snap
}
