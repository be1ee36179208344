package searcher

import (
	"sync/atomic"
	"time"
)

// SearchMetrics describes one call to Simulate.
type SearchMetrics struct {
	StartTime    time.Time
	Duration     time.Duration
	Episodes     int64
	FullPlayouts int64
	TreeReused   bool
}

type MetricsCollector interface {
	Start()
	AddFullPlayout()
	AddEpisode()
	SetTreeReused(reused bool)
	Complete() SearchMetrics
}

type metricsCollector struct {
	startTime    time.Time
	episodes     atomic.Int64
	fullPlayouts atomic.Int64
	treeReused   atomic.Bool
}

func NewMetricsCollector() MetricsCollector {
	return &metricsCollector{}
}

func (m *metricsCollector) Start() {
	m.startTime = time.Now()
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
}

func (m *metricsCollector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *metricsCollector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *metricsCollector) SetTreeReused(reused bool) {
	m.treeReused.Store(reused)
}

func (m *metricsCollector) Complete() SearchMetrics {
	return SearchMetrics{
		StartTime:    m.startTime,
		Duration:     time.Since(m.startTime),
		Episodes:     m.episodes.Load(),
		FullPlayouts: m.fullPlayouts.Load(),
		TreeReused:   m.treeReused.Load(),
	}
}

type noMetricsCollector struct{}

func NewNoMetricsCollector() MetricsCollector {
	return &noMetricsCollector{}
}

func (m *noMetricsCollector) Start()                  {}
func (m *noMetricsCollector) AddFullPlayout()         {}
func (m *noMetricsCollector) AddEpisode()             {}
func (m *noMetricsCollector) SetTreeReused(bool)      {}
func (m *noMetricsCollector) Complete() SearchMetrics { return SearchMetrics{} }
