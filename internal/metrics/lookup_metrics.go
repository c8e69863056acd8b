package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// LookupMetrics tracks card metadata resolution.
type LookupMetrics struct {
	ResolveLatency *Histogram

	CacheHits   atomic.Uint64
	CacheMisses atomic.Uint64
	StoreHits   atomic.Uint64
	Resolved    atomic.Uint64
	Failures    atomic.Uint64

	startTime time.Time
	mu        sync.RWMutex
}

// NewLookupMetrics creates a new lookup metrics collector.
func NewLookupMetrics() *LookupMetrics {
	return &LookupMetrics{
		ResolveLatency: NewHistogram(defaultHistogramSize),
		startTime:      time.Now(),
	}
}

// RecordHit counts an in-memory cache hit.
func (m *LookupMetrics) RecordHit() { m.CacheHits.Add(1) }

// RecordMiss counts an in-memory cache miss.
func (m *LookupMetrics) RecordMiss() { m.CacheMisses.Add(1) }

// RecordStoreHit counts a miss that was answered by the persistent store.
func (m *LookupMetrics) RecordStoreHit() { m.StoreHits.Add(1) }

// RecordResolve records a collaborator call and its outcome.
func (m *LookupMetrics) RecordResolve(d time.Duration, err error) {
	m.ResolveLatency.Record(d)
	if err != nil {
		m.Failures.Add(1)
		return
	}
	m.Resolved.Add(1)
}

// LookupStats is a snapshot of LookupMetrics.
type LookupStats struct {
	ResolveLatency LatencyStats `json:"resolve_latency"`

	CacheHits    uint64  `json:"cache_hits"`
	CacheMisses  uint64  `json:"cache_misses"`
	StoreHits    uint64  `json:"store_hits"`
	Resolved     uint64  `json:"resolved"`
	Failures     uint64  `json:"failures"`
	CacheHitRate float64 `json:"cache_hit_rate"` // percentage

	Uptime string `json:"uptime"`
}

// GetStats returns a snapshot of the current statistics.
func (m *LookupMetrics) GetStats() *LookupStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hits := m.CacheHits.Load()
	misses := m.CacheMisses.Load()

	hitRate := 0.0
	if hits+misses > 0 {
		hitRate = float64(hits) / float64(hits+misses) * 100
	}

	return &LookupStats{
		ResolveLatency: m.ResolveLatency.Stats(),
		CacheHits:      hits,
		CacheMisses:    misses,
		StoreHits:      m.StoreHits.Load(),
		Resolved:       m.Resolved.Load(),
		Failures:       m.Failures.Load(),
		CacheHitRate:   hitRate,
		Uptime:         time.Since(m.startTime).Round(time.Second).String(),
	}
}

// Reset clears all metrics.
func (m *LookupMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ResolveLatency.Reset()
	m.CacheHits.Store(0)
	m.CacheMisses.Store(0)
	m.StoreHits.Store(0)
	m.Resolved.Store(0)
	m.Failures.Store(0)
	m.startTime = time.Now()
}

// DrawMetrics tracks hand sampling.
type DrawMetrics struct {
	DrawLatency *Histogram

	Submissions atomic.Uint64
	Superseded  atomic.Uint64
	HandsDrawn  atomic.Uint64
}

// NewDrawMetrics creates a new draw metrics collector.
func NewDrawMetrics() *DrawMetrics {
	return &DrawMetrics{DrawLatency: NewHistogram(defaultHistogramSize)}
}

// RecordDraw records a batch of hands drawn in d.
func (m *DrawMetrics) RecordDraw(hands int, d time.Duration) {
	m.HandsDrawn.Add(uint64(hands))
	m.DrawLatency.Record(d)
}

// DrawStats is a snapshot of DrawMetrics.
type DrawStats struct {
	DrawLatency LatencyStats `json:"draw_latency"`
	Submissions uint64       `json:"submissions"`
	Superseded  uint64       `json:"superseded"`
	HandsDrawn  uint64       `json:"hands_drawn"`
}

// GetStats returns a snapshot of the current statistics.
func (m *DrawMetrics) GetStats() *DrawStats {
	return &DrawStats{
		DrawLatency: m.DrawLatency.Stats(),
		Submissions: m.Submissions.Load(),
		Superseded:  m.Superseded.Load(),
		HandsDrawn:  m.HandsDrawn.Load(),
	}
}
