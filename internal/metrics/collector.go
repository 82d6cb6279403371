// Package metrics provides in-memory runtime statistics collection for the
// matching engine.
package metrics

import (
	"math"
	"sync"
	"time"
)

// Operation names for the collector.
const (
	OpNormalize      = "normalize"
	OpSimilarity     = "similarity"
	OpSemantic       = "semantic"
	OpPairScore      = "pair_score"
	OpCandidateMatch = "candidate_match"
	OpChainDiscovery = "chain_discovery"
)

// OperationMetrics holds aggregated metrics for a single operation type.
type OperationMetrics struct {
	Count     int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64
	TotalTimeMs int64
	AvgTimeUs   float64
	MinTimeUs   int64
	MaxTimeUs   int64
}

// Snapshot represents the full engine statistics at a point in time.
type Snapshot struct {
	UptimeSeconds float64
	Operations    map[string]OperationSnapshot
	CacheHits     map[string]int64
	CacheMisses   map[string]int64
}

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
	hits      map[string]int64
	misses    map[string]int64
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
		hits:      make(map[string]int64),
		misses:    make(map[string]int64),
	}
}

// RecordTiming records timing for an operation. A nil collector is a no-op
// so components can treat metrics as optional.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}
	m.Count++
	m.TotalTime += duration
	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// RecordCacheHit increments the hit counter for a named cache.
func (c *Collector) RecordCacheHit(cache string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.hits[cache]++
	c.mu.Unlock()
}

// RecordCacheMiss increments the miss counter for a named cache.
func (c *Collector) RecordCacheMiss(cache string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.misses[cache]++
	c.mu.Unlock()
}

// GetSnapshot returns the current statistics.
func (c *Collector) GetSnapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		Operations:    make(map[string]OperationSnapshot, len(c.ops)),
		CacheHits:     make(map[string]int64, len(c.hits)),
		CacheMisses:   make(map[string]int64, len(c.misses)),
	}
	for op, m := range c.ops {
		if m.Count == 0 {
			continue
		}
		snap.Operations[op] = OperationSnapshot{
			Count:       m.Count,
			TotalTimeMs: m.TotalTime.Milliseconds(),
			AvgTimeUs:   float64(m.TotalTime.Microseconds()) / float64(m.Count),
			MinTimeUs:   m.MinTime.Microseconds(),
			MaxTimeUs:   m.MaxTime.Microseconds(),
		}
	}
	for k, v := range c.hits {
		snap.CacheHits[k] = v
	}
	for k, v := range c.misses {
		snap.CacheMisses[k] = v
	}
	return snap
}
