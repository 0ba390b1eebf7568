package core

import (
	"sync"
	"time"
)

const AVG_COUNT uint8 = 30

// Metrics keeps a rolling average of tick durations and the number of
// descriptors resolved per kind. Kinds are free-form labels so this
// package stays independent of the systems package.
type Metrics struct {
	mu sync.Mutex

	tickAVGCounter uint8
	tickTimes      [AVG_COUNT]time.Duration
	tickAVG        time.Duration
	ticks          uint64

	resolved map[string]uint64
	failed   map[string]uint64
}

func NewMetrics() *Metrics {
	return &Metrics{
		resolved: make(map[string]uint64),
		failed:   make(map[string]uint64),
	}
}

// TickUpdate records the duration of one tick.
func (m *Metrics) TickUpdate(elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tickTimes[m.tickAVGCounter] = elapsed
	if m.tickAVGCounter == AVG_COUNT-1 {
		var sum time.Duration
		for i := uint8(0); i < AVG_COUNT; i++ {
			sum += m.tickTimes[i]
		}
		m.tickAVG = sum / time.Duration(AVG_COUNT)
	}
	m.tickAVGCounter++
	m.tickAVGCounter %= AVG_COUNT
	m.ticks++
}

func (m *Metrics) Resolved(kind string, n int) {
	if n == 0 {
		return
	}
	m.mu.Lock()
	m.resolved[kind] += uint64(n)
	m.mu.Unlock()
}

func (m *Metrics) Failed(kind string, n int) {
	if n == 0 {
		return
	}
	m.mu.Lock()
	m.failed[kind] += uint64(n)
	m.mu.Unlock()
}

// ResolvedCount returns how many descriptors of the given kind were resolved.
func (m *Metrics) ResolvedCount(kind string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolved[kind]
}

func (m *Metrics) FailedCount(kind string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failed[kind]
}

func (m *Metrics) Ticks() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ticks
}

// TickTime returns the rolling average tick duration. It is zero until
// AVG_COUNT ticks have been recorded.
func (m *Metrics) TickTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tickAVG
}
