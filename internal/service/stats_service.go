package service

import (
	"sync"
	"sync/atomic"
)

// StatsService tracks tool invocation statistics using lock-free atomic counters.
// All counter operations are safe for concurrent access from multiple goroutines.
type StatsService struct {
	calls   atomic.Int64
	errors  atomic.Int64
	unknown atomic.Int64

	// Per-tool counters (mutex-protected map).
	mu         sync.Mutex
	toolCounts map[string]int64
}

// NewStatsService creates a new StatsService with all counters initialized to zero.
func NewStatsService() *StatsService {
	return &StatsService{
		toolCounts: make(map[string]int64),
	}
}

// RecordCall counts one invocation of tool. Failed calls also bump the error counter.
func (s *StatsService) RecordCall(tool string, ok bool) {
	s.calls.Add(1)
	if !ok {
		s.errors.Add(1)
	}
	s.mu.Lock()
	s.toolCounts[tool]++
	s.mu.Unlock()
}

// RecordUnknown counts a call to a tool name that is not in the catalog.
func (s *StatsService) RecordUnknown() {
	s.calls.Add(1)
	s.errors.Add(1)
	s.unknown.Add(1)
}

// Stats holds a snapshot of all counters at a point in time.
type Stats struct {
	Calls        int64            `json:"calls"`
	Errors       int64            `json:"errors"`
	UnknownTools int64            `json:"unknown_tools"`
	ToolCounts   map[string]int64 `json:"tool_counts"`
}

// GetStats returns a snapshot of all counters.
// The snapshot is consistent per-counter but not atomically across all counters.
func (s *StatsService) GetStats() Stats {
	s.mu.Lock()
	tc := make(map[string]int64, len(s.toolCounts))
	for k, v := range s.toolCounts {
		tc[k] = v
	}
	s.mu.Unlock()

	return Stats{
		Calls:        s.calls.Load(),
		Errors:       s.errors.Load(),
		UnknownTools: s.unknown.Load(),
		ToolCounts:   tc,
	}
}

// Reset sets all counters to zero.
func (s *StatsService) Reset() {
	s.calls.Store(0)
	s.errors.Store(0)
	s.unknown.Store(0)

	s.mu.Lock()
	s.toolCounts = make(map[string]int64)
	s.mu.Unlock()
}
