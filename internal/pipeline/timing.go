package pipeline

import (
	"context"
	"sort"
	"sync"
	"time"
)

type timingKey struct{}

type timingInfo struct {
	operation string
	start     time.Time
}

// TimingTracker records wall-clock durations per operation name.
type TimingTracker struct {
	timings map[string][]time.Duration
	mu      sync.RWMutex
}

func NewTimingTracker() *TimingTracker {
	return &TimingTracker{timings: make(map[string][]time.Duration)}
}

func (tt *TimingTracker) StartTiming(operation string) context.Context {
	return context.WithValue(context.Background(), timingKey{}, timingInfo{
		operation: operation,
		start:     time.Now(),
	})
}

// EndTiming records the elapsed time since the matching StartTiming and
// returns it.
func (tt *TimingTracker) EndTiming(ctx context.Context) time.Duration {
	info, ok := ctx.Value(timingKey{}).(timingInfo)
	if !ok {
		return 0
	}
	elapsed := time.Since(info.start)
	tt.Record(info.operation, elapsed)
	return elapsed
}

func (tt *TimingTracker) Record(operation string, d time.Duration) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.timings[operation] = append(tt.timings[operation], d)
}

func (tt *TimingTracker) GetTimings(operation string) []time.Duration {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	timings := tt.timings[operation]
	if timings == nil {
		return nil
	}
	result := make([]time.Duration, len(timings))
	copy(result, timings)
	return result
}

// Operations returns the recorded operation names in sorted order.
func (tt *TimingTracker) Operations() []string {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	ops := make([]string, 0, len(tt.timings))
	for op := range tt.timings {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

func (tt *TimingTracker) GetAverageTime(operation string) time.Duration {
	timings := tt.GetTimings(operation)
	if len(timings) == 0 {
		return 0
	}

	var total time.Duration
	for _, d := range timings {
		total += d
	}
	return total / time.Duration(len(timings))
}

func (tt *TimingTracker) Reset() {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.timings = make(map[string][]time.Duration)
}
