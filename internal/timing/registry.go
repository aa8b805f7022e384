// Package timing keeps named wall-clock intervals and renders them as a
// Server-Timing header.
//
// A Registry has no internal locking. It is meant to be owned by a single
// request or script run; callers sharing one between goroutines must guard
// every call with their own lock.
package timing

import (
	"math"
	"slices"
	"time"

	"k8s.io/utils/clock"
)

// Record is the result of a stopped timer. Memory fields are zero unless the
// registry tracks memory.
type Record struct {
	// Duration is the elapsed time in milliseconds.
	Duration float64
	// MemoryDelta is the growth in bytes between start and stop, floored at zero.
	MemoryDelta uint64
	// MemoryPeak is the process peak memory in bytes sampled at stop.
	MemoryPeak uint64
}

type mark struct {
	startedAt time.Time
	memory    uint64
}

type Option func(r *Registry)

// WithClock replaces the real clock, mostly for tests.
func WithClock(c clock.PassiveClock) Option {
	return func(r *Registry) {
		r.clock = c
	}
}

// WithMemoryTracking samples memory on every Start and Stop.
func WithMemoryTracking(sampler MemorySampler) Option {
	return func(r *Registry) {
		r.memory = sampler
	}
}

type Registry struct {
	clock  clock.PassiveClock
	memory MemorySampler

	timers        map[string]mark
	timerOrder    []string
	durations     map[string]Record
	durationOrder []string
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		clock:     clock.RealClock{},
		timers:    map[string]mark{},
		durations: map[string]Record{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MemoryTracking reports whether start and stop sample memory usage.
func (r *Registry) MemoryTracking() bool {
	return r.memory != nil
}

// Start marks the beginning of the named interval. Starting a name that is
// already in flight moves its start to now.
func (r *Registry) Start(name string) {
	m := mark{startedAt: r.clock.Now()}
	if r.memory != nil {
		m.memory = r.memory.Usage()
	}

	if _, ok := r.timers[name]; !ok {
		r.timerOrder = append(r.timerOrder, name)
	}
	r.timers[name] = m
}

// Stop consumes the in-flight mark of name and stores its duration record.
func (r *Registry) Stop(name string) error {
	m, ok := r.timers[name]
	if !ok {
		return &TimerError{Name: name, Err: ErrTimerNotStarted}
	}

	elapsed := r.clock.Since(m.startedAt)
	rec := Record{
		Duration: float64(elapsed) / float64(time.Millisecond),
	}
	if r.memory != nil {
		if current := r.memory.Usage(); current > m.memory {
			rec.MemoryDelta = current - m.memory
		}
		rec.MemoryPeak = r.memory.Peak()
	}

	delete(r.timers, name)
	r.timerOrder = removeName(r.timerOrder, name)

	if _, ok := r.durations[name]; !ok {
		r.durationOrder = append(r.durationOrder, name)
	}
	r.durations[name] = rec

	return nil
}

// Duration returns the elapsed milliseconds of a stopped timer.
func (r *Registry) Duration(name string) (float64, error) {
	rec, err := r.Record(name)
	if err != nil {
		return 0, err
	}
	return rec.Duration, nil
}

func (r *Registry) Record(name string) (Record, error) {
	rec, ok := r.durations[name]
	if !ok {
		return Record{}, &TimerError{Name: name, Err: ErrDurationNotFound}
	}
	return rec, nil
}

// HasTimer reports whether name is in flight or has a duration record.
func (r *Registry) HasTimer(name string) bool {
	if _, ok := r.timers[name]; ok {
		return true
	}
	_, ok := r.durations[name]
	return ok
}

// TimerNames lists in-flight timers in the order they were first started.
func (r *Registry) TimerNames() []string {
	return slices.Clone(r.timerOrder)
}

// DurationNames lists stopped timers in the order they first completed.
func (r *Registry) DurationNames() []string {
	return slices.Clone(r.durationOrder)
}

// Timers returns a snapshot of in-flight start instants.
func (r *Registry) Timers() map[string]time.Time {
	out := make(map[string]time.Time, len(r.timers))
	for name, m := range r.timers {
		out[name] = m.startedAt
	}
	return out
}

// Durations returns a snapshot of recorded durations in milliseconds.
func (r *Registry) Durations() map[string]float64 {
	out := make(map[string]float64, len(r.durations))
	for name, rec := range r.durations {
		out[name] = rec.Duration
	}
	return out
}

// MemoryUsageKB returns the memory delta of a stopped timer in KB. Unknown
// names report zero.
func (r *Registry) MemoryUsageKB(name string) float64 {
	return bytesToKB(r.durations[name].MemoryDelta)
}

// PeakMemoryKB returns the peak memory observed when name was stopped, in KB.
func (r *Registry) PeakMemoryKB(name string) float64 {
	return bytesToKB(r.durations[name].MemoryPeak)
}

func (r *Registry) Reset() {
	r.timers = map[string]mark{}
	r.timerOrder = nil
	r.durations = map[string]Record{}
	r.durationOrder = nil
}

func removeName(names []string, name string) []string {
	if i := slices.Index(names, name); i >= 0 {
		return slices.Delete(names, i, i+1)
	}
	return names
}

func bytesToKB(b uint64) float64 {
	return round2(float64(b) / 1024)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
