//go:generate mockgen -source $GOFILE -destination ./mock/$GOFILE .
package timing

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/v3/process"
)

const (
	MemorySourceRuntime = "runtime"
	MemorySourceProcess = "process"
)

// MemorySampler reports process memory in bytes.
type MemorySampler interface {
	// Usage returns the memory currently held by the process.
	Usage() uint64
	// Peak returns the highest memory the process has held so far.
	Peak() uint64
}

// NewMemorySampler picks a sampler by source name.
func NewMemorySampler(source string) (MemorySampler, error) {
	switch source {
	case "", MemorySourceRuntime:
		return &RuntimeSampler{}, nil
	case MemorySourceProcess:
		return NewProcessSampler(), nil
	default:
		return nil, fmt.Errorf("unknown memory source %q", source)
	}
}

// RuntimeSampler reads the Go runtime statistics. It only sees memory managed
// by the Go runtime.
type RuntimeSampler struct{}

func (RuntimeSampler) Usage() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc + m.StackSys + m.OtherSys
}

func (RuntimeSampler) Peak() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return max(m.Sys, m.HeapAlloc+m.StackSys+m.OtherSys)
}

// ProcessSampler reads the resident set size of the current process from the
// operating system. It is safe to share between registries.
type ProcessSampler struct {
	proc     *process.Process
	fallback RuntimeSampler

	mu     sync.Mutex
	maxRSS uint64
}

func NewProcessSampler() *ProcessSampler {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return &ProcessSampler{}
	}
	return &ProcessSampler{proc: proc}
}

func (s *ProcessSampler) Usage() uint64 {
	info, ok := s.memoryInfo()
	if !ok {
		return s.fallback.Usage()
	}
	return info.RSS
}

func (s *ProcessSampler) Peak() uint64 {
	info, ok := s.memoryInfo()
	if !ok {
		return s.fallback.Peak()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// HWM is only reported on linux.
	return max(info.HWM, s.maxRSS)
}

func (s *ProcessSampler) memoryInfo() (*process.MemoryInfoStat, bool) {
	if s.proc == nil {
		return nil, false
	}
	info, err := s.proc.MemoryInfo()
	if err != nil || info == nil {
		return nil, false
	}
	s.mu.Lock()
	s.maxRSS = max(s.maxRSS, info.RSS)
	s.mu.Unlock()
	return info, true
}
