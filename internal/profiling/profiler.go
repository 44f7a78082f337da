// Package profiling wraps runtime/pprof for sysline's one-shot runs. A
// status line query is short, so a Session brackets exactly one run: CPU
// profiling from Start to Stop, plus an optional heap profile at Stop.
package profiling

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Session holds the profile output paths for a single run. An empty path
// disables that profile.
type Session struct {
	CPUPath string
	MemPath string

	cpuFile *os.File
}

// Enabled reports whether any profile output is configured.
func (s *Session) Enabled() bool {
	return s.CPUPath != "" || s.MemPath != ""
}

// Start begins CPU profiling when a CPU path is configured.
func (s *Session) Start() error {
	if s.CPUPath == "" {
		return nil
	}

	f, err := os.Create(s.CPUPath)
	if err != nil {
		return fmt.Errorf("creating CPU profile %s: %w", s.CPUPath, err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("starting CPU profile: %w", err)
	}

	s.cpuFile = f
	return nil
}

// Stop ends CPU profiling and writes the heap profile when configured.
// Safe to call when Start was never called or failed.
func (s *Session) Stop() error {
	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := s.cpuFile.Close(); err != nil {
			return fmt.Errorf("closing CPU profile: %w", err)
		}
		s.cpuFile = nil
	}

	if s.MemPath != "" {
		return writeHeapProfile(s.MemPath)
	}
	return nil
}

func writeHeapProfile(path string) error {
	// Collect garbage first so the profile shows live objects.
	runtime.GC()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating heap profile %s: %w", path, err)
	}
	defer f.Close()

	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("writing heap profile: %w", err)
	}
	return nil
}
