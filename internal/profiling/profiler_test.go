package profiling

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnabled(t *testing.T) {
	tests := []struct {
		name string
		s    Session
		want bool
	}{
		{"neither", Session{}, false},
		{"cpu only", Session{CPUPath: "cpu.prof"}, true},
		{"mem only", Session{MemPath: "mem.prof"}, true},
		{"both", Session{CPUPath: "cpu.prof", MemPath: "mem.prof"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionCPUProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpu.prof")
	s := &Session{CPUPath: path}

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("profile file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("CPU profile is empty")
	}
}

func TestSessionHeapProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mem.prof")
	s := &Session{MemPath: path}

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("profile file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("heap profile is empty")
	}
}

func TestStartBadPath(t *testing.T) {
	s := &Session{CPUPath: filepath.Join(t.TempDir(), "no", "such", "dir", "cpu.prof")}
	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("expected error for uncreatable profile path")
	}
	// Stop after a failed Start must be a no-op.
	if err := s.Stop(); err != nil {
		t.Errorf("Stop after failed Start: %v", err)
	}
}

func TestStopWithoutStart(t *testing.T) {
	var s Session
	if err := s.Stop(); err != nil {
		t.Errorf("Stop on zero Session: %v", err)
	}
}
