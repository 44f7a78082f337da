//go:build darwin

package probe

import "testing"

// The integer sysctls return raw binary buffers, so they must go through
// the typed syscall accessors; a text-based read yields garbage that
// never parses. These probe the live host.

func TestCores(t *testing.T) {
	s := newDarwinSource()
	cores, err := s.Cores()
	if err != nil {
		t.Fatalf("Cores: %v", err)
	}
	if cores <= 0 {
		t.Errorf("Cores = %d, want > 0", cores)
	}
}

func TestMemTotal(t *testing.T) {
	s := newDarwinSource()
	total, err := s.MemTotal()
	if err != nil {
		t.Fatalf("MemTotal: %v", err)
	}
	if total == 0 {
		t.Error("MemTotal = 0, want physical memory size")
	}
}

func TestCPUModel(t *testing.T) {
	s := newDarwinSource()
	model, speed, err := s.CPUModel()
	if err != nil {
		t.Fatalf("CPUModel: %v", err)
	}
	if model == "" {
		t.Error("empty model string")
	}
	// Apple Silicon reports no frequency sysctl; zero is acceptable
	// there, negative never is.
	if speed < 0 {
		t.Errorf("speed = %v, want >= 0", speed)
	}
}

func TestLoadAvg(t *testing.T) {
	s := newDarwinSource()
	load, err := s.LoadAvg()
	if err != nil {
		t.Fatalf("LoadAvg: %v", err)
	}
	for i, v := range load {
		if v < 0 {
			t.Errorf("load[%d] = %v, want >= 0", i, v)
		}
	}
}

func TestUptimeSec(t *testing.T) {
	s := newDarwinSource()
	up, err := s.UptimeSec()
	if err != nil {
		t.Fatalf("UptimeSec: %v", err)
	}
	if up <= 0 {
		t.Errorf("UptimeSec = %d, want > 0", up)
	}
}
