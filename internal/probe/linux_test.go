//go:build linux

package probe

import (
	"os"
	"path/filepath"
	"testing"
)

// newFixtureSource builds a linuxSource pointed at a fixture tree under a
// temp dir.
func newFixtureSource(t *testing.T) (*linuxSource, string) {
	t.Helper()
	base := t.TempDir()

	src := newLinuxSource()
	src.procCPUInfo = filepath.Join(base, "cpuinfo")
	src.procLoadavg = filepath.Join(base, "loadavg")
	src.procUptime = filepath.Join(base, "uptime")
	src.procMemInfo = filepath.Join(base, "meminfo")
	src.procMounts = filepath.Join(base, "mounts")
	src.sysCPUBase = filepath.Join(base, "sys", "cpu")
	src.sysPlatformBase = filepath.Join(base, "sys", "platform")
	src.sysBlockBase = filepath.Join(base, "sys", "block")

	return src, base
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLinuxSource_Cores(t *testing.T) {
	src, _ := newFixtureSource(t)
	writeFile(t, src.procCPUInfo, "processor\t: 0\nmodel name\t: X\nprocessor\t: 1\n")

	cores, err := src.Cores()
	if err != nil {
		t.Fatalf("Cores() failed: %v", err)
	}
	if cores != 2 {
		t.Errorf("Cores() = %d, want 2", cores)
	}
}

func TestLinuxSource_Cores_MissingFile(t *testing.T) {
	src, _ := newFixtureSource(t)
	if _, err := src.Cores(); err == nil {
		t.Error("Cores() should fail without cpuinfo")
	}
}

func TestLinuxSource_CPUModel(t *testing.T) {
	src, _ := newFixtureSource(t)
	writeFile(t, src.procCPUInfo, "processor\t: 0\nmodel name\t: Intel(R) Core(TM) i7 CPU\n")
	writeFile(t, filepath.Join(src.sysCPUBase, "cpu0", "cpufreq", "scaling_max_freq"), "3600000\n")

	model, speed, err := src.CPUModel()
	if err != nil {
		t.Fatalf("CPUModel() failed: %v", err)
	}
	if model != "Intel(R) Core(TM) i7 CPU" {
		t.Errorf("model = %q", model)
	}
	if speed != 3.6 {
		t.Errorf("speed = %v, want 3.6", speed)
	}
}

func TestLinuxSource_CPUModel_NoSpeedFile(t *testing.T) {
	src, _ := newFixtureSource(t)
	writeFile(t, src.procCPUInfo, "model name\t: Some CPU\n")

	model, speed, err := src.CPUModel()
	if err != nil {
		t.Fatalf("CPUModel() failed: %v", err)
	}
	if model != "Some CPU" || speed != 0 {
		t.Errorf("CPUModel() = (%q, %v), want (Some CPU, 0)", model, speed)
	}
}

func TestLinuxSource_LoadAvg(t *testing.T) {
	src, _ := newFixtureSource(t)
	writeFile(t, src.procLoadavg, "1.00 0.75 0.50 2/300 12345\n")

	load, err := src.LoadAvg()
	if err != nil {
		t.Fatalf("LoadAvg() failed: %v", err)
	}
	if load != [3]float64{1.00, 0.75, 0.50} {
		t.Errorf("LoadAvg() = %v", load)
	}
}

func TestLinuxSource_ProcessCPUSum(t *testing.T) {
	src, _ := newFixtureSource(t)
	src.runPS = func() (string, error) {
		return "%CPU\n 1.0\n 2.5\n 0.5\n", nil
	}

	sum, err := src.ProcessCPUSum()
	if err != nil {
		t.Fatalf("ProcessCPUSum() failed: %v", err)
	}
	if sum != 4.0 {
		t.Errorf("ProcessCPUSum() = %v, want 4.0", sum)
	}
}

func TestLinuxSource_FanRPM(t *testing.T) {
	src, _ := newFixtureSource(t)
	writeFile(t, filepath.Join(src.sysPlatformBase, "hwmon0", "fan1_input"), "1450\n")

	rpm, err := src.FanRPM()
	if err != nil {
		t.Fatalf("FanRPM() failed: %v", err)
	}
	if rpm != 1450 {
		t.Errorf("FanRPM() = %d, want 1450", rpm)
	}
}

func TestLinuxSource_FanRPM_NoSensor(t *testing.T) {
	src, _ := newFixtureSource(t)
	if _, err := src.FanRPM(); err == nil {
		t.Error("FanRPM() should fail without a sensor")
	}
}

func TestLinuxSource_Temperature(t *testing.T) {
	src, _ := newFixtureSource(t)
	dev := filepath.Join(src.sysPlatformBase, "coretemp.0", "hwmon", "hwmon1")
	writeFile(t, filepath.Join(dev, "name"), "coretemp\n")
	writeFile(t, filepath.Join(dev, "temp1_input"), "45000\n")

	temp, err := src.Temperature()
	if err != nil {
		t.Fatalf("Temperature() failed: %v", err)
	}
	if temp != 45.0 {
		t.Errorf("Temperature() = %v, want 45.0", temp)
	}
}

func TestLinuxSource_Temperature_UnrelatedDevice(t *testing.T) {
	src, _ := newFixtureSource(t)
	dev := filepath.Join(src.sysPlatformBase, "fan.0")
	writeFile(t, filepath.Join(dev, "name"), "pwmfan\n")

	if _, err := src.Temperature(); err == nil {
		t.Error("Temperature() should fail when no device name mentions temp")
	}
}

func TestLinuxSource_Uptime(t *testing.T) {
	src, _ := newFixtureSource(t)
	writeFile(t, src.procUptime, "88123.45 350000.00\n")

	up, err := src.UptimeSec()
	if err != nil {
		t.Fatalf("UptimeSec() failed: %v", err)
	}
	if up != 88123 {
		t.Errorf("UptimeSec() = %d, want 88123", up)
	}
}

func TestLinuxSource_Memory(t *testing.T) {
	src, _ := newFixtureSource(t)
	writeFile(t, src.procMemInfo, meminfoFixture)

	total, err := src.MemTotal()
	if err != nil {
		t.Fatalf("MemTotal() failed: %v", err)
	}
	if total != uint64(16000000)<<10 {
		t.Errorf("MemTotal() = %d", total)
	}

	used, err := src.MemUsed()
	if err != nil {
		t.Fatalf("MemUsed() failed: %v", err)
	}
	wantKB := uint64(16000000 + 100000 - 4000000 - 500000 - 2000000 - 300000)
	if used != wantKB<<10 {
		t.Errorf("MemUsed() = %d, want %d", used, wantKB<<10)
	}
}

func TestLinuxSource_Swap(t *testing.T) {
	src, _ := newFixtureSource(t)
	writeFile(t, src.procMemInfo, meminfoFixture)

	total, err := src.SwapTotal()
	if err != nil {
		t.Fatalf("SwapTotal() failed: %v", err)
	}
	if total != uint64(8000000)<<10 {
		t.Errorf("SwapTotal() = %d", total)
	}

	used, err := src.SwapUsed()
	if err != nil {
		t.Fatalf("SwapUsed() failed: %v", err)
	}
	if used != uint64(2000000)<<10 {
		t.Errorf("SwapUsed() = %d, want %d", used, uint64(2000000)<<10)
	}
}

func TestLinuxSource_DiskDevice(t *testing.T) {
	src, _ := newFixtureSource(t)
	writeFile(t, src.procMounts, "/dev/sda1 / ext4 rw 0 0\ntmpfs /tmp tmpfs rw 0 0\n")

	dev, err := src.DiskDevice("/")
	if err != nil {
		t.Fatalf("DiskDevice() failed: %v", err)
	}
	if dev != "/dev/sda1" {
		t.Errorf("DiskDevice() = %q", dev)
	}

	if _, err := src.DiskDevice("/nonexistent"); err == nil {
		t.Error("DiskDevice() should fail for an unknown mount")
	}
}

func TestLinuxSource_DiskMountAndPartType(t *testing.T) {
	src, _ := newFixtureSource(t)
	writeFile(t, src.procMounts, "/dev/sda1 /home ext4 rw 0 0\n")

	mount, err := src.DiskMount("/dev/sda1")
	if err != nil || mount != "/home" {
		t.Errorf("DiskMount() = (%q, %v), want (/home, nil)", mount, err)
	}

	fsType, err := src.DiskPartType("/dev/sda1")
	if err != nil || fsType != "ext4" {
		t.Errorf("DiskPartType() = (%q, %v), want (ext4, nil)", fsType, err)
	}
}

func TestLinuxSource_DiskLabel(t *testing.T) {
	src, _ := newFixtureSource(t)
	uevent := "MAJOR=8\nMINOR=1\nDEVNAME=sda1\nPARTNAME=root\n"
	writeFile(t, filepath.Join(src.sysBlockBase, "sda", "sda1", "uevent"), uevent)

	label, err := src.DiskLabel("/dev/sda1")
	if err != nil {
		t.Fatalf("DiskLabel() failed: %v", err)
	}
	if label != "root" {
		t.Errorf("DiskLabel() = %q, want root", label)
	}

	if _, err := src.DiskLabel("/dev/mapper/root"); err == nil {
		t.Error("DiskLabel() should fail for undecomposable device names")
	}
}

func TestLinuxSource_FSStats(t *testing.T) {
	src, _ := newFixtureSource(t)

	// statfs against a real directory; only sanity-check the shape.
	st, err := src.FSStats(t.TempDir())
	if err != nil {
		t.Fatalf("FSStats() failed: %v", err)
	}
	if st.Total == 0 {
		t.Error("FSStats() Total = 0")
	}
	if st.Used > st.Total {
		t.Errorf("FSStats() Used %d > Total %d", st.Used, st.Total)
	}
}
