package probe

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// fallbackSource implements MetricSource on top of gopsutil for platforms
// without a native probe set. Metrics gopsutil cannot source (partition
// labels, some sensors) fail the same way a missing pseudo-file would.
type fallbackSource struct{}

func newFallbackSource() *fallbackSource {
	return &fallbackSource{}
}

func (s *fallbackSource) Name() string {
	return "fallback"
}

func (s *fallbackSource) Cores() (int, error) {
	n, err := cpu.Counts(true)
	if err != nil {
		return 0, fmt.Errorf("counting cores: %w", err)
	}
	return n, nil
}

func (s *fallbackSource) CPUModel() (string, float64, error) {
	infos, err := cpu.Info()
	if err != nil {
		return "", 0, fmt.Errorf("reading cpu info: %w", err)
	}
	if len(infos) == 0 {
		return "", 0, fmt.Errorf("no cpu info available")
	}
	return infos[0].ModelName, infos[0].Mhz / 1000, nil
}

func (s *fallbackSource) LoadAvg() ([3]float64, error) {
	avg, err := load.Avg()
	if err != nil {
		return [3]float64{}, fmt.Errorf("reading load average: %w", err)
	}
	return [3]float64{avg.Load1, avg.Load5, avg.Load15}, nil
}

func (s *fallbackSource) ProcessCPUSum() (float64, error) {
	procs, err := process.Processes()
	if err != nil {
		return 0, fmt.Errorf("listing processes: %w", err)
	}

	var sum float64
	for _, p := range procs {
		pct, err := p.CPUPercent()
		if err != nil {
			continue
		}
		sum += pct
	}
	return sum, nil
}

func (s *fallbackSource) FanRPM() (int, error) {
	return 0, fmt.Errorf("fan sensors not supported by fallback source")
}

func (s *fallbackSource) Temperature() (float64, error) {
	readings, err := host.SensorsTemperatures()
	if err != nil {
		return 0, fmt.Errorf("reading temperature sensors: %w", err)
	}

	for _, r := range readings {
		key := strings.ToLower(r.SensorKey)
		if r.Temperature > 0 && (strings.Contains(key, "cpu") || strings.Contains(key, "core")) {
			return r.Temperature, nil
		}
	}
	for _, r := range readings {
		if r.Temperature > 0 {
			return r.Temperature, nil
		}
	}
	return 0, fmt.Errorf("no usable temperature reading")
}

func (s *fallbackSource) UptimeSec() (int64, error) {
	up, err := host.Uptime()
	if err != nil {
		return 0, fmt.Errorf("reading uptime: %w", err)
	}
	return int64(up), nil
}

func (s *fallbackSource) MemUsed() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("reading memory stats: %w", err)
	}
	return vm.Used, nil
}

func (s *fallbackSource) MemTotal() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("reading memory stats: %w", err)
	}
	return vm.Total, nil
}

func (s *fallbackSource) SwapUsed() (uint64, error) {
	sw, err := mem.SwapMemory()
	if err != nil {
		return 0, fmt.Errorf("reading swap stats: %w", err)
	}
	return sw.Used, nil
}

func (s *fallbackSource) SwapTotal() (uint64, error) {
	sw, err := mem.SwapMemory()
	if err != nil {
		return 0, fmt.Errorf("reading swap stats: %w", err)
	}
	return sw.Total, nil
}

func (s *fallbackSource) DiskDevice(mount string) (string, error) {
	part, err := s.partition(func(p disk.PartitionStat) bool { return p.Mountpoint == mount })
	if err != nil {
		return "", fmt.Errorf("no device for mount %s: %w", mount, err)
	}
	return part.Device, nil
}

func (s *fallbackSource) DiskLabel(dev string) (string, error) {
	return "", fmt.Errorf("partition labels not supported by fallback source")
}

func (s *fallbackSource) DiskMount(dev string) (string, error) {
	part, err := s.partition(func(p disk.PartitionStat) bool { return p.Device == dev })
	if err != nil {
		return "", fmt.Errorf("no mount for device %s: %w", dev, err)
	}
	return part.Mountpoint, nil
}

func (s *fallbackSource) DiskPartType(dev string) (string, error) {
	part, err := s.partition(func(p disk.PartitionStat) bool { return p.Device == dev })
	if err != nil {
		return "", fmt.Errorf("no partition entry for device %s: %w", dev, err)
	}
	return part.Fstype, nil
}

func (s *fallbackSource) FSStats(mount string) (*FSStat, error) {
	usage, err := disk.Usage(mount)
	if err != nil {
		return nil, fmt.Errorf("disk usage for %s: %w", mount, err)
	}
	return &FSStat{Used: usage.Used, Total: usage.Total}, nil
}

func (s *fallbackSource) partition(match func(disk.PartitionStat) bool) (disk.PartitionStat, error) {
	parts, err := disk.Partitions(true)
	if err != nil {
		return disk.PartitionStat{}, fmt.Errorf("listing partitions: %w", err)
	}

	for _, p := range parts {
		if match(p) {
			return p, nil
		}
	}
	return disk.PartitionStat{}, fmt.Errorf("no matching partition")
}
