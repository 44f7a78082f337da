// Package probe isolates the platform-specific acquisition of raw host
// telemetry. Each supported OS provides one MetricSource implementation;
// the build selects the native one and every other GOOS falls back to a
// gopsutil-backed source so the binary still runs, if with fewer metrics.
package probe

// MetricSource yields one raw metric per call from the operating system.
// Every method blocks on direct I/O (pseudo-file reads, sysctl queries, or
// subprocess execution) and returns an error when the underlying source is
// missing, unparsable, or degenerate. Implementations never panic and never
// distinguish "unsupported" from "unavailable"; both are plain errors.
type MetricSource interface {
	// Name identifies the source ("linux", "darwin", "fallback").
	Name() string

	// Cores returns the number of logical CPU cores.
	Cores() (int, error)

	// CPUModel returns the raw model string and a best-effort maximum
	// clock speed in GHz. A speed of 0 means the speed could not be
	// determined; that alone is not an error.
	CPUModel() (model string, speedGHz float64, err error)

	// LoadAvg returns the 1, 5 and 15 minute load averages.
	LoadAvg() ([3]float64, error)

	// ProcessCPUSum returns the sum of per-process CPU percentages as
	// reported by a ps-style listing. Callers divide by the core count;
	// the sum itself can exceed 100.
	ProcessCPUSum() (float64, error)

	// FanRPM returns the first fan sensor reading in RPM.
	FanRPM() (int, error)

	// Temperature returns the first CPU temperature reading in Celsius.
	Temperature() (float64, error)

	// UptimeSec returns seconds since boot.
	UptimeSec() (int64, error)

	MemUsed() (uint64, error)
	MemTotal() (uint64, error)
	SwapUsed() (uint64, error)
	SwapTotal() (uint64, error)

	// DiskDevice maps a mount point to its block device path.
	DiskDevice(mount string) (string, error)

	// DiskLabel returns the partition label for a block device.
	DiskLabel(dev string) (string, error)

	// DiskMount maps a block device back to its mount point.
	DiskMount(dev string) (string, error)

	// DiskPartType returns the filesystem type mounted from dev.
	DiskPartType(dev string) (string, error)

	// FSStats returns a filesystem usage snapshot for a mount point.
	// Callers cache the snapshot; one statfs call serves both the used
	// and total fields.
	FSStats(mount string) (*FSStat, error)
}

// FSStat is one filesystem-statistics snapshot.
type FSStat struct {
	Used  uint64
	Total uint64
}

// NewSource returns the MetricSource compiled in for the current OS.
func NewSource() MetricSource {
	return newNativeSource()
}

// NewFallbackSource returns the portable gopsutil-backed source. It works
// on any platform but reads more than the native sources do.
func NewFallbackSource() MetricSource {
	return newFallbackSource()
}
