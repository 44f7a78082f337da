// Package stats holds the four telemetry domain records and the uniform,
// platform-agnostic getter façade over a probe.MetricSource. Every getter
// mutates its record in place and reports plain success or failure; on
// failure the target field is reset to its zero value so callers never see
// stale or half-written data.
package stats

import (
	"log/slog"

	"github.com/opd-ai/go-sysline/internal/probe"
)

// CPUInfo is the CPU domain record. All fields start zero-valued.
type CPUInfo struct {
	Cores     int
	Model     string
	Load      [3]float64
	Usage     float64
	FanRPM    int
	TempC     float64
	UptimeSec int64
}

// MemInfo is the memory domain record.
type MemInfo struct {
	Used    uint64
	Total   uint64
	Percent float64
}

// SwapInfo is the swap domain record.
type SwapInfo struct {
	Used    uint64
	Total   uint64
	Percent float64
}

// DiskInfo is the disk domain record. The fs field caches one filesystem
// statistics snapshot so the used and total getters share a single statfs
// call; the cache lives and dies with the record.
type DiskInfo struct {
	Dev      string
	Label    string
	Mount    string
	PartType string
	Used     uint64
	Total    uint64
	Percent  float64

	fs *probe.FSStat
}

// System binds one instance of each domain record to a metric source and a
// target mount point for a single query session. Records are owned
// exclusively by the System and are not safe for concurrent getter calls.
type System struct {
	CPU  *CPUInfo
	Mem  *MemInfo
	Swap *SwapInfo
	Disk *DiskInfo

	src   probe.MetricSource
	mount string
	log   *slog.Logger
}

// NewSystem constructs the aggregate with zero-valued records. mount is the
// mount point the disk domain reports on; empty means "/".
func NewSystem(src probe.MetricSource, mount string, log *slog.Logger) *System {
	if mount == "" {
		mount = "/"
	}
	if log == nil {
		log = slog.Default()
	}

	return &System{
		CPU:   &CPUInfo{},
		Mem:   &MemInfo{},
		Swap:  &SwapInfo{},
		Disk:  &DiskInfo{},
		src:   src,
		mount: mount,
		log:   log,
	}
}

// Mount returns the mount point the disk domain queries.
func (s *System) Mount() string {
	return s.mount
}

// Percent returns used/total as a percentage, or 0 when total is zero.
func Percent(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total) * 100
}

// fail logs a probe failure at debug level. Failure is a normal outcome
// for absent sensors, so it never logs louder.
func (s *System) fail(field string, err error) bool {
	s.log.Debug("metric unavailable", "field", field, "source", s.src.Name(), "err", err)
	return false
}
