//go:build linux

package probe

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/opd-ai/go-sysline/internal/textutil"
)

// linuxSource implements MetricSource by reading the /proc and /sys
// pseudo-file trees and spawning ps for aggregate CPU utilization. The
// paths and the ps runner are fields so tests can point the source at
// fixture trees.
type linuxSource struct {
	procCPUInfo string
	procLoadavg string
	procUptime  string
	procMemInfo string
	procMounts  string

	sysCPUBase      string
	sysPlatformBase string
	sysBlockBase    string

	runPS func() (string, error)
}

func newLinuxSource() *linuxSource {
	return &linuxSource{
		procCPUInfo:     "/proc/cpuinfo",
		procLoadavg:     "/proc/loadavg",
		procUptime:      "/proc/uptime",
		procMemInfo:     "/proc/meminfo",
		procMounts:      "/proc/mounts",
		sysCPUBase:      "/sys/devices/system/cpu",
		sysPlatformBase: "/sys/devices/platform",
		sysBlockBase:    "/sys/block",
		runPS: func() (string, error) {
			out, err := exec.Command("ps", "-e", "-o", "%cpu").Output()
			if err != nil {
				return "", fmt.Errorf("running ps: %w", err)
			}
			return string(out), nil
		},
	}
}

func (s *linuxSource) Name() string {
	return "linux"
}

func (s *linuxSource) Cores() (int, error) {
	data, err := os.ReadFile(s.procCPUInfo)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", s.procCPUInfo, err)
	}

	cores := countProcessors(string(data))
	if cores == 0 {
		return 0, fmt.Errorf("no processor entries in %s", s.procCPUInfo)
	}
	return cores, nil
}

func (s *linuxSource) CPUModel() (string, float64, error) {
	data, err := os.ReadFile(s.procCPUInfo)
	if err != nil {
		return "", 0, fmt.Errorf("reading %s: %w", s.procCPUInfo, err)
	}

	model, ok := parseModelName(string(data))
	if !ok {
		return "", 0, fmt.Errorf("no model name in %s", s.procCPUInfo)
	}

	// The max-frequency files live at different depths depending on the
	// cpufreq driver; take the first one carrying a nonzero value.
	var speed float64
	for _, path := range textutil.FindAll(s.sysCPUBase, `(bios_limit|(scaling|cpuinfo)_max_freq)$`) {
		if khz, ok := readUint64File(path); ok && khz > 0 {
			speed = float64(khz) / 1e6
			break
		}
	}

	return model, speed, nil
}

func (s *linuxSource) LoadAvg() ([3]float64, error) {
	data, err := os.ReadFile(s.procLoadavg)
	if err != nil {
		return [3]float64{}, fmt.Errorf("reading %s: %w", s.procLoadavg, err)
	}
	return parseLoadAvg(string(data))
}

func (s *linuxSource) ProcessCPUSum() (float64, error) {
	out, err := s.runPS()
	if err != nil {
		return 0, err
	}
	return parsePSCPUSum(out), nil
}

func (s *linuxSource) FanRPM() (int, error) {
	path, ok := textutil.Find(s.sysPlatformBase, `fan1_input$`)
	if !ok {
		return 0, fmt.Errorf("no fan sensor under %s", s.sysPlatformBase)
	}

	rpm, ok := readUint64File(path)
	if !ok {
		return 0, fmt.Errorf("reading fan sensor %s", path)
	}
	return int(rpm), nil
}

func (s *linuxSource) Temperature() (float64, error) {
	// Locate a sensor device whose name mentions temperature, then take
	// the first nonzero temp[0-9]_input reading below it. Values are in
	// millidegrees Celsius.
	for _, namePath := range textutil.FindAll(s.sysPlatformBase, `name$`) {
		content, ok := readStringFile(namePath)
		if !ok || !strings.Contains(content, "temp") {
			continue
		}

		dir := strings.TrimSuffix(namePath, "/name")
		for _, input := range textutil.FindAll(dir, `temp[0-9]_input$`) {
			if milli, ok := readUint64File(input); ok && milli > 0 {
				return float64(milli) / 1000, nil
			}
		}
	}

	return 0, fmt.Errorf("no temperature sensor under %s", s.sysPlatformBase)
}

func (s *linuxSource) UptimeSec() (int64, error) {
	data, err := os.ReadFile(s.procUptime)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", s.procUptime, err)
	}
	return parseUptime(string(data))
}

func (s *linuxSource) MemUsed() (uint64, error) {
	values, err := s.memInfo()
	if err != nil {
		return 0, err
	}
	return memUsedFromInfo(values), nil
}

func (s *linuxSource) MemTotal() (uint64, error) {
	values, err := s.memInfo()
	if err != nil {
		return 0, err
	}
	return values["MemTotal"], nil
}

func (s *linuxSource) SwapUsed() (uint64, error) {
	values, err := s.memInfo()
	if err != nil {
		return 0, err
	}

	total, free := values["SwapTotal"], values["SwapFree"]
	if free > total {
		return 0, nil
	}
	return total - free, nil
}

func (s *linuxSource) SwapTotal() (uint64, error) {
	values, err := s.memInfo()
	if err != nil {
		return 0, err
	}
	return values["SwapTotal"], nil
}

func (s *linuxSource) memInfo() (map[string]uint64, error) {
	data, err := os.ReadFile(s.procMemInfo)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.procMemInfo, err)
	}
	return parseMemInfo(string(data)), nil
}

// readUint64File reads a uint64 from a single-value pseudo-file.
func readUint64File(path string) (uint64, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	v, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// readStringFile reads a trimmed string from a pseudo-file.
func readStringFile(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}
