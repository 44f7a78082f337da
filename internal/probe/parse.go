package probe

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pure text parsers shared by the platform sources. Keeping them free of
// build tags lets every platform's test suite exercise them against
// captured fixture output.

var (
	devSplitRe  = regexp.MustCompile(`/dev/([^0-9]+)([0-9]+)`)
	partNameRe  = regexp.MustCompile(`^PARTNAME=(.+)`)
	vmStatRe    = regexp.MustCompile(`^Pages (wired down|active|occupied by compressor):\s+([0-9]+)`)
	modelNameRe = regexp.MustCompile(`^model name\s*:\s*(.*)`)
)

// parseMemInfo reads /proc/meminfo-style text and returns the named fields
// in bytes (the file reports kB). Missing keys are simply absent from the
// result.
func parseMemInfo(text string) map[string]uint64 {
	values := make(map[string]uint64)

	for _, line := range strings.Split(text, "\n") {
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		fields := strings.Fields(parts[1])
		if len(fields) == 0 {
			continue
		}

		v, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			continue
		}
		values[key] = v << 10
	}

	return values
}

// memUsedFromInfo computes used memory the way free(1) traditionally does:
// total plus shared, minus everything reclaimable.
func memUsedFromInfo(values map[string]uint64) uint64 {
	used := values["MemTotal"] + values["Shmem"]
	for _, k := range []string{"MemFree", "Buffers", "Cached", "SReclaimable"} {
		v := values[k]
		if v > used {
			return 0
		}
		used -= v
	}
	return used
}

// parseLoadAvg extracts the three load averages from /proc/loadavg text.
func parseLoadAvg(text string) ([3]float64, error) {
	var load [3]float64

	fields := strings.Fields(text)
	if len(fields) < 3 {
		return load, fmt.Errorf("unexpected loadavg format: %q", text)
	}

	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return load, fmt.Errorf("parsing load average %q: %w", fields[i], err)
		}
		load[i] = v
	}

	return load, nil
}

// parseUptime extracts whole seconds of uptime from /proc/uptime text.
func parseUptime(text string) (int64, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty uptime data")
	}

	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("parsing uptime %q: %w", fields[0], err)
	}
	return int64(secs), nil
}

// parsePSCPUSum sums the per-process CPU percentages in `ps -e -o %cpu`
// output. Lines that do not parse as a number (the header, kernel thread
// placeholders) are skipped.
func parsePSCPUSum(text string) float64 {
	var sum float64

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		v, err := strconv.ParseFloat(strings.TrimSpace(scanner.Text()), 64)
		if err != nil {
			continue
		}
		sum += v
	}

	return sum
}

// parseModelName extracts the first "model name" value from /proc/cpuinfo
// text.
func parseModelName(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		if m := modelNameRe.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// countProcessors counts "processor" entries in /proc/cpuinfo text.
func countProcessors(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "processor") {
			count++
		}
	}
	return count
}

// splitDevice decomposes a partition device path such as /dev/sda1 into its
// base device name ("sda") and partition suffix ("1").
func splitDevice(dev string) (base, part string, ok bool) {
	m := devSplitRe.FindStringSubmatch(dev)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// parsePartName extracts the PARTNAME value from sysfs uevent text. The
// value runs to end of line and may carry kernel octal escapes.
func parsePartName(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		if m := partNameRe.FindStringSubmatch(strings.TrimRight(line, "\r")); m != nil {
			return unescapeMountPath(m[1]), true
		}
	}
	return "", false
}

// parseVMStat sums the used-page categories of vm_stat output (wired,
// active, compressor-occupied) and scales pages to bytes. Darwin pages are
// 4096 bytes, a left shift by 12.
func parseVMStat(text string) (uint64, error) {
	var pages uint64
	matched := false

	for _, line := range strings.Split(text, "\n") {
		m := vmStatRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		v, err := strconv.ParseUint(strings.TrimSuffix(m[2], "."), 10, 64)
		if err != nil {
			continue
		}
		pages += v
		matched = true
	}

	if !matched {
		return 0, fmt.Errorf("no used-page categories in vm_stat output")
	}
	return pages << 12, nil
}

// mountEntry is one row of a /proc/mounts-style table.
type mountEntry struct {
	device string
	mount  string
	fsType string
}

// parseMountTable parses /proc/mounts-style text. Octal escapes in the
// mount path (\040 for space) are decoded.
func parseMountTable(text string) []mountEntry {
	var entries []mountEntry

	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		entries = append(entries, mountEntry{
			device: fields[0],
			mount:  unescapeMountPath(fields[1]),
			fsType: fields[2],
		})
	}

	return entries
}

// unescapeMountPath decodes the octal escape sequences the kernel writes
// into /proc/mounts paths.
func unescapeMountPath(path string) string {
	var b strings.Builder
	for i := 0; i < len(path); i++ {
		if path[i] == '\\' && i+3 < len(path) {
			if v, err := strconv.ParseInt(path[i+1:i+4], 8, 32); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(path[i])
	}
	return b.String()
}
