//go:build darwin

package probe

import (
	"fmt"
	"os/exec"
	"syscall"
	"time"
	"unsafe"
)

// Sysctl MIB constants for Darwin.
const (
	ctlVM        = 2 // CTL_VM
	vmLoadavg    = 2 // VM_LOADAVG
	mntNoWait    = 2 // MNT_NOWAIT
	loadavgScale = 2048.0
)

// darwinSource implements MetricSource with sysctl queries, a spawned
// vm_stat for used memory, and getfsstat for the mount table. Fan and
// temperature sensors are not reachable without IOKit, so those probes
// always fail.
type darwinSource struct {
	runVMStat func() (string, error)
}

func newDarwinSource() *darwinSource {
	return &darwinSource{
		runVMStat: func() (string, error) {
			out, err := exec.Command("vm_stat").Output()
			if err != nil {
				return "", fmt.Errorf("running vm_stat: %w", err)
			}
			return string(out), nil
		},
	}
}

func (s *darwinSource) Name() string {
	return "darwin"
}

func (s *darwinSource) Cores() (int, error) {
	// hw.logicalcpu_max is a 4-byte integer.
	cores, err := sysctlUint32("hw.logicalcpu_max")
	if err != nil {
		return 0, err
	}
	return int(cores), nil
}

func (s *darwinSource) CPUModel() (string, float64, error) {
	model, err := syscall.Sysctl("machdep.cpu.brand_string")
	if err != nil {
		return "", 0, fmt.Errorf("sysctl machdep.cpu.brand_string: %w", err)
	}

	// Apple Silicon does not report hw.cpufrequency; a zero speed is
	// acceptable there.
	var speed float64
	if hz, err := sysctlUint64("hw.cpufrequency_max"); err == nil && hz > 0 {
		speed = float64(hz) / 1e9
	} else if hz, err := sysctlUint64("hw.cpufrequency"); err == nil && hz > 0 {
		speed = float64(hz) / 1e9
	}

	return model, speed, nil
}

func (s *darwinSource) LoadAvg() ([3]float64, error) {
	type loadavg struct {
		load  [3]uint32
		scale int
	}

	mib := []int32{ctlVM, vmLoadavg}

	var la loadavg
	n := uintptr(unsafe.Sizeof(la))

	_, _, errno := syscall.Syscall6(
		syscall.SYS___SYSCTL,
		uintptr(unsafe.Pointer(&mib[0])),
		uintptr(len(mib)),
		uintptr(unsafe.Pointer(&la)),
		uintptr(unsafe.Pointer(&n)),
		0,
		0,
	)
	if errno != 0 {
		return [3]float64{}, fmt.Errorf("sysctl VM_LOADAVG failed: %w", errno)
	}

	scale := float64(la.scale)
	if scale == 0 {
		scale = loadavgScale
	}

	return [3]float64{
		float64(la.load[0]) / scale,
		float64(la.load[1]) / scale,
		float64(la.load[2]) / scale,
	}, nil
}

func (s *darwinSource) ProcessCPUSum() (float64, error) {
	out, err := exec.Command("ps", "-e", "-o", "%cpu").Output()
	if err != nil {
		return 0, fmt.Errorf("running ps: %w", err)
	}
	return parsePSCPUSum(string(out)), nil
}

func (s *darwinSource) FanRPM() (int, error) {
	return 0, fmt.Errorf("fan sensors not available without IOKit")
}

func (s *darwinSource) Temperature() (float64, error) {
	return 0, fmt.Errorf("temperature sensors not available without IOKit")
}

func (s *darwinSource) UptimeSec() (int64, error) {
	raw, err := syscall.SysctlRaw("kern.boottime")
	if err != nil {
		return 0, fmt.Errorf("sysctl kern.boottime: %w", err)
	}
	if len(raw) < 8 {
		return 0, fmt.Errorf("short kern.boottime result (%d bytes)", len(raw))
	}

	boot := *(*int64)(unsafe.Pointer(&raw[0]))
	up := time.Now().Unix() - boot
	if up < 0 {
		return 0, fmt.Errorf("boot time %d is in the future", boot)
	}
	return up, nil
}

func (s *darwinSource) MemUsed() (uint64, error) {
	out, err := s.runVMStat()
	if err != nil {
		return 0, err
	}
	return parseVMStat(out)
}

func (s *darwinSource) MemTotal() (uint64, error) {
	return sysctlUint64("hw.memsize")
}

func (s *darwinSource) SwapUsed() (uint64, error) {
	usage, err := swapUsage()
	if err != nil {
		return 0, err
	}
	return usage.used, nil
}

func (s *darwinSource) SwapTotal() (uint64, error) {
	usage, err := swapUsage()
	if err != nil {
		return 0, err
	}
	return usage.total, nil
}

func (s *darwinSource) DiskDevice(mount string) (string, error) {
	fs, err := fsStatForMount(mount)
	if err != nil {
		return "", err
	}
	return cstring(fs.Mntfromname[:]), nil
}

func (s *darwinSource) DiskLabel(dev string) (string, error) {
	return "", fmt.Errorf("partition labels not exposed on darwin")
}

func (s *darwinSource) DiskMount(dev string) (string, error) {
	fs, err := fsStatForDevice(dev)
	if err != nil {
		return "", err
	}
	return cstring(fs.Mntonname[:]), nil
}

func (s *darwinSource) DiskPartType(dev string) (string, error) {
	fs, err := fsStatForDevice(dev)
	if err != nil {
		return "", err
	}
	return cstring(fs.Fstypename[:]), nil
}

func (s *darwinSource) FSStats(mount string) (*FSStat, error) {
	var fs syscall.Statfs_t
	if err := syscall.Statfs(mount, &fs); err != nil {
		return nil, fmt.Errorf("statfs %s: %w", mount, err)
	}

	bsize := uint64(fs.Bsize)
	total := fs.Blocks * bsize

	var used uint64
	if fs.Blocks >= fs.Bfree {
		used = (fs.Blocks - fs.Bfree) * bsize
	}

	return &FSStat{Used: used, Total: total}, nil
}

type xswUsage struct {
	total uint64
	avail uint64
	used  uint64
}

// swapUsage decodes sysctl vm.swapusage (struct xsw_usage).
func swapUsage() (xswUsage, error) {
	raw, err := syscall.SysctlRaw("vm.swapusage")
	if err != nil {
		return xswUsage{}, fmt.Errorf("sysctl vm.swapusage: %w", err)
	}
	if len(raw) < 24 {
		return xswUsage{}, fmt.Errorf("short vm.swapusage result (%d bytes)", len(raw))
	}

	return xswUsage{
		total: *(*uint64)(unsafe.Pointer(&raw[0])),
		avail: *(*uint64)(unsafe.Pointer(&raw[8])),
		used:  *(*uint64)(unsafe.Pointer(&raw[16])),
	}, nil
}

// mountedFilesystems enumerates mounted filesystems via getfsstat.
func mountedFilesystems() ([]syscall.Statfs_t, error) {
	n, err := syscall.Getfsstat(nil, mntNoWait)
	if err != nil {
		return nil, fmt.Errorf("getfsstat count: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("no mounted filesystems")
	}

	buf := make([]syscall.Statfs_t, n)
	n, err = syscall.Getfsstat(buf, mntNoWait)
	if err != nil {
		return nil, fmt.Errorf("getfsstat: %w", err)
	}
	return buf[:n], nil
}

func fsStatForMount(mount string) (*syscall.Statfs_t, error) {
	list, err := mountedFilesystems()
	if err != nil {
		return nil, err
	}
	for i := range list {
		if cstring(list[i].Mntonname[:]) == mount {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("mount %s not found", mount)
}

func fsStatForDevice(dev string) (*syscall.Statfs_t, error) {
	list, err := mountedFilesystems()
	if err != nil {
		return nil, err
	}
	for i := range list {
		if cstring(list[i].Mntfromname[:]) == dev {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("device %s not found", dev)
}

// cstring converts a NUL-terminated byte array field to a Go string.
func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// sysctlUint32 reads a 4-byte integer sysctl by name. syscall.Sysctl
// returns the raw buffer as a string, which only suits text values;
// integer sysctls need the typed accessors.
func sysctlUint32(name string) (uint32, error) {
	v, err := syscall.SysctlUint32(name)
	if err != nil {
		return 0, fmt.Errorf("sysctl %s: %w", name, err)
	}
	return v, nil
}

// sysctlUint64 reads an 8-byte integer sysctl by name.
func sysctlUint64(name string) (uint64, error) {
	v, err := syscall.SysctlUint64(name)
	if err != nil {
		return 0, fmt.Errorf("sysctl %s: %w", name, err)
	}
	return v, nil
}
