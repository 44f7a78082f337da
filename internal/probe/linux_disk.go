//go:build linux

package probe

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

func (s *linuxSource) DiskDevice(mount string) (string, error) {
	entry, err := s.mountQuery(func(e mountEntry) bool { return e.mount == mount })
	if err != nil {
		return "", fmt.Errorf("no device for mount %s: %w", mount, err)
	}
	return entry.device, nil
}

func (s *linuxSource) DiskMount(dev string) (string, error) {
	entry, err := s.mountQuery(func(e mountEntry) bool { return e.device == dev })
	if err != nil {
		return "", fmt.Errorf("no mount for device %s: %w", dev, err)
	}
	return entry.mount, nil
}

func (s *linuxSource) DiskPartType(dev string) (string, error) {
	entry, err := s.mountQuery(func(e mountEntry) bool { return e.device == dev })
	if err != nil {
		return "", fmt.Errorf("no mount table entry for device %s: %w", dev, err)
	}
	return entry.fsType, nil
}

func (s *linuxSource) DiskLabel(dev string) (string, error) {
	base, part, ok := splitDevice(dev)
	if !ok {
		return "", fmt.Errorf("device %s does not look like a partition", dev)
	}

	// The partition label lives in the uevent file of the partition's
	// sysfs block directory, e.g. /sys/block/sda/sda1/uevent.
	ueventPath := filepath.Join(s.sysBlockBase, base, base+part, "uevent")
	data, err := os.ReadFile(ueventPath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", ueventPath, err)
	}

	label, ok := parsePartName(string(data))
	if !ok {
		return "", fmt.Errorf("no PARTNAME in %s", ueventPath)
	}
	return label, nil
}

func (s *linuxSource) FSStats(mount string) (*FSStat, error) {
	var fs syscall.Statfs_t
	if err := syscall.Statfs(mount, &fs); err != nil {
		return nil, fmt.Errorf("statfs %s: %w", mount, err)
	}

	frsize := uint64(fs.Frsize)
	total := fs.Blocks * frsize

	var used uint64
	if fs.Blocks >= fs.Bfree {
		used = (fs.Blocks - fs.Bfree) * frsize
	}

	return &FSStat{Used: used, Total: total}, nil
}

// mountQuery scans the mount table for the first entry satisfying match.
func (s *linuxSource) mountQuery(match func(mountEntry) bool) (mountEntry, error) {
	data, err := os.ReadFile(s.procMounts)
	if err != nil {
		return mountEntry{}, fmt.Errorf("reading %s: %w", s.procMounts, err)
	}

	for _, entry := range parseMountTable(string(data)) {
		if match(entry) {
			return entry, nil
		}
	}
	return mountEntry{}, fmt.Errorf("no matching entry in %s", s.procMounts)
}
