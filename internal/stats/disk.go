package stats

// GetDiskDev maps the target mount point to its block device.
func (s *System) GetDiskDev() bool {
	dev, err := s.src.DiskDevice(s.mount)
	if err != nil {
		s.Disk.Dev = ""
		return s.fail("disk.dev", err)
	}

	s.Disk.Dev = dev
	return true
}

// GetDiskName resolves the partition label. The device resolves first when
// still unknown; an unresolvable device fails the call.
func (s *System) GetDiskName() bool {
	if !s.requireDev() {
		s.Disk.Label = ""
		return false
	}

	label, err := s.src.DiskLabel(s.Disk.Dev)
	if err != nil {
		s.Disk.Label = ""
		return s.fail("disk.name", err)
	}

	s.Disk.Label = label
	return true
}

// GetDiskMount resolves the mount point the device is mounted on.
func (s *System) GetDiskMount() bool {
	if !s.requireDev() {
		s.Disk.Mount = ""
		return false
	}

	mount, err := s.src.DiskMount(s.Disk.Dev)
	if err != nil {
		s.Disk.Mount = ""
		return s.fail("disk.mount", err)
	}

	s.Disk.Mount = mount
	return true
}

// GetDiskPart resolves the filesystem type of the mounted partition.
func (s *System) GetDiskPart() bool {
	if !s.requireDev() {
		s.Disk.PartType = ""
		return false
	}

	part, err := s.src.DiskPartType(s.Disk.Dev)
	if err != nil {
		s.Disk.PartType = ""
		return s.fail("disk.part", err)
	}

	s.Disk.PartType = part
	return true
}

// GetDiskUsed resolves used bytes on the target filesystem. The statfs
// snapshot is cached on the record so GetDiskTotal reuses it.
func (s *System) GetDiskUsed() bool {
	if !s.requireFS() {
		s.Disk.Used = 0
		return false
	}

	s.Disk.Used = s.Disk.fs.Used
	return true
}

// GetDiskTotal resolves total bytes on the target filesystem.
func (s *System) GetDiskTotal() bool {
	if !s.requireFS() {
		s.Disk.Total = 0
		return false
	}

	s.Disk.Total = s.Disk.fs.Total
	return true
}

// GetDiskPercent derives the used percentage with the same lazy
// prerequisite handling as the other percent getters.
func (s *System) GetDiskPercent() bool {
	if s.Disk.Used == 0 {
		s.GetDiskUsed()
		if s.Disk.Used == 0 {
			return false
		}
	}

	if s.Disk.Total == 0 {
		s.GetDiskTotal()
		if s.Disk.Total == 0 {
			return false
		}
	}

	s.Disk.Percent = Percent(s.Disk.Used, s.Disk.Total)
	return true
}

// requireDev makes sure the device field is resolved, triggering
// acquisition when it is still empty.
func (s *System) requireDev() bool {
	if s.Disk.Dev != "" {
		return true
	}
	return s.GetDiskDev()
}

// requireFS populates the cached filesystem snapshot. The device must
// resolve first; disk statistics for an unknown device are meaningless and
// no statfs call is attempted.
func (s *System) requireFS() bool {
	if s.Disk.fs != nil {
		return true
	}
	if !s.requireDev() {
		return false
	}

	fs, err := s.src.FSStats(s.mount)
	if err != nil {
		return s.fail("disk.fs", err)
	}

	s.Disk.fs = fs
	return true
}
