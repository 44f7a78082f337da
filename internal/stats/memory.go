package stats

// GetMemUsed resolves used physical memory in bytes.
func (s *System) GetMemUsed() bool {
	used, err := s.src.MemUsed()
	if err != nil {
		s.Mem.Used = 0
		return s.fail("mem.used", err)
	}

	s.Mem.Used = used
	return true
}

// GetMemTotal resolves total physical memory in bytes.
func (s *System) GetMemTotal() bool {
	total, err := s.src.MemTotal()
	if err != nil {
		s.Mem.Total = 0
		return s.fail("mem.total", err)
	}

	s.Mem.Total = total
	return true
}

// GetMemPercent derives the used percentage. Prerequisites already resolved
// to nonzero values are not re-acquired; either prerequisite staying zero
// fails the call and leaves Percent untouched.
func (s *System) GetMemPercent() bool {
	if s.Mem.Used == 0 {
		s.GetMemUsed()
		if s.Mem.Used == 0 {
			return false
		}
	}

	if s.Mem.Total == 0 {
		s.GetMemTotal()
		if s.Mem.Total == 0 {
			return false
		}
	}

	s.Mem.Percent = Percent(s.Mem.Used, s.Mem.Total)
	return true
}
