package stats

// GetSwapUsed resolves used swap in bytes.
func (s *System) GetSwapUsed() bool {
	used, err := s.src.SwapUsed()
	if err != nil {
		s.Swap.Used = 0
		return s.fail("swap.used", err)
	}

	s.Swap.Used = used
	return true
}

// GetSwapTotal resolves total swap in bytes.
func (s *System) GetSwapTotal() bool {
	total, err := s.src.SwapTotal()
	if err != nil {
		s.Swap.Total = 0
		return s.fail("swap.total", err)
	}

	s.Swap.Total = total
	return true
}

// GetSwapPercent derives the used percentage with the same lazy
// prerequisite handling as GetMemPercent. A machine with no swap
// configured fails here and keeps Percent at zero.
func (s *System) GetSwapPercent() bool {
	if s.Swap.Used == 0 {
		s.GetSwapUsed()
		if s.Swap.Used == 0 {
			return false
		}
	}

	if s.Swap.Total == 0 {
		s.GetSwapTotal()
		if s.Swap.Total == 0 {
			return false
		}
	}

	s.Swap.Percent = Percent(s.Swap.Used, s.Swap.Total)
	return true
}
