package stats

import (
	"fmt"

	"github.com/opd-ai/go-sysline/internal/textutil"
)

const (
	freqAnnotationPattern = `@ ([0-9]+\.)?[0-9]+GHz`
	marketingPattern      = `CPU|Core\(TM\)|\((R|TM)\)`
)

// GetCores resolves the logical core count.
func (s *System) GetCores() bool {
	cores, err := s.src.Cores()
	if err != nil {
		s.CPU.Cores = 0
		return s.fail("cpu.cores", err)
	}

	s.CPU.Cores = cores
	return true
}

// GetCPU resolves and normalizes the CPU model string. Vendor marketing
// tokens are stripped, the frequency annotation is rewritten (or appended
// when the raw string carries none) to "(<cores>) @ <speed>GHz", and
// whitespace is collapsed. With no resolvable speed the string ends in a
// bare "@".
func (s *System) GetCPU() bool {
	model, speed, err := s.src.CPUModel()
	if err != nil {
		s.CPU.Model = ""
		return s.fail("cpu.model", err)
	}

	model = textutil.ReplaceAll(marketingPattern, "", model)

	if speed > 0 {
		repl := fmt.Sprintf("(%d) @ %.1fGHz", s.CPU.Cores, speed)
		model = replaceOrAppend(freqAnnotationPattern, repl, model)
	} else {
		repl := fmt.Sprintf("(%d) @", s.CPU.Cores)
		model = replaceOrAppend("@", repl, model)
	}

	s.CPU.Model = textutil.Trim(model)
	return true
}

// GetLoad resolves the 1/5/15 minute load averages.
func (s *System) GetLoad() bool {
	load, err := s.src.LoadAvg()
	if err != nil {
		s.CPU.Load = [3]float64{}
		return s.fail("cpu.load", err)
	}

	s.CPU.Load = load
	return true
}

// GetCPUUsage resolves aggregate CPU utilization as the sum of per-process
// percentages divided by the core count. The core count is resolved first
// when still zero; an unresolvable count fails the call outright since the
// division would be undefined. The summed-percentages approach is an
// approximation and can exceed 100 under some process states.
func (s *System) GetCPUUsage() bool {
	if s.CPU.Cores == 0 {
		s.GetCores()
	}
	if s.CPU.Cores == 0 {
		s.CPU.Usage = 0
		return s.fail("cpu.usage", fmt.Errorf("core count unresolved"))
	}

	sum, err := s.src.ProcessCPUSum()
	if err != nil {
		s.CPU.Usage = 0
		return s.fail("cpu.usage", err)
	}

	s.CPU.Usage = sum / float64(s.CPU.Cores)
	return true
}

// GetFan resolves the fan speed in RPM. Machines without a fan sensor fail
// here and report zero.
func (s *System) GetFan() bool {
	rpm, err := s.src.FanRPM()
	if err != nil {
		s.CPU.FanRPM = 0
		return s.fail("cpu.fan", err)
	}

	s.CPU.FanRPM = rpm
	return true
}

// GetTemp resolves the CPU temperature in Celsius.
func (s *System) GetTemp() bool {
	temp, err := s.src.Temperature()
	if err != nil {
		s.CPU.TempC = 0
		return s.fail("cpu.temp", err)
	}

	s.CPU.TempC = temp
	return true
}

// GetUptime resolves seconds since boot.
func (s *System) GetUptime() bool {
	up, err := s.src.UptimeSec()
	if err != nil {
		s.CPU.UptimeSec = 0
		return s.fail("cpu.uptime", err)
	}

	s.CPU.UptimeSec = up
	return true
}

// replaceOrAppend rewrites the first pattern match with repl, or appends
// repl when the pattern does not occur in text. Raw model strings do not
// reliably carry a frequency annotation to rewrite.
func replaceOrAppend(pattern, repl, text string) string {
	if next := textutil.ReplaceFirst(pattern, repl, text); next != text {
		return next
	}
	return text + " " + repl
}
