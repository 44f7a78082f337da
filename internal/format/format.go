// Package format renders the status line from a token template. Tokens
// take the form {domain.field}, with an optional alternate expansion after
// "?" used when the field is absent: {mem.percent?no mem}. Alternates may
// nest further tokens. Absence means the field still carries its zero
// value, which is how failed acquisition is represented.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opd-ai/go-sysline/internal/stats"
)

// Options controls value rendering.
type Options struct {
	// BytePrefix is the binary unit byte fields render in: KiB, MiB,
	// GiB or TiB.
	BytePrefix string

	// Rounding digits per field class.
	UsageRound   int
	TempRound    int
	PercentRound int
	BytesRound   int

	// Color styles each substituted value with a per-domain color.
	Color bool
}

// DefaultOptions mirror the original tool's defaults.
func DefaultOptions() Options {
	return Options{
		BytePrefix:   "MiB",
		UsageRound:   2,
		TempRound:    1,
		PercentRound: 2,
		BytesRound:   0,
	}
}

var bytePrefixes = map[string]float64{
	"KiB": 1 << 10,
	"MiB": 1 << 20,
	"GiB": 1 << 30,
	"TiB": 1 << 40,
}

var domainStyles = map[string]lipgloss.Style{
	"cpu":  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	"mem":  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	"swap": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	"disk": lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
}

// Builder expands templates against one populated System.
type Builder struct {
	sys  *stats.System
	opts Options
}

// New returns a Builder over sys. The caller is responsible for having run
// the getters it cares about; the builder only reads record fields.
func New(sys *stats.System, opts Options) *Builder {
	if _, ok := bytePrefixes[opts.BytePrefix]; !ok {
		opts.BytePrefix = "MiB"
	}
	return &Builder{sys: sys, opts: opts}
}

// Build expands every token in tmpl. Unknown tokens expand to their
// alternate, or to nothing.
func (b *Builder) Build(tmpl string) string {
	var out strings.Builder

	for i := 0; i < len(tmpl); {
		if tmpl[i] != '{' {
			out.WriteByte(tmpl[i])
			i++
			continue
		}

		end := matchBrace(tmpl, i)
		if end < 0 {
			// Unbalanced brace: emit literally.
			out.WriteString(tmpl[i:])
			break
		}

		out.WriteString(b.expand(tmpl[i+1 : end]))
		i = end + 1
	}

	return out.String()
}

// matchBrace returns the index of the brace closing the one at open, or -1.
func matchBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// expand resolves one token body ("domain.field" or "domain.field?alt").
func (b *Builder) expand(body string) string {
	ref, alt, hasAlt := splitToken(body)

	domain, field, ok := strings.Cut(strings.TrimSpace(ref), ".")
	if !ok {
		return ""
	}
	domain = strings.TrimSpace(domain)
	field = strings.TrimSpace(field)

	value, present := b.resolve(domain, field)
	if !present {
		if hasAlt {
			return b.Build(alt)
		}
		return ""
	}

	if b.opts.Color {
		if style, ok := domainStyles[domain]; ok {
			return style.Render(value)
		}
	}
	return value
}

// splitToken splits a token body at the first top-level '?'.
func splitToken(body string) (ref, alt string, hasAlt bool) {
	depth := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '{':
			depth++
		case '}':
			depth--
		case '?':
			if depth == 0 {
				return body[:i], body[i+1:], true
			}
		}
	}
	return body, "", false
}

// resolve returns the rendered field value and whether it is present (a
// zero value counts as absent).
func (b *Builder) resolve(domain, field string) (string, bool) {
	switch domain {
	case "cpu":
		return b.resolveCPU(field)
	case "mem":
		return b.resolveBytes(field, b.sys.Mem.Used, b.sys.Mem.Total, b.sys.Mem.Percent)
	case "swap":
		return b.resolveBytes(field, b.sys.Swap.Used, b.sys.Swap.Total, b.sys.Swap.Percent)
	case "disk":
		return b.resolveDisk(field)
	}
	return "", false
}

func (b *Builder) resolveCPU(field string) (string, bool) {
	cpu := b.sys.CPU

	switch field {
	case "cores":
		return strconv.Itoa(cpu.Cores), cpu.Cores != 0
	case "cpu", "model":
		return cpu.Model, cpu.Model != ""
	case "load":
		if cpu.Load == ([3]float64{}) {
			return "", false
		}
		return fmt.Sprintf("%.2f %.2f %.2f", cpu.Load[0], cpu.Load[1], cpu.Load[2]), true
	case "usage":
		return round(cpu.Usage, b.opts.UsageRound), cpu.Usage != 0
	case "fan":
		return strconv.Itoa(cpu.FanRPM), cpu.FanRPM != 0
	case "temp":
		return round(cpu.TempC, b.opts.TempRound), cpu.TempC != 0
	case "uptime":
		return uptimeString(cpu.UptimeSec), cpu.UptimeSec != 0
	}
	return "", false
}

func (b *Builder) resolveBytes(field string, used, total uint64, percent float64) (string, bool) {
	switch field {
	case "used":
		return b.bytes(used), used != 0
	case "total":
		return b.bytes(total), total != 0
	case "percent":
		return round(percent, b.opts.PercentRound), percent != 0
	}
	return "", false
}

func (b *Builder) resolveDisk(field string) (string, bool) {
	disk := b.sys.Disk

	switch field {
	case "dev":
		return disk.Dev, disk.Dev != ""
	case "name", "label":
		return disk.Label, disk.Label != ""
	case "mount":
		return disk.Mount, disk.Mount != ""
	case "part":
		return disk.PartType, disk.PartType != ""
	case "used", "total", "percent":
		return b.resolveBytes(field, disk.Used, disk.Total, disk.Percent)
	}
	return "", false
}

// bytes renders a byte count in the configured binary prefix.
func (b *Builder) bytes(v uint64) string {
	scale := bytePrefixes[b.opts.BytePrefix]
	return round(float64(v)/scale, b.opts.BytesRound) + " " + b.opts.BytePrefix
}

// round formats v with n fractional digits, trimming a trailing ".0" run
// only when n is 0.
func round(v float64, n int) string {
	if n < 0 {
		n = 0
	}
	return strconv.FormatFloat(v, 'f', n, 64)
}

// uptimeString renders seconds as "NdNhNm", skipping leading zero units.
func uptimeString(secs int64) string {
	days := secs / 86400
	hours := (secs % 86400) / 3600
	mins := (secs % 3600) / 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	parts = append(parts, fmt.Sprintf("%dm", mins))

	return strings.Join(parts, " ")
}
