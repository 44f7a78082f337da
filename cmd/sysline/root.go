package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/opd-ai/go-sysline/internal/config"
	"github.com/opd-ai/go-sysline/internal/format"
	"github.com/opd-ai/go-sysline/internal/probe"
	"github.com/opd-ai/go-sysline/internal/profiling"
	"github.com/opd-ai/go-sysline/internal/stats"
)

// domainOrder fixes the dump ordering so output is stable across runs.
var domainOrder = []string{"cpu", "mem", "swap", "disk"}

type options struct {
	configPath string
	formatStr  string
	mount      string
	all        bool
	color      bool
	portable   bool
	verbose    bool
	cpuProfile string
	memProfile string
}

func run() int {
	opts := &options{}

	cmd := &cobra.Command{
		Use:       "sysline [domain ...]",
		Short:     "Print a one-shot system status line",
		Long:      "sysline probes CPU, memory, swap and disk telemetry once and prints\neither a formatted status line or a plain per-field dump of the named\ndomains.",
		Version:   Version,
		ValidArgs: domainOrder,
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, args, opts)
		},
		SilenceUsage: true,
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "config file path (default ~/.config/sysline/sysline.yaml)")
	flags.StringVarP(&opts.formatStr, "format", "f", "", "token template, e.g. \"cpu {cpu.usage?0}%\"")
	flags.StringVarP(&opts.mount, "mount", "m", "", "mount point for the disk domain")
	flags.BoolVarP(&opts.all, "all", "a", false, "dump every domain")
	flags.BoolVar(&opts.color, "color", false, "colorize values per domain")
	flags.BoolVar(&opts.portable, "portable", false, "use the portable gopsutil probe instead of the native one")
	flags.BoolVar(&opts.verbose, "verbose", false, "log unavailable metrics to stderr")
	flags.StringVar(&opts.cpuProfile, "cpuprofile", "", "write a CPU profile to this file")
	flags.StringVar(&opts.memProfile, "memprofile", "", "write a heap profile to this file")

	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func runStatus(cmd *cobra.Command, args []string, opts *options) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	config.LoadEnvFile()
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	prof := &profiling.Session{CPUPath: opts.cpuProfile, MemPath: opts.memProfile}
	if prof.Enabled() {
		if err := prof.Start(); err != nil {
			return err
		}
		defer func() {
			if err := prof.Stop(); err != nil {
				log.Warn("profiling", "err", err)
			}
		}()
	}

	if cmd.Flags().Changed("format") {
		cfg.Format = opts.formatStr
	}
	if cmd.Flags().Changed("mount") {
		cfg.Mount = opts.mount
	}
	if cmd.Flags().Changed("color") {
		cfg.Color = opts.color
	}

	var src probe.MetricSource
	if opts.portable {
		src = probe.NewFallbackSource()
	} else {
		src = probe.NewSource()
	}
	log.Debug("probing", "source", src.Name(), "mount", cfg.Mount)

	sys := stats.NewSystem(src, cfg.Mount, log)

	domains := args
	if opts.all {
		domains = domainOrder
	}

	emit(cmd.OutOrStdout(), sys, cfg, domains, cmd.Flags().Changed("format"))
	return nil
}

// emit writes the selected domains either as a rendered token template or,
// when no template was explicitly given, as plain dump lines. With no
// domains selected the template renders over all of them.
func emit(w io.Writer, sys *stats.System, cfg *config.Config, domains []string, formatSet bool) {
	if len(domains) > 0 && !formatSet {
		dump(w, sys, domains)
		return
	}

	if len(domains) == 0 {
		domains = domainOrder
	}
	collect(sys, domains)
	fmt.Fprintln(w, format.New(sys, renderOptions(cfg)).Build(cfg.Format))
}

func renderOptions(cfg *config.Config) format.Options {
	opts := format.DefaultOptions()
	if cfg.BytePrefix != "" {
		opts.BytePrefix = cfg.BytePrefix
	}
	opts.UsageRound = cfg.UsageRound
	opts.TempRound = cfg.TempRound
	opts.PercentRound = cfg.PercentRound
	opts.BytesRound = cfg.BytesRound
	opts.Color = cfg.Color
	return opts
}

// collect runs every getter for the named domains. Failures zero the
// target field and are already logged by the façade.
func collect(sys *stats.System, domains []string) {
	for _, d := range domains {
		switch d {
		case "cpu":
			sys.GetCores()
			sys.GetCPU()
			sys.GetLoad()
			sys.GetCPUUsage()
			sys.GetFan()
			sys.GetTemp()
			sys.GetUptime()
		case "mem":
			sys.GetMemUsed()
			sys.GetMemTotal()
			sys.GetMemPercent()
		case "swap":
			sys.GetSwapUsed()
			sys.GetSwapTotal()
			sys.GetSwapPercent()
		case "disk":
			sys.GetDiskDev()
			sys.GetDiskName()
			sys.GetDiskMount()
			sys.GetDiskPart()
			sys.GetDiskUsed()
			sys.GetDiskTotal()
			sys.GetDiskPercent()
		}
	}
}

// dump prints one "domain.field: value" line per field of each named
// domain, in a fixed order.
func dump(w io.Writer, sys *stats.System, domains []string) {
	seen := make(map[string]bool)
	for _, d := range domains {
		if seen[d] {
			continue
		}
		seen[d] = true

		collect(sys, []string{d})
		switch d {
		case "cpu":
			fmt.Fprintf(w, "cpu.cores: %d\n", sys.CPU.Cores)
			fmt.Fprintf(w, "cpu.model: %s\n", sys.CPU.Model)
			fmt.Fprintf(w, "cpu.load: %.2f %.2f %.2f\n", sys.CPU.Load[0], sys.CPU.Load[1], sys.CPU.Load[2])
			fmt.Fprintf(w, "cpu.usage: %.2f\n", sys.CPU.Usage)
			fmt.Fprintf(w, "cpu.fan: %d\n", sys.CPU.FanRPM)
			fmt.Fprintf(w, "cpu.temp: %.1f\n", sys.CPU.TempC)
			fmt.Fprintf(w, "cpu.uptime: %d\n", sys.CPU.UptimeSec)
		case "mem":
			fmt.Fprintf(w, "mem.used: %d\n", sys.Mem.Used)
			fmt.Fprintf(w, "mem.total: %d\n", sys.Mem.Total)
			fmt.Fprintf(w, "mem.percent: %.2f\n", sys.Mem.Percent)
		case "swap":
			fmt.Fprintf(w, "swap.used: %d\n", sys.Swap.Used)
			fmt.Fprintf(w, "swap.total: %d\n", sys.Swap.Total)
			fmt.Fprintf(w, "swap.percent: %.2f\n", sys.Swap.Percent)
		case "disk":
			fmt.Fprintf(w, "disk.dev: %s\n", sys.Disk.Dev)
			fmt.Fprintf(w, "disk.name: %s\n", sys.Disk.Label)
			fmt.Fprintf(w, "disk.mount: %s\n", sys.Disk.Mount)
			fmt.Fprintf(w, "disk.part: %s\n", sys.Disk.PartType)
			fmt.Fprintf(w, "disk.used: %d\n", sys.Disk.Used)
			fmt.Fprintf(w, "disk.total: %d\n", sys.Disk.Total)
			fmt.Fprintf(w, "disk.percent: %.2f\n", sys.Disk.Percent)
		}
	}
}
