package main

import (
	"fmt"
	"log/slog"

	"github.com/fringelab/chambolle/backend/cpu"
	"github.com/fringelab/chambolle/backend/webgpu"
	"github.com/fringelab/chambolle/chambolle"
	"github.com/fringelab/chambolle/internal/config"
	"github.com/spf13/cobra"
)

// app is the state shared by all subcommands.
type app struct {
	configPath string
	verbose    bool
	backend    string
	parallel   bool
	workers    int

	cfg    config.Config
	logger *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "chambolle",
		Short:        "Total variation fringe decomposition",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log every solver step at debug level")
	flags.StringVar(&a.backend, "backend", config.BackendAuto, "compute backend: auto, cpu or webgpu")
	flags.BoolVar(&a.parallel, "parallel", false, "split CPU kernels across goroutines")
	flags.IntVar(&a.workers, "workers", 0, "goroutines per CPU kernel (default GOMAXPROCS)")

	root.AddCommand(
		a.newLabelCommand(),
		a.newDecomposeCommand(),
		a.newGenerateCommand(),
		a.newBackendsCommand(),
		newInspectCommand(),
		newVersionCommand(),
	)
	return root
}

// setup loads the configuration and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	a.cfg = config.Default()
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if cmd.Flags().Changed("backend") {
		a.cfg.Backend.Name = a.backend
	}
	if cmd.Flags().Changed("parallel") {
		a.cfg.Backend.Parallel = a.parallel
	}
	if cmd.Flags().Changed("workers") {
		a.cfg.Backend.Workers = a.workers
	}
	return nil
}

// override copies every flag the user set on cmd into the configuration
// and validates the result.
func (a *app) override(cmd *cobra.Command, apply map[string]func()) error {
	for name, fn := range apply {
		if cmd.Flags().Changed(name) {
			fn()
		}
	}
	return a.cfg.Validate()
}

// openBackend returns the configured backend and a function releasing it.
// Auto falls back to the CPU when no WebGPU adapter is present.
func (a *app) openBackend() (chambolle.Backend, func(), error) {
	name := a.cfg.Backend.Name
	if name == config.BackendWebGPU || name == config.BackendAuto {
		gpu, err := webgpu.New()
		switch {
		case err == nil:
			return gpu, gpu.Release, nil
		case name == config.BackendWebGPU:
			return nil, nil, err
		default:
			a.logger.Debug("webgpu unavailable, using cpu", "err", err)
		}
	}

	var opts []cpu.Option
	if a.cfg.Backend.Parallel {
		p := cpu.DefaultParallel()
		p.Enabled = true
		if a.cfg.Backend.Workers > 0 {
			p.NumWorkers = a.cfg.Backend.Workers
		}
		opts = append(opts, cpu.WithParallel(p))
	}
	return cpu.New(opts...), func() {}, nil
}

// solverConfig returns the solver configuration, logging each step at
// debug level when verbose.
func (a *app) solverConfig(file string) chambolle.Config {
	cfg := a.cfg.SolverConfig()
	if logStep := a.stepLogger(); logStep != nil {
		cfg.OnStep = func(s chambolle.StepInfo) { logStep(file, s) }
	}
	return cfg
}

// stepLogger returns a per-step debug logger, or nil unless verbose.
func (a *app) stepLogger() func(file string, s chambolle.StepInfo) {
	if !a.verbose {
		return nil
	}
	return func(file string, s chambolle.StepInfo) {
		a.logger.Debug("step", "file", file, "step", s.Step, "error", s.Error, "best", s.Best, "residual", s.Residual)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		// Skip configuration loading.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chambolle %s\n", version)
		},
	}
}
