package main

import (
	"github.com/fringelab/chambolle/internal/dataset"
	"github.com/fringelab/chambolle/internal/fringe"
	"github.com/spf13/cobra"
)

func (a *app) newGenerateCommand() *cobra.Command {
	var (
		root         string
		start, count int
		size         int
		noise        float64
		seed         uint64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write synthetic interferograms and their fringe references",
		Long: `Generate writes Training/Interferogram/N.bmp and Training/Fringes/N.bmp
for N in [start, start+count). Objects are linear (1%), spherical (4%) or
random polynomial (95%) phase maps on a Gaussian-weighted background.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, g := &a.cfg.Dataset, &a.cfg.Generator
			err := a.override(cmd, map[string]func(){
				"root":  func() { d.Root = root },
				"start": func() { d.Start = start },
				"count": func() { d.Count = count },
				"size":  func() { g.Size = size },
				"noise": func() { g.Noise = noise },
				"seed":  func() { g.Seed = seed },
			})
			if err != nil {
				return err
			}

			gen, err := fringe.New(a.cfg.GeneratorOptions())
			if err != nil {
				return err
			}
			a.logger.Info("generating", "root", d.Root, "start", d.Start, "count", d.Count, "size", g.Size, "seed", g.Seed)
			return dataset.Generate(cmd.Context(), d.Root, gen, d.Start, d.Count, func(n int, s fringe.Sample) {
				a.logger.Debug("sample", "file", dataset.Filename(n), "kind", s.Kind)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&root, "root", ".", "dataset root")
	flags.IntVar(&start, "start", 0, "first image number")
	flags.IntVarP(&count, "count", "n", 1, "number of images")
	flags.IntVar(&size, "size", fringe.DefaultOptions().Size, "image side in pixels")
	flags.Float64Var(&noise, "noise", 0, "standard deviation of additive Gaussian noise")
	flags.Uint64Var(&seed, "seed", fringe.DefaultOptions().Seed, "random seed")
	return cmd
}
