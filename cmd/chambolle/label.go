package main

import (
	"fmt"
	"time"

	"github.com/fringelab/chambolle/internal/dataset"
	"github.com/spf13/cobra"
)

func (a *app) newLabelCommand() *cobra.Command {
	var (
		root, output              string
		ver, start, count, images int
	)

	cmd := &cobra.Command{
		Use:   "label",
		Short: "Label a training set with the iterations each image needs",
		Long: `Label solves Training/Interferogram/N.bmp for N in [start, start+count)
and appends "filename,iterations,error" rows to the output CSV. Rows are
written in image order even when several images are solved concurrently.

Version 1 stops on the RMS error against Training/Fringes/N.bmp,
version 0 stops when successive reconstructions stop changing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := &a.cfg.Dataset
			err := a.override(cmd, map[string]func(){
				"root":    func() { d.Root = root },
				"output":  func() { d.Output = output },
				"version": func() { d.Version = ver },
				"start":   func() { d.Start = start },
				"count":   func() { d.Count = count },
				"jobs":    func() { d.Workers = images },
			})
			if err != nil {
				return err
			}
			return a.label(cmd)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&root, "root", ".", "dataset root containing Training/")
	flags.StringVarP(&output, "output", "o", "labels.csv", "CSV log to append to")
	flags.IntVar(&ver, "version", dataset.VersionReference, "stopping criterion: 1 reference, 0 self")
	flags.IntVar(&start, "start", 0, "first image number")
	flags.IntVarP(&count, "count", "n", 1, "number of images")
	flags.IntVarP(&images, "jobs", "j", 1, "images solved concurrently")
	return cmd
}

func (a *app) label(cmd *cobra.Command) error {
	backend, release, err := a.openBackend()
	if err != nil {
		return err
	}
	defer release()

	d := a.cfg.Dataset
	labeler, err := dataset.NewLabeler(backend, dataset.Options{
		Root:    d.Root,
		Version: d.Version,
		Start:   d.Start,
		Count:   d.Count,
		Workers: d.Workers,
		Solver:  a.cfg.SolverConfig(),
		OnStep:  a.stepLogger(),
	})
	if err != nil {
		return err
	}

	log, err := dataset.OpenLog(d.Output)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer log.Close()

	a.logger.Info("labelling",
		"root", d.Root, "version", d.Version, "start", d.Start, "count", d.Count,
		"backend", backend.Name(), "output", d.Output)

	began := time.Now()
	summary, err := labeler.Run(cmd.Context(), log, func(lb dataset.Label) {
		if lb.Err != nil {
			a.logger.Warn("skipped", "file", lb.Filename, "err", lb.Err)
			return
		}
		a.logger.Info("labelled",
			"file", lb.Filename,
			"backend", backend.Name(),
			"iterations", lb.Iterations,
			"steps", lb.Steps,
			"error", lb.Error,
			"outcome", lb.Outcome,
			"elapsed", lb.Elapsed)
	})
	a.logger.Info("done", "labelled", summary.Labelled, "failed", summary.Failed, "elapsed", time.Since(began))
	return err
}
