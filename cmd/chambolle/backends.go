package main

import (
	"fmt"

	"github.com/fringelab/chambolle/backend/cpu"
	"github.com/fringelab/chambolle/backend/webgpu"
	"github.com/spf13/cobra"
)

func (a *app) newBackendsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List the compute backends available on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "cpu     available  %s\n", cpu.New().Name())

			if gpu, err := webgpu.New(); err != nil {
				fmt.Fprintf(w, "webgpu  missing    %v\n", err)
			} else {
				fmt.Fprintf(w, "webgpu  available  %s\n", gpu.Name())
				gpu.Release()
			}

			backend, release, err := a.openBackend()
			if err != nil {
				return err
			}
			defer release()
			fmt.Fprintf(w, "\nselected (%s): %s\n", a.cfg.Backend.Name, backend.Name())
			return nil
		},
	}
}
