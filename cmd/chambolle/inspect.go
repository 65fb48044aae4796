package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fringelab/chambolle/internal/imageio"
	"github.com/fringelab/chambolle/internal/serialization"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
)

func newInspectCommand() *cobra.Command {
	var export string

	cmd := &cobra.Command{
		Use:   "inspect FILE.cgrid",
		Short: "Describe a .cgrid file written by decompose --raw",
		Args:  cobra.ExactArgs(1),
		// Skip configuration loading.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := serialization.ReadFile(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			h := file.Header()
			fmt.Fprintf(w, "created  %s\n", h.CreatedAt.Format(time.RFC3339))
			if s := h.Solve; s != nil {
				fmt.Fprintf(w, "source   %s\n", s.Source)
				fmt.Fprintf(w, "solve    %s on %s: %s after %d steps (best at %d, error %g, %s)\n",
					s.Policy, s.Backend, s.Outcome, s.Steps, s.Iterations, s.Error, time.Duration(s.ElapsedNS))
			}
			for _, name := range file.Names() {
				g, err := file.Grid(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "grid     %-10s %dx%d  min %.6g  max %.6g\n",
					name, g.Rows, g.Cols, floats.Min(g.Data), floats.Max(g.Data))
				if export != "" && name == export {
					stem := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
					if err := imageio.WriteBMP(stem+"."+name+".bmp", g); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&export, "export", "", "write the named grid next to FILE as FILE.NAME.bmp")
	return cmd
}
