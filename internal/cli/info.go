package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// infoCommand creates the info command, which prints mesh statistics.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [input.stl]",
		Short: "Print triangle count, bounds, and surface area of an STL mesh",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := readInput(args)
			if err != nil {
				return err
			}

			lo, hi := m.Bounds()
			fmt.Fprintln(os.Stdout, StyleTitle.Render("Mesh"))
			fmt.Fprintf(os.Stdout, "  triangles:    %s\n", StyleNumber.Render(fmt.Sprint(len(m))))
			fmt.Fprintf(os.Stdout, "  surface area: %s\n", StyleNumber.Render(fmt.Sprintf("%.4f", m.SurfaceArea())))
			fmt.Fprintf(os.Stdout, "  bounds min:   %s\n", StyleValue.Render(fmt.Sprintf("(%g, %g, %g)", lo.X, lo.Y, lo.Z)))
			fmt.Fprintf(os.Stdout, "  bounds max:   %s\n", StyleValue.Render(fmt.Sprintf("(%g, %g, %g)", hi.X, hi.Y, hi.Z)))
			return nil
		},
	}
}
