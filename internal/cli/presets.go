package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mossworks/sprout/pkg/growth"
)

// presetsCommand creates the presets command, which lists the built-in
// growth configurations.
func (c *CLI) presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in growth configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(os.Stdout, StyleTitle.Render("Presets"))
			for _, name := range growth.PresetNames() {
				cfg, err := growth.Preset(name)
				if err != nil {
					return err
				}
				if err := cfg.ValidateAndSetDefaults(); err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "  %-12s %s\n",
					StyleHighlight.Render(name),
					StyleDim.Render(describePreset(cfg)))
			}
			return nil
		},
	}
}

func describePreset(cfg growth.Config) string {
	if cfg.Depth == 0 {
		return "no growths, re-serialize the base mesh"
	}
	return fmt.Sprintf("depth %d, %d children per level, scale %g, %s sampling",
		cfg.Depth, cfg.Children, cfg.ChildScale, cfg.Strategy)
}
