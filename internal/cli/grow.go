package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mossworks/sprout/pkg/growth"
	"github.com/mossworks/sprout/pkg/mesh"
	"github.com/mossworks/sprout/pkg/pipeline"
	"github.com/mossworks/sprout/pkg/stl"
)

// growOpts holds the command-line flags for the grow command.
type growOpts struct {
	seed         uint64  // random seed
	depth        int     // recursion depth
	children     int     // branching factor per level
	scale        float64 // child scale factor
	strategy     string  // "area" or "uniform"
	maxTriangles int     // generated triangle ceiling
	preset       string  // named preset configuration
	configFile   string  // TOML config file
	output       string  // output file path (stdout if empty)
	refresh      bool    // bypass cache on read
	noCache      bool    // disable caching entirely
}

// growConfig assembles the effective growth configuration. Precedence,
// lowest to highest: flag defaults, --preset, --config file, flags the
// user actually set.
func (o *growOpts) growConfig(cmd *cobra.Command) (growth.Config, error) {
	strategy, err := growth.ParseStrategy(o.strategy)
	if err != nil {
		return growth.Config{}, err
	}

	// Flag values (defaults included) form the base configuration.
	cfg := growth.Config{
		Children:     o.children,
		ChildScale:   float32(o.scale),
		Strategy:     strategy,
		MaxTriangles: o.maxTriangles,
	}.WithSeed(o.seed).WithDepth(o.depth)

	set := cmd.Flags().Changed
	if o.preset != "" || o.configFile != "" {
		base := growth.Config{}
		if o.preset != "" {
			base, err = growth.Preset(o.preset)
			if err != nil {
				return growth.Config{}, err
			}
		}
		if o.configFile != "" {
			base, err = growth.LoadFile(o.configFile)
			if err != nil {
				return growth.Config{}, err
			}
		}
		// Only flags the user explicitly set override the preset/file.
		if set("seed") {
			base = base.WithSeed(o.seed)
		}
		if set("depth") {
			base = base.WithDepth(o.depth)
		}
		if set("children") {
			base.Children = o.children
		}
		if set("scale") {
			base.ChildScale = float32(o.scale)
		}
		if set("strategy") {
			base.Strategy = strategy
		}
		if set("max-triangles") {
			base.MaxTriangles = o.maxTriangles
		}
		cfg = base
	}
	return cfg, nil
}

// growCommand creates the grow command, the main entry point of the tool.
func (c *CLI) growCommand() *cobra.Command {
	opts := growOpts{
		depth:        growth.DefaultDepth,
		children:     growth.DefaultChildren,
		scale:        float64(growth.DefaultChildScale),
		strategy:     growth.StrategyArea.String(),
		maxTriangles: growth.DefaultMaxTriangles,
	}

	cmd := &cobra.Command{
		Use:   "grow [input.stl]",
		Short: "Grow fractal surface detail on an STL mesh",
		Long: `Grow reads a triangulated mesh, recursively attaches scaled copies of it
to randomly selected triangles, and writes the combined mesh.

The input is read from the given file, or from stdin when the argument is
omitted or "-". Output goes to --output, or stdout.

Examples:
  sprout grow bunny.stl -o hairy_bunny.stl
  sprout grow --preset meadow < cube.stl > lawn.stl
  sprout grow --seed 7 --depth 3 --children 3 --scale 0.4 bunny.stl
  sprout grow --config fern.toml bunny.stl`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGrow(cmd, args, &opts)
		},
	}

	cmd.Flags().Uint64Var(&opts.seed, "seed", growth.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&opts.depth, "depth", growth.DefaultDepth, "recursion depth (0 = passthrough)")
	cmd.Flags().IntVar(&opts.children, "children", growth.DefaultChildren, "growths attached per level")
	cmd.Flags().Float64Var(&opts.scale, "scale", float64(growth.DefaultChildScale), "uniform scale per child copy")
	cmd.Flags().StringVar(&opts.strategy, "strategy", growth.StrategyArea.String(), "triangle sampling strategy (area|uniform)")
	cmd.Flags().IntVar(&opts.maxTriangles, "max-triangles", growth.DefaultMaxTriangles, "generated triangle ceiling (negative = unlimited)")
	cmd.Flags().StringVar(&opts.preset, "preset", "", "named preset configuration (see `sprout presets`)")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "TOML growth configuration file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "regenerate even when the result is cached")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the mesh cache")

	return cmd
}

func (c *CLI) runGrow(cmd *cobra.Command, args []string, opts *growOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := opts.growConfig(cmd)
	if err != nil {
		return err
	}

	base, err := readInput(args)
	if err != nil {
		return err
	}
	logger.Debug("loaded base mesh", "triangles", len(base))

	meshCache := openCache(opts.noCache)
	defer meshCache.Close()

	runner := pipeline.NewRunner(meshCache, nil, logger)
	prog := newProgress(logger)

	spinner := newSpinnerWithContext(ctx, "Growing mesh...")
	spinner.Start()
	result, err := runner.Execute(ctx, base, pipeline.Options{
		Config:  cfg,
		Refresh: opts.refresh,
	})
	if err != nil {
		spinner.StopWithError("Growth failed")
		return err
	}
	spinner.Stop()

	if err := writeOutput(result.Mesh, opts.output); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Wrote %d triangles", len(result.Mesh)))

	printSuccess("Grew %s triangles onto %s base triangles",
		StyleNumber.Render(fmt.Sprint(result.Stats.GrownTriangles)),
		StyleNumber.Render(fmt.Sprint(result.Stats.BaseTriangles)))
	if result.CacheHit {
		printDetail("served from cache (run %s)", result.RunID)
	} else {
		printDetail("generated in %s (run %s)", result.Stats.GrowTime.Round(time.Millisecond), result.RunID)
	}
	return nil
}

// readInput loads the base mesh from the argument path, or stdin when
// the argument is missing or "-".
func readInput(args []string) (mesh.Mesh, error) {
	if len(args) == 0 || args[0] == "-" {
		return stl.Read(os.Stdin)
	}
	return stl.Import(args[0])
}

// writeOutput writes the mesh to path, or stdout when path is empty.
func writeOutput(m mesh.Mesh, path string) error {
	if path == "" {
		return stl.Write(os.Stdout, m)
	}
	return stl.Export(m, path)
}
