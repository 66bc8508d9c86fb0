package growth

import (
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/mossworks/sprout/pkg/errors"
)

// Default configuration values. These are the single source of truth
// for CLI, API, and config-file defaults.
const (
	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultDepth is the default recursion depth.
	DefaultDepth = 2

	// DefaultChildren is the default branching factor per level.
	DefaultChildren = 3

	// DefaultChildScale is the default uniform scale applied to each
	// child copy.
	DefaultChildScale = float32(0.5)

	// DefaultMaxTriangles caps the total number of generated triangles.
	// Growth is exponential in depth and branching factor, so an
	// unbounded run can exhaust memory on an innocent-looking config.
	DefaultMaxTriangles = 1_000_000
)

// Config holds every growth parameter. The zero value is not usable
// directly; call ValidateAndSetDefaults first.
type Config struct {
	// Seed initializes the random source. The same seed over the same
	// base mesh yields bit-identical output.
	Seed uint64 `toml:"seed"`

	// Depth is the number of recursion levels. Depth 0 generates no
	// triangles at all: the output is the base mesh unchanged. Because
	// 0 is meaningful, an unset depth only defaults to DefaultDepth
	// when it was not set via WithDepth, a config file, or a preset.
	Depth int `toml:"depth"`

	// Children is the branching factor: growths attached per level.
	Children int `toml:"children"`

	// ChildScale is the uniform scale factor applied to each child
	// copy, typically < 1 so growths shrink with depth.
	ChildScale float32 `toml:"child_scale"`

	// Strategy selects uniform or area-weighted triangle sampling.
	Strategy Strategy `toml:"strategy"`

	// MaxTriangles aborts generation with ErrCodeBudgetExceeded once
	// the generated triangle count passes this ceiling. Zero means
	// DefaultMaxTriangles; negative disables the ceiling entirely.
	MaxTriangles int `toml:"max_triangles"`

	// seedSet distinguishes an explicit seed 0 from an unset seed.
	seedSet bool

	// depthSet distinguishes an explicit depth 0 (passthrough) from an
	// unset depth.
	depthSet bool
}

// WithSeed returns a copy of c with the seed explicitly set. An
// explicit seed is never replaced by the default, even when it is 0.
func (c Config) WithSeed(seed uint64) Config {
	c.Seed = seed
	c.seedSet = true
	return c
}

// WithDepth returns a copy of c with the depth explicitly set. An
// explicit depth is never replaced by the default, even when it is 0.
func (c Config) WithDepth(depth int) Config {
	c.Depth = depth
	c.depthSet = true
	return c
}

// ValidateAndSetDefaults checks the configuration for invalid values
// and fills in defaults for unset fields.
func (c *Config) ValidateAndSetDefaults() error {
	if c.Depth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "depth must be >= 0, got %d", c.Depth)
	}
	if c.Children < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "children must be >= 0, got %d", c.Children)
	}
	if c.ChildScale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "child scale must be >= 0, got %g", c.ChildScale)
	}
	if c.Seed == 0 && !c.seedSet {
		c.Seed = DefaultSeed
	}
	if c.Depth == 0 && !c.depthSet {
		c.Depth = DefaultDepth
	}
	if c.Children == 0 {
		c.Children = DefaultChildren
	}
	if c.ChildScale == 0 {
		c.ChildScale = DefaultChildScale
	}
	if c.MaxTriangles == 0 {
		c.MaxTriangles = DefaultMaxTriangles
	}
	return nil
}

// EstimateTriangles returns the total triangle count a full expansion
// would generate for a base mesh of baseCount triangles:
//
//	baseCount × Σ_{i=1}^{depth} children^i
//
// The result saturates at maxInt to stay meaningful for absurd
// configurations.
func (c Config) EstimateTriangles(baseCount int) int {
	const maxInt = int(^uint(0) >> 1)
	total := 0
	perLevel := 1
	for i := 0; i < c.Depth; i++ {
		if perLevel > maxInt/max(c.Children, 1) {
			return maxInt
		}
		perLevel *= c.Children
		if baseCount != 0 && perLevel > maxInt/baseCount {
			return maxInt
		}
		add := perLevel * baseCount
		if total > maxInt-add {
			return maxInt
		}
		total += add
	}
	return total
}

// LoadFile decodes a growth configuration from a TOML file:
//
//	seed = 7
//	depth = 3
//	children = 3
//	child_scale = 0.45
//	strategy = "area"
//	max_triangles = 500000
//
// Unset fields keep their defaults. A seed present in the file is
// treated as explicit, even when it is 0.
func LoadFile(path string) (Config, error) {
	var c Config
	meta, err := toml.DecodeFile(path, &c)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
	}
	for _, key := range meta.Keys() {
		switch key.String() {
		case "seed":
			c.seedSet = true
		case "depth":
			c.depthSet = true
		}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidFormat,
			"%s: unknown key %q", path, undecoded[0].String())
	}
	return c, nil
}

// Presets collapse the historically observed program variants into
// named configurations. They are plain Configs, not separate code
// paths.
var presets = map[string]Config{
	// passthrough re-serializes the base mesh without adding growths.
	// Normals still get recomputed on write.
	"passthrough": {Depth: 0},

	// thicket is the dense recursive default: area-weighted, three
	// levels of three children each.
	"thicket": {Depth: 3, Children: 3, Strategy: StrategyArea},

	// meadow scatters one flat layer of thirty uniform growths.
	"meadow": {Depth: 1, Children: 30, Strategy: StrategyUniform},

	// bramble trades depth for breadth: two levels of five children.
	"bramble": {Depth: 2, Children: 5, Strategy: StrategyArea},
}

// Preset returns the named preset configuration, failing with
// ErrCodeInvalidPreset for unknown names.
func Preset(name string) (Config, error) {
	c, ok := presets[name]
	if !ok {
		return Config{}, errors.New(errors.ErrCodeInvalidPreset,
			"unknown preset %q (valid: %v)", name, PresetNames())
	}
	// Every preset names its depth deliberately; passthrough's depth 0
	// must survive validation.
	return c.WithDepth(c.Depth), nil
}

// PresetNames returns the sorted names of all presets.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
