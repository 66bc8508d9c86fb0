// Package growth implements the recursive growth engine: it places
// scaled, re-oriented copies of a base mesh onto randomly selected
// triangles of that mesh, recursively, producing the fractal-like
// surface detail the tool is named for.
//
// Generation is strictly sequential and fully deterministic for a
// fixed seed: one PCG stream is threaded through the entire recursive
// call tree, and each recursion frame consumes its sample draw before
// descending. Reordering the draws (e.g. parallelizing children) would
// change the output and is intentionally not offered.
package growth

import "github.com/mossworks/sprout/pkg/errors"

// Strategy selects how the engine picks the parent triangle for each
// child growth.
type Strategy int

const (
	// StrategyArea picks triangles with probability proportional to
	// their surface area, so large faces sprout more growths.
	StrategyArea Strategy = iota

	// StrategyUniform picks each triangle with equal probability,
	// independent of geometry.
	StrategyUniform
)

var strategyNames = map[Strategy]string{
	StrategyArea:    "area",
	StrategyUniform: "uniform",
}

// String returns the canonical name of the strategy.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStrategy converts a strategy name ("area" or "uniform") into a
// Strategy, failing with ErrCodeInvalidStrategy for anything else.
func ParseStrategy(name string) (Strategy, error) {
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidStrategy,
		"unknown sampling strategy %q (valid: area, uniform)", name)
}

// UnmarshalText implements encoding.TextUnmarshaler so strategies can
// be decoded directly from TOML config files.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
