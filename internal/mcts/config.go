package mcts

// Config tunes the search controller. The shape mirrors the teacher's
// mcts.Config/dual.Config pattern: a plain struct, a DefaultConfig
// constructor, and an IsValid predicate, rather than package-level
// vars or functional options.
type Config struct {
	// CPuct is the exploration constant in the PUCT formula.
	CPuct float32

	// InfoIntervalNodes is how many nodes must pass between UCI info
	// lines (subject also to InfoIntervalMillis).
	InfoIntervalNodes int32

	// InfoIntervalMillis is the minimum wall-clock gap between info
	// lines, even if InfoIntervalNodes has elapsed.
	InfoIntervalMillis int64

	// PVLength caps how many moves PrincipalVariation walks.
	PVLength int
}

// DefaultConfig returns the configuration the search core was
// specified against: c_puct = 4.0, 1000-node / 1000ms info cadence,
// an 8-move PV cap.
func DefaultConfig() Config {
	return Config{
		CPuct:              4.0,
		InfoIntervalNodes:  1000,
		InfoIntervalMillis: 1000,
		PVLength:           8,
	}
}

// IsValid reports whether c can drive a search.
func (c Config) IsValid() bool {
	return c.CPuct > 0 && c.InfoIntervalNodes > 0 && c.InfoIntervalMillis > 0 && c.PVLength > 0
}
