package meridian

import "fmt"

// Build-time and session-level bounds for IVF indexes.
// Lists are fixed when an index is built; probes are a session knob.
const (
	// MinLists is the smallest allowed number of inverted lists.
	MinLists = 1

	// MaxLists is the largest allowed number of inverted lists.
	MaxLists = 32768

	// DefaultLists is the list count used when an index is built without an
	// explicit lists option.
	DefaultLists = 100

	// DefaultProbes is the default fixed probe count.
	DefaultProbes = 1
)

// ProbeCeiling is an optional upper bound on adaptively estimated probes.
// The zero value means unbounded, so a Config literal without a ceiling
// behaves like one built with NoCeiling.
type ProbeCeiling struct {
	limit   int
	bounded bool
}

// CeilingOf returns a ProbeCeiling bounding adaptive probes to at most n.
func CeilingOf(n int) ProbeCeiling {
	return ProbeCeiling{limit: n, bounded: true}
}

// NoCeiling returns the unbounded ProbeCeiling.
func NoCeiling() ProbeCeiling {
	return ProbeCeiling{}
}

// Limit returns the ceiling value and whether a ceiling is set.
func (c ProbeCeiling) Limit() (int, bool) {
	return c.limit, c.bounded
}

// Config is the probe configuration for cost estimation and scanning.
//
// A Config is a plain value: the session layer owns the mutable settings and
// hands an immutable snapshot to each planning call, so concurrent planning
// calls never observe a mid-flight change. Changing the session settings
// between queries simply means passing a different Config next time.
type Config struct {
	// Probes is the fixed probe count when Streaming is false, and the
	// floor for adaptively estimated probes when Streaming is true.
	// Valid range: [1, MaxLists]. An index with fewer lists re-clamps
	// the value to its own list count at decision time.
	Probes int

	// MaxProbes caps adaptively estimated probe counts. It only applies in
	// streaming mode; the zero value leaves adaptive estimates unbounded.
	MaxProbes ProbeCeiling

	// Streaming enables adaptive probe estimation: instead of always probing
	// Probes lists, a limited query probes just enough lists to plausibly
	// produce its LIMIT worth of rows.
	Streaming bool
}

// DefaultConfig returns the configuration used when the session layer has
// not overridden anything: one probe, no ceiling, streaming off.
func DefaultConfig() Config {
	return Config{
		Probes:    DefaultProbes,
		MaxProbes: NoCeiling(),
	}
}

// Validate checks that the configuration is inside its declared ranges.
// The session layer calls this when a setting changes, so estimation code
// can assume a valid snapshot.
func (c Config) Validate() error {
	if c.Probes < MinLists || c.Probes > MaxLists {
		return fmt.Errorf("probes must be in [%d, %d], got %d", MinLists, MaxLists, c.Probes)
	}
	if limit, bounded := c.MaxProbes.Limit(); bounded {
		if limit < MinLists || limit > MaxLists {
			return fmt.Errorf("max probes must be in [%d, %d], got %d", MinLists, MaxLists, limit)
		}
	}
	return nil
}

// ValidateLists checks a build-time lists option against the allowed range.
func ValidateLists(lists int) error {
	if lists < MinLists || lists > MaxLists {
		return fmt.Errorf("lists must be in [%d, %d], got %d", MinLists, MaxLists, lists)
	}
	return nil
}
