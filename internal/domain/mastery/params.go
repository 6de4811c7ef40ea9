package mastery

import "errors"

// Default thresholds for the mastery heuristic. A word is considered
// mastered once its usage count exceeds MasteredThreshold; counts of
// DevelopingThreshold and above are developing; everything below is
// emerging.
const (
	DefaultMasteredThreshold   = 15
	DefaultDevelopingThreshold = 5
	DefaultTargetCount         = 16
	DefaultDevelopingDayFactor = 2.0
	DefaultEmergingDayFactor   = 3.0
)

// Validation errors for Params.
var (
	ErrInvalidThresholds = errors.New(
		"developing threshold must be positive and below the mastered threshold",
	)
	ErrInvalidTargetCount = errors.New("target count must exceed the mastered threshold")
	ErrInvalidDayFactor   = errors.New("day factors must be positive")
)

// Params configures the forecast heuristic. The projected mastery date for a
// word with count c is today plus ceil((TargetCount−c) × factor) days, where
// the factor depends on the word's current level.
type Params struct {
	MasteredThreshold   int
	DevelopingThreshold int
	TargetCount         int
	DevelopingDayFactor float64
	EmergingDayFactor   float64
}

// DefaultParams returns the standard heuristic parameters. These reproduce
// the classification the rest of the product depends on and should not be
// changed for existing deployments.
func DefaultParams() *Params {
	return &Params{
		MasteredThreshold:   DefaultMasteredThreshold,
		DevelopingThreshold: DefaultDevelopingThreshold,
		TargetCount:         DefaultTargetCount,
		DevelopingDayFactor: DefaultDevelopingDayFactor,
		EmergingDayFactor:   DefaultEmergingDayFactor,
	}
}

// Validate checks that the parameters describe a usable heuristic.
func (p *Params) Validate() error {
	if p.DevelopingThreshold <= 0 || p.DevelopingThreshold > p.MasteredThreshold {
		return ErrInvalidThresholds
	}
	if p.TargetCount <= p.MasteredThreshold {
		return ErrInvalidTargetCount
	}
	if p.DevelopingDayFactor <= 0 || p.EmergingDayFactor <= 0 {
		return ErrInvalidDayFactor
	}
	return nil
}
