package srs

import "time"

// Params defines all configurable parameters for the review scheduler.
type Params struct {
	// MaxMasteryLevel is the ceiling for a card's mastery level.
	MaxMasteryLevel int

	// BaseInterval is the review interval after the first correct recall
	// (mastery level 1).
	BaseInterval time.Duration

	// GrowthFactor multiplies the interval for each additional mastery
	// level. Values below 1 are clamped to 1 so growing confidence can
	// never shorten the interval.
	GrowthFactor float64

	// LapseDecrement is how many mastery levels an incorrect or skipped
	// review costs. A value at or above MaxMasteryLevel resets the card to
	// level 0.
	LapseDecrement int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values keep the defaults.
type ParamsConfig struct {
	MaxMasteryLevel int
	BaseInterval    time.Duration
	GrowthFactor    float64
	LapseDecrement  int
}

// NewDefaultParams creates a new Params instance with default values:
// mastery 0-5, one day after the first correct recall, doubling per level
// (1d, 2d, 4d, 8d, 16d), full reset on a lapse.
func NewDefaultParams() *Params {
	return &Params{
		MaxMasteryLevel: 5,
		BaseInterval:    24 * time.Hour,
		GrowthFactor:    2.0,
		LapseDecrement:  5,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MaxMasteryLevel > 0 {
		params.MaxMasteryLevel = config.MaxMasteryLevel
	}
	if config.BaseInterval > 0 {
		params.BaseInterval = config.BaseInterval
	}
	if config.GrowthFactor > 0 {
		params.GrowthFactor = config.GrowthFactor
	}
	if config.LapseDecrement > 0 {
		params.LapseDecrement = config.LapseDecrement
	}

	// Monotonicity guard: a factor below 1 would shrink intervals as
	// mastery grows.
	if params.GrowthFactor < 1 {
		params.GrowthFactor = 1
	}

	return params
}
