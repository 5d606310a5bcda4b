// Package simulation runs Monte Carlo price paths with normally distributed
// daily moves and measures how often, and how quickly, they touch a band
// placed symmetrically around the starting price.
package simulation

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams is wrapped by every parameter validation failure.
var ErrInvalidParams = errors.New("invalid simulation parameters")

// Params is the immutable input of one simulation run.
type Params struct {
	CurrentPrice float64 `json:"current_price" mapstructure:"current_price"` // starting price, path[0]
	ATR          float64 `json:"atr" mapstructure:"atr"`                     // std dev of one daily move
	RangePrice   float64 `json:"range_price" mapstructure:"range_price"`     // half-width of the target band
	Days         int     `json:"days" mapstructure:"days"`                   // horizon in daily steps
	Iterations   int     `json:"iterations" mapstructure:"iterations"`       // number of paths
}

// Bounds of the target band. Constant for a run.
type Bounds struct {
	Upper float64 `json:"upper"`
	Lower float64 `json:"lower"`
}

// Bounds derives the band edges from the starting price.
func (p Params) Bounds() Bounds {
	return Bounds{
		Upper: p.CurrentPrice + p.RangePrice,
		Lower: p.CurrentPrice - p.RangePrice,
	}
}

// Validate rejects parameters that would produce meaningless statistics.
// Zero days or zero iterations are degenerate but allowed.
func (p Params) Validate() error {
	if !finite(p.CurrentPrice) {
		return fmt.Errorf("%w: current_price must be finite, got %v", ErrInvalidParams, p.CurrentPrice)
	}
	if !finite(p.ATR) || p.ATR < 0 {
		return fmt.Errorf("%w: atr must be a finite value >= 0, got %v", ErrInvalidParams, p.ATR)
	}
	if !finite(p.RangePrice) || p.RangePrice < 0 {
		return fmt.Errorf("%w: range_price must be a finite value >= 0, got %v", ErrInvalidParams, p.RangePrice)
	}
	if b := p.Bounds(); !finite(b.Upper) || !finite(b.Lower) {
		return fmt.Errorf("%w: band [%v, %v] overflows", ErrInvalidParams, b.Lower, b.Upper)
	}
	if p.Days < 0 {
		return fmt.Errorf("%w: days must be >= 0, got %d", ErrInvalidParams, p.Days)
	}
	if p.Iterations < 0 {
		return fmt.Errorf("%w: iterations must be >= 0, got %d", ErrInvalidParams, p.Iterations)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
