package report

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/contactkeval/range-touch/internal/gaussian"
	"github.com/contactkeval/range-touch/internal/simulation"
)

// Estimate is a hit count with its percentage and confidence interval.
type Estimate struct {
	Paths   int             `json:"paths"`
	Percent decimal.Decimal `json:"percent"`
	Low     decimal.Decimal `json:"ci_low"`
	High    decimal.Decimal `json:"ci_high"`
}

// BoundSummary describes the outcome for one edge of the band.
type BoundSummary struct {
	Price decimal.Decimal `json:"price"`
	Hit   Estimate        `json:"hit"`
	// Continuous-time reflection estimate, in percent, for comparison.
	Reflection   decimal.Decimal        `json:"reflection_estimate"`
	DaysToTarget simulation.TargetStats `json:"days_to_target"`
}

// Summary is the display view of a simulation result. Prices and
// percentages are rounded to cents.
type Summary struct {
	Params     simulation.Params `json:"params"`
	Seed       int64             `json:"seed"`
	TotalPaths int               `json:"total_paths"`
	Confidence decimal.Decimal   `json:"confidence"`
	Upper      BoundSummary      `json:"upper"`
	Lower      BoundSummary      `json:"lower"`
	Either     Estimate          `json:"either"`
	Neither    decimal.Decimal   `json:"neither_percent"`
}

// NewSummary derives the display view of res. confidence is the two-sided
// level of the normal-approximation intervals, e.g. 0.95.
func NewSummary(res *simulation.Result, confidence float64) *Summary {
	z := gaussian.NormInv(1 - (1-confidence)/2)
	n := res.TotalPaths
	p := res.Params
	reflection := cents(100 * gaussian.TouchProbability(p.RangePrice, p.ATR, p.Days))

	return &Summary{
		Params:     p,
		Seed:       res.Seed,
		TotalPaths: n,
		Confidence: decimal.NewFromFloat(confidence),
		Upper: BoundSummary{
			Price:        cents(res.UpperBound),
			Hit:          estimate(res.SuccessPathsUpper, n, res.ProbabilityUpper, z),
			Reflection:   reflection,
			DaysToTarget: res.UpperStats(),
		},
		Lower: BoundSummary{
			Price:        cents(res.LowerBound),
			Hit:          estimate(res.SuccessPathsLower, n, res.ProbabilityLower, z),
			Reflection:   reflection,
			DaysToTarget: res.LowerStats(),
		},
		Either:  estimate(res.SuccessPathsCombined, n, res.ProbabilityCombined, z),
		Neither: cents(res.ProbabilityNeither()),
	}
}

// estimate builds a Wald interval, clamped to [0, 100] percent.
func estimate(count, total int, percent, z float64) Estimate {
	e := Estimate{Paths: count, Percent: cents(percent), Low: decimal.Zero, High: decimal.Zero}
	if total == 0 {
		return e
	}
	f := float64(count) / float64(total)
	half := z * math.Sqrt(f*(1-f)/float64(total))
	e.Low = cents(100 * math.Max(0, f-half))
	e.High = cents(100 * math.Min(1, f+half))
	return e
}

func cents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
