package simulation

import (
	"github.com/contactkeval/range-touch/internal/gaussian"
)

// Path is one simulated price sequence. path[0] is the starting price and
// path[k] the price after k daily moves.
type Path []float64

// PathOutcome records which bounds a single path touched and when.
// Days are 1-indexed; zero means the bound was never touched.
type PathOutcome struct {
	UpperReached bool
	DayUpper     int
	LowerReached bool
	DayLower     int
	Counted      bool // counted once toward the either-bound tally
}

// simulatePath walks one path forward day by day.
//
// Day 0 is never checked against the bounds. Generation stops as soon as
// both bounds have been touched, so such paths are shorter than Days+1.
func simulatePath(p Params, b Bounds, src gaussian.Source) (Path, PathOutcome) {
	path := make(Path, 1, p.Days+1)
	path[0] = p.CurrentPrice

	var out PathOutcome
	for day := 0; day < p.Days; day++ {
		move := gaussian.Normal(src) * p.ATR
		price := path[len(path)-1] + move
		path = append(path, price)

		if !out.UpperReached && price >= b.Upper {
			out.UpperReached = true
			out.DayUpper = day + 1
			out.Counted = true
		}
		if !out.LowerReached && price <= b.Lower {
			out.LowerReached = true
			out.DayLower = day + 1
			out.Counted = true
		}
		if out.UpperReached && out.LowerReached {
			break
		}
	}
	return path, out
}
