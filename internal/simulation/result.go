package simulation

// Result aggregates every path of a run. It is built once and not modified
// after Run or Simulate returns it.
type Result struct {
	Params Params `json:"params"`
	Seed   int64  `json:"seed"`

	UpperBound float64 `json:"upper_bound"`
	LowerBound float64 `json:"lower_bound"`

	SuccessPathsUpper    int `json:"success_paths_upper"`
	SuccessPathsLower    int `json:"success_paths_lower"`
	SuccessPathsCombined int `json:"success_paths_combined"`
	TotalPaths           int `json:"total_paths"`

	// Percentages in [0, 100].
	ProbabilityUpper    float64 `json:"probability_upper"`
	ProbabilityLower    float64 `json:"probability_lower"`
	ProbabilityCombined float64 `json:"probability_combined"`

	// One entry per path that touched the bound, in path order.
	DaysToTargetUpper []int `json:"days_to_target_upper"`
	DaysToTargetLower []int `json:"days_to_target_lower"`

	Paths []Path `json:"paths"`
}

// tally is the partial result of a contiguous block of paths.
type tally struct {
	upper, lower, combined int
	daysUpper, daysLower   []int
	paths                  []Path
}

func newTally(n int) *tally {
	return &tally{
		daysUpper: []int{},
		daysLower: []int{},
		paths:     make([]Path, 0, n),
	}
}

func (t *tally) add(path Path, out PathOutcome) {
	t.paths = append(t.paths, path)
	if out.UpperReached {
		t.upper++
		t.daysUpper = append(t.daysUpper, out.DayUpper)
	}
	if out.LowerReached {
		t.lower++
		t.daysLower = append(t.daysLower, out.DayLower)
	}
	if out.Counted {
		t.combined++
	}
}

// merge appends o after t. Order matters for reproducibility.
func (t *tally) merge(o *tally) {
	t.upper += o.upper
	t.lower += o.lower
	t.combined += o.combined
	t.daysUpper = append(t.daysUpper, o.daysUpper...)
	t.daysLower = append(t.daysLower, o.daysLower...)
	t.paths = append(t.paths, o.paths...)
}

func (t *tally) finalize(p Params, seed int64) *Result {
	b := p.Bounds()
	return &Result{
		Params:               p,
		Seed:                 seed,
		UpperBound:           b.Upper,
		LowerBound:           b.Lower,
		SuccessPathsUpper:    t.upper,
		SuccessPathsLower:    t.lower,
		SuccessPathsCombined: t.combined,
		TotalPaths:           p.Iterations,
		ProbabilityUpper:     percent(t.upper, p.Iterations),
		ProbabilityLower:     percent(t.lower, p.Iterations),
		ProbabilityCombined:  percent(t.combined, p.Iterations),
		DaysToTargetUpper:    t.daysUpper,
		DaysToTargetLower:    t.daysLower,
		Paths:                t.paths,
	}
}

// percent returns 100*count/total, or 0 for an empty run.
func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(count) / float64(total)
}

// ProbabilityNeither is the percentage of paths that stayed inside the band.
func (r *Result) ProbabilityNeither() float64 {
	if r.TotalPaths == 0 {
		return 0
	}
	return percent(r.TotalPaths-r.SuccessPathsCombined, r.TotalPaths)
}

// SamplePaths returns at most n paths from the front of the run, the way a
// chart shows a readable subset. n <= 0 returns every path.
func (r *Result) SamplePaths(n int) []Path {
	if n <= 0 || n >= len(r.Paths) {
		return r.Paths
	}
	return r.Paths[:n]
}

// UpperStats summarises the days it took paths to touch the upper bound.
func (r *Result) UpperStats() TargetStats {
	return ComputeTargetStats(r.DaysToTargetUpper)
}

// LowerStats summarises the days it took paths to touch the lower bound.
func (r *Result) LowerStats() TargetStats {
	return ComputeTargetStats(r.DaysToTargetLower)
}
