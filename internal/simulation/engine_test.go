package simulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/range-touch/internal/gaussian"
)

var defaultParams = Params{CurrentPrice: 100, ATR: 5, RangePrice: 15, Days: 15, Iterations: 5000}

// firstTouch scans a path the way the simulator does and reports the first
// day each bound was touched (0 = never).
func firstTouch(path Path, b Bounds) (upper, lower int) {
	for day := 1; day < len(path); day++ {
		if upper == 0 && path[day] >= b.Upper {
			upper = day
		}
		if lower == 0 && path[day] <= b.Lower {
			lower = day
		}
	}
	return upper, lower
}

func TestSimulateInvariants(t *testing.T) {
	p := defaultParams
	res, err := Simulate(p, gaussian.NewSource(2024, 0))
	require.NoError(t, err)

	b := p.Bounds()
	assert.Equal(t, b.Upper, res.UpperBound)
	assert.Equal(t, b.Lower, res.LowerBound)
	assert.Equal(t, p.Iterations, res.TotalPaths)
	require.Len(t, res.Paths, p.Iterations)

	var neither int
	var wantUpper, wantLower []int
	for i, path := range res.Paths {
		require.GreaterOrEqual(t, len(path), 1, "path %d", i)
		require.LessOrEqual(t, len(path), p.Days+1, "path %d", i)
		require.Equal(t, p.CurrentPrice, path[0], "path %d", i)

		up, lo := firstTouch(path, b)
		if up > 0 {
			wantUpper = append(wantUpper, up)
		}
		if lo > 0 {
			wantLower = append(wantLower, lo)
		}
		if up == 0 && lo == 0 {
			neither++
		}
		if up > 0 && lo > 0 {
			assert.Equal(t, max(up, lo), len(path)-1, "path %d must end at its second touch", i)
		} else {
			assert.Len(t, path, p.Days+1, "path %d must run the full horizon", i)
		}
	}

	assert.Equal(t, wantUpper, res.DaysToTargetUpper)
	assert.Equal(t, wantLower, res.DaysToTargetLower)
	assert.Equal(t, len(res.DaysToTargetUpper), res.SuccessPathsUpper)
	assert.Equal(t, len(res.DaysToTargetLower), res.SuccessPathsLower)
	assert.Equal(t, p.Iterations-neither, res.SuccessPathsCombined)

	assert.LessOrEqual(t, res.SuccessPathsCombined, res.SuccessPathsUpper+res.SuccessPathsLower)
	assert.GreaterOrEqual(t, res.SuccessPathsCombined, max(res.SuccessPathsUpper, res.SuccessPathsLower))
	assert.LessOrEqual(t, res.SuccessPathsCombined, p.Iterations)

	for _, d := range append(append([]int{}, res.DaysToTargetUpper...), res.DaysToTargetLower...) {
		assert.True(t, d >= 1 && d <= p.Days, "day %d out of range", d)
	}

	n := float64(p.Iterations)
	assert.InDelta(t, 100*float64(res.SuccessPathsUpper)/n, res.ProbabilityUpper, 1e-9)
	assert.InDelta(t, 100*float64(res.SuccessPathsLower)/n, res.ProbabilityLower, 1e-9)
	assert.InDelta(t, 100*float64(res.SuccessPathsCombined)/n, res.ProbabilityCombined, 1e-9)
	assert.InDelta(t, 100-res.ProbabilityCombined, res.ProbabilityNeither(), 1e-9)
}

func TestSimulateFlatPriceNeverHitsBand(t *testing.T) {
	p := Params{CurrentPrice: 100, ATR: 0, RangePrice: 15, Days: 15, Iterations: 1000}
	res, err := Simulate(p, gaussian.NewSource(1, 0))
	require.NoError(t, err)

	assert.Zero(t, res.SuccessPathsUpper)
	assert.Zero(t, res.SuccessPathsLower)
	assert.Zero(t, res.SuccessPathsCombined)
	assert.Zero(t, res.ProbabilityUpper)
	assert.Zero(t, res.ProbabilityLower)
	assert.Zero(t, res.ProbabilityCombined)
	assert.Empty(t, res.DaysToTargetUpper)
	assert.Empty(t, res.DaysToTargetLower)
	for _, path := range res.Paths {
		require.Len(t, path, 16)
		for _, v := range path {
			require.Equal(t, 100.0, v)
		}
	}
}

func TestSimulateZeroRangeTouchesOnDayOne(t *testing.T) {
	p := Params{CurrentPrice: 100, ATR: 5, RangePrice: 0, Days: 10, Iterations: 500}
	res, err := Simulate(p, gaussian.NewSource(9, 0))
	require.NoError(t, err)

	assert.Equal(t, p.Iterations, res.SuccessPathsCombined)
	assert.Equal(t, 100.0, res.ProbabilityCombined)

	dayOne := 0
	for _, d := range res.DaysToTargetUpper {
		if d == 1 {
			dayOne++
		}
	}
	for _, d := range res.DaysToTargetLower {
		if d == 1 {
			dayOne++
		}
	}
	assert.GreaterOrEqual(t, dayOne, p.Iterations, "every path touches one bound on day 1")
}

func TestSimulateZeroIterations(t *testing.T) {
	p := Params{CurrentPrice: 100, ATR: 5, RangePrice: 15, Days: 15, Iterations: 0}
	res, err := Simulate(p, gaussian.NewSource(1, 0))
	require.NoError(t, err)

	assert.Zero(t, res.ProbabilityUpper)
	assert.Zero(t, res.ProbabilityLower)
	assert.Zero(t, res.ProbabilityCombined)
	assert.Zero(t, res.ProbabilityNeither())
	assert.Empty(t, res.Paths)
	assert.NotNil(t, res.DaysToTargetUpper)
	assert.NotNil(t, res.DaysToTargetLower)
}

func TestSimulateZeroDays(t *testing.T) {
	p := Params{CurrentPrice: 100, ATR: 5, RangePrice: 0, Days: 0, Iterations: 20}
	res, err := Simulate(p, gaussian.NewSource(1, 0))
	require.NoError(t, err)

	assert.Zero(t, res.SuccessPathsCombined)
	for _, path := range res.Paths {
		assert.Equal(t, Path{100}, path)
	}
}

func TestSimulateRejectsInvalidParams(t *testing.T) {
	_, err := Simulate(Params{CurrentPrice: 100, ATR: -1, Days: 1, Iterations: 1}, gaussian.NewSource(1, 0))
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestSimulateIsReproducible(t *testing.T) {
	a, err := Simulate(defaultParams, gaussian.NewSource(77, 3))
	require.NoError(t, err)
	b, err := Simulate(defaultParams, gaussian.NewSource(77, 3))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEngineDeterministicAcrossWorkerCounts(t *testing.T) {
	ctx := context.Background()
	p := defaultParams

	one, err := NewEngine(Config{Seed: 12345, Workers: 1, ChunkSize: 300}).Run(ctx, p)
	require.NoError(t, err)
	many, err := NewEngine(Config{Seed: 12345, Workers: 8, ChunkSize: 300}).Run(ctx, p)
	require.NoError(t, err)
	again, err := NewEngine(Config{Seed: 12345, Workers: 3, ChunkSize: 300}).Run(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, one, many)
	assert.Equal(t, one, again)
	assert.Equal(t, int64(12345), one.Seed)

	other, err := NewEngine(Config{Seed: 54321, Workers: 8, ChunkSize: 300}).Run(ctx, p)
	require.NoError(t, err)
	assert.NotEqual(t, one.Paths, other.Paths)
}

func TestEngineSingleChunkMatchesSimulate(t *testing.T) {
	p := defaultParams
	p.Iterations = 800

	res, err := NewEngine(Config{Seed: 99, Workers: 4, ChunkSize: 1000}).Run(context.Background(), p)
	require.NoError(t, err)

	seq, err := Simulate(p, gaussian.NewSource(99, 0))
	require.NoError(t, err)
	seq.Seed = 99

	assert.Equal(t, seq, res)
}

func TestEngineChunkRemainder(t *testing.T) {
	p := defaultParams
	p.Iterations = 1001

	res, err := NewEngine(Config{Seed: 5, Workers: 2, ChunkSize: 250}).Run(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, res.Paths, 1001)
	assert.Equal(t, 1001, res.TotalPaths)
}

func TestEngineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewEngine(Config{Seed: 1}).Run(ctx, defaultParams)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestEngineRejectsInvalidParams(t *testing.T) {
	_, err := NewEngine(Config{}).Run(context.Background(), Params{CurrentPrice: 100, RangePrice: -1})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestEngineDefaults(t *testing.T) {
	cfg := NewEngine(Config{}).Config()
	assert.Positive(t, cfg.Workers)
	assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
	assert.Zero(t, cfg.Seed)

	res, err := NewEngine(Config{}).Run(context.Background(), Params{CurrentPrice: 1, Days: 1, Iterations: 1})
	require.NoError(t, err)
	assert.NotZero(t, res.Seed, "an unseeded run reports the seed it picked")
}

func TestEngineAgreesWithReflectionEstimate(t *testing.T) {
	p := Params{CurrentPrice: 100, ATR: 5, RangePrice: 15, Days: 15, Iterations: 20000}
	res, err := NewEngine(Config{Seed: 31337}).Run(context.Background(), p)
	require.NoError(t, err)

	// Daily monitoring misses touches between steps, so the simulated
	// probability sits below the continuous-time estimate.
	analytic := 100 * gaussian.TouchProbability(p.RangePrice, p.ATR, p.Days)
	assert.Less(t, res.ProbabilityUpper, analytic+2)
	assert.Less(t, res.ProbabilityLower, analytic+2)
	assert.InDelta(t, res.ProbabilityUpper, res.ProbabilityLower, 3, "symmetric walk")
	assert.Greater(t, res.ProbabilityUpper, 20.0)
}

func TestSamplePaths(t *testing.T) {
	res := &Result{Paths: []Path{{1}, {2}, {3}}}
	assert.Len(t, res.SamplePaths(2), 2)
	assert.Len(t, res.SamplePaths(0), 3)
	assert.Len(t, res.SamplePaths(10), 3)
}
