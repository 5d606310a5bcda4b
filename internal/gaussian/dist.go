package gaussian

import (
	"math"
)

const sqrt2Pi = 2.5066282746310002

// NormPDF calculates the probability density function (PDF) of the standard normal distribution.
// The formula used is: exp(-0.5 * x^2) / sqrt(2π)
func NormPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / sqrt2Pi
}

// NormCDF computes the cumulative distribution function of the standard normal distribution
// for a given value x using the error function.
func NormCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

// NormInv is the standard normal quantile, Acklam's approximation
// (relative error below 1.15e-9). It panics unless 0 < p < 1.
func NormInv(p float64) float64 {
	if p <= 0 || p >= 1 {
		panic("NormInv: p must be in (0,1)")
	}

	a := [...]float64{
		-3.969683028665376e+01,
		2.209460984245205e+02,
		-2.759285104469687e+02,
		1.383577518672690e+02,
		-3.066479806614716e+01,
		2.506628277459239e+00,
	}
	b := [...]float64{
		-5.447609879822406e+01,
		1.615858368580409e+02,
		-1.556989798598866e+02,
		6.680131188771972e+01,
		-1.328068155288572e+01,
	}
	c := [...]float64{
		-7.784894002430293e-03,
		-3.223964580411365e-01,
		-2.400758277161838e+00,
		-2.549732539343734e+00,
		4.374664141464968e+00,
		2.938163982698783e+00,
	}
	d := [...]float64{
		7.784695709041462e-03,
		3.224671290700398e-01,
		2.445134137142996e+00,
		3.754408661907416e+00,
	}

	const plow = 0.02425
	const phigh = 1 - plow

	tail := func(q float64) float64 {
		return (((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	}

	switch {
	case p < plow:
		return tail(math.Sqrt(-2 * math.Log(p)))
	case p > phigh:
		return -tail(math.Sqrt(-2 * math.Log(1-p)))
	}

	q := p - 0.5
	r := q * q
	return (((((a[0]*r+a[1])*r+a[2])*r+a[3])*r+a[4])*r + a[5]) * q /
		(((((b[0]*r+b[1])*r+b[2])*r+b[3])*r+b[4])*r + 1)
}

// TouchProbability estimates the chance that a driftless random walk with
// per-step standard deviation sigma touches a barrier at the given distance
// from its start within the given number of steps.
//
// It uses the continuous-time reflection principle,
// P = 2 * (1 - Φ(distance / (sigma * sqrt(steps)))), so it slightly
// overstates the discrete-step probability. Returned as a fraction in [0, 1].
func TouchProbability(distance, sigma float64, steps int) float64 {
	if steps <= 0 {
		return 0
	}
	distance = math.Abs(distance)
	if distance == 0 {
		return 1
	}
	if sigma <= 0 {
		return 0
	}
	z := distance / (sigma * math.Sqrt(float64(steps)))
	return math.Min(1, 2*(1-NormCDF(z)))
}
