package analysis

import "math"

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var total float64
	for _, x := range xs {
		total += x
	}
	return total / float64(len(xs))
}

// StdDev returns the standard deviation of xs with ddof delta degrees of
// freedom. It returns 0 when len(xs) <= ddof.
func StdDev(xs []float64, ddof int) float64 {
	n := len(xs)
	if n <= ddof {
		return 0
	}
	m := Mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-ddof))
}

// StdErr returns StdDev(xs, ddof) / sqrt(len(xs)).
func StdErr(xs []float64, ddof int) float64 {
	if len(xs) == 0 {
		return 0
	}
	return StdDev(xs, ddof) / math.Sqrt(float64(len(xs)))
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// Logspace returns n values from lo to hi evenly spaced on a log10 scale.
// lo and hi must be positive.
func Logspace(lo, hi float64, n int) []float64 {
	exps := Linspace(math.Log10(lo), math.Log10(hi), n)
	for i, e := range exps {
		exps[i] = math.Pow(10, e)
	}
	return exps
}
