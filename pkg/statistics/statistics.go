// Package statistics computes the population mean, variance and standard
// deviation of an integer list, together with a textual derivation.
//
// The square root is computed from scratch with a fixed number of
// Newton-Raphson steps, so results are bit-for-bit stable across platforms
// and independent of math.Sqrt.
package statistics

import (
	"strconv"
	"strings"

	"github.com/hyp3rd/sigma/pkg/parser"
	"github.com/hyp3rd/sigma/sentinel"
)

// SqrtIterations is the fixed number of Newton-Raphson steps taken by Sqrt.
const SqrtIterations = 40

// Mean returns the arithmetic average of xs. It returns NaN for an empty list.
func Mean(xs parser.NumberList) float64 {
	var sum float64
	for _, x := range xs {
		sum += float64(x)
	}

	return sum / float64(len(xs))
}

// VariancePopulation returns the average squared deviation from mean,
// dividing by n.
func VariancePopulation(xs parser.NumberList, mean float64) float64 {
	var sum float64

	for _, x := range xs {
		d := float64(x) - mean
		sum += d * d
	}

	return sum / float64(len(xs))
}

// Sqrt returns the non-negative square root of v.
func Sqrt(v float64) (float64, error) {
	if v < 0 {
		return 0, sentinel.ErrNegativeInput
	}

	if v == 0 {
		return 0, nil
	}

	x := 1.0
	if v >= 1 {
		x = v
	}

	for range SqrtIterations {
		x = 0.5 * (x + v/x)
	}

	return x, nil
}

// Format renders v as fixed-point with six decimals and a '.' separator.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// Compute derives the population statistics of xs.
func Compute(xs parser.NumberList) (*Result, error) {
	if len(xs) == 0 {
		return nil, sentinel.ErrEmptyInput
	}

	mean := Mean(xs)
	variance := VariancePopulation(xs, mean)

	stddev, err := Sqrt(variance)
	if err != nil {
		return nil, err
	}

	values := make([]int64, len(xs))
	copy(values, xs)

	return &Result{
		Count:    len(xs),
		Values:   values,
		Mean:     mean,
		Variance: variance,
		StdDev:   stddev,
		Trace:    trace(xs, mean, variance, stddev),
	}, nil
}

func trace(xs parser.NumberList, mean, variance, stddev float64) []string {
	return []string{
		"Given n = " + strconv.Itoa(len(xs)),
		"Values: " + strings.Join(xs.Strings(), ", "),
		"μ = (1/n) · Σ x_i = " + Format(mean),
		"σ² = (1/n) · Σ (x_i − μ)² = " + Format(variance),
		"σ = √(σ²) = " + Format(stddev),
	}
}
