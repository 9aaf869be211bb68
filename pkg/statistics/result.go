package statistics

import (
	"slices"
	"strings"
)

// Result holds the statistics of one calculation.
// It is never mutated after Compute returns it.
type Result struct {
	Count    int      `json:"n"        msgpack:"n"        codec:"n"`
	Values   []int64  `json:"values"   msgpack:"values"   codec:"values"`
	Mean     float64  `json:"mean"     msgpack:"mean"     codec:"mean"`
	Variance float64  `json:"variance" msgpack:"variance" codec:"variance"`
	StdDev   float64  `json:"stddev"   msgpack:"stddev"   codec:"stddev"`
	Trace    []string `json:"trace"    msgpack:"trace"    codec:"trace"`
}

// Clone returns a deep copy of r.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}

	clone := *r
	clone.Values = slices.Clone(r.Values)
	clone.Trace = slices.Clone(r.Trace)

	return &clone
}

// FormattedMean returns the mean with six decimals.
func (r *Result) FormattedMean() string { return Format(r.Mean) }

// FormattedVariance returns the variance with six decimals.
func (r *Result) FormattedVariance() string { return Format(r.Variance) }

// FormattedStdDev returns the standard deviation with six decimals.
func (r *Result) FormattedStdDev() string { return Format(r.StdDev) }

// Steps renders the derivation, with a blank line between the inputs and the formulas.
func (r *Result) Steps() string {
	var sb strings.Builder

	for i, line := range r.Trace {
		if i == 2 {
			sb.WriteString("\n")
		}

		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}

// Report renders the three results followed by the derivation.
func (r *Result) Report() string {
	var sb strings.Builder

	sb.WriteString("σ = " + r.FormattedStdDev() + "\n")
	sb.WriteString("μ = " + r.FormattedMean() + "\n")
	sb.WriteString("σ² = " + r.FormattedVariance() + "\n")
	sb.WriteString("\n")
	sb.WriteString(r.Steps())

	return sb.String()
}
