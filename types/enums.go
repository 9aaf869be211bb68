// Package types holds the small named types shared between the calculator,
// its middlewares and the stats collector.
package types

// Stat is a type that represents the name of a statistic collected by the stats collector.
type Stat string

const (
	// StatParseCount counts Parse calls.
	StatParseCount Stat = "sigma_parse_count"
	// StatParseDuration records Parse durations in nanoseconds.
	StatParseDuration Stat = "sigma_parse_duration"
	// StatComputeCount counts Compute calls.
	StatComputeCount Stat = "sigma_compute_count"
	// StatComputeDuration records Compute durations in nanoseconds.
	StatComputeDuration Stat = "sigma_compute_duration"
	// StatCalculateCount counts Calculate calls.
	StatCalculateCount Stat = "sigma_calculate_count"
	// StatCalculateDuration records Calculate durations in nanoseconds.
	StatCalculateDuration Stat = "sigma_calculate_duration"
	// StatErrors counts calls that returned an error.
	StatErrors Stat = "sigma_errors"
	// StatValuesCount records the size of every list that was computed.
	StatValuesCount Stat = "sigma_values_count"
	// StatCacheHit counts results served by the result cache.
	StatCacheHit Stat = "sigma_cache_hit"
	// StatCacheMiss counts results that had to be computed.
	StatCacheMiss Stat = "sigma_cache_miss"
	// StatCacheError counts result cache failures.
	StatCacheError Stat = "sigma_cache_error"
)

// String returns the string representation of a Stat.
func (s Stat) String() string {
	return string(s)
}
