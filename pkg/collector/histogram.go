package collector

import (
	"slices"
	"sync"

	"github.com/hyp3rd/sigma/pkg/parser"
	"github.com/hyp3rd/sigma/pkg/statistics"
	"github.com/hyp3rd/sigma/types"
)

// DefaultHistogramWindow is the number of recent values kept per statistic.
const DefaultHistogramWindow = 4096

// HistogramStatsCollector summarizes recorded values on demand.
// Count, sum, min, max and mean cover every recorded value; median, percentiles,
// variance and standard deviation cover the most recent window of values.
type HistogramStatsCollector struct {
	mu     sync.RWMutex // mutex to protect concurrent access to the stats
	window int
	stats  map[string]*series
}

// HistogramOption configures a HistogramStatsCollector.
type HistogramOption func(*HistogramStatsCollector)

// WithWindow bounds the recent values kept per statistic. Values below 1 are ignored.
func WithWindow(n int) HistogramOption {
	return func(c *HistogramStatsCollector) {
		if n > 0 {
			c.window = n
		}
	}
}

// series holds the running totals of one statistic and a ring of its recent values.
type series struct {
	count  int
	sum    int64
	min    int64
	max    int64
	recent []int64
	next   int
}

func (s *series) add(value int64, window int) {
	if s.count == 0 || value < s.min {
		s.min = value
	}

	if s.count == 0 || value > s.max {
		s.max = value
	}

	s.count++
	s.sum += value

	if len(s.recent) < window {
		s.recent = append(s.recent, value)

		return
	}

	s.recent[s.next] = value
	s.next = (s.next + 1) % len(s.recent)
}

// NewHistogramStatsCollector creates a new histogram stats collector.
func NewHistogramStatsCollector(opts ...HistogramOption) *HistogramStatsCollector {
	c := &HistogramStatsCollector{
		window: DefaultHistogramWindow,
		stats:  make(map[string]*series),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Incr increments the count of a statistic by the given value.
func (c *HistogramStatsCollector) Incr(stat types.Stat, value int64) {
	c.record(stat, value)
}

// Timing records the time it took for an event to occur.
func (c *HistogramStatsCollector) Timing(stat types.Stat, value int64) {
	c.record(stat, value)
}

// Gauge records the current value of a statistic.
func (c *HistogramStatsCollector) Gauge(stat types.Stat, value int64) {
	c.record(stat, value)
}

// Histogram records the statistical distribution of a set of values.
func (c *HistogramStatsCollector) Histogram(stat types.Stat, value int64) {
	c.record(stat, value)
}

func (c *HistogramStatsCollector) record(stat types.Stat, value int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.stats[stat.String()]
	if !ok {
		s = &series{}
		c.stats[stat.String()] = s
	}

	s.add(value, c.window)
}

// snapshot copies the totals of stat and returns its recent values sorted.
func (c *HistogramStatsCollector) snapshot(stat types.Stat) (series, []int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.stats[stat.String()]
	if !ok {
		return series{}, nil
	}

	values := slices.Clone(s.recent)
	slices.Sort(values)

	totals := *s
	totals.recent = nil

	return totals, values
}

// values returns a sorted copy of the recent values recorded for stat.
func (c *HistogramStatsCollector) values(stat types.Stat) []int64 {
	_, values := c.snapshot(stat)

	return values
}

// Mean returns the mean of every value recorded for a statistic.
func (c *HistogramStatsCollector) Mean(stat types.Stat) float64 {
	s, _ := c.snapshot(stat)
	if s.count == 0 {
		return 0
	}

	return float64(s.sum) / float64(s.count)
}

// Median returns the median value of a statistic.
func (c *HistogramStatsCollector) Median(stat types.Stat) float64 {
	return median(c.values(stat))
}

// Percentile returns the pth percentile value of a statistic, p in [0, 1].
func (c *HistogramStatsCollector) Percentile(stat types.Stat, percentile float64) float64 {
	values := c.values(stat)
	if len(values) == 0 {
		return 0
	}

	index := int(float64(len(values)) * percentile)
	index = min(max(index, 0), len(values)-1)

	return float64(values[index])
}

// GetStats returns the stats collected by the stats collector.
// Mean, variance and standard deviation are population figures.
func (c *HistogramStatsCollector) GetStats() Stats {
	c.mu.RLock()

	names := make([]string, 0, len(c.stats))
	for name := range c.stats {
		names = append(names, name)
	}

	c.mu.RUnlock()

	stats := make(Stats, len(names))

	for _, name := range names {
		s, values := c.snapshot(types.Stat(name))
		if s.count == 0 {
			continue
		}

		stats[name] = summarize(s, values)
	}

	return stats
}

// summarize expects s to hold at least one value and values to be its sorted window.
func summarize(s series, values []int64) *Stat {
	xs := parser.NumberList(values)
	variance := statistics.VariancePopulation(xs, statistics.Mean(xs))
	// variance is never negative, so Sqrt cannot fail here
	stddev, _ := statistics.Sqrt(variance)

	return &Stat{
		Mean:     float64(s.sum) / float64(s.count),
		Median:   median(values),
		Min:      s.min,
		Max:      s.max,
		Count:    s.count,
		Sum:      s.sum,
		Variance: variance,
		StdDev:   stddev,
	}
}

// median expects sorted values.
func median(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}

	mid := len(values) / 2
	if len(values)%2 == 0 {
		return float64(values[mid-1]+values[mid]) / 2
	}

	return float64(values[mid])
}
