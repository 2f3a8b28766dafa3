package temporal

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"fieldprof/domain/profile"
	"fieldprof/internal/distribution"
)

// Config carries the temporal-analysis thresholds.
type Config struct {
	// MinConfidence is the parse-success fraction a format must reach.
	MinConfidence float64
	// SampleSize bounds how many values format detection inspects.
	SampleSize int
}

// DefaultConfig mirrors profile.DefaultOptions.
func DefaultConfig() Config {
	return Config{MinConfidence: 0.8, SampleSize: 500}
}

// Trend classification bands for the normalized per-period slope.
const (
	TrendStrongGrowth    = "Strong Growth"
	TrendModerateGrowth  = "Moderate Growth"
	TrendConstant        = "Constant"
	TrendModerateDecline = "Moderate Decline"
	TrendStrongDecline   = "Strong Decline"
)

// gapFactor flags an interval as a gap once it exceeds this multiple of
// the median interval.
const gapFactor = 1.5

// monthlyGranularityDays switches coverage accounting from daily to
// monthly when the median interval reaches it.
const monthlyGranularityDays = 20

// Analyze detects whether the column is date-like and, if so, computes
// its temporal profile. It returns nil when no supported format reaches
// the confidence threshold over the sampled values.
func Analyze(values []interface{}, cfg Config) *profile.TemporalProfile {
	nonNull := make([]interface{}, 0, len(values))
	for _, raw := range values {
		if raw == nil {
			continue
		}
		nonNull = append(nonNull, raw)
	}
	if len(nonNull) == 0 {
		return nil
	}

	sample := nonNull
	if cfg.SampleSize > 0 && len(sample) > cfg.SampleSize {
		sample = sample[:cfg.SampleSize]
	}

	format, confidence, ok := DetectFormat(sample, cfg.MinConfidence)
	if !ok {
		return nil
	}

	times := make([]time.Time, 0, len(nonNull))
	for _, raw := range nonNull {
		if t, parsed := format.Parse(raw); parsed {
			times = append(times, t)
		}
	}
	if len(times) == 0 {
		return nil
	}

	earliest := times[0]
	latest := times[0]
	for _, t := range times[1:] {
		if t.Before(earliest) {
			earliest = t
		}
		if t.After(latest) {
			latest = t
		}
	}

	tp := &profile.TemporalProfile{
		Earliest:            earliest,
		Latest:              latest,
		TimeSpanDescription: describeSpan(earliest, latest),
		DetectedFormat: profile.DetectedFormat{
			Name:       format.Name,
			Confidence: distribution.Round2(confidence),
		},
		ValidCount:      len(times),
		InvalidCount:    len(nonNull) - len(times),
		ValidPercentage: distribution.Percentage(len(times), len(nonNull)),
		Gaps:            analyzeGaps(times, earliest, latest),
		Trend:           analyzeTrend(times, earliest, latest),
		Distributions:   bucketize(times),
	}
	return tp
}

// describeSpan renders the earliest-to-latest delta as an approximate
// human phrase, never exact days past a month.
func describeSpan(earliest, latest time.Time) string {
	days := int(latest.Sub(earliest).Hours() / 24)
	switch {
	case days >= 365:
		years := days / 365
		months := (days % 365) / 30
		if months > 0 {
			return fmt.Sprintf("about %s and %s", plural(years, "year"), plural(months, "month"))
		}
		return fmt.Sprintf("about %s", plural(years, "year"))
	case days >= 30:
		return fmt.Sprintf("about %s", plural(days/30, "month"))
	case days == 0:
		return "same day"
	default:
		return fmt.Sprintf("about %s", plural(days, "day"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// analyzeGaps works over distinct calendar days: the median interval
// between consecutive dates sets the expected cadence, and any interval
// beyond gapFactor times it is a gap.
func analyzeGaps(times []time.Time, earliest, latest time.Time) profile.GapAnalysis {
	days := distinctDays(times)

	out := profile.GapAnalysis{CoveragePercentage: 100}
	if len(days) < 2 {
		return out
	}

	intervals := make([]float64, len(days)-1)
	for i := 1; i < len(days); i++ {
		intervals[i-1] = float64(daysBetween(days[i-1], days[i]))
	}
	median := medianOf(intervals)
	threshold := gapFactor * math.Max(median, 1)

	largest := 0
	for _, iv := range intervals {
		if iv > threshold {
			out.GapCount++
			if int(iv) > largest {
				largest = int(iv)
			}
		}
	}
	out.HasGaps = out.GapCount > 0
	out.LargestGapDays = largest

	// Coverage compares distinct periods present against the span at the
	// inferred granularity: daily cadence unless the data is clearly
	// sparser.
	if median < monthlyGranularityDays {
		expected := daysBetween(days[0], days[len(days)-1]) + 1
		out.CoveragePercentage = coverage(len(days), expected)
	} else {
		months := distinctMonths(times)
		expected := monthsBetween(earliest, latest) + 1
		out.CoveragePercentage = coverage(len(months), expected)
	}
	return out
}

func coverage(present, expected int) float64 {
	if expected <= 0 {
		return 100
	}
	return distribution.Round2(math.Min(100, float64(present)/float64(expected)*100))
}

// analyzeTrend fits a linear regression of record counts per period
// against the period index; the slope normalized by the mean count is
// classified into fixed bands.
func analyzeTrend(times []time.Time, earliest, latest time.Time) profile.TrendAnalysis {
	spanDays := daysBetween(day(earliest), day(latest))
	daily := spanDays < 62

	counts := map[string]int{}
	for _, t := range times {
		counts[periodKey(t, daily)]++
	}

	// Every period in range participates, including empty ones.
	keys := periodRange(earliest, latest, daily)
	if len(keys) < 2 {
		return profile.TrendAnalysis{Type: TrendConstant, Description: "not enough periods to measure a trend"}
	}

	xs := make([]float64, len(keys))
	ys := make([]float64, len(keys))
	for i, k := range keys {
		xs[i] = float64(i)
		ys[i] = float64(counts[k])
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	mean := stat.Mean(ys, nil)
	if mean == 0 {
		return profile.TrendAnalysis{Type: TrendConstant, Description: "no records in range"}
	}
	norm := slope / mean

	unit := "month"
	if daily {
		unit = "day"
	}
	desc := fmt.Sprintf("record volume changes by %.1f%% of the mean per %s", norm*100, unit)

	switch {
	case norm >= 0.25:
		return profile.TrendAnalysis{Type: TrendStrongGrowth, Description: desc}
	case norm >= 0.05:
		return profile.TrendAnalysis{Type: TrendModerateGrowth, Description: desc}
	case norm > -0.05:
		return profile.TrendAnalysis{Type: TrendConstant, Description: desc}
	case norm > -0.25:
		return profile.TrendAnalysis{Type: TrendModerateDecline, Description: desc}
	default:
		return profile.TrendAnalysis{Type: TrendStrongDecline, Description: desc}
	}
}

// bucketize counts occurrences by calendar component. Month, quarter and
// weekday buckets are always fully present, zeros included.
func bucketize(times []time.Time) profile.TemporalBuckets {
	b := profile.TemporalBuckets{
		Yearly:    map[string]int{},
		Monthly:   map[string]int{},
		Quarterly: map[string]int{"Q1": 0, "Q2": 0, "Q3": 0, "Q4": 0},
		DayOfWeek: map[string]int{},
	}
	for m := time.January; m <= time.December; m++ {
		b.Monthly[m.String()] = 0
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		b.DayOfWeek[d.String()] = 0
	}

	for _, t := range times {
		b.Yearly[fmt.Sprintf("%04d", t.Year())]++
		b.Monthly[t.Month().String()]++
		b.Quarterly[fmt.Sprintf("Q%d", (int(t.Month())-1)/3+1)]++
		b.DayOfWeek[t.Weekday().String()]++
	}
	return b
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func distinctDays(times []time.Time) []time.Time {
	seen := map[time.Time]bool{}
	days := make([]time.Time, 0, len(times))
	for _, t := range times {
		d := day(t)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func distinctMonths(times []time.Time) map[string]bool {
	months := map[string]bool{}
	for _, t := range times {
		months[t.Format("2006-01")] = true
	}
	return months
}

func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

func periodKey(t time.Time, daily bool) string {
	if daily {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01")
}

// periodRange enumerates every period key between earliest and latest
// inclusive.
func periodRange(earliest, latest time.Time, daily bool) []string {
	keys := []string{}
	if daily {
		for d := day(earliest); !d.After(day(latest)); d = d.AddDate(0, 0, 1) {
			keys = append(keys, d.Format("2006-01-02"))
		}
		return keys
	}
	start := time.Date(earliest.Year(), earliest.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(latest.Year(), latest.Month(), 1, 0, 0, 0, 0, time.UTC)
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		keys = append(keys, m.Format("2006-01"))
	}
	return keys
}

func medianOf(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
