package statistics

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"fieldprof/domain/profile"
	"fieldprof/internal/distribution"
)

// Compute calculates the full numeric summary for a field. It returns nil
// when fewer than two values exist: variance and the shape moments are
// undefined there, and that is not an error.
func Compute(values []float64, outlierCap int) *profile.Statistics {
	if len(values) < 2 {
		return nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, err := stats.Mean(sorted)
	if err != nil {
		return nil
	}
	median, err := stats.Median(sorted)
	if err != nil {
		return nil
	}
	sum, err := stats.Sum(sorted)
	if err != nil {
		return nil
	}
	variance, err := stats.PopulationVariance(sorted)
	if err != nil {
		return nil
	}
	stdDev := math.Sqrt(variance)

	mode, err := stats.Mode(sorted)
	if err != nil {
		mode = nil
	}
	sort.Float64s(mode)

	min := sorted[0]
	max := sorted[len(sorted)-1]

	q1 := percentile(sorted, 25)
	q2 := percentile(sorted, 50)
	q3 := percentile(sorted, 75)
	iqr := q3 - q1

	out := &profile.Statistics{
		Descriptive: profile.Descriptive{
			Min:    min,
			Max:    max,
			Mean:   mean,
			Median: median,
			Mode:   mode,
			Sum:    sum,
			Count:  len(sorted),
		},
		Spread: profile.Spread{
			Range:    max - min,
			StdDev:   stdDev,
			Variance: variance,
			IQR:      iqr,
		},
		Distribution: profile.DistributionShape{
			Quartiles: profile.Quartiles{Q1: q1, Q2: q2, Q3: q3},
			Percentiles: profile.Percentiles{
				P10: percentile(sorted, 10),
				P25: q1,
				P50: q2,
				P75: q3,
				P90: percentile(sorted, 90),
			},
			Skewness: skewness(sorted, mean, stdDev),
			Kurtosis: kurtosis(sorted, mean, stdDev),
		},
		Outliers: detectOutliers(sorted, q1, q3, iqr, outlierCap),
	}
	return out
}

// percentile interpolates linearly between order statistics (the R-7 /
// Excel method): index = p/100 * (n-1). Input must be sorted.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	idx := p / 100 * float64(n-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// skewness is the third standardized moment over the population.
func skewness(values []float64, mean, stdDev float64) float64 {
	if stdDev == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range values {
		d := (x - mean) / stdDev
		sum += d * d * d
	}
	return sum / float64(len(values))
}

// kurtosis is the fourth standardized moment minus 3 (excess kurtosis).
func kurtosis(values []float64, mean, stdDev float64) float64 {
	if stdDev == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range values {
		d := (x - mean) / stdDev
		sum += d * d * d * d
	}
	return sum/float64(len(values)) - 3
}

// detectOutliers flags values outside the 1.5*IQR fences. The value list
// is capped; count and percentage cover the full set.
func detectOutliers(sorted []float64, q1, q3, iqr float64, valueCap int) profile.Outliers {
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	out := profile.Outliers{Values: []float64{}}
	for _, x := range sorted {
		if x < lower || x > upper {
			out.Count++
			if valueCap <= 0 || len(out.Values) < valueCap {
				out.Values = append(out.Values, x)
			}
		}
	}
	out.Percentage = distribution.Percentage(out.Count, len(sorted))
	return out
}
