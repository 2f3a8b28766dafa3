package temporal

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_DetectsISODates(t *testing.T) {
	tp := Analyze([]interface{}{
		"2024-01-01", "2024-01-02", "2024-01-03",
	}, DefaultConfig())
	require.NotNil(t, tp)

	assert.Equal(t, "ISO 8601 date", tp.DetectedFormat.Name)
	assert.Equal(t, 1.0, tp.DetectedFormat.Confidence)
	assert.Equal(t, 3, tp.ValidCount)
	assert.Equal(t, 0, tp.InvalidCount)
	assert.Equal(t, "2024-01-01", tp.Earliest.Format("2006-01-02"))
	assert.Equal(t, "2024-01-03", tp.Latest.Format("2006-01-02"))
}

func TestAnalyze_NilForNonDates(t *testing.T) {
	assert.Nil(t, Analyze([]interface{}{"alpha", "beta", "gamma"}, DefaultConfig()))
	assert.Nil(t, Analyze([]interface{}{nil, nil}, DefaultConfig()))
	assert.Nil(t, Analyze(nil, DefaultConfig()))
}

func TestAnalyze_SmallIntegersAreNotEpochs(t *testing.T) {
	assert.Nil(t, Analyze([]interface{}{1, 2, 3, 4, 5}, DefaultConfig()))
}

func TestAnalyze_EpochSeconds(t *testing.T) {
	tp := Analyze([]interface{}{
		int64(1700000000), int64(1700086400), int64(1700172800),
	}, DefaultConfig())
	require.NotNil(t, tp)

	assert.Equal(t, "Unix epoch seconds", tp.DetectedFormat.Name)
	assert.Equal(t, 2023, tp.Earliest.Year())
}

func TestAnalyze_ConfidenceBelowThresholdBailsOut(t *testing.T) {
	// 3 of 5 parse: 0.6 < 0.8.
	tp := Analyze([]interface{}{
		"2024-01-01", "2024-01-02", "2024-01-03", "n/a", "pending",
	}, DefaultConfig())
	assert.Nil(t, tp)
}

func TestAnalyze_InvalidValuesAreCountedNotFatal(t *testing.T) {
	tp := Analyze([]interface{}{
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "garbage",
	}, DefaultConfig())
	require.NotNil(t, tp)

	assert.Equal(t, 4, tp.ValidCount)
	assert.Equal(t, 1, tp.InvalidCount)
	assert.InDelta(t, 80.0, tp.ValidPercentage, 0.001)
}

func TestDetectFormat_AmbiguousSlashDatePrefersUS(t *testing.T) {
	// Both readings parse every value, so the tie goes to priority order.
	format, confidence, ok := DetectFormat([]interface{}{
		"01/02/2024", "03/04/2024",
	}, 0.8)
	require.True(t, ok)
	assert.Equal(t, "US date (MM/DD/YYYY)", format.Name)
	assert.Equal(t, 1.0, confidence)
}

func TestAnalyze_GapsAgainstMedianCadence(t *testing.T) {
	tp := Analyze([]interface{}{
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04",
		"2024-01-14", "2024-01-15",
	}, DefaultConfig())
	require.NotNil(t, tp)

	// Median interval is 1 day, so the 10-day jump is the lone gap.
	assert.True(t, tp.Gaps.HasGaps)
	assert.Equal(t, 1, tp.Gaps.GapCount)
	assert.Equal(t, 10, tp.Gaps.LargestGapDays)
	// 6 of the 15 days in span are present.
	assert.InDelta(t, 40.0, tp.Gaps.CoveragePercentage, 0.001)
}

func TestAnalyze_NoGapsOnDenseDailyData(t *testing.T) {
	raw := make([]interface{}, 0, 10)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		raw = append(raw, base.AddDate(0, 0, i).Format("2006-01-02"))
	}
	tp := Analyze(raw, DefaultConfig())
	require.NotNil(t, tp)

	assert.False(t, tp.Gaps.HasGaps)
	assert.Equal(t, 100.0, tp.Gaps.CoveragePercentage)
}

func TestAnalyze_MonthlyCadenceCoverage(t *testing.T) {
	tp := Analyze([]interface{}{
		"2024-01-15", "2024-02-15", "2024-03-15", "2024-04-15",
	}, DefaultConfig())
	require.NotNil(t, tp)

	// Median interval is around a month, so coverage counts months.
	assert.Equal(t, 100.0, tp.Gaps.CoveragePercentage)
	assert.False(t, tp.Gaps.HasGaps)
}

func TestAnalyze_TrendStrongGrowth(t *testing.T) {
	raw := []interface{}{}
	for m := 1; m <= 6; m++ {
		for i := 0; i < m; i++ {
			raw = append(raw, fmt.Sprintf("2024-%02d-15", m))
		}
	}
	tp := Analyze(raw, DefaultConfig())
	require.NotNil(t, tp)

	// Monthly counts 1..6: slope 1 against mean 3.5 is well past 0.25.
	assert.Equal(t, TrendStrongGrowth, tp.Trend.Type)
}

func TestAnalyze_TrendConstant(t *testing.T) {
	raw := []interface{}{}
	for m := 1; m <= 4; m++ {
		for i := 0; i < 5; i++ {
			raw = append(raw, fmt.Sprintf("2024-%02d-10", m))
		}
	}
	tp := Analyze(raw, DefaultConfig())
	require.NotNil(t, tp)
	assert.Equal(t, TrendConstant, tp.Trend.Type)
}

func TestAnalyze_BucketsAreZeroFilled(t *testing.T) {
	tp := Analyze([]interface{}{"2023-01-01", "2024-07-04"}, DefaultConfig())
	require.NotNil(t, tp)

	assert.Len(t, tp.Distributions.Monthly, 12)
	assert.Len(t, tp.Distributions.Quarterly, 4)
	assert.Len(t, tp.Distributions.DayOfWeek, 7)

	assert.Equal(t, 1, tp.Distributions.Monthly["January"])
	assert.Equal(t, 1, tp.Distributions.Monthly["July"])
	assert.Equal(t, 0, tp.Distributions.Monthly["March"])
	assert.Equal(t, 1, tp.Distributions.Quarterly["Q1"])
	assert.Equal(t, 0, tp.Distributions.Quarterly["Q2"])
	assert.Equal(t, 2, len(tp.Distributions.Yearly))
}

func TestAnalyze_SameDaySpan(t *testing.T) {
	tp := Analyze([]interface{}{"2024-05-05", "2024-05-05"}, DefaultConfig())
	require.NotNil(t, tp)
	assert.Equal(t, "same day", tp.TimeSpanDescription)
}

func TestAnalyze_NativeTimesBypassStringParsing(t *testing.T) {
	now := time.Now()
	tp := Analyze([]interface{}{now, now.AddDate(0, 0, 1)}, DefaultConfig())
	require.NotNil(t, tp)
	assert.Equal(t, "native", tp.DetectedFormat.Name)
}
