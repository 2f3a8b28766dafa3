package report

import (
	"fmt"
	"strings"
	"time"

	"fieldprof/domain/profile"
)

// maxReportEntries caps the distribution table in the rendered report.
const maxReportEntries = 15

// Render produces a human-readable markdown report for a set of field
// profiles. Presentation only: every number comes from the profiles as
// computed, and absent statistics render as "not applicable" rather than
// an error.
func Render(profiles []profile.FieldProfile, sourceFileName string) string {
	var b strings.Builder

	b.WriteString("# Field Profile Report\n\n")
	if sourceFileName != "" {
		fmt.Fprintf(&b, "Source: `%s`\n\n", sourceFileName)
	}

	for _, fp := range profiles {
		renderField(&b, fp)
	}
	return b.String()
}

func renderField(b *strings.Builder, fp profile.FieldProfile) {
	fmt.Fprintf(b, "## %s\n\n", fp.FieldName)
	fmt.Fprintf(b, "- Rows: %d, unique values: %d, nulls: %d\n",
		fp.TotalRows, fp.UniqueValueCount, fp.NullCount)
	fmt.Fprintf(b, "- Quality score: **%.2f / 100** (%s cardinality, %s distribution)\n",
		fp.Quality.OverallScore,
		fp.Quality.Cardinality.Classification,
		fp.Quality.DistributionQuality.DistributionType)

	for _, issue := range fp.Quality.Issues {
		fmt.Fprintf(b, "- Issue: %s\n", issue)
	}
	for _, warning := range fp.Quality.Warnings {
		fmt.Fprintf(b, "- Warning: %s\n", warning)
	}
	b.WriteString("\n")

	renderDistribution(b, fp)
	renderStatistics(b, fp)
	renderTemporal(b, fp)
}

func renderDistribution(b *strings.Builder, fp profile.FieldProfile) {
	b.WriteString("### Distribution\n\n")
	b.WriteString("| Value | Count | % |\n|---|---:|---:|\n")
	entries := fp.Distributions
	if len(entries) > maxReportEntries {
		entries = entries[:maxReportEntries]
	}
	for _, e := range entries {
		fmt.Fprintf(b, "| %s | %d | %.2f |\n", escapeCell(e.Value), e.Count, e.Percentage)
	}
	if len(fp.Distributions) > maxReportEntries {
		fmt.Fprintf(b, "\n_%d further values omitted from this report._\n", len(fp.Distributions)-maxReportEntries)
	}
	if fp.Truncated {
		fmt.Fprintf(b, "\n_Distribution truncated at %d of %d distinct values during profiling._\n",
			fp.TruncatedAt, fp.UniqueValueCount)
	}
	b.WriteString("\n")
}

func renderStatistics(b *strings.Builder, fp profile.FieldProfile) {
	if !fp.IsNumeric {
		return
	}
	b.WriteString("### Statistics\n\n")
	s := fp.Statistics
	if s == nil {
		b.WriteString("Not applicable: fewer than two numeric values.\n\n")
		return
	}
	fmt.Fprintf(b, "- Min %.4g, max %.4g, mean %.4g, median %.4g, sum %.4g over %d values\n",
		s.Descriptive.Min, s.Descriptive.Max, s.Descriptive.Mean, s.Descriptive.Median,
		s.Descriptive.Sum, s.Descriptive.Count)
	fmt.Fprintf(b, "- Std dev %.4g (variance %.4g), IQR %.4g, range %.4g\n",
		s.Spread.StdDev, s.Spread.Variance, s.Spread.IQR, s.Spread.Range)
	fmt.Fprintf(b, "- Quartiles %.4g / %.4g / %.4g; p10 %.4g, p90 %.4g\n",
		s.Distribution.Quartiles.Q1, s.Distribution.Quartiles.Q2, s.Distribution.Quartiles.Q3,
		s.Distribution.Percentiles.P10, s.Distribution.Percentiles.P90)
	fmt.Fprintf(b, "- Skewness %.4g, excess kurtosis %.4g\n",
		s.Distribution.Skewness, s.Distribution.Kurtosis)
	fmt.Fprintf(b, "- Outliers: %d (%.2f%%)\n", s.Outliers.Count, s.Outliers.Percentage)
	b.WriteString("\n")
}

func renderTemporal(b *strings.Builder, fp profile.FieldProfile) {
	t := fp.Temporal
	if t == nil {
		return
	}
	b.WriteString("### Temporal\n\n")
	fmt.Fprintf(b, "- Format: %s (%.0f%% confidence), %d valid / %d invalid\n",
		t.DetectedFormat.Name, t.DetectedFormat.Confidence*100, t.ValidCount, t.InvalidCount)
	fmt.Fprintf(b, "- Range: %s to %s (%s)\n",
		t.Earliest.Format(time.RFC3339), t.Latest.Format(time.RFC3339), t.TimeSpanDescription)
	if t.Gaps.HasGaps {
		fmt.Fprintf(b, "- Gaps: %d found, largest %d days, coverage %.2f%%\n",
			t.Gaps.GapCount, t.Gaps.LargestGapDays, t.Gaps.CoveragePercentage)
	} else {
		fmt.Fprintf(b, "- Gaps: none, coverage %.2f%%\n", t.Gaps.CoveragePercentage)
	}
	fmt.Fprintf(b, "- Trend: %s (%s)\n", t.Trend.Type, t.Trend.Description)
	b.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.NewReplacer("|", "\\|", "\n", " ").Replace(s)
}
