package profile

import (
	"fmt"
	"time"
)

// FieldProfile contains the complete profiling result for one field.
// It is created fresh per request and immutable once returned.
type FieldProfile struct {
	FieldName        string              `json:"field_name"`
	TotalRows        int                 `json:"total_rows"`
	UniqueValueCount int                 `json:"unique_value_count"`
	NullCount        int                 `json:"null_count"`
	Distributions    []DistributionEntry `json:"distributions"`
	Truncated        bool                `json:"truncated"`
	TruncatedAt      int                 `json:"truncated_at,omitempty"`
	IsNumeric        bool                `json:"is_numeric"`
	Statistics       *Statistics         `json:"statistics,omitempty"`
	Temporal         *TemporalProfile    `json:"temporal,omitempty"`
	Quality          QualityProfile      `json:"quality"`
}

// DistributionEntry is one ranked distinct value with its frequency.
// Null cells are aggregated under a single sentinel value.
type DistributionEntry struct {
	Value      string  `json:"value"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Statistics holds numeric summary statistics. It is nil when the field
// has fewer than two numeric values (variance and the shape moments are
// undefined there).
type Statistics struct {
	Descriptive  Descriptive       `json:"descriptive"`
	Spread       Spread            `json:"spread"`
	Distribution DistributionShape `json:"distribution"`
	Outliers     Outliers          `json:"outliers"`
}

// Descriptive contains location statistics.
type Descriptive struct {
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
	Mean   float64   `json:"mean"`
	Median float64   `json:"median"`
	Mode   []float64 `json:"mode"`
	Sum    float64   `json:"sum"`
	Count  int       `json:"count"`
}

// Spread contains dispersion statistics. Variance is the population
// variance.
type Spread struct {
	Range    float64 `json:"range"`
	StdDev   float64 `json:"std_dev"`
	Variance float64 `json:"variance"`
	IQR      float64 `json:"iqr"`
}

// DistributionShape contains order statistics and shape moments.
type DistributionShape struct {
	Quartiles   Quartiles   `json:"quartiles"`
	Percentiles Percentiles `json:"percentiles"`
	Skewness    float64     `json:"skewness"`
	Kurtosis    float64     `json:"kurtosis"` // excess kurtosis
}

// Quartiles are computed with linear interpolation between order
// statistics (Excel-style).
type Quartiles struct {
	Q1 float64 `json:"q1"`
	Q2 float64 `json:"q2"`
	Q3 float64 `json:"q3"`
}

// Percentiles uses the same interpolation as Quartiles.
type Percentiles struct {
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
}

// Outliers summarizes values outside the 1.5*IQR fences. Values is capped
// to keep output bounded; Count and Percentage always cover the full set.
type Outliers struct {
	Count      int       `json:"count"`
	Percentage float64   `json:"percentage"`
	Values     []float64 `json:"values"`
}

// TemporalProfile describes a date-like field. It is nil when too few
// values parse as dates under any supported format.
type TemporalProfile struct {
	Earliest            time.Time       `json:"earliest"`
	Latest              time.Time       `json:"latest"`
	TimeSpanDescription string          `json:"time_span_description"`
	DetectedFormat      DetectedFormat  `json:"detected_format"`
	ValidCount          int             `json:"valid_count"`
	InvalidCount        int             `json:"invalid_count"`
	ValidPercentage     float64         `json:"valid_percentage"`
	Gaps                GapAnalysis     `json:"gaps"`
	Trend               TrendAnalysis   `json:"trend"`
	Distributions       TemporalBuckets `json:"distributions"`
}

// DetectedFormat names the winning date format and the fraction of values
// it parsed.
type DetectedFormat struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// GapAnalysis flags calendar gaps between consecutive distinct dates.
type GapAnalysis struct {
	HasGaps            bool    `json:"has_gaps"`
	GapCount           int     `json:"gap_count"`
	LargestGapDays     int     `json:"largest_gap_days"`
	CoveragePercentage float64 `json:"coverage_percentage"`
}

// TrendAnalysis classifies the record-count-over-time slope.
type TrendAnalysis struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// TemporalBuckets are plain occurrence counts keyed by calendar component.
type TemporalBuckets struct {
	Yearly    map[string]int `json:"yearly"`
	Monthly   map[string]int `json:"monthly"`
	Quarterly map[string]int `json:"quarterly"`
	DayOfWeek map[string]int `json:"day_of_week"`
}

// QualityProfile is the advisory data-quality assessment for a field.
type QualityProfile struct {
	Completeness        Completeness        `json:"completeness"`
	Cardinality         Cardinality         `json:"cardinality"`
	Uniqueness          Uniqueness          `json:"uniqueness"`
	DistributionQuality DistributionQuality `json:"distribution_quality"`
	OverallScore        float64             `json:"overall_score"` // 0-100
	Issues              []string            `json:"issues"`
	Warnings            []string            `json:"warnings"`
}

// Completeness distinguishes true nulls from blank strings: FillRate also
// treats empty strings as missing.
type Completeness struct {
	NonNullPercentage float64 `json:"non_null_percentage"`
	FillRate          float64 `json:"fill_rate"`
}

// Cardinality relates distinct values to row count.
type Cardinality struct {
	Ratio          float64 `json:"ratio"`
	Classification string  `json:"classification"`
}

// Uniqueness describes duplication among values.
type Uniqueness struct {
	UniqueValuePercentage        float64 `json:"unique_value_percentage"`
	DuplicateCount               int     `json:"duplicate_count"`
	DuplicatedDistinctValueCount int     `json:"duplicated_distinct_value_count"`
}

// DistributionQuality measures how uniformly values spread across
// categories. ShannonEntropy is in natural log units; EvennessScore is
// Pielou's index scaled to 0-100.
type DistributionQuality struct {
	EvennessScore    float64 `json:"evenness_score"`
	ShannonEntropy   float64 `json:"shannon_entropy"`
	DistributionType string  `json:"distribution_type"`
}

// Options carries every profiling threshold explicitly so callers and
// tests can vary them deterministically.
type Options struct {
	// MaxUniqueValues caps the displayed distribution list. Counting and
	// percentages still cover the full scan.
	MaxUniqueValues int `json:"max_unique_values"`
	// TypeThreshold is the fraction of non-null values that must share a
	// numeric kind for the field to count as numeric.
	TypeThreshold float64 `json:"type_threshold"`
	// TemporalMinConfidence is the minimum parse-success fraction for a
	// date format to win.
	TemporalMinConfidence float64 `json:"temporal_min_confidence"`
	// TemporalSampleSize bounds how many values format detection inspects.
	TemporalSampleSize int `json:"temporal_sample_size"`
	// OutlierValueCap bounds the outlier value list in Statistics.
	OutlierValueCap int `json:"outlier_value_cap"`
	// MaxParallelFields bounds cross-field concurrency. <=0 means one
	// worker per CPU.
	MaxParallelFields int `json:"max_parallel_fields"`
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		MaxUniqueValues:       1000,
		TypeThreshold:         0.8,
		TemporalMinConfidence: 0.8,
		TemporalSampleSize:    500,
		OutlierValueCap:       25,
		MaxParallelFields:     0,
	}
}

// Delimiter enumerates the separators a generated script may use.
type Delimiter string

const (
	DelimiterTab       Delimiter = "tab"
	DelimiterPipe      Delimiter = "pipe"
	DelimiterComma     Delimiter = "comma"
	DelimiterSemicolon Delimiter = "semicolon"
)

// Char returns the literal separator character.
func (d Delimiter) Char() (string, error) {
	switch d {
	case DelimiterTab:
		return "\t", nil
	case DelimiterPipe:
		return "|", nil
	case DelimiterComma:
		return ",", nil
	case DelimiterSemicolon:
		return ";", nil
	}
	return "", fmt.Errorf("unsupported delimiter %q", string(d))
}

// ScriptOptions configures script generation.
type ScriptOptions struct {
	Delimiter Delimiter `json:"delimiter"`
	// MaxRowsPerField caps value/count pairs per field; 0 emits every
	// retained pair.
	MaxRowsPerField int `json:"max_rows_per_field"`
}

// DefaultScriptOptions returns tab-delimited, unlimited rows.
func DefaultScriptOptions() ScriptOptions {
	return ScriptOptions{Delimiter: DelimiterTab, MaxRowsPerField: 0}
}
