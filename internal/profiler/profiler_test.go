package profiler

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldprof/domain/dataset"
	"fieldprof/domain/profile"
	"fieldprof/internal/errors"
)

func tableOf(field string, values ...interface{}) *dataset.Table {
	rows := make([]dataset.Row, len(values))
	for i, v := range values {
		rows[i] = dataset.Row{field: v}
	}
	return dataset.NewTable([]string{field}, rows)
}

func TestProfile_CategoricalField(t *testing.T) {
	table := tableOf("status", "A", "A", "B")
	got, err := NewDefault().Profile(context.Background(), table, []string{"status"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	fp := got[0]
	assert.Equal(t, "status", fp.FieldName)
	assert.Equal(t, 3, fp.TotalRows)
	assert.Equal(t, 2, fp.UniqueValueCount)
	assert.Equal(t, 0, fp.NullCount)
	assert.False(t, fp.IsNumeric)
	assert.Nil(t, fp.Statistics)
	assert.Nil(t, fp.Temporal)

	require.Len(t, fp.Distributions, 2)
	assert.Equal(t, "A", fp.Distributions[0].Value)
	assert.InDelta(t, 66.67, fp.Distributions[0].Percentage, 0.001)
	assert.Greater(t, fp.Quality.OverallScore, 80.0)
}

func TestProfile_NumericField(t *testing.T) {
	table := tableOf("amount", 1, 2, 3, 4, 5)
	got, err := NewDefault().Profile(context.Background(), table, []string{"amount"})
	require.NoError(t, err)

	fp := got[0]
	assert.True(t, fp.IsNumeric)
	require.NotNil(t, fp.Statistics)
	assert.Equal(t, 3.0, fp.Statistics.Descriptive.Mean)
	assert.InDelta(t, 2.0, fp.Statistics.Spread.Variance, 1e-9)
	assert.Nil(t, fp.Temporal, "plain small integers are not timestamps")
}

func TestProfile_NumericStringsCountAsNumeric(t *testing.T) {
	table := tableOf("amount", "10", "20", "30")
	got, err := NewDefault().Profile(context.Background(), table, []string{"amount"})
	require.NoError(t, err)

	fp := got[0]
	assert.True(t, fp.IsNumeric)
	require.NotNil(t, fp.Statistics)
	assert.Equal(t, 20.0, fp.Statistics.Descriptive.Mean)
}

func TestProfile_SingleNumericValueHasNilStatistics(t *testing.T) {
	table := tableOf("amount", 42)
	got, err := NewDefault().Profile(context.Background(), table, []string{"amount"})
	require.NoError(t, err)

	fp := got[0]
	assert.True(t, fp.IsNumeric)
	assert.Nil(t, fp.Statistics, "variance is undefined below two values")
}

func TestProfile_DateField(t *testing.T) {
	table := tableOf("created",
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04",
		"2024-01-14", "2024-01-15")
	got, err := NewDefault().Profile(context.Background(), table, []string{"created"})
	require.NoError(t, err)

	fp := got[0]
	require.NotNil(t, fp.Temporal)
	assert.Equal(t, "ISO 8601 date", fp.Temporal.DetectedFormat.Name)
	assert.True(t, fp.Temporal.Gaps.HasGaps)
	assert.Equal(t, 10, fp.Temporal.Gaps.LargestGapDays)
	assert.False(t, fp.IsNumeric)
	assert.Nil(t, fp.Statistics)
}

func TestProfile_NullHandling(t *testing.T) {
	table := tableOf("f", "a", nil, "", "a")
	got, err := NewDefault().Profile(context.Background(), table, []string{"f"})
	require.NoError(t, err)

	fp := got[0]
	assert.Equal(t, 1, fp.NullCount, "empty string is not a null")
	assert.Equal(t, 3, fp.UniqueValueCount)
	assert.InDelta(t, 75.0, fp.Quality.Completeness.NonNullPercentage, 0.001)
	assert.InDelta(t, 50.0, fp.Quality.Completeness.FillRate, 0.001)
}

func TestProfile_TruncationKeepsFullCounting(t *testing.T) {
	values := make([]interface{}, 50)
	for i := range values {
		values[i] = fmt.Sprintf("v%02d", i)
	}
	engine := New(profile.Options{
		MaxUniqueValues:       10,
		TypeThreshold:         0.8,
		TemporalMinConfidence: 0.8,
		TemporalSampleSize:    500,
		OutlierValueCap:       25,
	})
	got, err := engine.Profile(context.Background(), tableOf("f", values...), []string{"f"})
	require.NoError(t, err)

	fp := got[0]
	assert.True(t, fp.Truncated)
	assert.Equal(t, 10, fp.TruncatedAt)
	assert.Len(t, fp.Distributions, 10)
	assert.Equal(t, 50, fp.UniqueValueCount)
	assert.InDelta(t, 1.0, fp.Quality.Cardinality.Ratio, 1e-9)
}

func TestProfile_MultipleFieldsKeepRequestOrder(t *testing.T) {
	table := dataset.NewTable([]string{"a", "b", "c"}, []dataset.Row{
		{"a": 1, "b": "x", "c": "2024-01-01"},
		{"a": 2, "b": "y", "c": "2024-01-02"},
		{"a": 3, "b": "x", "c": "2024-01-03"},
	})
	got, err := NewDefault().Profile(context.Background(), table, []string{"c", "a", "b"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].FieldName)
	assert.Equal(t, "a", got[1].FieldName)
	assert.Equal(t, "b", got[2].FieldName)
	assert.True(t, got[1].IsNumeric)
	assert.NotNil(t, got[0].Temporal)
}

func TestProfile_IsDeterministic(t *testing.T) {
	table := dataset.NewTable([]string{"a", "b"}, []dataset.Row{
		{"a": 1, "b": "x"},
		{"a": 2, "b": "y"},
		{"a": 2, "b": "x"},
		{"a": nil, "b": ""},
	})
	engine := NewDefault()

	first, err := engine.Profile(context.Background(), table, []string{"a", "b"})
	require.NoError(t, err)
	second, err := engine.Profile(context.Background(), table, []string{"a", "b"})
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(first, second),
		"same table and options must produce identical profiles")
}

func TestProfile_ErrorTaxonomy(t *testing.T) {
	engine := NewDefault()
	ctx := context.Background()

	_, err := engine.Profile(ctx, nil, []string{"f"})
	assert.Equal(t, errors.CodeEmptyDataset, errors.GetCode(err))

	_, err = engine.Profile(ctx, dataset.NewTable([]string{"f"}, nil), []string{"f"})
	assert.Equal(t, errors.CodeEmptyDataset, errors.GetCode(err))

	table := tableOf("f", "a")
	_, err = engine.Profile(ctx, table, nil)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = engine.Profile(ctx, table, []string{"missing"})
	assert.Equal(t, errors.CodeFieldNotFound, errors.GetCode(err))
	assert.Contains(t, err.Error(), "missing")
}

type failingReader struct{}

func (failingReader) ReadRows(ctx context.Context, source string, maxRows int) (*dataset.Table, error) {
	return nil, fmt.Errorf("disk on fire")
}

type staticReader struct {
	table *dataset.Table
}

func (r staticReader) ReadRows(ctx context.Context, source string, maxRows int) (*dataset.Table, error) {
	return r.table, nil
}

func TestProfileSource_WrapsReaderFailure(t *testing.T) {
	_, err := NewDefault().ProfileSource(context.Background(), failingReader{}, "broken.csv", 0, nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeUpstreamRead, errors.GetCode(err))
	assert.Contains(t, err.Error(), "broken.csv")
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestProfileSource_DefaultsToAllFields(t *testing.T) {
	reader := staticReader{table: dataset.NewTable([]string{"x", "y"}, []dataset.Row{
		{"x": 1, "y": "a"},
		{"x": 2, "y": "b"},
	})}
	got, err := NewDefault().ProfileSource(context.Background(), reader, "any", 0, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "x", got[0].FieldName)
	assert.Equal(t, "y", got[1].FieldName)
}

func TestProfile_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := New(profile.Options{MaxUniqueValues: 1000, TypeThreshold: 0.8,
		TemporalMinConfidence: 0.8, TemporalSampleSize: 500,
		OutlierValueCap: 25, MaxParallelFields: 1})

	// With a single worker the first acquire already observes cancellation.
	_, err := engine.Profile(ctx, tableOf("f", "a", "b"), []string{"f"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `profiling cancelled at field "f"`)
	assert.Equal(t, errors.CodeInternalError, errors.GetCode(err))
}
