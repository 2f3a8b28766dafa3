package quality

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldprof/internal/classify"
	"fieldprof/internal/distribution"
)

func scan(raw []interface{}) distribution.Result {
	return distribution.Distribute(classify.Column(raw), 0)
}

func TestScore_EvennessIsPerfectForSingleValue(t *testing.T) {
	q := Score(scan([]interface{}{"X", "X", "X"}))

	assert.Equal(t, 100.0, q.DistributionQuality.EvennessScore)
	assert.Equal(t, DistributionVeryEven, q.DistributionQuality.DistributionType)
	assert.Contains(t, q.Issues, "all values identical")
}

func TestScore_EvennessIsPerfectForUniform(t *testing.T) {
	q := Score(scan([]interface{}{"A", "B", "A", "B"}))

	assert.InDelta(t, 100.0, q.DistributionQuality.EvennessScore, 0.01)
	assert.InDelta(t, math.Log(2), q.DistributionQuality.ShannonEntropy, 0.01)
}

func TestScore_EvennessDropsWithConcentration(t *testing.T) {
	balanced := Score(scan([]interface{}{"A", "A", "B", "B"}))
	skewed := Score(scan([]interface{}{"A", "A", "A", "A", "A", "A", "A", "A", "A", "B"}))

	assert.Greater(t, balanced.DistributionQuality.EvennessScore,
		skewed.DistributionQuality.EvennessScore)
}

func TestScore_CompletenessSeparatesNullsFromBlanks(t *testing.T) {
	q := Score(scan([]interface{}{"a", "", nil, "b"}))

	assert.InDelta(t, 75.0, q.Completeness.NonNullPercentage, 0.001)
	assert.InDelta(t, 50.0, q.Completeness.FillRate, 0.001)
}

func TestScore_CardinalityBands(t *testing.T) {
	cases := []struct {
		ratio float64
		want  string
	}{
		{0.81, CardinalityHigh},
		{0.80, CardinalityMedium},
		{0.05, CardinalityMedium},
		{0.049, CardinalityLow},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, classifyCardinality(tc.ratio), "ratio %f", tc.ratio)
	}
}

func TestScore_Uniqueness(t *testing.T) {
	q := Score(scan([]interface{}{"a", "a", "a", "b", "b", "c"}))

	// Two extra "a"s and one extra "b".
	assert.Equal(t, 3, q.Uniqueness.DuplicateCount)
	assert.Equal(t, 2, q.Uniqueness.DuplicatedDistinctValueCount)
	assert.InDelta(t, 50.0, q.Uniqueness.UniqueValuePercentage, 0.001)
}

func TestScore_WeightsArePinned(t *testing.T) {
	// The blend is a documented, stable constant. Scenario: "A","A","B".
	q := Score(scan([]interface{}{"A", "A", "B"}))

	entropy := -(2.0/3.0)*math.Log(2.0/3.0) - (1.0/3.0)*math.Log(1.0/3.0)
	evenness := math.Round(entropy/math.Log(2)*100*100) / 100
	want := 0.35*100 + 0.20*100 + 0.15*100 + 0.30*evenness
	assert.InDelta(t, want, q.OverallScore, 0.01)
}

func TestScore_IdentifierIsNotPenalized(t *testing.T) {
	rows := make([]interface{}, 100)
	for i := range rows {
		rows[i] = fmt.Sprintf("id-%03d", i)
	}
	q := Score(scan(rows))

	assert.Equal(t, CardinalityHigh, q.Cardinality.Classification)
	assert.Equal(t, 100.0, q.OverallScore)
	assert.Empty(t, q.Issues)
}

func TestScore_HighNullRateIsAnIssue(t *testing.T) {
	q := Score(scan([]interface{}{nil, nil, nil, "a"}))

	require.NotEmpty(t, q.Issues)
	assert.Contains(t, q.Issues[len(q.Issues)-1], "high null rate")
}

func TestScore_NeverPanicsOnDegenerateInput(t *testing.T) {
	assert.NotPanics(t, func() {
		q := Score(scan(nil))
		assert.Equal(t, 100.0, q.DistributionQuality.EvennessScore)
	})
	assert.NotPanics(t, func() { Score(scan([]interface{}{nil})) })
}

func TestScore_ClampedToHundred(t *testing.T) {
	q := Score(scan([]interface{}{"a", "b", "c", "d"}))
	assert.LessOrEqual(t, q.OverallScore, 100.0)
	assert.GreaterOrEqual(t, q.OverallScore, 0.0)
}
