package report

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldprof/domain/dataset"
	"fieldprof/domain/profile"
	"fieldprof/internal/profiler"
)

func profileOf(t *testing.T, field string, values ...interface{}) []profile.FieldProfile {
	t.Helper()
	rows := make([]dataset.Row, len(values))
	for i, v := range values {
		rows[i] = dataset.Row{field: v}
	}
	got, err := profiler.NewDefault().Profile(context.Background(),
		dataset.NewTable([]string{field}, rows), []string{field})
	require.NoError(t, err)
	return got
}

func TestRender_CategoricalField(t *testing.T) {
	out := Render(profileOf(t, "status", "A", "A", "B"), "orders.csv")

	assert.Contains(t, out, "# Field Profile Report")
	assert.Contains(t, out, "Source: `orders.csv`")
	assert.Contains(t, out, "## status")
	assert.Contains(t, out, "| A | 2 | 66.67 |")
	assert.Contains(t, out, "| B | 1 | 33.33 |")
	assert.NotContains(t, out, "### Statistics")
	assert.NotContains(t, out, "### Temporal")
}

func TestRender_NumericField(t *testing.T) {
	out := Render(profileOf(t, "amount", 1, 2, 3, 4, 5), "")

	assert.Contains(t, out, "### Statistics")
	assert.Contains(t, out, "mean 3")
	assert.NotContains(t, out, "Source:")
}

func TestRender_StatisticsNotApplicable(t *testing.T) {
	out := Render(profileOf(t, "amount", 42), "")

	assert.Contains(t, out, "### Statistics")
	assert.Contains(t, out, "Not applicable: fewer than two numeric values.")
}

func TestRender_TemporalSection(t *testing.T) {
	out := Render(profileOf(t, "created",
		"2024-01-01", "2024-01-02", "2024-01-03"), "")

	assert.Contains(t, out, "### Temporal")
	assert.Contains(t, out, "ISO 8601 date")
	assert.Contains(t, out, "Gaps: none")
}

func TestRender_EscapesPipesInValues(t *testing.T) {
	out := Render(profileOf(t, "f", "a|b", "a|b"), "")

	assert.Contains(t, out, `| a\|b | 2 |`)
}

func TestRender_LongTailIsElided(t *testing.T) {
	values := make([]interface{}, 0, 20)
	for i := 0; i < 20; i++ {
		values = append(values, fmt.Sprintf("v%02d", i))
	}
	out := Render(profileOf(t, "f", values...), "")

	assert.Contains(t, out, "_5 further values omitted from this report._")
	assert.Equal(t, 15, strings.Count(out, "| v"))
}
