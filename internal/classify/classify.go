package classify

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"fieldprof/domain/dataset"
)

// Classify inspects one raw cell and assigns its kind. The absence marker
// (nil) is null; an empty string is a string, not null, so fill-rate
// semantics can tell "absent" from "empty". Numeric classification
// requires the whole string to parse; anything unparseable falls through
// to string. Date-likeness is a field-level decision (see
// internal/temporal), so date strings classify as string here.
func Classify(raw interface{}) dataset.Value {
	switch v := raw.(type) {
	case nil:
		return dataset.Null()
	case bool:
		return dataset.Boolean(v)
	case int:
		return dataset.Integer(int64(v))
	case int32:
		return dataset.Integer(int64(v))
	case int64:
		return dataset.Integer(v)
	case float32:
		return classifyFloat(float64(v))
	case float64:
		return classifyFloat(v)
	case time.Time:
		return dataset.Date(v)
	case string:
		return classifyString(v)
	}
	return dataset.String(stringify(raw))
}

func classifyFloat(f float64) dataset.Value {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && !math.IsNaN(f) &&
		f >= math.MinInt64 && f <= math.MaxInt64 {
		return dataset.Integer(int64(f))
	}
	return dataset.Real(f)
}

func classifyString(s string) dataset.Value {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return dataset.String(s)
	}
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return dataset.Integer(i)
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return dataset.Real(f)
	}
	switch strings.ToLower(trimmed) {
	case "true", "false":
		b, _ := strconv.ParseBool(strings.ToLower(trimmed))
		return dataset.Boolean(b)
	}
	return dataset.String(s)
}

func stringify(raw interface{}) string {
	return fmt.Sprintf("%v", raw)
}

// Column classifies every value of a field in row order.
func Column(values []interface{}) []dataset.Value {
	out := make([]dataset.Value, len(values))
	for i, raw := range values {
		out[i] = Classify(raw)
	}
	return out
}

// NumericValues extracts the numeric payloads of a classified column.
func NumericValues(values []dataset.Value) []float64 {
	nums := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := v.Float(); ok {
			nums = append(nums, f)
		}
	}
	return nums
}

// IsNumericField reports whether at least threshold of the non-null
// values are numeric, with at least one numeric value present.
func IsNumericField(values []dataset.Value, threshold float64) bool {
	nonNull := 0
	numeric := 0
	for _, v := range values {
		if v.Kind == dataset.KindNull {
			continue
		}
		nonNull++
		if v.Kind.IsNumeric() {
			numeric++
		}
	}
	if nonNull == 0 || numeric == 0 {
		return false
	}
	return float64(numeric)/float64(nonNull) >= threshold
}
