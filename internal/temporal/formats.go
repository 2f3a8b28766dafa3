package temporal

import (
	"strconv"
	"strings"
	"time"
)

// epoch plausibility windows keep small integers (row ids, measurements)
// from matching as timestamps
const (
	epochSecondsMin = int64(100_000_000)         // 1973-03-03
	epochSecondsMax = int64(100_000_000_000)     // ~5138
	epochMillisMin  = int64(100_000_000_000)     // 1973 in ms
	epochMillisMax  = int64(100_000_000_000_000) // ~5138 in ms
)

// ParseFunc attempts to interpret one raw cell as a point in time.
type ParseFunc func(raw interface{}) (time.Time, bool)

// Candidate is one supported date format. Candidates are tried in
// priority order; ties in confidence go to the earlier entry.
type Candidate struct {
	Name  string
	Parse ParseFunc
}

// Candidates returns the prioritized format list. A fresh slice each call
// so callers cannot perturb the priority order globally.
func Candidates() []Candidate {
	return []Candidate{
		{Name: "native", Parse: parseNative},
		{Name: "ISO 8601 date", Parse: layoutParser("2006-01-02")},
		{Name: "ISO 8601 datetime", Parse: layoutParser("2006-01-02T15:04:05")},
		{Name: "RFC 3339", Parse: layoutParser(time.RFC3339)},
		{Name: "SQL datetime", Parse: layoutParser("2006-01-02 15:04:05")},
		{Name: "Unix epoch seconds", Parse: parseEpochSeconds},
		{Name: "Unix epoch milliseconds", Parse: parseEpochMillis},
		{Name: "US date (MM/DD/YYYY)", Parse: layoutParser("01/02/2006")},
		{Name: "EU date (DD/MM/YYYY)", Parse: layoutParser("02/01/2006")},
		{Name: "US date dashed (MM-DD-YYYY)", Parse: layoutParser("01-02-2006")},
		{Name: "Slashed ISO (YYYY/MM/DD)", Parse: layoutParser("2006/01/02")},
		{Name: "Long date (Jan 2, 2006)", Parse: layoutParser("Jan 2, 2006")},
		{Name: "Long date (2 Jan 2006)", Parse: layoutParser("2 Jan 2006")},
	}
}

func layoutParser(layout string) ParseFunc {
	return func(raw interface{}) (time.Time, bool) {
		s, ok := rawString(raw)
		if !ok {
			return time.Time{}, false
		}
		t, err := time.Parse(layout, s)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
}

func parseNative(raw interface{}) (time.Time, bool) {
	t, ok := raw.(time.Time)
	return t, ok
}

func parseEpochSeconds(raw interface{}) (time.Time, bool) {
	n, ok := rawInt(raw)
	if !ok || n < epochSecondsMin || n >= epochSecondsMax {
		return time.Time{}, false
	}
	return time.Unix(n, 0).UTC(), true
}

func parseEpochMillis(raw interface{}) (time.Time, bool) {
	n, ok := rawInt(raw)
	if !ok || n < epochMillisMin || n >= epochMillisMax {
		return time.Time{}, false
	}
	return time.UnixMilli(n).UTC(), true
}

func rawString(raw interface{}) (string, bool) {
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

func rawInt(raw interface{}) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// DetectFormat scores every candidate against the sample and returns the
// winner with its confidence, or ok=false when nothing clears the
// threshold. Confidence is the fraction of sampled values the format
// parses; ties keep the higher-priority format.
func DetectFormat(sample []interface{}, minConfidence float64) (Candidate, float64, bool) {
	if len(sample) == 0 {
		return Candidate{}, 0, false
	}

	var best Candidate
	bestConfidence := 0.0
	found := false

	for _, cand := range Candidates() {
		parsed := 0
		for _, raw := range sample {
			if _, ok := cand.Parse(raw); ok {
				parsed++
			}
		}
		confidence := float64(parsed) / float64(len(sample))
		if confidence > bestConfidence {
			best = cand
			bestConfidence = confidence
			found = true
		}
	}

	if !found || bestConfidence < minConfidence {
		return Candidate{}, 0, false
	}
	return best, bestConfidence, true
}
