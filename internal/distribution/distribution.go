package distribution

import (
	"math"
	"sort"
	"strconv"
	"time"

	"fieldprof/domain/dataset"
	"fieldprof/domain/profile"
)

// NullKey is the sentinel bucket all null cells aggregate under.
const NullKey = "(null)"

// Result is the outcome of one full frequency scan. Entries is the
// ranked, possibly capped display list; UniqueCount, NullCount and
// FullCounts always reflect the complete scan so downstream percentages
// and entropy stay exact after truncation.
type Result struct {
	Entries     []profile.DistributionEntry
	FullCounts  []int
	TotalRows   int
	UniqueCount int
	NullCount   int
	BlankCount  int
	Truncated   bool
	TruncatedAt int
}

type bucket struct {
	key   string
	count int
	first int
}

// Distribute scans the classified column once, counts occurrences per
// canonical value, then ranks by count descending with ties broken by
// first appearance. When more than cap distinct values exist only the top
// cap entries are retained, but counting is never truncated.
func Distribute(values []dataset.Value, cap int) Result {
	counts := make(map[string]*bucket)
	order := make([]*bucket, 0)

	nullCount := 0
	blankCount := 0
	for i, v := range values {
		if v.Kind == dataset.KindNull {
			nullCount++
		}
		if v.Kind == dataset.KindString && v.Str == "" {
			blankCount++
		}
		key := Canonical(v)
		if b, ok := counts[key]; ok {
			b.count++
			continue
		}
		b := &bucket{key: key, count: 1, first: i}
		counts[key] = b
		order = append(order, b)
	}

	// Stable sort over first-seen order keeps the tiebreak.
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].count > order[j].count
	})

	total := len(values)
	entries := make([]profile.DistributionEntry, len(order))
	fullCounts := make([]int, len(order))
	for i, b := range order {
		entries[i] = profile.DistributionEntry{
			Value:      b.key,
			Count:      b.count,
			Percentage: Percentage(b.count, total),
		}
		fullCounts[i] = b.count
	}

	res := Result{
		Entries:     entries,
		FullCounts:  fullCounts,
		TotalRows:   total,
		UniqueCount: len(order),
		NullCount:   nullCount,
		BlankCount:  blankCount,
	}
	if cap > 0 && len(entries) > cap {
		res.Entries = entries[:cap]
		res.Truncated = true
		res.TruncatedAt = cap
	}
	return res
}

// Canonical maps a classified value to its aggregation key.
func Canonical(v dataset.Value) string {
	switch v.Kind {
	case dataset.KindNull:
		return NullKey
	case dataset.KindBoolean:
		return strconv.FormatBool(v.Bool)
	case dataset.KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case dataset.KindReal:
		return strconv.FormatFloat(v.Real, 'g', -1, 64)
	case dataset.KindDate:
		return v.Time.Format(time.RFC3339)
	}
	return v.Str
}

// Percentage is count/total scaled to 100 and rounded to two decimals.
func Percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round2(float64(count) / float64(total) * 100)
}

// Round2 rounds to two decimal places.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}
