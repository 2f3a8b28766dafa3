package quality

import (
	"fmt"
	"math"

	"fieldprof/domain/profile"
	"fieldprof/internal/distribution"
)

// Weights blend the four contributing metrics into the 0-100 overall
// score. They are a documented, stable implementation choice; tests pin
// them.
type Weights struct {
	Completeness float64
	Cardinality  float64
	Uniqueness   float64
	Evenness     float64
}

// DefaultWeights favors completeness and evenness.
var DefaultWeights = Weights{
	Completeness: 0.35,
	Cardinality:  0.20,
	Uniqueness:   0.15,
	Evenness:     0.30,
}

// Cardinality classification bands. Lower boundary of each band is
// inclusive.
const (
	CardinalityHigh   = "High"
	CardinalityMedium = "Medium"
	CardinalityLow    = "Low"
)

// Distribution type scale, from uniform to concentrated.
const (
	DistributionVeryEven     = "Very Even"
	DistributionEven         = "Even"
	DistributionModerate     = "Moderate"
	DistributionSkewed       = "Skewed"
	DistributionHighlySkewed = "Highly Skewed"
)

// Score derives the advisory quality profile from a full frequency scan.
// It never fails: degenerate inputs degrade to defined values (a single
// distinct value scores 100% evenness, not a division error).
func Score(res distribution.Result) profile.QualityProfile {
	return ScoreWeighted(res, DefaultWeights)
}

// ScoreWeighted is Score with explicit weights.
func ScoreWeighted(res distribution.Result, w Weights) profile.QualityProfile {
	total := res.TotalRows

	nonNullPct := distribution.Percentage(total-res.NullCount, total)
	fillRate := distribution.Percentage(total-res.NullCount-res.BlankCount, total)

	ratio := 0.0
	if total > 0 {
		ratio = float64(res.UniqueCount) / float64(total)
	}

	duplicateCount := 0
	duplicatedDistinct := 0
	for _, c := range res.FullCounts {
		if c > 1 {
			duplicateCount += c - 1
			duplicatedDistinct++
		}
	}

	entropy := shannonEntropy(res.FullCounts, total)
	evenness := evennessScore(entropy, res.UniqueCount)

	q := profile.QualityProfile{
		Completeness: profile.Completeness{
			NonNullPercentage: nonNullPct,
			FillRate:          fillRate,
		},
		Cardinality: profile.Cardinality{
			Ratio:          ratio,
			Classification: classifyCardinality(ratio),
		},
		Uniqueness: profile.Uniqueness{
			UniqueValuePercentage:        distribution.Percentage(res.UniqueCount, total),
			DuplicateCount:               duplicateCount,
			DuplicatedDistinctValueCount: duplicatedDistinct,
		},
		DistributionQuality: profile.DistributionQuality{
			EvennessScore:    evenness,
			ShannonEntropy:   distribution.Round2(entropy),
			DistributionType: classifyEvenness(evenness),
		},
		Issues:   []string{},
		Warnings: []string{},
	}

	identifier := ratio >= 0.95 && res.NullCount == 0
	completenessScore := (nonNullPct + fillRate) / 2
	cardScore := cardinalityFitness(ratio, identifier)
	uniqScore := uniquenessBalance(duplicateCount, total, identifier)

	overall := w.Completeness*completenessScore +
		w.Cardinality*cardScore +
		w.Uniqueness*uniqScore +
		w.Evenness*evenness
	overall = distribution.Round2(math.Min(100, math.Max(0, overall)))
	q.OverallScore = overall

	q.Issues, q.Warnings = diagnose(q, res)
	return q
}

// shannonEntropy is computed in natural log units over the full,
// untruncated frequency distribution.
func shannonEntropy(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	h := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		h -= p * math.Log(p)
	}
	return h
}

// evennessScore is Pielou's index H/ln(k) scaled to 0-100. A field with a
// single distinct value (or none) is perfectly even by definition.
func evennessScore(entropy float64, uniqueCount int) float64 {
	if uniqueCount <= 1 {
		return 100
	}
	return distribution.Round2(entropy / math.Log(float64(uniqueCount)) * 100)
}

func classifyCardinality(ratio float64) string {
	switch {
	case ratio > 0.80:
		return CardinalityHigh
	case ratio >= 0.05:
		return CardinalityMedium
	default:
		return CardinalityLow
	}
}

func classifyEvenness(score float64) string {
	switch {
	case score >= 90:
		return DistributionVeryEven
	case score >= 70:
		return DistributionEven
	case score >= 40:
		return DistributionModerate
	case score >= 20:
		return DistributionSkewed
	default:
		return DistributionHighlySkewed
	}
}

// cardinalityFitness penalizes extreme cardinality unless the field looks
// like an identifier (near-total uniqueness with no nulls).
func cardinalityFitness(ratio float64, identifier bool) float64 {
	switch {
	case identifier:
		return 100
	case ratio >= 0.95:
		return 60
	case ratio < 0.05:
		return 40 + ratio/0.05*60
	default:
		return 100
	}
}

// uniquenessBalance only starts charging once more than half the rows are
// duplicates of earlier rows, reaching zero at full duplication.
func uniquenessBalance(duplicateCount, total int, identifier bool) float64 {
	if identifier || total == 0 {
		return 100
	}
	dupPct := float64(duplicateCount) / float64(total) * 100
	return math.Max(0, 100-math.Max(0, dupPct-50)*2)
}

// diagnose emits issues for the 0-60 band and hard metric breaches, and
// warnings for the 61-80 band and milder ones.
func diagnose(q profile.QualityProfile, res distribution.Result) (issues, warnings []string) {
	issues = []string{}
	warnings = []string{}

	nullRate := 100 - q.Completeness.NonNullPercentage
	blankRate := distribution.Percentage(res.BlankCount, res.TotalRows)

	if q.OverallScore <= 60 {
		issues = append(issues, fmt.Sprintf("low overall quality score (%.2f)", q.OverallScore))
	} else if q.OverallScore <= 80 {
		warnings = append(warnings, fmt.Sprintf("moderate overall quality score (%.2f)", q.OverallScore))
	}

	if nullRate > 50 {
		issues = append(issues, fmt.Sprintf("high null rate (%.2f%%)", nullRate))
	} else if nullRate > 20 {
		warnings = append(warnings, fmt.Sprintf("elevated null rate (%.2f%%)", nullRate))
	}

	if res.UniqueCount == 1 && res.TotalRows > 1 {
		issues = append(issues, "all values identical")
	}

	if q.DistributionQuality.EvennessScore < 20 && res.UniqueCount > 1 {
		warnings = append(warnings, "highly skewed value distribution")
	}

	if blankRate > 10 {
		warnings = append(warnings, fmt.Sprintf("many blank values (%.2f%%)", blankRate))
	}

	return issues, warnings
}
