package models

// Quality is a discrete label summarizing a numeric score for human
// consumption. Thresholds differ by stage: pair-level scores use the fine
// six-step scale, aggregated and post-bonus scores use coarser four-step
// scales (post-bonus scores run higher, so their cutoffs sit higher too).
type Quality string

const (
	QualityPerfect   Quality = "perfect"
	QualityExcellent Quality = "excellent"
	QualityGreat     Quality = "great"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
)

// PairQuality classifies a pair-level score (equivalence or final pair
// score): Perfect ≥0.95, Excellent ≥0.90, Great ≥0.80, Good ≥0.70,
// Fair ≥0.60, Poor otherwise.
func PairQuality(score float64) Quality {
	switch {
	case score >= 0.95:
		return QualityPerfect
	case score >= 0.90:
		return QualityExcellent
	case score >= 0.80:
		return QualityGreat
	case score >= 0.70:
		return QualityGood
	case score >= 0.60:
		return QualityFair
	default:
		return QualityPoor
	}
}

// MatchQuality classifies a participant-level aggregated score:
// Excellent ≥0.85, Good ≥0.70, Fair ≥0.50, Poor otherwise.
func MatchQuality(score float64) Quality {
	switch {
	case score >= 0.85:
		return QualityExcellent
	case score >= 0.70:
		return QualityGood
	case score >= 0.50:
		return QualityFair
	default:
		return QualityPoor
	}
}

// FinalQuality classifies a post-bonus score: Excellent ≥0.90, Good ≥0.75,
// Fair ≥0.50, Poor otherwise.
func FinalQuality(score float64) Quality {
	switch {
	case score >= 0.90:
		return QualityExcellent
	case score >= 0.75:
		return QualityGood
	case score >= 0.50:
		return QualityFair
	default:
		return QualityPoor
	}
}
