// Package equivalence scores how fair a barter trade is purely in numeric
// terms: flat value ratio for permanent exchanges, daily-rate ratio for
// temporary ones, and a duration conversion for explicit mixed comparisons.
package equivalence

import (
	"fmt"
	"math"

	"github.com/adilzhanb/baribar/internal/config"
	"github.com/adilzhanb/baribar/internal/models"
)

// Result describes one equivalence comparison. Violated bounds produce a
// zero score with an explanation, never an error.
type Result struct {
	IsMatch           bool
	Score             float64
	Quality           models.Quality
	DifferencePercent float64
	Explanation       string
}

// Engine computes value-equivalence scores against the configured bounds.
type Engine struct {
	minValue      float64
	minDuration   int
	maxDuration   int
	minMatchScore float64
	tolerance     float64
}

// NewEngine builds an Engine from a validated configuration.
func NewEngine(cfg config.Config) *Engine {
	return &Engine{
		minValue:      cfg.MinValue,
		minDuration:   cfg.MinDurationDays,
		maxDuration:   cfg.MaxDurationDays,
		minMatchScore: cfg.MinMatchScore,
		tolerance:     cfg.ValueTolerance,
	}
}

// PermanentScore compares two flat values: diff_ratio = |a-b| / max(a,b),
// score = 1 - diff_ratio. Symmetric in its arguments.
func (e *Engine) PermanentScore(valueA, valueB float64) Result {
	if r, bad := e.checkValue("first", valueA); bad {
		return r
	}
	if r, bad := e.checkValue("second", valueB); bad {
		return r
	}
	return e.ratioResult(valueA, valueB, "value")
}

// TemporaryScore compares two time-bounded exchanges by their daily rates
// (value / duration), then applies the same ratio formula.
func (e *Engine) TemporaryScore(valueA float64, durationA int, valueB float64, durationB int) Result {
	if r, bad := e.checkValue("first", valueA); bad {
		return r
	}
	if r, bad := e.checkValue("second", valueB); bad {
		return r
	}
	if r, bad := e.checkDuration("first", durationA); bad {
		return r
	}
	if r, bad := e.checkDuration("second", durationB); bad {
		return r
	}

	rateA := valueA / float64(durationA)
	rateB := valueB / float64(durationB)
	return e.ratioResult(rateA, rateB, "daily rate")
}

// MixedScore compares a permanent value against a temporary exchange by
// converting the temporary side to its implied permanent-equivalent value
// (daily rate × target duration). This is a distinct, explicitly requested
// path: plain pairwise validation still rejects mismatched kinds.
func (e *Engine) MixedScore(permValue, tempValue float64, tempDuration, targetDuration int) Result {
	if r, bad := e.checkValue("permanent", permValue); bad {
		return r
	}
	if r, bad := e.checkValue("temporary", tempValue); bad {
		return r
	}
	if r, bad := e.checkDuration("temporary", tempDuration); bad {
		return r
	}
	if r, bad := e.checkDuration("target", targetDuration); bad {
		return r
	}

	implied := tempValue / float64(tempDuration) * float64(targetDuration)
	return e.ratioResult(permValue, implied, "implied value")
}

func (e *Engine) ratioResult(a, b float64, unit string) Result {
	larger := math.Max(a, b)
	diffRatio := math.Abs(a-b) / larger
	score := math.Max(0, 1-diffRatio)

	return Result{
		IsMatch:           score >= e.minMatchScore,
		Score:             score,
		Quality:           models.PairQuality(score),
		DifferencePercent: diffRatio * 100,
		Explanation: fmt.Sprintf("%s difference %.1f%% (tolerance ±%.0f%%), score %.3f",
			unit, diffRatio*100, e.tolerance*100, score),
	}
}

func (e *Engine) checkValue(side string, v float64) (Result, bool) {
	if v >= e.minValue {
		return Result{}, false
	}
	return Result{
		Quality:           models.QualityPoor,
		DifferencePercent: 100,
		Explanation:       fmt.Sprintf("%s value %.2f is below the minimum %.2f", side, v, e.minValue),
	}, true
}

func (e *Engine) checkDuration(side string, d int) (Result, bool) {
	if d >= e.minDuration && d <= e.maxDuration {
		return Result{}, false
	}
	return Result{
		Quality:           models.QualityPoor,
		DifferencePercent: 100,
		Explanation: fmt.Sprintf("%s duration %d days is outside [%d,%d]",
			side, d, e.minDuration, e.maxDuration),
	}, true
}
