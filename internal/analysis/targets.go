package analysis

import (
	"fmt"
	"sort"

	"runcoach/internal/store"
)

// Coarse training-intensity keys used by the theory+history blend.
const (
	IntensityEasy     = "easy"
	IntensityTempo    = "tempo"
	IntensityInterval = "interval"
)

// intensityAssumption ties a coarse intensity to its typical fraction of
// max HR and the history depth needed before blending kicks in.
type intensityAssumption struct {
	pctMax  float64 // percent of max HR
	minRuns int
}

var intensityAssumptions = map[string]intensityAssumption{
	IntensityEasy:     {pctMax: 65, minRuns: 5},
	IntensityTempo:    {pctMax: 80, minRuns: 3},
	IntensityInterval: {pctMax: 90, minRuns: 3},
}

// TargetInput is one historical run's contribution to calibration.
type TargetInput struct {
	Category   string
	IsInterval bool
	Efficiency *float64
	Drift      *float64 // percent
}

// TanakaMaxHR estimates maximal heart rate from age.
func TanakaMaxHR(age int) float64 {
	return 208 - 0.7*float64(age)
}

// TheoreticalDrift derives an expected 30-minute cardiac drift percentage
// from the age-based drift-rate formula at a given fraction of max HR.
func TheoreticalDrift(age int, pctMax float64) float64 {
	maxHR := TanakaMaxHR(age)
	rate := -0.0514 + 0.0240*pctMax - 0.0172*float64(age) // bpm per minute
	meanHR := maxHR * pctMax / 100
	if meanHR <= 0 {
		return 0
	}
	ratio := 1 + rate*30/meanHR
	if ratio < 1 {
		ratio = 1
	}
	return roundTo((ratio-1)*100, 2)
}

// TheoreticalEfficiency falls with intensity; floored at 0.5.
func TheoreticalEfficiency(pctMax float64) float64 {
	eff := 2.0 - pctMax/100*1.5
	if eff < 0.5 {
		eff = 0.5
	}
	return eff
}

// BlendedTargets computes a target per coarse intensity from the Tanaka
// theory, blended 60/40 with the athlete's best history when enough
// same-intensity runs exist. With thin history the target is theory-only
// and flagged so callers can surface the fallback.
func BlendedTargets(age int, runs []TargetInput, tun Tunables) []store.PersonalizedTarget {
	maxHR := roundTo(TanakaMaxHR(age), 0)

	var targets []store.PersonalizedTarget
	for _, intensity := range []string{IntensityEasy, IntensityTempo, IntensityInterval} {
		assume := intensityAssumptions[intensity]

		var effs, drifts []float64
		for _, r := range runs {
			if !matchesIntensity(r, intensity, tun) || r.Efficiency == nil || r.Drift == nil {
				continue
			}
			effs = append(effs, *r.Efficiency)
			drifts = append(drifts, *r.Drift)
		}

		effTheo := TheoreticalEfficiency(assume.pctMax)
		driftTheo := TheoreticalDrift(age, assume.pctMax)

		target := store.PersonalizedTarget{
			Category:       intensity,
			ReferenceMaxHR: maxHR,
			SampleSize:     len(effs),
		}

		if len(effs) >= assume.minRuns {
			w := tun.BlendHistoryWeight
			target.EfficiencyTarget = roundTo(w*topQuartileMedian(effs)+(1-w)*effTheo, 2)
			target.DriftTarget = roundTo(w*bottomQuartileMedian(drifts)+(1-w)*driftTheo, 2)
		} else {
			target.EfficiencyTarget = roundTo(effTheo, 2)
			target.DriftTarget = roundTo(driftTheo, 2)
			target.TheoryOnly = true
		}

		targets = append(targets, target)
	}
	return targets
}

// matchesIntensity maps fine run categories onto coarse intensities:
// interval sessions by their flag, long runs as easy aerobic work, the
// remaining sub-long runs as tempo-grade effort.
func matchesIntensity(r TargetInput, intensity string, tun Tunables) bool {
	switch intensity {
	case IntensityInterval:
		return r.IsInterval
	case IntensityEasy:
		return r.Category == store.CategoryLongRun && !r.IsInterval
	case IntensityTempo:
		return !r.IsInterval &&
			(r.Category == store.CategoryFastShort ||
				r.Category == store.CategoryRecoveryShort ||
				r.Category == store.CategoryMidDistance)
	}
	return false
}

// topQuartileMedian is the median of the best (highest) quarter of values.
func topQuartileMedian(xs []float64) float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	idx := int(float64(len(sorted)) * 0.75)
	if idx >= len(sorted) {
		return median(sorted)
	}
	return median(sorted[idx:])
}

// bottomQuartileMedian is the median of the best (lowest) quarter of values.
func bottomQuartileMedian(xs []float64) float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	idx := int(float64(len(sorted)) * 0.25)
	if idx == 0 {
		return median(sorted)
	}
	return median(sorted[:idx+1])
}

// PercentileTargets recalibrates each fine run category from its own
// historical distribution: the 30th efficiency percentile and the 40th
// drift percentile, clamped above the category's physiological drift
// floor. Categories with fewer than 5 clean points are skipped.
func PercentileTargets(runs []TargetInput, referenceMaxHR float64, tun Tunables) []store.PersonalizedTarget {
	var targets []store.PersonalizedTarget
	for _, category := range store.Categories {
		var effs, drifts []float64
		for _, r := range runs {
			if r.Category != category || r.Efficiency == nil || r.Drift == nil {
				continue
			}
			if *r.Efficiency <= 0 || *r.Efficiency >= tun.EfficiencyOutlierMax {
				continue
			}
			if *r.Drift <= tun.DriftOutlierMin || *r.Drift >= tun.DriftOutlierMax {
				continue
			}
			effs = append(effs, *r.Efficiency)
			drifts = append(drifts, *r.Drift)
		}
		if len(effs) < tun.MinPercentilePoints {
			continue
		}

		driftTarget := percentile(drifts, tun.DriftPercentile)
		if floor, ok := tun.DriftFloors[category]; ok && driftTarget < floor {
			driftTarget = floor
		}

		targets = append(targets, store.PersonalizedTarget{
			Category:         category,
			EfficiencyTarget: roundTo(percentile(effs, tun.EfficiencyPercentile), 2),
			DriftTarget:      roundTo(driftTarget, 2),
			ReferenceMaxHR:   referenceMaxHR,
			SampleSize:       len(effs),
		})
	}
	return targets
}

// RecalibrationResult describes what the weekly trigger evaluation did.
type RecalibrationResult struct {
	Tightened []string // categories whose targets tightened 5%
	Relaxed   bool     // all targets relaxed 3%
	Updated   []store.PersonalizedTarget
	Changelog []string
}

// EvaluateRecalibration applies the automatic weekly triggers. Tightening
// wins when at least 2 categories have their last-10 averages at or beyond
// both targets; otherwise 4 straight sub-threshold weekly scores relax
// every target. The two triggers never fire together.
func EvaluateRecalibration(targets []store.PersonalizedTarget, recent map[string][]HistoryPoint, weeklyScores []float64, tun Tunables) RecalibrationResult {
	var result RecalibrationResult

	var beating []int
	for i, t := range targets {
		points := recent[t.Category]
		if len(points) == 0 {
			continue
		}
		var effs, drifts []float64
		for _, p := range points {
			effs = append(effs, p.Efficiency)
			drifts = append(drifts, p.Drift)
		}
		if mean(effs) >= t.EfficiencyTarget && mean(drifts) <= t.DriftTarget {
			beating = append(beating, i)
		}
	}

	if len(beating) >= tun.TightenMinCategories {
		for _, i := range beating {
			t := targets[i]
			oldEff, oldDrift := t.EfficiencyTarget, t.DriftTarget
			t.EfficiencyTarget = roundTo(t.EfficiencyTarget*(1+tun.TightenStep), 2)
			t.DriftTarget = roundTo(t.DriftTarget*(1-tun.TightenStep), 2)
			result.Tightened = append(result.Tightened, t.Category)
			result.Updated = append(result.Updated, t)
			result.Changelog = append(result.Changelog, fmt.Sprintf(
				"tightened %s: efficiency %.2f -> %.2f, drift %.2f -> %.2f (last-10 averages beat both targets)",
				t.Category, oldEff, t.EfficiencyTarget, oldDrift, t.DriftTarget))
		}
		return result
	}

	if len(weeklyScores) >= tun.RelaxWeeks {
		allBelow := true
		for _, s := range weeklyScores[:tun.RelaxWeeks] {
			if s >= tun.RelaxScoreThreshold {
				allBelow = false
				break
			}
		}
		if allBelow {
			result.Relaxed = true
			for _, t := range targets {
				oldEff, oldDrift := t.EfficiencyTarget, t.DriftTarget
				t.EfficiencyTarget = roundTo(t.EfficiencyTarget*(1-tun.RelaxStep), 2)
				t.DriftTarget = roundTo(t.DriftTarget*(1+tun.RelaxStep), 2)
				result.Updated = append(result.Updated, t)
				result.Changelog = append(result.Changelog, fmt.Sprintf(
					"relaxed %s: efficiency %.2f -> %.2f, drift %.2f -> %.2f (%d straight weeks under %.1f)",
					t.Category, oldEff, t.EfficiencyTarget, oldDrift, t.DriftTarget,
					tun.RelaxWeeks, tun.RelaxScoreThreshold))
			}
		}
	}

	return result
}
