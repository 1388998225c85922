package analysis

import (
	"fmt"
	"time"

	"runcoach/internal/store"
)

// RunMatch pairs a planned run with the activity that realized it.
type RunMatch struct {
	Planned  store.PlannedRun
	Activity *store.Activity // nil when the planned run was missed
	ByDate   bool            // matched on date rather than category
	Note     string          // athlete's free-text feedback, "" when absent
}

// WeekReport is the full weekly review: the composite score record plus
// its qualitative breakdown.
type WeekReport struct {
	Record       store.WeeklyScoreRecord
	Matches      []RunMatch
	PlannedKm    float64
	RealizedKm   float64
	Strengths    []string
	Improvements []string
}

// ScoreWeek grades a finished week against its program. Each planned run
// matches at most one activity, preferring the same date, then the same
// category anywhere in the week. Component scores are 0-10; the composite
// weights volume 20%, adherence 20%, type respect 20%, quality 30% and
// regularity 10%. Notes carry athlete feedback per activity id straight
// through to the matches; a nil map is fine.
func ScoreWeek(program store.WeeklyProgram, activities []store.Activity, metrics map[int64]*store.ActivityMetrics, targets []store.PersonalizedTarget, prevScore *float64, notes map[int64]string, tun Tunables) WeekReport {
	report := WeekReport{}
	report.Record.WeekNumber = program.WeekNumber

	matches, used := matchRuns(program.PlannedRuns, activities)
	for i := range matches {
		if matches[i].Activity != nil {
			matches[i].Note = notes[matches[i].Activity.ID]
		}
	}
	report.Matches = matches

	for _, p := range program.PlannedRuns {
		report.PlannedKm += p.DistanceKm
	}
	for _, a := range activities {
		report.RealizedKm += a.DistanceKm()
	}

	completed := 0
	typeMatched := 0
	for _, m := range matches {
		if m.Activity == nil {
			continue
		}
		completed++
		if m.Activity.Category == m.Planned.Category {
			typeMatched++
		}
	}

	volume := 0.0
	if report.PlannedKm > 0 {
		volume = report.RealizedKm / report.PlannedKm * 10
		if volume > 10 {
			volume = 10
		}
	}

	adherence := 0.0
	if len(program.PlannedRuns) > 0 {
		adherence = float64(completed) / float64(len(program.PlannedRuns)) * 10
	}

	typeScore := 0.0
	if completed > 0 {
		typeScore = float64(typeMatched) / float64(completed) * 10
	}

	quality := qualityScore(activities, metrics, targets, used)
	regularity := regularityScore(activities)

	rec := &report.Record
	rec.Volume = roundTo(volume, 1)
	rec.Adherence = roundTo(adherence, 1)
	rec.TypeMatch = roundTo(typeScore, 1)
	rec.Quality = roundTo(quality, 1)
	rec.Regularity = roundTo(regularity, 1)
	rec.Score = roundTo(0.20*volume+0.20*adherence+0.20*typeScore+0.30*quality+0.10*regularity, 1)

	rec.Trend = "stable"
	if prevScore != nil {
		switch {
		case rec.Score-*prevScore > tun.TrendDeadband:
			rec.Trend = "up"
		case rec.Score-*prevScore < -tun.TrendDeadband:
			rec.Trend = "down"
		}
	}

	components := []struct {
		name  string
		value float64
	}{
		{"volume", rec.Volume},
		{"adherence", rec.Adherence},
		{"session types", rec.TypeMatch},
		{"quality vs targets", rec.Quality},
		{"regularity", rec.Regularity},
	}
	for _, c := range components {
		if c.value >= tun.StrengthThreshold {
			report.Strengths = append(report.Strengths, fmt.Sprintf("%s (%.1f/10)", c.name, c.value))
		} else if c.value < tun.ImprovementThreshold {
			report.Improvements = append(report.Improvements, fmt.Sprintf("%s (%.1f/10)", c.name, c.value))
		}
	}

	return report
}

// matchRuns assigns activities to planned runs, date first then category.
// Each activity realizes at most one planned run.
func matchRuns(planned []store.PlannedRun, activities []store.Activity) ([]RunMatch, map[int64]bool) {
	used := make(map[int64]bool)
	matches := make([]RunMatch, len(planned))

	for i, p := range planned {
		matches[i] = RunMatch{Planned: p}
		for j := range activities {
			a := &activities[j]
			if used[a.ID] {
				continue
			}
			if a.StartDate.Format("2006-01-02") == p.Date {
				matches[i].Activity = a
				matches[i].ByDate = true
				used[a.ID] = true
				break
			}
		}
	}

	for i, p := range planned {
		if matches[i].Activity != nil {
			continue
		}
		for j := range activities {
			a := &activities[j]
			if used[a.ID] || a.Category != p.Category {
				continue
			}
			matches[i].Activity = a
			used[a.ID] = true
			break
		}
	}

	return matches, used
}

// qualityScore compares the week's mean efficiency and drift to the mean
// calibrated targets. Without targets or metrics it defaults to 7.
func qualityScore(activities []store.Activity, metrics map[int64]*store.ActivityMetrics, targets []store.PersonalizedTarget, used map[int64]bool) float64 {
	const defaultQuality = 7.0
	if len(targets) == 0 {
		return defaultQuality
	}

	var effs, drifts []float64
	for _, a := range activities {
		m := metrics[a.ID]
		if m == nil {
			continue
		}
		if m.EfficiencyFactor != nil {
			effs = append(effs, *m.EfficiencyFactor)
		}
		if m.CardiacDriftPct != nil {
			drifts = append(drifts, *m.CardiacDriftPct)
		}
	}
	if len(effs) == 0 && len(drifts) == 0 {
		return defaultQuality
	}

	var effTargets, driftTargets []float64
	for _, t := range targets {
		effTargets = append(effTargets, t.EfficiencyTarget)
		driftTargets = append(driftTargets, t.DriftTarget)
	}
	targetEff := mean(effTargets)
	targetDrift := mean(driftTargets)

	var scores []float64
	if len(effs) > 0 && targetEff > 0 {
		gap := (targetEff - mean(effs)) / targetEff
		if gap < 0 {
			gap = 0
		}
		scores = append(scores, clampScore(10-gap*10))
	}
	if len(drifts) > 0 && targetDrift > 0 {
		gap := (mean(drifts) - targetDrift) / targetDrift
		if gap < 0 {
			gap = 0
		}
		scores = append(scores, clampScore(10-gap*10))
	}
	if len(scores) == 0 {
		return defaultQuality
	}
	return mean(scores)
}

// regularityScore rewards spreading runs across distinct days.
func regularityScore(activities []store.Activity) float64 {
	if len(activities) == 0 {
		return 0
	}
	days := make(map[string]bool)
	for _, a := range activities {
		days[a.StartDate.Format("2006-01-02")] = true
	}
	return float64(len(days)) / float64(len(activities)) * 10
}

func clampScore(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 10 {
		return 10
	}
	return x
}

// WeekBounds returns the inclusive date range of a program week.
func WeekBounds(program store.WeeklyProgram) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", program.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing week start: %w", err)
	}
	end, err := time.Parse("2006-01-02", program.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing week end: %w", err)
	}
	return start, end.Add(24*time.Hour - time.Second), nil
}
