package service

import (
	"fmt"
	"time"

	"runcoach/internal/analysis"
	"runcoach/internal/store"
)

// Calibrator owns target computation and the automatic weekly triggers.
type Calibrator struct {
	db      *store.DB
	profile store.Profile
	tun     analysis.Tunables
}

func NewCalibrator(db *store.DB, profile store.Profile, tun analysis.Tunables) *Calibrator {
	return &Calibrator{db: db, profile: profile, tun: tun}
}

// targetInputs builds calibration inputs from the stored history.
func (c *Calibrator) targetInputs() ([]analysis.TargetInput, error) {
	activities, err := c.db.ListAllActivities()
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	ids := make([]int64, len(activities))
	for i, a := range activities {
		ids[i] = a.ID
	}
	metrics, err := c.db.GetMetricsForActivities(ids)
	if err != nil {
		return nil, fmt.Errorf("loading metrics: %w", err)
	}

	var inputs []analysis.TargetInput
	for _, a := range activities {
		m := metrics[a.ID]
		if m == nil {
			continue
		}
		inputs = append(inputs, analysis.TargetInput{
			Category:   a.Category,
			IsInterval: a.IsInterval,
			Efficiency: m.EfficiencyFactor,
			Drift:      m.CardiacDriftPct,
		})
	}
	return inputs, nil
}

// CalibrateBlended computes theory+history targets per coarse intensity
// and persists them.
func (c *Calibrator) CalibrateBlended(now time.Time) ([]store.PersonalizedTarget, error) {
	inputs, err := c.targetInputs()
	if err != nil {
		return nil, err
	}

	age := c.profile.Age(now)
	targets := analysis.BlendedTargets(age, inputs, c.tun)
	for i := range targets {
		if err := c.db.UpsertTarget(&targets[i]); err != nil {
			return nil, fmt.Errorf("saving %s target: %w", targets[i].Category, err)
		}
		if targets[i].TheoryOnly {
			// CalibrationSkipped: observable but not an error
			detail := fmt.Sprintf("%s: %d history runs, using theory-only targets", targets[i].Category, targets[i].SampleSize)
			if err := c.db.AppendChangelog("calibration-skipped", detail); err != nil {
				return nil, err
			}
		}
	}
	return targets, nil
}

// RecalculatePercentiles recalibrates fine-category targets from the
// athlete's own distributions.
func (c *Calibrator) RecalculatePercentiles(now time.Time) ([]store.PersonalizedTarget, error) {
	inputs, err := c.targetInputs()
	if err != nil {
		return nil, err
	}

	refMax := analysis.TanakaMaxHR(c.profile.Age(now))
	targets := analysis.PercentileTargets(inputs, refMax, c.tun)
	for i := range targets {
		if err := c.db.UpsertTarget(&targets[i]); err != nil {
			return nil, fmt.Errorf("saving %s target: %w", targets[i].Category, err)
		}
		detail := fmt.Sprintf("%s: efficiency %.2f, drift %.2f from %d runs",
			targets[i].Category, targets[i].EfficiencyTarget, targets[i].DriftTarget, targets[i].SampleSize)
		if err := c.db.AppendChangelog("percentile-recalculation", detail); err != nil {
			return nil, err
		}
	}
	return targets, nil
}

// EvaluateTriggers runs the weekly tighten/relax evaluation against stored
// targets, recent per-category results and the weekly score history.
func (c *Calibrator) EvaluateTriggers() (analysis.RecalibrationResult, error) {
	var result analysis.RecalibrationResult

	targets, err := c.db.ListTargets()
	if err != nil {
		return result, fmt.Errorf("listing targets: %w", err)
	}
	if len(targets) == 0 {
		return result, nil
	}

	inputs, err := c.targetInputs()
	if err != nil {
		return result, err
	}
	// last 10 valid results per category; inputs are most recent first
	recent := make(map[string][]analysis.HistoryPoint)
	for _, in := range inputs {
		if in.Efficiency == nil || in.Drift == nil {
			continue
		}
		if len(recent[in.Category]) >= c.tun.HistoryWindow {
			continue
		}
		recent[in.Category] = append(recent[in.Category], analysis.HistoryPoint{
			Efficiency: *in.Efficiency,
			Drift:      *in.Drift,
		})
	}

	records, err := c.db.ListWeeklyScores()
	if err != nil {
		return result, fmt.Errorf("listing weekly scores: %w", err)
	}
	scores := make([]float64, len(records))
	for i, r := range records {
		scores[i] = r.Score
	}

	result = analysis.EvaluateRecalibration(targets, recent, scores, c.tun)
	for i := range result.Updated {
		if err := c.db.UpsertTarget(&result.Updated[i]); err != nil {
			return result, fmt.Errorf("saving %s target: %w", result.Updated[i].Category, err)
		}
	}
	reason := "tightened"
	if result.Relaxed {
		reason = "relaxed"
	}
	for _, entry := range result.Changelog {
		if err := c.db.AppendChangelog(reason, entry); err != nil {
			return result, err
		}
	}
	return result, nil
}
