package service

import (
	"fmt"

	"runcoach/internal/analysis"
	"runcoach/internal/store"
)

// Reviewer grades finished weeks against their programs.
type Reviewer struct {
	db  *store.DB
	tun analysis.Tunables
}

func NewReviewer(db *store.DB, tun analysis.Tunables) *Reviewer {
	return &Reviewer{db: db, tun: tun}
}

// ScoreWeek computes and persists the composite score for one program
// week. The previous stored week feeds the trend label.
func (r *Reviewer) ScoreWeek(prog store.WeeklyProgram) (analysis.WeekReport, error) {
	var report analysis.WeekReport

	from, to, err := analysis.WeekBounds(prog)
	if err != nil {
		return report, err
	}

	activities, err := r.db.ListActivitiesBetween(from, to)
	if err != nil {
		return report, fmt.Errorf("listing week activities: %w", err)
	}

	ids := make([]int64, len(activities))
	for i, a := range activities {
		ids[i] = a.ID
	}
	metrics, err := r.db.GetMetricsForActivities(ids)
	if err != nil {
		return report, fmt.Errorf("loading metrics: %w", err)
	}

	targets, err := r.db.ListTargets()
	if err != nil {
		return report, fmt.Errorf("listing targets: %w", err)
	}

	notes, err := r.db.GetFeedbackForActivities(ids)
	if err != nil {
		return report, fmt.Errorf("loading feedback: %w", err)
	}

	var prevScore *float64
	records, err := r.db.ListWeeklyScores()
	if err != nil {
		return report, fmt.Errorf("listing weekly scores: %w", err)
	}
	for _, rec := range records {
		if rec.WeekNumber < prog.WeekNumber {
			prevScore = &rec.Score
			break
		}
	}

	report = analysis.ScoreWeek(prog, activities, metrics, targets, prevScore, notes, r.tun)
	if err := r.db.SaveWeeklyScore(&report.Record); err != nil {
		return report, fmt.Errorf("saving weekly score: %w", err)
	}
	return report, nil
}
