package service

import (
	"context"
	"fmt"
	"sort"

	"runcoach/internal/analysis"
	"runcoach/internal/store"
)

// Processor runs the batch analysis pass over the full activity history.
type Processor struct {
	db      *store.DB
	profile store.Profile
	tun     analysis.Tunables

	// segment results memoized within one processing pass
	segments map[int64][]analysis.Segment
}

// NewProcessor creates a processor bound to the stored athlete profile.
func NewProcessor(db *store.DB, profile store.Profile, tun analysis.Tunables) *Processor {
	return &Processor{
		db:       db,
		profile:  profile,
		tun:      tun,
		segments: make(map[int64][]analysis.Segment),
	}
}

// ProcessResult summarizes one batch pass.
type ProcessResult struct {
	Activities        int
	CadenceNormalized int
	Reclassified      int
	MetricsComputed   int
	LTHRUpdated       bool
	Errors            []error
}

// ProcessAll re-derives every activity from its raw samples: cadence
// normalization, category classification, kinematic enrichment, zone
// distribution, then a second pass that attaches rolling same-category
// context. Everything is recomputed from the full current history; stale
// aggregates are never patched incrementally.
func (p *Processor) ProcessAll(ctx context.Context) (*ProcessResult, error) {
	result := &ProcessResult{}

	activities, err := p.db.ListAllActivities()
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	// Store returns most recent first; process oldest first so rolling
	// context only ever sees strictly prior runs.
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].StartDate.Before(activities[j].StartDate)
	})
	result.Activities = len(activities)

	refMaxHR, err := p.intervalMaxHR(ctx, activities)
	if err != nil {
		return nil, err
	}

	type enriched struct {
		activity store.Activity
		metrics  store.ActivityMetrics
	}
	var done []enriched

	for i := range activities {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		a := activities[i]

		samples, err := p.db.GetSamples(a.ID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("samples for %d: %w", a.ID, err))
			continue
		}

		meta := analysis.NormalizeCadence(samples, p.tun)
		if meta.Normalized {
			if err := p.db.UpdateSampleCadence(a.ID, samples); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("cadence for %d: %w", a.ID, err))
			} else {
				result.CadenceNormalized++
			}
		}

		// Full re-derivation, even when the tag looks current
		category := analysis.Classify(a, p.tun)
		if category != a.Category {
			if err := p.db.UpdateActivityCategory(a.ID, category); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("category for %d: %w", a.ID, err))
				continue
			}
			result.Reclassified++
		}
		a.Category = category

		metrics := analysis.Enrich(a, samples, refMaxHR, p.tun)
		metrics.ZonePct = analysis.TimeInZones(samples, p.profile)

		p.segments[a.ID] = analysis.ComputeSegments(samples, p.tun)

		done = append(done, enriched{activity: a, metrics: metrics})
	}

	// Second pass: rolling same-category context over strictly prior runs
	for i := range done {
		cur := &done[i]
		var history []analysis.HistoryPoint
		for j := 0; j < i; j++ {
			prev := &done[j]
			if prev.activity.Category != cur.activity.Category {
				continue
			}
			if prev.metrics.EfficiencyFactor == nil || prev.metrics.CardiacDriftPct == nil {
				continue
			}
			history = append(history, analysis.HistoryPoint{
				Efficiency: *prev.metrics.EfficiencyFactor,
				Drift:      *prev.metrics.CardiacDriftPct,
			})
		}

		stats := analysis.ComputeRollingStats(history, p.tun)
		cur.metrics.RollingAvgEfficiency = stats.AvgEfficiency
		cur.metrics.RollingAvgDrift = stats.AvgDrift
		cur.metrics.EfficiencyP10 = stats.EfficiencyP10
		cur.metrics.EfficiencyP90 = stats.EfficiencyP90
		cur.metrics.DriftP10 = stats.DriftP10
		cur.metrics.DriftP90 = stats.DriftP90
		cur.metrics.EfficiencyTrend = stats.EfficiencyTrend
		cur.metrics.DriftTrend = stats.DriftTrend

		if err := p.db.UpsertMetrics(&cur.metrics); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("metrics for %d: %w", cur.activity.ID, err))
			continue
		}
		result.MetricsComputed++
	}

	if est := p.refreshLTHR(activities); est != nil {
		result.LTHRUpdated = true
	}

	return result, nil
}

// Segments returns this pass's memoized segment computation, falling back
// to computing from samples for activities not seen yet.
func (p *Processor) Segments(activityID int64) ([]analysis.Segment, error) {
	if segs, ok := p.segments[activityID]; ok {
		return segs, nil
	}
	samples, err := p.db.GetSamples(activityID)
	if err != nil {
		return nil, err
	}
	segs := analysis.ComputeSegments(samples, p.tun)
	p.segments[activityID] = segs
	return segs, nil
}

// intervalMaxHR finds the highest heart rate observed across interval
// sessions, the reference for the coarse intensity bands. Falls back to
// the profile max when no interval data exists.
func (p *Processor) intervalMaxHR(ctx context.Context, activities []store.Activity) (float64, error) {
	var maxHR float64
	for _, a := range activities {
		if !a.IsInterval || !a.SamplesSynced {
			continue
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		samples, err := p.db.GetSamples(a.ID)
		if err != nil {
			return 0, fmt.Errorf("samples for %d: %w", a.ID, err)
		}
		if hr := analysis.ObservedMaxHR(samples); hr != nil && *hr > maxHR {
			maxHR = *hr
		}
	}
	if maxHR == 0 {
		maxHR = p.profile.MaxHR
	}
	return maxHR, nil
}

// refreshLTHR re-estimates lactate threshold from recent longer runs and
// persists it on the profile.
func (p *Processor) refreshLTHR(activities []store.Activity) *analysis.LTHREstimate {
	// most recent first for the estimation window
	recent := make([]store.Activity, len(activities))
	copy(recent, activities)
	sort.Slice(recent, func(i, j int) bool {
		return recent[i].StartDate.After(recent[j].StartDate)
	})

	est := analysis.EstimateLTHR(recent, p.profile, p.tun)
	if est == nil {
		return nil
	}
	if err := p.db.UpdateLTHR(est.LTHR); err != nil {
		return nil
	}
	return est
}
