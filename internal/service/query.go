package service

import (
	"fmt"
	"sort"

	"runcoach/internal/analysis"
	"runcoach/internal/store"
)

// QueryService assembles read-only view data for the TUI.
type QueryService struct {
	db      *store.DB
	profile store.Profile
	tun     analysis.Tunables
}

func NewQueryService(db *store.DB, profile store.Profile, tun analysis.Tunables) *QueryService {
	return &QueryService{db: db, profile: profile, tun: tun}
}

// ActivityRow pairs an activity with its computed metrics (nil until the
// processing pass has run).
type ActivityRow struct {
	Activity store.Activity
	Metrics  *store.ActivityMetrics
}

// DashboardData is everything the dashboard screen renders.
type DashboardData struct {
	Profile      store.Profile
	LTHR         *analysis.LTHREstimate
	Targets      []store.PersonalizedTarget
	Recent       []ActivityRow
	WeeklyScores []store.WeeklyScoreRecord

	// Per-run efficiency, oldest first, for the trend chart.
	EfficiencySeries []float64
}

// Dashboard loads the dashboard view model.
func (q *QueryService) Dashboard() (*DashboardData, error) {
	data := &DashboardData{Profile: q.profile}

	targets, err := q.db.ListTargets()
	if err != nil {
		return nil, fmt.Errorf("listing targets: %w", err)
	}
	data.Targets = targets

	recent, err := q.rows(RecentActivitiesLimit, 0)
	if err != nil {
		return nil, err
	}
	data.Recent = recent

	data.WeeklyScores, err = q.db.ListWeeklyScores()
	if err != nil {
		return nil, fmt.Errorf("listing weekly scores: %w", err)
	}

	all, err := q.rowsAll()
	if err != nil {
		return nil, err
	}
	// oldest first for the chart
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Metrics != nil && all[i].Metrics.EfficiencyFactor != nil {
			data.EfficiencySeries = append(data.EfficiencySeries, *all[i].Metrics.EfficiencyFactor)
		}
	}

	activities := make([]store.Activity, len(all))
	for i, r := range all {
		activities[i] = r.Activity
	}
	data.LTHR = analysis.EstimateLTHR(activities, q.profile, q.tun)

	return data, nil
}

// Activities loads a page of the activity list.
func (q *QueryService) Activities(limit, offset int) ([]ActivityRow, error) {
	return q.rows(limit, offset)
}

// ActivityDetail is the per-run drill-down view model.
type ActivityDetail struct {
	Activity    store.Activity
	Metrics     *store.ActivityMetrics
	Segments    []analysis.Segment
	Patterns    []string
	Comparisons []analysis.SegmentComparison
	Cardiac     analysis.CardiacReport
	Cadence     analysis.CadenceKPIs
}

// ActivityDetail loads one activity with segments, detected patterns and
// the comparison against prior same-category runs.
func (q *QueryService) ActivityDetail(id int64) (*ActivityDetail, error) {
	activity, err := q.db.GetActivity(id)
	if err != nil {
		return nil, err
	}

	detail := &ActivityDetail{Activity: *activity}

	detail.Metrics, err = q.db.GetMetrics(id)
	if err != nil {
		return nil, fmt.Errorf("loading metrics: %w", err)
	}

	samples, err := q.db.GetSamples(id)
	if err != nil {
		return nil, fmt.Errorf("loading samples: %w", err)
	}

	detail.Segments = analysis.ComputeSegments(samples, q.tun)
	detail.Patterns = analysis.DetectPatterns(detail.Segments, q.tun)
	detail.Cardiac = analysis.BuildCardiacReport(samples, q.profile, q.tun)
	detail.Cadence = analysis.ComputeCadenceKPIs(samples, q.tun)

	history, err := q.priorSegments(*activity)
	if err != nil {
		return nil, err
	}
	detail.Comparisons = analysis.CompareSegments(detail.Segments, history, q.tun)

	return detail, nil
}

// priorSegments computes segment profiles for prior runs of the same
// category, most recent first. Bounded by the history cap, so the extra
// sample reads stay cheap.
func (q *QueryService) priorSegments(current store.Activity) ([][]analysis.Segment, error) {
	all, err := q.db.ListAllActivities()
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].StartDate.After(all[j].StartDate)
	})

	var history [][]analysis.Segment
	for _, a := range all {
		if len(history) == q.tun.SegmentHistoryCap {
			break
		}
		if a.ID == current.ID || a.Category != current.Category || !a.SamplesSynced {
			continue
		}
		if !a.StartDate.Before(current.StartDate) {
			continue
		}
		samples, err := q.db.GetSamples(a.ID)
		if err != nil {
			return nil, fmt.Errorf("samples for %d: %w", a.ID, err)
		}
		if segs := analysis.ComputeSegments(samples, q.tun); segs != nil {
			history = append(history, segs)
		}
	}
	return history, nil
}

// TargetsView pairs targets with the adjustment history behind them.
type TargetsView struct {
	Targets   []store.PersonalizedTarget
	Changelog []store.ChangelogEntry
}

// Targets loads the calibrated targets and recent changelog entries.
func (q *QueryService) Targets() (*TargetsView, error) {
	targets, err := q.db.ListTargets()
	if err != nil {
		return nil, fmt.Errorf("listing targets: %w", err)
	}
	changelog, err := q.db.ListChangelog(20)
	if err != nil {
		return nil, fmt.Errorf("listing changelog: %w", err)
	}
	return &TargetsView{Targets: targets, Changelog: changelog}, nil
}

func (q *QueryService) rows(limit, offset int) ([]ActivityRow, error) {
	activities, err := q.db.ListActivities(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	return q.attachMetrics(activities)
}

func (q *QueryService) rowsAll() ([]ActivityRow, error) {
	activities, err := q.db.ListAllActivities()
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	return q.attachMetrics(activities)
}

func (q *QueryService) attachMetrics(activities []store.Activity) ([]ActivityRow, error) {
	ids := make([]int64, len(activities))
	for i, a := range activities {
		ids[i] = a.ID
	}
	metrics, err := q.db.GetMetricsForActivities(ids)
	if err != nil {
		return nil, fmt.Errorf("loading metrics: %w", err)
	}

	rows := make([]ActivityRow, len(activities))
	for i, a := range activities {
		rows[i] = ActivityRow{Activity: a, Metrics: metrics[a.ID]}
	}
	return rows, nil
}
