package analysis

import "runcoach/internal/store"

// TunablesVersion identifies the threshold set; bump when any default changes
// so stored configs can be audited against the code that consumed them.
const TunablesVersion = 1

// Tunables collects every threshold the analysis engines consume. All of
// them have physiological defaults; users can override via config.
type Tunables struct {
	Version int `json:"version"`

	// Kinematic enrichment
	GradePaceFactor  float64 `json:"grade_pace_factor"`  // min/km removed per % grade
	WarmupSkipSec    int     `json:"warmup_skip_sec"`    // analysis window start
	WarmupFallbackKm float64 `json:"warmup_fallback_km"` // when time skip leaves too few points
	MinValidPoints   int     `json:"min_valid_points"`
	CollapseFactor   float64 `json:"collapse_factor"` // pace vs early baseline
	DriftMinPoints   int     `json:"drift_min_points"`

	// Zone classification
	Zone5AlertPct     float64 `json:"zone5_alert_pct"`
	Zone5WarningPct   float64 `json:"zone5_warning_pct"`
	HardWarningPct    float64 `json:"hard_warning_pct"` // zone4+zone5
	Zone2ExcellentPct float64 `json:"zone2_excellent_pct"`
	MaxHRAlertFrac    float64 `json:"max_hr_alert_frac"` // observed vs profile max
	EndDriftFactor    float64 `json:"end_drift_factor"`  // HR end vs HR start

	// Segments
	SegmentWarmupM    float64 `json:"segment_warmup_m"`
	SegmentDriftBPM   float64 `json:"segment_drift_bpm"` // excessive intra-segment drift
	FastStartPct      float64 `json:"fast_start_pct"`
	FastStartSecPerKm float64 `json:"fast_start_sec_per_km"`
	LateFadePct       float64 `json:"late_fade_pct"`
	ManagedPaceRange  float64 `json:"managed_pace_range"` // min/km
	ManagedHRRange    float64 `json:"managed_hr_range"`   // bpm
	SegmentHistoryCap int     `json:"segment_history_cap"`
	SegmentHistoryMin int     `json:"segment_history_min"`
	PaceDeadbandSec   float64 `json:"pace_deadband_sec"` // s/km
	HRDeadbandBPM     float64 `json:"hr_deadband_bpm"`
	DriftDeadbandBPM  float64 `json:"drift_deadband_bpm"`

	// Historical context
	HistoryWindow           int     `json:"history_window"`
	TrendMinSamples         int     `json:"trend_min_samples"`
	EfficiencyTrendDeadband float64 `json:"efficiency_trend_deadband"`
	DriftTrendDeadband      float64 `json:"drift_trend_deadband"`

	// Target calibration
	BlendHistoryWeight   float64            `json:"blend_history_weight"`
	EfficiencyPercentile float64            `json:"efficiency_percentile"`
	DriftPercentile      float64            `json:"drift_percentile"`
	DriftFloors          map[string]float64 `json:"drift_floors"` // percent, per category
	MinPercentilePoints  int                `json:"min_percentile_points"`
	EfficiencyOutlierMax float64            `json:"efficiency_outlier_max"`
	DriftOutlierMin      float64            `json:"drift_outlier_min"`
	DriftOutlierMax      float64            `json:"drift_outlier_max"`
	TightenStep          float64            `json:"tighten_step"`
	RelaxStep            float64            `json:"relax_step"`
	TightenMinCategories int                `json:"tighten_min_categories"`
	RelaxScoreThreshold  float64            `json:"relax_score_threshold"`
	RelaxWeeks           int                `json:"relax_weeks"`

	// Classification
	LongRunKm      float64 `json:"long_run_km"`
	MidDistanceKm  float64 `json:"mid_distance_km"`
	FastShortPace  float64 `json:"fast_short_pace"` // min/km, at or below is fast
	LTHRMinKm      float64 `json:"lthr_min_km"`
	LTHRWindow     int     `json:"lthr_window"`
	LTHRMinSamples int     `json:"lthr_min_samples"`

	// Cadence
	OneFootCadenceMax float64 `json:"one_foot_cadence_max"` // spm; below means one-foot sensor
	CadenceMinSamples int     `json:"cadence_min_samples"`

	// Weekly scoring
	StrengthThreshold    float64 `json:"strength_threshold"`
	ImprovementThreshold float64 `json:"improvement_threshold"`
	TrendDeadband        float64 `json:"trend_deadband"`
}

// DefaultTunables returns the standard threshold set.
func DefaultTunables() Tunables {
	return Tunables{
		Version: TunablesVersion,

		GradePaceFactor:  0.2,
		WarmupSkipSec:    300,
		WarmupFallbackKm: 0.3,
		MinValidPoints:   5,
		CollapseFactor:   1.10,
		DriftMinPoints:   10,

		Zone5AlertPct:     60,
		Zone5WarningPct:   50,
		HardWarningPct:    70,
		Zone2ExcellentPct: 50,
		MaxHRAlertFrac:    0.98,
		EndDriftFactor:    1.15,

		SegmentWarmupM:    300,
		SegmentDriftBPM:   10,
		FastStartPct:      0.05,
		FastStartSecPerKm: 10,
		LateFadePct:       0.05,
		ManagedPaceRange:  0.1,
		ManagedHRRange:    5,
		SegmentHistoryCap: 15,
		SegmentHistoryMin: 3,
		PaceDeadbandSec:   3,
		HRDeadbandBPM:     2,
		DriftDeadbandBPM:  0.5,

		HistoryWindow:           10,
		TrendMinSamples:         6,
		EfficiencyTrendDeadband: 0.15,
		DriftTrendDeadband:      0.03,

		BlendHistoryWeight:   0.60,
		EfficiencyPercentile: 30,
		DriftPercentile:      40,
		DriftFloors: map[string]float64{
			store.CategoryRecoveryShort: 3.0,
			store.CategoryFastShort:     8.0,
			store.CategoryMidDistance:   5.0,
			store.CategoryLongRun:       4.0,
		},
		MinPercentilePoints:  5,
		EfficiencyOutlierMax: 15,
		DriftOutlierMin:      -5,
		DriftOutlierMax:      30,
		TightenStep:          0.05,
		RelaxStep:            0.03,
		TightenMinCategories: 2,
		RelaxScoreThreshold:  7.0,
		RelaxWeeks:           4,

		LongRunKm:      11,
		MidDistanceKm:  7,
		FastShortPace:  16.0 / 3, // 5:20 min/km
		LTHRMinKm:      7,
		LTHRWindow:     10,
		LTHRMinSamples: 3,

		OneFootCadenceMax: 120,
		CadenceMinSamples: 20,

		StrengthThreshold:    9,
		ImprovementThreshold: 7,
		TrendDeadband:        0.3,
	}
}
