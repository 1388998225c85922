package store

import "time"

// Run categories used to group comparable runs for historical statistics
// and personalized targets.
const (
	CategoryRecoveryShort = "recovery-short"
	CategoryFastShort     = "fast-short"
	CategoryMidDistance   = "mid-distance"
	CategoryLongRun       = "long-run"
	CategoryUnknown       = "unknown"
)

// Categories lists the known run categories in display order.
var Categories = []string{
	CategoryRecoveryShort,
	CategoryFastShort,
	CategoryMidDistance,
	CategoryLongRun,
}

// Auth represents OAuth tokens for Strava API access
type Auth struct {
	AthleteID    int64     `db:"athlete_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
}

// Activity represents a single recorded run
type Activity struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	StartDate     time.Time `db:"start_date"`
	Category      string    `db:"category"` // run category tag; empty means not yet classified
	IsInterval    bool      `db:"is_interval"`
	DistanceM     float64   `db:"distance_m"`
	DurationSec   int       `db:"duration_sec"`
	AvgHeartrate  *float64  `db:"avg_heartrate"` // nullable
	MaxHeartrate  *float64  `db:"max_heartrate"` // nullable
	SamplesSynced bool      `db:"samples_synced"`
}

// DistanceKm returns the activity distance in kilometers.
func (a Activity) DistanceKm() float64 {
	return a.DistanceM / 1000
}

// DurationMin returns the activity duration in minutes.
func (a Activity) DurationMin() float64 {
	return float64(a.DurationSec) / 60
}

// Sample is a single telemetry point in an activity's stream.
// All sensor fields are optional; CadenceSPM is derived by the normalizer.
type Sample struct {
	ActivityID int64    `db:"activity_id"`
	TimeOffset int      `db:"time_offset"` // seconds from start
	DistanceM  *float64 `db:"distance_m"`  // cumulative meters
	Heartrate  *int     `db:"heartrate"`   // bpm
	Speed      *float64 `db:"speed"`       // m/s
	Altitude   *float64 `db:"altitude"`    // meters
	CadenceRaw *int     `db:"cadence_raw"` // as recorded (may be one-foot)
	CadenceSPM *float64 `db:"cadence_spm"` // normalized steps/min
}

// ActivityMetrics holds derived per-activity indicators. Nil pointers mean
// "unavailable — insufficient data", which is distinct from zero.
type ActivityMetrics struct {
	ActivityID       int64    `db:"activity_id"`
	EfficiencyFactor *float64 `db:"efficiency_factor"` // 3 decimals
	CardiacDriftPct  *float64 `db:"cardiac_drift_pct"` // 1 decimal
	DriftSlope       *float64 `db:"drift_slope"`       // HR/pace ratio per km
	DriftR2          *float64 `db:"drift_r2"`
	CollapseKm       *float64 `db:"collapse_km"`
	PaceCV           *float64 `db:"pace_cv"`
	RatioCV          *float64 `db:"ratio_cv"`
	EnduranceIndex   *float64 `db:"endurance_index"`
	TimeAbove90Sec   *float64 `db:"time_above_90_sec"`
	Zone2BandPct     *float64 `db:"zone2_band_pct"`
	ElevationGainM   float64  `db:"elevation_gain_m"`

	// Karvonen time-in-zone percentages; sum to ~100 when HR data exists,
	// all zero otherwise.
	ZonePct [5]float64

	// Rolling same-category context (strictly prior activities only).
	RollingAvgEfficiency *float64 `db:"rolling_avg_efficiency"`
	RollingAvgDrift      *float64 `db:"rolling_avg_drift"`
	EfficiencyP10        *float64 `db:"efficiency_p10"`
	EfficiencyP90        *float64 `db:"efficiency_p90"`
	DriftP10             *float64 `db:"drift_p10"`
	DriftP90             *float64 `db:"drift_p90"`
	EfficiencyTrend      int      `db:"efficiency_trend"` // -1, 0, +1
	DriftTrend           int      `db:"drift_trend"`      // -1 improving, +1 worsening
}

// Profile is the singleton athlete record. LTHR is refreshed periodically
// from recent long runs; the other fields come from user edits.
type Profile struct {
	RestingHR float64   `db:"resting_hr"`
	MaxHR     float64   `db:"max_hr"`
	BirthDate time.Time `db:"birth_date"`
	LTHR      *float64  `db:"lthr"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Age returns the athlete's age in whole years at the given time.
func (p Profile) Age(now time.Time) int {
	age := now.Year() - p.BirthDate.Year()
	if now.YearDay() < p.BirthDate.YearDay() {
		age--
	}
	return age
}

// Reserve returns the heart-rate reserve (max minus resting).
func (p Profile) Reserve() float64 {
	return p.MaxHR - p.RestingHR
}

// PersonalizedTarget is the adaptive target pair for one run category.
// Values change only through calibration or recalibration.
type PersonalizedTarget struct {
	Category         string    `db:"category"`
	EfficiencyTarget float64   `db:"efficiency_target"`
	DriftTarget      float64   `db:"drift_target"` // percent
	ReferenceMaxHR   float64   `db:"reference_max_hr"`
	SampleSize       int       `db:"sample_size"`
	TheoryOnly       bool      `db:"theory_only"` // calibration fell back to theory
	UpdatedAt        time.Time `db:"updated_at"`
}

// PlannedRun is one prescribed session inside a weekly program.
type PlannedRun struct {
	Day              string  `yaml:"day"`
	Date             string  `yaml:"date"` // YYYY-MM-DD
	Category         string  `yaml:"category"`
	DistanceKm       float64 `yaml:"distance_km"`
	PaceTarget       string  `yaml:"pace_target"` // "M:SS" per km
	EfficiencyTarget float64 `yaml:"efficiency_target"`
	DriftTarget      float64 `yaml:"drift_target"`
}

// WeeklyProgram is the plan for one training week. A new week supersedes
// the previous program; programs are never edited in place.
type WeeklyProgram struct {
	WeekNumber  int          `yaml:"week_number"`
	StartDate   string       `yaml:"start_date"` // YYYY-MM-DD
	EndDate     string       `yaml:"end_date"`
	PlannedRuns []PlannedRun `yaml:"runs"`
	TotalKm     float64      `yaml:"total_km"`
}

// WeeklyScoreRecord is one week's composite adherence score.
// The history is append-only and capped to the most recent 12 records.
type WeeklyScoreRecord struct {
	WeekNumber int       `db:"week_number"`
	Score      float64   `db:"score"`
	Volume     float64   `db:"volume_score"`
	Adherence  float64   `db:"adherence_score"`
	TypeMatch  float64   `db:"type_score"`
	Quality    float64   `db:"quality_score"`
	Regularity float64   `db:"regularity_score"`
	Trend      string    `db:"trend"` // "up", "down", "stable"
	CreatedAt  time.Time `db:"created_at"`
}
