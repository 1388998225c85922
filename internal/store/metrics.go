package store

import (
	"database/sql"
	"errors"
)

// UpsertMetrics inserts or updates computed metrics for an activity
func (db *DB) UpsertMetrics(m *ActivityMetrics) error {
	_, err := db.Exec(`
		INSERT INTO activity_metrics (
			activity_id, efficiency_factor, cardiac_drift_pct, drift_slope, drift_r2,
			collapse_km, pace_cv, ratio_cv, endurance_index, time_above_90_sec,
			zone2_band_pct, elevation_gain_m,
			zone1_pct, zone2_pct, zone3_pct, zone4_pct, zone5_pct,
			rolling_avg_efficiency, rolling_avg_drift,
			efficiency_p10, efficiency_p90, drift_p10, drift_p90,
			efficiency_trend, drift_trend, computed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(activity_id) DO UPDATE SET
			efficiency_factor = excluded.efficiency_factor,
			cardiac_drift_pct = excluded.cardiac_drift_pct,
			drift_slope = excluded.drift_slope,
			drift_r2 = excluded.drift_r2,
			collapse_km = excluded.collapse_km,
			pace_cv = excluded.pace_cv,
			ratio_cv = excluded.ratio_cv,
			endurance_index = excluded.endurance_index,
			time_above_90_sec = excluded.time_above_90_sec,
			zone2_band_pct = excluded.zone2_band_pct,
			elevation_gain_m = excluded.elevation_gain_m,
			zone1_pct = excluded.zone1_pct,
			zone2_pct = excluded.zone2_pct,
			zone3_pct = excluded.zone3_pct,
			zone4_pct = excluded.zone4_pct,
			zone5_pct = excluded.zone5_pct,
			rolling_avg_efficiency = excluded.rolling_avg_efficiency,
			rolling_avg_drift = excluded.rolling_avg_drift,
			efficiency_p10 = excluded.efficiency_p10,
			efficiency_p90 = excluded.efficiency_p90,
			drift_p10 = excluded.drift_p10,
			drift_p90 = excluded.drift_p90,
			efficiency_trend = excluded.efficiency_trend,
			drift_trend = excluded.drift_trend,
			computed_at = CURRENT_TIMESTAMP
	`,
		m.ActivityID, m.EfficiencyFactor, m.CardiacDriftPct, m.DriftSlope, m.DriftR2,
		m.CollapseKm, m.PaceCV, m.RatioCV, m.EnduranceIndex, m.TimeAbove90Sec,
		m.Zone2BandPct, m.ElevationGainM,
		m.ZonePct[0], m.ZonePct[1], m.ZonePct[2], m.ZonePct[3], m.ZonePct[4],
		m.RollingAvgEfficiency, m.RollingAvgDrift,
		m.EfficiencyP10, m.EfficiencyP90, m.DriftP10, m.DriftP90,
		m.EfficiencyTrend, m.DriftTrend,
	)
	return err
}

// GetMetrics retrieves computed metrics for an activity.
// Returns nil (no error) when metrics haven't been computed yet.
func (db *DB) GetMetrics(activityID int64) (*ActivityMetrics, error) {
	row := db.QueryRow(`
		SELECT activity_id, efficiency_factor, cardiac_drift_pct, drift_slope, drift_r2,
			collapse_km, pace_cv, ratio_cv, endurance_index, time_above_90_sec,
			zone2_band_pct, elevation_gain_m,
			zone1_pct, zone2_pct, zone3_pct, zone4_pct, zone5_pct,
			rolling_avg_efficiency, rolling_avg_drift,
			efficiency_p10, efficiency_p90, drift_p10, drift_p90,
			efficiency_trend, drift_trend
		FROM activity_metrics
		WHERE activity_id = ?
	`, activityID)

	m, err := scanMetrics(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// GetMetricsForActivities fetches metrics for many activities in one query.
func (db *DB) GetMetricsForActivities(ids []int64) (map[int64]*ActivityMetrics, error) {
	result := make(map[int64]*ActivityMetrics, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT activity_id, efficiency_factor, cardiac_drift_pct, drift_slope, drift_r2,
			collapse_km, pace_cv, ratio_cv, endurance_index, time_above_90_sec,
			zone2_band_pct, elevation_gain_m,
			zone1_pct, zone2_pct, zone3_pct, zone4_pct, zone5_pct,
			rolling_avg_efficiency, rolling_avg_drift,
			efficiency_p10, efficiency_p90, drift_p10, drift_p90,
			efficiency_trend, drift_trend
		FROM activity_metrics
		WHERE activity_id IN (`
	args := make([]any, len(ids))
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
		args[i] = id
	}
	query += ")"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanMetrics(rows)
		if err != nil {
			return nil, err
		}
		result[m.ActivityID] = m
	}
	return result, rows.Err()
}

func scanMetrics(row rowScanner) (*ActivityMetrics, error) {
	var m ActivityMetrics
	err := row.Scan(
		&m.ActivityID, &m.EfficiencyFactor, &m.CardiacDriftPct, &m.DriftSlope, &m.DriftR2,
		&m.CollapseKm, &m.PaceCV, &m.RatioCV, &m.EnduranceIndex, &m.TimeAbove90Sec,
		&m.Zone2BandPct, &m.ElevationGainM,
		&m.ZonePct[0], &m.ZonePct[1], &m.ZonePct[2], &m.ZonePct[3], &m.ZonePct[4],
		&m.RollingAvgEfficiency, &m.RollingAvgDrift,
		&m.EfficiencyP10, &m.EfficiencyP90, &m.DriftP10, &m.DriftP90,
		&m.EfficiencyTrend, &m.DriftTrend,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
