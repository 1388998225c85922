package store

import "database/sql"

// SaveSamples replaces the sample stream for an activity
func (db *DB) SaveSamples(activityID int64, samples []Sample) error {
	return db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM samples WHERE activity_id = ?`, activityID); err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO samples (
				activity_id, time_offset, distance_m, heartrate,
				speed, altitude, cadence_raw, cadence_spm
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, s := range samples {
			_, err := stmt.Exec(
				activityID, s.TimeOffset, s.DistanceM, s.Heartrate,
				s.Speed, s.Altitude, s.CadenceRaw, s.CadenceSPM,
			)
			if err != nil {
				return err
			}
		}

		// Mark activity as having samples
		_, err = tx.Exec(`UPDATE activities SET samples_synced = 1 WHERE id = ?`, activityID)
		return err
	})
}

// GetSamples retrieves all samples for an activity, ordered by time
func (db *DB) GetSamples(activityID int64) ([]Sample, error) {
	rows, err := db.Query(`
		SELECT activity_id, time_offset, distance_m, heartrate,
			speed, altitude, cadence_raw, cadence_spm
		FROM samples
		WHERE activity_id = ?
		ORDER BY time_offset
	`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var s Sample
		err := rows.Scan(
			&s.ActivityID, &s.TimeOffset, &s.DistanceM, &s.Heartrate,
			&s.Speed, &s.Altitude, &s.CadenceRaw, &s.CadenceSPM,
		)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// UpdateSampleCadence persists normalized cadence values for an activity.
// Only the cadence_spm column changes; raw sensor data is never rewritten.
func (db *DB) UpdateSampleCadence(activityID int64, samples []Sample) error {
	return db.WithTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			UPDATE samples SET cadence_spm = ?
			WHERE activity_id = ? AND time_offset = ?
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, s := range samples {
			if s.CadenceSPM == nil {
				continue
			}
			if _, err := stmt.Exec(s.CadenceSPM, activityID, s.TimeOffset); err != nil {
				return err
			}
		}
		return nil
	})
}
