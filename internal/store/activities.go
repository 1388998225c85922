package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertActivity inserts or updates an activity
func (db *DB) UpsertActivity(a *Activity) error {
	_, err := db.Exec(`
		INSERT INTO activities (
			id, name, start_date, category, is_interval,
			distance_m, duration_sec, avg_heartrate, max_heartrate,
			samples_synced, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			start_date = excluded.start_date,
			category = excluded.category,
			is_interval = excluded.is_interval,
			distance_m = excluded.distance_m,
			duration_sec = excluded.duration_sec,
			avg_heartrate = excluded.avg_heartrate,
			max_heartrate = excluded.max_heartrate,
			samples_synced = excluded.samples_synced,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ID, a.Name, a.StartDate.Format(time.RFC3339), a.Category, boolToInt(a.IsInterval),
		a.DistanceM, a.DurationSec, a.AvgHeartrate, a.MaxHeartrate,
		boolToInt(a.SamplesSynced),
	)
	return err
}

// UpdateActivityCategory persists a re-derived run category.
func (db *DB) UpdateActivityCategory(id int64, category string) error {
	_, err := db.Exec(`
		UPDATE activities SET category = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, category, id)
	return err
}

// GetActivity retrieves an activity by ID
func (db *DB) GetActivity(id int64) (*Activity, error) {
	row := db.QueryRow(`
		SELECT id, name, start_date, category, is_interval,
			distance_m, duration_sec, avg_heartrate, max_heartrate, samples_synced
		FROM activities
		WHERE id = ?
	`, id)
	return scanActivity(row)
}

// ListActivities returns activities ordered by start date descending
func (db *DB) ListActivities(limit, offset int) ([]Activity, error) {
	rows, err := db.Query(`
		SELECT id, name, start_date, category, is_interval,
			distance_m, duration_sec, avg_heartrate, max_heartrate, samples_synced
		FROM activities
		ORDER BY start_date DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ListAllActivities returns the complete history, most recent first.
func (db *DB) ListAllActivities() ([]Activity, error) {
	rows, err := db.Query(`
		SELECT id, name, start_date, category, is_interval,
			distance_m, duration_sec, avg_heartrate, max_heartrate, samples_synced
		FROM activities
		ORDER BY start_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ListActivitiesBetween returns activities whose start date falls inside
// [from, to], most recent first.
func (db *DB) ListActivitiesBetween(from, to time.Time) ([]Activity, error) {
	rows, err := db.Query(`
		SELECT id, name, start_date, category, is_interval,
			distance_m, duration_sec, avg_heartrate, max_heartrate, samples_synced
		FROM activities
		WHERE start_date >= ? AND start_date <= ?
		ORDER BY start_date DESC
	`, from.Format(time.RFC3339), to.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// CountActivities returns the total number of stored activities
func (db *DB) CountActivities() (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM activities`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (*Activity, error) {
	var a Activity
	var startDate string
	var isInterval, samplesSynced int

	err := row.Scan(
		&a.ID, &a.Name, &startDate, &a.Category, &isInterval,
		&a.DistanceM, &a.DurationSec, &a.AvgHeartrate, &a.MaxHeartrate, &samplesSynced,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}

	a.StartDate, err = time.Parse(time.RFC3339, startDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start date: %w", err)
	}
	a.IsInterval = isInterval != 0
	a.SamplesSynced = samplesSynced != 0

	return &a, nil
}

func scanActivities(rows *sql.Rows) ([]Activity, error) {
	var activities []Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}
