package store

import (
	"database/sql"
	"time"
)

// weeklyScoreCap bounds how much score history is retained.
const weeklyScoreCap = 12

// SaveWeeklyScore stores a week's composite score, replacing any previous
// record for the same week and pruning history beyond the retention cap.
func (db *DB) SaveWeeklyScore(r *WeeklyScoreRecord) error {
	return db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO weekly_scores (
				week_number, score, volume_score, adherence_score,
				type_score, quality_score, regularity_score, trend, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(week_number) DO UPDATE SET
				score = excluded.score,
				volume_score = excluded.volume_score,
				adherence_score = excluded.adherence_score,
				type_score = excluded.type_score,
				quality_score = excluded.quality_score,
				regularity_score = excluded.regularity_score,
				trend = excluded.trend,
				created_at = excluded.created_at
		`, r.WeekNumber, r.Score, r.Volume, r.Adherence,
			r.TypeMatch, r.Quality, r.Regularity, r.Trend,
			time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			DELETE FROM weekly_scores
			WHERE week_number NOT IN (
				SELECT week_number FROM weekly_scores
				ORDER BY week_number DESC
				LIMIT ?
			)
		`, weeklyScoreCap)
		return err
	})
}

// ListWeeklyScores returns retained weekly scores, most recent week first.
func (db *DB) ListWeeklyScores() ([]WeeklyScoreRecord, error) {
	rows, err := db.Query(`
		SELECT week_number, score, volume_score, adherence_score,
			type_score, quality_score, regularity_score, trend, created_at
		FROM weekly_scores
		ORDER BY week_number DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []WeeklyScoreRecord
	for rows.Next() {
		var r WeeklyScoreRecord
		var createdAt string
		err := rows.Scan(&r.WeekNumber, &r.Score, &r.Volume, &r.Adherence,
			&r.TypeMatch, &r.Quality, &r.Regularity, &r.Trend, &createdAt)
		if err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			r.CreatedAt = t
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
