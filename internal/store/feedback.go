package store

// SaveFeedback stores a free-text note on an activity, replacing any
// existing one. An empty note removes the entry.
func (db *DB) SaveFeedback(activityID int64, note string) error {
	if note == "" {
		_, err := db.Exec(`DELETE FROM activity_feedback WHERE activity_id = ?`, activityID)
		return err
	}
	_, err := db.Exec(`
		INSERT INTO activity_feedback (activity_id, note)
		VALUES (?, ?)
		ON CONFLICT(activity_id) DO UPDATE SET
			note = excluded.note,
			updated_at = CURRENT_TIMESTAMP
	`, activityID, note)
	return err
}

// GetFeedbackForActivities fetches notes for many activities in one query.
func (db *DB) GetFeedbackForActivities(ids []int64) (map[int64]string, error) {
	result := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT activity_id, note FROM activity_feedback WHERE activity_id IN (`
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
		var id int64
		var note string
		if err := rows.Scan(&id, &note); err != nil {
			return nil, err
		}
		result[id] = note
	}
	return result, rows.Err()
}
