package store

import (
	"sort"
	"time"
)

// UpsertTarget stores or replaces the personalized target for a category.
func (db *DB) UpsertTarget(t *PersonalizedTarget) error {
	_, err := db.Exec(`
		INSERT INTO personalized_targets (
			category, efficiency_target, drift_target, reference_max_hr,
			sample_size, theory_only, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(category) DO UPDATE SET
			efficiency_target = excluded.efficiency_target,
			drift_target = excluded.drift_target,
			reference_max_hr = excluded.reference_max_hr,
			sample_size = excluded.sample_size,
			theory_only = excluded.theory_only,
			updated_at = excluded.updated_at
	`, t.Category, t.EfficiencyTarget, t.DriftTarget, t.ReferenceMaxHR,
		t.SampleSize, boolToInt(t.TheoryOnly), time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetTarget retrieves the personalized target for a category.
// Returns nil (no error) when the category hasn't been calibrated yet.
func (db *DB) GetTarget(category string) (*PersonalizedTarget, error) {
	targets, err := db.ListTargets()
	if err != nil {
		return nil, err
	}
	for i := range targets {
		if targets[i].Category == category {
			return &targets[i], nil
		}
	}
	return nil, nil
}

// ListTargets returns all calibrated targets in display-category order.
func (db *DB) ListTargets() ([]PersonalizedTarget, error) {
	rows, err := db.Query(`
		SELECT category, efficiency_target, drift_target, reference_max_hr,
			sample_size, theory_only, updated_at
		FROM personalized_targets
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byCategory := make(map[string]PersonalizedTarget)
	for rows.Next() {
		var t PersonalizedTarget
		var theoryOnly int
		var updatedAt string
		err := rows.Scan(&t.Category, &t.EfficiencyTarget, &t.DriftTarget,
			&t.ReferenceMaxHR, &t.SampleSize, &theoryOnly, &updatedAt)
		if err != nil {
			return nil, err
		}
		t.TheoryOnly = theoryOnly != 0
		if ts, err := time.Parse(time.RFC3339, updatedAt); err == nil {
			t.UpdatedAt = ts
		}
		byCategory[t.Category] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var targets []PersonalizedTarget
	for _, cat := range Categories {
		if t, ok := byCategory[cat]; ok {
			targets = append(targets, t)
			delete(byCategory, cat)
		}
	}
	// coarse intensity targets follow the fine-category ones
	var rest []string
	for cat := range byCategory {
		rest = append(rest, cat)
	}
	sort.Strings(rest)
	for _, cat := range rest {
		targets = append(targets, byCategory[cat])
	}
	return targets, nil
}

// AppendChangelog records why a target moved. The log is append-only.
func (db *DB) AppendChangelog(reason, detail string) error {
	_, err := db.Exec(`
		INSERT INTO target_changelog (reason, detail) VALUES (?, ?)
	`, reason, detail)
	return err
}

// ChangelogEntry is one recorded target adjustment.
type ChangelogEntry struct {
	Reason    string
	Detail    string
	CreatedAt time.Time
}

// ListChangelog returns the most recent target adjustments, newest first.
func (db *DB) ListChangelog(limit int) ([]ChangelogEntry, error) {
	rows, err := db.Query(`
		SELECT reason, detail, created_at
		FROM target_changelog
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ChangelogEntry
	for rows.Next() {
		var e ChangelogEntry
		var createdAt string
		if err := rows.Scan(&e.Reason, &e.Detail, &createdAt); err != nil {
			return nil, err
		}
		if t, err := time.Parse("2006-01-02 15:04:05", createdAt); err == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
