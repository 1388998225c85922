package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const dateOnly = "2006-01-02"

// GetProfile retrieves the singleton athlete profile
func (db *DB) GetProfile() (*Profile, error) {
	row := db.QueryRow(`
		SELECT resting_hr, max_hr, birth_date, lthr, updated_at
		FROM profile WHERE id = 1
	`)

	var p Profile
	var birthDate, updatedAt string
	err := row.Scan(&p.RestingHR, &p.MaxHR, &birthDate, &p.LTHR, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoProfile
	}
	if err != nil {
		return nil, err
	}

	p.BirthDate, err = time.Parse(dateOnly, birthDate)
	if err != nil {
		return nil, fmt.Errorf("parsing birth date: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		p.UpdatedAt = t
	}

	return &p, nil
}

// SaveProfile stores or replaces the athlete profile
func (db *DB) SaveProfile(p *Profile) error {
	_, err := db.Exec(`
		INSERT INTO profile (id, resting_hr, max_hr, birth_date, lthr, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			resting_hr = excluded.resting_hr,
			max_hr = excluded.max_hr,
			birth_date = excluded.birth_date,
			lthr = excluded.lthr,
			updated_at = excluded.updated_at
	`, p.RestingHR, p.MaxHR, p.BirthDate.Format(dateOnly), p.LTHR,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// UpdateLTHR persists a refreshed lactate-threshold estimate without
// touching the user-edited profile fields.
func (db *DB) UpdateLTHR(lthr float64) error {
	res, err := db.Exec(`
		UPDATE profile SET lthr = ?, updated_at = ? WHERE id = 1
	`, lthr, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoProfile
	}
	return nil
}
