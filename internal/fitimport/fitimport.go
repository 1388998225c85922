// Package fitimport loads activities from .fit files exported by watches,
// for athletes who don't sync through Strava. Imported runs flow through
// the same processing pass as synced ones.
package fitimport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tormoder/fit"

	"runcoach/internal/store"
)

// Importer reads .fit files into the activity store.
type Importer struct {
	db *store.DB
}

func NewImporter(db *store.DB) *Importer {
	return &Importer{db: db}
}

// ImportResult summarizes one directory scan.
type ImportResult struct {
	Files    int
	Imported int
	Skipped  int // non-run sessions or files without samples
	Errors   []error
}

// ImportDir scans a directory for .fit files and stores every running
// session found. Re-importing the same file is a no-op: the activity ID
// derives from the session start time.
func (im *Importer) ImportDir(ctx context.Context, dir string) (*ImportResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	result := &ImportResult{}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".fit") {
			continue
		}
		result.Files++

		path := filepath.Join(dir, e.Name())
		activity, samples, err := im.importFile(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", e.Name(), err))
			continue
		}
		if activity == nil {
			result.Skipped++
			continue
		}

		if err := im.db.UpsertActivity(activity); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: storing: %w", e.Name(), err))
			continue
		}
		if err := im.db.SaveSamples(activity.ID, samples); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: saving samples: %w", e.Name(), err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

// importFile decodes one file. Returns (nil, nil, nil) for sessions that
// aren't runs.
func (im *Importer) importFile(path string) (*store.Activity, []store.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	fd, err := fit.Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding: %w", err)
	}
	af, err := fd.Activity()
	if err != nil {
		return nil, nil, fmt.Errorf("reading activity: %w", err)
	}
	if len(af.Sessions) == 0 {
		return nil, nil, nil
	}

	s := af.Sessions[0]
	if !strings.EqualFold(s.Sport.String(), "running") {
		return nil, nil, nil
	}

	activity := convertSession(s, filepath.Base(path))
	samples := convertRecords(activity.ID, s.StartTime, af.Records)
	if len(samples) == 0 {
		return nil, nil, nil
	}
	return activity, samples, nil
}

// convertSession maps a FIT session to a stored activity. FIT scaling per
// the profile: timer time and speed scale 1000, distance scale 100.
func convertSession(s *fit.SessionMsg, filename string) *store.Activity {
	start := s.StartTime.UTC()
	a := &store.Activity{
		ID:          start.Unix(),
		Name:        strings.TrimSuffix(filename, filepath.Ext(filename)),
		StartDate:   start,
		DistanceM:   float64(s.TotalDistance) / 100.0,
		DurationSec: int(float64(s.TotalTimerTime) / 1000.0),
	}
	if s.AvgHeartRate != 0 && s.AvgHeartRate != 0xFF {
		hr := float64(s.AvgHeartRate)
		a.AvgHeartrate = &hr
	}
	if s.MaxHeartRate != 0 && s.MaxHeartRate != 0xFF {
		hr := float64(s.MaxHeartRate)
		a.MaxHeartrate = &hr
	}
	return a
}

// convertRecords maps FIT record messages to telemetry samples. Altitude
// carries scale 5 offset 500; 0xFF heart rate and cadence mean no reading.
func convertRecords(activityID int64, start time.Time, records []*fit.RecordMsg) []store.Sample {
	var samples []store.Sample
	for _, r := range records {
		if r.Timestamp.Before(start) {
			continue
		}
		s := store.Sample{
			ActivityID: activityID,
			TimeOffset: int(r.Timestamp.Sub(start).Seconds()),
		}
		if r.Distance != 0xFFFFFFFF {
			dist := float64(r.Distance) / 100.0
			s.DistanceM = &dist
		}
		if r.HeartRate != 0 && r.HeartRate != 0xFF {
			hr := int(r.HeartRate)
			s.Heartrate = &hr
		}
		if r.Speed != 0xFFFF {
			v := float64(r.Speed) / 1000.0
			s.Speed = &v
		}
		if r.Altitude != 0xFFFF {
			alt := float64(r.Altitude)/5.0 - 500.0
			s.Altitude = &alt
		}
		if r.Cadence != 0xFF {
			cad := int(r.Cadence)
			s.CadenceRaw = &cad
		}
		samples = append(samples, s)
	}
	return samples
}
