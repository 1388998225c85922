package service

import (
	"context"
	"fmt"
	"time"

	"runcoach/internal/store"
	"runcoach/internal/strava"
)

// SyncService pulls activities and their raw sample streams from Strava.
// Analysis happens afterwards, in the processing pass.
type SyncService struct {
	client *strava.Client
	store  *store.DB
}

// NewSyncService creates a new sync service
func NewSyncService(client *strava.Client, db *store.DB) *SyncService {
	return &SyncService{client: client, store: db}
}

// SyncProgress reports progress during sync
type SyncProgress struct {
	Phase           string // "activities", "samples"
	Total           int
	Completed       int
	CurrentActivity string
	Error           error
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	ActivitiesFetched int
	ActivitiesStored  int
	SamplesFetched    int
	Errors            []error
}

// SyncAll performs a full sync: activity summaries, then raw samples for
// activities that don't have them yet.
func (s *SyncService) SyncAll(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &SyncResult{}

	if err := s.syncActivities(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing activities: %w", err)
	}

	if err := s.syncSamples(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing samples: %w", err)
	}

	return result, nil
}

// syncActivities fetches all run activities from Strava and stores them
func (s *SyncService) syncActivities(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	// Get last sync time
	lastSyncStr, _ := s.store.GetSyncState("last_activity_sync")
	var after time.Time
	if lastSyncStr != "" {
		after, _ = time.Parse(time.RFC3339, lastSyncStr)
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "activities"}
	}

	page := 1
	perPage := 100

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		activities, err := s.client.GetActivities(ctx, after, page, perPage)
		if err != nil {
			return fmt.Errorf("fetching page %d: %w", page, err)
		}

		if len(activities) == 0 {
			break
		}

		result.ActivitiesFetched += len(activities)

		for _, a := range activities {
			// Only runs with HR data are analyzable
			if a.Type != "Run" || !a.HasHeartrate {
				continue
			}
			if err := s.store.UpsertActivity(convertActivity(a)); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("storing activity %d: %w", a.ID, err))
				continue
			}
			result.ActivitiesStored++
		}

		if progress != nil {
			progress <- SyncProgress{
				Phase:     "activities",
				Total:     result.ActivitiesFetched,
				Completed: result.ActivitiesStored,
			}
		}

		if len(activities) < perPage {
			break // Last page
		}

		page++
	}

	// Update last sync time
	s.store.SetSyncState("last_activity_sync", time.Now().Format(time.RFC3339))

	return nil
}

// syncSamples fetches raw streams for activities that don't have them yet
func (s *SyncService) syncSamples(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	all, err := s.store.ListAllActivities()
	if err != nil {
		return fmt.Errorf("listing activities: %w", err)
	}

	var pending []store.Activity
	for _, a := range all {
		if !a.SamplesSynced {
			pending = append(pending, a)
		}
		if len(pending) == StreamBatchSize { // respect rate limits per invocation
			break
		}
	}
	if len(pending) == 0 {
		return nil
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "samples", Total: len(pending)}
	}

	for i, activity := range pending {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if progress != nil {
			progress <- SyncProgress{
				Phase:           "samples",
				Total:           len(pending),
				Completed:       i,
				CurrentActivity: activity.Name,
			}
		}

		streams, err := s.client.GetActivityStreams(ctx, activity.ID)
		if err != nil {
			// Some activities have no streams; keep going
			result.Errors = append(result.Errors, fmt.Errorf("activity %d (%s): %w", activity.ID, activity.Name, err))
			continue
		}

		samples := convertStreams(activity.ID, streams)
		if len(samples) == 0 {
			continue
		}
		if err := s.store.SaveSamples(activity.ID, samples); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("saving samples for %d: %w", activity.ID, err))
			continue
		}

		result.SamplesFetched++
	}

	if progress != nil {
		progress <- SyncProgress{
			Phase:     "samples",
			Total:     len(pending),
			Completed: len(pending),
		}
	}

	return nil
}

// RateLimitStatus returns the current rate limit status from the client
func (s *SyncService) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return s.client.RateLimitStatus()
}

// convertActivity converts a Strava API activity to a store activity.
// The category stays empty; classification happens in the processing pass.
func convertActivity(a strava.Activity) *store.Activity {
	activity := &store.Activity{
		ID:          a.ID,
		Name:        a.Name,
		StartDate:   a.StartDate,
		IsInterval:  a.IsIntervalWorkout(),
		DistanceM:   a.Distance,
		DurationSec: a.MovingTime,
	}

	if a.AverageHeartrate > 0 {
		activity.AvgHeartrate = &a.AverageHeartrate
	}
	if a.MaxHeartrate > 0 {
		activity.MaxHeartrate = &a.MaxHeartrate
	}

	return activity
}

// convertStreams converts Strava API streams to raw samples
func convertStreams(activityID int64, s *strava.Streams) []store.Sample {
	if s == nil || s.Time == nil {
		return nil
	}

	length := len(s.Time.Data)
	samples := make([]store.Sample, length)

	for i := 0; i < length; i++ {
		p := store.Sample{
			ActivityID: activityID,
			TimeOffset: s.Time.Data[i],
		}

		if s.Distance != nil && i < len(s.Distance.Data) {
			dist := s.Distance.Data[i]
			p.DistanceM = &dist
		}

		if s.Heartrate != nil && i < len(s.Heartrate.Data) {
			if hr := s.Heartrate.Data[i]; isValidHeartrate(hr) {
				p.Heartrate = &hr
			}
		}

		if s.VelocitySmooth != nil && i < len(s.VelocitySmooth.Data) {
			vel := s.VelocitySmooth.Data[i]
			p.Speed = &vel
		}

		if s.Altitude != nil && i < len(s.Altitude.Data) {
			alt := s.Altitude.Data[i]
			p.Altitude = &alt
		}

		if s.Cadence != nil && i < len(s.Cadence.Data) {
			cad := s.Cadence.Data[i]
			p.CadenceRaw = &cad
		}

		samples[i] = p
	}

	return samples
}
