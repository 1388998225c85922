package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"runcoach/internal/service"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch new runs and telemetry from Strava",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if errors.Is(err, errConfigCreated) {
				return nil
			}
			if err != nil {
				return err
			}

			db, err := openDB()
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()

			client, err := stravaClient(cmd.Context(), db, cfg)
			if err != nil {
				return err
			}

			syncSvc := service.NewSyncService(client, db)

			progress := make(chan service.SyncProgress, 16)
			go func() {
				for p := range progress {
					if p.CurrentActivity != "" {
						fmt.Printf("  [%s] %d/%d  %s\n", p.Phase, p.Completed, p.Total, p.CurrentActivity)
					} else {
						fmt.Printf("  [%s] %d/%d\n", p.Phase, p.Completed, p.Total)
					}
				}
			}()

			result, err := syncSvc.SyncAll(cmd.Context(), progress)
			if err != nil {
				return err
			}

			fmt.Printf("\nFetched %d activities, stored %d runs, downloaded %d sample streams.\n",
				result.ActivitiesFetched, result.ActivitiesStored, result.SamplesFetched)
			for _, e := range result.Errors {
				fmt.Println("  warning:", e)
			}
			if result.SamplesFetched > 0 || result.ActivitiesStored > 0 {
				fmt.Println("Run `runcoach process` to compute metrics.")
			}
			return nil
		},
	}
}
