package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"runcoach/internal/service"
)

func newProcessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Re-derive metrics for the full run history",
		Long: "Re-runs the analysis pass over every stored run: cadence\n" +
			"normalization, categorization, kinematic enrichment, zone\n" +
			"distribution and rolling same-category context.",
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

			profile, err := loadProfile(db, cfg)
			if err != nil {
				return err
			}

			processor := service.NewProcessor(db, profile, cfg.Tunables)
			result, err := processor.ProcessAll(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Processed %d runs: %d metrics computed, %d reclassified, %d cadence streams normalized.\n",
				result.Activities, result.MetricsComputed, result.Reclassified, result.CadenceNormalized)
			if result.LTHRUpdated {
				fmt.Println("Lactate threshold estimate refreshed.")
			}
			for _, e := range result.Errors {
				fmt.Println("  warning:", e)
			}
			return nil
		},
	}
}
