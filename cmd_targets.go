package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"runcoach/internal/service"
	"runcoach/internal/store"
)

func newTargetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Show and calibrate personalized targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCalibrator(func(c *service.Calibrator, db *store.DB) error {
				targets, err := db.ListTargets()
				if err != nil {
					return err
				}
				if len(targets) == 0 {
					fmt.Println("No calibrated targets. Run `runcoach targets calibrate` first.")
					return nil
				}
				printTargets(targets)
				return nil
			})
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "calibrate",
			Short: "Blend theory and history into per-intensity targets",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withCalibrator(func(c *service.Calibrator, db *store.DB) error {
					targets, err := c.CalibrateBlended(time.Now())
					if err != nil {
						return err
					}
					printTargets(targets)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "percentiles",
			Short: "Recalibrate per-category targets from your own distributions",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withCalibrator(func(c *service.Calibrator, db *store.DB) error {
					targets, err := c.RecalculatePercentiles(time.Now())
					if err != nil {
						return err
					}
					if len(targets) == 0 {
						fmt.Println("Not enough valid runs per category yet (need 5).")
						return nil
					}
					printTargets(targets)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "evaluate",
			Short: "Run the weekly tighten/relax trigger evaluation",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withCalibrator(func(c *service.Calibrator, db *store.DB) error {
					result, err := c.EvaluateTriggers()
					if err != nil {
						return err
					}
					switch {
					case len(result.Tightened) > 0:
						fmt.Println("Tightened targets for:", result.Tightened)
					case result.Relaxed:
						fmt.Println("Relaxed all targets after a sustained low-score stretch.")
					default:
						fmt.Println("No adjustment triggered.")
					}
					for _, entry := range result.Changelog {
						fmt.Println("  ", entry)
					}
					return nil
				})
			},
		},
	)

	return cmd
}

func withCalibrator(fn func(*service.Calibrator, *store.DB) error) error {
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

	return fn(service.NewCalibrator(db, profile, cfg.Tunables), db)
}

func printTargets(targets []store.PersonalizedTarget) {
	fmt.Printf("%-16s  %10s  %8s  %5s  %s\n", "CATEGORY", "EFFICIENCY", "DRIFT", "RUNS", "BASIS")
	for _, t := range targets {
		basis := "history+theory"
		if t.TheoryOnly {
			basis = "theory only"
		}
		fmt.Printf("%-16s  %10.2f  %7.2f%%  %5d  %s\n",
			t.Category, t.EfficiencyTarget, t.DriftTarget, t.SampleSize, basis)
	}
}
