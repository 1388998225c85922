package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"runcoach/internal/program"
	"runcoach/internal/service"
	"runcoach/internal/store"
)

func newWeekCmd() *cobra.Command {
	var weekNumber int

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Score a program week against what was actually run",
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

			dir, err := program.Dir()
			if err != nil {
				return err
			}

			var prog *store.WeeklyProgram
			if weekNumber > 0 {
				prog, err = program.Load(dir, weekNumber)
			} else {
				prog, err = program.LoadLatest(dir)
			}
			if errors.Is(err, program.ErrNoProgram) {
				fmt.Printf("No weekly program found. Drop a week-NN.yaml file into:\n  %s\n", dir)
				return nil
			}
			if err != nil {
				return err
			}

			reviewer := service.NewReviewer(db, cfg.Tunables)
			report, err := reviewer.ScoreWeek(*prog)
			if err != nil {
				return err
			}

			rec := report.Record
			fmt.Printf("Week %d (%s to %s): %.1f/10", prog.WeekNumber, prog.StartDate, prog.EndDate, rec.Score)
			switch rec.Trend {
			case "up":
				fmt.Print("  ↑")
			case "down":
				fmt.Print("  ↓")
			}
			fmt.Println()
			fmt.Printf("  volume %.1f  adherence %.1f  types %.1f  quality %.1f  regularity %.1f\n",
				rec.Volume, rec.Adherence, rec.TypeMatch, rec.Quality, rec.Regularity)
			fmt.Printf("  distance %.1f / %.1f km\n", report.RealizedKm, report.PlannedKm)

			for _, match := range report.Matches {
				status := "missed"
				if match.Activity != nil {
					status = fmt.Sprintf("done (%s, %.1f km)",
						match.Activity.StartDate.Format("Mon"), match.Activity.DistanceKm())
					if !match.ByDate {
						status = "moved " + status[5:]
					}
				}
				fmt.Printf("  %-9s %-14s %4.1f km  %s\n",
					match.Planned.Day, match.Planned.Category, match.Planned.DistanceKm, status)
				if match.Note != "" {
					fmt.Printf("            note: %s\n", match.Note)
				}
			}

			if len(report.Strengths) > 0 {
				fmt.Println("  strengths:", strings.Join(report.Strengths, ", "))
			}
			if len(report.Improvements) > 0 {
				fmt.Println("  improve:  ", strings.Join(report.Improvements, ", "))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&weekNumber, "week", "w", 0, "program week number (default: latest)")
	cmd.AddCommand(newWeekNoteCmd())
	return cmd
}

func newWeekNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note <activity-id> [text]",
		Short: "Attach a free-text note to a run (empty text removes it)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parsing activity id: %w", err)
			}

			db, err := openDB()
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()

			if _, err := db.GetActivity(id); err != nil {
				return err
			}

			note := strings.Join(args[1:], " ")
			if err := db.SaveFeedback(id, note); err != nil {
				return fmt.Errorf("saving note: %w", err)
			}
			if note == "" {
				fmt.Printf("Note removed from activity %d.\n", id)
			} else {
				fmt.Printf("Note saved on activity %d.\n", id)
			}
			return nil
		},
	}
}
