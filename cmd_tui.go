package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"runcoach/internal/program"
	"runcoach/internal/service"
	"runcoach/internal/tui"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context())
		},
	}
}

func runTUI(ctx context.Context) error {
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

	// Strava is optional in the TUI; .fit imports work without it
	var syncSvc *service.SyncService
	if client, err := stravaClient(ctx, db, cfg); err == nil {
		syncSvc = service.NewSyncService(client, db)
	} else {
		fmt.Printf("Strava unavailable (%v); continuing without sync.\n", err)
	}

	querySvc := service.NewQueryService(db, profile, cfg.Tunables)
	reviewer := service.NewReviewer(db, cfg.Tunables)

	programDir, err := program.Dir()
	if err != nil {
		return err
	}

	app := tui.NewApp(querySvc, syncSvc, reviewer, programDir)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
