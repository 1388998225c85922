package tui

import (
	"context"
	"fmt"
	"strings"

	"runcoach/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SyncModel drives the Strava sync screen through its idle, running
// and finished states.
type SyncModel struct {
	syncService *service.SyncService
	syncing     bool
	done        bool
	result      *service.SyncResult
	err         error
}

func NewSyncModel(ss *service.SyncService) SyncModel {
	return SyncModel{syncService: ss}
}

func (m SyncModel) Init() tea.Cmd {
	return nil
}

// SyncDoneMsg carries the outcome of a finished sync run.
type SyncDoneMsg struct {
	Result *service.SyncResult
	Err    error
}

func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SyncDoneMsg:
		m.syncing = false
		m.done = true
		m.result, m.err = msg.Result, msg.Err
		return m, func() tea.Msg { return SyncCompleteMsg{} }

	case tea.KeyMsg:
		if m.syncing {
			return m, nil
		}
		if s := msg.String(); s == "enter" || s == "s" {
			m.syncing, m.done = true, false
			m.result, m.err = nil, nil
			return m, m.runSync
		}
	}
	return m, nil
}

func (m SyncModel) runSync() tea.Msg {
	// Progress channel stays nil; the screen shows phases statically
	result, err := m.syncService.SyncAll(context.Background(), nil)
	return SyncDoneMsg{Result: result, Err: err}
}

func (m SyncModel) View() string {
	sections := []string{cardTitleStyle.Render("Strava Sync")}

	switch {
	case m.err != nil:
		sections = append(sections,
			errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)),
			"\n"+statusStyle.Render("  Press 's' or Enter to retry"))

	case m.done:
		sections = append(sections,
			successStyle.Render("\n  Sync complete!"),
			m.renderSummary(),
			"\n"+statusStyle.Render("  Run `runcoach process` or press '1' for the dashboard"))

	case m.syncing:
		sections = append(sections, strings.Join([]string{
			"",
			"  Syncing with Strava...",
			"",
			"  1. Fetching new run activities",
			"  2. Downloading telemetry samples",
			"",
			statusStyle.Render("  This may take a moment..."),
		}, "\n"))

	default:
		short, daily := m.syncService.RateLimitStatus()
		sections = append(sections, strings.Join([]string{
			"",
			"  This will sync your Strava runs:",
			"",
			"  1. Fetch new run activities",
			"  2. Download raw telemetry samples",
			"",
			statusStyle.Render(fmt.Sprintf("  API limits: %d/100 (15min), %d/1000 (daily)", short, daily)),
			"",
			statusStyle.Render("  Press 's' or Enter to start sync"),
		}, "\n"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m SyncModel) renderSummary() string {
	if m.result == nil {
		return ""
	}
	r := m.result

	lines := []string{""}
	if r.ActivitiesStored > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d runs synced", r.ActivitiesStored)))
	} else {
		lines = append(lines, statusStyle.Render("  No new runs"))
	}
	if r.SamplesFetched > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d sample streams downloaded", r.SamplesFetched)))
	}
	if len(r.Errors) > 0 {
		lines = append(lines, "", warningStyle.Render(fmt.Sprintf("  %d errors occurred", len(r.Errors))))
	}
	return strings.Join(lines, "\n")
}
