package tui

import (
	"fmt"
	"strings"

	"runcoach/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TargetsModel is the personalized-targets screen model
type TargetsModel struct {
	queryService *service.QueryService
	view         *service.TargetsView
	loading      bool
	err          error
}

// NewTargetsModel creates a new targets model
func NewTargetsModel(qs *service.QueryService) TargetsModel {
	return TargetsModel{
		queryService: qs,
		loading:      true,
	}
}

// Init initializes the targets screen
func (m TargetsModel) Init() tea.Cmd {
	return m.loadTargets
}

type targetsLoadedMsg struct {
	view *service.TargetsView
	err  error
}

func (m TargetsModel) loadTargets() tea.Msg {
	view, err := m.queryService.Targets()
	return targetsLoadedMsg{view: view, err: err}
}

// Update handles messages
func (m TargetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case targetsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.view = msg.view
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadTargets
		}
	}
	return m, nil
}

// View renders the targets screen
func (m TargetsModel) View() string {
	if m.loading {
		return "\n  Loading targets..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.view == nil || len(m.view.Targets) == 0 {
		return "\n  No calibrated targets.\n" +
			statusStyle.Render("  Run `runcoach targets calibrate` after processing your history.")
	}

	var sections []string
	sections = append(sections, m.renderTargets())
	if len(m.view.Changelog) > 0 {
		sections = append(sections, m.renderChangelog())
	}
	sections = append(sections, statusStyle.Render("Press 'r' to refresh"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m TargetsModel) renderTargets() string {
	title := cardTitleStyle.Render("Personalized Targets")

	header := tableHeaderStyle.Render(fmt.Sprintf("%-16s  %10s  %8s  %6s  %s",
		"Category", "Efficiency", "Drift", "Runs", "Basis"))

	rows := []string{header}
	for _, t := range m.view.Targets {
		basis := "history+theory"
		if t.TheoryOnly {
			basis = warningStyle.Render("theory only")
		} else if t.ReferenceMaxHR > 0 && t.SampleSize >= 5 {
			basis = "percentile"
		}
		rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-16s  %10.2f  %7.2f%%  %6d  %s",
			t.Category, t.EfficiencyTarget, t.DriftTarget, t.SampleSize, basis)))
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func (m TargetsModel) renderChangelog() string {
	title := cardTitleStyle.Render("Recent Adjustments")

	var lines []string
	for i, e := range m.view.Changelog {
		if i >= 8 {
			break
		}
		date := ""
		if !e.CreatedAt.IsZero() {
			date = e.CreatedAt.Format("Jan 02") + "  "
		}
		lines = append(lines, statusStyle.Render(date)+helpKeyStyle.Render(e.Reason)+"  "+e.Detail)
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n")))
}
