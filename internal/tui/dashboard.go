package tui

import (
	"fmt"

	"runcoach/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	queryService *service.QueryService
	data         *service.DashboardData
	loading      bool
	err          error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(qs *service.QueryService) DashboardModel {
	return DashboardModel{
		queryService: qs,
		loading:      true,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m DashboardModel) loadData() tea.Msg {
	data, err := m.queryService.Dashboard()
	if err != nil {
		return dashboardDataMsg{err: err}
	}
	return dashboardDataMsg{data: data}
}

type dashboardDataMsg struct {
	data *service.DashboardData
	err  error
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Loading dashboard..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.data == nil || len(m.data.Recent) == 0 {
		return "\n  No runs yet. Press 's' to sync with Strava or import .fit files."
	}

	var sections []string

	profileCard := m.renderProfileCard()
	weekCard := m.renderWeekCard()
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, profileCard, "  ", weekCard))

	if len(m.data.EfficiencySeries) > 2 {
		sections = append(sections, m.renderChart())
	}

	sections = append(sections, m.renderRecentActivities())

	help := statusStyle.Render("Press 'r' to refresh, '2' for activities, '3' for the week review")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderProfileCard() string {
	title := cardTitleStyle.Render("Athlete")
	p := m.data.Profile

	lthr := "-"
	if m.data.LTHR != nil {
		lthr = fmt.Sprintf("%.0f bpm (%.0f%% reserve, zone %d)",
			m.data.LTHR.LTHR, m.data.LTHR.ReservePct, m.data.LTHR.Zone)
	} else if p.LTHR != nil {
		lthr = fmt.Sprintf("%.0f bpm", *p.LTHR)
	}

	lines := []string{
		RenderMetric("Resting HR", fmt.Sprintf("%.0f bpm", p.RestingHR), ""),
		RenderMetric("Max HR", fmt.Sprintf("%.0f bpm", p.MaxHR), ""),
		RenderMetric("Estimated LTHR", lthr, ""),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(52).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderWeekCard() string {
	title := cardTitleStyle.Render("Weekly Scores")

	if len(m.data.WeeklyScores) == 0 {
		return cardStyle.Width(34).Render(lipgloss.JoinVertical(lipgloss.Left, title, "No scored weeks yet"))
	}

	var lines []string
	for i, rec := range m.data.WeeklyScores {
		if i >= 4 {
			break
		}
		trend := ""
		switch rec.Trend {
		case "up":
			trend = "↑"
		case "down":
			trend = "↓"
		}
		lines = append(lines, RenderMetric(
			fmt.Sprintf("Week %d", rec.WeekNumber),
			fmt.Sprintf("%.1f/10", rec.Score),
			trend,
		))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(34).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderChart() string {
	title := cardTitleStyle.Render("Efficiency Factor - Trend")

	series := m.data.EfficiencySeries
	if len(series) > service.ChartPoints {
		series = series[len(series)-service.ChartPoints:]
	}
	graph := asciigraph.Plot(series,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(2),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func (m DashboardModel) renderRecentActivities() string {
	title := cardTitleStyle.Render("Recent Runs")

	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %-20s  %-14s  %8s  %6s  %6s",
		"Date", "Name", "Category", "Distance", "Eff", "Drift"))

	rows := []string{header}
	for i, row := range m.data.Recent {
		if i >= 5 {
			break
		}
		a := row.Activity

		eff, drift := "-", "-"
		if met := row.Metrics; met != nil {
			if met.EfficiencyFactor != nil {
				eff = fmt.Sprintf("%.2f", *met.EfficiencyFactor)
			}
			if met.CardiacDriftPct != nil {
				drift = fmt.Sprintf("%.1f%%", *met.CardiacDriftPct)
			}
		}

		rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-10s  %-20s  %-14s  %7.1fkm  %6s  %6s",
			a.StartDate.Format("Jan 02"),
			truncateName(a.Name, 20),
			a.Category,
			a.DistanceKm(),
			eff,
			drift,
		)))
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func formatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func truncateName(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
