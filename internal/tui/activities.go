package tui

import (
	"fmt"

	"runcoach/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ActivitiesModel is the activities list screen model
type ActivitiesModel struct {
	queryService *service.QueryService
	rows         []service.ActivityRow
	cursor       int
	offset       int
	pageSize     int
	loading      bool
	err          error
}

// NewActivitiesModel creates a new activities model
func NewActivitiesModel(qs *service.QueryService) ActivitiesModel {
	return ActivitiesModel{
		queryService: qs,
		pageSize:     15,
		loading:      true,
	}
}

// Init initializes the activities screen
func (m ActivitiesModel) Init() tea.Cmd {
	return m.loadPage
}

type activitiesLoadedMsg struct {
	rows []service.ActivityRow
	err  error
}

func (m ActivitiesModel) loadPage() tea.Msg {
	rows, err := m.queryService.Activities(m.pageSize, m.offset)
	return activitiesLoadedMsg{rows: rows, err: err}
}

// Update handles messages
func (m ActivitiesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activitiesLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.rows = msg.rows
		if m.cursor >= len(m.rows) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			} else if m.offset > 0 {
				m.offset -= m.pageSize
				m.cursor = m.pageSize - 1
				m.loading = true
				return m, m.loadPage
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			} else if len(m.rows) == m.pageSize {
				m.offset += m.pageSize
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "pgup":
			if m.offset > 0 {
				m.offset -= m.pageSize
				if m.offset < 0 {
					m.offset = 0
				}
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "pgdown":
			if len(m.rows) == m.pageSize {
				m.offset += m.pageSize
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "r":
			m.loading = true
			return m, m.loadPage
		case "enter":
			if len(m.rows) > 0 && m.cursor < len(m.rows) {
				activityID := m.rows[m.cursor].Activity.ID
				return m, func() tea.Msg {
					return OpenActivityDetailMsg{ActivityID: activityID}
				}
			}
		}
	}
	return m, nil
}

// View renders the activities list
func (m ActivitiesModel) View() string {
	if m.loading {
		return "\n  Loading activities..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if len(m.rows) == 0 {
		return "\n  No runs found. Press 's' to sync with Strava or import .fit files."
	}

	var sections []string

	title := cardTitleStyle.Render(fmt.Sprintf("Runs (%d-%d)", m.offset+1, m.offset+len(m.rows)))
	sections = append(sections, title)

	header := tableHeaderStyle.Render(fmt.Sprintf("   %-10s  %-22s  %-14s  %8s  %6s  %6s  %6s",
		"Date", "Name", "Category", "Distance", "Pace", "Eff", "Drift"))
	sections = append(sections, header)

	for i, row := range m.rows {
		a := row.Activity

		pace := "-"
		if a.DurationSec > 0 && a.DistanceM > 0 {
			pace = service.FormatPace(a.DurationMin() / a.DistanceKm())
		}

		eff, drift := "-", "-"
		if met := row.Metrics; met != nil {
			if met.EfficiencyFactor != nil {
				eff = fmt.Sprintf("%.2f", *met.EfficiencyFactor)
			}
			if met.CardiacDriftPct != nil {
				drift = fmt.Sprintf("%.1f%%", *met.CardiacDriftPct)
			}
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%-10s  %-22s  %-14s  %7.1fkm  %6s  %6s  %6s",
			cursor,
			a.StartDate.Format("Jan 02"),
			truncateName(a.Name, 22),
			a.Category,
			a.DistanceKm(),
			pace,
			eff,
			drift,
		)

		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(line))
		} else {
			sections = append(sections, tableRowStyle.Render(line))
		}
	}

	help := statusStyle.Render("\n  enter: run details  j/k: navigate  pgup/pgdn: page  r: refresh")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
