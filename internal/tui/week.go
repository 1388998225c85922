package tui

import (
	"errors"
	"fmt"
	"strings"

	"runcoach/internal/analysis"
	"runcoach/internal/program"
	"runcoach/internal/service"
	"runcoach/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// WeekModel is the weekly review screen model
type WeekModel struct {
	reviewer   *service.Reviewer
	programDir string

	prog      *store.WeeklyProgram
	report    *analysis.WeekReport
	noProgram bool
	loading   bool
	err       error
}

// NewWeekModel creates a new week review model
func NewWeekModel(reviewer *service.Reviewer, programDir string) WeekModel {
	return WeekModel{
		reviewer:   reviewer,
		programDir: programDir,
		loading:    true,
	}
}

// Init initializes the week review screen
func (m WeekModel) Init() tea.Cmd {
	return m.loadReview
}

type weekReviewMsg struct {
	prog      *store.WeeklyProgram
	report    *analysis.WeekReport
	noProgram bool
	err       error
}

func (m WeekModel) loadReview() tea.Msg {
	prog, err := program.LoadLatest(m.programDir)
	if errors.Is(err, program.ErrNoProgram) {
		return weekReviewMsg{noProgram: true}
	}
	if err != nil {
		return weekReviewMsg{err: err}
	}

	report, err := m.reviewer.ScoreWeek(*prog)
	if err != nil {
		return weekReviewMsg{err: err}
	}
	return weekReviewMsg{prog: prog, report: &report}
}

// Update handles messages
func (m WeekModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case weekReviewMsg:
		m.loading = false
		m.err = msg.err
		m.prog = msg.prog
		m.report = msg.report
		m.noProgram = msg.noProgram
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadReview
		}
	}
	return m, nil
}

// View renders the week review
func (m WeekModel) View() string {
	if m.loading {
		return "\n  Scoring the week..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.noProgram {
		return "\n  No weekly program found.\n" +
			statusStyle.Render("  Drop a week-NN.yaml file into the programs directory to plan a week.")
	}

	var sections []string

	sections = append(sections, m.renderScoreCard())
	sections = append(sections, m.renderMatches())
	sections = append(sections, m.renderNotes())
	sections = append(sections, statusStyle.Render("Press 'r' to re-score"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m WeekModel) renderScoreCard() string {
	rec := m.report.Record
	title := cardTitleStyle.Render(fmt.Sprintf("Week %d  (%s to %s)", m.prog.WeekNumber, m.prog.StartDate, m.prog.EndDate))

	trend := ""
	switch rec.Trend {
	case "up":
		trend = "↑ vs last week"
	case "down":
		trend = "↓ vs last week"
	}

	lines := []string{
		RenderMetric("Overall", fmt.Sprintf("%.1f/10", rec.Score), trend),
		"",
		RenderMetric("Volume", fmt.Sprintf("%.1f", rec.Volume), ""),
		RenderMetric("Adherence", fmt.Sprintf("%.1f", rec.Adherence), ""),
		RenderMetric("Session Types", fmt.Sprintf("%.1f", rec.TypeMatch), ""),
		RenderMetric("Quality", fmt.Sprintf("%.1f", rec.Quality), ""),
		RenderMetric("Regularity", fmt.Sprintf("%.1f", rec.Regularity), ""),
		"",
		RenderMetric("Distance", fmt.Sprintf("%.1f / %.1f km", m.report.RealizedKm, m.report.PlannedKm), ""),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(52).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m WeekModel) renderMatches() string {
	title := cardTitleStyle.Render("Planned Runs")

	var rows []string
	for _, match := range m.report.Matches {
		p := match.Planned
		status := errorStyle.Render("missed")
		if match.Activity != nil {
			what := fmt.Sprintf("%s, %.1f km", match.Activity.StartDate.Format("Mon"), match.Activity.DistanceKm())
			if match.ByDate {
				status = successStyle.Render("done " + what)
			} else {
				status = warningStyle.Render("moved: " + what)
			}
		}
		rows = append(rows, fmt.Sprintf("  %-9s  %-14s  %4.1f km   %s", p.Day, p.Category, p.DistanceKm, status))
		if match.Note != "" {
			rows = append(rows, statusStyle.Render("             \""+match.Note+"\""))
		}
	}

	table := strings.Join(rows, "\n")
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func (m WeekModel) renderNotes() string {
	var lines []string

	if len(m.report.Strengths) > 0 {
		lines = append(lines, successStyle.Render("Strengths:  ")+strings.Join(m.report.Strengths, ", "))
	}
	if len(m.report.Improvements) > 0 {
		lines = append(lines, warningStyle.Render("Improve:    ")+strings.Join(m.report.Improvements, ", "))
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n")
}
