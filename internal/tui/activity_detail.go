package tui

import (
	"fmt"
	"strings"

	"runcoach/internal/analysis"
	"runcoach/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ActivityDetailModel is the run drill-down screen model
type ActivityDetailModel struct {
	queryService *service.QueryService
	activityID   int64
	detail       *service.ActivityDetail
	viewport     viewport.Model
	loading      bool
	err          error
	width        int
	height       int
	ready        bool
}

// NewActivityDetailModel creates a new activity detail model
func NewActivityDetailModel(qs *service.QueryService, activityID int64, width, height int) ActivityDetailModel {
	m := ActivityDetailModel{
		queryService: qs,
		activityID:   activityID,
		loading:      true,
		width:        width,
		height:       height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6) // header/footer space
		m.ready = true
	}

	return m
}

// Init initializes the activity detail screen
func (m ActivityDetailModel) Init() tea.Cmd {
	return m.loadDetail
}

type activityDetailLoadedMsg struct {
	detail *service.ActivityDetail
	err    error
}

func (m ActivityDetailModel) loadDetail() tea.Msg {
	detail, err := m.queryService.ActivityDetail(m.activityID)
	return activityDetailLoadedMsg{detail: detail, err: err}
}

// Update handles messages
func (m ActivityDetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activityDetailLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.detail = msg.detail
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.detail != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadDetail
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the activity detail screen
func (m ActivityDetailModel) View() string {
	if m.loading {
		return "\n  Loading run details..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  esc: back to list  j/k or arrows: scroll  r: refresh")

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m ActivityDetailModel) renderContent() string {
	if m.detail == nil {
		return "No data"
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderSummary())

	if len(m.detail.Segments) > 0 {
		sections = append(sections, m.renderSegments())
	}
	if len(m.detail.Comparisons) > 0 {
		sections = append(sections, m.renderComparisons())
	}

	sections = append(sections, m.renderCardiac())

	if m.detail.Metrics != nil && m.detail.Metrics.RollingAvgEfficiency != nil {
		sections = append(sections, m.renderRollingContext())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func sectionTitle(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render(s)
}

func (m ActivityDetailModel) renderHeader() string {
	a := m.detail.Activity
	title := cardTitleStyle.Render(a.Name)

	date := a.StartDate.Format("Monday, January 2, 2006 at 3:04 PM")
	subtitle := lipgloss.NewStyle().Foreground(mutedColor).Render(date)

	pace := "-"
	if a.DurationSec > 0 && a.DistanceM > 0 {
		pace = service.FormatPace(a.DurationMin()/a.DistanceKm()) + "/km"
	}
	stats := fmt.Sprintf("%.1f km  •  %s  •  %s  •  %s",
		a.DistanceKm(), formatDuration(a.DurationSec), pace, a.Category)
	statsLine := lipgloss.NewStyle().Foreground(textColor).Bold(true).Render(stats)

	return lipgloss.JoinVertical(lipgloss.Left, "", title, subtitle, statsLine, "")
}

func (m ActivityDetailModel) renderSummary() string {
	lines := []string{sectionTitle("Summary")}

	met := m.detail.Metrics
	if met == nil {
		lines = append(lines, "  Not processed yet - run `runcoach process`", "")
		return strings.Join(lines, "\n")
	}

	fmtVal := func(p *float64, format string) string {
		if p == nil {
			return "-"
		}
		return fmt.Sprintf(format, *p)
	}

	lines = append(lines,
		fmt.Sprintf("  Efficiency Factor:    %s", fmtVal(met.EfficiencyFactor, "%.3f")),
		fmt.Sprintf("  Cardiac Drift:        %s", fmtVal(met.CardiacDriftPct, "%.1f%%")),
		fmt.Sprintf("  Pace Collapse At:     %s", fmtVal(met.CollapseKm, "%.1f km")),
		fmt.Sprintf("  Endurance Index:      %s", fmtVal(met.EnduranceIndex, "%.2f")),
		fmt.Sprintf("  Elevation Gain:       %.0f m", met.ElevationGainM),
	)
	if met.TimeAbove90Sec != nil && *met.TimeAbove90Sec > 0 {
		lines = append(lines, fmt.Sprintf("  Time Above 90%% Max:   %s", formatDuration(int(*met.TimeAbove90Sec))))
	}

	c := m.detail.Cadence
	if c.MeanSPM != nil {
		cadence := fmt.Sprintf("%.0f spm", *c.MeanSPM)
		if c.DriftSPMPerHr != nil {
			cadence += fmt.Sprintf(" (%+.1f spm/h)", *c.DriftSPMPerHr)
		}
		lines = append(lines, fmt.Sprintf("  Cadence:              %s", cadence))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderSegments() string {
	lines := []string{sectionTitle("Segments")}

	header := fmt.Sprintf("  %-4s  %-12s  %8s  %7s  %7s", "Seg", "Km", "Pace", "Avg HR", "Drift")
	lines = append(lines, lipgloss.NewStyle().Foreground(primaryColor).Render(header))

	for _, s := range m.detail.Segments {
		pace := service.FormatPace(s.PaceMinKm)
		hr := "-"
		if s.HRAvg > 0 {
			hr = fmt.Sprintf("%.0f", s.HRAvg)
		}
		row := fmt.Sprintf("  %-4d  %5.2f-%-6.2f  %8s  %7s  %+6.1f",
			s.Index, s.StartKm, s.EndKm, pace, hr, s.IntraDrift)
		lines = append(lines, row)
	}

	if len(m.detail.Patterns) > 0 {
		lines = append(lines, "")
		lines = append(lines, "  Patterns: "+warningStyle.Render(strings.Join(m.detail.Patterns, ", ")))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderComparisons() string {
	lines := []string{sectionTitle("vs Prior " + m.detail.Activity.Category + " Runs")}

	for _, c := range m.detail.Comparisons {
		parts := []string{"pace " + c.PaceTrend}
		if c.HRTrend != "" {
			parts = append(parts, "hr "+c.HRTrend)
		}
		parts = append(parts, "drift "+c.DriftTrend)
		line := fmt.Sprintf("  Segment %d: %s", c.Index, strings.Join(parts, ", "))
		if c.PacePercentile != nil {
			line += fmt.Sprintf("  (faster than %.0f%% of %d runs)", *c.PacePercentile, c.SampleSize)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderCardiac() string {
	rep := m.detail.Cardiac
	lines := []string{sectionTitle("Heart Rate Zones")}

	statusStyled := statusStyle.Render(rep.Status)
	switch rep.Status {
	case analysis.StatusExcellent:
		statusStyled = successStyle.Render(rep.Status)
	case analysis.StatusWarning:
		statusStyled = warningStyle.Render(rep.Status)
	}
	lines = append(lines, "  Distribution: "+statusStyled)

	zoneColors := []lipgloss.Color{
		lipgloss.Color("#10B981"), // Z1 recovery
		lipgloss.Color("#3B82F6"), // Z2 aerobic base
		lipgloss.Color("#F59E0B"), // Z3 tempo
		lipgloss.Color("#EF4444"), // Z4 threshold
		lipgloss.Color("#9333EA"), // Z5 maximal
	}

	maxBarWidth := 30
	for i, pct := range rep.ZonePct {
		barWidth := int(pct / 100 * float64(maxBarWidth))
		if barWidth < 1 && pct > 0 {
			barWidth = 1
		}
		bar := strings.Repeat("█", barWidth)
		line := fmt.Sprintf("  Z%d ", i+1) +
			lipgloss.NewStyle().Foreground(zoneColors[i]).Render(bar) +
			fmt.Sprintf(" %5.1f%%", pct)
		lines = append(lines, line)
	}

	for _, a := range rep.Alerts {
		lines = append(lines, errorStyle.Render("  ! "+a))
	}
	for _, o := range rep.Observations {
		lines = append(lines, warningStyle.Render("  • "+o))
	}
	for _, r := range rep.Recommendations {
		lines = append(lines, statusStyle.Render("  → "+r))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderRollingContext() string {
	met := m.detail.Metrics
	lines := []string{sectionTitle(fmt.Sprintf("Rolling %s Context", m.detail.Activity.Category))}

	trendArrow := func(t int) string {
		switch {
		case t > 0:
			return "↑"
		case t < 0:
			return "↓"
		default:
			return "stable"
		}
	}

	lines = append(lines, fmt.Sprintf("  Efficiency: avg %.3f  (P10 %.3f - P90 %.3f)  %s",
		*met.RollingAvgEfficiency, deref(met.EfficiencyP10), deref(met.EfficiencyP90),
		trendArrow(met.EfficiencyTrend)))
	if met.RollingAvgDrift != nil {
		lines = append(lines, fmt.Sprintf("  Drift:      avg %.1f%%  (P10 %.1f - P90 %.1f)  %s",
			*met.RollingAvgDrift, deref(met.DriftP10), deref(met.DriftP90),
			trendArrow(met.DriftTrend)))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
