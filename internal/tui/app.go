package tui

import (
	"runcoach/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenActivities
	ScreenDetail
	ScreenWeek
	ScreenTargets
	ScreenSync
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	dashboard  DashboardModel
	activities ActivitiesModel
	detail     ActivityDetailModel
	week       WeekModel
	targets    TargetsModel
	syncScreen SyncModel
	help       HelpModel

	queryService *service.QueryService
	syncService  *service.SyncService
	reviewer     *service.Reviewer
	programDir   string

	width  int
	height int
}

// NewApp wires all screens to their services. syncService may be nil when
// running without Strava credentials (fit-file import only).
func NewApp(qs *service.QueryService, ss *service.SyncService, reviewer *service.Reviewer, programDir string) *App {
	return &App{
		screen:       ScreenDashboard,
		queryService: qs,
		syncService:  ss,
		reviewer:     reviewer,
		programDir:   programDir,
		dashboard:    NewDashboardModel(qs),
		activities:   NewActivitiesModel(qs),
		week:         NewWeekModel(reviewer, programDir),
		targets:      NewTargetsModel(qs),
		syncScreen:   NewSyncModel(ss),
		help:         NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.dashboard.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings (unless a sync is running)
		if a.screen != ScreenSync || !a.syncScreen.syncing {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				a.screen = ScreenDashboard
				a.dashboard = NewDashboardModel(a.queryService)
				return a, a.dashboard.Init()
			case "2":
				a.screen = ScreenActivities
				return a, a.activities.Init()
			case "3":
				a.screen = ScreenWeek
				a.week = NewWeekModel(a.reviewer, a.programDir)
				return a, a.week.Init()
			case "4":
				a.screen = ScreenTargets
				a.targets = NewTargetsModel(a.queryService)
				return a, a.targets.Init()
			case "5", "s":
				if a.syncService != nil && a.screen != ScreenSync {
					a.screen = ScreenSync
					return a, a.syncScreen.Init()
				}
				// 's' falls through to the sync screen when already there
			case "?":
				a.prevScreen = a.screen
				a.screen = ScreenHelp
				return a, nil
			case "esc":
				switch a.screen {
				case ScreenHelp:
					a.screen = a.prevScreen
					return a, nil
				case ScreenDetail:
					a.screen = ScreenActivities
					return a, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case OpenActivityDetailMsg:
		a.screen = ScreenDetail
		a.detail = NewActivityDetailModel(a.queryService, msg.ActivityID, a.width, a.height)
		return a, a.detail.Init()

	case SyncCompleteMsg:
		// Back to a fresh dashboard after sync
		a.screen = ScreenDashboard
		a.dashboard = NewDashboardModel(a.queryService)
		return a, a.dashboard.Init()
	}

	var cmd tea.Cmd
	switch a.screen {
	case ScreenDashboard:
		var m tea.Model
		m, cmd = a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
	case ScreenActivities:
		var m tea.Model
		m, cmd = a.activities.Update(msg)
		a.activities = m.(ActivitiesModel)
	case ScreenDetail:
		var m tea.Model
		m, cmd = a.detail.Update(msg)
		a.detail = m.(ActivityDetailModel)
	case ScreenWeek:
		var m tea.Model
		m, cmd = a.week.Update(msg)
		a.week = m.(WeekModel)
	case ScreenTargets:
		var m tea.Model
		m, cmd = a.targets.Update(msg)
		a.targets = m.(TargetsModel)
	case ScreenSync:
		var m tea.Model
		m, cmd = a.syncScreen.Update(msg)
		a.syncScreen = m.(SyncModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := headerStyle.Render("Run Coach")
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenActivities:
		content = a.activities.View()
	case ScreenDetail:
		content = a.detail.View()
	case ScreenWeek:
		content = a.week.View()
	case ScreenTargets:
		content = a.targets.View()
	case ScreenSync:
		content = a.syncScreen.View()
	case ScreenHelp:
		content = a.help.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content)
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Dashboard", ScreenDashboard},
		{"2", "Activities", ScreenActivities},
		{"3", "Week", ScreenWeek},
		{"4", "Targets", ScreenTargets},
		{"5", "Sync", ScreenSync},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}
		if item.screen == ScreenSync && a.syncService == nil {
			continue
		}

		label := "[" + item.key + "] " + item.label
		active := a.screen == item.screen ||
			(a.screen == ScreenDetail && item.screen == ScreenActivities)
		if active {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

// OpenActivityDetailMsg requests the drill-down view for one activity
type OpenActivityDetailMsg struct {
	ActivityID int64
}

// SyncCompleteMsg is sent when sync finishes
type SyncCompleteMsg struct{}
