// ABOUTME: Terminal dashboard using the bubbletea framework
// ABOUTME: Renders snapshots delivered by the dashboard refresher and asks it for reloads
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/salesdesk/dashboard"
	"github.com/harperreed/salesdesk/models"
	"github.com/harperreed/salesdesk/report"
)

// ViewMode represents the current TUI tab
type ViewMode int

const (
	ViewOverview ViewMode = iota
	ViewDeals
	ViewCallbacks
)

var viewNames = []string{"Overview", "Deals", "Callbacks"}

// Columns the s key cycles through on each table.
var (
	dealSortFields     = []string{"createdAt", "amount", "customerName", "salesAgentName", "team", "status"}
	callbackSortFields = []string{"createdAt", "priority", "customerName", "status", "scheduledDate"}
)

// Refresher reloads the snapshot on its own schedule and on demand.
// *dashboard.Refresher satisfies it; it cancels and discards superseded loads.
type Refresher interface {
	Trigger()
}

type Options struct {
	PageSize int
}

type snapshotMsg struct {
	snap dashboard.Snapshot
}

// SnapshotMsg wraps a delivered snapshot for tea.Program.Send.
func SnapshotMsg(snap dashboard.Snapshot) tea.Msg {
	return snapshotMsg{snap: snap}
}

// Model is the main bubbletea model
type Model struct {
	refresher Refresher
	identity  models.Identity
	opts      Options

	viewMode ViewMode
	snap     dashboard.Snapshot
	loaded   bool
	loading  bool
	quitting bool

	dealSort     report.SortState
	callbackSort report.SortState
	page         int
	cursor       int

	width  int
	height int
	now    func() time.Time
}

// NewModel creates a new TUI model. The refresher is expected to be
// started by the caller; the model shows a loading state until its first delivery.
func NewModel(refresher Refresher, identity models.Identity, opts Options) Model {
	if opts.PageSize <= 0 {
		opts.PageSize = report.DefaultPageSize
	}
	return Model{
		refresher:    refresher,
		identity:     identity,
		opts:         opts,
		loading:      true,
		dealSort:     report.SortState{Field: "createdAt", Direction: report.Desc},
		callbackSort: report.SortState{Field: "createdAt", Direction: report.Desc},
		page:         1,
		width:        100,
		height:       30,
		now:          time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case snapshotMsg:
		if m.quitting {
			return m, nil
		}
		m.snap = msg.snap
		m.loaded = true
		m.loading = false
		m = m.clampPage()
		return m, nil
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "r":
		m.loading = true
		m.refresher.Trigger()
	case "tab", "right":
		m.viewMode = (m.viewMode + 1) % ViewMode(len(viewNames))
		m.page, m.cursor = 1, 0
	case "shift+tab", "left":
		m.viewMode = (m.viewMode + ViewMode(len(viewNames)) - 1) % ViewMode(len(viewNames))
		m.page, m.cursor = 1, 0
	case "s":
		m = m.cycleSort()
	case "d":
		m = m.toggleDirection()
	case "n", "pgdown":
		m.page++
		m.cursor = 0
		m = m.clampPage()
	case "p", "pgup":
		if m.page > 1 {
			m.page--
		}
		m.cursor = 0
	case "j", "down":
		m.cursor++
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	}
	return m, nil
}

func nextField(fields []string, current string) string {
	for i, f := range fields {
		if f == current {
			return fields[(i+1)%len(fields)]
		}
	}
	return fields[0]
}

func (m Model) cycleSort() Model {
	switch m.viewMode {
	case ViewDeals:
		m.dealSort = m.dealSort.Toggle(nextField(dealSortFields, m.dealSort.Field))
	case ViewCallbacks:
		m.callbackSort = m.callbackSort.Toggle(nextField(callbackSortFields, m.callbackSort.Field))
	}
	m.page, m.cursor = 1, 0
	return m
}

func (m Model) toggleDirection() Model {
	switch m.viewMode {
	case ViewDeals:
		m.dealSort = m.dealSort.Toggle(m.dealSort.Field)
	case ViewCallbacks:
		m.callbackSort = m.callbackSort.Toggle(m.callbackSort.Field)
	}
	return m
}

func (m Model) dealPage() report.Page[models.Deal] {
	return report.SortAndPage(m.snap.Deals, m.dealSort.Field, m.dealSort.Direction, m.page, m.opts.PageSize)
}

func (m Model) callbackPage() report.Page[models.Callback] {
	return report.SortAndPage(m.snap.Callbacks, m.callbackSort.Field, m.callbackSort.Direction, m.page, m.opts.PageSize)
}

// clampPage keeps the page inside the current table after data or view changes.
func (m Model) clampPage() Model {
	switch m.viewMode {
	case ViewDeals:
		m.page = m.dealPage().Page
	case ViewCallbacks:
		m.page = m.callbackPage().Page
	default:
		m.page = 1
	}
	return m
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))
)
