// Package dashboard provides the traffic overview tab: aggregate request
// counters, the bucketed volume chart, token breakdowns, and the trend the
// console captures locally across sessions.
package dashboard

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/modelgate/console/internal/app"
	"github.com/modelgate/console/internal/logger"
	"github.com/modelgate/console/internal/models"
	"github.com/modelgate/console/internal/services"
	"github.com/modelgate/console/internal/ui/components"
)

// snapshotTrendHours bounds how far back the session-trend card reads
// from the local snapshot store.
const snapshotTrendHours = 7 * 24

type snapshotsLoadedMsg struct {
	snapshots []models.MetricSnapshot
}

type snapshotsErrorMsg struct {
	err error
}

// keyMap defines the key bindings specific to the dashboard tab.
type keyMap struct {
	Window     key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Window: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "time window"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the dashboard tab state.
type Model struct {
	state     *app.State
	manager   *services.Manager
	spinner   components.LoadingSpinner
	gauge     components.Gauge
	viewport  viewport.Model
	keys      keyMap
	window    models.MetricsWindow
	snapshots []models.MetricSnapshot
	width     int
	height    int
}

// New creates a new dashboard model.
func New(state *app.State, manager *services.Manager) *Model {
	window := models.Window24Hours
	if manager != nil {
		window = models.WindowFromHours(manager.WindowHours())
	}

	return &Model{
		state:    state,
		manager:  manager,
		spinner:  components.NewSpinner("Loading metrics..."),
		gauge:    components.NewGauge(),
		viewport: viewport.New(0, 0),
		keys:     defaultKeyMap(),
		window:   window,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Init(), m.loadSnapshotsCmd())
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case app.MetricsUpdatedMsg:
		if msg.Metrics != nil {
			cmds = append(cmds, m.gauge.SetPercent(msg.Metrics.SuccessRate*100))
		}
		// The poll that produced this sample also appended a snapshot.
		cmds = append(cmds, m.loadSnapshotsCmd())

	case app.ConfigReloadedMsg:
		if m.manager != nil {
			m.window = models.WindowFromHours(m.manager.WindowHours())
		}

	case app.RefreshMsg:
		if m.manager != nil {
			m.manager.RefreshNow()
		}
		cmds = append(cmds, m.loadSnapshotsCmd())

	case snapshotsLoadedMsg:
		m.snapshots = msg.snapshots

	case snapshotsErrorMsg:
		logger.Warn("failed to load metric snapshots", "error", msg.err)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case components.AnimationTickMsg, progress.FrameMsg:
		var cmd tea.Cmd
		m.gauge, cmd = m.gauge.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Window):
		m.window = m.window.Next()
		if m.manager != nil {
			m.manager.SetWindowHours(m.window.Hours())
		}
		return notifyInfo(fmt.Sprintf("Metrics window: last %s", m.window))
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
}

func (m *Model) loadSnapshotsCmd() tea.Cmd {
	if m.manager == nil || m.manager.Database() == nil {
		return nil
	}

	database := m.manager.Database()
	return func() tea.Msg {
		snapshots, err := database.RecentSnapshots(snapshotTrendHours)
		if err != nil {
			return snapshotsErrorMsg{err: err}
		}
		return snapshotsLoadedMsg{snapshots: snapshots}
	}
}

// SetSize sets the available size for the dashboard.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// Activate syncs the gauge with whatever sample arrived while another tab
// was visible and reloads the trend store.
func (m *Model) Activate() tea.Cmd {
	cmds := []tea.Cmd{m.loadSnapshotsCmd()}
	if metrics := m.state.GetMetrics(); metrics != nil {
		cmds = append(cmds, m.gauge.SetPercent(metrics.SuccessRate*100))
	}
	return tea.Batch(cmds...)
}

// Deactivate implements app.Tab. The dashboard has no transient UI to close.
func (m *Model) Deactivate() {}

// CapturesInput implements app.Tab. The dashboard never owns the keyboard.
func (m *Model) CapturesInput() bool {
	return false
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Window,
		m.keys.ScrollUp,
		m.keys.ScrollDown,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Window},
		{m.keys.ScrollUp, m.keys.ScrollDown},
	}
}

func notifyInfo(message string) tea.Cmd {
	return func() tea.Msg {
		return app.AddNotificationMsg{
			Type:     app.NotificationInfo,
			Message:  message,
			Duration: app.QuickNotificationDuration,
		}
	}
}
