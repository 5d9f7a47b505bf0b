// Package info provides the configuration and build info tab.
package info

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/modelgate/console/internal/app"
	"github.com/modelgate/console/internal/config"
	"github.com/modelgate/console/internal/services"
)

// keyMap defines the key bindings specific to the info tab.
type keyMap struct {
	Copy key.Binding
	Up   key.Binding
	Down key.Binding
}

// defaultKeyMap returns the default key bindings for the info tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy db path"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the info tab state.
type Model struct {
	state    *app.State
	manager  *services.Manager
	config   *config.Config
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model
}

// New creates a new info model. Configuration is read from the manager on
// every render so the tab tracks live reloads.
func New(state *app.State, manager *services.Manager) *Model {
	m := newModel(state, nil)
	m.manager = manager
	return m
}

func newModel(state *app.State, cfg *config.Config) *Model {
	return &Model{
		state:    state,
		config:   cfg,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// currentConfig prefers the manager's live config over the snapshot the
// model was built with.
func (m *Model) currentConfig() *config.Config {
	if m.manager != nil {
		return m.manager.Config()
	}
	return m.config
}

// Init initializes the info tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the info tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Copy):
			if cfg := m.currentConfig(); cfg != nil && cfg.DatabasePath != "" {
				path := cfg.DatabasePath
				return m, func() tea.Msg {
					return app.CopyToClipboardMsg{Text: path, Label: "database path"}
				}
			}
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(keyMsg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// SetSize sets the available size for the info tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// Activate implements app.Tab. The info tab has nothing to refresh.
func (m *Model) Activate() tea.Cmd {
	return nil
}

// Deactivate implements app.Tab.
func (m *Model) Deactivate() {}

// CapturesInput implements app.Tab.
func (m *Model) CapturesInput() bool {
	return false
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Copy,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Copy},
		{m.keys.Up, m.keys.Down},
	}
}
