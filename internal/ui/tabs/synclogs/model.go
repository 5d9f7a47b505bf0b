// Package synclogs provides the model-synchronization history tab.
package synclogs

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/modelgate/console/internal/api"
	"github.com/modelgate/console/internal/app"
	"github.com/modelgate/console/internal/browse"
	"github.com/modelgate/console/internal/config"
	"github.com/modelgate/console/internal/format"
	"github.com/modelgate/console/internal/models"
	"github.com/modelgate/console/internal/services"
	"github.com/modelgate/console/internal/ui/styles"
)

// syncRefreshDelay is how long after triggering a sync the tab waits
// before re-reading the history; the scheduler needs a moment to write
// its first runs.
const syncRefreshDelay = 2 * time.Second

// Service is the slice of the gateway API this tab consumes.
type Service interface {
	ModelSyncLogs(ctx context.Context, q api.SyncLogQuery) (*models.SyncLogPage, error)
	ModelSyncStats(ctx context.Context) (*models.SyncStats, error)
	SyncAllProviderModels(ctx context.Context) error
	DeleteModelSyncLogs(ctx context.Context, ids []int64) error
	ClearModelSyncLogs(ctx context.Context) (int64, error)
}

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	GotoPage  key.Binding
	PageSize  key.Binding
	Unchanged key.Binding
	SyncNow   key.Binding
	Select    key.Binding
	SelectAll key.Binding
	Detail    key.Binding
	Delete    key.Binding
	DeleteSel key.Binding
	ClearAll  key.Binding
	Escape    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "row up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "row down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next page"),
		),
		GotoPage: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "go to page"),
		),
		PageSize: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "page size"),
		),
		Unchanged: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "show unchanged"),
		),
		SyncNow: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "sync now"),
		),
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select row"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select page"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete row"),
		),
		DeleteSel: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete selected"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear all"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

type syncLogsLoadedMsg struct {
	version uint64
	page    *models.SyncLogPage
}

type syncLogsErrorMsg struct {
	version uint64
	err     error
}

type statsLoadedMsg struct {
	stats *models.SyncStats
}

type statsErrorMsg struct {
	err error
}

type syncDoneMsg struct {
	err error
}

// syncSettledMsg arrives after the post-trigger grace period and asks for
// a history reload.
type syncSettledMsg struct{}

type deleteDoneMsg struct {
	requested int
	err       error
}

type clearDoneMsg struct {
	deleted int64
	err     error
}

// Model represents the sync history tab state.
type Model struct {
	state   *app.State
	manager *services.Manager
	svc     Service

	timeout time.Duration

	query     *browse.Query
	selection *browse.Selection
	flow      *browse.Flow

	table   table.Model
	records []models.ModelSyncLogRecord
	stats   *models.SyncStats

	// showUnchanged includes no-op sync runs in the listing.
	showUnchanged bool

	viewing   bool
	detail    viewport.Model
	detailRec *models.ModelSyncLogRecord

	jumping   bool
	pageInput textinput.Model

	loading  bool
	fetchErr string
	width    int
	height   int
	keys     keyMap
}

// New creates a sync history tab backed by the live gateway client.
func New(state *app.State, mgr *services.Manager) *Model {
	m := newModel(state, mgr.Client(), mgr.Config())
	m.manager = mgr
	return m
}

// newModel wires the tab against any Service implementation.
func newModel(state *app.State, svc Service, cfg *config.Config) *Model {
	pageInput := textinput.New()
	pageInput.Placeholder = "page"
	pageInput.CharLimit = 6
	pageInput.Width = 8

	t := table.New(
		table.WithColumns(tableColumns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.TextPrimary).
		Background(styles.BgAccent).
		Bold(true)
	t.SetStyles(s)

	m := &Model{
		state:     state,
		svc:       svc,
		query:     browse.NewQuery(),
		selection: browse.NewSelection(),
		flow:      browse.NewFlow(),
		table:     t,
		detail:    viewport.New(0, 0),
		pageInput: pageInput,
		keys:      defaultKeyMap(),
	}
	if cfg != nil {
		m.timeout = cfg.RequestTimeout
	}
	if m.timeout <= 0 {
		m.timeout = 30 * time.Second
	}
	return m
}

// Init initializes the sync history tab.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(
		m.fetchCmd(m.query.Bump()),
		m.statsCmd(),
	)
}

// Activate reloads the page and the scheduler stats.
func (m *Model) Activate() tea.Cmd {
	m.selection.Clear()
	m.updateTableData()
	return tea.Batch(m.refreshCmd(), m.statsCmd())
}

// Deactivate closes transient overlays.
func (m *Model) Deactivate() {
	m.viewing = false
	m.closeJump()
	m.flow.Cancel()
}

// CapturesInput reports whether the go-to-page prompt owns the keyboard.
func (m *Model) CapturesInput() bool {
	return m.jumping
}

func (m *Model) fetchCmd(version uint64) tea.Cmd {
	q := api.SyncLogQuery{
		Page:          m.query.Page(),
		PageSize:      m.query.PageSize(),
		ShowUnchanged: m.showUnchanged,
	}
	svc := m.svc
	timeout := m.timeout

	return func() tea.Msg {
		if svc == nil {
			return syncLogsErrorMsg{version: version, err: fmt.Errorf("gateway client not initialized")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		page, err := svc.ModelSyncLogs(ctx, q)
		if err != nil {
			return syncLogsErrorMsg{version: version, err: err}
		}
		return syncLogsLoadedMsg{version: version, page: page}
	}
}

func (m *Model) refreshCmd() tea.Cmd {
	m.loading = true
	version := m.query.Bump()
	return tea.Batch(
		m.fetchCmd(version),
		func() tea.Msg { return app.StartLoadingMsg{Resource: "synclogs"} },
	)
}

func (m *Model) statsCmd() tea.Cmd {
	svc := m.svc
	timeout := m.timeout
	return func() tea.Msg {
		if svc == nil {
			return statsErrorMsg{err: fmt.Errorf("gateway client not initialized")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		stats, err := svc.ModelSyncStats(ctx)
		if err != nil {
			return statsErrorMsg{err: err}
		}
		return statsLoadedMsg{stats: stats}
	}
}

func (m *Model) syncNowCmd() tea.Cmd {
	svc := m.svc
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return syncDoneMsg{err: svc.SyncAllProviderModels(ctx)}
	}
}

func (m *Model) deleteCmd(ids []int64) tea.Cmd {
	svc := m.svc
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return deleteDoneMsg{requested: len(ids), err: svc.DeleteModelSyncLogs(ctx, ids)}
	}
}

func (m *Model) clearAllCmd() tea.Cmd {
	svc := m.svc
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		deleted, err := svc.ClearModelSyncLogs(ctx)
		return clearDoneMsg{deleted: deleted, err: err}
	}
}

// Update handles messages for the sync history tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case syncLogsLoadedMsg:
		return m.handleLoaded(msg)

	case syncLogsErrorMsg:
		return m.handleLoadError(msg)

	case statsLoadedMsg:
		m.stats = msg.stats
		return m, nil

	case statsErrorMsg:
		// The stats card keeps its previous values; the page fetch
		// surfaces connectivity problems loudly enough.
		return m, nil

	case syncDoneMsg:
		return m.handleSyncDone(msg)

	case syncSettledMsg:
		return m, tea.Batch(m.refreshCmd(), m.statsCmd())

	case deleteDoneMsg:
		return m.handleDeleteDone(msg)

	case clearDoneMsg:
		return m.handleClearDone(msg)

	case app.RefreshMsg:
		return m, tea.Batch(m.refreshCmd(), m.statsCmd())

	case app.ConfigReloadedMsg:
		if m.manager != nil {
			if cfg := m.manager.Config(); cfg != nil {
				m.timeout = cfg.RequestTimeout
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m *Model) handleLoaded(msg syncLogsLoadedMsg) (app.Tab, tea.Cmd) {
	if !m.query.Matches(msg.version) {
		return m, nil
	}

	m.loading = false
	m.fetchErr = ""
	m.records = msg.page.Data

	if m.query.Apply(msg.page.Pagination.Total, msg.page.Pagination.TotalPages) {
		m.loading = true
		m.updateTableData()
		return m, m.fetchCmd(m.query.Bump())
	}

	m.selection.Retain(m.visibleIDs())
	m.updateTableData()
	return m, func() tea.Msg { return app.StopLoadingMsg{Resource: "synclogs"} }
}

func (m *Model) handleLoadError(msg syncLogsErrorMsg) (app.Tab, tea.Cmd) {
	if !m.query.Matches(msg.version) {
		return m, nil
	}
	m.loading = false
	m.fetchErr = msg.err.Error()
	return m, tea.Batch(
		func() tea.Msg { return app.StopLoadingMsg{Resource: "synclogs"} },
		notifyError(fmt.Sprintf("Failed to load sync history: %v", msg.err)),
	)
}

func (m *Model) handleSyncDone(msg syncDoneMsg) (app.Tab, tea.Cmd) {
	if msg.err != nil {
		return m, notifyError(fmt.Sprintf("Sync trigger failed: %v", msg.err))
	}
	return m, tea.Batch(
		notifyInfo("Model sync started"),
		tea.Tick(syncRefreshDelay, func(time.Time) tea.Msg { return syncSettledMsg{} }),
	)
}

func (m *Model) handleDeleteDone(msg deleteDoneMsg) (app.Tab, tea.Cmd) {
	m.flow.Finish()
	if msg.err != nil {
		return m, notifyError(fmt.Sprintf("Delete failed: %v", msg.err))
	}
	m.selection.Clear()
	if m.viewing {
		m.closeDetail()
	}
	return m, tea.Batch(
		notifySuccess(fmt.Sprintf("Deleted %d sync logs", msg.requested)),
		m.refreshCmd(),
		m.statsCmd(),
	)
}

func (m *Model) handleClearDone(msg clearDoneMsg) (app.Tab, tea.Cmd) {
	m.flow.Finish()
	if msg.err != nil {
		return m, notifyError(fmt.Sprintf("Clear failed: %v", msg.err))
	}
	m.selection.Clear()
	return m, tea.Batch(
		notifySuccess(fmt.Sprintf("Cleared %d sync logs", msg.deleted)),
		m.refreshCmd(),
		m.statsCmd(),
	)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch {
	case m.jumping:
		return m.updateJump(msg)
	case m.flow.Confirming():
		return m.updateConfirm(msg)
	case m.viewing:
		return m.updateDetail(msg)
	default:
		return m.updateBrowse(msg)
	}
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PrevPage):
		return m.gotoPage(m.query.Page() - 1)

	case key.Matches(msg, m.keys.NextPage):
		return m.gotoPage(m.query.Page() + 1)

	case key.Matches(msg, m.keys.GotoPage):
		m.jumping = true
		m.pageInput.SetValue("")
		m.pageInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.PageSize):
		if version, ok := m.query.SetPageSize(m.query.NextPageSize()); ok {
			m.selection.Clear()
			m.loading = true
			return m, tea.Batch(m.fetchCmd(version), startLoading())
		}
		return m, nil

	case key.Matches(msg, m.keys.Unchanged):
		// Visibility is part of the query: page 1, fresh version,
		// selection gone.
		m.showUnchanged = !m.showUnchanged
		version := m.query.ResetPage()
		m.selection.Clear()
		m.loading = true
		return m, tea.Batch(m.fetchCmd(version), startLoading())

	case key.Matches(msg, m.keys.SyncNow):
		return m, m.syncNowCmd()

	case key.Matches(msg, m.keys.Select):
		if rec := m.cursorRecord(); rec != nil {
			m.selection.ToggleOne(rec.ID, !m.selection.Has(rec.ID))
			m.updateTableData()
		}
		return m, nil

	case key.Matches(msg, m.keys.SelectAll):
		visible := m.visibleIDs()
		m.selection.ToggleAll(!m.selection.AllSelected(visible), visible)
		m.updateTableData()
		return m, nil

	case key.Matches(msg, m.keys.Detail):
		if rec := m.cursorRecord(); rec != nil {
			m.openDetail(rec)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if rec := m.cursorRecord(); rec != nil {
			m.flow.Request(browse.KindDeleteOne, rec.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.DeleteSel):
		if m.selection.Count() == 0 {
			return m, notifyInfo("No rows selected")
		}
		m.flow.Request(browse.KindDeleteBatch, m.selection.IDs()...)
		return m, nil

	case key.Matches(msg, m.keys.ClearAll):
		m.flow.Request(browse.KindClearAll)
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.selection.Count() > 0 {
			m.selection.Clear()
			m.updateTableData()
		}
		return m, nil

	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
}

func (m *Model) updateJump(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeJump()
		return m, nil

	case "enter":
		raw := strings.TrimSpace(m.pageInput.Value())
		m.closeJump()

		n, err := strconv.Atoi(raw)
		if err != nil {
			return m, notifyWarning(fmt.Sprintf("Invalid page %q", raw))
		}
		if n < 1 || n > m.query.Pages() {
			return m, notifyWarning(fmt.Sprintf("Page %d out of range (1-%d)", n, m.query.Pages()))
		}
		return m.gotoPage(n)

	default:
		var cmd tea.Cmd
		m.pageInput, cmd = m.pageInput.Update(msg)
		return m, cmd
	}
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		kind, ids, ok := m.flow.Confirm()
		if !ok {
			return m, nil
		}
		switch kind {
		case browse.KindDeleteOne, browse.KindDeleteBatch:
			// The sync API deletes one or many through the same call.
			return m, m.deleteCmd(ids)
		case browse.KindClearAll:
			return m, m.clearAllCmd()
		}
		return m, nil

	case "n", "N", "esc":
		m.flow.Cancel()
		return m, nil
	}
	return m, nil
}

func (m *Model) updateDetail(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closeDetail()
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.detailRec != nil {
			m.flow.Request(browse.KindDeleteOne, m.detailRec.ID)
		}
		return m, nil

	default:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
}

func (m *Model) gotoPage(n int) (app.Tab, tea.Cmd) {
	version, ok := m.query.SetPage(n)
	if !ok {
		return m, nil
	}
	m.selection.Clear()
	m.loading = true
	return m, tea.Batch(m.fetchCmd(version), startLoading())
}

func (m *Model) openDetail(rec *models.ModelSyncLogRecord) {
	record := *rec
	m.detailRec = &record
	m.viewing = true
	m.detail.GotoTop()
}

func (m *Model) closeDetail() {
	m.viewing = false
	m.detailRec = nil
}

func (m *Model) closeJump() {
	m.jumping = false
	m.pageInput.Blur()
	m.pageInput.SetValue("")
}

func (m *Model) cursorRecord() *models.ModelSyncLogRecord {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return nil
	}
	return &m.records[idx]
}

func (m *Model) visibleIDs() []int64 {
	ids := make([]int64, 0, len(m.records))
	for _, rec := range m.records {
		ids = append(ids, rec.ID)
	}
	return ids
}

func (m *Model) updateTableData() {
	rows := make([]table.Row, 0, len(m.records))
	for _, rec := range m.records {
		mark := " "
		if m.selection.Has(rec.ID) {
			mark = "✓"
		}
		rows = append(rows, table.Row{
			mark,
			strconv.FormatInt(rec.ID, 10),
			format.Timestamp(rec.SyncedAt),
			rec.ProviderName,
			rec.Status,
			fmt.Sprintf("+%d", rec.AddedCount),
			fmt.Sprintf("-%d", rec.RemovedCount),
		})
	}
	m.table.SetRows(rows)

	if cursor := m.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func tableColumns(width int) []table.Column {
	providerWidth := width - 56
	if providerWidth < 12 {
		providerWidth = 12
	}
	if providerWidth > 28 {
		providerWidth = 28
	}
	return []table.Column{
		{Title: " ", Width: 2},
		{Title: "ID", Width: 6},
		{Title: "Synced", Width: 19},
		{Title: "Provider", Width: providerWidth},
		{Title: "Status", Width: 10},
		{Title: "Added", Width: 6},
		{Title: "Removed", Width: 8},
	}
}

// SetSize sets the available size for the sync history tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	// The stats card sits above the table.
	tableHeight := height - 13
	if tableHeight < 3 {
		tableHeight = 3
	}
	m.table.SetHeight(tableHeight)
	m.table.SetColumns(tableColumns(width))

	m.detail.Width = width - 4
	m.detail.Height = height - 4
	if m.detail.Height < 3 {
		m.detail.Height = 3
	}
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.viewing {
		return []key.Binding{m.keys.Delete, m.keys.Escape}
	}
	return []key.Binding{
		m.keys.SyncNow,
		m.keys.Unchanged,
		m.keys.Select,
		m.keys.Detail,
		m.keys.Delete,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down, m.keys.PrevPage, m.keys.NextPage},
		{m.keys.GotoPage, m.keys.PageSize, m.keys.Unchanged, m.keys.SyncNow},
		{m.keys.Select, m.keys.SelectAll, m.keys.Detail},
		{m.keys.Delete, m.keys.DeleteSel, m.keys.ClearAll},
	}
}

func startLoading() tea.Cmd {
	return func() tea.Msg { return app.StartLoadingMsg{Resource: "synclogs"} }
}

func notifySuccess(message string) tea.Cmd {
	return func() tea.Msg {
		return app.AddNotificationMsg{
			Type:     app.NotificationSuccess,
			Message:  message,
			Duration: app.DefaultNotificationDuration,
		}
	}
}

func notifyError(message string) tea.Cmd {
	return func() tea.Msg {
		return app.AddNotificationMsg{
			Type:     app.NotificationError,
			Message:  message,
			Duration: app.LongNotificationDuration,
		}
	}
}

func notifyWarning(message string) tea.Cmd {
	return func() tea.Msg {
		return app.AddNotificationMsg{
			Type:     app.NotificationWarning,
			Message:  message,
			Duration: app.DefaultNotificationDuration,
		}
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
