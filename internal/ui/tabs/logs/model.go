// Package logs provides the request-log browser tab.
package logs

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
	"github.com/modelgate/console/internal/export"
	"github.com/modelgate/console/internal/format"
	"github.com/modelgate/console/internal/logger"
	"github.com/modelgate/console/internal/models"
	"github.com/modelgate/console/internal/services"
	"github.com/modelgate/console/internal/ui/styles"
)

// Service is the slice of the gateway API this tab consumes.
type Service interface {
	Logs(ctx context.Context, q api.LogQuery) (*models.LogPage, error)
	Providers(ctx context.Context) ([]models.CatalogItem, error)
	Models(ctx context.Context) ([]models.CatalogItem, error)
	UserAgents(ctx context.Context) ([]string, error)
	ProviderTemplates(ctx context.Context) ([]models.ProviderTemplate, error)
	DeleteLog(ctx context.Context, id int64) error
	BatchDeleteLogs(ctx context.Context, ids []int64) (int64, error)
	ClearAllLogs(ctx context.Context) (int64, error)
}

// keyMap defines the key bindings specific to the logs tab.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	GotoPage  key.Binding
	PageSize  key.Binding
	Filter    key.Binding
	Reset     key.Binding
	Select    key.Binding
	SelectAll key.Binding
	Detail    key.Binding
	Export    key.Binding
	Delete    key.Binding
	DeleteSel key.Binding
	ClearAll  key.Binding
	Escape    key.Binding
}

// defaultKeyMap returns the default key bindings for the logs tab.
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
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filters"),
		),
		Reset: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear filters"),
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
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export"),
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

// catalogOptions holds the filter value lists loaded from the gateway.
// Status is fixed; the rest come from the catalog endpoints.
type catalogOptions struct {
	models     []string
	providers  []string
	statuses   []string
	styles     []string
	userAgents []string
}

func (c catalogOptions) forDimension(d browse.Dimension) []string {
	switch d {
	case browse.DimModel:
		return c.models
	case browse.DimProvider:
		return c.providers
	case browse.DimStatus:
		return c.statuses
	case browse.DimStyle:
		return c.styles
	case browse.DimUserAgent:
		return c.userAgents
	default:
		return nil
	}
}

func (c *catalogOptions) set(d browse.Dimension, values []string) {
	switch d {
	case browse.DimModel:
		c.models = values
	case browse.DimProvider:
		c.providers = values
	case browse.DimStatus:
		c.statuses = values
	case browse.DimStyle:
		c.styles = values
	case browse.DimUserAgent:
		c.userAgents = values
	}
}

// logsLoadedMsg carries one fetched page, tagged with the query version
// that requested it.
type logsLoadedMsg struct {
	version uint64
	page    *models.LogPage
}

// logsErrorMsg is sent when a page fetch fails.
type logsErrorMsg struct {
	version uint64
	err     error
}

// catalogLoadedMsg delivers the option list of one filter dimension.
// The four catalog endpoints are fetched independently, so one slow or
// failing dimension never holds up the others.
type catalogLoadedMsg struct {
	dim    browse.Dimension
	values []string
}

type catalogErrorMsg struct {
	dim browse.Dimension
	err error
}

type deleteDoneMsg struct {
	id  int64
	err error
}

type batchDeleteDoneMsg struct {
	requested int
	deleted   int64
	err       error
}

type clearDoneMsg struct {
	deleted int64
	err     error
}

type exportDoneMsg struct {
	path string
	err  error
}

// Model represents the logs tab state.
type Model struct {
	state   *app.State
	manager *services.Manager
	svc     Service

	timeout   time.Duration
	exportDir string

	query     *browse.Query
	selection *browse.Selection
	flow      *browse.Flow

	table    table.Model
	records  []models.LogRecord
	catalogs catalogOptions
	// catalogLoaded latches per dimension once its endpoint answered;
	// activations retry only the dimensions still missing.
	catalogLoaded [browse.NumDimensions]bool

	// Detail view state
	viewing   bool
	detail    viewport.Model
	detailRec *models.LogRecord

	// Filter panel state
	filtering bool
	filterDim browse.Dimension

	// Go-to-page prompt state
	jumping   bool
	pageInput textinput.Model

	loading  bool
	fetchErr string
	width    int
	height   int
	keys     keyMap
}

// New creates a logs tab backed by the live gateway client.
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
	// Status values are fixed by the wire contract, not fetched.
	m.catalogs.statuses = []string{models.StatusSuccess, models.StatusError}
	m.catalogLoaded[browse.DimStatus] = true
	if cfg != nil {
		m.timeout = cfg.RequestTimeout
		m.exportDir = cfg.ExportDir
	}
	if m.timeout <= 0 {
		m.timeout = 30 * time.Second
	}
	if m.exportDir == "" {
		m.exportDir = "."
	}
	return m
}

// Init initializes the logs tab.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(
		m.fetchCmd(m.query.Bump()),
		m.loadCatalogsCmd(),
	)
}

// Activate refreshes the page and retries any catalog dimension that
// never loaded. The selection does not survive leaving the tab.
func (m *Model) Activate() tea.Cmd {
	m.selection.Clear()
	m.updateTableData()
	return tea.Batch(m.refreshCmd(), m.loadCatalogsCmd())
}

// Deactivate closes transient overlays so the tab comes back in browse
// mode.
func (m *Model) Deactivate() {
	m.viewing = false
	m.filtering = false
	m.closeJump()
	m.flow.Cancel()
}

// CapturesInput reports whether the go-to-page prompt owns the keyboard.
func (m *Model) CapturesInput() bool {
	return m.jumping
}

// fetchCmd snapshots the current query window and fetches that page. The
// version tags the response so a stale page can be recognized and
// dropped.
func (m *Model) fetchCmd(version uint64) tea.Cmd {
	filters := m.query.Filters()
	q := api.LogQuery{
		Page:         m.query.Page(),
		PageSize:     m.query.PageSize(),
		Name:         filters.Model,
		ProviderName: filters.Provider,
		Status:       filters.Status,
		Style:        filters.Style,
		UserAgent:    filters.UserAgent,
	}
	svc := m.svc
	timeout := m.timeout

	return func() tea.Msg {
		if svc == nil {
			return logsErrorMsg{version: version, err: fmt.Errorf("gateway client not initialized")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		page, err := svc.Logs(ctx, q)
		if err != nil {
			return logsErrorMsg{version: version, err: err}
		}
		return logsLoadedMsg{version: version, page: page}
	}
}

// refreshCmd re-fetches the current page under a fresh version.
func (m *Model) refreshCmd() tea.Cmd {
	m.loading = true
	version := m.query.Bump()
	return tea.Batch(
		m.fetchCmd(version),
		func() tea.Msg { return app.StartLoadingMsg{Resource: "logs"} },
	)
}

// catalogsReady reports whether every filter dimension has its options.
func (m *Model) catalogsReady() bool {
	for _, loaded := range m.catalogLoaded {
		if !loaded {
			return false
		}
	}
	return true
}

// loadCatalogsCmd fetches every still-missing filter dimension in
// parallel. Catalog failures stay quiet: the dimension simply offers no
// values until a later activation succeeds.
func (m *Model) loadCatalogsCmd() tea.Cmd {
	var cmds []tea.Cmd
	for _, dim := range []browse.Dimension{browse.DimModel, browse.DimProvider, browse.DimStyle, browse.DimUserAgent} {
		if !m.catalogLoaded[dim] {
			cmds = append(cmds, m.loadCatalogCmd(dim))
		}
	}
	return tea.Batch(cmds...)
}

// loadCatalogCmd fetches one dimension's option list.
func (m *Model) loadCatalogCmd(dim browse.Dimension) tea.Cmd {
	svc := m.svc
	timeout := m.timeout

	return func() tea.Msg {
		if svc == nil {
			return catalogErrorMsg{dim: dim, err: fmt.Errorf("gateway client not initialized")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var values []string
		var err error
		switch dim {
		case browse.DimModel:
			var items []models.CatalogItem
			if items, err = svc.Models(ctx); err == nil {
				values = models.CatalogNames(items)
			}
		case browse.DimProvider:
			var items []models.CatalogItem
			if items, err = svc.Providers(ctx); err == nil {
				values = models.CatalogNames(items)
			}
		case browse.DimStyle:
			var templates []models.ProviderTemplate
			if templates, err = svc.ProviderTemplates(ctx); err == nil {
				values = models.StyleOptions(templates)
			}
		case browse.DimUserAgent:
			values, err = svc.UserAgents(ctx)
		}
		if err != nil {
			return catalogErrorMsg{dim: dim, err: err}
		}
		return catalogLoadedMsg{dim: dim, values: values}
	}
}

func (m *Model) deleteCmd(id int64) tea.Cmd {
	svc := m.svc
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return deleteDoneMsg{id: id, err: svc.DeleteLog(ctx, id)}
	}
}

func (m *Model) batchDeleteCmd(ids []int64) tea.Cmd {
	svc := m.svc
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		deleted, err := svc.BatchDeleteLogs(ctx, ids)
		return batchDeleteDoneMsg{requested: len(ids), deleted: deleted, err: err}
	}
}

func (m *Model) clearAllCmd() tea.Cmd {
	svc := m.svc
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		deleted, err := svc.ClearAllLogs(ctx)
		return clearDoneMsg{deleted: deleted, err: err}
	}
}

func (m *Model) exportCmd(rec models.LogRecord) tea.Cmd {
	dir := m.exportDir
	return func() tea.Msg {
		path, err := export.Write(dir, &rec)
		return exportDoneMsg{path: path, err: err}
	}
}

// Update handles messages for the logs tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case logsLoadedMsg:
		return m.handleLogsLoaded(msg)

	case logsErrorMsg:
		return m.handleLogsError(msg)

	case catalogLoadedMsg:
		m.catalogs.set(msg.dim, msg.values)
		m.catalogLoaded[msg.dim] = true
		return m, nil

	case catalogErrorMsg:
		// The dimension stays unloaded; the next activation retries it.
		logger.Warn("failed to load filter catalog",
			"dimension", msg.dim.String(), "error", msg.err)
		return m, nil

	case deleteDoneMsg:
		return m.handleDeleteDone(msg)

	case batchDeleteDoneMsg:
		return m.handleBatchDeleteDone(msg)

	case clearDoneMsg:
		return m.handleClearDone(msg)

	case exportDoneMsg:
		return m.handleExportDone(msg)

	case app.RefreshMsg:
		return m, m.refreshCmd()

	case app.ConfigReloadedMsg:
		if m.manager != nil {
			if cfg := m.manager.Config(); cfg != nil {
				m.timeout = cfg.RequestTimeout
				m.exportDir = cfg.ExportDir
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m *Model) handleLogsLoaded(msg logsLoadedMsg) (app.Tab, tea.Cmd) {
	if !m.query.Matches(msg.version) {
		// A newer mutation superseded this fetch.
		return m, nil
	}

	m.loading = false
	m.fetchErr = ""
	m.records = msg.page.Data

	if m.query.Apply(msg.page.Total, msg.page.Pages) {
		// The page we asked for no longer exists; fetch the clamped one.
		m.loading = true
		m.updateTableData()
		return m, m.fetchCmd(m.query.Bump())
	}

	m.selection.Retain(m.visibleIDs())
	m.updateTableData()
	return m, stopLoading("logs")
}

func (m *Model) handleLogsError(msg logsErrorMsg) (app.Tab, tea.Cmd) {
	if !m.query.Matches(msg.version) {
		return m, nil
	}
	// Keep the stale rows and page metadata; just surface the failure.
	m.loading = false
	m.fetchErr = msg.err.Error()
	return m, tea.Batch(
		stopLoading("logs"),
		notifyError(fmt.Sprintf("Failed to load logs: %v", msg.err)),
	)
}

func (m *Model) handleDeleteDone(msg deleteDoneMsg) (app.Tab, tea.Cmd) {
	m.flow.Finish()
	if msg.err != nil {
		return m, notifyError(fmt.Sprintf("Delete failed: %v", msg.err))
	}
	// Other selected rows stay selected; only the deleted id drops out.
	m.selection.Remove(msg.id)
	if m.detailRec != nil && m.detailRec.ID == msg.id {
		m.closeDetail()
	}
	return m, tea.Batch(
		notifySuccess(fmt.Sprintf("Deleted log #%d", msg.id)),
		m.refreshCmd(),
	)
}

func (m *Model) handleBatchDeleteDone(msg batchDeleteDoneMsg) (app.Tab, tea.Cmd) {
	m.flow.Finish()
	if msg.err != nil {
		return m, notifyError(fmt.Sprintf("Batch delete failed: %v", msg.err))
	}
	// The server may have deleted fewer rows than asked when some ids
	// were already gone; the selection clears either way.
	m.selection.Clear()
	note := fmt.Sprintf("Deleted %d logs", msg.deleted)
	if int(msg.deleted) < msg.requested {
		note = fmt.Sprintf("Deleted %d of %d logs", msg.deleted, msg.requested)
	}
	return m, tea.Batch(
		notifySuccess(note),
		m.refreshCmd(),
	)
}

func (m *Model) handleClearDone(msg clearDoneMsg) (app.Tab, tea.Cmd) {
	m.flow.Finish()
	if msg.err != nil {
		return m, notifyError(fmt.Sprintf("Clear failed: %v", msg.err))
	}
	m.selection.Clear()
	return m, tea.Batch(
		notifySuccess(fmt.Sprintf("Cleared %d logs", msg.deleted)),
		m.refreshCmd(),
	)
}

func (m *Model) handleExportDone(msg exportDoneMsg) (app.Tab, tea.Cmd) {
	if msg.err != nil {
		return m, notifyError(fmt.Sprintf("Export failed: %v", msg.err))
	}
	return m, notifySuccess(fmt.Sprintf("Exported to %s", msg.path))
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch {
	case m.jumping:
		return m.updateJump(msg)
	case m.flow.Confirming():
		return m.updateConfirm(msg)
	case m.viewing:
		return m.updateDetail(msg)
	case m.filtering:
		return m.updateFilter(msg)
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
			return m, tea.Batch(m.fetchCmd(version), startLoading("logs"))
		}
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		return m.resetFilters()

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

func (m *Model) updateFilter(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.filterDim = (m.filterDim + 1) % browse.NumDimensions
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.filterDim = (m.filterDim - 1 + browse.NumDimensions) % browse.NumDimensions
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		return m.cycleFilterValue(1)

	case key.Matches(msg, m.keys.PrevPage):
		return m.cycleFilterValue(-1)

	case key.Matches(msg, m.keys.Reset):
		return m.resetFilters()

	case key.Matches(msg, m.keys.Filter), key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Detail):
		m.filtering = false
		return m, nil
	}
	return m, nil
}

// cycleFilterValue steps the focused dimension through "all" plus its
// catalog values. Every accepted step is a query mutation: page back to
// 1, selection gone, one fetch owed.
func (m *Model) cycleFilterValue(delta int) (app.Tab, tea.Cmd) {
	values := append([]string{""}, m.catalogs.forDimension(m.filterDim)...)
	current := m.query.Filters().Get(m.filterDim)

	idx := 0
	for i, v := range values {
		if v == current {
			idx = i
			break
		}
	}
	next := values[(idx+delta+len(values))%len(values)]

	version := m.query.SetFilter(m.filterDim, next)
	m.selection.Clear()
	m.loading = true
	return m, tea.Batch(m.fetchCmd(version), startLoading("logs"))
}

func (m *Model) resetFilters() (app.Tab, tea.Cmd) {
	version := m.query.ResetFilters()
	m.selection.Clear()
	m.loading = true
	return m, tea.Batch(m.fetchCmd(version), startLoading("logs"))
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
		case browse.KindDeleteOne:
			return m, m.deleteCmd(ids[0])
		case browse.KindDeleteBatch:
			return m, m.batchDeleteCmd(ids)
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

	case key.Matches(msg, m.keys.Export):
		if m.detailRec != nil {
			return m, m.exportCmd(*m.detailRec)
		}
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

// gotoPage moves to page n when it exists; out-of-range moves are
// silently ignored for the arrow keys.
func (m *Model) gotoPage(n int) (app.Tab, tea.Cmd) {
	version, ok := m.query.SetPage(n)
	if !ok {
		return m, nil
	}
	m.selection.Clear()
	m.loading = true
	return m, tea.Batch(m.fetchCmd(version), startLoading("logs"))
}

func (m *Model) openDetail(rec *models.LogRecord) {
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

func (m *Model) cursorRecord() *models.LogRecord {
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

// updateTableData rebuilds the table rows from the current page.
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
			format.Timestamp(rec.CreatedAt),
			rec.Name,
			rec.ProviderName,
			rec.Status,
			format.OptDuration(rec.ChunkTime),
			format.Tokens(rec.TotalTokens),
		})
	}
	m.table.SetRows(rows)

	if cursor := m.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func tableColumns(width int) []table.Column {
	modelWidth := width - 72
	if modelWidth < 14 {
		modelWidth = 14
	}
	if modelWidth > 32 {
		modelWidth = 32
	}
	return []table.Column{
		{Title: " ", Width: 2},
		{Title: "ID", Width: 6},
		{Title: "Time", Width: 19},
		{Title: "Model", Width: modelWidth},
		{Title: "Provider", Width: 12},
		{Title: "Status", Width: 8},
		{Title: "Latency", Width: 11},
		{Title: "Tokens", Width: 8},
	}
}

// SetSize sets the available size for the logs tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	tableHeight := height - 7
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
		return []key.Binding{m.keys.Export, m.keys.Delete, m.keys.Escape}
	}
	if m.filtering {
		return []key.Binding{m.keys.Up, m.keys.Down, m.keys.NextPage, m.keys.Reset, m.keys.Escape}
	}
	return []key.Binding{
		m.keys.Filter,
		m.keys.Select,
		m.keys.Detail,
		m.keys.Delete,
		m.keys.GotoPage,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down, m.keys.PrevPage, m.keys.NextPage},
		{m.keys.GotoPage, m.keys.PageSize, m.keys.Filter, m.keys.Reset},
		{m.keys.Select, m.keys.SelectAll, m.keys.Detail, m.keys.Export},
		{m.keys.Delete, m.keys.DeleteSel, m.keys.ClearAll},
	}
}

func startLoading(resource string) tea.Cmd {
	return func() tea.Msg { return app.StartLoadingMsg{Resource: resource} }
}

func stopLoading(resource string) tea.Cmd {
	return func() tea.Msg { return app.StopLoadingMsg{Resource: resource} }
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
