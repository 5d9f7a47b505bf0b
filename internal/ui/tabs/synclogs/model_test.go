package synclogs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/modelgate/console/internal/api"
	"github.com/modelgate/console/internal/app"
	"github.com/modelgate/console/internal/browse"
	"github.com/modelgate/console/internal/config"
	"github.com/modelgate/console/internal/models"
)

type fakeService struct {
	queries []api.SyncLogQuery
	page    *models.SyncLogPage
	pageErr error

	stats    *models.SyncStats
	statsErr error

	syncErr   error
	syncCalls int

	deleteCalls [][]int64
	deleteErr   error

	clearDeleted int64
	clearErr     error
}

func (f *fakeService) ModelSyncLogs(_ context.Context, q api.SyncLogQuery) (*models.SyncLogPage, error) {
	f.queries = append(f.queries, q)
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	if f.page != nil {
		return f.page, nil
	}
	return &models.SyncLogPage{Pagination: models.SyncPagination{Page: 1, PageSize: 20, TotalPages: 1}}, nil
}

func (f *fakeService) ModelSyncStats(_ context.Context) (*models.SyncStats, error) {
	return f.stats, f.statsErr
}

func (f *fakeService) SyncAllProviderModels(_ context.Context) error {
	f.syncCalls++
	return f.syncErr
}

func (f *fakeService) DeleteModelSyncLogs(_ context.Context, ids []int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleteCalls = append(f.deleteCalls, ids)
	return nil
}

func (f *fakeService) ClearModelSyncLogs(_ context.Context) (int64, error) {
	return f.clearDeleted, f.clearErr
}

func newTestModel(t *testing.T, svc Service) *Model {
	t.Helper()
	cfg := &config.Config{RequestTimeout: time.Second}
	m := newModel(app.NewState(), svc, cfg)
	m.SetSize(100, 36)
	return m
}

func testRuns(ids ...int64) []models.ModelSyncLogRecord {
	recs := make([]models.ModelSyncLogRecord, 0, len(ids))
	for _, id := range ids {
		recs = append(recs, models.ModelSyncLogRecord{
			ID:           id,
			ProviderName: fmt.Sprintf("provider-%d", id),
			Status:       models.StatusSuccess,
			AddedCount:   1,
			AddedModels:  []string{"new-model"},
			SyncedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		})
	}
	return recs
}

func seedPage(t *testing.T, m *Model, recs []models.ModelSyncLogRecord, total int64, pages int) {
	t.Helper()
	v := m.query.Bump()
	m.Update(syncLogsLoadedMsg{version: v, page: &models.SyncLogPage{
		Data: recs,
		Pagination: models.SyncPagination{
			Page:       m.query.Page(),
			PageSize:   m.query.PageSize(),
			Total:      total,
			TotalPages: pages,
		},
	}})
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collectMsgs(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func findMsg[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if typed, ok := msg.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

func TestNewModel_Defaults(t *testing.T) {
	m := newTestModel(t, &fakeService{})

	if m.showUnchanged {
		t.Error("unchanged runs should be hidden by default")
	}
	if m.query.Page() != 1 || m.query.PageSize() != 20 {
		t.Errorf("unexpected initial window: page %d size %d", m.query.Page(), m.query.PageSize())
	}
}

func TestInit_LoadsPageAndStats(t *testing.T) {
	svc := &fakeService{
		page: &models.SyncLogPage{
			Data:       testRuns(1, 2),
			Pagination: models.SyncPagination{Page: 1, PageSize: 20, Total: 2, TotalPages: 1},
		},
		stats: &models.SyncStats{TotalProviders: 4, SyncEnabled: true, SyncInterval: 60},
	}
	m := newTestModel(t, svc)

	msgs := collectMsgs(m.Init())

	loaded, ok := findMsg[syncLogsLoadedMsg](msgs)
	if !ok {
		t.Fatal("expected a page load from Init")
	}
	m.Update(loaded)
	if len(m.records) != 2 {
		t.Errorf("expected 2 runs, got %d", len(m.records))
	}

	stats, ok := findMsg[statsLoadedMsg](msgs)
	if !ok {
		t.Fatal("expected a stats load from Init")
	}
	m.Update(stats)
	if m.stats == nil || m.stats.TotalProviders != 4 {
		t.Error("expected scheduler stats to be stored")
	}
}

func TestUnchangedToggle_IsAQueryMutation(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc)
	seedPage(t, m, testRuns(1, 2), 45, 3)
	m.query.SetPage(2)
	m.Update(keyRunes("a"))
	if m.selection.Count() != 2 {
		t.Fatalf("expected 2 selected, got %d", m.selection.Count())
	}

	_, cmd := m.Update(keyRunes("u"))

	if !m.showUnchanged {
		t.Error("expected the toggle to flip on")
	}
	if m.query.Page() != 1 {
		t.Errorf("toggle must reset to page 1, got %d", m.query.Page())
	}
	if m.selection.Count() != 0 {
		t.Error("toggle must clear the selection")
	}

	collectMsgs(cmd)
	if len(svc.queries) == 0 {
		t.Fatal("expected a fetch after the toggle")
	}
	if !svc.queries[len(svc.queries)-1].ShowUnchanged {
		t.Error("expected the fetch to request unchanged runs")
	}

	m.Update(keyRunes("u"))
	if m.showUnchanged {
		t.Error("expected the toggle to flip back off")
	}
}

func TestSyncNow_TriggersAndSchedulesRefresh(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc)

	_, cmd := m.Update(keyRunes("S"))
	done, ok := findMsg[syncDoneMsg](collectMsgs(cmd))
	if !ok {
		t.Fatal("expected syncDoneMsg")
	}
	if svc.syncCalls != 1 {
		t.Errorf("expected 1 sync trigger, got %d", svc.syncCalls)
	}
	if done.err != nil {
		t.Fatalf("unexpected sync error: %v", done.err)
	}

	_, cmd = m.Update(done)
	if cmd == nil {
		t.Fatal("expected a notification and a delayed refresh")
	}

	// The settle message reloads both the page and the stats.
	_, cmd = m.Update(syncSettledMsg{})
	msgs := collectMsgs(cmd)
	if _, ok := findMsg[syncLogsLoadedMsg](msgs); !ok {
		t.Error("expected a page reload after the sync settles")
	}
	if _, ok := findMsg[statsLoadedMsg](msgs); !ok {
		t.Error("expected a stats reload after the sync settles")
	}
}

func TestSyncNow_FailureNotifies(t *testing.T) {
	svc := &fakeService{syncErr: errors.New("scheduler offline")}
	m := newTestModel(t, svc)

	_, cmd := m.Update(keyRunes("S"))
	done, ok := findMsg[syncDoneMsg](collectMsgs(cmd))
	if !ok {
		t.Fatal("expected syncDoneMsg")
	}

	_, cmd = m.Update(done)
	note, ok := findMsg[app.AddNotificationMsg](collectMsgs(cmd))
	if !ok {
		t.Fatal("expected an error notification")
	}
	if note.Type != app.NotificationError {
		t.Errorf("expected error notification, got %v", note.Type)
	}
}

func TestDeleteSelected_UsesOneBatchCall(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc)
	seedPage(t, m, testRuns(1, 2, 3), 3, 1)

	m.Update(keyRunes("a"))
	m.Update(keyRunes("D"))
	if !m.flow.Confirming() || m.flow.Kind() != browse.KindDeleteBatch {
		t.Fatal("expected batch delete confirmation")
	}

	_, cmd := m.Update(keyRunes("y"))
	done, ok := findMsg[deleteDoneMsg](collectMsgs(cmd))
	if !ok {
		t.Fatal("expected deleteDoneMsg")
	}
	if done.requested != 3 {
		t.Errorf("expected 3 requested deletions, got %d", done.requested)
	}
	if len(svc.deleteCalls) != 1 || len(svc.deleteCalls[0]) != 3 {
		t.Errorf("expected one batch call with 3 ids, got %v", svc.deleteCalls)
	}

	m.Update(done)
	if m.selection.Count() != 0 {
		t.Error("expected the selection cleared after deletion")
	}
	if !m.flow.Idle() {
		t.Error("expected the flow back to idle")
	}
}

func TestDeleteOne_GoesThroughSameEndpoint(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc)
	seedPage(t, m, testRuns(7), 1, 1)

	m.Update(keyRunes("d"))
	if m.flow.Kind() != browse.KindDeleteOne {
		t.Fatalf("expected delete-one flow, got %v", m.flow.Kind())
	}

	_, cmd := m.Update(keyRunes("y"))
	collectMsgs(cmd)
	if len(svc.deleteCalls) != 1 || len(svc.deleteCalls[0]) != 1 || svc.deleteCalls[0][0] != 7 {
		t.Errorf("expected a single-id batch call, got %v", svc.deleteCalls)
	}
}

func TestClearAll_Notifies(t *testing.T) {
	svc := &fakeService{clearDeleted: 12}
	m := newTestModel(t, svc)
	seedPage(t, m, testRuns(1), 12, 1)

	m.Update(keyRunes("X"))
	_, cmd := m.Update(keyRunes("y"))
	done, ok := findMsg[clearDoneMsg](collectMsgs(cmd))
	if !ok {
		t.Fatal("expected clearDoneMsg")
	}

	_, cmd = m.Update(done)
	note, ok := findMsg[app.AddNotificationMsg](collectMsgs(cmd))
	if !ok {
		t.Fatal("expected a notification")
	}
	if !strings.Contains(note.Message, "12") {
		t.Errorf("expected deleted count in notification, got %q", note.Message)
	}
}

func TestStaleVersionDiscarded(t *testing.T) {
	m := newTestModel(t, &fakeService{})
	seedPage(t, m, testRuns(1, 2), 2, 1)

	stale := m.query.Bump()
	m.query.Bump()
	m.Update(syncLogsLoadedMsg{version: stale, page: &models.SyncLogPage{Data: testRuns(9)}})

	if len(m.records) != 2 {
		t.Errorf("stale page should be discarded, got %d records", len(m.records))
	}
}

func TestFetchError_KeepsRows(t *testing.T) {
	m := newTestModel(t, &fakeService{})
	seedPage(t, m, testRuns(1, 2), 2, 1)

	v := m.query.Bump()
	_, cmd := m.Update(syncLogsErrorMsg{version: v, err: errors.New("gateway down")})

	if len(m.records) != 2 {
		t.Errorf("fetch failure must keep the previous rows, got %d", len(m.records))
	}
	note, ok := findMsg[app.AddNotificationMsg](collectMsgs(cmd))
	if !ok {
		t.Fatal("expected an error notification")
	}
	if note.Type != app.NotificationError {
		t.Errorf("expected error notification, got %v", note.Type)
	}
}

func TestDetail_ShowsDiff(t *testing.T) {
	m := newTestModel(t, &fakeService{})
	recs := []models.ModelSyncLogRecord{{
		ID:            5,
		ProviderName:  "openai",
		Status:        models.StatusSuccess,
		AddedModels:   []string{"gpt-5"},
		RemovedModels: []string{"gpt-3.5-turbo"},
		AddedCount:    1,
		RemovedCount:  1,
		SyncedAt:      time.Now(),
	}}
	seedPage(t, m, recs, 1, 1)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.viewing {
		t.Fatal("expected detail view to open")
	}

	content := m.detailContent(m.detailRec)
	if !strings.Contains(content, "+ gpt-5") {
		t.Error("expected added model with + prefix")
	}
	if !strings.Contains(content, "- gpt-3.5-turbo") {
		t.Error("expected removed model with - prefix")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.viewing {
		t.Error("expected escape to close the detail view")
	}
}

func TestView_StatsCardScheduleVisibility(t *testing.T) {
	m := newTestModel(t, &fakeService{})
	seedPage(t, m, testRuns(1), 1, 1)

	next := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	m.stats = &models.SyncStats{
		TotalProviders: 3,
		SyncEnabled:    true,
		SyncInterval:   30,
		NextSyncAt:     &next,
	}
	if !strings.Contains(m.renderStatsCard(), "Next sync") {
		t.Error("expected the next-sync time while the scheduler is enabled")
	}

	m.stats.SyncEnabled = false
	if strings.Contains(m.renderStatsCard(), "Next sync") {
		t.Error("next-sync time must be hidden when the scheduler is disabled")
	}
}

func TestView_States(t *testing.T) {
	m := newTestModel(t, &fakeService{})

	seedPage(t, m, nil, 0, 1)
	view := m.View()
	if !strings.Contains(view, "Model Sync") {
		t.Error("expected the tab title")
	}
	if !strings.Contains(view, "No Sync Runs") {
		t.Error("expected the empty state")
	}
	if !strings.Contains(view, "unchanged hidden") {
		t.Error("expected the visibility note while hiding unchanged runs")
	}

	seedPage(t, m, testRuns(1), 1, 1)
	view = m.View()
	if !strings.Contains(view, "provider-1") {
		t.Error("expected table rows in the view")
	}

	m.Update(keyRunes("X"))
	view = m.View()
	if !strings.Contains(view, "ALL sync history") {
		t.Error("expected the clear-all confirmation text")
	}
}

func TestGotoPagePrompt(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc)
	seedPage(t, m, testRuns(1), 45, 3)

	m.Update(keyRunes(":"))
	if !m.CapturesInput() {
		t.Fatal("expected the prompt to capture input")
	}
	m.Update(keyRunes("3"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.query.Page() != 3 {
		t.Errorf("expected page 3, got %d", m.query.Page())
	}
	if m.CapturesInput() {
		t.Error("prompt should close after enter")
	}
}

func TestActivate_ClearsSelection(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc)
	seedPage(t, m, testRuns(1, 2), 2, 1)
	m.Update(keyRunes("a"))

	cmd := m.Activate()

	if m.selection.Count() != 0 {
		t.Error("activation must clear the selection")
	}
	msgs := collectMsgs(cmd)
	if _, ok := findMsg[syncLogsLoadedMsg](msgs); !ok {
		t.Error("expected a page reload on activation")
	}
	if _, ok := findMsg[statsLoadedMsg](msgs); !ok {
		t.Error("expected a stats reload on activation")
	}
}
