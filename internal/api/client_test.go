package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestLogsQueryParams(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"data": [], "total": 0, "pages": 0}`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer server.Close()

	client := New(server.URL, "", time.Second)
	_, err := client.Logs(context.Background(), LogQuery{
		Page:         3,
		PageSize:     50,
		ProviderName: "openai",
		Status:       "error",
	})
	if err != nil {
		t.Fatalf("Logs returned error: %v", err)
	}

	if gotPath != "/api/logs" {
		t.Errorf("Expected path /api/logs, got %s", gotPath)
	}

	expected := map[string]string{
		"page":         "3",
		"pageSize":     "50",
		"providerName": "openai",
		"status":       "error",
	}
	for key, want := range expected {
		values := gotQuery[key]
		if len(values) != 1 || values[0] != want {
			t.Errorf("Expected query %s=%s, got %v", key, want, values)
		}
	}

	// Empty filters must be omitted entirely, not sent as empty strings.
	for _, key := range []string{"name", "style", "userAgent"} {
		if _, ok := gotQuery[key]; ok {
			t.Errorf("Expected empty filter %s to be omitted, got %v", key, gotQuery[key])
		}
	}
}

func TestLogsParsesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		body := `{
			"data": [
				{"ID": 7, "Name": "gpt-4o", "ProviderName": "openai", "Status": "success", "ChunkTime": 1500000},
				{"ID": 8, "Name": "claude", "ProviderName": "anthropic", "Status": "error", "Error": "boom"}
			],
			"total": 45,
			"pages": 3
		}`
		if _, err := w.Write([]byte(body)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer server.Close()

	client := New(server.URL, "", time.Second)
	page, err := client.Logs(context.Background(), LogQuery{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("Logs returned error: %v", err)
	}

	if page.Total != 45 {
		t.Errorf("Expected total 45, got %d", page.Total)
	}
	if page.Pages != 3 {
		t.Errorf("Expected pages 3, got %d", page.Pages)
	}
	if len(page.Data) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(page.Data))
	}
	if page.Data[0].ID != 7 || page.Data[0].Name != "gpt-4o" {
		t.Errorf("Unexpected first record: %+v", page.Data[0])
	}
	if page.Data[0].ChunkTime == nil || *page.Data[0].ChunkTime != 1500000 {
		t.Errorf("Expected chunk time 1500000, got %v", page.Data[0].ChunkTime)
	}
	if !page.Data[1].IsError() {
		t.Errorf("Expected second record to be an error")
	}
}

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if _, err := w.Write([]byte(`[]`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer server.Close()

	client := New(server.URL, "secret-token", time.Second)
	if _, err := client.Providers(context.Background()); err != nil {
		t.Fatalf("Providers returned error: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Expected bearer header, got %q", gotAuth)
	}

	// An empty token sends no header at all.
	client.SetToken("")
	if _, err := client.Providers(context.Background()); err != nil {
		t.Fatalf("Providers returned error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Expected no Authorization header after clearing token, got %q", gotAuth)
	}
}

func TestSetTokenTakesEffect(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if _, err := w.Write([]byte(`[]`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer server.Close()

	client := New(server.URL, "old", time.Second)
	client.SetToken("new")
	if _, err := client.Models(context.Background()); err != nil {
		t.Fatalf("Models returned error: %v", err)
	}
	if gotAuth != "Bearer new" {
		t.Errorf("Expected rotated token in header, got %q", gotAuth)
	}
}

func TestErrorCarriesStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		if _, err := w.Write([]byte(`{"error": "invalid token"}`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer server.Close()

	client := New(server.URL, "bad", time.Second)
	_, err := client.Logs(context.Background(), LogQuery{Page: 1, PageSize: 20})
	if err == nil {
		t.Fatal("Expected error for 403 response")
	}
	if !strings.Contains(err.Error(), "status 403") {
		t.Errorf("Expected status code in error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "invalid token") {
		t.Errorf("Expected response body in error, got: %v", err)
	}
}

func TestDeleteLogHandlesNoContent(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := New(server.URL, "", time.Second)
	if err := client.DeleteLog(context.Background(), 42); err != nil {
		t.Fatalf("DeleteLog returned error: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("Expected DELETE, got %s", gotMethod)
	}
	if gotPath != "/api/logs/42" {
		t.Errorf("Expected path /api/logs/42, got %s", gotPath)
	}
}

func TestBatchDeleteLogs(t *testing.T) {
	var gotBody struct {
		IDs []int64 `json:"ids"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if _, err := w.Write([]byte(`{"deleted": 2}`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer server.Close()

	client := New(server.URL, "", time.Second)
	deleted, err := client.BatchDeleteLogs(context.Background(), []int64{3, 9, 12})
	if err != nil {
		t.Fatalf("BatchDeleteLogs returned error: %v", err)
	}
	// Partial success: the server confirms fewer deletions than requested.
	if deleted != 2 {
		t.Errorf("Expected 2 deleted, got %d", deleted)
	}
	if len(gotBody.IDs) != 3 || gotBody.IDs[0] != 3 || gotBody.IDs[2] != 12 {
		t.Errorf("Unexpected posted ids: %v", gotBody.IDs)
	}
}

func TestClearAllLogs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/logs" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if _, err := w.Write([]byte(`{"deleted": 120}`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer server.Close()

	client := New(server.URL, "", time.Second)
	deleted, err := client.ClearAllLogs(context.Background())
	if err != nil {
		t.Fatalf("ClearAllLogs returned error: %v", err)
	}
	if deleted != 120 {
		t.Errorf("Expected 120 deleted, got %d", deleted)
	}
}

func TestModelSyncLogsQueryParams(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		body := `{
			"data": [{"id": 1, "provider_name": "openai", "status": "success", "added_count": 2, "removed_count": 0}],
			"pagination": {"page": 2, "page_size": 20, "total": 31, "total_pages": 2}
		}`
		if _, err := w.Write([]byte(body)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer server.Close()

	client := New(server.URL, "", time.Second)
	page, err := client.ModelSyncLogs(context.Background(), SyncLogQuery{Page: 2, PageSize: 20, ShowUnchanged: false})
	if err != nil {
		t.Fatalf("ModelSyncLogs returned error: %v", err)
	}

	expected := map[string]string{
		"page":           "2",
		"page_size":      "20",
		"show_unchanged": "false",
	}
	for key, want := range expected {
		values := gotQuery[key]
		if len(values) != 1 || values[0] != want {
			t.Errorf("Expected query %s=%s, got %v", key, want, values)
		}
	}

	if page.Pagination.TotalPages != 2 {
		t.Errorf("Expected 2 total pages, got %d", page.Pagination.TotalPages)
	}
	if len(page.Data) != 1 || page.Data[0].ProviderName != "openai" {
		t.Errorf("Unexpected sync log data: %+v", page.Data)
	}
}

func TestSyncAllProviderModelsAccepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/model-sync/run" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := New(server.URL, "", time.Second)
	if err := client.SyncAllProviderModels(context.Background()); err != nil {
		t.Fatalf("SyncAllProviderModels returned error: %v", err)
	}
}

func TestMetricsQueryParam(t *testing.T) {
	var gotHours string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHours = r.URL.Query().Get("hours")
		body := `{
			"total_requests": 900,
			"success_count": 720,
			"error_count": 180,
			"success_rate": 0.8,
			"total_tokens": 50000,
			"avg_tps": 42.5,
			"series": [{"bucket": "2026-08-25T10:00:00Z", "requests": 10, "errors": 1, "tokens": 800}]
		}`
		if _, err := w.Write([]byte(body)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer server.Close()

	client := New(server.URL, "", time.Second)
	metrics, err := client.Metrics(context.Background(), 168)
	if err != nil {
		t.Fatalf("Metrics returned error: %v", err)
	}
	if gotHours != "168" {
		t.Errorf("Expected hours=168, got %q", gotHours)
	}
	if metrics.TotalRequests != 900 {
		t.Errorf("Expected 900 requests, got %d", metrics.TotalRequests)
	}
	if len(metrics.Series) != 1 || metrics.Series[0].Requests != 10 {
		t.Errorf("Unexpected series: %+v", metrics.Series)
	}
}

func TestContextCancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	client := New(server.URL, "", 10*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := client.Logs(ctx, LogQuery{Page: 1, PageSize: 20})
	if err == nil {
		t.Fatal("Expected error after context cancellation")
	}
}
