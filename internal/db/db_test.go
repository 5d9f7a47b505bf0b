package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/modelgate/console/internal/models"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if db.Path() != dbPath {
		t.Errorf("Expected path %s, got %s", dbPath, db.Path())
	}

	// Verify file exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database with nested path: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("Nested directories were not created")
	}
}

func TestSchema_TableExists(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	var name string
	err := db.QueryRowContext(context.Background(), "SELECT name FROM sqlite_master WHERE type='table' AND name=?", "metric_snapshots").Scan(&name)
	if err != nil {
		t.Errorf("Table metric_snapshots does not exist: %v", err)
	}
}

func TestClose(t *testing.T) {
	db := newTestDB(t)

	if err := db.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	// Verify database is closed by trying to query
	_, err := db.QueryContext(context.Background(), "SELECT 1")
	if err == nil {
		t.Error("Expected error querying closed database")
	}
}

func TestInsertMetricSnapshot(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	snapshot := &models.MetricSnapshot{
		TotalRequests: 900,
		SuccessCount:  720,
		ErrorCount:    180,
		TotalTokens:   50000,
		AvgTps:        42.5,
	}
	if err := db.InsertMetricSnapshot(snapshot); err != nil {
		t.Fatalf("InsertMetricSnapshot failed: %v", err)
	}
	if snapshot.ID == 0 {
		t.Error("Expected snapshot ID to be set after insert")
	}
}

func TestRecentSnapshots(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	now := time.Now()
	inserts := []models.MetricSnapshot{
		{CapturedAt: now.Add(-48 * time.Hour), TotalRequests: 100},
		{CapturedAt: now.Add(-2 * time.Hour), TotalRequests: 200},
		{CapturedAt: now.Add(-1 * time.Hour), TotalRequests: 300},
	}
	for i := range inserts {
		if err := db.InsertMetricSnapshot(&inserts[i]); err != nil {
			t.Fatalf("InsertMetricSnapshot failed: %v", err)
		}
	}

	snapshots, err := db.RecentSnapshots(24)
	if err != nil {
		t.Fatalf("RecentSnapshots failed: %v", err)
	}

	if len(snapshots) != 2 {
		t.Fatalf("Expected 2 snapshots within 24h, got %d", len(snapshots))
	}
	// Oldest first so the dashboard can chart them directly.
	if snapshots[0].TotalRequests != 200 || snapshots[1].TotalRequests != 300 {
		t.Errorf("Expected chronological order 200, 300, got %d, %d",
			snapshots[0].TotalRequests, snapshots[1].TotalRequests)
	}
}

func TestLatestSnapshot(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	latest, err := db.LatestSnapshot()
	if err != nil {
		t.Fatalf("LatestSnapshot failed: %v", err)
	}
	if latest != nil {
		t.Errorf("Expected nil for empty table, got %+v", latest)
	}

	now := time.Now()
	for _, s := range []models.MetricSnapshot{
		{CapturedAt: now.Add(-2 * time.Hour), TotalRequests: 200},
		{CapturedAt: now.Add(-1 * time.Hour), TotalRequests: 300},
	} {
		snapshot := s
		if err := db.InsertMetricSnapshot(&snapshot); err != nil {
			t.Fatalf("InsertMetricSnapshot failed: %v", err)
		}
	}

	latest, err = db.LatestSnapshot()
	if err != nil {
		t.Fatalf("LatestSnapshot failed: %v", err)
	}
	if latest == nil || latest.TotalRequests != 300 {
		t.Errorf("Expected most recent snapshot (300 requests), got %+v", latest)
	}
}

func TestPruneSnapshots(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	now := time.Now()
	for _, s := range []models.MetricSnapshot{
		{CapturedAt: now.Add(-10 * 24 * time.Hour), TotalRequests: 1},
		{CapturedAt: now.Add(-8 * 24 * time.Hour), TotalRequests: 2},
		{CapturedAt: now.Add(-1 * time.Hour), TotalRequests: 3},
	} {
		snapshot := s
		if err := db.InsertMetricSnapshot(&snapshot); err != nil {
			t.Fatalf("InsertMetricSnapshot failed: %v", err)
		}
	}

	pruned, err := db.PruneSnapshots(7)
	if err != nil {
		t.Fatalf("PruneSnapshots failed: %v", err)
	}
	if pruned != 2 {
		t.Errorf("Expected 2 pruned snapshots, got %d", pruned)
	}

	remaining, err := db.RecentSnapshots(24 * 30)
	if err != nil {
		t.Fatalf("RecentSnapshots failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].TotalRequests != 3 {
		t.Errorf("Expected only the fresh snapshot to survive, got %+v", remaining)
	}
}

// Helper to create a test database
func newTestDB(t *testing.T) *DB {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	return db
}
