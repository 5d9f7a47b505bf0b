package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/modelgate/console/internal/logger"
	"github.com/modelgate/console/internal/models"
)

// InsertMetricSnapshot records a point-in-time metrics observation.
func (db *DB) InsertMetricSnapshot(snapshot *models.MetricSnapshot) error {
	query := `
		INSERT INTO metric_snapshots (
			captured_at, total_requests, success_count, error_count, total_tokens, avg_tps
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	capturedAt := snapshot.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now()
	}

	result, err := db.ExecContext(context.Background(), query,
		capturedAt.UTC().Format("2006-01-02 15:04:05"),
		snapshot.TotalRequests,
		snapshot.SuccessCount,
		snapshot.ErrorCount,
		snapshot.TotalTokens,
		snapshot.AvgTps,
	)
	if err != nil {
		return fmt.Errorf("failed to insert metric snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		snapshot.ID = id
	}

	return nil
}

// RecentSnapshots returns snapshots captured within the last N hours,
// oldest first so callers can chart them directly.
func (db *DB) RecentSnapshots(hours int) ([]models.MetricSnapshot, error) {
	query := `
		SELECT id, captured_at, total_requests, success_count, error_count, total_tokens, avg_tps
		FROM metric_snapshots
		WHERE captured_at >= datetime('now', ?)
		ORDER BY captured_at ASC
	`

	rows, err := db.QueryContext(context.Background(), query, fmt.Sprintf("-%d hours", hours))
	if err != nil {
		return nil, fmt.Errorf("failed to query metric snapshots: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var snapshots []models.MetricSnapshot
	for rows.Next() {
		var s models.MetricSnapshot
		err := rows.Scan(
			&s.ID,
			&s.CapturedAt,
			&s.TotalRequests,
			&s.SuccessCount,
			&s.ErrorCount,
			&s.TotalTokens,
			&s.AvgTps,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan metric snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}

// LatestSnapshot returns the most recent snapshot, or nil when none exist.
func (db *DB) LatestSnapshot() (*models.MetricSnapshot, error) {
	query := `
		SELECT id, captured_at, total_requests, success_count, error_count, total_tokens, avg_tps
		FROM metric_snapshots
		ORDER BY captured_at DESC
		LIMIT 1
	`

	var s models.MetricSnapshot
	err := db.QueryRowContext(context.Background(), query).Scan(
		&s.ID,
		&s.CapturedAt,
		&s.TotalRequests,
		&s.SuccessCount,
		&s.ErrorCount,
		&s.TotalTokens,
		&s.AvgTps,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}

	return &s, nil
}

// PruneSnapshots deletes snapshots older than the retention window and
// returns the number removed.
func (db *DB) PruneSnapshots(retentionDays int) (int64, error) {
	result, err := db.ExecContext(context.Background(),
		"DELETE FROM metric_snapshots WHERE captured_at < datetime('now', ?)",
		fmt.Sprintf("-%d days", retentionDays),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune metric snapshots: %w", err)
	}
	return result.RowsAffected()
}
