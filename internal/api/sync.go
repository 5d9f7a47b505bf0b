package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/modelgate/console/internal/models"
)

// SyncLogQuery is the parameter set of the model-sync log listing
// endpoint.
type SyncLogQuery struct {
	Page          int
	PageSize      int
	ShowUnchanged bool
}

// ModelSyncLogs fetches one page of model-sync logs.
func (c *Client) ModelSyncLogs(ctx context.Context, q SyncLogQuery) (*models.SyncLogPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("page_size", strconv.Itoa(q.PageSize))
	params.Set("show_unchanged", strconv.FormatBool(q.ShowUnchanged))

	var page models.SyncLogPage
	if err := c.get(ctx, "/api/model-sync/logs", params, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch sync logs: %w", err)
	}
	return &page, nil
}

// DeleteModelSyncLogs removes the given sync-log records.
func (c *Client) DeleteModelSyncLogs(ctx context.Context, ids []int64) error {
	payload := struct {
		IDs []int64 `json:"ids"`
	}{IDs: ids}

	if err := c.post(ctx, "/api/model-sync/logs/batch-delete", payload, nil); err != nil {
		return fmt.Errorf("failed to delete sync logs: %w", err)
	}
	return nil
}

// ClearModelSyncLogs removes every sync-log record.
func (c *Client) ClearModelSyncLogs(ctx context.Context) (int64, error) {
	var result DeleteResult
	if err := c.delete(ctx, "/api/model-sync/logs", &result); err != nil {
		return 0, fmt.Errorf("failed to clear sync logs: %w", err)
	}
	return result.Deleted, nil
}

// SyncAllProviderModels triggers a sync run for every provider. The call
// is fire-and-forget: completion is observed only through a later
// re-fetch of logs and stats.
func (c *Client) SyncAllProviderModels(ctx context.Context) error {
	if err := c.post(ctx, "/api/model-sync/run", nil, nil); err != nil {
		return fmt.Errorf("failed to trigger model sync: %w", err)
	}
	return nil
}

// ModelSyncStats fetches the sync scheduler's aggregate counters.
func (c *Client) ModelSyncStats(ctx context.Context) (*models.SyncStats, error) {
	var stats models.SyncStats
	if err := c.get(ctx, "/api/model-sync/stats", nil, &stats); err != nil {
		return nil, fmt.Errorf("failed to fetch sync stats: %w", err)
	}
	return &stats, nil
}
