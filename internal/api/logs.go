package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/modelgate/console/internal/models"
)

// LogQuery is the parameter set of the log listing endpoint. Empty filter
// values mean "all" and are omitted from the request, never sent as a
// literal wildcard.
type LogQuery struct {
	Page         int
	PageSize     int
	ProviderName string
	Name         string
	Status       string
	Style        string
	UserAgent    string
}

// Logs fetches one page of request logs plus total/page-count metadata.
func (c *Client) Logs(ctx context.Context, q LogQuery) (*models.LogPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.ProviderName != "" {
		params.Set("providerName", q.ProviderName)
	}
	if q.Name != "" {
		params.Set("name", q.Name)
	}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Style != "" {
		params.Set("style", q.Style)
	}
	if q.UserAgent != "" {
		params.Set("userAgent", q.UserAgent)
	}

	var page models.LogPage
	if err := c.get(ctx, "/api/logs", params, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch logs: %w", err)
	}
	return &page, nil
}

// DeleteLog removes a single log record.
func (c *Client) DeleteLog(ctx context.Context, id int64) error {
	if err := c.delete(ctx, "/api/logs/"+strconv.FormatInt(id, 10), nil); err != nil {
		return fmt.Errorf("failed to delete log %d: %w", id, err)
	}
	return nil
}

// BatchDeleteLogs removes the given records and returns the
// server-confirmed count, which may be lower than requested when some ids
// no longer existed.
func (c *Client) BatchDeleteLogs(ctx context.Context, ids []int64) (int64, error) {
	payload := struct {
		IDs []int64 `json:"ids"`
	}{IDs: ids}

	var result DeleteResult
	if err := c.post(ctx, "/api/logs/batch-delete", payload, &result); err != nil {
		return 0, fmt.Errorf("failed to batch delete logs: %w", err)
	}
	return result.Deleted, nil
}

// ClearAllLogs removes every log record, ignoring filters and pagination.
func (c *Client) ClearAllLogs(ctx context.Context) (int64, error) {
	var result DeleteResult
	if err := c.delete(ctx, "/api/logs", &result); err != nil {
		return 0, fmt.Errorf("failed to clear logs: %w", err)
	}
	return result.Deleted, nil
}

// Providers fetches the provider catalog.
func (c *Client) Providers(ctx context.Context) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	if err := c.get(ctx, "/api/providers", nil, &items); err != nil {
		return nil, fmt.Errorf("failed to fetch providers: %w", err)
	}
	return items, nil
}

// Models fetches the model catalog.
func (c *Client) Models(ctx context.Context) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	if err := c.get(ctx, "/api/models", nil, &items); err != nil {
		return nil, fmt.Errorf("failed to fetch models: %w", err)
	}
	return items, nil
}

// UserAgents fetches the distinct user-agent strings seen in logs.
func (c *Client) UserAgents(ctx context.Context) ([]string, error) {
	var agents []string
	if err := c.get(ctx, "/api/user-agents", nil, &agents); err != nil {
		return nil, fmt.Errorf("failed to fetch user agents: %w", err)
	}
	return agents, nil
}

// ProviderTemplates fetches the supported provider-protocol templates.
// Their type discriminators populate the style filter.
func (c *Client) ProviderTemplates(ctx context.Context) ([]models.ProviderTemplate, error) {
	var templates []models.ProviderTemplate
	if err := c.get(ctx, "/api/provider-templates", nil, &templates); err != nil {
		return nil, fmt.Errorf("failed to fetch provider templates: %w", err)
	}
	return templates, nil
}
