package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/modelgate/console/internal/models"
)

// Metrics fetches the server-side traffic aggregate over the given
// window in hours.
func (c *Client) Metrics(ctx context.Context, hours int) (*models.Metrics, error) {
	params := url.Values{}
	params.Set("hours", strconv.Itoa(hours))

	var metrics models.Metrics
	if err := c.get(ctx, "/api/metrics", params, &metrics); err != nil {
		return nil, fmt.Errorf("failed to fetch metrics: %w", err)
	}
	return &metrics, nil
}
