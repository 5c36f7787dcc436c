package tools

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/obsgate/obsgate/internal/backend"
	"github.com/obsgate/obsgate/internal/registry"
)

// DashboardOutput is the backend's view of a dashboard.
type DashboardOutput struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Author   string         `json:"author,omitempty"`
	Modified string         `json:"modified,omitempty"`
	Layout   map[string]any `json:"layout,omitempty"`
}

// ListDashboardsInput defines parameters for the list_dashboards operation.
type ListDashboardsInput struct {
	Page int `json:"page,omitempty" jsonschema:"page number, starting at 0"`
}

// ListDashboardsOutput is the reshaped dashboard list response.
type ListDashboardsOutput struct {
	Dashboards []DashboardOutput `json:"dashboards"`
	Total      int               `json:"total"`
}

func listDashboards(c *backend.Client) registry.Handler {
	return func(ctx context.Context, input map[string]any) (any, error) {
		var in ListDashboardsInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}

		q := url.Values{}
		if in.Page > 0 {
			q.Set("page", strconv.Itoa(in.Page))
		}

		var out ListDashboardsOutput
		if err := c.Get(ctx, "/api/v1/dashboards", q, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

// GetDashboardInput defines parameters for the get_dashboard operation.
type GetDashboardInput struct {
	DashboardID string `json:"dashboard_id" jsonschema:"dashboard identifier"`
}

func getDashboard(c *backend.Client) registry.Handler {
	return func(ctx context.Context, input map[string]any) (any, error) {
		var in GetDashboardInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		if in.DashboardID == "" {
			return nil, fmt.Errorf("dashboard_id is required")
		}

		var out DashboardOutput
		if err := c.Get(ctx, "/api/v1/dashboards/"+url.PathEscape(in.DashboardID), nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

// DeleteDashboardInput defines parameters for the delete_dashboard operation.
type DeleteDashboardInput struct {
	DashboardID string `json:"dashboard_id" jsonschema:"dashboard identifier"`
	Confirmed   bool   `json:"confirmed,omitempty" jsonschema:"must be true; deletion cannot be undone"`
}

func deleteDashboard(c *backend.Client) registry.Handler {
	return func(ctx context.Context, input map[string]any) (any, error) {
		var in DeleteDashboardInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		if in.DashboardID == "" {
			return nil, fmt.Errorf("dashboard_id is required")
		}

		if err := c.Delete(ctx, "/api/v1/dashboards/"+url.PathEscape(in.DashboardID), nil); err != nil {
			return nil, err
		}
		return DeleteOutput{DeletedID: in.DashboardID}, nil
	}
}
