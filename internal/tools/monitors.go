package tools

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/obsgate/obsgate/internal/backend"
	"github.com/obsgate/obsgate/internal/registry"
)

// MonitorOutput is the backend's view of a monitor.
type MonitorOutput struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Query   string   `json:"query,omitempty"`
	Message string   `json:"message,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Status  string   `json:"status,omitempty"`
	Muted   bool     `json:"muted,omitempty"`
}

// DeleteOutput confirms a permanent deletion.
type DeleteOutput struct {
	DeletedID string `json:"deleted_id"`
}

// ListMonitorsInput defines parameters for the list_monitors operation.
type ListMonitorsInput struct {
	Tag  string `json:"tag,omitempty" jsonschema:"only monitors carrying this tag"`
	Page int    `json:"page,omitempty" jsonschema:"page number, starting at 0"`
}

// ListMonitorsOutput is the reshaped monitor list response.
type ListMonitorsOutput struct {
	Monitors []MonitorOutput `json:"monitors"`
	Total    int             `json:"total"`
}

func listMonitors(c *backend.Client) registry.Handler {
	return func(ctx context.Context, input map[string]any) (any, error) {
		var in ListMonitorsInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}

		q := url.Values{}
		if in.Tag != "" {
			q.Set("tag", in.Tag)
		}
		if in.Page > 0 {
			q.Set("page", strconv.Itoa(in.Page))
		}

		var out ListMonitorsOutput
		if err := c.Get(ctx, "/api/v1/monitors", q, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

// GetMonitorInput defines parameters for the get_monitor operation.
type GetMonitorInput struct {
	MonitorID string `json:"monitor_id" jsonschema:"monitor identifier"`
}

func getMonitor(c *backend.Client) registry.Handler {
	return func(ctx context.Context, input map[string]any) (any, error) {
		var in GetMonitorInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		if in.MonitorID == "" {
			return nil, fmt.Errorf("monitor_id is required")
		}

		var out MonitorOutput
		if err := c.Get(ctx, "/api/v1/monitors/"+url.PathEscape(in.MonitorID), nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

// CreateMonitorInput defines parameters for the create_monitor operation.
type CreateMonitorInput struct {
	Name    string   `json:"name" jsonschema:"monitor name"`
	Query   string   `json:"query" jsonschema:"alert query expression"`
	Message string   `json:"message,omitempty" jsonschema:"notification message"`
	Tags    []string `json:"tags,omitempty" jsonschema:"monitor tags"`
}

func createMonitor(c *backend.Client) registry.Handler {
	return func(ctx context.Context, input map[string]any) (any, error) {
		var in CreateMonitorInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		if in.Name == "" || in.Query == "" {
			return nil, fmt.Errorf("name and query are required")
		}

		var out MonitorOutput
		if err := c.Post(ctx, "/api/v1/monitors", in, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

// UpdateMonitorInput defines parameters for the update_monitor operation.
// Only non-empty fields are sent to the backend.
type UpdateMonitorInput struct {
	MonitorID string   `json:"monitor_id" jsonschema:"monitor identifier"`
	Name      string   `json:"name,omitempty" jsonschema:"new monitor name"`
	Query     string   `json:"query,omitempty" jsonschema:"new alert query expression"`
	Message   string   `json:"message,omitempty" jsonschema:"new notification message"`
	Tags      []string `json:"tags,omitempty" jsonschema:"replacement tags"`
}

func updateMonitor(c *backend.Client) registry.Handler {
	return func(ctx context.Context, input map[string]any) (any, error) {
		var in UpdateMonitorInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		if in.MonitorID == "" {
			return nil, fmt.Errorf("monitor_id is required")
		}

		body := map[string]any{}
		if in.Name != "" {
			body["name"] = in.Name
		}
		if in.Query != "" {
			body["query"] = in.Query
		}
		if in.Message != "" {
			body["message"] = in.Message
		}
		if in.Tags != nil {
			body["tags"] = in.Tags
		}
		if len(body) == 0 {
			return nil, fmt.Errorf("nothing to update")
		}

		var out MonitorOutput
		if err := c.Put(ctx, "/api/v1/monitors/"+url.PathEscape(in.MonitorID), body, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

// MuteMonitorInput defines parameters for the mute_monitor operation.
type MuteMonitorInput struct {
	MonitorID string `json:"monitor_id" jsonschema:"monitor identifier"`
	Until     string `json:"until,omitempty" jsonschema:"mute expiry (RFC3339), omit for indefinite"`
}

func muteMonitor(c *backend.Client) registry.Handler {
	return func(ctx context.Context, input map[string]any) (any, error) {
		var in MuteMonitorInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		if in.MonitorID == "" {
			return nil, fmt.Errorf("monitor_id is required")
		}

		body := map[string]any{}
		if in.Until != "" {
			body["until"] = in.Until
		}

		var out MonitorOutput
		if err := c.Post(ctx, "/api/v1/monitors/"+url.PathEscape(in.MonitorID)+"/mute", body, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

// UnmuteMonitorInput defines parameters for the unmute_monitor operation.
type UnmuteMonitorInput struct {
	MonitorID string `json:"monitor_id" jsonschema:"monitor identifier"`
}

func unmuteMonitor(c *backend.Client) registry.Handler {
	return func(ctx context.Context, input map[string]any) (any, error) {
		var in UnmuteMonitorInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		if in.MonitorID == "" {
			return nil, fmt.Errorf("monitor_id is required")
		}

		var out MonitorOutput
		if err := c.Post(ctx, "/api/v1/monitors/"+url.PathEscape(in.MonitorID)+"/unmute", map[string]any{}, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

// DeleteMonitorInput defines parameters for the delete_monitor operation.
type DeleteMonitorInput struct {
	MonitorID string `json:"monitor_id" jsonschema:"monitor identifier"`
	Confirmed bool   `json:"confirmed,omitempty" jsonschema:"must be true; deletion cannot be undone"`
}

func deleteMonitor(c *backend.Client) registry.Handler {
	return func(ctx context.Context, input map[string]any) (any, error) {
		var in DeleteMonitorInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		if in.MonitorID == "" {
			return nil, fmt.Errorf("monitor_id is required")
		}

		if err := c.Delete(ctx, "/api/v1/monitors/"+url.PathEscape(in.MonitorID), nil); err != nil {
			return nil, err
		}
		return DeleteOutput{DeletedID: in.MonitorID}, nil
	}
}
