// Package tools holds the operation handlers exposed by the gateway: thin
// input-to-backend-to-output transforms with no access-control logic of
// their own. The catalog built here is the single source of truth for
// which operations exist and what class each belongs to.
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/obsgate/obsgate/internal/backend"
	"github.com/obsgate/obsgate/internal/registry"
)

// Operation names. Declared once; the registry rejects duplicates.
const (
	OpSearchLogs      = "search_logs"
	OpQueryMetrics    = "query_metrics"
	OpListMonitors    = "list_monitors"
	OpGetMonitor      = "get_monitor"
	OpListDashboards  = "list_dashboards"
	OpGetDashboard    = "get_dashboard"
	OpListEvents      = "list_events"
	OpCreateMonitor   = "create_monitor"
	OpUpdateMonitor   = "update_monitor"
	OpMuteMonitor     = "mute_monitor"
	OpUnmuteMonitor   = "unmute_monitor"
	OpCreateEvent     = "create_event"
	OpDeleteMonitor   = "delete_monitor"
	OpDeleteDashboard = "delete_dashboard"
)

// Catalog builds the full operation registry over a backend client.
func Catalog(c *backend.Client) (*registry.Registry, error) {
	r := registry.New()
	descs := []registry.Descriptor{
		{
			Name:        OpSearchLogs,
			Class:       registry.ClassRead,
			Description: "Search log entries matching a query within a time range.",
			Handler:     searchLogs(c),
		},
		{
			Name:        OpQueryMetrics,
			Class:       registry.ClassRead,
			Description: "Run a timeseries metrics query over a time range.",
			Handler:     queryMetrics(c),
		},
		{
			Name:        OpListMonitors,
			Class:       registry.ClassRead,
			Description: "List monitors, optionally filtered by tag.",
			Handler:     listMonitors(c),
		},
		{
			Name:        OpGetMonitor,
			Class:       registry.ClassRead,
			Description: "Fetch one monitor by ID.",
			Handler:     getMonitor(c),
		},
		{
			Name:        OpListDashboards,
			Class:       registry.ClassRead,
			Description: "List dashboards.",
			Handler:     listDashboards(c),
		},
		{
			Name:        OpGetDashboard,
			Class:       registry.ClassRead,
			Description: "Fetch one dashboard by ID.",
			Handler:     getDashboard(c),
		},
		{
			Name:        OpListEvents,
			Class:       registry.ClassRead,
			Description: "List events within a time range.",
			Handler:     listEvents(c),
		},
		{
			Name:            OpCreateMonitor,
			Class:           registry.ClassWrite,
			Destructiveness: registry.Reversible,
			Description:     "Create a monitor.",
			Handler:         createMonitor(c),
			Summarize:       monitorIDSummarizer,
		},
		{
			Name:            OpUpdateMonitor,
			Class:           registry.ClassWrite,
			Destructiveness: registry.Reversible,
			Description:     "Update an existing monitor.",
			Handler:         updateMonitor(c),
			Summarize:       monitorIDSummarizer,
		},
		{
			Name:            OpMuteMonitor,
			Class:           registry.ClassWrite,
			Destructiveness: registry.Reversible,
			Description:     "Mute a monitor, optionally until a given time.",
			Handler:         muteMonitor(c),
			Summarize:       monitorIDSummarizer,
		},
		{
			Name:            OpUnmuteMonitor,
			Class:           registry.ClassWrite,
			Destructiveness: registry.Reversible,
			Description:     "Unmute a monitor.",
			Handler:         unmuteMonitor(c),
			Summarize:       monitorIDSummarizer,
		},
		{
			Name:            OpCreateEvent,
			Class:           registry.ClassWrite,
			Destructiveness: registry.Reversible,
			Description:     "Post an event to the event stream.",
			Handler:         createEvent(c),
			Summarize: func(result any) string {
				if out, ok := result.(EventOutput); ok {
					return out.ID
				}
				return ""
			},
		},
		{
			Name:            OpDeleteMonitor,
			Class:           registry.ClassWrite,
			Destructiveness: registry.Irreversible,
			Description:     "Permanently delete a monitor. Requires \"confirmed\": true.",
			Handler:         deleteMonitor(c),
			Summarize: func(result any) string {
				if out, ok := result.(DeleteOutput); ok {
					return out.DeletedID
				}
				return ""
			},
		},
		{
			Name:            OpDeleteDashboard,
			Class:           registry.ClassWrite,
			Destructiveness: registry.Irreversible,
			Description:     "Permanently delete a dashboard. Requires \"confirmed\": true.",
			Handler:         deleteDashboard(c),
			Summarize: func(result any) string {
				if out, ok := result.(DeleteOutput); ok {
					return out.DeletedID
				}
				return ""
			},
		},
	}
	for _, d := range descs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func monitorIDSummarizer(result any) string {
	if out, ok := result.(MonitorOutput); ok {
		return out.ID
	}
	return ""
}

// decodeInput maps the raw argument map onto a typed input struct.
func decodeInput(input map[string]any, v any) error {
	data, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}
