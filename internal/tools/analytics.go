package tools

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/obsgate/obsgate/internal/backend"
	"github.com/obsgate/obsgate/internal/registry"
)

// SearchLogsInput defines parameters for the search_logs operation.
type SearchLogsInput struct {
	Query string `json:"query" jsonschema:"log search query"`
	From  string `json:"from,omitempty" jsonschema:"start of the time range (RFC3339)"`
	To    string `json:"to,omitempty" jsonschema:"end of the time range (RFC3339)"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of entries to return"`
}

// LogEntry is one log line returned by the backend.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Message   string         `json:"message"`
	Service   string         `json:"service,omitempty"`
	Level     string         `json:"level,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// SearchLogsOutput is the reshaped log search response.
type SearchLogsOutput struct {
	Entries []LogEntry `json:"entries"`
	Total   int        `json:"total"`
}

func searchLogs(c *backend.Client) registry.Handler {
	return func(ctx context.Context, input map[string]any) (any, error) {
		var in SearchLogsInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		if in.Query == "" {
			return nil, fmt.Errorf("query is required")
		}

		q := url.Values{}
		q.Set("query", in.Query)
		if in.From != "" {
			q.Set("from", in.From)
		}
		if in.To != "" {
			q.Set("to", in.To)
		}
		if in.Limit > 0 {
			q.Set("limit", strconv.Itoa(in.Limit))
		}

		var out SearchLogsOutput
		if err := c.Get(ctx, "/api/v1/logs/search", q, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

// QueryMetricsInput defines parameters for the query_metrics operation.
type QueryMetricsInput struct {
	Query string `json:"query" jsonschema:"metrics query expression"`
	From  string `json:"from,omitempty" jsonschema:"start of the time range (RFC3339)"`
	To    string `json:"to,omitempty" jsonschema:"end of the time range (RFC3339)"`
}

// Series is one timeseries in a metrics response.
type Series struct {
	Metric string      `json:"metric"`
	Tags   []string    `json:"tags,omitempty"`
	Points [][]float64 `json:"points"`
}

// QueryMetricsOutput is the reshaped metrics query response.
type QueryMetricsOutput struct {
	Series []Series `json:"series"`
}

func queryMetrics(c *backend.Client) registry.Handler {
	return func(ctx context.Context, input map[string]any) (any, error) {
		var in QueryMetricsInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		if in.Query == "" {
			return nil, fmt.Errorf("query is required")
		}

		q := url.Values{}
		q.Set("query", in.Query)
		if in.From != "" {
			q.Set("from", in.From)
		}
		if in.To != "" {
			q.Set("to", in.To)
		}

		var out QueryMetricsOutput
		if err := c.Get(ctx, "/api/v1/metrics/query", q, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

// ListEventsInput defines parameters for the list_events operation.
type ListEventsInput struct {
	From  string `json:"from,omitempty" jsonschema:"start of the time range (RFC3339)"`
	To    string `json:"to,omitempty" jsonschema:"end of the time range (RFC3339)"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of events to return"`
}

// Event is one event stream record.
type Event struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Text      string   `json:"text,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Timestamp string   `json:"timestamp"`
}

// ListEventsOutput is the reshaped event list response.
type ListEventsOutput struct {
	Events []Event `json:"events"`
}

func listEvents(c *backend.Client) registry.Handler {
	return func(ctx context.Context, input map[string]any) (any, error) {
		var in ListEventsInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}

		q := url.Values{}
		if in.From != "" {
			q.Set("from", in.From)
		}
		if in.To != "" {
			q.Set("to", in.To)
		}
		if in.Limit > 0 {
			q.Set("limit", strconv.Itoa(in.Limit))
		}

		var out ListEventsOutput
		if err := c.Get(ctx, "/api/v1/events", q, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

// CreateEventInput defines parameters for the create_event operation.
type CreateEventInput struct {
	Title string   `json:"title" jsonschema:"event title"`
	Text  string   `json:"text,omitempty" jsonschema:"event body text"`
	Tags  []string `json:"tags,omitempty" jsonschema:"event tags"`
}

// EventOutput is the backend's view of a created event.
type EventOutput struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func createEvent(c *backend.Client) registry.Handler {
	return func(ctx context.Context, input map[string]any) (any, error) {
		var in CreateEventInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		if in.Title == "" {
			return nil, fmt.Errorf("title is required")
		}

		var out EventOutput
		if err := c.Post(ctx, "/api/v1/events", in, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}
