// Package mcp exposes the gateway over the Model Context Protocol on
// stdio. The tool list advertised to the client is filtered by the
// capability gate at startup; the dispatcher re-checks every call at
// runtime. Either layer alone is sufficient to block an unpermitted
// write, so a defect in one cannot silently grant access.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/obsgate/obsgate/internal/audit"
	"github.com/obsgate/obsgate/internal/backend"
	"github.com/obsgate/obsgate/internal/config"
	"github.com/obsgate/obsgate/internal/dispatch"
	"github.com/obsgate/obsgate/internal/gate"
	"github.com/obsgate/obsgate/internal/mode"
	"github.com/obsgate/obsgate/internal/tools"
)

// Config holds MCP server construction options. Overrides beat the
// config file; the file beats built-in defaults.
type Config struct {
	ConfigPath       string
	ModeOverride     string
	AuditLogOverride string
}

// Server wires the gating core to the MCP SDK server.
type Server struct {
	mcpServer  *mcpsdk.Server
	disp       *dispatch.Dispatcher
	gate       *gate.Gate
	trail      *audit.Trail
	auditLog   *audit.Log
	configPath string
	configHash string
}

// New loads configuration, resolves the mode once, builds the catalog,
// opens the audit log, and registers the permitted tools. The one-shot
// mode_init audit entry is written here, before any call can arrive.
func New(cfg Config) (*Server, error) {
	fileCfg, hash, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}

	rawMode := fileCfg.Mode
	if cfg.ModeOverride != "" {
		rawMode = cfg.ModeOverride
	}
	m := mode.Resolve(rawMode)

	client := backend.New(
		fileCfg.Backend.BaseURL,
		fileCfg.Backend.APIKey,
		time.Duration(fileCfg.Backend.TimeoutSeconds)*time.Second,
	)

	reg, err := tools.Catalog(client)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	g := gate.New(reg, m)

	auditPath := fileCfg.AuditLog
	if cfg.AuditLogOverride != "" {
		auditPath = cfg.AuditLogOverride
	}
	auditLog, err := audit.Open(auditPath)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}

	trail := audit.NewTrail(auditLog, audit.RedactSettings{
		ExtraKeys:     fileCfg.Redact.ExtraKeys,
		MaxValueBytes: fileCfg.Redact.MaxValueBytes,
	})

	s := &Server{
		disp:       dispatch.New(reg, g, trail),
		gate:       g,
		trail:      trail,
		auditLog:   auditLog,
		configPath: cfg.ConfigPath,
		configHash: hash,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "obsgate",
			Version: "0.1.0",
		},
		nil,
	)
	s.registerTools()

	trail.RecordModeInit(m, len(g.PermittedOps()))
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is
// cancelled; in-flight calls run to completion.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close closes the audit log. Called last on shutdown so no partial
// entries flush.
func (s *Server) Close() error {
	if s.auditLog != nil {
		return s.auditLog.Close()
	}
	return nil
}

// Mode returns the resolved operating mode.
func (s *Server) Mode() mode.Mode {
	return s.gate.Mode()
}

// PermittedCount returns the number of operations advertised to clients.
func (s *Server) PermittedCount() int {
	return len(s.gate.PermittedOps())
}

// AuditLogPath returns the audit sink path.
func (s *Server) AuditLogPath() string {
	return s.auditLog.Path()
}

// ReloadRedactSettings re-reads the config file and swaps the trail's
// redaction settings. Mode and backend credentials are deliberately not
// part of what reloads.
func (s *Server) ReloadRedactSettings() error {
	fileCfg, hash, err := config.Load(s.configPath)
	if err != nil {
		return err
	}
	s.trail.SetRedactSettings(audit.RedactSettings{
		ExtraKeys:     fileCfg.Redact.ExtraKeys,
		MaxValueBytes: fileCfg.Redact.MaxValueBytes,
	})
	s.configHash = hash
	return nil
}

// registerTools adds one MCP tool per permitted descriptor. The mapping
// from operation name to input type is explicit; a new catalog entry
// without a case here simply stays unadvertised.
func (s *Server) registerTools() {
	for _, d := range s.gate.PermittedOps() {
		name, desc := d.Name, d.Description
		switch name {
		case tools.OpSearchLogs:
			addOp[tools.SearchLogsInput](s, name, desc)
		case tools.OpQueryMetrics:
			addOp[tools.QueryMetricsInput](s, name, desc)
		case tools.OpListMonitors:
			addOp[tools.ListMonitorsInput](s, name, desc)
		case tools.OpGetMonitor:
			addOp[tools.GetMonitorInput](s, name, desc)
		case tools.OpListDashboards:
			addOp[tools.ListDashboardsInput](s, name, desc)
		case tools.OpGetDashboard:
			addOp[tools.GetDashboardInput](s, name, desc)
		case tools.OpListEvents:
			addOp[tools.ListEventsInput](s, name, desc)
		case tools.OpCreateMonitor:
			addOp[tools.CreateMonitorInput](s, name, desc)
		case tools.OpUpdateMonitor:
			addOp[tools.UpdateMonitorInput](s, name, desc)
		case tools.OpMuteMonitor:
			addOp[tools.MuteMonitorInput](s, name, desc)
		case tools.OpUnmuteMonitor:
			addOp[tools.UnmuteMonitorInput](s, name, desc)
		case tools.OpCreateEvent:
			addOp[tools.CreateEventInput](s, name, desc)
		case tools.OpDeleteMonitor:
			addOp[tools.DeleteMonitorInput](s, name, desc)
		case tools.OpDeleteDashboard:
			addOp[tools.DeleteDashboardInput](s, name, desc)
		}
	}
}

// addOp registers one typed MCP tool whose handler routes through the
// dispatcher with the raw argument map.
func addOp[In any](s *Server, name, description string) {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        name,
		Description: description,
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, in In) (*mcpsdk.CallToolResult, dispatch.Result, error) {
		raw, err := toMap(in)
		if err != nil {
			return nil, dispatch.Result{}, fmt.Errorf("decode arguments: %w", err)
		}
		res := s.disp.Dispatch(ctx, name, raw)
		if !res.OK {
			return &mcpsdk.CallToolResult{IsError: true}, res, nil
		}
		return nil, res, nil
	})
}

// toMap round-trips a typed input through JSON into the raw map the
// dispatcher and audit trail operate on.
func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
