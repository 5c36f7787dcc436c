package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	obsmcp "github.com/obsgate/obsgate/internal/mcp"
)

var (
	serveConfig   string
	serveMode     string
	serveAuditLog string
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to config YAML (default ~/.obsgate/config.yaml)")
	serveCmd.Flags().StringVar(&serveMode, "mode", "", "Operating mode: read-only (default) or read-write")
	serveCmd.Flags().StringVar(&serveAuditLog, "audit-log", "", "Path to the JSONL audit log")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP gateway on stdio",
	Long:  "Runs obsgate as an MCP (Model Context Protocol) server over stdio.\nOnly operations permitted by the resolved mode are advertised to the client.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := obsmcp.Config{
		ConfigPath:       serveConfig,
		ModeOverride:     serveMode,
		AuditLogOverride: serveAuditLog,
	}

	srv, err := obsmcp.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down MCP server...")
		cancel()
	}()

	if reloader, rerr := obsmcp.NewReloader(srv); rerr != nil {
		fmt.Fprintf(os.Stderr, "hot-reload disabled: %v\n", rerr)
	} else if reloader != nil {
		go reloader.Run(ctx)
	}

	fmt.Fprintln(os.Stderr, "obsgate MCP server running on stdio")
	fmt.Fprintf(os.Stderr, "Mode: %s (%d operations advertised)\n", srv.Mode(), srv.PermittedCount())
	fmt.Fprintf(os.Stderr, "Audit log: %s\n", srv.AuditLogPath())
	fmt.Fprintln(os.Stderr)

	return srv.Run(ctx)
}
