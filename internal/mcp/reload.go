package mcp

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Reloader watches the config file and hot-reloads the redaction
// settings. The operating mode never reloads: changing it requires a
// process restart.
type Reloader struct {
	watcher *fsnotify.Watcher
	server  *Server
}

// NewReloader creates a file watcher for the server's config path.
// Returns nil (no watcher) when the path does not exist yet.
func NewReloader(server *Server) (*Reloader, error) {
	if server.configPath == "" {
		return nil, nil
	}
	if _, err := os.Stat(server.configPath); err != nil {
		return nil, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := watcher.Add(server.configPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %q: %w", server.configPath, err)
	}

	return &Reloader{watcher: watcher, server: server}, nil
}

// Run watches for file changes and reloads. Blocks until ctx is
// cancelled.
func (r *Reloader) Run(ctx context.Context) error {
	defer r.watcher.Close()

	// Debounce: wait 500ms after the last write before reloading.
	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, func() {
					if err := r.server.ReloadRedactSettings(); err != nil {
						fmt.Fprintf(os.Stderr, "hot-reload failed: %v\n", err)
					} else {
						fmt.Fprintln(os.Stderr, "hot-reload: redaction settings reloaded")
					}
				})
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "file watcher error: %v\n", err)
		}
	}
}
