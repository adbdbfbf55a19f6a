// Command workspacesd is the reconciliation daemon: it wires config, the
// X11 façade, workspace store, reconciler, request gate, and IPC server,
// then blocks until terminated. Wiring order and signal handling follow
// the teacher's cmd/termtile/main.go runDaemon().
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/workspacesd/internal/appscache"
	"github.com/1broseidon/workspacesd/internal/config"
	"github.com/1broseidon/workspacesd/internal/facade"
	"github.com/1broseidon/workspacesd/internal/gate"
	"github.com/1broseidon/workspacesd/internal/ipc"
	"github.com/1broseidon/workspacesd/internal/pwa"
	"github.com/1broseidon/workspacesd/internal/reconciler"
	"github.com/1broseidon/workspacesd/internal/store"
	"github.com/1broseidon/workspacesd/internal/x11facade"
)

func main() {
	logLevel := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	setLogLevel(logLevel, cfg.LogLevel)
	logger.Info("configuration loaded", "poll_ms", cfg.PollMs, "minimize_workers", cfg.MinimizeWorkers)

	backend, err := x11facade.NewBackendFromDisplay()
	if err != nil {
		logger.Error("failed to connect to X11", "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	cache := appscache.New(appscache.DefaultDirs())
	if err := cache.Warm(); err != nil {
		logger.Warn("apps cache warm failed", "error", err)
	}

	ws, err := store.New(cfg.StoreDir)
	if err != nil {
		logger.Error("failed to initialize workspace store", "error", err)
		os.Exit(1)
	}

	windowTitle := func(id facade.WindowID) string {
		windows, err := backend.ListWindows()
		if err != nil {
			return ""
		}
		for _, w := range windows {
			if w.ID == id {
				return w.Title
			}
		}
		return ""
	}
	resolver := pwa.NewChromiumResolver(pwa.DefaultProfileDirs(), windowTitle)

	timings := reconciler.Timings{
		MaxInstanceWait: cfg.MaxInstanceWait(),
		Poll:            cfg.PollInterval(),
		InstanceSettle:  cfg.InstanceSettle(),
		Phase4Timeout:   cfg.Phase4Timeout(),
		MinimizeWorkers: cfg.MinimizeWorkers,
	}
	engine := reconciler.New(backend, cache, resolver, timings, logger)

	g := &gate.Gate{}

	handler := func(workspaceID string) {
		handleRequest(g, ws, engine, workspaceID, logger)
	}

	server, err := ipc.NewServer(cfg.SocketPath, handler, logger)
	if err != nil {
		logger.Error("failed to create IPC server", "error", err)
		os.Exit(1)
	}
	if err := server.Start(); err != nil {
		logger.Error("failed to start IPC server", "error", err)
		os.Exit(1)
	}
	defer server.Stop()

	logger.Info("workspacesd started successfully")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
}

func handleRequest(g *gate.Gate, ws *store.Store, engine *reconciler.Reconciler, workspaceID string, logger *slog.Logger) {
	if !g.TryAcquire() {
		logger.Warn(reconciler.ErrBusy.Error(), "workspace_id", workspaceID)
		return
	}
	defer g.Release()

	defer func() {
		if err := recover(); err != nil {
			logger.Error("reconciliation panic recovered", "error", err, "workspace_id", workspaceID)
		}
	}()

	workspace, err := ws.Find(workspaceID)
	if err != nil {
		logger.Warn("workspace not found", "workspace_id", workspaceID, "error", err)
		return
	}

	if _, err := engine.Reconcile(context.Background(), workspace); err != nil {
		logger.Error("reconciliation failed", "workspace_id", workspaceID, "error", err)
	}
}

func setLogLevel(v *slog.LevelVar, level string) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	case "info", "":
		v.Set(slog.LevelInfo)
	default:
		fmt.Fprintf(os.Stderr, "unknown log_level %q, defaulting to info\n", level)
		v.Set(slog.LevelInfo)
	}
}
