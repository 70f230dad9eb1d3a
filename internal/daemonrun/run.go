// Package daemonrun hosts the daemon process runtime shared by the
// standalone shortspulsed binary and the CLI's embedded daemon command.
package daemonrun

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"shortspulse/internal/config"
	"shortspulse/internal/daemon"
	"shortspulse/internal/engine"
	"shortspulse/internal/ipc"
	"shortspulse/internal/logging"
	"shortspulse/internal/notifications"
	"shortspulse/internal/youtube"
)

// Options configures daemon process runtime behavior.
type Options struct {
	// LogLevel overrides the configured level when non-empty.
	LogLevel string
	// SocketPath overrides the config-derived IPC socket when non-empty.
	SocketPath string
}

// Run starts the shortspulse daemon runtime loop and blocks until the
// context is canceled or a termination signal arrives.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create log directory %q: %w", cfg.Paths.LogDir, err)
	}

	runID := uuid.NewString()
	startedAt := time.Now().UTC().Format("20060102T150405Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("shortspulse-%s.log", startedAt))

	level := cfg.Logging.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger = logger.With(logging.String(logging.FieldRunID, runID))

	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update shortspulse.log link: %v\n", err)
	}
	pidPath := filepath.Join(cfg.Paths.LogDir, "shortspulse.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	sourceOpts := []youtube.Option{}
	if cfg.YouTube.RequestTimeout > 0 {
		sourceOpts = append(sourceOpts, youtube.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.YouTube.RequestTimeout) * time.Second,
		}))
	}
	source, err := youtube.New(cfg.YouTube.APIKey, cfg.YouTube.BaseURL, sourceOpts...)
	if err != nil {
		return fmt.Errorf("create youtube client: %w", err)
	}
	notifier := notifications.NewService(cfg)
	eng := engine.New(cfg, source, logger, notifier)

	d, err := daemon.New(cfg, eng, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	socketPath := cfg.SocketPath()
	if opts.SocketPath != "" {
		socketPath = opts.SocketPath
	}
	ipcServer, err := ipc.NewServer(signalCtx, socketPath, d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(signalCtx); err != nil {
		logger.Warn("daemon start failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_start_failed"),
			logging.String(logging.FieldErrorHint, "check configuration and the API key, or stop the other instance"),
		)
	}

	<-signalCtx.Done()
	logger.Info("shortspulse daemon shutting down")
	return nil
}

// ensureCurrentLogPointer keeps logdir/shortspulse.log pointing at the
// current run's log file.
func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "shortspulse.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
