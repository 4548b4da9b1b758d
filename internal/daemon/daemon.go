package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gofrs/flock"

	"aircheck/internal/catalog"
	"aircheck/internal/config"
	"aircheck/internal/logging"
	"aircheck/internal/preflight"
	"aircheck/internal/recorder"
)

// Daemon coordinates the recorder supervisor and enforces single-instance execution.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *catalog.Store
	supervisor *recorder.Supervisor
	logPath    string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	Supervisor    recorder.StatusSummary
	CatalogDBPath string
	LockFilePath  string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *catalog.Store, logger *slog.Logger, sup *recorder.Supervisor) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil || sup == nil {
		return nil, errors.New("daemon requires config, store, logger, and supervisor")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "aircheckd.lock")
	return &Daemon{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		supervisor: sup,
		logPath:    filepath.Join(cfg.Paths.LogDir, "aircheckd.log"),
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}, nil
}

// Start runs preflight checks, acquires the daemon lock, and launches the
// supervisor loop in the background.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	results := preflight.RunAll(ctx, d.cfg)
	if !preflight.AllPassed(results) {
		var failed []string
		for _, r := range results {
			if !r.Passed {
				failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
			}
		}
		return fmt.Errorf("preflight failed: %s", strings.Join(failed, "; "))
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another aircheck daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	go func() {
		defer close(d.done)
		d.supervisor.Run(runCtx)
	}()

	d.running.Store(true)
	d.logger.Info("aircheck daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop cancels the supervisor loop, waits for in-flight chunks to be
// finalized, and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.done != nil {
		<-d.done
		d.done = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("aircheck daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Wait blocks until the supervisor loop exits. It returns immediately
// when the daemon is not running.
func (d *Daemon) Wait() {
	if d.done != nil {
		<-d.done
	}
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:       d.running.Load(),
		Supervisor:    d.supervisor.Status(),
		CatalogDBPath: d.cfg.DatabasePath(),
		LockFilePath:  d.lockPath,
	}
}
