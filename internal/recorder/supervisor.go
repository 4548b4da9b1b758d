package recorder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"aircheck/internal/catalog"
	"aircheck/internal/config"
	"aircheck/internal/logging"
)

// Directory lists the streams currently flagged for recording. Fetch
// failures are transient; the supervisor keeps its current worker set
// running until the directory is reachable again.
type Directory interface {
	ListActiveStreams(ctx context.Context) ([]catalog.Stream, error)
}

// Supervisor owns the worker set and drives every state transition from a
// single control loop.
type Supervisor struct {
	cfg       *config.Config
	directory Directory
	gateway   Gateway
	logger    *slog.Logger

	mu      sync.Mutex
	workers map[int64]*Worker
}

// WorkerStatus describes one supervised stream for status output.
type WorkerStatus struct {
	StreamID   int64
	StreamName string
	Capturing  bool
	ChunkStart time.Time
}

// StatusSummary aggregates supervisor state.
type StatusSummary struct {
	Workers []WorkerStatus
}

// NewSupervisor constructs the supervisor.
func NewSupervisor(cfg *config.Config, directory Directory, gateway Gateway, logger *slog.Logger) *Supervisor {
	return &Supervisor{
		cfg:       cfg,
		directory: directory,
		gateway:   gateway,
		logger:    logging.NewComponentLogger(logger, "supervisor"),
		workers:   make(map[int64]*Worker),
	}
}

// Run blocks until ctx is canceled, reconciling the worker set against the
// directory on every poll interval. On cancellation the current cycle
// completes and every remaining worker is stopped gracefully before Run
// returns; no in-flight chunk is abandoned on a controlled shutdown.
func (s *Supervisor) Run(ctx context.Context) {
	s.logger.Info("recording supervisor started",
		logging.Duration("poll_interval", s.cfg.PollInterval()),
		logging.Duration("chunk_duration", s.cfg.ChunkDuration()),
	)

	ticker := time.NewTicker(s.cfg.PollInterval())
	defer ticker.Stop()

	for {
		s.reconcile(ctx)

		select {
		case <-ctx.Done():
			s.shutdown(ctx)
			return
		case <-ticker.C:
		}
	}
}

// reconcile performs one supervision cycle: refresh the active set, start
// workers for new streams, stop workers for deactivated ones, tick the
// rest.
func (s *Supervisor) reconcile(ctx context.Context) {
	active, err := s.directory.ListActiveStreams(ctx)
	if err != nil {
		// Treat as "no change this cycle": a directory outage must never
		// tear down healthy workers.
		s.logger.Warn("failed to list active streams, keeping current workers",
			logging.Error(err),
			logging.String(logging.FieldEventType, "directory_fetch_failed"),
			logging.String(logging.FieldErrorHint, "check catalog database access"),
		)
		s.tickAll(ctx)
		return
	}

	activeByID := make(map[int64]catalog.Stream, len(active))
	for _, stream := range active {
		activeByID[stream.ID] = stream
	}

	s.mu.Lock()
	for id, stream := range activeByID {
		if _, ok := s.workers[id]; ok {
			continue
		}
		s.logger.Info("starting worker",
			logging.Int64(logging.FieldStreamID, id),
			logging.String(logging.FieldStream, stream.Name),
		)
		worker := NewWorker(s.cfg, stream, s.gateway, s.logger)
		s.workers[id] = worker
		worker.Start()
	}

	var removed []*Worker
	for id, worker := range s.workers {
		if _, ok := activeByID[id]; ok {
			continue
		}
		s.logger.Info("stopping worker for deactivated stream",
			logging.Int64(logging.FieldStreamID, id),
			logging.String(logging.FieldStream, worker.Stream().Name),
		)
		removed = append(removed, worker)
		delete(s.workers, id)
	}
	s.mu.Unlock()

	for _, worker := range removed {
		s.stopWorker(ctx, worker)
	}

	s.tickAll(ctx)
}

func (s *Supervisor) tickAll(ctx context.Context) {
	for _, worker := range s.snapshot() {
		s.tickWorker(ctx, worker)
	}
}

// tickWorker contains a single worker's failures, panics included, so one
// misbehaving stream cannot halt supervision of the others.
func (s *Supervisor) tickWorker(ctx context.Context, worker *Worker) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("worker tick panicked",
				logging.Int64(logging.FieldStreamID, worker.Stream().ID),
				logging.String(logging.FieldStream, worker.Stream().Name),
				logging.Any("panic", r),
			)
		}
	}()
	worker.Tick(ctx)
}

func (s *Supervisor) stopWorker(ctx context.Context, worker *Worker) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("worker stop panicked",
				logging.Int64(logging.FieldStreamID, worker.Stream().ID),
				logging.Any("panic", r),
			)
		}
	}()
	// Finalization must outlive the loop's cancellation so shutdown still
	// persists in-flight chunks.
	worker.Stop(context.WithoutCancel(ctx))
}

func (s *Supervisor) shutdown(ctx context.Context) {
	s.mu.Lock()
	remaining := make([]*Worker, 0, len(s.workers))
	for _, worker := range s.workers {
		remaining = append(remaining, worker)
	}
	s.workers = make(map[int64]*Worker)
	s.mu.Unlock()

	s.logger.Info("stopping all workers", logging.Int("count", len(remaining)))
	for _, worker := range remaining {
		s.stopWorker(ctx, worker)
	}
	s.logger.Info("recording supervisor exited")
}

func (s *Supervisor) snapshot() []*Worker {
	s.mu.Lock()
	defer s.mu.Unlock()
	workers := make([]*Worker, 0, len(s.workers))
	for _, worker := range s.workers {
		workers = append(workers, worker)
	}
	return workers
}

// Status reports the currently supervised streams.
func (s *Supervisor) Status() StatusSummary {
	var summary StatusSummary
	for _, worker := range s.snapshot() {
		status := WorkerStatus{
			StreamID:   worker.Stream().ID,
			StreamName: worker.Stream().Name,
		}
		if chunk, ok := worker.CurrentChunk(); ok {
			status.Capturing = true
			status.ChunkStart = chunk.Start
		}
		summary.Workers = append(summary.Workers, status)
	}
	return summary
}
