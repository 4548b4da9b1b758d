package recorder

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"aircheck/internal/archive"
	"aircheck/internal/capture"
	"aircheck/internal/catalog"
	"aircheck/internal/chunkname"
	"aircheck/internal/config"
	"aircheck/internal/logging"
)

// Gateway persists a finalized chunk's bytes and metadata atomically.
type Gateway interface {
	SaveChunk(ctx context.Context, req archive.SaveRequest) (*catalog.Recording, error)
}

// Chunk is one in-flight capture. Chunks are immutable: a worker replaces
// its chunk on rotation instead of mutating it, which keeps the
// one-chunk-per-worker invariant structurally obvious.
type Chunk struct {
	Start    time.Time
	TempPath string
	Proc     *capture.Handle
}

// Worker drives the capture lifecycle for a single stream: start, periodic
// rotation, crash recovery, and finalization. State transitions happen on
// the supervisor loop only; the chunk pointer is additionally synchronized
// so status readers can observe it safely.
type Worker struct {
	cfg     *config.Config
	stream  catalog.Stream
	gateway Gateway
	logger  *slog.Logger

	mu      sync.Mutex
	chunk   *Chunk
	stopped bool
	lastEnd time.Time
}

// NewWorker constructs a worker for one stream.
func NewWorker(cfg *config.Config, stream catalog.Stream, gateway Gateway, logger *slog.Logger) *Worker {
	return &Worker{
		cfg:     cfg,
		stream:  stream,
		gateway: gateway,
		logger: logging.NewComponentLogger(logger, "worker").With(
			logging.Int64(logging.FieldStreamID, stream.ID),
			logging.String(logging.FieldStream, stream.Name),
		),
	}
}

// Stream returns the directory entry this worker records.
func (w *Worker) Stream() catalog.Stream {
	return w.stream
}

// Capturing reports whether a chunk is currently in flight.
func (w *Worker) Capturing() bool {
	_, ok := w.CurrentChunk()
	return ok
}

// CurrentChunk returns a copy of the in-flight chunk, if any.
func (w *Worker) CurrentChunk() (Chunk, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.chunk == nil {
		return Chunk{}, false
	}
	return *w.chunk, true
}

func (w *Worker) setChunk(chunk *Chunk) {
	w.mu.Lock()
	w.chunk = chunk
	w.mu.Unlock()
}

// detachChunk removes and returns the in-flight chunk so finalize can run
// without the worker referencing it.
func (w *Worker) detachChunk() *Chunk {
	w.mu.Lock()
	defer w.mu.Unlock()
	chunk := w.chunk
	w.chunk = nil
	return chunk
}

// Start begins a fresh capture chunk. A launch failure leaves the worker
// chunk-less; the next tick retries.
func (w *Worker) Start() {
	if w.stopped || w.Capturing() {
		return
	}

	start := time.Now().UTC()
	tempPath := filepath.Join(
		w.cfg.Paths.StagingDir,
		"rec_"+uuid.New().String()+"."+w.cfg.Recorder.Container,
	)

	handle, err := capture.Launch(capture.Request{
		Binary:            w.cfg.FFmpegBinary(),
		SourceURL:         w.stream.SourceURL,
		OutputPath:        tempPath,
		Container:         w.cfg.Recorder.Container,
		ReconnectDelayMax: w.cfg.Recorder.ReconnectDelayMax,
	})
	if err != nil {
		w.logger.Error("failed to launch capture",
			logging.Error(err),
			logging.String(logging.FieldEventType, "capture_launch_failed"),
			logging.String(logging.FieldErrorHint, "check ffmpeg installation and stream URL"),
		)
		return
	}

	w.setChunk(&Chunk{Start: start, TempPath: tempPath, Proc: handle})
	w.logger.Info("capture started",
		logging.Int("pid", handle.Pid()),
		logging.String(logging.FieldTempPath, tempPath),
		logging.Time(logging.FieldChunkStart, start),
	)
}

// Tick advances the worker state machine one step. Policy, in priority
// order: no chunk starts one; a dead subprocess salvages and restarts;
// an elapsed rotation boundary finalizes and restarts; otherwise no-op.
func (w *Worker) Tick(ctx context.Context) {
	if w.stopped {
		return
	}

	chunk, ok := w.CurrentChunk()
	if !ok {
		w.Start()
		return
	}

	if !chunk.Proc.Alive() {
		w.logger.Warn("capture exited unexpectedly, rotating chunk",
			logging.Error(chunk.Proc.ExitErr()),
			logging.String(logging.FieldEventType, "capture_crashed"),
			logging.String(logging.FieldErrorHint, "source stream may be down; capture restarts automatically"),
		)
		w.finalize(ctx)
		w.Start()
		return
	}

	if time.Since(chunk.Start) >= w.cfg.ChunkDuration() {
		w.logger.Info("rotation boundary reached",
			logging.Duration("chunk_age", time.Since(chunk.Start)),
		)
		w.finalize(ctx)
		w.Start()
	}
}

// Stop finalizes the in-flight chunk and moves the worker to its terminal
// state. Idempotent: stopping a stopped worker is a no-op.
func (w *Worker) Stop(ctx context.Context) {
	if w.stopped {
		return
	}
	w.stopped = true
	w.finalize(ctx)
	w.logger.Info("worker stopped")
}

// LastEnd returns the end timestamp of the most recently finalized chunk.
func (w *Worker) LastEnd() time.Time {
	return w.lastEnd
}

// finalize stops the capture subprocess and hands the completed chunk to
// the gateway. The chunk is detached from the worker before any I/O so a
// persistence failure can never trigger a second finalize of the same
// chunk. A failed persist degrades to data loss for that chunk; temp files
// are always cleaned up.
func (w *Worker) finalize(ctx context.Context) {
	chunk := w.detachChunk()
	if chunk == nil {
		return
	}

	if err := chunk.Proc.Stop(w.cfg.StopTimeout()); err != nil {
		w.logger.Debug("capture exit status", logging.Error(err))
	}
	end := time.Now().UTC()
	w.lastEnd = end

	info, err := os.Stat(chunk.TempPath)
	if err != nil || info.Size() == 0 {
		w.logger.Warn("no capture output to save, discarding chunk",
			logging.String(logging.FieldTempPath, chunk.TempPath),
			logging.Time(logging.FieldChunkStart, chunk.Start),
			logging.Time(logging.FieldChunkEnd, end),
			logging.String(logging.FieldEventType, "chunk_discarded"),
		)
		_ = os.Remove(chunk.TempPath)
		return
	}

	rec, err := w.gateway.SaveChunk(ctx, archive.SaveRequest{
		StreamID:   w.stream.ID,
		StartTime:  chunk.Start,
		EndTime:    end,
		SourcePath: chunk.TempPath,
		ChunkPath:  chunkname.Path(w.stream.Name, chunk.Start, end, w.cfg.Recorder.Container),
	})
	if err != nil {
		w.logger.Error("failed to persist chunk, data lost",
			logging.Error(err),
			logging.Time(logging.FieldChunkStart, chunk.Start),
			logging.Time(logging.FieldChunkEnd, end),
			logging.String(logging.FieldTempPath, chunk.TempPath),
			logging.String(logging.FieldEventType, "chunk_persist_failed"),
			logging.String(logging.FieldErrorHint, "check archive storage and catalog database"),
		)
		_ = os.Remove(chunk.TempPath)
		return
	}

	w.logger.Info("chunk saved",
		logging.Int64("recording_id", rec.ID),
		logging.Int64("bytes", rec.ByteSize),
		logging.Time(logging.FieldChunkStart, rec.StartTime),
		logging.Time(logging.FieldChunkEnd, rec.EndTime),
		logging.String("path", rec.FilePath),
	)
}
