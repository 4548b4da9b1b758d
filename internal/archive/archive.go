// Package archive implements the persistence gateway for finalized chunks:
// one save call moves the captured bytes into the archive tree and creates
// the catalog metadata row as a unit. On any failure the blob is removed
// again, so a recording row is observable if and only if its file exists
// and is complete.
package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"aircheck/internal/catalog"
	"aircheck/internal/chunkname"
	"aircheck/internal/fileutil"
	"aircheck/internal/logging"
)

// SaveRequest describes one finalized chunk handed off for durable storage.
type SaveRequest struct {
	StreamID   int64
	StartTime  time.Time
	EndTime    time.Time
	SourcePath string
	// ChunkPath is the archive-relative destination derived by the chunk
	// namer.
	ChunkPath string
}

// Store persists chunks under a root directory with metadata in the catalog.
type Store struct {
	root    string
	catalog *catalog.Store
	logger  *slog.Logger
}

// NewStore constructs the gateway. The logger may be nil.
func NewStore(root string, cat *catalog.Store, logger *slog.Logger) (*Store, error) {
	if root == "" {
		return nil, errors.New("archive root required")
	}
	if cat == nil {
		return nil, errors.New("catalog store required")
	}
	return &Store{
		root:    root,
		catalog: cat,
		logger:  logging.NewComponentLogger(logger, "archive"),
	}, nil
}

// Root returns the archive root directory.
func (s *Store) Root() string {
	return s.root
}

// SaveChunk atomically persists a chunk. On success both the archive file
// and the recording row exist; on failure neither survives (the temp source
// is left for the caller to clean up).
func (s *Store) SaveChunk(ctx context.Context, req SaveRequest) (*catalog.Recording, error) {
	info, err := os.Stat(req.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("stat chunk source: %w", err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("chunk source %s is empty", req.SourcePath)
	}

	relPath := req.ChunkPath
	destPath := filepath.Join(s.root, filepath.FromSlash(relPath))
	if _, err := os.Stat(destPath); err == nil {
		relPath = chunkname.Unique(relPath)
		destPath = filepath.Join(s.root, filepath.FromSlash(relPath))
		s.logger.Warn("archive path collision, using suffixed name",
			logging.String("path", relPath),
			logging.String(logging.FieldEventType, "archive_path_collision"),
		)
	}

	if err := fileutil.MoveFile(req.SourcePath, destPath); err != nil {
		return nil, fmt.Errorf("store chunk blob: %w", err)
	}

	rec, err := s.catalog.InsertRecording(ctx, catalog.Recording{
		StreamID:  req.StreamID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		FilePath:  relPath,
		ByteSize:  info.Size(),
	})
	if err != nil {
		// Keep the iff invariant: no metadata row means no blob either.
		if rmErr := os.Remove(destPath); rmErr != nil {
			s.logger.Warn("failed to remove blob after metadata failure",
				logging.String("path", destPath),
				logging.Error(rmErr),
				logging.String(logging.FieldEventType, "archive_orphan_blob"),
				logging.String(logging.FieldErrorHint, "remove the file manually"),
			)
		}
		return nil, fmt.Errorf("record chunk metadata: %w", err)
	}

	return rec, nil
}

// AbsolutePath resolves a recording's archive-relative path.
func (s *Store) AbsolutePath(rec catalog.Recording) string {
	return filepath.Join(s.root, filepath.FromSlash(rec.FilePath))
}
