package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"aircheck/internal/config"
)

// ErrStreamExists indicates an insert collided with an existing stream name.
var ErrStreamExists = errors.New("stream name already exists")

// Store manages stream and recording persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.DatabasePath())
}

// OpenPath connects to the catalog database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// AddStream inserts a new directory entry. New streams start active.
func (s *Store) AddStream(ctx context.Context, name, sourceURL string) (*Stream, error) {
	name = strings.TrimSpace(name)
	sourceURL = strings.TrimSpace(sourceURL)
	if name == "" {
		return nil, errors.New("stream name is required")
	}
	if sourceURL == "" {
		return nil, errors.New("stream source URL is required")
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO streams (name, source_url, active, created_at, updated_at)
         VALUES (?, ?, 1, ?, ?)`,
		name, sourceURL, timestamp, timestamp,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("%w: %s", ErrStreamExists, name)
		}
		return nil, fmt.Errorf("insert stream: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetStream(ctx, id)
}

// GetStream fetches a stream by identifier. Missing streams return nil.
func (s *Store) GetStream(ctx context.Context, id int64) (*Stream, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+streamColumns+` FROM streams WHERE id = ?`, id)
	stream, err := scanStream(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stream: %w", err)
	}
	return stream, nil
}

// GetStreamByName fetches a stream by its unique name. Missing streams return nil.
func (s *Store) GetStreamByName(ctx context.Context, name string) (*Stream, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+streamColumns+` FROM streams WHERE name = ?`, strings.TrimSpace(name))
	stream, err := scanStream(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stream by name: %w", err)
	}
	return stream, nil
}

// ListStreams returns every directory entry ordered by name.
func (s *Store) ListStreams(ctx context.Context) ([]Stream, error) {
	return s.queryStreams(ctx, `SELECT `+streamColumns+` FROM streams ORDER BY name`)
}

// ListActiveStreams returns the streams currently flagged for recording,
// ordered by name. This is the directory contract the supervisor polls.
func (s *Store) ListActiveStreams(ctx context.Context) ([]Stream, error) {
	return s.queryStreams(ctx, `SELECT `+streamColumns+` FROM streams WHERE active = 1 ORDER BY name`)
}

// SetStreamActive flips a stream's recording flag. Returns false when the
// stream does not exist.
func (s *Store) SetStreamActive(ctx context.Context, id int64, active bool) (bool, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE streams SET active = ?, updated_at = ? WHERE id = ?`,
		boolToInt(active),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return false, fmt.Errorf("update stream: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// RemoveStream deletes a stream and, via cascade, its recording rows.
// Archive files are not touched.
func (s *Store) RemoveStream(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM streams WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete stream: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// InsertRecording creates the metadata row for a finalized chunk.
func (s *Store) InsertRecording(ctx context.Context, rec Recording) (*Recording, error) {
	if rec.StreamID == 0 {
		return nil, errors.New("recording stream id is required")
	}
	if strings.TrimSpace(rec.FilePath) == "" {
		return nil, errors.New("recording file path is required")
	}
	if rec.EndTime.Before(rec.StartTime) {
		return nil, fmt.Errorf("recording end %s precedes start %s", rec.EndTime, rec.StartTime)
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO recordings (stream_id, start_time, end_time, file_path, byte_size, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		rec.StreamID,
		rec.StartTime.UTC().Format(time.RFC3339Nano),
		rec.EndTime.UTC().Format(time.RFC3339Nano),
		rec.FilePath,
		rec.ByteSize,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert recording: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetRecording(ctx, id)
}

// GetRecording fetches a recording row by identifier. Missing rows return nil.
func (s *Store) GetRecording(ctx context.Context, id int64) (*Recording, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordingColumns+` FROM recordings WHERE id = ?`, id)
	rec, err := scanRecording(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recording: %w", err)
	}
	return rec, nil
}

// ListRecordings returns recording rows newest first, optionally filtered
// by stream.
func (s *Store) ListRecordings(ctx context.Context, streamID int64) ([]Recording, error) {
	query := `SELECT ` + recordingColumns + ` FROM recordings`
	args := []any{}
	if streamID != 0 {
		query += ` WHERE stream_id = ?`
		args = append(args, streamID)
	}
	query += ` ORDER BY start_time DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recordings: %w", err)
	}
	defer rows.Close()

	var recs []Recording
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

// Summary aggregates catalog counts for status output.
type Summary struct {
	Streams       int64
	ActiveStreams int64
	Recordings    int64
}

// Summarize returns aggregate catalog counts.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	var out Summary
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1), COALESCE(SUM(active), 0) FROM streams`)
	if err := row.Scan(&out.Streams, &out.ActiveStreams); err != nil {
		return Summary{}, fmt.Errorf("count streams: %w", err)
	}
	row = s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM recordings`)
	if err := row.Scan(&out.Recordings); err != nil {
		return Summary{}, fmt.Errorf("count recordings: %w", err)
	}
	return out, nil
}

const streamColumns = `id, name, source_url, active, created_at, updated_at`

const recordingColumns = `id, stream_id, start_time, end_time, file_path, byte_size, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) queryStreams(ctx context.Context, query string, args ...any) ([]Stream, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query streams: %w", err)
	}
	defer rows.Close()

	var streams []Stream
	for rows.Next() {
		stream, err := scanStream(rows)
		if err != nil {
			return nil, err
		}
		streams = append(streams, *stream)
	}
	return streams, rows.Err()
}

func scanStream(row rowScanner) (*Stream, error) {
	var (
		stream             Stream
		active             int
		createdAt, updated string
	)
	if err := row.Scan(&stream.ID, &stream.Name, &stream.SourceURL, &active, &createdAt, &updated); err != nil {
		return nil, err
	}
	stream.Active = active != 0
	var err error
	if stream.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if stream.UpdatedAt, err = parseTimestamp(updated); err != nil {
		return nil, err
	}
	return &stream, nil
}

func scanRecording(row rowScanner) (*Recording, error) {
	var (
		rec                     Recording
		startRaw, endRaw, crRaw string
	)
	if err := row.Scan(&rec.ID, &rec.StreamID, &startRaw, &endRaw, &rec.FilePath, &rec.ByteSize, &crRaw); err != nil {
		return nil, err
	}
	var err error
	if rec.StartTime, err = parseTimestamp(startRaw); err != nil {
		return nil, err
	}
	if rec.EndTime, err = parseTimestamp(endRaw); err != nil {
		return nil, err
	}
	if rec.CreatedAt, err = parseTimestamp(crRaw); err != nil {
		return nil, err
	}
	return &rec, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", raw, err)
	}
	return ts, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
