// Package chunkname derives filesystem-safe identifiers and canonical
// archive paths for completed capture chunks. Everything here is pure:
// the same stream name and time range always maps to the same path.
package chunkname

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// timestampLayout matches the second-granularity, colon-free form used in
// chunk filenames, e.g. 2026-08-28T13-00-00.
const timestampLayout = "2006-01-02T15-04-05"

// archiveRoot is the top-level segment of every chunk path.
const archiveRoot = "recordings"

// Sanitize replaces every character outside [A-Za-z0-9_-] with an
// underscore, producing a safe path segment from a stream's display name.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// FileName builds the canonical chunk file name for a stream and time range.
func FileName(streamName string, start, end time.Time, ext string) string {
	safe := Sanitize(streamName)
	return safe + "_" + start.Format(timestampLayout) + "_to_" + end.Format(timestampLayout) + "." + normalizeExt(ext)
}

// Path builds the canonical archive-relative path for a chunk. Date
// components are taken from the chunk start time.
func Path(streamName string, start, end time.Time, ext string) string {
	safe := Sanitize(streamName)
	return path.Join(
		archiveRoot,
		safe,
		start.Format("2006"),
		start.Format("01"),
		start.Format("02"),
		FileName(streamName, start, end, ext),
	)
}

// Unique inserts a random suffix before the extension of a chunk path. Used
// as a collision fallback when the canonical path is already taken.
func Unique(chunkPath string) string {
	ext := path.Ext(chunkPath)
	stem := strings.TrimSuffix(chunkPath, ext)
	return stem + "_" + uuid.NewString()[:8] + ext
}

func normalizeExt(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	if ext == "" {
		return "mp3"
	}
	return ext
}
