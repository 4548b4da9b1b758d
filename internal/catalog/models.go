package catalog

import "time"

// Stream is one directory entry: a live network audio source the daemon may
// be asked to record. The recorder core treats these as read-only.
type Stream struct {
	ID        int64
	Name      string
	SourceURL string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Recording is the durable metadata record for one finalized chunk. A row
// exists if and only if the referenced archive file exists and is complete.
type Recording struct {
	ID        int64
	StreamID  int64
	StartTime time.Time
	EndTime   time.Time
	FilePath  string
	ByteSize  int64
	CreatedAt time.Time
}

// Duration returns the recorded chunk length.
func (r Recording) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
