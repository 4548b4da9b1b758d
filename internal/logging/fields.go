package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldStreamID is the standardized structured logging key for catalog stream identifiers.
	FieldStreamID = "stream_id"
	// FieldStream is the standardized structured logging key for human-readable stream names.
	FieldStream = "stream"
	// FieldChunkStart is the standardized structured logging key for chunk start timestamps.
	FieldChunkStart = "chunk_start"
	// FieldChunkEnd is the standardized structured logging key for chunk end timestamps.
	FieldChunkEnd = "chunk_end"
	// FieldTempPath is the standardized structured logging key for in-flight chunk temp files.
	FieldTempPath = "temp_path"
	// FieldEventType categorizes log events for downstream filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step when an operation degrades.
	FieldErrorHint = "error_hint"
)
