package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"aircheck/internal/catalog"
	"aircheck/internal/testsupport"
)

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	stream, err := store.AddStream(ctx, "Radio Rock 101.5", "http://radio.example/rock")
	if err != nil {
		t.Fatalf("AddStream failed: %v", err)
	}
	if stream.ID == 0 {
		t.Fatal("expected stream ID to be assigned")
	}
	if !stream.Active {
		t.Fatal("expected new stream to start active")
	}

	fetched, err := store.GetStream(ctx, stream.ID)
	if err != nil {
		t.Fatalf("GetStream failed: %v", err)
	}
	if fetched == nil || fetched.Name != "Radio Rock 101.5" {
		t.Fatalf("unexpected fetched stream: %#v", fetched)
	}

	byName, err := store.GetStreamByName(ctx, "Radio Rock 101.5")
	if err != nil {
		t.Fatalf("GetStreamByName failed: %v", err)
	}
	if byName == nil || byName.ID != stream.ID {
		t.Fatalf("expected to find stream by name, got %#v", byName)
	}
}

func TestAddStreamRejectsDuplicatesAndBlanks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.NewStream(t, store, "Jazz FM", "http://radio.example/jazz")

	if _, err := store.AddStream(ctx, "Jazz FM", "http://radio.example/other"); !errors.Is(err, catalog.ErrStreamExists) {
		t.Fatalf("expected ErrStreamExists, got %v", err)
	}
	if _, err := store.AddStream(ctx, "  ", "http://radio.example/x"); err == nil {
		t.Fatal("expected error for blank name")
	}
	if _, err := store.AddStream(ctx, "No URL", ""); err == nil {
		t.Fatal("expected error for blank URL")
	}
}

func TestListActiveStreamsFiltersAndOrders(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	b := testsupport.NewStream(t, store, "B Station", "http://radio.example/b")
	testsupport.NewStream(t, store, "A Station", "http://radio.example/a")

	if _, err := store.SetStreamActive(ctx, b.ID, false); err != nil {
		t.Fatalf("SetStreamActive: %v", err)
	}

	active, err := store.ListActiveStreams(ctx)
	if err != nil {
		t.Fatalf("ListActiveStreams: %v", err)
	}
	if len(active) != 1 || active[0].Name != "A Station" {
		t.Fatalf("unexpected active set: %#v", active)
	}

	all, err := store.ListStreams(ctx)
	if err != nil {
		t.Fatalf("ListStreams: %v", err)
	}
	if len(all) != 2 || all[0].Name != "A Station" || all[1].Name != "B Station" {
		t.Fatalf("unexpected stream order: %#v", all)
	}
}

func TestSetStreamActiveMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ok, err := store.SetStreamActive(context.Background(), 9999, true)
	if err != nil {
		t.Fatalf("SetStreamActive: %v", err)
	}
	if ok {
		t.Fatal("expected no rows affected for missing stream")
	}
}

func TestInsertAndListRecordings(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	stream := testsupport.NewStream(t, store, "News 24", "http://radio.example/news")

	start := time.Date(2026, 8, 28, 13, 0, 0, 0, time.UTC)
	first, err := store.InsertRecording(ctx, catalog.Recording{
		StreamID:  stream.ID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		FilePath:  "recordings/News_24/2026/08/28/one.mp3",
		ByteSize:  1024,
	})
	if err != nil {
		t.Fatalf("InsertRecording: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected recording ID to be assigned")
	}
	if got := first.Duration(); got != time.Hour {
		t.Fatalf("unexpected duration: %v", got)
	}

	if _, err := store.InsertRecording(ctx, catalog.Recording{
		StreamID:  stream.ID,
		StartTime: start.Add(2 * time.Hour),
		EndTime:   start.Add(time.Hour),
		FilePath:  "recordings/News_24/2026/08/28/bad.mp3",
	}); err == nil {
		t.Fatal("expected error for end before start")
	}

	second, err := store.InsertRecording(ctx, catalog.Recording{
		StreamID:  stream.ID,
		StartTime: start.Add(time.Hour),
		EndTime:   start.Add(2 * time.Hour),
		FilePath:  "recordings/News_24/2026/08/28/two.mp3",
		ByteSize:  2048,
	})
	if err != nil {
		t.Fatalf("InsertRecording: %v", err)
	}

	recs, err := store.ListRecordings(ctx, stream.ID)
	if err != nil {
		t.Fatalf("ListRecordings: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recordings, got %d", len(recs))
	}
	if recs[0].ID != second.ID {
		t.Fatalf("expected newest first, got %#v", recs)
	}

	summary, err := store.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.Streams != 1 || summary.ActiveStreams != 1 || summary.Recordings != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestRemoveStreamCascadesRecordings(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	stream := testsupport.NewStream(t, store, "Gone FM", "http://radio.example/gone")
	start := time.Now().UTC().Truncate(time.Second)
	if _, err := store.InsertRecording(ctx, catalog.Recording{
		StreamID:  stream.ID,
		StartTime: start,
		EndTime:   start.Add(time.Minute),
		FilePath:  "recordings/Gone_FM/x.mp3",
	}); err != nil {
		t.Fatalf("InsertRecording: %v", err)
	}

	ok, err := store.RemoveStream(ctx, stream.ID)
	if err != nil || !ok {
		t.Fatalf("RemoveStream: ok=%v err=%v", ok, err)
	}

	recs, err := store.ListRecordings(ctx, 0)
	if err != nil {
		t.Fatalf("ListRecordings: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected cascade delete, got %#v", recs)
	}
}
