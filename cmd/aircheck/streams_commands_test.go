package main

import (
	"context"
	"testing"
	"time"

	"aircheck/internal/catalog"
)

func TestStreamsAddListAndToggle(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"streams", "add", "morning jazz", "http://radio.example/jazz", "--title-case"}, env.configPath)
	if err != nil {
		t.Fatalf("streams add: %v", err)
	}
	requireContains(t, out, "Morning Jazz")

	if _, _, err := runCLI(t, []string{"streams", "add", "Morning Jazz", "http://radio.example/other"}, env.configPath); err == nil {
		t.Fatal("expected duplicate name rejection")
	}

	out, _, err = runCLI(t, []string{"streams", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("streams list: %v", err)
	}
	requireContains(t, out, "Morning Jazz")
	requireContains(t, out, "yes")

	if _, _, err := runCLI(t, []string{"streams", "disable", "Morning Jazz"}, env.configPath); err != nil {
		t.Fatalf("streams disable: %v", err)
	}
	out, _, err = runCLI(t, []string{"streams", "list", "--active"}, env.configPath)
	if err != nil {
		t.Fatalf("streams list --active: %v", err)
	}
	requireContains(t, out, "No streams configured")

	if _, _, err := runCLI(t, []string{"streams", "enable", "Morning Jazz"}, env.configPath); err != nil {
		t.Fatalf("streams enable: %v", err)
	}

	out, _, err = runCLI(t, []string{"streams", "remove", "Morning Jazz"}, env.configPath)
	if err != nil {
		t.Fatalf("streams remove: %v", err)
	}
	requireContains(t, out, "Removed stream")

	if _, _, err := runCLI(t, []string{"streams", "remove", "Morning Jazz"}, env.configPath); err == nil {
		t.Fatal("expected removal of missing stream to fail")
	}
}

func TestRecordingsList(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	store, err := catalog.Open(env.cfg)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	stream, err := store.AddStream(ctx, "news", "http://radio.example/news")
	if err != nil {
		t.Fatalf("add stream: %v", err)
	}
	start := time.Now().UTC().Add(-time.Hour)
	if _, err := store.InsertRecording(ctx, catalog.Recording{
		StreamID:  stream.ID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		FilePath:  "recordings/news/2026/08/28/news_x.mp3",
		ByteSize:  2048,
	}); err != nil {
		t.Fatalf("insert recording: %v", err)
	}
	store.Close()

	out, _, err := runCLI(t, []string{"recordings", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("recordings list: %v", err)
	}
	requireContains(t, out, "news")
	requireContains(t, out, "1h0m0s")
	requireContains(t, out, "2.0 KiB")

	out, _, err = runCLI(t, []string{"recordings", "list", "--stream", "news", "--limit", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("recordings list --stream: %v", err)
	}
	requireContains(t, out, "news_x.mp3")

	if _, _, err := runCLI(t, []string{"recordings", "list", "--stream", "ghost"}, env.configPath); err == nil {
		t.Fatal("expected unknown stream to fail")
	}
}
