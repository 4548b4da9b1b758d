package daemon_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"aircheck/internal/archive"
	"aircheck/internal/catalog"
	"aircheck/internal/config"
	"aircheck/internal/daemon"
	"aircheck/internal/logging"
	"aircheck/internal/recorder"
	"aircheck/internal/testsupport"
)

func newDaemon(t *testing.T, cfg *config.Config) (*daemon.Daemon, *catalog.Store) {
	t.Helper()
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()
	gateway, err := archive.NewStore(cfg.Paths.ArchiveDir, store, logger)
	if err != nil {
		t.Fatalf("archive store: %v", err)
	}
	sup := recorder.NewSupervisor(cfg, store, gateway, logger)
	d, err := daemon.New(cfg, store, logger, sup)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	return d, store
}

func TestDaemonStartRecordsAndStops(t *testing.T) {
	testsupport.StubFFmpeg(t, testsupport.FFmpegScriptCapture)
	cfg := testsupport.NewConfig(t, testsupport.WithPollInterval(1), testsupport.WithStopTimeout(1))
	d, store := newDaemon(t, cfg)
	defer d.Close()

	testsupport.NewStream(t, store, "jazz", "http://radio.example/jazz")

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !d.Status().Running {
		t.Fatal("expected running daemon")
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if len(d.Status().Supervisor.Workers) == 1 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if len(d.Status().Supervisor.Workers) != 1 {
		t.Fatal("worker never started")
	}
	// Give the stub a moment to write its output so the chunk persists.
	time.Sleep(200 * time.Millisecond)

	d.Stop()
	status := d.Status()
	if status.Running {
		t.Fatal("expected stopped daemon")
	}
	if len(status.Supervisor.Workers) != 0 {
		t.Fatal("workers survived stop")
	}

	recs, err := store.ListRecordings(context.Background(), 0)
	if err != nil {
		t.Fatalf("list recordings: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected the in-flight chunk to be archived on stop, got %d recordings", len(recs))
	}
}

func TestDaemonSingleInstance(t *testing.T) {
	testsupport.StubFFmpeg(t, testsupport.FFmpegScriptCapture)
	cfg := testsupport.NewConfig(t, testsupport.WithStopTimeout(1))
	first, _ := newDaemon(t, cfg)
	defer first.Close()
	second, _ := newDaemon(t, cfg)
	defer second.Close()

	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("first start: %v", err)
	}
	err := second.Start(context.Background())
	if err == nil {
		t.Fatal("expected second instance to be rejected")
	}
	if !strings.Contains(err.Error(), "already running") {
		t.Fatalf("unexpected error: %v", err)
	}

	first.Stop()
	if err := second.Start(context.Background()); err != nil {
		t.Fatalf("start after release: %v", err)
	}
	second.Stop()
}

func TestDaemonStartFailsPreflight(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	cfg := testsupport.NewConfig(t, testsupport.WithStopTimeout(1))
	d, _ := newDaemon(t, cfg)
	defer d.Close()

	err := d.Start(context.Background())
	if err == nil {
		t.Fatal("expected preflight failure without ffmpeg")
	}
	if !strings.Contains(err.Error(), "preflight failed") {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Status().Running {
		t.Fatal("daemon must not run after failed preflight")
	}
}
