// Package capture wraps a single external audio-capture subprocess. The
// recorder supervises these handles; it never reads their output streams,
// only liveness and exit status.
package capture

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"syscall"
	"time"
)

// Request describes one capture subprocess launch.
type Request struct {
	Binary            string
	SourceURL         string
	OutputPath        string
	Container         string
	ReconnectDelayMax int
}

// Handle owns exactly one running (or exited) capture subprocess.
type Handle struct {
	cmd     *exec.Cmd
	done    chan struct{}
	waitErr error
}

// Launch starts the capture subprocess. The process copies the source audio
// stream into the output path without transcoding and reconnects on
// transient source drops with bounded backoff, so only sustained upstream
// failure ends it.
func Launch(req Request) (*Handle, error) {
	if req.SourceURL == "" {
		return nil, errors.New("source URL required")
	}
	if req.OutputPath == "" {
		return nil, errors.New("output path required")
	}
	binary := req.Binary
	if binary == "" {
		binary = "ffmpeg"
	}
	container := req.Container
	if container == "" {
		container = "mp3"
	}
	reconnectDelay := req.ReconnectDelayMax
	if reconnectDelay <= 0 {
		reconnectDelay = 5
	}

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "warning",
		"-reconnect", "1",
		"-reconnect_at_eof", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", strconv.Itoa(reconnectDelay),
		"-i", req.SourceURL,
		"-vn",
		"-acodec", "copy",
		"-f", container,
		req.OutputPath,
	}

	cmd := exec.Command(binary, args...) //nolint:gosec
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", binary, err)
	}

	handle := &Handle{cmd: cmd, done: make(chan struct{})}
	go func() {
		handle.waitErr = cmd.Wait()
		close(handle.done)
	}()
	return handle, nil
}

// Alive reports whether the subprocess is still running.
func (h *Handle) Alive() bool {
	if h == nil {
		return false
	}
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Pid returns the subprocess identifier for logging.
func (h *Handle) Pid() int {
	if h == nil || h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

// Stop requests graceful termination and escalates to a force kill when the
// process has not exited within the timeout. It blocks until the process is
// gone and returns its exit error, if any. Stopping an already-exited
// handle only collects the exit status.
func (h *Handle) Stop(timeout time.Duration) error {
	if h == nil {
		return nil
	}

	select {
	case <-h.done:
		return h.waitErr
	default:
	}

	_ = h.cmd.Process.Signal(syscall.SIGTERM)

	select {
	case <-h.done:
		return h.waitErr
	case <-time.After(timeout):
	}

	_ = h.cmd.Process.Kill()
	<-h.done
	return h.waitErr
}

// ExitErr returns the subprocess exit error once it has terminated. It
// returns nil while the process is still running.
func (h *Handle) ExitErr() error {
	if h == nil {
		return nil
	}
	select {
	case <-h.done:
		return h.waitErr
	default:
		return nil
	}
}
