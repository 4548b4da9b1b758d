package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"aircheck/internal/catalog"
	"aircheck/internal/preflight"
)

func newStatusCommand(cmdCtx *commandContext) *cobra.Command {
	var probeSources bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon, host, and catalog status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Daemon", colorize) {
				fmt.Fprintln(out, line)
			}
			lockPath := filepath.Join(cfg.Paths.LogDir, "aircheckd.lock")
			if daemonRunning(lockPath) {
				fmt.Fprintln(out, renderStatusLine("aircheckd", statusOK, "running", colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("aircheckd", statusWarn, "not running", colorize))
			}

			for _, line := range renderSectionHeader("Host", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusError
				if result.Passed {
					kind = statusOK
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			return cmdCtx.withStore(func(ctx context.Context, store *catalog.Store) error {
				summary, err := store.Summarize(ctx)
				if err != nil {
					return fmt.Errorf("summarize catalog: %w", err)
				}

				for _, line := range renderSectionHeader("Catalog", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Streams", statusInfo,
					fmt.Sprintf("%d (%d active)", summary.Streams, summary.ActiveStreams), colorize))
				fmt.Fprintln(out, renderStatusLine("Recordings", statusInfo,
					strconv.FormatInt(summary.Recordings, 10), colorize))

				if !probeSources {
					return nil
				}
				streams, err := store.ListActiveStreams(ctx)
				if err != nil {
					return fmt.Errorf("list streams: %w", err)
				}
				for _, line := range renderSectionHeader("Sources", colorize) {
					fmt.Fprintln(out, line)
				}
				if len(streams) == 0 {
					fmt.Fprintln(out, statusIndent+"no active streams")
					return nil
				}
				for _, stream := range streams {
					result := preflight.CheckStreamSource(cmd.Context(), stream.Name, stream.SourceURL)
					kind := statusError
					if result.Passed {
						kind = statusOK
					}
					fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&probeSources, "probe-sources", false, "Probe each active stream URL for reachability")
	return cmd
}

// daemonRunning reports whether another process holds the daemon lock.
// The probe lock is released immediately; flock is advisory, so a failed
// TryLock means the daemon has it.
func daemonRunning(lockPath string) bool {
	probe := flock.New(lockPath)
	ok, err := probe.TryLock()
	if err != nil {
		return false
	}
	if ok {
		_ = probe.Unlock()
		return false
	}
	return true
}
