package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"aircheck/internal/catalog"
)

func newRecordingsCommand(cmdCtx *commandContext) *cobra.Command {
	recordingsCmd := &cobra.Command{
		Use:   "recordings",
		Short: "Inspect archived recordings",
	}

	recordingsCmd.AddCommand(newRecordingsListCommand(cmdCtx))

	return recordingsCmd
}

func newRecordingsListCommand(cmdCtx *commandContext) *cobra.Command {
	var streamRef string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived recordings, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(func(ctx context.Context, store *catalog.Store) error {
				var streamID int64
				if streamRef != "" {
					stream, err := resolveStream(ctx, store, streamRef)
					if err != nil {
						return err
					}
					streamID = stream.ID
				}

				recordings, err := store.ListRecordings(ctx, streamID)
				if err != nil {
					return fmt.Errorf("list recordings: %w", err)
				}
				if limit > 0 && len(recordings) > limit {
					recordings = recordings[:limit]
				}

				out := cmd.OutOrStdout()
				if len(recordings) == 0 {
					fmt.Fprintln(out, "No recordings archived yet.")
					return nil
				}

				names, err := streamNames(ctx, store)
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(recordings))
				for _, rec := range recordings {
					name := names[rec.StreamID]
					if name == "" {
						name = strconv.FormatInt(rec.StreamID, 10)
					}
					rows = append(rows, []string{
						strconv.FormatInt(rec.ID, 10),
						name,
						rec.StartTime.Local().Format("2006-01-02 15:04:05"),
						formatChunkDuration(rec.Duration()),
						humanize.IBytes(uint64(rec.ByteSize)),
						rec.FilePath,
					})
				}
				headers := []string{"ID", "STREAM", "START", "DURATION", "SIZE", "PATH"}
				fmt.Fprintln(out, renderTable(headers, rows, 0, 3, 4))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&streamRef, "stream", "s", "", "Limit to one stream (name or ID)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many recordings")
	return cmd
}

func streamNames(ctx context.Context, store *catalog.Store) (map[int64]string, error) {
	streams, err := store.ListStreams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list streams: %w", err)
	}
	names := make(map[int64]string, len(streams))
	for _, s := range streams {
		names[s.ID] = s.Name
	}
	return names, nil
}

func formatChunkDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}
