package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"aircheck/internal/catalog"
)

func newStreamsCommand(ctx *commandContext) *cobra.Command {
	streamsCmd := &cobra.Command{
		Use:   "streams",
		Short: "Manage the stream directory",
	}

	streamsCmd.AddCommand(newStreamsListCommand(ctx))
	streamsCmd.AddCommand(newStreamsAddCommand(ctx))
	streamsCmd.AddCommand(newStreamsEnableCommand(ctx))
	streamsCmd.AddCommand(newStreamsDisableCommand(ctx))
	streamsCmd.AddCommand(newStreamsRemoveCommand(ctx))

	return streamsCmd
}

func newStreamsListCommand(cmdCtx *commandContext) *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured streams",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(func(ctx context.Context, store *catalog.Store) error {
				var (
					streams []catalog.Stream
					err     error
				)
				if activeOnly {
					streams, err = store.ListActiveStreams(ctx)
				} else {
					streams, err = store.ListStreams(ctx)
				}
				if err != nil {
					return fmt.Errorf("list streams: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(streams) == 0 {
					fmt.Fprintln(out, "No streams configured. Add one with `aircheck streams add`.")
					return nil
				}

				rows := make([][]string, 0, len(streams))
				for _, s := range streams {
					rows = append(rows, []string{
						strconv.FormatInt(s.ID, 10),
						s.Name,
						s.SourceURL,
						yesNo(s.Active),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"ID", "NAME", "SOURCE", "ACTIVE"}, rows, 0))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "Show only active streams")
	return cmd
}

func newStreamsAddCommand(cmdCtx *commandContext) *cobra.Command {
	var titleCase bool

	cmd := &cobra.Command{
		Use:   "add <name> <url>",
		Short: "Add a stream to the directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if titleCase {
				name = cases.Title(language.Und).String(name)
			}
			return cmdCtx.withStore(func(ctx context.Context, store *catalog.Store) error {
				stream, err := store.AddStream(ctx, name, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added stream %d (%s)\n", stream.ID, stream.Name)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&titleCase, "title-case", false, "Normalize the stream name to title case")
	return cmd
}

func newStreamsEnableCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "enable <name>",
		Short: "Mark a stream active so the daemon records it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setStreamActive(cmdCtx, cmd, args[0], true)
		},
	}
}

func newStreamsDisableCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "disable <name>",
		Short: "Mark a stream inactive; its worker stops on the next poll",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setStreamActive(cmdCtx, cmd, args[0], false)
		},
	}
}

func setStreamActive(cmdCtx *commandContext, cmd *cobra.Command, name string, active bool) error {
	return cmdCtx.withStore(func(ctx context.Context, store *catalog.Store) error {
		stream, err := resolveStream(ctx, store, name)
		if err != nil {
			return err
		}
		changed, err := store.SetStreamActive(ctx, stream.ID, active)
		if err != nil {
			return fmt.Errorf("update stream: %w", err)
		}
		out := cmd.OutOrStdout()
		if !changed {
			fmt.Fprintf(out, "Stream %s already %s\n", stream.Name, activeWord(active))
			return nil
		}
		fmt.Fprintf(out, "Stream %s is now %s\n", stream.Name, activeWord(active))
		return nil
	})
}

func newStreamsRemoveCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a stream and its recording history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(func(ctx context.Context, store *catalog.Store) error {
				stream, err := resolveStream(ctx, store, args[0])
				if err != nil {
					return err
				}
				removed, err := store.RemoveStream(ctx, stream.ID)
				if err != nil {
					return fmt.Errorf("remove stream: %w", err)
				}
				if !removed {
					return fmt.Errorf("stream %q not found", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed stream %s\n", stream.Name)
				return nil
			})
		},
	}
}

// resolveStream accepts either a stream name or a numeric ID.
func resolveStream(ctx context.Context, store *catalog.Store, ref string) (*catalog.Stream, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		stream, err := store.GetStream(ctx, id)
		if err != nil {
			return nil, err
		}
		if stream != nil {
			return stream, nil
		}
	}
	stream, err := store.GetStreamByName(ctx, ref)
	if err != nil {
		return nil, err
	}
	if stream == nil {
		return nil, fmt.Errorf("stream %q not found", ref)
	}
	return stream, nil
}

func activeWord(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}
