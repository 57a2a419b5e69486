package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lectern/internal/logging"
	"lectern/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var limit int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show daemon log output",
		Long: "Fetches log lines from a running lecternd, falling back to the log file " +
			"on disk when the daemon is unreachable.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := logs.NewClient(ctx.apiAddress())
			if err != nil {
				return fmt.Errorf("resolve daemon address: %w", err)
			}

			fetch := func(offset int64, wait time.Duration) (logs.Result, error) {
				result, err := client.Fetch(cmd.Context(), logs.Query{
					Offset: offset,
					Limit:  limit,
					Follow: wait > 0,
				})
				if err == nil || !logs.IsAPIUnavailable(err) {
					return result, err
				}
				cfg, cfgErr := ctx.ensureConfig()
				if cfgErr != nil {
					return logs.Result{}, cfgErr
				}
				path := logging.FilePath(cfg)
				if path == "" {
					return logs.Result{}, errors.New("daemon unreachable and no log directory configured")
				}
				return logs.Tail(cmd.Context(), path, logs.Options{
					Offset: offset,
					Limit:  limit,
					Follow: wait > 0,
					Wait:   wait,
				})
			}

			result, err := fetch(-1, 0)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, line := range result.Lines {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}

			offset := result.Offset
			for {
				page, err := fetch(offset, 10*time.Second)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return err
				}
				for _, line := range page.Lines {
					fmt.Fprintln(out, line)
				}
				offset = page.Offset
				select {
				case <-cmd.Context().Done():
					return nil
				default:
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep streaming new log lines")
	cmd.Flags().IntVar(&limit, "limit", 50, "Number of trailing lines to show first")
	return cmd
}
