package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"lectern/internal/preflight"
)

type daemonStatus struct {
	Running        bool   `json:"running"`
	PID            int    `json:"pid"`
	KeyConfigured  bool   `json:"keyConfigured"`
	WorksheetCount int    `json:"worksheetCount"`
	UptimeSeconds  int64  `json:"uptimeSeconds"`
	Address        string `json:"address"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and configuration health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			status, daemonErr := fetchDaemonStatus(cmd.Context(), ctx.apiAddress())
			checks := preflight.RunAll(cmd.Context(), cfg)

			if asJSON {
				return writeJSON(cmd, map[string]any{
					"daemon":    status,
					"reachable": daemonErr == nil,
					"checks":    checks,
				})
			}

			out := cmd.OutOrStdout()
			if daemonErr != nil {
				fmt.Fprintf(out, "Daemon: not reachable at %s (%v)\n", ctx.apiAddress(), daemonErr)
			} else {
				fmt.Fprintf(out, "Daemon: running (pid %d, up %s, %d worksheets, encrypted delivery %s)\n",
					status.PID,
					(time.Duration(status.UptimeSeconds) * time.Second).String(),
					status.WorksheetCount,
					yesNo(status.KeyConfigured))
			}

			rows := make([][]string, 0, len(checks))
			for _, check := range checks {
				state := "FAIL"
				if check.Passed {
					state = "ok"
				}
				rows = append(rows, []string{check.Name, state, check.Detail})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Check", "State", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func fetchDaemonStatus(ctx context.Context, address string) (*daemonStatus, error) {
	if address == "" {
		return nil, fmt.Errorf("no api address configured")
	}
	client := &http.Client{Timeout: 3 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+address+"/api/status", nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status endpoint returned %d", resp.StatusCode)
	}
	var status daemonStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}
