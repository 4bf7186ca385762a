package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pacer/internal/daemonctl"
	"pacer/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and pacing status",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			status, err := daemonctl.Status(ctx.socketPath())
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(stdout, "Daemon is not running (start it with `pacer daemon start`)")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(stdout, renderTable(
				[]string{"Field", "Value"},
				statusRows(status),
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}

func statusRows(status *ipc.StatusResponse) [][]string {
	rows := [][]string{
		{"Running", yesNo(status.Running)},
		{"PID", fmt.Sprintf("%d", status.PID)},
		{"Session", status.SessionID},
		{"Started", formatTime(status.StartedAt)},
		{"Ledger backend", status.LedgerBackend},
		{"Last tick", formatTime(status.LastTick)},
		{"Tracking", yesNo(status.Tracking)},
		{"Tracked today", status.TrackedToday},
		{"Pending", fmt.Sprintf("%.0fs", status.PendingSeconds)},
		{"Weekly hours", fmt.Sprintf("%.2f", status.WeeklyHours)},
	}
	if status.LastDecision != "" {
		rows = append(rows, []string{"Last decision", status.LastDecision})
	}
	return rows
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
