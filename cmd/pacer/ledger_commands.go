package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pacer/internal/clockfmt"
	"pacer/internal/daemonrun"
	"pacer/internal/ledger"
)

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect and seed the hours ledger",
	}

	ledgerCmd.AddCommand(newLedgerShowCommand(ctx))
	ledgerCmd.AddCommand(newLedgerInitCommand(ctx))
	return ledgerCmd
}

func newLedgerShowCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show recent ledger rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			service, closer, err := daemonrun.OpenLedger(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closer()

			rows, err := service.Read(cmd.Context())
			if err != nil {
				return fmt.Errorf("read ledger: %w", err)
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Ledger is empty (seed it with `pacer ledger init`)")
				return nil
			}

			if limit > 0 && len(rows) > limit {
				rows = rows[len(rows)-limit:]
			}

			display := make([][]string, 0, len(rows))
			for _, row := range rows {
				display = append(display, []string{
					row.Date,
					clockfmt.Format(row.Tracked),
					fmt.Sprintf("%.2f", row.Weekly),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Date", "Tracked", "Weekly Hours"},
				display,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 14, "Show at most this many trailing rows (0 for all)")
	return cmd
}

func newLedgerInitCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Seed an empty ledger with an anchor row",
		Long: "Seed an empty ledger with a zero-hours anchor row. The daemon refuses\n" +
			"to run against an empty ledger because the weekly cumulative chain needs\n" +
			"a starting point.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			date := strings.TrimSpace(dateFlag)
			if date == "" {
				date = ledger.FormatDate(time.Now().AddDate(0, 0, -1))
			} else if _, err := ledger.ParseDate(date); err != nil {
				return err
			}

			service, closer, err := daemonrun.OpenLedger(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closer()

			rows, err := service.Read(cmd.Context())
			if err != nil {
				return fmt.Errorf("read ledger: %w", err)
			}
			if len(rows) > 0 {
				return fmt.Errorf("ledger already has %d row(s); init only seeds an empty ledger", len(rows))
			}

			if err := service.Append(cmd.Context(), ledger.Row{Date: date}); err != nil {
				return fmt.Errorf("seed anchor row: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded ledger with anchor row for %s\n", date)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Anchor row date in YYYY/MM/DD form (defaults to yesterday)")
	return cmd
}
