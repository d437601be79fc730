package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newReplayCmd(root *rootOptions) *cobra.Command {
	var (
		dbPath  string
		roundID int
	)
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Recompute a stored round and compare with persisted results",
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, st, err := root.openOrchestrator(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			report, err := orch.Replay(roundID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if report.Match {
				fmt.Fprintf(out, "round %d: %d teams, results match\n", report.RoundID, report.Teams)
				return nil
			}
			fmt.Fprintf(out, "round %d: %d teams, mismatches: %s\n",
				report.RoundID, report.Teams, strings.Join(report.Mismatches, ", "))
			return fmt.Errorf("replay of round %d does not match stored results", roundID)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path")
	cmd.Flags().IntVar(&roundID, "round", 0, "round ID")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("round")
	return cmd
}
