package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aegissim/internal/service/excel"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	var (
		dbPath  string
		roundID int
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a stored round and the leaderboard to xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, st, err := root.openOrchestrator(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			res, err := orch.Results(roundID)
			if err != nil {
				return err
			}
			board, err := orch.Leaderboard()
			if err != nil {
				return err
			}
			f, err := excel.ExportRound(orch.Config(), res.Round, res.Results, board)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := f.SaveAs(outPath); err != nil {
				return fmt.Errorf("save %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "round %d exported to %s\n", roundID, outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path")
	cmd.Flags().IntVar(&roundID, "round", 0, "round ID")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output xlsx path")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("round")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
