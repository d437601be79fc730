package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"aegissim/internal/model"
	"aegissim/internal/service/engine"
)

type simulateOptions struct {
	decisionsPath string
	statesPath    string
	roundID       int
	outPath       string
}

func newSimulateCmd(root *rootOptions) *cobra.Command {
	opts := &simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Resolve one round from JSON decisions",
		Long: `Resolve a single round with the stateless engine.

--decisions is a JSON object keyed by team ID holding each team's decision.
--states optionally holds each team's state from the previous round; teams
without one start from the first-round defaults. The outcome (results and
next-round states) is printed as JSON, or written to --out.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.decisionsPath, "decisions", "", "team decisions JSON file")
	cmd.Flags().StringVar(&opts.statesPath, "states", "", "prior team states JSON file")
	cmd.Flags().IntVar(&opts.roundID, "round", 0, "round ID from the simulation config")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "write outcome JSON to this file instead of stdout")
	_ = cmd.MarkFlagRequired("decisions")
	_ = cmd.MarkFlagRequired("round")
	return cmd
}

func runSimulate(cmd *cobra.Command, root *rootOptions, opts *simulateOptions) error {
	sim, err := root.loadSimulation()
	if err != nil {
		return err
	}
	round, ok := sim.Round(opts.roundID)
	if !ok {
		return fmt.Errorf("round %d is not configured", opts.roundID)
	}

	var decisions map[string]model.TeamDecision
	if err := readJSON(opts.decisionsPath, &decisions); err != nil {
		return fmt.Errorf("read decisions: %w", err)
	}
	if len(decisions) == 0 {
		return fmt.Errorf("no decisions in %s", opts.decisionsPath)
	}
	ids := make([]string, 0, len(decisions))
	for id := range decisions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := decisions[id].Validate(sim); err != nil {
			return fmt.Errorf("team %s: %w", id, err)
		}
	}

	var states map[string]model.TeamState
	if opts.statesPath != "" {
		if err := readJSON(opts.statesPath, &states); err != nil {
			return fmt.Errorf("read states: %w", err)
		}
	}

	outcome := engine.NewEngine(sim).Resolve(round.Info(), decisions, states)

	if opts.outPath != "" {
		if err := writeJSONAtomic(opts.outPath, outcome); err != nil {
			return fmt.Errorf("write outcome: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "round %d resolved for %d teams: %s\n", round.ID, len(ids), opts.outPath)
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(outcome)
}
