package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aegissim/internal/config"
	"aegissim/internal/model"
	"aegissim/internal/service/orchestrator"
	"aegissim/internal/store"
)

type rootOptions struct {
	simPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "roundctl",
		Short: "Offline tooling for AegisSim rounds",
		Long: `roundctl runs the round-resolution engine outside the HTTP service.

Commands:
- simulate: resolve one round from JSON decisions without touching a database
- replay:   recompute a stored round and compare it with the persisted results
- export:   write a stored round and the leaderboard to an xlsx workbook
- init:     write config.toml and a simulation config to start from`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.simPath, "sim", "", "simulation config (.toml/.yaml/.json), built-in preset when empty")

	cmd.AddCommand(
		newSimulateCmd(opts),
		newReplayCmd(opts),
		newExportCmd(opts),
		newInitCmd(opts),
	)
	return cmd
}

func (o *rootOptions) loadSimulation() (*model.SimulationConfig, error) {
	cfg, err := config.LoadSimulation(o.simPath)
	if err != nil {
		return nil, fmt.Errorf("load simulation config: %w", err)
	}
	return cfg, nil
}

// openOrchestrator 打开已有数据库，调用方负责关闭返回的 store
func (o *rootOptions) openOrchestrator(dbPath string) (*orchestrator.Orchestrator, *store.Store, error) {
	if dbPath == "" {
		return nil, nil, fmt.Errorf("--db is required")
	}
	// store.New 会创建不存在的文件，这里只打开已有数据库
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("database %s does not exist", dbPath)
		}
		return nil, nil, err
	}
	sim, err := o.loadSimulation()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.New(dbPath)
	if err != nil {
		return nil, nil, err
	}
	orch, err := orchestrator.New(st, sim)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return orch, st, nil
}
