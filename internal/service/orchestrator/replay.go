package orchestrator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"aegissim/internal/model"
	"aegissim/internal/store"
)

// ReplayReport 审计重放结果
type ReplayReport struct {
	RoundID    int      `json:"roundId"`
	Teams      int      `json:"teams"`
	Match      bool     `json:"match"`
	Mismatches []string `json:"mismatches"` // 结果或状态不一致的队伍
}

// Replay 用保存的实际决策与结算前状态重新计算一轮，逐队比较结果与输出状态是否完全一致
func (o *Orchestrator) Replay(roundID int) (*ReplayReport, error) {
	if _, ok := o.cfg.Round(roundID); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRound, roundID)
	}
	stored, err := o.store.GetRound(roundID)
	if err != nil {
		return nil, err
	}
	decisions, err := o.store.GetEffectiveDecisions(roundID)
	if err != nil {
		return nil, err
	}
	prior, err := o.store.GetRoundStates(roundID, store.PhasePrior)
	if err != nil {
		return nil, err
	}
	results, err := o.store.GetRoundResults(roundID)
	if err != nil {
		return nil, err
	}
	next, err := o.store.GetRoundStates(roundID, store.PhaseNext)
	if err != nil {
		return nil, err
	}

	outcome := o.engine.Resolve(model.RoundInfo{ID: roundID, Kind: stored.Kind}, decisions, prior)

	report := &ReplayReport{RoundID: roundID, Teams: len(decisions), Mismatches: []string{}}
	seen := make(map[string]bool)
	for id := range results {
		seen[id] = true
	}
	for id := range outcome.Results {
		seen[id] = true
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if !sameJSON(results[id], outcome.Results[id]) || !sameState(next, outcome.States, id) {
			report.Mismatches = append(report.Mismatches, id)
		}
	}
	report.Match = len(report.Mismatches) == 0
	return report, nil
}

func sameState(a, b map[string]model.TeamState, id string) bool {
	sa, okA := a[id]
	sb, okB := b[id]
	return okA == okB && sa == sb
}

// sameJSON 以 JSON 编码比较，浮点数按最短可还原形式输出，相等即逐位一致
func sameJSON(a, b interface{}) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}
