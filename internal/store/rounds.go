package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"aegissim/internal/model"
)

// 状态阶段
const (
	PhasePrior = "prior" // 结算输入
	PhaseNext  = "next"  // 结算输出
)

// RoundOutcome 一轮结算需要原子写入的全部数据
type RoundOutcome struct {
	Round       model.ResolvedRound
	Decisions   map[string]model.TeamDecision // 实际使用的决策
	Substituted map[string]bool               // 使用默认决策的队伍
	Prior       map[string]model.TeamState
	Results     map[string]*model.RoundResult
	Next        map[string]model.TeamState
	NextRound   int // 结算后开放提交的轮次，0 表示全部结束
}

// SaveRoundOutcome 在单个事务中写入轮次记录、实际决策、前后状态、结果与 current_round
func (s *Store) SaveRoundOutcome(o RoundOutcome) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO rounds (round_id, kind, team_count, filled, resolved_at) VALUES (?, ?, ?, ?, ?)",
		o.Round.RoundID, string(o.Round.Kind), o.Round.TeamCount, o.Round.Filled, o.Round.ResolvedAt.UTC(),
	); err != nil {
		return fmt.Errorf("failed to insert round: %w", err)
	}

	decStmt, err := tx.Prepare(
		"INSERT INTO effective_decisions (round_id, team_id, payload, substituted) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer decStmt.Close()

	for teamID, d := range o.Decisions {
		payload, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("marshal decision failed: %w", err)
		}
		if _, err := decStmt.Exec(o.Round.RoundID, teamID, string(payload), boolToInt(o.Substituted[teamID])); err != nil {
			return fmt.Errorf("failed to insert effective decision: %w", err)
		}
	}

	stateStmt, err := tx.Prepare(`
		INSERT INTO team_states (round_id, team_id, phase, prod, quality, cash, debt, prev_headcount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stateStmt.Close()

	for phase, states := range map[string]map[string]model.TeamState{PhasePrior: o.Prior, PhaseNext: o.Next} {
		for teamID, st := range states {
			if _, err := stateStmt.Exec(
				o.Round.RoundID, teamID, phase, st.Prod, st.Q, st.Cash, st.Debt, st.PrevHeadcount,
			); err != nil {
				return fmt.Errorf("failed to insert team state: %w", err)
			}
		}
	}

	resultStmt, err := tx.Prepare(`
		INSERT INTO round_results (
			round_id, team_id, practice, scored,
			revenue, net_profit, csat, esat, roce, round_score, payload
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer resultStmt.Close()

	for teamID, r := range o.Results {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal result failed: %w", err)
		}
		m := r.Metrics
		if _, err := resultStmt.Exec(
			o.Round.RoundID, teamID, boolToInt(r.Practice), boolToInt(r.Scored),
			m.Revenue, m.NetProfit, m.CSAT, m.ESAT, m.ROCE, r.RoundScore, string(payload),
		); err != nil {
			return fmt.Errorf("failed to insert result: %w", err)
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO config (key, value) VALUES ('current_round', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, o.NextRound); err != nil {
		return fmt.Errorf("failed to advance current round: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetRound 获取已结算轮次记录
func (s *Store) GetRound(roundID int) (*model.ResolvedRound, error) {
	var r model.ResolvedRound
	var kind string
	err := s.db.QueryRow(
		"SELECT round_id, kind, team_count, filled, resolved_at FROM rounds WHERE round_id = ?", roundID,
	).Scan(&r.RoundID, &kind, &r.TeamCount, &r.Filled, &r.ResolvedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("round %d: %w", roundID, ErrNotFound)
		}
		return nil, fmt.Errorf("query round failed: %w", err)
	}
	r.Kind = model.RoundKind(kind)
	return &r, nil
}

// ListRounds 列出全部已结算轮次（按轮次升序）
func (s *Store) ListRounds() ([]model.ResolvedRound, error) {
	rows, err := s.db.Query("SELECT round_id, kind, team_count, filled, resolved_at FROM rounds ORDER BY round_id")
	if err != nil {
		return nil, fmt.Errorf("query rounds failed: %w", err)
	}
	defer rows.Close()

	var out []model.ResolvedRound
	for rows.Next() {
		var r model.ResolvedRound
		var kind string
		if err := rows.Scan(&r.RoundID, &kind, &r.TeamCount, &r.Filled, &r.ResolvedAt); err != nil {
			return nil, fmt.Errorf("scan round failed: %w", err)
		}
		r.Kind = model.RoundKind(kind)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rounds failed: %w", err)
	}
	return out, nil
}

// GetRoundResults 获取某轮全部队伍结果
func (s *Store) GetRoundResults(roundID int) (map[string]*model.RoundResult, error) {
	rows, err := s.db.Query("SELECT team_id, payload FROM round_results WHERE round_id = ?", roundID)
	if err != nil {
		return nil, fmt.Errorf("query results failed: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*model.RoundResult)
	for rows.Next() {
		var teamID, payload string
		if err := rows.Scan(&teamID, &payload); err != nil {
			return nil, fmt.Errorf("scan result failed: %w", err)
		}
		var r model.RoundResult
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("decode result of team %s failed: %w", teamID, err)
		}
		out[teamID] = &r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results failed: %w", err)
	}
	return out, nil
}

// GetRoundStates 获取某轮指定阶段的队伍状态
func (s *Store) GetRoundStates(roundID int, phase string) (map[string]model.TeamState, error) {
	return s.queryStates(`
		SELECT team_id, prod, quality, cash, debt, prev_headcount
		FROM team_states WHERE round_id = ? AND phase = ?
	`, roundID, phase)
}

// LatestStates 获取每支队伍在 roundIDs 中最后一个有输出的轮次的状态。
// roundIDs 按结算顺序排列，与轮次编号大小无关。
func (s *Store) LatestStates(roundIDs []int) (map[string]model.TeamState, error) {
	out := make(map[string]model.TeamState)
	if len(roundIDs) == 0 {
		return out, nil
	}

	position := make(map[int]int, len(roundIDs))
	args := make([]interface{}, 0, len(roundIDs))
	for i, id := range roundIDs {
		position[id] = i
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(roundIDs)), ",")

	rows, err := s.db.Query(`
		SELECT round_id, team_id, prod, quality, cash, debt, prev_headcount
		FROM team_states
		WHERE phase = 'next' AND round_id IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query team states failed: %w", err)
	}
	defer rows.Close()

	best := make(map[string]int)
	for rows.Next() {
		var roundID int
		var teamID string
		var st model.TeamState
		if err := rows.Scan(&roundID, &teamID, &st.Prod, &st.Q, &st.Cash, &st.Debt, &st.PrevHeadcount); err != nil {
			return nil, fmt.Errorf("scan team state failed: %w", err)
		}
		if pos, ok := best[teamID]; ok && pos > position[roundID] {
			continue
		}
		best[teamID] = position[roundID]
		out[teamID] = st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team states failed: %w", err)
	}
	return out, nil
}

func (s *Store) queryStates(query string, args ...interface{}) (map[string]model.TeamState, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query team states failed: %w", err)
	}
	defer rows.Close()

	out := make(map[string]model.TeamState)
	for rows.Next() {
		var teamID string
		var st model.TeamState
		if err := rows.Scan(&teamID, &st.Prod, &st.Q, &st.Cash, &st.Debt, &st.PrevHeadcount); err != nil {
			return nil, fmt.Errorf("scan team state failed: %w", err)
		}
		out[teamID] = st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team states failed: %w", err)
	}
	return out, nil
}
