package store

import (
	"encoding/json"
	"fmt"
	"time"

	"aegissim/internal/model"
)

// SaveDecision 保存（或覆盖）队伍在某轮的决策
func (s *Store) SaveDecision(roundID int, teamID string, d model.TeamDecision, submittedAt time.Time) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal decision failed: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO decisions (round_id, team_id, payload, submitted_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(round_id, team_id) DO UPDATE SET payload = excluded.payload, submitted_at = excluded.submitted_at
	`, roundID, teamID, string(payload), submittedAt.UTC())
	if err != nil {
		return fmt.Errorf("save decision failed: %w", err)
	}
	return nil
}

// GetDecisions 获取某轮已提交的全部决策
func (s *Store) GetDecisions(roundID int) (map[string]model.TeamDecision, error) {
	return s.queryDecisions("SELECT team_id, payload FROM decisions WHERE round_id = ?", roundID)
}

// GetEffectiveDecisions 获取某轮结算实际使用的决策
func (s *Store) GetEffectiveDecisions(roundID int) (map[string]model.TeamDecision, error) {
	return s.queryDecisions("SELECT team_id, payload FROM effective_decisions WHERE round_id = ?", roundID)
}

// GetSubstitutedTeams 获取某轮使用默认决策补齐的队伍
func (s *Store) GetSubstitutedTeams(roundID int) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT team_id FROM effective_decisions WHERE round_id = ? AND substituted = 1 ORDER BY team_id",
		roundID,
	)
	if err != nil {
		return nil, fmt.Errorf("query substituted teams failed: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan substituted team failed: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *Store) queryDecisions(query string, roundID int) (map[string]model.TeamDecision, error) {
	rows, err := s.db.Query(query, roundID)
	if err != nil {
		return nil, fmt.Errorf("query decisions failed: %w", err)
	}
	defer rows.Close()

	out := make(map[string]model.TeamDecision)
	for rows.Next() {
		var teamID, payload string
		if err := rows.Scan(&teamID, &payload); err != nil {
			return nil, fmt.Errorf("scan decision failed: %w", err)
		}
		var d model.TeamDecision
		if err := json.Unmarshal([]byte(payload), &d); err != nil {
			return nil, fmt.Errorf("decode decision of team %s failed: %w", teamID, err)
		}
		out[teamID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions failed: %w", err)
	}
	return out, nil
}
