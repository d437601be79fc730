package store

import (
	"fmt"

	"aegissim/internal/model"
)

// Leaderboard 累计排名：只统计正式轮且已计分的结果，练习轮不计入
func (s *Store) Leaderboard() ([]model.LeaderboardEntry, error) {
	rows, err := s.db.Query(`
		SELECT
			t.id,
			t.name,
			COUNT(r.round_id)              AS rounds_scored,
			COALESCE(SUM(r.round_score), 0) AS total_score,
			COALESCE(SUM(r.net_profit), 0)  AS total_profit
		FROM teams t
		LEFT JOIN round_results r
			ON r.team_id = t.id AND r.practice = 0 AND r.scored = 1
		GROUP BY t.id, t.name
		ORDER BY total_score DESC, total_profit DESC, t.name
	`)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard failed: %w", err)
	}
	defer rows.Close()

	var out []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.TeamID, &e.TeamName, &e.RoundsScored, &e.TotalScore, &e.TotalNetProfit); err != nil {
			return nil, fmt.Errorf("scan leaderboard failed: %w", err)
		}
		if e.RoundsScored > 0 {
			e.AverageScore = e.TotalScore / float64(e.RoundsScored)
		}
		e.Rank = len(out) + 1
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard failed: %w", err)
	}
	return out, nil
}
