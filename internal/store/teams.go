package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"aegissim/internal/model"
)

// CreateTeam 新增队伍
func (s *Store) CreateTeam(team model.Team) error {
	_, err := s.db.Exec(
		"INSERT INTO teams (id, name, created_at) VALUES (?, ?, ?)",
		team.ID, team.Name, team.CreatedAt.UTC(),
	)
	if err != nil {
		var sqlErr sqlite3.Error
		if errors.As(err, &sqlErr) && sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("team %s: %w", team.Name, ErrConflict)
		}
		return fmt.Errorf("insert team %s failed: %w", team.Name, err)
	}
	return nil
}

// GetTeam 获取单个队伍
func (s *Store) GetTeam(id string) (*model.Team, error) {
	var t model.Team
	err := s.db.QueryRow("SELECT id, name, created_at FROM teams WHERE id = ?", id).
		Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("team %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("query team failed: %w", err)
	}
	return &t, nil
}

// ListTeams 按创建时间列出全部队伍
func (s *Store) ListTeams() ([]model.Team, error) {
	rows, err := s.db.Query("SELECT id, name, created_at FROM teams ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("query teams failed: %w", err)
	}
	defer rows.Close()

	var out []model.Team
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan team failed: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teams failed: %w", err)
	}
	return out, nil
}
