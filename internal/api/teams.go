package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aegissim/internal/model"
)

// CreateTeamRequest 注册队伍请求
type CreateTeamRequest struct {
	Name string `json:"name"`
}

// ListTeams 列出队伍
// GET /api/teams
func (h *Handler) ListTeams(c *gin.Context) {
	teams, err := h.orch.ListTeams()
	if err != nil {
		writeError(c, err)
		return
	}
	if teams == nil {
		teams = []model.Team{}
	}
	c.JSON(http.StatusOK, gin.H{"items": teams})
}

// CreateTeam 注册队伍
// POST /api/teams
func (h *Handler) CreateTeam(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}
	team, err := h.orch.CreateTeam(req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, team)
}
