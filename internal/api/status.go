package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	SimulationID   string `json:"simulationId"`
	Title          string `json:"title"`
	CurrentRound   int    `json:"currentRound"`   // 0 表示全部轮次已结算
	TotalRounds    int    `json:"totalRounds"`    // 配置中的轮次数
	ResolvedRounds int    `json:"resolvedRounds"` // 已结算轮次数
	Teams          int    `json:"teams"`          // 已注册队伍数
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	cfg := h.orch.Config()
	current, err := h.orch.CurrentRound()
	if err != nil {
		writeError(c, err)
		return
	}
	teams, err := h.orch.ListTeams()
	if err != nil {
		writeError(c, err)
		return
	}
	rounds, err := h.orch.Rounds()
	if err != nil {
		writeError(c, err)
		return
	}

	resolved := 0
	for _, r := range rounds {
		if r.Resolved {
			resolved++
		}
	}

	c.JSON(http.StatusOK, StatusResponse{
		SimulationID:   cfg.SimulationID,
		Title:          cfg.Title,
		CurrentRound:   current,
		TotalRounds:    len(cfg.Rounds),
		ResolvedRounds: resolved,
		Teams:          len(teams),
	})
}

// GetSimulation 获取模拟配置
// GET /api/simulation
func (h *Handler) GetSimulation(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.Config())
}
