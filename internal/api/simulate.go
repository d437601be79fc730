package api

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"aegissim/internal/model"
)

// SimulateRequest 无状态结算请求
type SimulateRequest struct {
	Round     model.RoundInfo               `json:"round"`
	Decisions map[string]model.TeamDecision `json:"decisions"`
	States    map[string]model.TeamState    `json:"states"` // 缺失的队伍使用首轮默认状态
}

// Simulate 不落库地调用结算引擎
// POST /api/simulate
func (h *Handler) Simulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数: " + err.Error()})
		return
	}
	if !req.Round.Kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("无效的轮次类型: %q", req.Round.Kind)})
		return
	}
	if len(req.Decisions) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "决策不能为空"})
		return
	}

	cfg := h.orch.Config()
	ids := make([]string, 0, len(req.Decisions))
	for id := range req.Decisions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := req.Decisions[id].Validate(cfg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("team %s: %v", id, err)})
			return
		}
	}

	c.JSON(http.StatusOK, h.orch.Engine().Resolve(req.Round, req.Decisions, req.States))
}
