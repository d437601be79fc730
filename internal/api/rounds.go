package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"aegissim/internal/model"
	"aegissim/internal/service/orchestrator"
)

// ListRounds 列出轮次及结算状态
// GET /api/rounds
func (h *Handler) ListRounds(c *gin.Context) {
	rounds, err := h.orch.Rounds()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rounds})
}

// GetPending 查询某轮提交进度
// GET /api/rounds/:round/pending
func (h *Handler) GetPending(c *gin.Context) {
	roundID, ok := roundParam(c)
	if !ok {
		return
	}
	status, err := h.orch.Pending(roundID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// SubmitDecision 提交（覆盖）队伍决策
// PUT /api/rounds/:round/decisions/:team
func (h *Handler) SubmitDecision(c *gin.Context) {
	roundID, ok := roundParam(c)
	if !ok {
		return
	}
	var d model.TeamDecision
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的决策数据: " + err.Error()})
		return
	}
	teamID := c.Param("team")
	if err := h.orch.SubmitDecision(roundID, teamID, d); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roundId": roundID, "teamId": teamID, "accepted": true})
}

// ResolveRound 结算一轮
// POST /api/rounds/:round/resolve
func (h *Handler) ResolveRound(c *gin.Context) {
	roundID, ok := roundParam(c)
	if !ok {
		return
	}
	opts := orchestrator.ResolveOptions{FillMissing: h.opts.FillMissing}
	if err := c.ShouldBindJSON(&opts); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}
	res, err := h.orch.ResolveRound(roundID, opts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetResults 查询已结算轮次结果
// GET /api/rounds/:round/results
func (h *Handler) GetResults(c *gin.Context) {
	roundID, ok := roundParam(c)
	if !ok {
		return
	}
	res, err := h.orch.Results(roundID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ReplayRound 审计重放
// GET /api/rounds/:round/replay
func (h *Handler) ReplayRound(c *gin.Context) {
	roundID, ok := roundParam(c)
	if !ok {
		return
	}
	report, err := h.orch.Replay(roundID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetLeaderboard 累计排名
// GET /api/leaderboard
func (h *Handler) GetLeaderboard(c *gin.Context) {
	board, err := h.orch.Leaderboard()
	if err != nil {
		writeError(c, err)
		return
	}
	if board == nil {
		board = []model.LeaderboardEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"items": board})
}
