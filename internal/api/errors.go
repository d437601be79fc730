package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"aegissim/internal/model"
	"aegissim/internal/service/excel"
	"aegissim/internal/service/orchestrator"
	"aegissim/internal/store"
)

// statusFor 将领域错误映射为 HTTP 状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, orchestrator.ErrUnknownRound),
		errors.Is(err, orchestrator.ErrUnknownTeam),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, orchestrator.ErrRoundResolved),
		errors.Is(err, orchestrator.ErrMissingDecisions),
		errors.Is(err, orchestrator.ErrNoTeams),
		errors.Is(err, orchestrator.ErrRoundOrder),
		errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalidDecision),
		errors.Is(err, model.ErrInvalidConfig),
		errors.Is(err, orchestrator.ErrInvalidTeamName),
		errors.Is(err, excel.ErrEmptySheet),
		errors.Is(err, excel.ErrMissingTeamCol),
		errors.Is(err, excel.ErrUnknownColumn),
		errors.Is(err, excel.ErrDuplicateTeam),
		errors.Is(err, excel.ErrInvalidCellData):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// roundParam 解析路径中的轮次编号
func roundParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("round"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的轮次编号"})
		return 0, false
	}
	return id, true
}
