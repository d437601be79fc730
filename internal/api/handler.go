package api

import (
	"github.com/gin-gonic/gin"

	"aegissim/internal/service/orchestrator"
)

// Options 处理器选项
type Options struct {
	ExportDir   string // 导出文件目录，为空时使用系统临时目录
	FillMissing bool   // 结算请求未指定 fillMissing 时的默认值
}

// Handler HTTP API 处理器
type Handler struct {
	orch      *orchestrator.Orchestrator
	opts      Options
	downloads *exportDownloadStore
}

// NewHandler 创建 API 处理器
func NewHandler(orch *orchestrator.Orchestrator, opts Options) *Handler {
	return &Handler{
		orch:      orch,
		opts:      opts,
		downloads: newExportDownloadStore(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态与模拟配置
	router.GET("/status", h.GetStatus)
	router.GET("/simulation", h.GetSimulation)

	// 队伍
	router.GET("/teams", h.ListTeams)
	router.POST("/teams", h.CreateTeam)

	// 轮次
	router.GET("/rounds", h.ListRounds)
	router.GET("/rounds/:round/pending", h.GetPending)
	router.PUT("/rounds/:round/decisions/:team", h.SubmitDecision)
	router.POST("/rounds/:round/resolve", h.ResolveRound)
	router.GET("/rounds/:round/results", h.GetResults)
	router.GET("/rounds/:round/replay", h.ReplayRound)

	// 累计排名
	router.GET("/leaderboard", h.GetLeaderboard)

	// 无状态结算
	router.POST("/simulate", h.Simulate)

	// Excel 导入导出
	router.GET("/rounds/:round/decisions/template", h.DecisionTemplate)
	router.POST("/rounds/:round/decisions/import", h.ImportDecisions)
	router.POST("/rounds/:round/export", h.ExportRound)
	router.GET("/export/download/:token", h.DownloadExport)
}
