package api

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"aegissim/internal/model"
	"aegissim/internal/service/excel"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	downloadTTL     = 10 * time.Minute
)

// ExportRound 导出某轮结果，返回一次性下载地址
// POST /api/rounds/:round/export
func (h *Handler) ExportRound(c *gin.Context) {
	roundID, ok := roundParam(c)
	if !ok {
		return
	}
	res, err := h.orch.Results(roundID)
	if err != nil {
		writeError(c, err)
		return
	}
	board, err := h.orch.Leaderboard()
	if err != nil {
		writeError(c, err)
		return
	}

	file, err := excel.ExportRound(h.orch.Config(), res.Round, res.Results, board)
	if err != nil {
		writeError(c, err)
		return
	}
	defer file.Close()

	dir := h.opts.ExportDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		writeError(c, fmt.Errorf("create export dir failed: %w", err))
		return
	}
	tempPath := filepath.Join(dir, fmt.Sprintf("aegissim_round%d_%d_%d.xlsx", roundID, time.Now().UnixNano(), os.Getpid()))
	if err := file.SaveAs(tempPath); err != nil {
		_ = os.Remove(tempPath)
		writeError(c, fmt.Errorf("write export file failed: %w", err))
		return
	}

	fileName := fmt.Sprintf("%s-round-%d.xlsx", h.orch.Config().SimulationID, roundID)
	token := h.downloads.put(tempPath, fileName, downloadTTL)
	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"downloadUrl": "/api/export/download/" + token,
		"expiresIn":   int(downloadTTL.Seconds()),
	})
}

// DownloadExport 下载导出的 Excel 文件（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	item, ok := h.downloads.take(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}
	defer removeFiles([]string{item.filePath})

	if _, err := os.Stat(item.filePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件不存在"})
		return
	}

	c.Header("Content-Disposition", contentDisposition(item.fileName))
	c.Header("Content-Type", xlsxContentType)
	c.File(item.filePath)
}

// DecisionTemplate 下载决策导入模板
// GET /api/rounds/:round/decisions/template
func (h *Handler) DecisionTemplate(c *gin.Context) {
	roundID, ok := roundParam(c)
	if !ok {
		return
	}
	teams, err := h.orch.ListTeams()
	if err != nil {
		writeError(c, err)
		return
	}
	file, err := excel.DecisionTemplate(h.orch.Config(), teams)
	if err != nil {
		writeError(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", contentDisposition(fmt.Sprintf("decisions-round-%d.xlsx", roundID)))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := file.Write(c.Writer); err != nil {
		c.Error(err)
	}
}

// ImportDecisions 从上传的 Excel 批量提交决策，任一行无效则全部不提交
// POST /api/rounds/:round/decisions/import
func (h *Handler) ImportDecisions(c *gin.Context) {
	roundID, ok := roundParam(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}
	src, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取上传文件失败"})
		return
	}
	defer src.Close()

	cfg := h.orch.Config()
	parsed, err := excel.ParseDecisions(src, cfg)
	if err != nil {
		writeError(c, err)
		return
	}

	teams, err := h.orch.ListTeams()
	if err != nil {
		writeError(c, err)
		return
	}
	byKey := make(map[string]string, len(teams)*2)
	for _, t := range teams {
		byKey[t.Name] = t.ID
	}
	for _, t := range teams {
		byKey[t.ID] = t.ID
	}

	keys := make([]string, 0, len(parsed))
	for key := range parsed {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	decisions := make(map[string]model.TeamDecision, len(parsed))
	rowKey := make(map[string]string, len(parsed))
	for _, key := range keys {
		d := parsed[key]
		id, ok := byKey[key]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("未知队伍: %s", key)})
			return
		}
		if prev, dup := rowKey[id]; dup {
			// 名称行与 ID 行指向同一支队伍
			writeError(c, fmt.Errorf("%w: rows %q and %q both refer to team %s", excel.ErrDuplicateTeam, prev, key, id))
			return
		}
		rowKey[id] = key
		if err := d.Validate(cfg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("team %s: %v", key, err)})
			return
		}
		decisions[id] = d
	}

	ids := make([]string, 0, len(decisions))
	for id := range decisions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := h.orch.SubmitDecision(roundID, id, decisions[id]); err != nil {
			writeError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"roundId": roundID, "imported": ids})
}

func contentDisposition(fileName string) string {
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", fileName, url.PathEscape(fileName))
}

func removeFiles(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
