package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"aegissim/internal/api"
	"aegissim/internal/config"
	"aegissim/internal/model"
	"aegissim/internal/service/orchestrator"
	"aegissim/internal/store"
)

// Server HTTP服务器
type Server struct {
	router  *gin.Engine
	store   *store.Store
	orch    *orchestrator.Orchestrator
	hub     *Hub
	api     *api.Handler
	dataDir string
	http    *http.Server
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig, sim *model.SimulationConfig) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("prepare data dir failed: %w", err)
	}

	sqliteStore, err := store.New(config.DBPath(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	orch, err := orchestrator.New(sqliteStore, sim)
	if err != nil {
		_ = sqliteStore.Close()
		return nil, err
	}

	hub := NewHub()
	orch.SetNotifier(hub)

	s := &Server{
		router:  gin.Default(),
		store:   sqliteStore,
		orch:    orch,
		hub:     hub,
		dataDir: dataDir,
		api: api.NewHandler(orch, api.Options{
			ExportDir:   filepath.Join(dataDir, "exports"),
			FillMissing: cfg.Simulation.FillMissing,
		}),
	}
	s.setupRoutes()
	s.http = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: s.router,
	}
	go hub.Run()

	return s, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		s.api.RegisterRoutes(api)
	}

	// 实时事件
	s.router.GET("/ws", func(c *gin.Context) {
		s.hub.ServeWS(c.Writer, c.Request)
	})

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// Handler 返回 HTTP 处理器（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr 监听地址
func (s *Server) Addr() string {
	return s.http.Addr
}

// Run 启动服务器，Shutdown 后返回 nil
func (s *Server) Run() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 停止接收请求、断开 websocket 并关闭数据库
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	s.hub.Stop()
	if err := s.store.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SaveNow 将数据库快照写入 backups 目录
func (s *Server) SaveNow() (string, error) {
	path := filepath.Join(s.dataDir, "backups", fmt.Sprintf("aegissim-%s.db", time.Now().Format("20060102-150405")))
	if err := s.store.Backup(path); err != nil {
		return "", err
	}
	log.Printf("database snapshot saved: %s", path)
	return path, nil
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.Store {
	return s.store
}

// Orchestrator 获取编排器
func (s *Server) Orchestrator() *orchestrator.Orchestrator {
	return s.orch
}
