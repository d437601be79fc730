package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aegissim/internal/config"
	"aegissim/internal/server"
	"aegissim/internal/util"
)

var (
	configPath = flag.String("config", "", "配置文件路径 (默认为可执行文件同目录的 config.toml)")
	port       = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode    = flag.Bool("dev", false, "开发模式")
	dataDir    = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
	simPath    = flag.String("sim", "", "模拟配置文件 (.toml/.yaml/.json，覆盖配置文件)")
	fill       = flag.Bool("fillMissing", false, "结算时默认用默认决策补齐未提交队伍")
	openStatus = flag.Bool("open", false, "启动后在浏览器中打开状态页")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  AegisSim - 回合制经营模拟结算服务")
	fmt.Println("==========================================")

	// 加载配置
	var (
		cfg  *config.AppConfig
		info config.LoadConfigInfo
		err  error
	)
	if *configPath != "" {
		cfg, info, err = config.LoadConfigFrom(*configPath)
	} else {
		cfg, info, err = config.LoadConfigWithInfo()
	}
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if *simPath != "" {
		cfg.Simulation.Path = *simPath
	}
	if *fill {
		cfg.Simulation.FillMissing = true
	}

	// 加载模拟配置
	sim, err := config.LoadSimulation(cfg.Simulation.Path)
	if err != nil {
		log.Fatalf("加载模拟配置失败: %v", err)
	}
	fmt.Printf("模拟: %s (%s)，%d 个轮次，%d 个细分市场\n", sim.Title, sim.SimulationID, len(sim.Rounds), len(sim.Segments))

	// 创建服务器
	srv, err := server.NewServer(cfg, sim)
	if err != nil {
		log.Fatalf("服务初始化失败: %v", err)
	}
	fmt.Printf("数据库: %s\n", config.DBPath(cfg))

	// 启动服务器
	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	statusURL := fmt.Sprintf("http://localhost:%d/api/status", cfg.Server.Port)
	fmt.Printf("API: %s\n", statusURL)
	if *openStatus && !cfg.Server.DevMode {
		if err := util.OpenURL(statusURL); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", statusURL)
		}
	}
	fmt.Println("\n按 Ctrl+C 停止服务...")

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
	if _, err := srv.SaveNow(); err != nil {
		log.Printf("退出前备份失败: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("关闭服务失败: %v", err)
	}
}
