package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/wfunc/casino-server/internal/api"
	"github.com/wfunc/casino-server/internal/config"
	"github.com/wfunc/casino-server/internal/database"
	"github.com/wfunc/casino-server/internal/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 版本信息
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "配置文件路径")
		showVersion = flag.Bool("version", false, "显示版本信息")
		showHelp    = flag.Bool("help", false, "显示帮助信息")
	)

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	// 加载配置
	if err := config.Init(*configPath); err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Get()

	// 初始化日志系统
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	printStartInfo(cfg)

	log := logger.GetLogger()

	// 初始化数据库，失败时退化为无历史记录模式
	var db *gorm.DB
	if err := database.Init(&cfg.Database); err != nil {
		log.Warn("数据库初始化失败，历史记录功能关闭", zap.Error(err))
	} else {
		db = database.GetDB()
		if cfg.Database.AutoMigrate {
			if err := database.AutoMigrate(); err != nil {
				log.Warn("数据库迁移失败", zap.Error(err))
			}
		}
	}

	// 装配路由
	router := api.NewRouter(cfg, db, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("HTTP服务启动",
			zap.String("address", addr),
			zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP服务异常退出", zap.Error(err))
		}
	}()

	// 监听配置变化
	config.Watch(func(newCfg *config.Config) {
		log.Info("配置已重新加载")
	})

	// 等待退出信号
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	sig := <-sigCh
	log.Info("收到退出信号", zap.String("signal", sig.String()))

	// 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP服务关闭失败", zap.Error(err))
	}

	if err := database.Close(); err != nil {
		log.Error("关闭数据库失败", zap.Error(err))
	}

	log.Info("服务器已安全关闭")
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("本地赌场游戏模拟服务器\n")
	fmt.Printf("版本: %s\n", Version)
	fmt.Printf("构建时间: %s\n", BuildTime)
	fmt.Printf("Git提交: %s\n", GitCommit)
	fmt.Printf("Go版本: %s\n", runtime.Version())
	fmt.Printf("操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("本地赌场游戏模拟服务器")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  casino-server [选项]")
	fmt.Println()
	fmt.Println("选项:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("环境变量:")
	fmt.Println("  CASINO_SERVER_SERVER_PORT      监听端口")
	fmt.Println("  CASINO_SERVER_WALLET_INITIAL_BALANCE  初始余额")
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  casino-server -config=/path/to/config.yaml")
	fmt.Println("  casino-server -version")
}

// printStartInfo 打印启动信息
func printStartInfo(cfg *config.Config) {
	banner := `
╔═══════════════════════════════════════════════════════╗
║                                                       ║
║    ____          _                                    ║
║   / ___|__ _ ___(_)_ __   ___                         ║
║  | |   / _` + "`" + ` / __| | '_ \ / _ \                        ║
║  | |__| (_| \__ \ | | | | (_) |                       ║
║   \____\__,_|___/_|_| |_|\___/                        ║
║                                                       ║
║              本地赌场游戏模拟服务器                   ║
║                                                       ║
╚═══════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
	fmt.Printf("版本: %s | 模式: %s | PID: %d\n", Version, cfg.Server.Mode, os.Getpid())
	fmt.Printf("入口: http://%s:%d/casino/originals/chicken-cross\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("      http://%s:%d/casino/originals/blackjack\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("      http://%s:%d/casino/originals/plinko\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("初始余额: %s %s\n", cfg.Wallet.InitialBalance, cfg.Wallet.Currency)
	fmt.Println("═══════════════════════════════════════════════════════")
}
