package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/casino-server/internal/config"
	"github.com/wfunc/casino-server/internal/game"
	"github.com/wfunc/casino-server/internal/game/blackjack"
	"github.com/wfunc/casino-server/internal/game/chicken"
	"github.com/wfunc/casino-server/internal/game/plinko"
	"github.com/wfunc/casino-server/internal/middleware"
	"github.com/wfunc/casino-server/internal/repository"
	"github.com/wfunc/casino-server/internal/wallet"
	"github.com/wfunc/casino-server/internal/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Router API路由器
type Router struct {
	engine *gin.Engine
	log    *zap.Logger

	chickenHandler   *ChickenHandler
	plinkoHandler    *PlinkoHandler
	blackjackHandler *BlackjackHandler
	userHandler      *UserHandler
	assets           *Assets
	hub              *websocket.Hub
}

// NewRouter 创建路由器并装配全部依赖
func NewRouter(cfg *config.Config, db *gorm.DB, log *zap.Logger) *Router {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.CORS())

	w, err := wallet.NewFromString(cfg.Wallet.InitialBalance, cfg.Wallet.Currency)
	if err != nil {
		log.Warn("初始余额配置无效，使用默认值",
			zap.String("initial_balance", cfg.Wallet.InitialBalance))
		w, _ = wallet.NewFromString("10000.00", cfg.Wallet.Currency)
	}

	var rounds repository.GameRoundRepository
	var trans repository.TransactionRepository
	if db != nil {
		rounds = repository.NewGameRoundRepository(db)
		trans = repository.NewTransactionRepository(db)
	}
	recorder := game.NewRecorder(rounds, trans, log)

	store := game.NewStore()
	hub := websocket.NewHub(log)

	chickenEngine := chicken.NewEngine(w, store, log)
	plinkoEngine := plinko.NewEngine(w, log)
	blackjackEngine := blackjack.NewEngine(w, store, log)

	router := &Router{
		engine:           engine,
		log:              log,
		chickenHandler:   NewChickenHandler(chickenEngine, w, recorder, hub, log),
		plinkoHandler:    NewPlinkoHandler(plinkoEngine, w, recorder, hub, log),
		blackjackHandler: NewBlackjackHandler(blackjackEngine, w, recorder, hub, log),
		userHandler:      NewUserHandler(w, rounds, &cfg.Security.JWT, log),
		assets:           NewAssets(cfg.Assets.PublicDir, log),
		hub:              hub,
	}

	router.setupRoutes()
	go hub.Run()

	return router
}

// setupRoutes 设置路由。
// 带会话ID的操作路径和同级的静态路径在gin的路由树里
// 不能共存，POST统一走各游戏的分发器。
func (r *Router) setupRoutes() {
	u := r.userHandler

	// 连通性与前端错误上报
	r.engine.GET("/api/ping", u.Ping)
	r.engine.POST("/api/client-error", u.ClientError)

	// 演示登录态
	r.engine.Any("/api/auth/*rest", u.AuthDispatch)

	// 用户与钱包
	r.engine.GET("/v1/user/wallet", u.Wallet)
	r.engine.GET("/v1/user/balance/:type", u.Balance)
	r.engine.GET("/v1/auth/me", u.Me)
	r.engine.GET("/v1/user", u.Profile)
	r.engine.GET("/v1/user/me", u.Profile)
	r.engine.GET("/v1/user/settings", u.Settings)
	r.engine.GET("/v1/user/recent-games", u.RecentGames)

	// 过关游戏
	r.engine.GET("/api/v1/original-games/chicken-cross/active-session", r.chickenHandler.ActiveSession)
	r.engine.POST("/api/v1/original-games/chicken-cross/*rest", r.chickenHandler.Dispatch)

	// 弹珠游戏
	r.engine.GET("/api/v1/original-games/plinko/active-session", r.plinkoHandler.ActiveSession)
	r.engine.POST("/api/v1/original-games/plinko/play", r.plinkoHandler.Play)

	// 21点
	r.engine.GET("/api/v1/original-games/blackjack/active-session", r.blackjackHandler.ActiveSession)
	r.engine.POST("/api/v1/original-games/blackjack/*rest", r.blackjackHandler.Dispatch)

	// 试玩券
	r.engine.GET("/api/v1/original-games/chicken-cross/freeplays", r.blackjackHandler.Freeplays)
	r.engine.GET("/api/v1/original-games/plinko/freeplays", r.blackjackHandler.Freeplays)
	r.engine.GET("/api/v1/original-games/blackjack/freeplays", r.blackjackHandler.Freeplays)
	r.engine.GET("/api/v1/original-games/freeplays", r.blackjackHandler.Freeplays)

	// 公共信息
	r.engine.GET("/v1/public/currencies", u.Currencies)
	r.engine.GET("/v1/public/ip", u.IP)
	r.engine.GET("/v1/public/ranks", u.Ranks)
	r.engine.GET("/v1/public/translations/*rest", u.EmptyObject)
	r.engine.GET("/v1/public/search", u.EmptyObject)
	r.engine.GET("/v1/slots/*rest", u.SlotsDispatch)
	r.engine.GET("/v1/game-history", u.GameHistory)
	r.engine.GET("/v1/raffles/my-tickets", u.Tickets)
	r.engine.GET("/v1/rewards/*rest", u.Rewards)
	r.engine.GET("/v1/crypto", u.Crypto)
	r.engine.POST("/user/update-settings", u.UpdateSettings)

	// 实时推送
	r.engine.GET("/ws", r.hub.ServeWS)

	// 没路由到的API一律返回成功占位，其余按静态资源处理
	r.engine.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/v1/") {
			c.JSON(http.StatusOK, gin.H{"success": true, "result": nil})
			return
		}
		r.assets.ServeFallback(c)
	})
}

// Run 运行服务器
func (r *Router) Run(addr string) error {
	r.log.Info("HTTP服务启动", zap.String("address", addr))
	return r.engine.Run(addr)
}

// GetEngine 获取Gin引擎（用于测试）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
