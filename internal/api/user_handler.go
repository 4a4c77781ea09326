package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/wfunc/casino-server/internal/config"
	"github.com/wfunc/casino-server/internal/repository"
	"github.com/wfunc/casino-server/internal/wallet"
	"go.uber.org/zap"
)

// DemoUser 模拟玩家档案
type DemoUser struct {
	ID        string
	PublicID  string
	Username  string
	Email     string
	CreatedAt string
}

var demoUser = DemoUser{
	ID:        "demo-user-001",
	PublicID:  "demo-pub-001",
	Username:  "DemoPlayer",
	Email:     "demo@local.dev",
	CreatedAt: "2024-01-01T00:00:00.000Z",
}

// UserHandler 模拟用户、钱包与公共信息接口
type UserHandler struct {
	wallet *wallet.Wallet
	rounds repository.GameRoundRepository
	jwtCfg *config.JWTConfig
	logger *zap.Logger
}

// NewUserHandler 创建用户接口
func NewUserHandler(w *wallet.Wallet, rounds repository.GameRoundRepository, jwtCfg *config.JWTConfig, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		wallet: w,
		rounds: rounds,
		jwtCfg: jwtCfg,
		logger: logger,
	}
}

// Ping 连通性检查
func (h *UserHandler) Ping(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ClientError 前端错误上报
func (h *UserHandler) ClientError(c *gin.Context) {
	var body struct {
		Error string `json:"error"`
	}
	if err := c.ShouldBindJSON(&body); err == nil && body.Error != "" {
		h.logger.Warn("前端错误上报", zap.String("error", body.Error))
	}
	c.Status(http.StatusNoContent)
}

// AuthSession 返回演示会话，令牌用JWT签出来
func (h *UserHandler) AuthSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"access_token": h.demoToken(),
			"name":         demoUser.Username,
			"email":        demoUser.Email,
			"image":        nil,
		},
		"expires": "2099-12-31T23:59:59.999Z",
	})
}

// demoToken 签发演示令牌。签不出来就退回固定串，登录流程不中断。
func (h *UserHandler) demoToken() string {
	claims := jwt.MapClaims{
		"sub":  demoUser.ID,
		"name": demoUser.Username,
		"exp":  time.Now().Add(time.Duration(h.jwtCfg.ExpireHours) * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtCfg.Secret))
	if err != nil {
		h.logger.Error("签发演示令牌失败", zap.Error(err))
		return "demo-token"
	}
	return signed
}

// AuthDispatch 演示登录态的统一入口
func (h *UserHandler) AuthDispatch(c *gin.Context) {
	switch c.Param("rest") {
	case "/session":
		h.AuthSession(c)
	case "/csrf":
		c.JSON(http.StatusOK, gin.H{"csrfToken": "demo-csrf"})
	case "/providers":
		c.JSON(http.StatusOK, gin.H{})
	default:
		c.JSON(http.StatusOK, gin.H{})
	}
}

// Wallet 钱包余额
func (h *UserHandler) Wallet(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"active": gin.H{
			"primary":     h.wallet.Balance().InexactFloat64(),
			"promotional": 0,
			"vault":       0,
			"currency":    h.wallet.Currency(),
		},
	})
}

// Balance 按类型查余额，保险库恒为0
func (h *UserHandler) Balance(c *gin.Context) {
	if c.Param("type") == "vault" {
		c.JSON(http.StatusOK, gin.H{"amount": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"amount": h.wallet.Balance().InexactFloat64()})
}

// Me 当前用户概要
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":       demoUser.ID,
		"username": demoUser.Username,
		"email":    demoUser.Email,
		"currency": h.wallet.Currency(),
	})
}

// Profile 完整用户档案
func (h *UserHandler) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"username":   demoUser.Username,
		"email":      demoUser.Email,
		"currency":   h.wallet.Currency(),
		"created_at": demoUser.CreatedAt,
		"deleted":    false,
		"auth": gin.H{
			"type":              "email",
			"email_verified_at": demoUser.CreatedAt,
			"has_2fa":           false,
		},
		"profile": gin.H{
			"registered_at":  demoUser.CreatedAt,
			"wagered_amount": 0,
			"bet_count":      0,
		},
		"preferences": gin.H{
			"language":               "en",
			"public_profile":         true,
			"public_statistics":      true,
			"default_payment_method": nil,
		},
		"promotion": gin.H{"eligible": true},
		"affiliate": gin.H{"eligible": false, "referred_by": nil},
		"chat":      gin.H{"eligible": true, "accepted_rules": true},
		"rank": gin.H{
			"bet_rank":                  0,
			"bet_rank_division":         0,
			"next_rank":                 1,
			"next_rank_division":        0,
			"required_to_next_rank_usd": 1000,
			"percentage":                0,
		},
		"intercom":                      nil,
		"kyc_level_required_to_deposit": 0,
		"self_exclusion":                nil,
	})
}

// Settings 用户设置占位
func (h *UserHandler) Settings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{})
}

// RecentGames 最近游戏占位
func (h *UserHandler) RecentGames(c *gin.Context) {
	c.JSON(http.StatusOK, []interface{}{})
}

// Currencies 货币表
func (h *UserHandler) Currencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"USD": gin.H{
			"rate": 1,
			"display": gin.H{
				"isDefault": true,
				"prepend":   "$",
				"append":    nil,
				"icon":      "https://assets.rbgcdn.com/223k2P3/raw/currencies/usd.svg",
			},
		},
	})
}

// IP 地理信息占位
func (h *UserHandler) IP(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"country": "US", "region": ""})
}

// Ranks 段位占位
func (h *UserHandler) Ranks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ranks": []interface{}{}})
}

// Crypto 汇率表
func (h *UserHandler) Crypto(c *gin.Context) {
	c.JSON(http.StatusOK, []gin.H{
		{"code": "USD", "name": "US Dollar", "rate": 1, "fiat": true, "icon": ""},
		{"code": "BTC", "name": "Bitcoin", "rate": 0.0000145, "fiat": false, "icon": ""},
		{"code": "ETH", "name": "Ethereum", "rate": 0.000285, "fiat": false, "icon": ""},
	})
}

// GameHistory 历史回合，从落库记录里读
func (h *UserHandler) GameHistory(c *gin.Context) {
	if h.rounds == nil {
		c.JSON(http.StatusOK, []interface{}{})
		return
	}

	rounds, err := h.rounds.List(c.Request.Context(), 50)
	if err != nil {
		h.logger.Error("查询历史回合失败", zap.Error(err))
		c.JSON(http.StatusOK, []interface{}{})
		return
	}

	history := make([]gin.H, 0, len(rounds))
	for _, r := range rounds {
		history = append(history, gin.H{
			"game_history_id": r.RoundID,
			"game_name":       r.GameName,
			"bet_amount":      r.BetAmount,
			"multiplier":      r.Multiplier,
			"payout":          r.Payout,
			"currency":        r.Currency,
			"played_at":       r.PlayedAt,
		})
	}
	c.JSON(http.StatusOK, history)
}

// EmptyObject 占位接口
func (h *UserHandler) EmptyObject(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{})
}

// Tickets 抽奖券占位
func (h *UserHandler) Tickets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tickets": []interface{}{}})
}

// Rewards 奖励占位
func (h *UserHandler) Rewards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rewards": []interface{}{}, "total": 0})
}

// SlotsDispatch 老虎机接口占位
func (h *UserHandler) SlotsDispatch(c *gin.Context) {
	if c.Param("rest") == "/list" {
		c.JSON(http.StatusOK, gin.H{"count": 0, "games": []interface{}{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// UpdateSettings 设置更新占位
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}
