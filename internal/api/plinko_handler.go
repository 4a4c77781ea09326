package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wfunc/casino-server/internal/game"
	"github.com/wfunc/casino-server/internal/game/plinko"
	"github.com/wfunc/casino-server/internal/models"
	"github.com/wfunc/casino-server/internal/wallet"
	"github.com/wfunc/casino-server/internal/websocket"
	"go.uber.org/zap"
)

// PlinkoHandler 弹珠游戏接口
type PlinkoHandler struct {
	engine   *plinko.Engine
	wallet   *wallet.Wallet
	recorder *game.Recorder
	hub      *websocket.Hub
	logger   *zap.Logger
}

// NewPlinkoHandler 创建弹珠游戏接口
func NewPlinkoHandler(engine *plinko.Engine, w *wallet.Wallet, recorder *game.Recorder, hub *websocket.Hub, logger *zap.Logger) *PlinkoHandler {
	return &PlinkoHandler{
		engine:   engine,
		wallet:   w,
		recorder: recorder,
		hub:      hub,
		logger:   logger,
	}
}

type plinkoPlayRequest struct {
	BetAmount FlexAmount `json:"bet_amount"`
	Rows      FlexInt    `json:"rows"`
	Risk      string     `json:"risk"`
	Currency  string     `json:"currency"`
}

type plinkoResult struct {
	Path       string  `json:"path"`
	Bucket     int     `json:"bucket"`
	Multiplier float64 `json:"multiplier"`
	Rows       int     `json:"rows"`
	Risk       string  `json:"risk"`
}

type plinkoResponse struct {
	GameResult   GameResult   `json:"game_result"`
	PlinkoResult plinkoResult `json:"plinko_result"`
}

// ActiveSession 弹珠无会话，永远返回无进行中会话
func (h *PlinkoHandler) ActiveSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"error": "er_no_active_session"}})
}

// Play 投一颗球，单请求完成下注与结算
func (h *PlinkoHandler) Play(c *gin.Context) {
	var req plinkoPlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadJSON(c)
		return
	}

	bet := req.BetAmount.OrDefault()
	rows := req.Rows.OrDefault(16)
	risk := req.Risk
	if risk == "" {
		risk = "low"
	}
	currency := req.Currency
	if currency == "" {
		currency = h.wallet.Currency()
	}

	result, err := h.engine.Play(bet, rows, risk)
	if err != nil {
		respondError(c, err)
		return
	}

	roundID := uuid.NewString()
	betFloat, _ := bet.Float64()
	resp := plinkoResponse{
		GameResult: GameResult{
			GameHistoryID: roundID,
			GameName:      string(game.TypePlinko),
			BetAmount:     betFloat,
			Currency:      currency,
			Payout:        result.Payout.StringFixed(2),
			Multiplier:    result.Multiplier,
			GameOver:      true,
		},
		PlinkoResult: plinkoResult{
			Path:       result.Path,
			Bucket:     result.Bucket,
			Multiplier: result.Multiplier,
			Rows:       result.Rows,
			Risk:       result.Risk,
		},
	}

	h.recorder.RecordRound(c.Request.Context(), game.TypePlinko, roundID,
		bet, result.Multiplier, result.Payout, currency, models.JSONMap{
			"path":   result.Path,
			"bucket": result.Bucket,
			"rows":   result.Rows,
			"risk":   result.Risk,
		})
	h.recorder.RecordTransaction(c.Request.Context(), "bet", bet,
		h.wallet.Balance().Sub(result.Payout).Add(bet), h.wallet.Balance().Sub(result.Payout), currency,
		roundID, game.TypePlinko)
	h.recorder.RecordTransaction(c.Request.Context(), "win", result.Payout,
		h.wallet.Balance().Sub(result.Payout), h.wallet.Balance(), currency,
		roundID, game.TypePlinko)

	h.hub.BroadcastBalance(h.wallet.Balance().StringFixed(2), currency)
	h.hub.BroadcastGameResult(string(game.TypePlinko), resp)

	c.JSON(http.StatusOK, resp)
}
