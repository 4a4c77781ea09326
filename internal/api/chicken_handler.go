package api

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wfunc/casino-server/internal/game"
	"github.com/wfunc/casino-server/internal/game/chicken"
	"github.com/wfunc/casino-server/internal/models"
	"github.com/wfunc/casino-server/internal/wallet"
	"github.com/wfunc/casino-server/internal/websocket"
	"go.uber.org/zap"
)

// ChickenHandler 过关游戏接口
type ChickenHandler struct {
	engine   *chicken.Engine
	wallet   *wallet.Wallet
	recorder *game.Recorder
	hub      *websocket.Hub
	logger   *zap.Logger
}

// NewChickenHandler 创建过关游戏接口
func NewChickenHandler(engine *chicken.Engine, w *wallet.Wallet, recorder *game.Recorder, hub *websocket.Hub, logger *zap.Logger) *ChickenHandler {
	return &ChickenHandler{
		engine:   engine,
		wallet:   w,
		recorder: recorder,
		hub:      hub,
		logger:   logger,
	}
}

type chickenPlayRequest struct {
	BetAmount   FlexAmount `json:"bet_amount"`
	Difficulty  string     `json:"difficulty"`
	Currency    string     `json:"currency"`
	BalanceType string     `json:"balance_type"`
}

type chickenAutoplayRequest struct {
	BetAmount  FlexAmount `json:"bet_amount"`
	Difficulty string     `json:"difficulty"`
	Currency   string     `json:"currency"`
	LaneIndex  int        `json:"lane_index"`
}

type chickenResponse struct {
	GameResult             GameResult            `json:"game_result"`
	ChickenCrossResult     []chicken.RoundResult `json:"chicken_cross_result"`
	ChickenCrossDifficulty string                `json:"chicken_cross_difficulty"`
}

func makeChickenResponse(s *chicken.Session) chickenResponse {
	bet, _ := s.BetAmount.Float64()
	return chickenResponse{
		GameResult: GameResult{
			GameOver:      s.GameOver,
			Multiplier:    s.CurrentMultiplier,
			Payout:        s.Payout,
			GameHistoryID: s.ID,
			GameName:      string(game.TypeChickenCross),
			Currency:      s.Currency,
			BetAmount:     bet,
		},
		ChickenCrossResult:     s.Results,
		ChickenCrossDifficulty: s.Difficulty,
	}
}

var (
	chickenActionPath  = regexp.MustCompile(`^/([a-f0-9-]+)/action$`)
	chickenCashoutPath = regexp.MustCompile(`^/([a-f0-9-]+)/cashout$`)
)

// Dispatch 分发POST请求。带会话ID的路径用正则匹配，
// 和静态路径一起从同一个挂载点进来。
func (h *ChickenHandler) Dispatch(c *gin.Context) {
	rest := c.Param("rest")
	switch {
	case rest == "/play":
		h.Play(c)
	case rest == "/autoplay":
		h.Autoplay(c)
	default:
		if m := chickenActionPath.FindStringSubmatch(rest); m != nil {
			c.Params = append(c.Params, gin.Param{Key: "sessionID", Value: m[1]})
			h.Action(c)
			return
		}
		if m := chickenCashoutPath.FindStringSubmatch(rest); m != nil {
			c.Params = append(c.Params, gin.Param{Key: "sessionID", Value: m[1]})
			h.Cashout(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "result": nil})
	}
}

// ActiveSession 查询进行中的会话
func (h *ChickenHandler) ActiveSession(c *gin.Context) {
	session := h.engine.Active()
	if session == nil {
		c.JSON(http.StatusOK, gin.H{"error": "no_active_session"})
		return
	}
	c.JSON(http.StatusOK, makeChickenResponse(session))
}

// Play 开始新会话
func (h *ChickenHandler) Play(c *gin.Context) {
	var req chickenPlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadJSON(c)
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = "easy"
	}

	bet := req.BetAmount.OrDefault()
	session, err := h.engine.Start(bet, req.Difficulty, req.Currency)
	if err != nil {
		respondError(c, err)
		return
	}

	h.recorder.RecordTransaction(c.Request.Context(), "bet", bet,
		h.wallet.Balance().Add(bet), h.wallet.Balance(), session.Currency,
		session.ID, game.TypeChickenCross)
	h.hub.BroadcastBalance(h.wallet.Balance().StringFixed(2), session.Currency)

	c.JSON(http.StatusOK, makeChickenResponse(session))
}

// Action 前进一个回合。请求体没有业务字段，不做解析。
func (h *ChickenHandler) Action(c *gin.Context) {
	session, err := h.engine.Advance(c.Param("sessionID"))
	if err != nil {
		respondError(c, err)
		return
	}

	if session.GameOver {
		h.settle(c, session)
	}
	c.JSON(http.StatusOK, makeChickenResponse(session))
}

// Cashout 提现
func (h *ChickenHandler) Cashout(c *gin.Context) {
	session, err := h.engine.CashOut(c.Param("sessionID"))
	if err != nil {
		respondError(c, err)
		return
	}

	payout, _ := decimal.NewFromString(session.Payout)
	h.recorder.RecordTransaction(c.Request.Context(), "win", payout,
		h.wallet.Balance().Sub(payout), h.wallet.Balance(), session.Currency,
		session.ID, game.TypeChickenCross)
	h.settle(c, session)

	c.JSON(http.StatusOK, makeChickenResponse(session))
}

// Autoplay 自动过关到指定车道
func (h *ChickenHandler) Autoplay(c *gin.Context) {
	var req chickenAutoplayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadJSON(c)
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = "easy"
	}

	bet := req.BetAmount.OrDefault()
	session, err := h.engine.Autoplay(bet, req.Difficulty, req.LaneIndex+1, req.Currency)
	if err != nil {
		respondError(c, err)
		return
	}

	h.settle(c, session)
	c.JSON(http.StatusOK, makeChickenResponse(session))
}

// settle 结算后的落库与推送
func (h *ChickenHandler) settle(c *gin.Context, s *chicken.Session) {
	payout, err := decimal.NewFromString(s.Payout)
	if err != nil {
		h.logger.Warn("解析赔付金额失败", zap.String("payout", s.Payout))
		payout = decimal.Zero
	}

	h.recorder.RecordRound(c.Request.Context(), game.TypeChickenCross, s.ID,
		s.BetAmount, s.CurrentMultiplier, payout, s.Currency, models.JSONMap{
			"difficulty": s.Difficulty,
			"round":      s.Round,
		})

	h.hub.BroadcastBalance(h.wallet.Balance().StringFixed(2), s.Currency)
	h.hub.BroadcastGameResult(string(game.TypeChickenCross), makeChickenResponse(s).GameResult)
}
