package api

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/casino-server/internal/game"
	"github.com/wfunc/casino-server/internal/game/blackjack"
	"github.com/wfunc/casino-server/internal/models"
	"github.com/wfunc/casino-server/internal/wallet"
	"github.com/wfunc/casino-server/internal/websocket"
	"go.uber.org/zap"
)

// BlackjackHandler 21点接口
type BlackjackHandler struct {
	engine   *blackjack.Engine
	wallet   *wallet.Wallet
	recorder *game.Recorder
	hub      *websocket.Hub
	logger   *zap.Logger
}

// NewBlackjackHandler 创建21点接口
func NewBlackjackHandler(engine *blackjack.Engine, w *wallet.Wallet, recorder *game.Recorder, hub *websocket.Hub, logger *zap.Logger) *BlackjackHandler {
	return &BlackjackHandler{
		engine:   engine,
		wallet:   w,
		recorder: recorder,
		hub:      hub,
		logger:   logger,
	}
}

type blackjackPlayRequest struct {
	BetAmount FlexAmount `json:"bet_amount"`
	Currency  string     `json:"currency"`
}

// blackjackActionRequest 操作请求。action_name形如 {"hit": true}
// 或 {"insurance": false}，在这里解成带类型的操作。
type blackjackActionRequest struct {
	ActionName map[string]json.RawMessage `json:"action_name"`
}

func (r *blackjackActionRequest) toAction() blackjack.Action {
	for key, raw := range r.ActionName {
		action := blackjack.Action{Kind: blackjack.Kind(key)}
		if action.Kind == blackjack.KindInsurance {
			var accept bool
			if err := json.Unmarshal(raw, &accept); err == nil {
				action.Accept = accept
			}
		}
		return action
	}
	return blackjack.Action{}
}

func respondGameState(c *gin.Context, g *blackjack.Game) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"gameState": g.Snapshot()}})
}

// 路径里第一段是牌局ID，第二段是操作ID。操作ID只起防重放的
// 展示作用，校验只看牌局ID。
var blackjackActionPath = regexp.MustCompile(`^/([a-f0-9-]+)/([a-f0-9-]+)/action$`)

// Dispatch 分发POST请求
func (h *BlackjackHandler) Dispatch(c *gin.Context) {
	rest := c.Param("rest")
	switch rest {
	case "/play":
		h.Play(c)
	case "/freeplay":
		h.Freeplay(c)
	default:
		if m := blackjackActionPath.FindStringSubmatch(rest); m != nil {
			c.Params = append(c.Params,
				gin.Param{Key: "gameID", Value: m[1]},
				gin.Param{Key: "actionID", Value: m[2]})
			h.Action(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "result": nil})
	}
}

// ActiveSession 查询进行中的牌局
func (h *BlackjackHandler) ActiveSession(c *gin.Context) {
	g := h.engine.Active()
	if g == nil {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"error": "er_no_active_game"}})
		return
	}
	respondGameState(c, g)
}

// Play 开新局
func (h *BlackjackHandler) Play(c *gin.Context) {
	var req blackjackPlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondGameBadJSON(c)
		return
	}

	bet := req.BetAmount.OrDefault()
	g, err := h.engine.Start(bet, req.Currency)
	if err != nil {
		respondGameError(c, err)
		return
	}

	h.recorder.RecordTransaction(c.Request.Context(), "bet", bet,
		h.wallet.Balance().Add(bet), h.wallet.Balance(), g.Currency,
		g.ID, game.TypeBlackjack)

	if g.Finished() {
		h.settle(c, g)
	} else {
		h.hub.BroadcastBalance(h.wallet.Balance().StringFixed(2), g.Currency)
	}
	respondGameState(c, g)
}

// Freeplay 开试玩局
func (h *BlackjackHandler) Freeplay(c *gin.Context) {
	g, err := h.engine.Freeplay()
	if err != nil {
		respondGameError(c, err)
		return
	}
	respondGameState(c, g)
}

// Action 执行玩家操作
func (h *BlackjackHandler) Action(c *gin.Context) {
	var req blackjackActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondGameBadJSON(c)
		return
	}

	g, err := h.engine.Act(c.Param("gameID"), req.toAction())
	if err != nil {
		respondGameError(c, err)
		return
	}

	if g.Finished() {
		h.settle(c, g)
	} else {
		h.hub.BroadcastBalance(h.wallet.Balance().StringFixed(2), g.Currency)
	}
	respondGameState(c, g)
}

// Freeplays 试玩券列表，本地模拟器恒为空
func (h *BlackjackHandler) Freeplays(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"game": nil, "freeplays": []interface{}{}})
}

// settle 结算后的落库与推送
func (h *BlackjackHandler) settle(c *gin.Context, g *blackjack.Game) {
	if !g.IsFreeplay {
		h.recorder.RecordRound(c.Request.Context(), game.TypeBlackjack, g.ID,
			g.BetAmount, 0, g.TotalPayout, g.Currency, models.JSONMap{
				"is_split":      g.IsSplit,
				"insurance":     g.InsuranceTaken,
				"insurance_won": g.InsuranceWon,
				"hands":         len(g.PlayerHands),
			})
		if g.TotalPayout.IsPositive() {
			h.recorder.RecordTransaction(c.Request.Context(), "win", g.TotalPayout,
				h.wallet.Balance().Sub(g.TotalPayout), h.wallet.Balance(), g.Currency,
				g.ID, game.TypeBlackjack)
		}
	}

	h.hub.BroadcastBalance(h.wallet.Balance().StringFixed(2), g.Currency)
	h.hub.BroadcastGameResult(string(game.TypeBlackjack), g.Snapshot())
}
