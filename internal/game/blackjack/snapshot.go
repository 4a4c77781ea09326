package blackjack

// HandState 手牌快照
type HandState struct {
	HandID           int     `json:"handId"`
	Cards            []Card  `json:"cards"`
	IsStand          bool    `json:"isStand"`
	IsBust           bool    `json:"isBust"`
	IsDoubled        bool    `json:"isDoubled"`
	IsActive         bool    `json:"isActive"`
	IsWin            bool    `json:"isWin"`
	Result           *string `json:"result"`
	AvailableActions Actions `json:"availableActions"`
}

// DealerState 庄家快照。开牌前只露明牌。
type DealerState struct {
	Cards      []Card `json:"cards"`
	IsRevealed bool   `json:"isRevealed"`
}

// GameState 对局快照，直接按前端约定的字段序列化
type GameState struct {
	GameHistoryID    string      `json:"game_history_id"`
	GameActionID     string      `json:"game_action_id"`
	Status           string      `json:"status"`
	PlayerHands      []HandState `json:"playerHands"`
	DealerHand       DealerState `json:"dealerHand"`
	CurrentTurn      int         `json:"currentTurn"`
	CurrentHandIndex int         `json:"currentHandIndex"`
	InsuranceOffered bool        `json:"insuranceOffered"`
	InsuranceTaken   bool        `json:"insuranceTaken"`
	InsuranceWon     bool        `json:"insuranceWon"`
	IsSplit          bool        `json:"isSplit"`
	BetAmount        float64     `json:"betAmount"`
	Currency         string      `json:"currency"`
}

// Snapshot 生成对局快照。可用操作在这里按当前手牌推导，
// 不读任何缓存的动作集。
func (g *Game) Snapshot() GameState {
	revealed := g.Status == StatusFinished || g.Status == StatusDealerTurn

	hands := make([]HandState, 0, len(g.PlayerHands))
	for _, h := range g.PlayerHands {
		hs := HandState{
			HandID:    h.HandID,
			Cards:     append([]Card{}, h.Cards...),
			IsStand:   h.IsStand,
			IsBust:    h.IsBust,
			IsDoubled: h.IsDoubled,
			IsActive:  h.IsActive,
			IsWin:     h.IsWin,
		}
		if h.Result != "" {
			result := h.Result
			hs.Result = &result
		}
		if g.Status == StatusPlayerTurn {
			hs.AvailableActions = h.Available(g.IsSplit)
		}
		hands = append(hands, hs)
	}

	dealer := DealerState{Cards: []Card{}, IsRevealed: revealed}
	if revealed {
		dealer.Cards = append([]Card{}, g.DealerCards...)
	} else if len(g.DealerCards) > 0 {
		dealer.Cards = []Card{g.DealerCards[0]}
	}

	bet, _ := g.BetAmount.Float64()
	return GameState{
		GameHistoryID:    g.ID,
		GameActionID:     g.ActionID,
		Status:           g.Status,
		PlayerHands:      hands,
		DealerHand:       dealer,
		CurrentTurn:      g.CurrentTurn,
		CurrentHandIndex: g.CurrentHandIndex,
		InsuranceOffered: g.InsuranceOffered,
		InsuranceTaken:   g.InsuranceTaken,
		InsuranceWon:     g.InsuranceWon,
		IsSplit:          g.IsSplit,
		BetAmount:        bet,
		Currency:         g.Currency,
	}
}
