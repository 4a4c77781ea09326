package blackjack

// 手牌结算结果
const (
	ResultWin  = "win"
	ResultLose = "lose"
	ResultPush = "push"
)

// Hand 玩家的一手牌
type Hand struct {
	HandID    int
	Cards     []Card
	IsStand   bool
	IsBust    bool
	IsDoubled bool
	IsActive  bool
	IsWin     bool
	Result    string // 结算前为空
}

func newHand(cards []Card, id int, active bool) *Hand {
	h := &Hand{
		HandID:   id,
		Cards:    append([]Card{}, cards...),
		IsActive: active,
	}
	h.IsBust = HandValue(h.Cards) > 21
	return h
}

// Value 手牌点数
func (h *Hand) Value() int {
	return HandValue(h.Cards)
}

// Actions 某一手牌当前可用的操作
type Actions struct {
	Hit    bool `json:"hit"`
	Stand  bool `json:"stand"`
	Double bool `json:"double"`
	Split  bool `json:"split"`
}

// Available 由手牌状态推导可用操作。不在手牌上存副本，
// 每次读取时重新计算，状态变更后不可能读到过期的动作集。
func (h *Hand) Available(isSplit bool) Actions {
	val := h.Value()
	if h.IsStand || h.IsBust || val == 21 {
		return Actions{}
	}
	return Actions{
		Hit:    val < 21 && len(h.Cards) >= 2,
		Stand:  true,
		Double: len(h.Cards) == 2 && !h.IsDoubled,
		Split:  !isSplit && len(h.Cards) == 2 && h.Cards[0].Value() == h.Cards[1].Value(),
	}
}
