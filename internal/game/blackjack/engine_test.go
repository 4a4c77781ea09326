package blackjack

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/casino-server/internal/errors"
	"github.com/wfunc/casino-server/internal/game"
	"github.com/wfunc/casino-server/internal/wallet"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, balance string) (*Engine, *wallet.Wallet, *game.Store) {
	t.Helper()
	w, err := wallet.NewFromString(balance, "USD")
	require.NoError(t, err)
	store := game.NewStore()
	return NewEngine(w, store, zap.NewNop()), w, store
}

func bet10() decimal.Decimal { return decimal.NewFromInt(10) }

func TestHandValue(t *testing.T) {
	tests := []struct {
		name  string
		cards []Card
		want  int
	}{
		{"人头牌10点", []Card{"Kh", "Qd"}, 20},
		{"软牌A按11", []Card{"Ah", "6d"}, 17},
		{"爆牌时A降为1", []Card{"Ah", "6d", "9c"}, 16},
		{"双A", []Card{"Ah", "Ad"}, 12},
		{"天牌", []Card{"Ah", "Td"}, 21},
		{"多张A逐个降点", []Card{"Ah", "Ad", "9c", "Ks"}, 21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HandValue(tt.cards))
		})
	}

	assert.True(t, IsBlackjack([]Card{"Ah", "Kd"}))
	assert.False(t, IsBlackjack([]Card{"Ah", "Kd", "2c"}))
	assert.False(t, IsBlackjack([]Card{"Th", "7d"}))
}

func TestShoe(t *testing.T) {
	engine, _, _ := newTestEngine(t, "100")
	assert.Equal(t, 8*52, engine.shoe.Remaining())

	engine.shoe.Load("Ah", "Kd", "2c", "7s")
	assert.Equal(t, Card("Ah"), engine.shoe.Draw())
	assert.Equal(t, Card("Kd"), engine.shoe.Draw())
	assert.Equal(t, Card("2c"), engine.shoe.Draw())
	assert.Equal(t, Card("7s"), engine.shoe.Draw())
}

func TestEngine_PlayerBlackjack(t *testing.T) {
	engine, w, store := newTestEngine(t, "100")
	engine.shoe.Load("Ah", "Kd", "2c", "7s")

	g, err := engine.Start(bet10(), "USD")
	require.NoError(t, err)

	// 庄家明牌不是A，玩家天牌当场按3:2结算
	assert.Equal(t, StatusFinished, g.Status)
	assert.Equal(t, ResultWin, g.PlayerHands[0].Result)
	assert.True(t, g.PlayerHands[0].IsWin)
	assert.Equal(t, "25.00", g.TotalPayout.StringFixed(2))
	assert.Equal(t, "115", w.Balance().String())

	_, ok := store.Get(game.TypeBlackjack)
	assert.False(t, ok)
}

func TestEngine_DealerHiddenBlackjack(t *testing.T) {
	engine, w, store := newTestEngine(t, "100")
	engine.shoe.Load("5h", "6d", "Kc", "As")

	g, err := engine.Start(bet10(), "USD")
	require.NoError(t, err)

	// 庄家明牌K暗牌A，无保险窗口，直接开牌
	assert.Equal(t, StatusFinished, g.Status)
	assert.False(t, g.InsuranceOffered)
	assert.Equal(t, ResultLose, g.PlayerHands[0].Result)
	assert.Equal(t, "90", w.Balance().String())

	_, ok := store.Get(game.TypeBlackjack)
	assert.False(t, ok)
}

func TestEngine_InsuranceWins(t *testing.T) {
	engine, w, _ := newTestEngine(t, "100")
	engine.shoe.Load("5h", "6d", "Ah", "Kd")

	g, err := engine.Start(bet10(), "USD")
	require.NoError(t, err)
	assert.Equal(t, StatusPlayerTurn, g.Status)
	assert.True(t, g.InsuranceOffered)

	g, err = engine.Act(g.ID, Action{Kind: KindInsurance, Accept: true})
	require.NoError(t, err)

	// 保险半注5赔2:1共返15，本注输掉：100-10-5+15 = 100
	assert.Equal(t, StatusFinished, g.Status)
	assert.True(t, g.InsuranceTaken)
	assert.True(t, g.InsuranceWon)
	assert.Equal(t, ResultLose, g.PlayerHands[0].Result)
	assert.Equal(t, "100", w.Balance().String())
}

func TestEngine_InsuranceLost(t *testing.T) {
	engine, w, _ := newTestEngine(t, "100")
	engine.shoe.Load("Th", "9d", "Ah", "7d")

	g, err := engine.Start(bet10(), "USD")
	require.NoError(t, err)
	assert.True(t, g.InsuranceOffered)

	g, err = engine.Act(g.ID, Action{Kind: KindInsurance, Accept: true})
	require.NoError(t, err)

	// 庄家软18不是天牌，保险费打水漂，继续行牌
	assert.Equal(t, StatusPlayerTurn, g.Status)
	assert.True(t, g.InsuranceTaken)
	assert.False(t, g.InsuranceWon)

	g, err = engine.Act(g.ID, Action{Kind: KindStand})
	require.NoError(t, err)

	// 玩家19胜庄家18，保险半注5不退：100-10-5+20 = 105
	assert.Equal(t, StatusFinished, g.Status)
	assert.False(t, g.InsuranceWon)
	assert.Equal(t, ResultWin, g.PlayerHands[0].Result)
	assert.Equal(t, "20.00", g.TotalPayout.StringFixed(2))
	assert.Equal(t, "105", w.Balance().String())
}

func TestEngine_InsuranceDeclined(t *testing.T) {
	engine, w, _ := newTestEngine(t, "100")
	engine.shoe.Load("5h", "6d", "Ah", "7d")

	g, err := engine.Start(bet10(), "USD")
	require.NoError(t, err)
	assert.True(t, g.InsuranceOffered)

	g, err = engine.Act(g.ID, Action{Kind: KindInsurance, Accept: false})
	require.NoError(t, err)

	// 庄家软18不是天牌，窗口关闭后继续行牌
	assert.Equal(t, StatusPlayerTurn, g.Status)
	assert.False(t, g.InsuranceOffered)
	assert.False(t, g.InsuranceTaken)

	// 保险窗口只开一次
	_, err = engine.Act(g.ID, Action{Kind: KindInsurance, Accept: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrIllegalAction))

	g, err = engine.Act(g.ID, Action{Kind: KindStand})
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, g.Status)
	assert.Equal(t, ResultLose, g.PlayerHands[0].Result)
	assert.Equal(t, "90", w.Balance().String())
}

func TestEngine_BothBlackjackPush(t *testing.T) {
	engine, w, _ := newTestEngine(t, "100")
	engine.shoe.Load("Ah", "Kd", "As", "Ks")

	g, err := engine.Start(bet10(), "USD")
	require.NoError(t, err)

	// 双方天牌但保险窗口开着，先等保险决定
	assert.Equal(t, StatusPlayerTurn, g.Status)
	assert.True(t, g.InsuranceOffered)
	assert.Equal(t, Actions{}, g.PlayerHands[0].Available(false))

	g, err = engine.Act(g.ID, Action{Kind: KindInsurance, Accept: false})
	require.NoError(t, err)

	assert.Equal(t, StatusFinished, g.Status)
	assert.Equal(t, ResultPush, g.PlayerHands[0].Result)
	assert.Equal(t, "100", w.Balance().String())
}

func TestEngine_HitBust(t *testing.T) {
	engine, w, _ := newTestEngine(t, "100")
	engine.shoe.Load("Th", "7d", "9c", "9s", "Kh")

	g, err := engine.Start(bet10(), "USD")
	require.NoError(t, err)

	g, err = engine.Act(g.ID, Action{Kind: KindHit})
	require.NoError(t, err)

	assert.Equal(t, StatusFinished, g.Status)
	assert.True(t, g.PlayerHands[0].IsBust)
	assert.Equal(t, ResultLose, g.PlayerHands[0].Result)
	assert.Equal(t, "90", w.Balance().String())
}

func TestEngine_Double(t *testing.T) {
	engine, w, _ := newTestEngine(t, "100")
	engine.shoe.Load("5h", "6d", "9c", "7s", "Th", "2c")

	g, err := engine.Start(bet10(), "USD")
	require.NoError(t, err)

	g, err = engine.Act(g.ID, Action{Kind: KindDouble})
	require.NoError(t, err)

	// 加倍拿到21点，庄家16补到18：双倍本注赢双倍赔付
	assert.Equal(t, StatusFinished, g.Status)
	assert.True(t, g.PlayerHands[0].IsDoubled)
	assert.Equal(t, 21, g.PlayerHands[0].Value())
	assert.Equal(t, ResultWin, g.PlayerHands[0].Result)
	assert.Equal(t, "40.00", g.TotalPayout.StringFixed(2))
	// 100 - 10 - 10 + 40 = 120
	assert.Equal(t, "120", w.Balance().String())
}

func TestEngine_DoubleRequiresTwoCards(t *testing.T) {
	engine, _, _ := newTestEngine(t, "100")
	engine.shoe.Load("2h", "3d", "9c", "9s", "4c")

	g, err := engine.Start(bet10(), "USD")
	require.NoError(t, err)

	g, err = engine.Act(g.ID, Action{Kind: KindHit})
	require.NoError(t, err)
	require.Equal(t, StatusPlayerTurn, g.Status)

	_, err = engine.Act(g.ID, Action{Kind: KindDouble})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrIllegalAction))
}

func TestEngine_SplitEights(t *testing.T) {
	engine, w, _ := newTestEngine(t, "100")
	engine.shoe.Load("8h", "8d", "9c", "7s", "2c", "3d", "Kd")

	g, err := engine.Start(bet10(), "USD")
	require.NoError(t, err)
	assert.True(t, g.PlayerHands[0].Available(false).Split)

	g, err = engine.Act(g.ID, Action{Kind: KindSplit})
	require.NoError(t, err)
	assert.True(t, g.IsSplit)
	require.Len(t, g.PlayerHands, 2)
	assert.Equal(t, []Card{"8h", "2c"}, g.PlayerHands[0].Cards)
	assert.Equal(t, []Card{"8d"}, g.PlayerHands[1].Cards)
	assert.True(t, g.PlayerHands[0].IsActive)

	// 分牌后不能再分
	assert.False(t, g.PlayerHands[0].Available(g.IsSplit).Split)

	// 第二手还没补牌时停牌仍然可用
	assert.True(t, g.PlayerHands[1].Available(g.IsSplit).Stand)

	g, err = engine.Act(g.ID, Action{Kind: KindStand})
	require.NoError(t, err)
	// 轮到第二手时补发第二张牌
	assert.Equal(t, 1, g.CurrentHandIndex)
	assert.Equal(t, []Card{"8d", "3d"}, g.PlayerHands[1].Cards)

	g, err = engine.Act(g.ID, Action{Kind: KindStand})
	require.NoError(t, err)

	// 庄家16补K爆牌，两手各赢
	assert.Equal(t, StatusFinished, g.Status)
	assert.Equal(t, ResultWin, g.PlayerHands[0].Result)
	assert.Equal(t, ResultWin, g.PlayerHands[1].Result)
	// 100 - 10 - 10 + 40 = 120
	assert.Equal(t, "120", w.Balance().String())
}

func TestEngine_SplitMixedOutcome(t *testing.T) {
	engine, w, _ := newTestEngine(t, "100")
	engine.shoe.Load("8h", "8d", "9c", "8s", "Th", "2c", "Kd", "Qd")

	g, err := engine.Start(bet10(), "USD")
	require.NoError(t, err)

	g, err = engine.Act(g.ID, Action{Kind: KindSplit})
	require.NoError(t, err)
	assert.Equal(t, []Card{"8h", "Th"}, g.PlayerHands[0].Cards)

	// 第一手18点停牌
	g, err = engine.Act(g.ID, Action{Kind: KindStand})
	require.NoError(t, err)
	assert.Equal(t, []Card{"8d", "2c"}, g.PlayerHands[1].Cards)

	// 第二手要到30点爆牌
	g, err = engine.Act(g.ID, Action{Kind: KindHit})
	require.NoError(t, err)
	g, err = engine.Act(g.ID, Action{Kind: KindHit})
	require.NoError(t, err)

	// 庄家17停：第一手赢第二手输，一手的赢抵掉另一手的输
	assert.Equal(t, StatusFinished, g.Status)
	assert.Equal(t, ResultWin, g.PlayerHands[0].Result)
	assert.Equal(t, ResultLose, g.PlayerHands[1].Result)
	assert.True(t, g.PlayerHands[1].IsBust)
	assert.Equal(t, "20.00", g.TotalPayout.StringFixed(2))
	// 100 - 10 - 10 + 20 = 100
	assert.Equal(t, "100", w.Balance().String())
}

func TestEngine_SplitAces(t *testing.T) {
	engine, _, _ := newTestEngine(t, "100")
	engine.shoe.Load("Ah", "Ad", "9c", "7s", "Kh", "7c", "Td")

	g, err := engine.Start(bet10(), "USD")
	require.NoError(t, err)

	g, err = engine.Act(g.ID, Action{Kind: KindSplit})
	require.NoError(t, err)

	// 分A各补一张后强制停牌，直接进入庄家回合
	assert.Equal(t, StatusFinished, g.Status)
	require.Len(t, g.PlayerHands, 2)
	assert.Equal(t, []Card{"Ah", "Kh"}, g.PlayerHands[0].Cards)
	assert.Equal(t, []Card{"Ad", "7c"}, g.PlayerHands[1].Cards)
	assert.True(t, g.PlayerHands[0].IsStand)
	assert.True(t, g.PlayerHands[1].IsStand)

	// 分牌后的A+10只是21点不是天牌，按普通胜局赔付
	assert.Equal(t, ResultWin, g.PlayerHands[0].Result)
}

func TestEngine_SplitRequiresEqualValue(t *testing.T) {
	engine, _, _ := newTestEngine(t, "100")
	// T和J点数相同可以分
	engine.shoe.Load("Th", "Jd", "9c", "5s", "2c")

	g, err := engine.Start(bet10(), "USD")
	require.NoError(t, err)
	assert.True(t, g.PlayerHands[0].Available(false).Split)

	engine2, _, _ := newTestEngine(t, "100")
	engine2.shoe.Load("Th", "7d", "9c", "5s")
	g2, err := engine2.Start(bet10(), "USD")
	require.NoError(t, err)

	_, err = engine2.Act(g2.ID, Action{Kind: KindSplit})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrIllegalAction))
}

func TestEngine_ActiveGameRules(t *testing.T) {
	engine, _, _ := newTestEngine(t, "100")
	engine.shoe.Load("5h", "6d", "9c", "7s")

	g, err := engine.Start(bet10(), "USD")
	require.NoError(t, err)

	_, err = engine.Start(bet10(), "USD")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrActiveGame))

	_, err = engine.Act("no-such-game", Action{Kind: KindHit})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoActiveGame))

	active := engine.Active()
	require.NotNil(t, active)
	assert.Equal(t, g.ID, active.ID)
}

func TestEngine_Freeplay(t *testing.T) {
	engine, w, store := newTestEngine(t, "100")

	g, err := engine.Freeplay()
	require.NoError(t, err)
	assert.True(t, g.IsFreeplay)
	assert.Equal(t, "10", g.BetAmount.String())
	// 试玩不动钱包
	assert.Equal(t, "100", w.Balance().String())

	// 试玩顶掉进行中的对局
	g2, err := engine.Freeplay()
	require.NoError(t, err)
	assert.NotEqual(t, g.ID, g2.ID)

	active, ok := store.Get(game.TypeBlackjack)
	require.True(t, ok)
	assert.Equal(t, g2.ID, active.SessionID())
}

func TestEngine_FreeplaySettlementSkipsWallet(t *testing.T) {
	engine, w, _ := newTestEngine(t, "100")
	engine.shoe.Load("Th", "9d", "9c", "8s")

	// 直接用可控牌面搭一个试玩局
	g := engine.deal(freeplayBet, "USD", true)
	require.NoError(t, engine.store.TryAcquire(game.TypeBlackjack, g))

	g, err := engine.Act(g.ID, Action{Kind: KindStand})
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, g.Status)
	assert.Equal(t, ResultWin, g.PlayerHands[0].Result)
	assert.Equal(t, "20.00", g.TotalPayout.StringFixed(2))
	// 赢了也不入账
	assert.Equal(t, "100", w.Balance().String())
}

func TestGame_Snapshot(t *testing.T) {
	engine, _, _ := newTestEngine(t, "100")
	engine.shoe.Load("5h", "6d", "9c", "7s")

	g, err := engine.Start(bet10(), "USD")
	require.NoError(t, err)

	state := g.Snapshot()
	assert.Equal(t, g.ID, state.GameHistoryID)
	assert.Equal(t, StatusPlayerTurn, state.Status)

	// 开牌前庄家只露明牌
	assert.False(t, state.DealerHand.IsRevealed)
	assert.Equal(t, []Card{"9c"}, state.DealerHand.Cards)

	require.Len(t, state.PlayerHands, 1)
	hand := state.PlayerHands[0]
	assert.Nil(t, hand.Result)
	assert.True(t, hand.AvailableActions.Hit)
	assert.True(t, hand.AvailableActions.Stand)
	assert.True(t, hand.AvailableActions.Double)
	assert.False(t, hand.AvailableActions.Split)
	assert.Equal(t, 10.0, state.BetAmount)

	g, err = engine.Act(g.ID, Action{Kind: KindStand})
	require.NoError(t, err)

	state = g.Snapshot()
	assert.Equal(t, StatusFinished, state.Status)
	assert.True(t, state.DealerHand.IsRevealed)
	assert.GreaterOrEqual(t, len(state.DealerHand.Cards), 2)
	require.NotNil(t, state.PlayerHands[0].Result)
	assert.Equal(t, Actions{}, state.PlayerHands[0].AvailableActions)
}
