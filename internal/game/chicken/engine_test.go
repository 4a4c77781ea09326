package chicken

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

func TestTables(t *testing.T) {
	// 第0回合必然存活
	assert.Equal(t, 1.0, Survival(0, 3))

	// medium 第1回合：生存率 22/25=88%，倍数 floor(96/88*100)/100 = 1.09
	assert.Equal(t, "88.0000", WinPercentage(1, 3))
	assert.Equal(t, 1.09, Multiplier(1, 3))

	// easy 第1回合：24/25=96%，96/96=1.00
	assert.Equal(t, 1.0, Multiplier(1, 1))

	// 倍数随回合单调不减
	for name, d := range Difficulties {
		prev := 0.0
		for r := 1; r <= d.MaxRounds; r++ {
			m := Multiplier(r, d.Factor)
			assert.GreaterOrEqual(t, m, prev, "难度 %s 第 %d 回合", name, r)
			prev = m
		}
	}
}

func TestEngine_StartAndAdvance(t *testing.T) {
	engine, w, store := newTestEngine(t, "100")
	engine.roll = func() float64 { return 0 } // 永远赢

	session, err := engine.Start(decimal.NewFromInt(10), "medium", "USD")
	require.NoError(t, err)
	assert.Equal(t, "90", w.Balance().String())
	assert.Equal(t, 0, session.Round)
	assert.False(t, session.GameOver)

	// 槽位被占用，重复开局被拒绝
	_, err = engine.Start(decimal.NewFromInt(10), "medium", "USD")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrActiveGame))

	session, err = engine.Advance(session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, session.Round)
	assert.Equal(t, 1.09, session.CurrentMultiplier)
	assert.False(t, session.GameOver)
	require.Len(t, session.Results, 1)
	assert.Equal(t, "88.0000", session.Results[0].WinPercentage)
	assert.True(t, session.Results[0].CanCashout)
	assert.NotEmpty(t, session.Results[0].GameActionID)

	// 会话保持注册
	_, ok := store.Get(game.TypeChickenCross)
	assert.True(t, ok)
}

func TestEngine_AdvanceLoss(t *testing.T) {
	engine, w, store := newTestEngine(t, "100")
	engine.roll = func() float64 { return 99.99 } // 永远输

	session, err := engine.Start(decimal.NewFromInt(10), "hard", "USD")
	require.NoError(t, err)

	session, err = engine.Advance(session.ID)
	require.NoError(t, err)
	assert.True(t, session.GameOver)
	assert.Equal(t, float64(0), session.CurrentMultiplier)
	assert.Equal(t, "0", session.Payout)

	// 输了不返还投注，槽位立即清空
	assert.Equal(t, "90", w.Balance().String())
	_, ok := store.Get(game.TypeChickenCross)
	assert.False(t, ok)

	// 新的一局可以立即开始
	_, err = engine.Start(decimal.NewFromInt(10), "easy", "USD")
	assert.NoError(t, err)
}

func TestEngine_CashOut(t *testing.T) {
	engine, w, store := newTestEngine(t, "100")
	engine.roll = func() float64 { return 0 }

	session, err := engine.Start(decimal.NewFromInt(10), "medium", "USD")
	require.NoError(t, err)

	// 第0回合不能提现
	_, err = engine.CashOut(session.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCannotCashout))

	_, err = engine.Advance(session.ID)
	require.NoError(t, err)

	session, err = engine.CashOut(session.ID)
	require.NoError(t, err)
	assert.True(t, session.GameOver)
	assert.Equal(t, "10.90", session.Payout)

	// 90 + 10*1.09 = 100.90
	assert.Equal(t, "100.9", w.Balance().String())
	_, ok := store.Get(game.TypeChickenCross)
	assert.False(t, ok)

	// 已结算的会话不能再提现
	_, err = engine.CashOut(session.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoActiveSession))
}

func TestEngine_MaxRounds(t *testing.T) {
	engine, _, _ := newTestEngine(t, "1000")
	engine.roll = func() float64 { return 0 }

	session, err := engine.Start(decimal.NewFromInt(10), "expert", "USD")
	require.NoError(t, err)

	for r := 1; r <= Difficulties["expert"].MaxRounds; r++ {
		session, err = engine.Advance(session.ID)
		require.NoError(t, err)
	}

	_, err = engine.Advance(session.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMaxRounds))
}

func TestEngine_Validation(t *testing.T) {
	engine, w, _ := newTestEngine(t, "5")

	// 非法难度先于扣款检查
	_, err := engine.Start(decimal.NewFromInt(10), "nightmare", "USD")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidDifficulty))
	assert.Equal(t, "5", w.Balance().String())

	// 余额不足
	_, err = engine.Start(decimal.NewFromInt(10), "easy", "USD")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientBalance))
	assert.Equal(t, "5", w.Balance().String())

	// 错误的会话ID
	session, err := engine.Start(decimal.NewFromInt(1), "easy", "USD")
	require.NoError(t, err)
	_, err = engine.Advance("no-such-session")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoActiveSession))
	_, err = engine.Advance(session.ID)
	assert.NoError(t, err)
}

func TestEngine_AutoplayWin(t *testing.T) {
	engine, w, store := newTestEngine(t, "100")
	engine.roll = func() float64 { return 0 }

	session, err := engine.Autoplay(decimal.NewFromInt(10), "medium", 3, "USD")
	require.NoError(t, err)
	assert.True(t, session.GameOver)
	assert.Equal(t, 3, session.Round)
	assert.Len(t, session.Results, 3)
	assert.Equal(t, Multiplier(3, 3), session.CurrentMultiplier)

	payout := decimal.NewFromInt(10).Mul(decimal.NewFromFloat(Multiplier(3, 3)))
	assert.Equal(t, payout.StringFixed(2), session.Payout)

	// 自动过关从不注册会话
	_, ok := store.Get(game.TypeChickenCross)
	assert.False(t, ok)

	expected := decimal.NewFromInt(90).Add(payout)
	assert.True(t, w.Balance().Equal(expected))
}

func TestEngine_AutoplayLoss(t *testing.T) {
	engine, w, store := newTestEngine(t, "100")
	engine.roll = func() float64 { return 99.99 }

	session, err := engine.Autoplay(decimal.NewFromInt(10), "easy", 5, "USD")
	require.NoError(t, err)
	assert.True(t, session.GameOver)
	assert.Equal(t, 1, session.Round)
	assert.Equal(t, "0", session.Payout)
	assert.Equal(t, "90", w.Balance().String())

	_, ok := store.Get(game.TypeChickenCross)
	assert.False(t, ok)
}

func TestEngine_AutoplayCapsAtMaxRounds(t *testing.T) {
	engine, _, _ := newTestEngine(t, "100")
	engine.roll = func() float64 { return 0 }

	session, err := engine.Autoplay(decimal.NewFromInt(10), "expert", 99, "USD")
	require.NoError(t, err)
	assert.Equal(t, Difficulties["expert"].MaxRounds, session.Round)
	assert.True(t, session.GameOver)
}

func TestEngine_ActiveGameBlocksAutoplay(t *testing.T) {
	engine, _, _ := newTestEngine(t, "100")
	engine.roll = func() float64 { return 0 }

	_, err := engine.Start(decimal.NewFromInt(10), "medium", "USD")
	require.NoError(t, err)

	_, err = engine.Autoplay(decimal.NewFromInt(10), "medium", 2, "USD")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrActiveGame))
}
