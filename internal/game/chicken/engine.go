package chicken

import (
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wfunc/casino-server/internal/errors"
	"github.com/wfunc/casino-server/internal/game"
	"go.uber.org/zap"
)

// RoundResult 单回合结果
type RoundResult struct {
	WinPercentage string  `json:"win_percentage"`
	Multiplier    float64 `json:"multiplier"`
	CanCashout    bool    `json:"can_cashout"`
	GameActionID  string  `json:"game_action_id"`
}

// Session 过关游戏会话。注册表清槽的瞬间就是 GameOver 变为 true 的瞬间。
type Session struct {
	ID                string
	BetAmount         decimal.Decimal
	Currency          string
	Difficulty        string
	Round             int
	CurrentMultiplier float64
	Payout            string // 结算时写入的十进制字符串
	GameOver          bool
	Results           []RoundResult
}

// SessionID 实现 game.Session
func (s *Session) SessionID() string { return s.ID }

// Finished 实现 game.Session
func (s *Session) Finished() bool { return s.GameOver }

// Engine 过关游戏引擎。所有操作串行执行。
type Engine struct {
	mu     sync.Mutex
	wallet game.Wallet
	store  *game.Store
	logger *zap.Logger
	roll   func() float64 // [0,100) 均匀分布
}

// NewEngine 创建过关游戏引擎
func NewEngine(wallet game.Wallet, store *game.Store, logger *zap.Logger) *Engine {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Engine{
		wallet: wallet,
		store:  store,
		logger: logger,
		roll:   func() float64 { return rng.Float64() * 100 },
	}
}

// Start 开始新会话：占用槽位、扣除投注、回合数归零。
func (e *Engine) Start(bet decimal.Decimal, difficulty, currency string) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.store.Get(game.TypeChickenCross); ok {
		return nil, errors.New(errors.ErrActiveGame)
	}

	if _, ok := Difficulties[difficulty]; !ok {
		return nil, errors.New(errors.ErrInvalidDifficulty, difficulty)
	}

	if err := e.wallet.Debit(bet); err != nil {
		return nil, err
	}

	if currency == "" {
		currency = e.wallet.Currency()
	}

	session := &Session{
		ID:         uuid.NewString(),
		BetAmount:  bet,
		Currency:   currency,
		Difficulty: difficulty,
		Payout:     "0",
		Results:    []RoundResult{},
	}

	if err := e.store.TryAcquire(game.TypeChickenCross, session); err != nil {
		// 槽位刚被别人占掉，退回投注
		e.wallet.Credit(bet)
		return nil, err
	}

	e.logger.Info("过关游戏开始",
		zap.String("session_id", session.ID),
		zap.String("difficulty", difficulty),
		zap.String("bet_amount", bet.String()))

	return session, nil
}

// Active 获取进行中的会话
func (e *Engine) Active() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, ok := e.store.Get(game.TypeChickenCross)
	if !ok {
		return nil
	}
	return session.(*Session)
}

// Advance 前进一个回合。输则以0结算并清槽，赢则保持会话开放。
func (e *Engine) Advance(sessionID string) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, err := e.active(sessionID)
	if err != nil {
		return nil, err
	}

	diff := Difficulties[session.Difficulty]
	next := session.Round + 1
	if next > diff.MaxRounds {
		return nil, errors.New(errors.ErrMaxRounds)
	}

	winPct := WinPercentage(next, diff.Factor)
	threshold, _ := strconv.ParseFloat(winPct, 64)
	roll := e.roll()
	actionID := uuid.NewString()

	session.Round = next
	if roll >= threshold {
		// 输了：倍数归零、payout保持"0"、立即清槽
		session.CurrentMultiplier = 0
		session.GameOver = true
		session.Results = append(session.Results, RoundResult{
			WinPercentage: winPct,
			GameActionID:  actionID,
		})
		e.store.Release(game.TypeChickenCross)

		e.logger.Info("过关失败",
			zap.String("session_id", session.ID),
			zap.Int("round", next))
		return session, nil
	}

	session.CurrentMultiplier = Multiplier(next, diff.Factor)
	session.Results = append(session.Results, RoundResult{
		WinPercentage: winPct,
		Multiplier:    session.CurrentMultiplier,
		CanCashout:    true,
		GameActionID:  actionID,
	})

	e.logger.Info("过关成功",
		zap.String("session_id", session.ID),
		zap.Int("round", next),
		zap.Float64("multiplier", session.CurrentMultiplier))

	return session, nil
}

// CashOut 提现：按当前倍数入账并清槽
func (e *Engine) CashOut(sessionID string) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, err := e.active(sessionID)
	if err != nil {
		return nil, err
	}

	if session.Round == 0 {
		return nil, errors.New(errors.ErrCannotCashout)
	}

	payout := session.BetAmount.Mul(decimal.NewFromFloat(session.CurrentMultiplier))
	session.Payout = payout.StringFixed(2)
	session.GameOver = true
	e.wallet.Credit(payout)
	e.store.Release(game.TypeChickenCross)

	e.logger.Info("过关游戏提现",
		zap.String("session_id", session.ID),
		zap.Int("round", session.Round),
		zap.String("payout", session.Payout))

	return session, nil
}

// Autoplay 自动过关到目标回合：中途失败立即止损，
// 全部通过则隐式提现。永远不会留下已注册的会话。
func (e *Engine) Autoplay(bet decimal.Decimal, difficulty string, targetRound int, currency string) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.store.Get(game.TypeChickenCross); ok {
		return nil, errors.New(errors.ErrActiveGame)
	}

	diff, ok := Difficulties[difficulty]
	if !ok {
		return nil, errors.New(errors.ErrInvalidDifficulty, difficulty)
	}

	if err := e.wallet.Debit(bet); err != nil {
		return nil, err
	}

	if currency == "" {
		currency = e.wallet.Currency()
	}

	session := &Session{
		ID:         uuid.NewString(),
		BetAmount:  bet,
		Currency:   currency,
		Difficulty: difficulty,
		Payout:     "0",
		Results:    []RoundResult{},
	}

	for r := 1; r <= targetRound && r <= diff.MaxRounds; r++ {
		winPct := WinPercentage(r, diff.Factor)
		threshold, _ := strconv.ParseFloat(winPct, 64)
		actionID := uuid.NewString()

		session.Round = r
		if e.roll() >= threshold {
			session.CurrentMultiplier = 0
			session.GameOver = true
			session.Results = append(session.Results, RoundResult{
				WinPercentage: winPct,
				GameActionID:  actionID,
			})
			break
		}

		session.CurrentMultiplier = Multiplier(r, diff.Factor)
		session.Results = append(session.Results, RoundResult{
			WinPercentage: winPct,
			Multiplier:    session.CurrentMultiplier,
			CanCashout:    true,
			GameActionID:  actionID,
		})
	}

	if !session.GameOver {
		session.GameOver = true
		payout := session.BetAmount.Mul(decimal.NewFromFloat(session.CurrentMultiplier))
		session.Payout = payout.StringFixed(2)
		e.wallet.Credit(payout)

		e.logger.Info("自动过关获胜",
			zap.String("session_id", session.ID),
			zap.Int("round", session.Round),
			zap.String("payout", session.Payout))
	} else {
		e.logger.Info("自动过关失败",
			zap.String("session_id", session.ID),
			zap.Int("round", session.Round))
	}

	return session, nil
}

// active 校验并返回进行中的会话
func (e *Engine) active(sessionID string) (*Session, error) {
	session, ok := e.store.Get(game.TypeChickenCross)
	if !ok {
		return nil, errors.New(errors.ErrNoActiveSession)
	}

	s := session.(*Session)
	if s.ID != sessionID {
		return nil, errors.New(errors.ErrNoActiveSession, sessionID)
	}
	return s, nil
}
