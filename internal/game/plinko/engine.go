package plinko

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wfunc/casino-server/internal/errors"
	"github.com/wfunc/casino-server/internal/game"
	"go.uber.org/zap"
)

// Result 单次投球结果
type Result struct {
	Path       string  `json:"path"`
	Bucket     int     `json:"bucket"`
	Multiplier float64 `json:"multiplier"`
	Rows       int     `json:"rows"`
	Risk       string  `json:"risk"`
	Payout     decimal.Decimal
}

// Engine 弹珠游戏引擎。无状态：一次请求完成整局。
type Engine struct {
	mu     sync.Mutex
	wallet game.Wallet
	logger *zap.Logger
	flip   func() bool // true 表示向右
}

// NewEngine 创建弹珠游戏引擎
func NewEngine(wallet game.Wallet, logger *zap.Logger) *Engine {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Engine{
		wallet: wallet,
		logger: logger,
		flip:   func() bool { return rng.Float64() >= 0.5 },
	}
}

// Play 投一颗球：扣除投注、逐行随机走位、按落点入账。
func (e *Engine) Play(bet decimal.Decimal, rows int, risk string) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !ValidRows(rows) {
		return nil, errors.New(errors.ErrInvalidRows)
	}
	if !ValidRisk(risk) {
		return nil, errors.New(errors.ErrInvalidRisk)
	}

	if err := e.wallet.Debit(bet); err != nil {
		return nil, err
	}

	result := e.drop(rows, risk)
	result.Payout = bet.Mul(decimal.NewFromFloat(result.Multiplier))
	e.wallet.Credit(result.Payout)

	e.logger.Info("弹珠落袋",
		zap.Int("rows", rows),
		zap.String("risk", risk),
		zap.Int("bucket", result.Bucket),
		zap.Float64("multiplier", result.Multiplier),
		zap.String("payout", result.Payout.StringFixed(2)))

	return result, nil
}

// drop 模拟小球走位。从中心出发，每行左右各偏移半格，
// 落袋编号等于向右的步数。
func (e *Engine) drop(rows int, risk string) *Result {
	var path strings.Builder
	bucket := 0
	for i := 0; i < rows; i++ {
		if e.flip() {
			path.WriteByte('R')
			bucket++
		} else {
			path.WriteByte('L')
		}
	}

	multipliers := Multipliers[rows][risk]
	if bucket < 0 {
		bucket = 0
	}
	if bucket > len(multipliers)-1 {
		bucket = len(multipliers) - 1
	}

	return &Result{
		Path:       path.String(),
		Bucket:     bucket,
		Multiplier: multipliers[bucket],
		Rows:       rows,
		Risk:       risk,
	}
}
