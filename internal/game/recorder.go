package game

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wfunc/casino-server/internal/models"
	"github.com/wfunc/casino-server/internal/repository"
	"go.uber.org/zap"
)

// Recorder 把结算结果写成历史记录与钱包流水。
// 只做审计用途，写入失败不影响游戏结果。
type Recorder struct {
	rounds repository.GameRoundRepository
	trans  repository.TransactionRepository
	logger *zap.Logger
}

// NewRecorder 创建结算记录器
func NewRecorder(rounds repository.GameRoundRepository, trans repository.TransactionRepository, logger *zap.Logger) *Recorder {
	return &Recorder{
		rounds: rounds,
		trans:  trans,
		logger: logger,
	}
}

// RecordRound 记录一个已结算的回合
func (r *Recorder) RecordRound(ctx context.Context, gameName Type, roundID string, bet decimal.Decimal, multiplier float64, payout decimal.Decimal, currency string, result models.JSONMap) {
	if r == nil || r.rounds == nil {
		return
	}

	round := &models.GameRound{
		RoundID:    roundID,
		GameName:   string(gameName),
		BetAmount:  bet.String(),
		Multiplier: multiplier,
		Payout:     payout.StringFixed(2),
		Currency:   currency,
		Result:     result,
		PlayedAt:   time.Now(),
	}

	if err := r.rounds.Create(ctx, round); err != nil {
		r.logger.Error("写入回合记录失败",
			zap.String("game", string(gameName)),
			zap.String("round_id", roundID),
			zap.Error(err))
	}
}

// RecordTransaction 记录一条钱包流水
func (r *Recorder) RecordTransaction(ctx context.Context, txType string, amount decimal.Decimal, before, after decimal.Decimal, currency string, refID string, refType Type) {
	if r == nil || r.trans == nil {
		return
	}

	tx := &models.Transaction{
		OrderNo:       uuid.NewString(),
		Type:          txType,
		Amount:        amount.String(),
		BeforeBalance: before.String(),
		AfterBalance:  after.String(),
		Currency:      currency,
		RefID:         refID,
		RefType:       string(refType),
	}

	if err := r.trans.Create(ctx, tx); err != nil {
		r.logger.Error("写入钱包流水失败",
			zap.String("type", txType),
			zap.String("ref_id", refID),
			zap.Error(err))
	}
}
