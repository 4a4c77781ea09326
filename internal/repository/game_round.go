package repository

import (
	"context"

	"github.com/wfunc/casino-server/internal/models"
	"gorm.io/gorm"
)

// GameRoundRepository 游戏回合历史仓储接口
type GameRoundRepository interface {
	Create(ctx context.Context, round *models.GameRound) error
	List(ctx context.Context, limit int) ([]*models.GameRound, error)
	ListByGame(ctx context.Context, gameName string, limit int) ([]*models.GameRound, error)
	CountByGame(ctx context.Context, gameName string) (int64, error)
}

// gameRoundRepo 游戏回合历史仓储实现
type gameRoundRepo struct {
	db *gorm.DB
}

// NewGameRoundRepository 创建游戏回合历史仓储
func NewGameRoundRepository(db *gorm.DB) GameRoundRepository {
	return &gameRoundRepo{db: db}
}

// Create 写入一条回合记录
func (r *gameRoundRepo) Create(ctx context.Context, round *models.GameRound) error {
	return r.db.WithContext(ctx).Create(round).Error
}

// List 按时间倒序列出最近的回合记录
func (r *gameRoundRepo) List(ctx context.Context, limit int) ([]*models.GameRound, error) {
	var rounds []*models.GameRound
	err := r.db.WithContext(ctx).
		Order("played_at DESC").
		Limit(limit).
		Find(&rounds).Error
	return rounds, err
}

// ListByGame 列出指定游戏的回合记录
func (r *gameRoundRepo) ListByGame(ctx context.Context, gameName string, limit int) ([]*models.GameRound, error) {
	var rounds []*models.GameRound
	err := r.db.WithContext(ctx).
		Where("game_name = ?", gameName).
		Order("played_at DESC").
		Limit(limit).
		Find(&rounds).Error
	return rounds, err
}

// CountByGame 统计指定游戏的回合数
func (r *gameRoundRepo) CountByGame(ctx context.Context, gameName string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GameRound{}).
		Where("game_name = ?", gameName).
		Count(&count).Error
	return count, err
}
