package repository

import (
	"context"

	"github.com/wfunc/casino-server/internal/models"
	"gorm.io/gorm"
)

// TransactionRepository 钱包流水仓储接口
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	ListByRef(ctx context.Context, refID string) ([]*models.Transaction, error)
	List(ctx context.Context, limit int) ([]*models.Transaction, error)
}

// transactionRepo 钱包流水仓储实现
type transactionRepo struct {
	db *gorm.DB
}

// NewTransactionRepository 创建钱包流水仓储
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db: db}
}

// Create 写入一条流水
func (r *transactionRepo) Create(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// ListByRef 按关联ID查询流水
func (r *transactionRepo) ListByRef(ctx context.Context, refID string) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	err := r.db.WithContext(ctx).
		Where("ref_id = ?", refID).
		Order("created_at ASC").
		Find(&txs).Error
	return txs, err
}

// List 按时间倒序列出最近的流水
func (r *transactionRepo) List(ctx context.Context, limit int) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error
	return txs, err
}
