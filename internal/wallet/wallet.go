package wallet

import (
	"sync"

	"github.com/shopspring/decimal"
	"github.com/wfunc/casino-server/internal/errors"
)

// Wallet 模拟钱包，整个进程只有一个实例。
// 余额使用十进制定点数，结算链上不会产生二进制浮点漂移。
type Wallet struct {
	mu       sync.Mutex
	balance  decimal.Decimal
	currency string
}

// New 创建钱包
func New(initialBalance decimal.Decimal, currency string) *Wallet {
	return &Wallet{
		balance:  initialBalance,
		currency: currency,
	}
}

// NewFromString 从十进制字符串创建钱包
func NewFromString(initialBalance string, currency string) (*Wallet, error) {
	amount, err := decimal.NewFromString(initialBalance)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidParam, "初始余额不是有效的十进制数")
	}
	return New(amount, currency), nil
}

// Debit 扣款。投注在任何随机数产生之前原子扣除，
// 所以输掉的结果永远不需要回滚余额。
func (w *Wallet) Debit(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return errors.New(errors.ErrInvalidBet, amount.String())
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.balance.LessThan(amount) {
		return errors.New(errors.ErrInsufficientBalance)
	}
	w.balance = w.balance.Sub(amount)
	return nil
}

// Credit 入账。金额为零时不做任何事。
func (w *Wallet) Credit(amount decimal.Decimal) {
	if amount.Sign() <= 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.balance = w.balance.Add(amount)
}

// Balance 获取当前余额
func (w *Wallet) Balance() decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balance
}

// Currency 获取钱包币种
func (w *Wallet) Currency() string {
	return w.currency
}
