package game

import (
	"github.com/shopspring/decimal"
)

// Type 游戏类型
type Type string

const (
	// TypeChickenCross 过关游戏（小鸡过马路）
	TypeChickenCross Type = "chicken-cross"
	// TypePlinko 弹珠掉落游戏
	TypePlinko Type = "plinko"
	// TypeBlackjack 21点
	TypeBlackjack Type = "blackjack"
)

// Session 一局进行中的游戏。每种游戏类型同一时间至多一局。
type Session interface {
	// SessionID 会话唯一标识
	SessionID() string
	// Finished 是否已到达终态
	Finished() bool
}

// Wallet 引擎消费的钱包接口。
// 扣款在抽取任何随机数之前完成，入账只在结算时发生一次。
type Wallet interface {
	Debit(amount decimal.Decimal) error
	Credit(amount decimal.Decimal)
	Currency() string
}
