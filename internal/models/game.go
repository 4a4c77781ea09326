package models

import (
	"time"
)

// GameRound 游戏回合历史表。
// 只作为历史/审计记录，会话本身不落库。
type GameRound struct {
	BaseModel
	RoundID    string    `gorm:"uniqueIndex;size:64;not null" json:"round_id"`
	GameName   string    `gorm:"size:50;not null;index" json:"game_name"` // chicken-cross, plinko, blackjack
	BetAmount  string    `gorm:"size:32;not null" json:"bet_amount"`      // 十进制字符串
	Multiplier float64   `gorm:"default:0" json:"multiplier"`
	Payout     string    `gorm:"size:32;default:'0'" json:"payout"` // 十进制字符串
	Currency   string    `gorm:"size:10;default:'USD'" json:"currency"`
	Result     JSONMap   `gorm:"type:json" json:"result"`
	PlayedAt   time.Time `json:"played_at"`
}

// TableName 指定表名
func (GameRound) TableName() string {
	return "game_rounds"
}
