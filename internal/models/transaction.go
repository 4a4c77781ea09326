package models

// Transaction 钱包流水表
type Transaction struct {
	BaseModel
	OrderNo       string `gorm:"uniqueIndex;size:64;not null" json:"order_no"`
	Type          string `gorm:"size:20;not null;index" json:"type"` // bet, win, insurance, refund
	Amount        string `gorm:"size:32;not null" json:"amount"`     // 十进制字符串
	BeforeBalance string `gorm:"size:32" json:"before_balance"`
	AfterBalance  string `gorm:"size:32" json:"after_balance"`
	Currency      string `gorm:"size:10;default:'USD'" json:"currency"`
	RefID         string `gorm:"size:100;index" json:"ref_id"` // 关联的会话/牌局ID
	RefType       string `gorm:"size:50" json:"ref_type"`      // 游戏名
	Description   string `gorm:"size:500" json:"description"`
}

// TableName 指定表名
func (Transaction) TableName() string {
	return "transactions"
}
