package api

import (
	"bytes"
	"strconv"

	"github.com/shopspring/decimal"
)

// FlexAmount 投注金额字段。前端有时发数字有时发字符串，
// 缺失、非数字或为0时回落到1。
type FlexAmount struct {
	value decimal.Decimal
}

// UnmarshalJSON 实现json.Unmarshaler
func (a *FlexAmount) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if s == "" || s == "null" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		// 非数字按缺省处理，不让整个请求失败
		return nil
	}
	a.value = d
	return nil
}

// OrDefault 返回金额，未给或为0时返回1
func (a FlexAmount) OrDefault() decimal.Decimal {
	if a.value.IsZero() {
		return decimal.NewFromInt(1)
	}
	return a.value
}

// FlexInt 行数等整数字段，同样兼容字符串形式
type FlexInt struct {
	value int
	set   bool
}

// UnmarshalJSON 实现json.Unmarshaler
func (i *FlexInt) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if s == "" || s == "null" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return nil
		}
		n = int(f)
	}
	i.value = n
	i.set = true
	return nil
}

// OrDefault 返回整数值，未给时返回def
func (i FlexInt) OrDefault(def int) int {
	if !i.set || i.value == 0 {
		return def
	}
	return i.value
}

// GameResult 各游戏共用的结算头
type GameResult struct {
	GameOver      bool    `json:"game_over"`
	Multiplier    float64 `json:"multiplier"`
	Payout        string  `json:"payout"`
	GameHistoryID string  `json:"game_history_id"`
	GameName      string  `json:"game_name"`
	Currency      string  `json:"currency"`
	BetAmount     float64 `json:"bet_amount"`
}
