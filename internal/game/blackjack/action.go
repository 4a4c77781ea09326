package blackjack

// Kind 玩家操作类型
type Kind string

// 操作类型常量
const (
	KindInsurance Kind = "insurance"
	KindHit       Kind = "hit"
	KindStand     Kind = "stand"
	KindDouble    Kind = "double"
	KindSplit     Kind = "split"
)

// Action 在入口处解析好的玩家操作。
// Accept 仅对保险有意义：true 买保险，false 放弃。
type Action struct {
	Kind   Kind
	Accept bool
}
