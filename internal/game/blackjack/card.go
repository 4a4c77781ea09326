package blackjack

// Card 牌面编码：点数+花色，如 "Ah"、"Td"
type Card string

var ranks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "T", "J", "Q", "K", "A"}

var suits = []string{"h", "d", "c", "s"}

var rankValues = map[string]int{
	"2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7, "8": 8, "9": 9,
	"T": 10, "J": 10, "Q": 10, "K": 10, "A": 11,
}

// Rank 点数部分
func (c Card) Rank() string {
	if len(c) < 2 {
		return ""
	}
	return string(c[:len(c)-1])
}

// Value 计点：人头牌10点，A先按11点
func (c Card) Value() int {
	return rankValues[c.Rank()]
}

// HandValue 手牌点数，A在爆牌时逐张降为1点
func HandValue(cards []Card) int {
	total, aces := 0, 0
	for _, c := range cards {
		if c.Rank() == "A" {
			aces++
			total += 11
		} else {
			total += c.Value()
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// IsBlackjack 两张牌凑成21点
func IsBlackjack(cards []Card) bool {
	return len(cards) == 2 && HandValue(cards) == 21
}
