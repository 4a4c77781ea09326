package blackjack

import "math/rand"

// shoeDecks 牌靴副数
const shoeDecks = 8

// reshuffleAt 余牌低于此数时重建牌靴
const reshuffleAt = 52

// Shoe 牌靴。从牌堆末尾发牌，洗牌在重建时一次完成。
type Shoe struct {
	cards []Card
	rng   *rand.Rand
}

// NewShoe 创建并洗好一副8副牌的牌靴
func NewShoe(rng *rand.Rand) *Shoe {
	s := &Shoe{rng: rng}
	s.refill()
	return s
}

func (s *Shoe) refill() {
	cards := make([]Card, 0, shoeDecks*52)
	for d := 0; d < shoeDecks; d++ {
		for _, r := range ranks {
			for _, su := range suits {
				cards = append(cards, Card(r+su))
			}
		}
	}
	s.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	s.cards = cards
}

// Draw 发一张牌，必要时先重建牌靴
func (s *Shoe) Draw() Card {
	if len(s.cards) < reshuffleAt {
		s.refill()
	}
	c := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return c
}

// Remaining 余牌数
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Load 把指定的牌压到靴顶，之后按给定顺序发出。测试用。
func (s *Shoe) Load(cards ...Card) {
	for i := len(cards) - 1; i >= 0; i-- {
		s.cards = append(s.cards, cards[i])
	}
}
