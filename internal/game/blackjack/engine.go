package blackjack

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wfunc/casino-server/internal/errors"
	"github.com/wfunc/casino-server/internal/game"
	"go.uber.org/zap"
)

// 对局状态
const (
	StatusPlayerTurn = "playerTurn"
	StatusDealerTurn = "dealerTurn"
	StatusFinished   = "finished"
)

// freeplayBet 试玩局的名义投注
var freeplayBet = decimal.NewFromInt(10)

// Game 一局21点
type Game struct {
	ID               string
	ActionID         string
	BetAmount        decimal.Decimal
	Currency         string
	Status           string
	PlayerHands      []*Hand
	DealerCards      []Card
	CurrentTurn      int
	CurrentHandIndex int
	InsuranceOffered bool
	InsuranceTaken   bool
	InsuranceWon     bool
	IsSplit          bool
	IsFreeplay       bool
	TotalPayout      decimal.Decimal
}

// SessionID 实现 game.Session
func (g *Game) SessionID() string { return g.ID }

// Finished 实现 game.Session
func (g *Game) Finished() bool { return g.Status == StatusFinished }

// Engine 21点引擎。牌靴跨局复用，结算时一次性入账。
type Engine struct {
	mu     sync.Mutex
	wallet game.Wallet
	store  *game.Store
	logger *zap.Logger
	shoe   *Shoe
}

// NewEngine 创建21点引擎
func NewEngine(wallet game.Wallet, store *game.Store, logger *zap.Logger) *Engine {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Engine{
		wallet: wallet,
		store:  store,
		logger: logger,
		shoe:   NewShoe(rng),
	}
}

// Start 开新局：扣注、发牌、处理天牌。
// 庄家明牌是A时开放保险；任一方天牌且无保险可买时当场结算。
func (e *Engine) Start(bet decimal.Decimal, currency string) (*Game, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.store.Get(game.TypeBlackjack); ok {
		return nil, errors.New(errors.ErrActiveGame)
	}

	if err := e.wallet.Debit(bet); err != nil {
		return nil, err
	}

	if currency == "" {
		currency = e.wallet.Currency()
	}

	g := e.deal(bet, currency, false)

	e.logger.Info("21点开局",
		zap.String("game_id", g.ID),
		zap.String("bet_amount", bet.String()))

	playerBJ := IsBlackjack(g.PlayerHands[0].Cards)
	dealerBJ := IsBlackjack(g.DealerCards)
	if playerBJ || dealerBJ {
		if dealerBJ && !g.InsuranceOffered {
			// 庄家暗天牌（明牌非A），直接开牌结算
			e.playDealer(g)
			e.resolve(g)
			return g, nil
		}
		if playerBJ && !g.InsuranceOffered {
			e.playDealer(g)
			e.resolve(g)
			return g, nil
		}
		// 玩家天牌但保险窗口开着：只等保险决定
	}

	if err := e.store.TryAcquire(game.TypeBlackjack, g); err != nil {
		e.wallet.Credit(bet)
		return nil, err
	}
	return g, nil
}

// Freeplay 开试玩局：名义投注10、不触碰钱包、顶掉已有对局。
func (e *Engine) Freeplay() (*Game, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store.Release(game.TypeBlackjack)
	g := e.deal(freeplayBet, e.wallet.Currency(), true)

	if err := e.store.TryAcquire(game.TypeBlackjack, g); err != nil {
		return nil, err
	}

	e.logger.Info("21点试玩开局", zap.String("game_id", g.ID))
	return g, nil
}

// Active 获取进行中的对局
func (e *Engine) Active() *Game {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, ok := e.store.Get(game.TypeBlackjack)
	if !ok {
		return nil
	}
	return session.(*Game)
}

// Act 执行一步玩家操作。每次操作换发新的 ActionID。
func (e *Engine) Act(gameID string, action Action) (*Game, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, ok := e.store.Get(game.TypeBlackjack)
	if !ok {
		return nil, errors.New(errors.ErrNoActiveGame)
	}
	g := session.(*Game)
	if g.ID != gameID {
		return nil, errors.New(errors.ErrNoActiveGame, gameID)
	}

	g.ActionID = uuid.NewString()

	if action.Kind == KindInsurance {
		return e.actInsurance(g, action.Accept)
	}

	hand := g.currentHand()
	if hand == nil || hand.IsStand || hand.IsBust {
		return nil, errors.New(errors.ErrIllegalAction, string(action.Kind))
	}

	var err error
	switch action.Kind {
	case KindHit:
		e.actHit(g, hand)
	case KindStand:
		e.actStand(g, hand)
	case KindDouble:
		err = e.actDouble(g, hand)
	case KindSplit:
		err = e.actSplit(g, hand)
	default:
		err = errors.New(errors.ErrIllegalAction, string(action.Kind))
	}
	if err != nil {
		return nil, err
	}

	if g.Finished() {
		e.store.Release(game.TypeBlackjack)
	}
	return g, nil
}

// deal 发初始两轮牌并建好对局
func (e *Engine) deal(bet decimal.Decimal, currency string, freeplay bool) *Game {
	playerCards := []Card{e.shoe.Draw(), e.shoe.Draw()}
	dealerCards := []Card{e.shoe.Draw(), e.shoe.Draw()}

	g := &Game{
		ID:          uuid.NewString(),
		ActionID:    uuid.NewString(),
		BetAmount:   bet,
		Currency:    currency,
		Status:      StatusPlayerTurn,
		PlayerHands: []*Hand{newHand(playerCards, 0, true)},
		DealerCards: dealerCards,
		CurrentTurn: 1,
		IsFreeplay:  freeplay,
		TotalPayout: decimal.Zero,
	}
	if dealerCards[0].Rank() == "A" {
		g.InsuranceOffered = true
	}
	return g
}

// actInsurance 保险决定。窗口一经动用即关闭；
// 接受但余额不够半注时静默放弃。之后任一方天牌立即结算。
func (e *Engine) actInsurance(g *Game, accept bool) (*Game, error) {
	if !g.InsuranceOffered {
		return nil, errors.New(errors.ErrIllegalAction, "insurance")
	}
	g.InsuranceOffered = false

	if accept {
		cost := g.BetAmount.Mul(decimal.NewFromFloat(0.5))
		if g.IsFreeplay {
			g.InsuranceTaken = true
		} else if err := e.wallet.Debit(cost); err == nil {
			g.InsuranceTaken = true
		}
	}

	if IsBlackjack(g.DealerCards) || IsBlackjack(g.PlayerHands[0].Cards) {
		e.playDealer(g)
		e.resolve(g)
		e.store.Release(game.TypeBlackjack)
	}
	return g, nil
}

func (e *Engine) actHit(g *Game, hand *Hand) {
	hand.Cards = append(hand.Cards, e.shoe.Draw())
	switch val := hand.Value(); {
	case val > 21:
		hand.IsBust = true
		hand.IsActive = false
		if !e.checkAndFinish(g) {
			e.advanceToNextHand(g)
		}
	case val == 21:
		hand.IsStand = true
		hand.IsActive = false
		if !e.checkAndFinish(g) {
			e.advanceToNextHand(g)
		}
	}
}

func (e *Engine) actStand(g *Game, hand *Hand) {
	hand.IsStand = true
	hand.IsActive = false
	if !e.checkAndFinish(g) {
		e.advanceToNextHand(g)
	}
}

// actDouble 加倍：只允许起手两张，补一张后强制停牌
func (e *Engine) actDouble(g *Game, hand *Hand) error {
	if len(hand.Cards) != 2 {
		return errors.New(errors.ErrIllegalAction, "double")
	}
	if !g.IsFreeplay {
		if err := e.wallet.Debit(g.BetAmount); err != nil {
			return err
		}
	}

	hand.IsDoubled = true
	hand.Cards = append(hand.Cards, e.shoe.Draw())
	if hand.Value() > 21 {
		hand.IsBust = true
	}
	hand.IsStand = true
	hand.IsActive = false
	if !e.checkAndFinish(g) {
		e.advanceToNextHand(g)
	}
	return nil
}

// actSplit 分牌：同点数起手两张、每局一次。
// 分出A时两手各补一张后强制停牌。
func (e *Engine) actSplit(g *Game, hand *Hand) error {
	if len(hand.Cards) != 2 || hand.Cards[0].Value() != hand.Cards[1].Value() || g.IsSplit {
		return errors.New(errors.ErrIllegalAction, "split")
	}
	if !g.IsFreeplay {
		if err := e.wallet.Debit(g.BetAmount); err != nil {
			return err
		}
	}

	g.IsSplit = true
	c1, c2 := hand.Cards[0], hand.Cards[1]
	h1 := newHand([]Card{c1, e.shoe.Draw()}, 0, true)
	h2 := newHand([]Card{c2}, 1, false)

	if c1.Rank() == "A" {
		h1.IsStand = true
		h1.IsActive = false
		h2.Cards = append(h2.Cards, e.shoe.Draw())
		h2.IsStand = true
	}

	g.PlayerHands = []*Hand{h1, h2}
	g.CurrentHandIndex = 0

	if c1.Rank() == "A" {
		e.checkAndFinish(g)
	}
	return nil
}

func (g *Game) currentHand() *Hand {
	if g.CurrentHandIndex < 0 || g.CurrentHandIndex >= len(g.PlayerHands) {
		return nil
	}
	return g.PlayerHands[g.CurrentHandIndex]
}

// playDealer 庄家补牌到17点或以上（软17停牌）
func (e *Engine) playDealer(g *Game) {
	g.Status = StatusDealerTurn
	for HandValue(g.DealerCards) < 17 {
		g.DealerCards = append(g.DealerCards, e.shoe.Draw())
	}
}

// checkAndFinish 所有手牌都定格后进入结算。
// 只要有一手未爆牌，庄家就要开牌补牌。
func (e *Engine) checkAndFinish(g *Game) bool {
	for _, h := range g.PlayerHands {
		if !h.IsStand && !h.IsBust && h.Value() != 21 {
			return false
		}
	}
	anyAlive := false
	for _, h := range g.PlayerHands {
		if !h.IsBust {
			anyAlive = true
			break
		}
	}
	if anyAlive {
		e.playDealer(g)
	}
	e.resolve(g)
	return true
}

// advanceToNextHand 轮到下一手未定格的牌。
// 分牌后的单张手牌在轮到时补第二张；分出的A补完即停。
func (e *Engine) advanceToNextHand(g *Game) {
	for i := g.CurrentHandIndex + 1; i < len(g.PlayerHands); i++ {
		h := g.PlayerHands[i]
		if h.IsStand || h.IsBust {
			continue
		}
		g.CurrentHandIndex = i
		h.IsActive = true
		if g.IsSplit && len(h.Cards) == 1 {
			splitAce := h.Cards[0].Rank() == "A"
			h.Cards = append(h.Cards, e.shoe.Draw())
			if splitAce {
				h.IsStand = true
				h.IsActive = false
				if !e.checkAndFinish(g) {
					e.advanceToNextHand(g)
				}
				return
			}
		}
		return
	}
	e.checkAndFinish(g)
}

// resolve 逐手结算并一次性入账。
// 未分牌的两张21点按3:2赔付，双方天牌退回本注。
func (e *Engine) resolve(g *Game) {
	g.Status = StatusFinished
	dealerVal := HandValue(g.DealerCards)
	dealerBust := dealerVal > 21
	dealerBJ := IsBlackjack(g.DealerCards)
	total := decimal.Zero

	for _, hand := range g.PlayerHands {
		playerVal := hand.Value()
		playerBJ := IsBlackjack(hand.Cards) && !g.IsSplit

		stake := g.BetAmount
		if hand.IsDoubled {
			stake = stake.Mul(decimal.NewFromInt(2))
		}

		switch {
		case hand.IsBust:
			hand.Result = ResultLose
		case playerBJ && dealerBJ:
			hand.Result = ResultPush
			total = total.Add(stake)
		case playerBJ:
			hand.Result = ResultWin
			hand.IsWin = true
			total = total.Add(g.BetAmount.Mul(decimal.NewFromFloat(2.5)))
		case dealerBJ:
			hand.Result = ResultLose
		case dealerBust:
			hand.Result = ResultWin
			hand.IsWin = true
			total = total.Add(stake.Mul(decimal.NewFromInt(2)))
		case playerVal > dealerVal:
			hand.Result = ResultWin
			hand.IsWin = true
			total = total.Add(stake.Mul(decimal.NewFromInt(2)))
		case playerVal == dealerVal:
			hand.Result = ResultPush
			total = total.Add(stake)
		default:
			hand.Result = ResultLose
		}
		hand.IsActive = false
	}

	if g.InsuranceTaken && dealerBJ {
		g.InsuranceWon = true
		total = total.Add(g.BetAmount.Mul(decimal.NewFromFloat(1.5)))
	}

	g.TotalPayout = total
	if !g.IsFreeplay && total.IsPositive() {
		e.wallet.Credit(total)
	}

	e.logger.Info("21点结算",
		zap.String("game_id", g.ID),
		zap.Int("dealer_value", dealerVal),
		zap.Bool("freeplay", g.IsFreeplay),
		zap.String("total_payout", total.StringFixed(2)))
}
