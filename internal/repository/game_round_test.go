package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/wfunc/casino-server/internal/models"
	"gorm.io/gorm"
)

// GameRoundRepositoryTestSuite 游戏回合仓储测试套件
type GameRoundRepositoryTestSuite struct {
	suite.Suite
	db        *gorm.DB
	roundRepo GameRoundRepository
	transRepo TransactionRepository
}

func (suite *GameRoundRepositoryTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.roundRepo = NewGameRoundRepository(suite.db)
	suite.transRepo = NewTransactionRepository(suite.db)
}

func (suite *GameRoundRepositoryTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// createRound 创建测试回合记录
func (suite *GameRoundRepositoryTestSuite) createRound(game string, payout string, playedAt time.Time) *models.GameRound {
	round := &models.GameRound{
		RoundID:   fmt.Sprintf("%s-%d", game, playedAt.UnixNano()),
		GameName:  game,
		BetAmount: "10",
		Payout:    payout,
		Currency:  "USD",
		Result:    models.JSONMap{"bucket": 3},
		PlayedAt:  playedAt,
	}
	err := suite.roundRepo.Create(context.Background(), round)
	suite.Require().NoError(err)
	return round
}

// TestGameRoundRepository_Create 测试写入回合记录
func (suite *GameRoundRepositoryTestSuite) TestGameRoundRepository_Create() {
	round := suite.createRound("plinko", "5.60", time.Now())
	assert.NotZero(suite.T(), round.ID)

	rounds, err := suite.roundRepo.List(context.Background(), 10)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), rounds, 1)
	assert.Equal(suite.T(), "plinko", rounds[0].GameName)
	assert.Equal(suite.T(), "5.60", rounds[0].Payout)
}

// TestGameRoundRepository_List 测试按时间倒序列出
func (suite *GameRoundRepositoryTestSuite) TestGameRoundRepository_List() {
	now := time.Now()
	suite.createRound("plinko", "0", now.Add(-2*time.Hour))
	suite.createRound("blackjack", "25", now.Add(-1*time.Hour))
	suite.createRound("chicken-cross", "10.90", now)

	rounds, err := suite.roundRepo.List(context.Background(), 2)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), rounds, 2)
	assert.Equal(suite.T(), "chicken-cross", rounds[0].GameName)
	assert.Equal(suite.T(), "blackjack", rounds[1].GameName)
}

// TestGameRoundRepository_ListByGame 测试按游戏筛选
func (suite *GameRoundRepositoryTestSuite) TestGameRoundRepository_ListByGame() {
	now := time.Now()
	suite.createRound("plinko", "0", now.Add(-1*time.Minute))
	suite.createRound("plinko", "13", now)
	suite.createRound("blackjack", "25", now)

	rounds, err := suite.roundRepo.ListByGame(context.Background(), "plinko", 10)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), rounds, 2)

	count, err := suite.roundRepo.CountByGame(context.Background(), "plinko")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), count)
}

// TestTransactionRepository_CreateAndQuery 测试流水写入与查询
func (suite *GameRoundRepositoryTestSuite) TestTransactionRepository_CreateAndQuery() {
	ctx := context.Background()

	bet := &models.Transaction{
		OrderNo:       "tx-1",
		Type:          "bet",
		Amount:        "10",
		BeforeBalance: "10000",
		AfterBalance:  "9990",
		Currency:      "USD",
		RefID:         "session-1",
		RefType:       "chicken-cross",
	}
	win := &models.Transaction{
		OrderNo:       "tx-2",
		Type:          "win",
		Amount:        "10.90",
		BeforeBalance: "9990",
		AfterBalance:  "10000.90",
		Currency:      "USD",
		RefID:         "session-1",
		RefType:       "chicken-cross",
	}

	assert.NoError(suite.T(), suite.transRepo.Create(ctx, bet))
	assert.NoError(suite.T(), suite.transRepo.Create(ctx, win))

	txs, err := suite.transRepo.ListByRef(ctx, "session-1")
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), txs, 2)
	assert.Equal(suite.T(), "bet", txs[0].Type)
	assert.Equal(suite.T(), "win", txs[1].Type)

	// 唯一索引冲突
	dup := &models.Transaction{OrderNo: "tx-1", Type: "bet", Amount: "1"}
	assert.Error(suite.T(), suite.transRepo.Create(ctx, dup))
}

func TestGameRoundRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(GameRoundRepositoryTestSuite))
}
