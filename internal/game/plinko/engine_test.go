package plinko

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/casino-server/internal/errors"
	"github.com/wfunc/casino-server/internal/wallet"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, balance string) (*Engine, *wallet.Wallet) {
	t.Helper()
	w, err := wallet.NewFromString(balance, "USD")
	require.NoError(t, err)
	return NewEngine(w, zap.NewNop()), w
}

func TestTables(t *testing.T) {
	// 每张赔率表有 rows+1 个槽位且左右对称
	for rows, byRisk := range Multipliers {
		for risk, table := range byRisk {
			require.Len(t, table, rows+1, "rows=%d risk=%s", rows, risk)
			for i := range table {
				assert.Equal(t, table[len(table)-1-i], table[i],
					"rows=%d risk=%s 槽位 %d 不对称", rows, risk, i)
			}
		}
	}
}

func TestEngine_Play(t *testing.T) {
	tests := []struct {
		name   string
		flip   bool
		bucket int
		mult   float64
	}{
		{"全部向左", false, 0, 16},
		{"全部向右", true, 16, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, w := newTestEngine(t, "100")
			engine.flip = func() bool { return tt.flip }

			result, err := engine.Play(decimal.NewFromInt(10), 16, "low")
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, result.Bucket)
			assert.Equal(t, tt.mult, result.Multiplier)
			assert.Len(t, result.Path, 16)
			assert.Equal(t, "160.00", result.Payout.StringFixed(2))

			// 100 - 10 + 160 = 250
			assert.Equal(t, "250", w.Balance().String())
		})
	}
}

func TestEngine_PlayAlternating(t *testing.T) {
	engine, _ := newTestEngine(t, "100")
	n := 0
	engine.flip = func() bool {
		n++
		return n%2 == 0
	}

	result, err := engine.Play(decimal.NewFromInt(1), 8, "medium")
	require.NoError(t, err)
	// 8行交替走位，4次向右落在中心袋
	assert.Equal(t, 4, result.Bucket)
	assert.Equal(t, 0.4, result.Multiplier)
	assert.Equal(t, "LRLRLRLR", result.Path)
}

func TestEngine_BucketMatchesPath(t *testing.T) {
	engine, _ := newTestEngine(t, "10000")

	for i := 0; i < 200; i++ {
		result, err := engine.Play(decimal.NewFromInt(1), 12, "high")
		require.NoError(t, err)

		rights := 0
		for _, c := range result.Path {
			if c == 'R' {
				rights++
			}
		}
		assert.Equal(t, rights, result.Bucket)
		assert.GreaterOrEqual(t, result.Bucket, 0)
		assert.Less(t, result.Bucket, len(Multipliers[12]["high"]))
	}
}

func TestEngine_Validation(t *testing.T) {
	engine, w := newTestEngine(t, "5")

	_, err := engine.Play(decimal.NewFromInt(1), 10, "low")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRows))

	_, err = engine.Play(decimal.NewFromInt(1), 8, "extreme")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRisk))

	// 参数校验不触碰钱包
	assert.Equal(t, "5", w.Balance().String())

	_, err = engine.Play(decimal.NewFromInt(10), 8, "low")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientBalance))
	assert.Equal(t, "5", w.Balance().String())
}
