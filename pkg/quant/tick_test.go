package quant

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickDecimals(t *testing.T) {
	t.Run("Powers Of Ten", func(t *testing.T) {
		// tick = 10^-k must yield exactly k
		for k := int32(0); k <= 8; k++ {
			tick := decimal.New(1, -k)
			n, err := TickDecimals(tick)
			require.NoError(t, err)
			assert.Equal(t, k, n, "tick %s", tick)
		}
	})

	t.Run("Ticks At Or Above One", func(t *testing.T) {
		for _, s := range []string{"1", "1.5", "2", "10", "100"} {
			n, err := TickDecimals(decimal.RequireFromString(s))
			require.NoError(t, err)
			assert.Equal(t, int32(0), n, "tick %s", s)
		}
	})

	t.Run("Fractional Non-Power Ticks", func(t *testing.T) {
		cases := map[string]int32{
			"0.5":    1,
			"0.05":   2,
			"0.25":   1,
			"0.0001": 4,
		}
		for s, want := range cases {
			n, err := TickDecimals(decimal.RequireFromString(s))
			require.NoError(t, err)
			assert.Equal(t, want, n, "tick %s", s)
		}
	})

	t.Run("Non-Positive Tick Fails Fast", func(t *testing.T) {
		for _, s := range []string{"0", "-0.01"} {
			_, err := TickDecimals(decimal.RequireFromString(s))
			assert.ErrorIs(t, err, ErrNonPositiveTick, "tick %s", s)
		}
	})
}

func TestRoundToTick(t *testing.T) {
	tick := decimal.RequireFromString("0.01")

	t.Run("Rounds To Tick Resolution", func(t *testing.T) {
		got, err := RoundToTick(decimal.RequireFromString("99.994"), tick)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.RequireFromString("99.99")), "got %s", got)
	})

	t.Run("Ties Round Half Away From Zero", func(t *testing.T) {
		up, err := RoundToTick(decimal.RequireFromString("0.005"), tick)
		require.NoError(t, err)
		assert.True(t, up.Equal(decimal.RequireFromString("0.01")), "got %s", up)

		down, err := RoundToTick(decimal.RequireFromString("-0.005"), tick)
		require.NoError(t, err)
		assert.True(t, down.Equal(decimal.RequireFromString("-0.01")), "got %s", down)
	})

	t.Run("Idempotent On Aligned Prices", func(t *testing.T) {
		once, err := RoundToTick(decimal.RequireFromString("123.456789"), tick)
		require.NoError(t, err)
		twice, err := RoundToTick(once, tick)
		require.NoError(t, err)
		assert.True(t, once.Equal(twice))
	})

	t.Run("Rejects Bad Tick", func(t *testing.T) {
		_, err := RoundToTick(decimal.RequireFromString("1"), decimal.Zero)
		assert.ErrorIs(t, err, ErrNonPositiveTick)
	})
}
