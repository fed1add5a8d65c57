// internal/curve/curve_test.go
package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialVirtualAssetReserve(t *testing.T) {
	t.Run("reference rate", func(t *testing.T) {
		reserve, err := InitialVirtualAssetReserve(7)
		require.NoError(t, err)
		assert.Equal(t, uint64(4_285_714_285_700_000), reserve)
	})

	t.Run("rate one", func(t *testing.T) {
		reserve, err := InitialVirtualAssetReserve(1)
		require.NoError(t, err)
		assert.Equal(t, uint64(30_000_000_000_000_000), reserve)
	})

	t.Run("zero rate rejected", func(t *testing.T) {
		_, err := InitialVirtualAssetReserve(0)
		assert.ErrorIs(t, err, ErrMathOverflow)
	})

	t.Run("monotonically decreasing in rate", func(t *testing.T) {
		prev, err := InitialVirtualAssetReserve(1)
		require.NoError(t, err)
		for _, rate := range []uint64{2, 7, 14, 100, 10_000} {
			reserve, err := InitialVirtualAssetReserve(rate)
			require.NoError(t, err)
			assert.Less(t, reserve, prev, "rate %d", rate)
			prev = reserve
		}
	})
}

func TestTokenAmountOut(t *testing.T) {
	initialAsset, err := InitialVirtualAssetReserve(7)
	require.NoError(t, err)
	k := Invariant(TokenTotalSupply, initialAsset)

	t.Run("reference buy quote", func(t *testing.T) {
		out, err := TokenAmountOut(990_000_000, k, initialAsset, TokenTotalSupply)
		require.NoError(t, err)
		assert.Equal(t, uint64(230_999_946_640), out)
	})

	t.Run("zero input yields zero", func(t *testing.T) {
		out, err := TokenAmountOut(0, k, initialAsset, TokenTotalSupply)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), out)
	})

	t.Run("larger input yields more tokens", func(t *testing.T) {
		small, err := TokenAmountOut(1_000_000_000, k, initialAsset, TokenTotalSupply)
		require.NoError(t, err)
		large, err := TokenAmountOut(2_000_000_000, k, initialAsset, TokenTotalSupply)
		require.NoError(t, err)
		assert.Greater(t, large, small)
	})

	t.Run("nil invariant rejected", func(t *testing.T) {
		_, err := TokenAmountOut(1, nil, initialAsset, TokenTotalSupply)
		assert.ErrorIs(t, err, ErrMathOverflow)
	})

	t.Run("zero reserves rejected", func(t *testing.T) {
		_, err := TokenAmountOut(0, k, 0, TokenTotalSupply)
		assert.ErrorIs(t, err, ErrMathOverflow)
	})
}

func TestAssetAmountOut(t *testing.T) {
	initialAsset, err := InitialVirtualAssetReserve(7)
	require.NoError(t, err)
	k := Invariant(TokenTotalSupply, initialAsset)

	t.Run("reference sell quote", func(t *testing.T) {
		out, err := AssetAmountOut(990_000_000, k, TokenTotalSupply, initialAsset)
		require.NoError(t, err)
		assert.Equal(t, uint64(4_242_858), out)
	})

	t.Run("buy output sold at launch reserves", func(t *testing.T) {
		bought, err := TokenAmountOut(990_000_000, k, initialAsset, TokenTotalSupply)
		require.NoError(t, err)

		out, err := AssetAmountOut(bought, k, TokenTotalSupply, initialAsset)
		require.NoError(t, err)
		assert.Equal(t, uint64(989_999_543), out)
	})

	t.Run("exact reversal at post-buy reserves", func(t *testing.T) {
		assetIn := uint64(990_000_000)
		bought, err := TokenAmountOut(assetIn, k, initialAsset, TokenTotalSupply)
		require.NoError(t, err)

		tokenReserve := TokenTotalSupply - bought
		assetReserve := initialAsset + assetIn
		out, err := AssetAmountOut(bought, k, tokenReserve, assetReserve)
		require.NoError(t, err)
		assert.Equal(t, assetIn, out)
	})

	t.Run("quote rounds against the trader", func(t *testing.T) {
		// Selling back immediately against unchanged reserves can never
		// quote more asset than was paid in.
		for _, assetIn := range []uint64{1_000, 1_000_000, 123_456_789, 5_000_000_000} {
			bought, err := TokenAmountOut(assetIn, k, initialAsset, TokenTotalSupply)
			require.NoError(t, err)
			out, err := AssetAmountOut(bought, k, TokenTotalSupply, initialAsset)
			require.NoError(t, err)
			assert.LessOrEqual(t, out, assetIn, "assetIn %d", assetIn)
		}
	})
}

func TestCheckedArithmetic(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		sum, err := CheckedAdd(1, 2)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), sum)

		_, err = CheckedAdd(^uint64(0), 1)
		assert.ErrorIs(t, err, ErrMathOverflow)
	})

	t.Run("sub", func(t *testing.T) {
		diff, err := CheckedSub(3, 2)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), diff)

		_, err = CheckedSub(2, 3)
		assert.ErrorIs(t, err, ErrMathOverflow)
	})
}
