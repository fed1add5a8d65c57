// internal/launchpad/fees_test.go
package launchpad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeePolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		policy  FeePolicy
		wantErr error
	}{
		{"both at minimum", FeePolicy{BuyFeeBps: 5_000, SellFeeBps: 5_000}, nil},
		{"both at maximum", FeePolicy{BuyFeeBps: 10_000, SellFeeBps: 10_000}, nil},
		{"buy below minimum", FeePolicy{BuyFeeBps: 4_999, SellFeeBps: 5_000}, ErrFeeMinimumNotMet},
		{"sell below minimum", FeePolicy{BuyFeeBps: 5_000, SellFeeBps: 0}, ErrFeeMinimumNotMet},
		{"buy above maximum", FeePolicy{BuyFeeBps: 10_001, SellFeeBps: 5_000}, ErrFeeExceedsMaximum},
		{"sell above maximum", FeePolicy{BuyFeeBps: 5_000, SellFeeBps: 20_000}, ErrFeeExceedsMaximum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestFeeComputation(t *testing.T) {
	policy := FeePolicy{BuyFeeBps: 5_000, SellFeeBps: 10_000}

	t.Run("buy fee", func(t *testing.T) {
		fee, err := policy.BuyFee(1_000_000_000)
		require.NoError(t, err)
		assert.Equal(t, uint64(5_000_000), fee)
	})

	t.Run("sell fee", func(t *testing.T) {
		fee, err := policy.SellFee(1_000_000_000)
		require.NoError(t, err)
		assert.Equal(t, uint64(10_000_000), fee)
	})

	t.Run("fee floors toward zero", func(t *testing.T) {
		fee, err := policy.BuyFee(199)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), fee)

		fee, err = policy.BuyFee(399)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), fee)
	})

	t.Run("no overflow at max amount", func(t *testing.T) {
		fee, err := policy.SellFee(^uint64(0))
		require.NoError(t, err)
		assert.Equal(t, ^uint64(0)/100, fee)
	})
}
