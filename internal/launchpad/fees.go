// internal/launchpad/fees.go
package launchpad

import "github.com/holiman/uint256"

// feeDivisor is the denominator of the fee formula. The bounds
// [MinProtocolFee, MaxProtocolFee] are validated against the raw
// numbers, not against any percentage reading of them.
const feeDivisor = 1_000_000

// FeePolicy holds the protocol trade fees. Both values are fixed at
// config initialization and validated only there.
type FeePolicy struct {
	BuyFeeBps  uint32
	SellFeeBps uint32
}

// Validate checks both fees against the protocol bounds.
func (p FeePolicy) Validate() error {
	for _, bps := range []uint32{p.BuyFeeBps, p.SellFeeBps} {
		if bps > MaxProtocolFee {
			return ErrFeeExceedsMaximum
		}
		if bps < MinProtocolFee {
			return ErrFeeMinimumNotMet
		}
	}
	return nil
}

// BuyFee computes the protocol cut of a buy amount, floored.
func (p FeePolicy) BuyFee(amount uint64) (uint64, error) {
	return fee(amount, p.BuyFeeBps)
}

// SellFee computes the protocol cut of a sell payout, floored.
func (p FeePolicy) SellFee(amount uint64) (uint64, error) {
	return fee(amount, p.SellFeeBps)
}

func fee(amount uint64, bps uint32) (uint64, error) {
	f := new(uint256.Int).SetUint64(amount)
	f.Mul(f, uint256.NewInt(uint64(bps)))
	f.Div(f, uint256.NewInt(feeDivisor))
	if !f.IsUint64() {
		return 0, ErrMathOverflow
	}
	return f.Uint64(), nil
}
