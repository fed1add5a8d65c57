// ==============================================
// File: internal/curve/curve.go
// ==============================================

// Package curve implements the constant-product pricing used while a
// launch token trades against its virtual reserves. All math is integer
// math over 256-bit intermediates; division truncates toward zero, so
// every quote rounds in favor of the reserve, never the trader.
package curve

import (
	"errors"

	"github.com/holiman/uint256"
)

// Protocol-wide curve constants. All token and asset amounts are raw
// units at 9 decimals.
const (
	// TokenTotalSupply is the full supply minted into custody when a
	// token is created: 1 billion tokens at 9 decimals.
	TokenTotalSupply uint64 = 1_000_000_000_000_000_000

	// TokenGraduationAmount is the slice of supply that can never be
	// sold on the curve. It stays in custody to seed the external pool
	// at graduation: 200 million tokens at 9 decimals.
	TokenGraduationAmount uint64 = 200_000_000_000_000_000

	// K is the protocol pricing constant from which the initial virtual
	// asset reserve is derived.
	K uint64 = 3_000_000_000_000

	rateScale  = 10_000
	unitsScale = 1_000_000_000
)

// ErrMathOverflow is returned whenever checked arithmetic would wrap,
// underflow, or divide by zero.
var ErrMathOverflow = errors.New("math overflow")

// InitialVirtualAssetReserve derives the starting virtual asset reserve
// for a new token from the protocol constant K and the total supply.
// The double fixed-point scaling by 1e9 preserves 9-decimal precision:
//
//	k' = (K * 10000) / assetRate
//	reserve = (k' * 10000 * 1e9 / TokenTotalSupply) * 1e9 / 10000
func InitialVirtualAssetReserve(assetRate uint64) (uint64, error) {
	if assetRate == 0 {
		return 0, ErrMathOverflow
	}

	k := new(uint256.Int).SetUint64(K)
	k.Mul(k, uint256.NewInt(rateScale))
	k.Div(k, uint256.NewInt(assetRate))

	r := new(uint256.Int).Mul(k, uint256.NewInt(rateScale))
	r.Mul(r, uint256.NewInt(unitsScale))
	r.Div(r, uint256.NewInt(TokenTotalSupply))
	r.Mul(r, uint256.NewInt(unitsScale))
	r.Div(r, uint256.NewInt(rateScale))

	if !r.IsUint64() {
		return 0, ErrMathOverflow
	}
	return r.Uint64(), nil
}

// Invariant computes k = tokenAmount * assetAmount. The product of two
// u64 values always fits in 256 bits, but the result is kept wide
// because trades divide against it directly.
func Invariant(tokenAmount, assetAmount uint64) *uint256.Int {
	k := new(uint256.Int).SetUint64(tokenAmount)
	return k.Mul(k, uint256.NewInt(assetAmount))
}

// TokenAmountOut quotes the token amount released for assetIn paid into
// the curve: tokenOut = tokenReserve - k / (assetReserve + assetIn).
func TokenAmountOut(assetIn uint64, k *uint256.Int, assetReserve, tokenReserve uint64) (uint64, error) {
	return amountOut(assetIn, k, assetReserve, tokenReserve)
}

// AssetAmountOut quotes the asset amount released for tokenIn sold back
// to the curve: assetOut = assetReserve - k / (tokenReserve + tokenIn).
func AssetAmountOut(tokenIn uint64, k *uint256.Int, tokenReserve, assetReserve uint64) (uint64, error) {
	return amountOut(tokenIn, k, tokenReserve, assetReserve)
}

// amountOut solves the constant-product equation for the output side.
// inReserve grows by amountIn, outReserve shrinks to k / inReserve.
func amountOut(amountIn uint64, k *uint256.Int, inReserve, outReserve uint64) (uint64, error) {
	if k == nil {
		return 0, ErrMathOverflow
	}

	denom := new(uint256.Int).SetUint64(inReserve)
	if _, carry := denom.AddOverflow(denom, uint256.NewInt(amountIn)); carry {
		return 0, ErrMathOverflow
	}
	// Reserves start positive and the input side only grows, but a zero
	// denominator still has to be rejected rather than quoted as zero.
	if denom.IsZero() {
		return 0, ErrMathOverflow
	}

	q := new(uint256.Int).Div(k, denom)
	out := new(uint256.Int).SetUint64(outReserve)
	if out.Lt(q) {
		return 0, ErrMathOverflow
	}
	out.Sub(out, q)

	if !out.IsUint64() {
		return 0, ErrMathOverflow
	}
	return out.Uint64(), nil
}

// CheckedAdd returns a + b or ErrMathOverflow.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrMathOverflow
	}
	return sum, nil
}

// CheckedSub returns a - b or ErrMathOverflow.
func CheckedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrMathOverflow
	}
	return a - b, nil
}
