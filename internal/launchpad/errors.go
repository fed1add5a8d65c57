// =============================
// File: internal/launchpad/errors.go
// =============================
package launchpad

import (
	"errors"

	"github.com/rovshanmuradov/solana-launchpad/internal/curve"
)

// Every operation fails with exactly one of these kinds. They are all
// local validation failures: nothing is retried internally and no error
// leaves partial state behind.
var (
	ErrInvalidAuthority     = errors.New("invalid authority")
	ErrConfigInitialized    = errors.New("protocol config already initialized")
	ErrConfigNotInitialized = errors.New("protocol config not initialized")
	ErrConfigNotActive      = errors.New("protocol config not active")

	ErrAlreadyPaused = errors.New("protocol is already paused")
	ErrNotPaused     = errors.New("protocol is not paused")

	ErrCreatorSellDelayNotMet  = errors.New("creator sell delay not met")
	ErrAssetRateTooLow         = errors.New("asset rate must be greater than zero")
	ErrGraduateThresholdNotMet = errors.New("graduate threshold not met")
	ErrFeeExceedsMaximum       = errors.New("protocol fee exceeds maximum")
	ErrFeeMinimumNotMet        = errors.New("protocol fee minimum not met")

	ErrInvalidCreator        = errors.New("invalid creator")
	ErrInvalidMint           = errors.New("invalid mint")
	ErrTokenNotCreated       = errors.New("launch token not created")
	ErrTokenAlreadyCreated   = errors.New("launch token already created")
	ErrTokenAlreadyGraduated = errors.New("launch token already graduated")
	ErrTradingNotEnabled     = errors.New("token trading not enabled")

	ErrInsufficientTokenLiquidity = errors.New("insufficient token liquidity")
	ErrInsufficientAssetLiquidity = errors.New("insufficient asset liquidity")

	ErrInvalidTokenNameLength   = errors.New("invalid token name length")
	ErrInvalidTokenSymbolLength = errors.New("invalid token symbol length")
	ErrInvalidTokenURILength    = errors.New("invalid token uri length")
)

// ErrMathOverflow is the curve sentinel re-exported so callers can match
// every arithmetic failure through this package.
var ErrMathOverflow = curve.ErrMathOverflow
