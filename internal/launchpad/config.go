// =============================
// File: internal/launchpad/config.go
// =============================
package launchpad

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// ProtocolConfig is the protocol-wide singleton created once by the
// administrator. It is passed explicitly into every operation rather
// than living as ambient global state.
type ProtocolConfig struct {
	// Authority may pause and unpause the protocol and receives LP
	// ownership at graduation.
	Authority solana.PublicKey
	// AssetRate is the initial price ratio parameter, fixed at init.
	AssetRate uint64
	// CreatorSellDelay is an absolute unix timestamp (seconds) gating
	// creator sells; validated at init, stored for the hosting layer.
	CreatorSellDelay uint64
	// GraduateThreshold is the minimum net reserve-asset inflow that
	// flips a token to ready-to-graduate.
	GraduateThreshold uint64
	// Fees are the protocol buy/sell cuts.
	Fees FeePolicy
	// FeeVault collects protocol fees from every trade.
	FeeVault solana.PublicKey

	Status ProtocolStatus
}

// Initialize validates and applies the administrator-supplied settings.
// It can only succeed once; on success the protocol is Active.
func (c *ProtocolConfig) Initialize(
	authority solana.PublicKey,
	assetRate uint64,
	creatorSellDelay uint64,
	graduateThreshold uint64,
	buyFeeBps uint32,
	sellFeeBps uint32,
	now time.Time,
) error {
	if c.Status != ProtocolUnknown {
		return ErrConfigInitialized
	}
	if authority.IsZero() {
		return ErrInvalidAuthority
	}
	if creatorSellDelay <= uint64(now.Unix()+MinCreatorSellDelay) {
		return ErrCreatorSellDelayNotMet
	}
	if assetRate <= MinAssetRate {
		return ErrAssetRateTooLow
	}
	if graduateThreshold <= MinGraduateThreshold {
		return ErrGraduateThresholdNotMet
	}
	fees := FeePolicy{BuyFeeBps: buyFeeBps, SellFeeBps: sellFeeBps}
	if err := fees.Validate(); err != nil {
		return err
	}

	c.Authority = authority
	c.AssetRate = assetRate
	c.CreatorSellDelay = creatorSellDelay
	c.GraduateThreshold = graduateThreshold
	c.Fees = fees
	c.FeeVault = FeeVaultAddress()
	c.Status = ProtocolActive
	return nil
}

// Pause stops all trade and graduation operations.
func (c *ProtocolConfig) Pause() error {
	if !c.Status.canTransition(ProtocolPaused) {
		return ErrAlreadyPaused
	}
	c.Status = ProtocolPaused
	return nil
}

// Unpause resumes trading.
func (c *ProtocolConfig) Unpause() error {
	if c.Status != ProtocolPaused {
		return ErrNotPaused
	}
	c.Status = ProtocolActive
	return nil
}

// RequireActive guards every trade and graduation operation.
func (c *ProtocolConfig) RequireActive() error {
	switch c.Status {
	case ProtocolActive:
		return nil
	case ProtocolUnknown:
		return ErrConfigNotInitialized
	default:
		return ErrConfigNotActive
	}
}
