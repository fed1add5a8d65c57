// =============================
// File: internal/launchpad/token.go
// =============================
package launchpad

import (
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"

	"github.com/rovshanmuradov/solana-launchpad/internal/curve"
)

// TokenMetadata is the display metadata attached at token creation.
type TokenMetadata struct {
	Name   string
	Symbol string
	URI    string
}

// Validate enforces the on-chain length limits.
func (m TokenMetadata) Validate() error {
	if len(m.Name) < MinTokenNameLength || len(m.Name) > MaxTokenNameLength {
		return ErrInvalidTokenNameLength
	}
	if len(m.Symbol) < MinTokenSymbolLength || len(m.Symbol) > MaxTokenSymbolLength {
		return ErrInvalidTokenSymbolLength
	}
	if len(m.URI) < MinTokenURILength || len(m.URI) > MaxTokenURILength {
		return ErrInvalidTokenURILength
	}
	return nil
}

// LaunchToken is the per-token ledger record: virtual reserves, the
// fixed invariant, graduation progress and lifecycle status.
type LaunchToken struct {
	Creator  solana.PublicKey
	Mint     solana.PublicKey
	Metadata TokenMetadata

	// Virtual reserves drive pricing; they are not required to equal
	// the escrowed balances.
	VirtualTokenAmount uint64
	VirtualAssetAmount uint64

	// CurrentK is the product of the initial virtual reserves, fixed
	// for the token's lifetime. Trades solve against this constant;
	// it is never recomputed.
	CurrentK uint256.Int

	// VirtualGraduationAmount tracks net reserve-asset inflow and
	// drives the graduation trigger.
	VirtualGraduationAmount uint64

	CreatedAt   int64
	GraduatedAt int64
	Status      TokenStatus

	// GraduationVault escrows the raw reserve asset accumulated by
	// buys; CustodyAccount escrows the unsold token supply.
	GraduationVault solana.PublicKey
	CustodyAccount  solana.PublicKey
}

func (t *LaunchToken) create(creator, mint solana.PublicKey, meta TokenMetadata, tokenAmount, assetAmount uint64, now time.Time) error {
	if t.Status != TokenUnknown {
		return ErrTokenAlreadyCreated
	}
	if creator.IsZero() {
		return ErrInvalidCreator
	}
	if mint.IsZero() {
		return ErrInvalidMint
	}
	if err := meta.Validate(); err != nil {
		return err
	}

	t.Creator = creator
	t.Mint = mint
	t.Metadata = meta
	t.VirtualTokenAmount = tokenAmount
	t.VirtualAssetAmount = assetAmount
	t.CurrentK.Set(curve.Invariant(tokenAmount, assetAmount))
	t.VirtualGraduationAmount = 0
	t.CreatedAt = now.Unix()
	t.GraduationVault, t.CustodyAccount = TokenVaultAddresses(mint)
	t.Status = TokenTradingEnabled
	return nil
}

// setStatus applies a lifecycle transition, rejecting anything outside
// the linear machine.
func (t *LaunchToken) setStatus(to TokenStatus) error {
	if !t.Status.canTransition(to) {
		return ErrTradingNotEnabled
	}
	t.Status = to
	return nil
}

// MarkGraduated is the terminal transition, recorded exactly once. It
// is the last state mutation of the graduation hand-off.
func (t *LaunchToken) MarkGraduated(now time.Time) error {
	if t.Status == TokenGraduated {
		return ErrTokenAlreadyGraduated
	}
	if err := t.setStatus(TokenGraduated); err != nil {
		return err
	}
	t.GraduatedAt = now.Unix()
	return nil
}
