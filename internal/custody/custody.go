// ==============================================
// File: internal/custody/custody.go
// ==============================================

// Package custody defines the transfer-service contract the engine
// depends on. Every value movement inside one engine operation is
// submitted as a single batch: either the whole batch applies or none
// of it does. Signature and authority verification happen in the
// hosting ledger, not here.
package custody

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccountClosed     = errors.New("account closed")
)

// Transfer is one value movement. A zero Mint moves the native reserve
// asset; any other mint moves token balances.
type Transfer struct {
	Mint   solana.PublicKey
	From   solana.PublicKey
	To     solana.PublicKey
	Amount uint64
}

// Service moves value between escrow and user accounts on behalf of an
// enclosing engine operation.
type Service interface {
	// MoveAsset transfers the native reserve asset.
	MoveAsset(ctx context.Context, from, to solana.PublicKey, amount uint64) error
	// MoveToken transfers token balances of the given mint.
	MoveToken(ctx context.Context, mint, from, to solana.PublicKey, amount uint64) error
	// Apply commits a batch of transfers atomically: on any failure no
	// transfer in the batch takes effect.
	Apply(ctx context.Context, transfers []Transfer) error

	AssetBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
	TokenBalance(ctx context.Context, mint, account solana.PublicKey) (uint64, error)

	// MintTo credits freshly issued token supply.
	MintTo(ctx context.Context, mint, to solana.PublicKey, amount uint64) error
	// WrapAsset converts an account's native asset balance into the
	// wrapped-asset token representation required by pool deposits.
	WrapAsset(ctx context.Context, account solana.PublicKey) error
	// SetTokenAuthority reassigns ownership of a token account.
	SetTokenAuthority(ctx context.Context, mint, account, newAuthority solana.PublicKey) error
	// CloseAccount zeroes an account's storage and sweeps any remaining
	// balances to the beneficiary.
	CloseAccount(ctx context.Context, account, beneficiary solana.PublicKey) error
}
