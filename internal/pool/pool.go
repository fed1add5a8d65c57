// ==============================================
// File: internal/pool/pool.go
// ==============================================

// Package pool defines the external liquidity-pool contract consumed at
// graduation, plus an in-process constant-product implementation used
// by the service runner and tests. The real pool program's internal
// initialization algorithm is out of scope; only the call contract is.
package pool

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrInvalidMintOrder is returned when the first mint does not sort
	// below the second; the pool contract requires canonical ordering.
	ErrInvalidMintOrder = errors.New("token 0 mint must sort below token 1 mint")
	// ErrPoolExists is returned for a second pool on the same pair.
	ErrPoolExists = errors.New("pool already exists for mint pair")
	// ErrZeroDeposit rejects seeding with an empty side.
	ErrZeroDeposit = errors.New("pool deposits must be non-zero")
)

// CreateParams seeds a new two-sided pool. Mint0 must sort below Mint1;
// deposits are drained in full from the two source accounts.
type CreateParams struct {
	Creator  solana.PublicKey
	Mint0    solana.PublicKey
	Amount0  uint64
	Deposit0 solana.PublicKey
	Mint1    solana.PublicKey
	Amount1  uint64
	Deposit1 solana.PublicKey
}

// Pool describes a created pool and the LP ownership it minted.
type Pool struct {
	ID        solana.PublicKey
	Mint0     solana.PublicKey
	Mint1     solana.PublicKey
	Vault0    solana.PublicKey
	Vault1    solana.PublicKey
	LPMint    solana.PublicKey
	LPAccount solana.PublicKey
	LPSupply  uint64
}

// Service is the external liquidity-pool collaborator. CreatePool is
// called exactly once per token, at graduation.
type Service interface {
	CreatePool(ctx context.Context, params CreateParams) (*Pool, error)
}
