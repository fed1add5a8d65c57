// internal/pool/cpmm_test.go
package pool

import (
	"bytes"
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/custody"
)

var (
	creator  = solana.PublicKeyFromBytes([]byte("test.pool.creator.00000000000001"))
	deposit0 = solana.PublicKeyFromBytes([]byte("test.pool.deposit0.0000000000001"))
	deposit1 = solana.PublicKeyFromBytes([]byte("test.pool.deposit1.0000000000001"))
)

// orderedMints returns two distinct mints in canonical byte order.
func orderedMints() (solana.PublicKey, solana.PublicKey) {
	a := solana.PublicKeyFromBytes([]byte("test.pool.mint.a.000000000000001"))
	b := solana.PublicKeyFromBytes([]byte("test.pool.mint.b.000000000000001"))
	if bytes.Compare(a.Bytes(), b.Bytes()) < 0 {
		return a, b
	}
	return b, a
}

func seededParams(t *testing.T, bank *custody.Bank) CreateParams {
	t.Helper()
	ctx := context.Background()
	mint0, mint1 := orderedMints()
	require.NoError(t, bank.MintTo(ctx, mint0, deposit0, 4_000_000_000))
	require.NoError(t, bank.MintTo(ctx, mint1, deposit1, 9_000_000_000))
	return CreateParams{
		Creator:  creator,
		Mint0:    mint0,
		Amount0:  4_000_000_000,
		Deposit0: deposit0,
		Mint1:    mint1,
		Amount1:  9_000_000_000,
		Deposit1: deposit1,
	}
}

func TestCPMMCreatePool(t *testing.T) {
	ctx := context.Background()
	bank := custody.NewBank(solana.SolMint, zap.NewNop())
	cpmm := NewCPMM(bank, zap.NewNop())
	params := seededParams(t, bank)

	p, err := cpmm.CreatePool(ctx, params)
	require.NoError(t, err)

	// isqrt(4e9 * 9e9) = 6e9
	assert.Equal(t, uint64(6_000_000_000), p.LPSupply)

	got, ok := cpmm.Pool(p.ID)
	require.True(t, ok)
	assert.Same(t, p, got)
	assert.Len(t, cpmm.Pools(), 1)

	// Deposits drained into the pool vaults.
	bal0, _ := bank.TokenBalance(ctx, params.Mint0, deposit0)
	bal1, _ := bank.TokenBalance(ctx, params.Mint1, deposit1)
	assert.Equal(t, uint64(0), bal0)
	assert.Equal(t, uint64(0), bal1)

	vault0, _ := bank.TokenBalance(ctx, params.Mint0, p.Vault0)
	vault1, _ := bank.TokenBalance(ctx, params.Mint1, p.Vault1)
	assert.Equal(t, params.Amount0, vault0)
	assert.Equal(t, params.Amount1, vault1)

	// LP ownership handed to the creator.
	lp, _ := bank.TokenBalance(ctx, p.LPMint, p.LPAccount)
	assert.Equal(t, p.LPSupply, lp)
	assert.Equal(t, creator, bank.TokenAuthority(p.LPAccount))
}

func TestCPMMCreatePoolRejections(t *testing.T) {
	ctx := context.Background()
	bank := custody.NewBank(solana.SolMint, zap.NewNop())
	cpmm := NewCPMM(bank, zap.NewNop())

	t.Run("reversed mint order", func(t *testing.T) {
		params := seededParams(t, bank)
		params.Mint0, params.Mint1 = params.Mint1, params.Mint0
		_, err := cpmm.CreatePool(ctx, params)
		assert.ErrorIs(t, err, ErrInvalidMintOrder)
	})

	t.Run("equal mints", func(t *testing.T) {
		params := seededParams(t, bank)
		params.Mint1 = params.Mint0
		_, err := cpmm.CreatePool(ctx, params)
		assert.ErrorIs(t, err, ErrInvalidMintOrder)
	})

	t.Run("zero deposit", func(t *testing.T) {
		params := seededParams(t, bank)
		params.Amount1 = 0
		_, err := cpmm.CreatePool(ctx, params)
		assert.ErrorIs(t, err, ErrZeroDeposit)
	})

	t.Run("duplicate pair", func(t *testing.T) {
		bank := custody.NewBank(solana.SolMint, zap.NewNop())
		cpmm := NewCPMM(bank, zap.NewNop())

		params := seededParams(t, bank)
		_, err := cpmm.CreatePool(ctx, params)
		require.NoError(t, err)

		params = seededParams(t, bank)
		_, err = cpmm.CreatePool(ctx, params)
		assert.ErrorIs(t, err, ErrPoolExists)
	})

	t.Run("unfunded deposit account", func(t *testing.T) {
		bank := custody.NewBank(solana.SolMint, zap.NewNop())
		cpmm := NewCPMM(bank, zap.NewNop())

		mint0, mint1 := orderedMints()
		_, err := cpmm.CreatePool(ctx, CreateParams{
			Creator:  creator,
			Mint0:    mint0,
			Amount0:  1_000,
			Deposit0: deposit0,
			Mint1:    mint1,
			Amount1:  1_000,
			Deposit1: deposit1,
		})
		assert.ErrorIs(t, err, custody.ErrInsufficientFunds)
		assert.Empty(t, cpmm.Pools())
	})
}
