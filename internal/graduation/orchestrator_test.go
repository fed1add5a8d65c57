// internal/graduation/orchestrator_test.go
package graduation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/custody"
	"github.com/rovshanmuradov/solana-launchpad/internal/launchpad"
	"github.com/rovshanmuradov/solana-launchpad/internal/pool"
)

var (
	authority = solana.PublicKeyFromBytes([]byte("test.authority.account.00000001."))
	creator   = solana.PublicKeyFromBytes([]byte("test.creator.account.00000000001"))
	mint      = solana.PublicKeyFromBytes([]byte("test.mint.account.00000000000001"))
	buyer     = solana.PublicKeyFromBytes([]byte("test.buyer.account.0000000000001"))
)

type fixture struct {
	bank   *custody.Bank
	cpmm   *pool.CPMM
	engine *launchpad.Engine
}

// flakyPool fails a configured number of CreatePool calls before
// delegating to the real pool service.
type flakyPool struct {
	inner    pool.Service
	failures int
}

func (f *flakyPool) CreatePool(ctx context.Context, params pool.CreateParams) (*pool.Pool, error) {
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("pool unavailable")
	}
	return f.inner.CreatePool(ctx, params)
}

// newFixture builds a ready-to-graduate token behind an engine wired to
// the given pool service.
func newFixture(t *testing.T, poolSvc func(*pool.CPMM) pool.Service) *fixture {
	t.Helper()
	ctx := context.Background()

	bank := custody.NewBank(solana.SolMint, zap.NewNop())
	engine := launchpad.NewEngine(bank, nil, nil, zap.NewNop())
	cpmm := pool.NewCPMM(bank, zap.NewNop())

	svc := pool.Service(cpmm)
	if poolSvc != nil {
		svc = poolSvc(cpmm)
	}
	engine.SetGraduator(New(bank, svc, nil, nil, zap.NewNop()))

	err := engine.InitializeConfig(ctx, authority, 7,
		uint64(time.Now().Unix()+3600), 1_000_000_000, 10_000, 10_000)
	require.NoError(t, err)

	meta := launchpad.TokenMetadata{
		Name:   "Test Token",
		Symbol: "TEST",
		URI:    "https://example.com/test.json",
	}
	_, err = engine.CreateToken(ctx, creator, mint, meta)
	require.NoError(t, err)

	// One buy past the threshold flips the token to ready-to-graduate.
	bank.Fund(buyer, 2_000_000_000)
	res, err := engine.Buy(ctx, mint, buyer, 2_000_000_000)
	require.NoError(t, err)
	require.Equal(t, launchpad.TokenReadyToGraduate, res.Status)

	return &fixture{bank: bank, cpmm: cpmm, engine: engine}
}

func TestGraduateHappyPath(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	tok, err := f.engine.Token(mint)
	require.NoError(t, err)
	vaultBalance, err := f.bank.AssetBalance(ctx, tok.GraduationVault)
	require.NoError(t, err)
	custodyBalance, err := f.bank.TokenBalance(ctx, mint, tok.CustodyAccount)
	require.NoError(t, err)

	require.NoError(t, f.engine.Graduate(ctx, mint))

	assert.Equal(t, launchpad.TokenGraduated, tok.Status)
	assert.NotZero(t, tok.GraduatedAt)

	pools := f.cpmm.Pools()
	require.Len(t, pools, 1)
	p := pools[0]

	// The pool holds exactly what was escrowed on the curve: the full
	// vault on one side and the full unsold supply on the other.
	vault0, _ := f.bank.TokenBalance(ctx, p.Mint0, p.Vault0)
	vault1, _ := f.bank.TokenBalance(ctx, p.Mint1, p.Vault1)
	if p.Mint0 == mint {
		assert.Equal(t, custodyBalance, vault0)
		assert.Equal(t, vaultBalance, vault1)
	} else {
		assert.Equal(t, vaultBalance, vault0)
		assert.Equal(t, custodyBalance, vault1)
	}

	// LP ownership lands with the protocol authority.
	assert.Equal(t, authority, f.bank.TokenAuthority(p.LPAccount))

	// Escrow accounts are reclaimed.
	_, err = f.bank.AssetBalance(ctx, tok.GraduationVault)
	assert.ErrorIs(t, err, custody.ErrAccountClosed)
	_, err = f.bank.TokenBalance(ctx, mint, tok.CustodyAccount)
	assert.ErrorIs(t, err, custody.ErrAccountClosed)
}

func TestGraduateIdempotency(t *testing.T) {
	ctx := context.Background()

	t.Run("second call rejected", func(t *testing.T) {
		f := newFixture(t, nil)
		require.NoError(t, f.engine.Graduate(ctx, mint))
		assert.ErrorIs(t, f.engine.Graduate(ctx, mint), launchpad.ErrTokenAlreadyGraduated)
		assert.Len(t, f.cpmm.Pools(), 1)
	})

	t.Run("not ready is a no-op", func(t *testing.T) {
		bank := custody.NewBank(solana.SolMint, zap.NewNop())
		engine := launchpad.NewEngine(bank, nil, nil, zap.NewNop())
		cpmm := pool.NewCPMM(bank, zap.NewNop())
		engine.SetGraduator(New(bank, cpmm, nil, nil, zap.NewNop()))

		err := engine.InitializeConfig(ctx, authority, 7,
			uint64(time.Now().Unix()+3600), 1_000_000_000, 10_000, 10_000)
		require.NoError(t, err)
		meta := launchpad.TokenMetadata{
			Name:   "Test Token",
			Symbol: "TEST",
			URI:    "https://example.com/test.json",
		}
		_, err = engine.CreateToken(ctx, creator, mint, meta)
		require.NoError(t, err)

		require.NoError(t, engine.Graduate(ctx, mint))

		tok, err := engine.Token(mint)
		require.NoError(t, err)
		assert.Equal(t, launchpad.TokenTradingEnabled, tok.Status)
		assert.Empty(t, cpmm.Pools())
	})
}

func TestGraduateRetryAfterPoolFailure(t *testing.T) {
	ctx := context.Background()
	var flaky *flakyPool
	f := newFixture(t, func(c *pool.CPMM) pool.Service {
		flaky = &flakyPool{inner: c, failures: 1}
		return flaky
	})

	tok, err := f.engine.Token(mint)
	require.NoError(t, err)
	vaultBalance, err := f.bank.AssetBalance(ctx, tok.GraduationVault)
	require.NoError(t, err)

	// First attempt fails at pool creation; the token stays ready and
	// the drained deposits survive for the retry.
	err = f.engine.Graduate(ctx, mint)
	require.Error(t, err)
	assert.Equal(t, launchpad.TokenReadyToGraduate, tok.Status)
	assert.Empty(t, f.cpmm.Pools())

	// Second attempt completes with the full escrowed value.
	require.NoError(t, f.engine.Graduate(ctx, mint))
	assert.Equal(t, launchpad.TokenGraduated, tok.Status)

	pools := f.cpmm.Pools()
	require.Len(t, pools, 1)
	p := pools[0]
	assetVault := p.Vault0
	if p.Mint0 == mint {
		assetVault = p.Vault1
	}
	wrapped, _ := f.bank.TokenBalance(ctx, solana.SolMint, assetVault)
	assert.Equal(t, vaultBalance, wrapped)
}

func TestGraduateBlockedWhilePaused(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	require.NoError(t, f.engine.Pause(ctx))
	assert.ErrorIs(t, f.engine.Graduate(ctx, mint), launchpad.ErrConfigNotActive)

	require.NoError(t, f.engine.Unpause(ctx))
	require.NoError(t, f.engine.Graduate(ctx, mint))
}
