// internal/pool/cpmm.go
package pool

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/custody"
)

var (
	poolSeed      = []byte("pool:")
	poolVaultSeed = []byte("pool_vault:")
	lpMintSeed    = []byte("pool_lp_mint:")
	lpTokenSeed   = []byte("pool_lp_token:")
)

// CPMMProgramID namespaces pool account derivations.
var CPMMProgramID = solana.PublicKeyFromBytes([]byte("launchpad.cpmm.program.seed.v001"))

// CPMM is an in-process constant-product pool service over a custody
// bank. It enforces the same call contract as the on-chain program:
// canonical mint ordering, one pool per pair, full drain of both
// deposit accounts, LP supply = isqrt(amount0 * amount1).
type CPMM struct {
	mu      sync.Mutex
	pools   map[solana.PublicKey]*Pool
	custody custody.Service
	logger  *zap.Logger
}

// NewCPMM creates an empty pool service over the given custody bank.
func NewCPMM(custodySvc custody.Service, logger *zap.Logger) *CPMM {
	return &CPMM{
		pools:   make(map[solana.PublicKey]*Pool),
		custody: custodySvc,
		logger:  logger.Named("cpmm"),
	}
}

// CreatePool seeds a new pool and mints LP ownership to an account
// owned by the creator.
func (c *CPMM) CreatePool(ctx context.Context, params CreateParams) (*Pool, error) {
	if bytes.Compare(params.Mint0.Bytes(), params.Mint1.Bytes()) >= 0 {
		return nil, ErrInvalidMintOrder
	}
	if params.Amount0 == 0 || params.Amount1 == 0 {
		return nil, ErrZeroDeposit
	}

	id := derivePair(poolSeed, params.Mint0, params.Mint1)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.pools[id]; exists {
		return nil, ErrPoolExists
	}

	vault0 := derivePair(poolVaultSeed, id, params.Mint0)
	vault1 := derivePair(poolVaultSeed, id, params.Mint1)
	lpMint := derive(lpMintSeed, id)
	lpAccount := derive(lpTokenSeed, id)

	transfers := []custody.Transfer{
		{Mint: params.Mint0, From: params.Deposit0, To: vault0, Amount: params.Amount0},
		{Mint: params.Mint1, From: params.Deposit1, To: vault1, Amount: params.Amount1},
	}
	if err := c.custody.Apply(ctx, transfers); err != nil {
		return nil, fmt.Errorf("failed to move pool deposits: %w", err)
	}

	lpSupply := lpSupplyFor(params.Amount0, params.Amount1)
	if err := c.custody.MintTo(ctx, lpMint, lpAccount, lpSupply); err != nil {
		return nil, fmt.Errorf("failed to mint lp supply: %w", err)
	}
	if err := c.custody.SetTokenAuthority(ctx, lpMint, lpAccount, params.Creator); err != nil {
		return nil, fmt.Errorf("failed to assign lp ownership: %w", err)
	}

	p := &Pool{
		ID:        id,
		Mint0:     params.Mint0,
		Mint1:     params.Mint1,
		Vault0:    vault0,
		Vault1:    vault1,
		LPMint:    lpMint,
		LPAccount: lpAccount,
		LPSupply:  lpSupply,
	}
	c.pools[id] = p

	c.logger.Info("Pool created",
		zap.String("pool_id", id.String()),
		zap.String("mint_0", params.Mint0.String()),
		zap.String("mint_1", params.Mint1.String()),
		zap.Uint64("amount_0", params.Amount0),
		zap.Uint64("amount_1", params.Amount1),
		zap.Uint64("lp_supply", lpSupply))

	return p, nil
}

// Pool returns a created pool by id.
func (c *CPMM) Pool(id solana.PublicKey) (*Pool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pools[id]
	return p, ok
}

// Pools lists every created pool.
func (c *CPMM) Pools() []*Pool {
	c.mu.Lock()
	defer c.mu.Unlock()
	pools := make([]*Pool, 0, len(c.pools))
	for _, p := range c.pools {
		pools = append(pools, p)
	}
	return pools
}

// lpSupplyFor is isqrt(a * b), the usual initial LP issuance for a
// constant-product pool.
func lpSupplyFor(a, b uint64) uint64 {
	product := new(uint256.Int).SetUint64(a)
	product.Mul(product, uint256.NewInt(b))
	root := new(uint256.Int).Sqrt(product)
	return root.Uint64()
}

func derive(seed []byte, key solana.PublicKey) solana.PublicKey {
	addr, _, err := solana.FindProgramAddress([][]byte{seed, key.Bytes()}, CPMMProgramID)
	if err != nil {
		panic(err)
	}
	return addr
}

func derivePair(seed []byte, a, b solana.PublicKey) solana.PublicKey {
	addr, _, err := solana.FindProgramAddress([][]byte{seed, a.Bytes(), b.Bytes()}, CPMMProgramID)
	if err != nil {
		panic(err)
	}
	return addr
}
