// ==============================================
// File: internal/graduation/orchestrator.go
// ==============================================

// Package graduation moves a token that crossed its threshold off the
// bonding curve and into the external constant-product pool. The
// hand-off is a saga of idempotent steps: everything before the
// terminal status flip can fail and be retried; the flip itself is the
// last state mutation that matters.
package graduation

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/custody"
	"github.com/rovshanmuradov/solana-launchpad/internal/events"
	"github.com/rovshanmuradov/solana-launchpad/internal/launchpad"
	"github.com/rovshanmuradov/solana-launchpad/internal/pool"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage"
)

// Orchestrator drives the ReadyToGraduate -> Graduated transition.
type Orchestrator struct {
	custody custody.Service
	pool    pool.Service
	bus     *events.Bus     // optional
	store   storage.Storage // optional, best-effort
	logger  *zap.Logger

	// wrappedMint is the pool-deposit representation of the native
	// reserve asset.
	wrappedMint solana.PublicKey
	now         func() time.Time
}

// New creates an orchestrator. bus and store may be nil.
func New(custodySvc custody.Service, poolSvc pool.Service, bus *events.Bus, store storage.Storage, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		custody:     custodySvc,
		pool:        poolSvc,
		bus:         bus,
		store:       store,
		logger:      logger.Named("graduation"),
		wrappedMint: solana.SolMint,
		now:         time.Now,
	}
}

// Graduate executes the hand-off for one token. Safe to call
// speculatively: a token that is not ready is a no-op success, a token
// that already graduated is an error. The caller serializes access to
// the token record.
func (o *Orchestrator) Graduate(ctx context.Context, cfg *launchpad.ProtocolConfig, token *launchpad.LaunchToken) error {
	if err := cfg.RequireActive(); err != nil {
		return err
	}
	if token.Status == launchpad.TokenGraduated {
		return launchpad.ErrTokenAlreadyGraduated
	}
	if token.Status != launchpad.TokenReadyToGraduate {
		return nil
	}

	logger := o.logger.With(zap.String("mint", token.Mint.String()))
	assetDeposit, tokenDeposit := launchpad.GraduationDepositAddresses(token.Mint)

	// Drain the graduation vault into the wrapped-asset deposit and the
	// custody supply into the token deposit. Both moves are idempotent:
	// a retry after a later failure finds the sources already empty and
	// the deposits still funded.
	if err := o.fundAssetDeposit(ctx, token, assetDeposit); err != nil {
		return err
	}
	if err := o.fundTokenDeposit(ctx, token, tokenDeposit); err != nil {
		return err
	}

	assetAmount, err := o.custody.TokenBalance(ctx, o.wrappedMint, assetDeposit)
	if err != nil {
		return fmt.Errorf("failed to read asset deposit balance: %w", err)
	}
	tokenAmount, err := o.custody.TokenBalance(ctx, token.Mint, tokenDeposit)
	if err != nil {
		return fmt.Errorf("failed to read token deposit balance: %w", err)
	}

	params := o.orderedParams(token, assetDeposit, tokenDeposit, assetAmount, tokenAmount)
	p, err := o.pool.CreatePool(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}

	// The pool mints LP ownership to its creator; hand it straight to
	// the protocol authority.
	if err := o.custody.SetTokenAuthority(ctx, p.LPMint, p.LPAccount, cfg.Authority); err != nil {
		return fmt.Errorf("failed to reassign lp ownership: %w", err)
	}

	// Terminal transition. Everything after this point is cleanup and
	// must not fail the operation.
	if err := token.MarkGraduated(o.now()); err != nil {
		return err
	}

	logger.Info("Token graduated",
		zap.String("pool_id", p.ID.String()),
		zap.Uint64("asset_amount", assetAmount),
		zap.Uint64("token_amount", tokenAmount))

	o.publishGraduated(token, p, assetAmount, tokenAmount)
	o.recordGraduated(ctx, token, p)
	o.cleanup(ctx, cfg, token, assetDeposit, tokenDeposit, logger)
	return nil
}

// fundAssetDeposit converts the token's escrowed native balance into
// the wrapped representation inside the asset deposit account.
func (o *Orchestrator) fundAssetDeposit(ctx context.Context, token *launchpad.LaunchToken, assetDeposit solana.PublicKey) error {
	lamports, err := o.custody.AssetBalance(ctx, token.GraduationVault)
	if err != nil {
		return fmt.Errorf("failed to read graduation vault: %w", err)
	}
	if lamports > 0 {
		if err := o.custody.MoveAsset(ctx, token.GraduationVault, assetDeposit, lamports); err != nil {
			return fmt.Errorf("failed to drain graduation vault: %w", err)
		}
	}
	if err := o.custody.WrapAsset(ctx, assetDeposit); err != nil {
		return fmt.Errorf("failed to wrap asset deposit: %w", err)
	}
	return nil
}

// fundTokenDeposit moves the full custody token balance into the token
// deposit account.
func (o *Orchestrator) fundTokenDeposit(ctx context.Context, token *launchpad.LaunchToken, tokenDeposit solana.PublicKey) error {
	supply, err := o.custody.TokenBalance(ctx, token.Mint, token.CustodyAccount)
	if err != nil {
		return fmt.Errorf("failed to read custody balance: %w", err)
	}
	if supply == 0 {
		return nil
	}
	if err := o.custody.MoveToken(ctx, token.Mint, token.CustodyAccount, tokenDeposit, supply); err != nil {
		return fmt.Errorf("failed to drain custody account: %w", err)
	}
	return nil
}

// orderedParams puts the lower mint first, as the pool contract
// requires.
func (o *Orchestrator) orderedParams(token *launchpad.LaunchToken, assetDeposit, tokenDeposit solana.PublicKey, assetAmount, tokenAmount uint64) pool.CreateParams {
	params := pool.CreateParams{
		Creator:  launchpad.ProgramID,
		Mint0:    o.wrappedMint,
		Amount0:  assetAmount,
		Deposit0: assetDeposit,
		Mint1:    token.Mint,
		Amount1:  tokenAmount,
		Deposit1: tokenDeposit,
	}
	if bytes.Compare(o.wrappedMint.Bytes(), token.Mint.Bytes()) > 0 {
		params.Mint0, params.Mint1 = params.Mint1, params.Mint0
		params.Amount0, params.Amount1 = params.Amount1, params.Amount0
		params.Deposit0, params.Deposit1 = params.Deposit1, params.Deposit0
	}
	return params
}

// cleanup reclaims the temporary deposit accounts and the token's
// escrow accounts, sweeping any dust to the protocol fee vault. The
// token is already terminal; failures here are warnings.
func (o *Orchestrator) cleanup(ctx context.Context, cfg *launchpad.ProtocolConfig, token *launchpad.LaunchToken, assetDeposit, tokenDeposit solana.PublicKey, logger *zap.Logger) {
	accounts := []struct {
		name string
		key  solana.PublicKey
	}{
		{"asset_deposit", assetDeposit},
		{"token_deposit", tokenDeposit},
		{"custody_account", token.CustodyAccount},
		{"graduation_vault", token.GraduationVault},
	}
	for _, acc := range accounts {
		if err := o.custody.CloseAccount(ctx, acc.key, cfg.FeeVault); err != nil {
			logger.Warn("Failed to close account after graduation",
				zap.String("account", acc.name),
				zap.Error(err))
		}
	}
}

func (o *Orchestrator) publishGraduated(token *launchpad.LaunchToken, p *pool.Pool, assetAmount, tokenAmount uint64) {
	if o.bus == nil {
		return
	}
	event := &events.TokenGraduatedEvent{
		BaseEvent:   events.New(events.TokenGraduated, time.Unix(token.GraduatedAt, 0).UTC()),
		Mint:        token.Mint.String(),
		PoolID:      p.ID.String(),
		LPMint:      p.LPMint.String(),
		AssetAmount: assetAmount,
		TokenAmount: tokenAmount,
		Status:      token.Status.String(),
	}
	if err := o.bus.Publish(event); err != nil {
		o.logger.Warn("Failed to publish graduation event",
			zap.String("mint", token.Mint.String()),
			zap.Error(err))
	}
}

func (o *Orchestrator) recordGraduated(ctx context.Context, token *launchpad.LaunchToken, p *pool.Pool) {
	if o.store == nil {
		return
	}
	graduatedAt := time.Unix(token.GraduatedAt, 0).UTC()
	if err := o.store.MarkGraduated(ctx, token.Mint.String(), p.ID.String(), graduatedAt); err != nil {
		o.logger.Warn("Failed to persist graduation",
			zap.String("mint", token.Mint.String()),
			zap.Error(err))
	}
}
