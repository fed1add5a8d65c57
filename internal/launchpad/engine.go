// ==============================================
// File: internal/launchpad/engine.go
// ==============================================

// Package launchpad implements the bonding-curve trading engine and the
// token lifecycle state machine. Each public operation executes as one
// atomic, serialized unit of work: value transfers go out as a single
// custody batch and ledger state is committed only after the batch
// succeeds, so no error path can expose intermediate state.
package launchpad

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/curve"
	"github.com/rovshanmuradov/solana-launchpad/internal/custody"
	"github.com/rovshanmuradov/solana-launchpad/internal/events"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage/models"
)

// Graduator runs the multi-step hand-off to the external pool. It is
// implemented by the graduation package.
type Graduator interface {
	Graduate(ctx context.Context, cfg *ProtocolConfig, token *LaunchToken) error
}

// BuyResult reports a committed buy.
type BuyResult struct {
	TokensOut          uint64
	NetAsset           uint64
	Fee                uint64
	GraduationProgress uint64
	Status             TokenStatus
}

// SellResult reports a committed sell.
type SellResult struct {
	AssetOut uint64
	NetAsset uint64
	Fee      uint64
}

// Engine owns the protocol config and the per-token ledger records and
// serializes every operation against them.
type Engine struct {
	mu      sync.Mutex
	cfg     *ProtocolConfig
	tokens  map[solana.PublicKey]*LaunchToken
	custody custody.Service

	graduator Graduator
	bus       *events.Bus      // optional
	store     storage.Storage  // optional, best-effort
	logger    *zap.Logger
	now       func() time.Time
}

// NewEngine creates an engine over the given custody service. bus and
// store may be nil; events and persistence are then skipped.
func NewEngine(custodySvc custody.Service, bus *events.Bus, store storage.Storage, logger *zap.Logger) *Engine {
	return &Engine{
		cfg:     &ProtocolConfig{},
		tokens:  make(map[solana.PublicKey]*LaunchToken),
		custody: custodySvc,
		bus:     bus,
		store:   store,
		logger:  logger.Named("engine"),
		now:     time.Now,
	}
}

// SetGraduator wires the graduation orchestrator. Separate from the
// constructor because the orchestrator depends on this package.
func (e *Engine) SetGraduator(g Graduator) {
	e.graduator = g
}

// Config returns the protocol config record.
func (e *Engine) Config() *ProtocolConfig {
	return e.cfg
}

// Token returns the ledger record for a mint, if created.
func (e *Engine) Token(mint solana.PublicKey) (*LaunchToken, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.tokens[mint]
	if !ok {
		return nil, ErrTokenNotCreated
	}
	return t, nil
}

// ReadyToGraduate lists mints waiting for the pool hand-off.
func (e *Engine) ReadyToGraduate() []solana.PublicKey {
	e.mu.Lock()
	defer e.mu.Unlock()
	var mints []solana.PublicKey
	for mint, t := range e.tokens {
		if t.Status == TokenReadyToGraduate {
			mints = append(mints, mint)
		}
	}
	return mints
}

// InitializeConfig creates the protocol-wide singleton. One-time.
func (e *Engine) InitializeConfig(
	_ context.Context,
	authority solana.PublicKey,
	assetRate uint64,
	creatorSellDelay uint64,
	graduateThreshold uint64,
	buyFeeBps uint32,
	sellFeeBps uint32,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	if err := e.cfg.Initialize(authority, assetRate, creatorSellDelay, graduateThreshold, buyFeeBps, sellFeeBps, now); err != nil {
		return err
	}

	e.logger.Info("Protocol config initialized",
		zap.String("authority", authority.String()),
		zap.Uint64("asset_rate", assetRate),
		zap.Uint64("graduate_threshold", graduateThreshold),
		zap.Uint32("buy_fee", buyFeeBps),
		zap.Uint32("sell_fee", sellFeeBps))

	e.publish(&events.ConfigInitializedEvent{
		BaseEvent:         events.New(events.ConfigInitialized, now),
		Authority:         authority.String(),
		AssetRate:         assetRate,
		CreatorSellDelay:  creatorSellDelay,
		GraduateThreshold: graduateThreshold,
		BuyFeeBps:         buyFeeBps,
		SellFeeBps:        sellFeeBps,
		Status:            e.cfg.Status.String(),
	})
	return nil
}

// Pause stops trading and graduation. Authority checks are performed by
// the hosting ledger before the call reaches the engine.
func (e *Engine) Pause(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.cfg.Pause(); err != nil {
		return err
	}
	e.logger.Info("Protocol paused")
	e.publish(&events.ProtocolPausedEvent{BaseEvent: events.New(events.ProtocolPaused, e.now())})
	return nil
}

// Unpause resumes trading.
func (e *Engine) Unpause(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.cfg.Unpause(); err != nil {
		return err
	}
	e.logger.Info("Protocol unpaused")
	e.publish(&events.ProtocolUnpausedEvent{BaseEvent: events.New(events.ProtocolUnpaused, e.now())})
	return nil
}

// CreateToken opens a new token for bonding-curve trading: full supply
// is minted into custody and the virtual reserves and invariant are
// fixed from the protocol's asset rate.
func (e *Engine) CreateToken(ctx context.Context, creator, mint solana.PublicKey, meta TokenMetadata) (*LaunchToken, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.cfg.RequireActive(); err != nil {
		return nil, err
	}
	if _, exists := e.tokens[mint]; exists {
		return nil, ErrTokenAlreadyCreated
	}

	initialAsset, err := curve.InitialVirtualAssetReserve(e.cfg.AssetRate)
	if err != nil {
		return nil, err
	}

	now := e.now()
	t := &LaunchToken{}
	if err := t.create(creator, mint, meta, curve.TokenTotalSupply, initialAsset, now); err != nil {
		return nil, err
	}

	if err := e.custody.MintTo(ctx, mint, t.CustodyAccount, curve.TokenTotalSupply); err != nil {
		return nil, fmt.Errorf("failed to mint supply into custody: %w", err)
	}
	e.tokens[mint] = t

	e.logger.Info("Launch token created",
		zap.String("mint", mint.String()),
		zap.String("creator", creator.String()),
		zap.Uint64("virtual_asset_reserve", initialAsset))

	e.publish(&events.TokenCreatedEvent{
		BaseEvent: events.New(events.TokenCreated, now),
		Creator:   creator.String(),
		Mint:      mint.String(),
		Status:    t.Status.String(),
	})
	e.recordToken(ctx, t)
	return t, nil
}

// Buy trades reserve asset for tokens on the curve. The net amount goes
// into the token's graduation vault, the fee into the protocol vault,
// and crossing the graduation threshold flips the token to
// ready-to-graduate on exactly the operation that crosses it.
func (e *Engine) Buy(ctx context.Context, mint, buyer solana.PublicKey, amount uint64) (*BuyResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.cfg.RequireActive(); err != nil {
		return nil, err
	}
	t, ok := e.tokens[mint]
	if !ok {
		return nil, ErrTokenNotCreated
	}
	if t.Status != TokenTradingEnabled {
		return nil, ErrTradingNotEnabled
	}

	fee, err := e.cfg.Fees.BuyFee(amount)
	if err != nil {
		return nil, err
	}
	net, err := curve.CheckedSub(amount, fee)
	if err != nil {
		return nil, err
	}

	tokensOut, err := curve.TokenAmountOut(net, &t.CurrentK, t.VirtualAssetAmount, t.VirtualTokenAmount)
	if err != nil {
		return nil, err
	}

	// The graduation reserve is liquidity for the eventual pool seed;
	// it can never be sold down.
	sellable, err := curve.CheckedSub(t.VirtualTokenAmount, curve.TokenGraduationAmount)
	if err != nil {
		return nil, err
	}
	if tokensOut > sellable {
		return nil, ErrInsufficientTokenLiquidity
	}

	// Every mutation value is computed before any transfer so a math
	// failure cannot strand a half-applied operation.
	newTokenReserve, err := curve.CheckedSub(t.VirtualTokenAmount, tokensOut)
	if err != nil {
		return nil, err
	}
	newAssetReserve, err := curve.CheckedAdd(t.VirtualAssetAmount, net)
	if err != nil {
		return nil, err
	}
	newProgress, err := curve.CheckedAdd(t.VirtualGraduationAmount, net)
	if err != nil {
		return nil, err
	}

	transfers := []custody.Transfer{
		{Mint: mint, From: t.CustodyAccount, To: buyer, Amount: tokensOut},
		{From: buyer, To: t.GraduationVault, Amount: net},
		{From: buyer, To: e.cfg.FeeVault, Amount: fee},
	}
	if err := e.custody.Apply(ctx, transfers); err != nil {
		return nil, fmt.Errorf("buy transfers rejected: %w", err)
	}

	t.VirtualTokenAmount = newTokenReserve
	t.VirtualAssetAmount = newAssetReserve
	t.VirtualGraduationAmount = newProgress

	if t.VirtualGraduationAmount >= e.cfg.GraduateThreshold {
		if err := t.setStatus(TokenReadyToGraduate); err != nil {
			return nil, err
		}
		e.logger.Info("Token ready to graduate",
			zap.String("mint", mint.String()),
			zap.Uint64("graduation_progress", t.VirtualGraduationAmount))
	}

	e.recordTrade(ctx, t, buyer, models.SideBuy, amount, tokensOut, fee)

	return &BuyResult{
		TokensOut:          tokensOut,
		NetAsset:           net,
		Fee:                fee,
		GraduationProgress: t.VirtualGraduationAmount,
		Status:             t.Status,
	}, nil
}

// Sell trades tokens back for reserve asset. The payout and the fee
// both leave the graduation vault; graduation progress is reduced by
// the gross curve output, not the post-fee payout.
func (e *Engine) Sell(ctx context.Context, mint, seller solana.PublicKey, tokenIn uint64) (*SellResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.cfg.RequireActive(); err != nil {
		return nil, err
	}
	t, ok := e.tokens[mint]
	if !ok {
		return nil, ErrTokenNotCreated
	}
	if t.Status != TokenTradingEnabled {
		return nil, ErrTradingNotEnabled
	}

	assetOut, err := curve.AssetAmountOut(tokenIn, &t.CurrentK, t.VirtualTokenAmount, t.VirtualAssetAmount)
	if err != nil {
		return nil, err
	}
	fee, err := e.cfg.Fees.SellFee(assetOut)
	if err != nil {
		return nil, err
	}
	netOut, err := curve.CheckedSub(assetOut, fee)
	if err != nil {
		return nil, err
	}
	if assetOut > t.VirtualAssetAmount {
		return nil, ErrInsufficientAssetLiquidity
	}

	newTokenReserve, err := curve.CheckedAdd(t.VirtualTokenAmount, tokenIn)
	if err != nil {
		return nil, err
	}
	newAssetReserve, err := curve.CheckedSub(t.VirtualAssetAmount, assetOut)
	if err != nil {
		return nil, err
	}
	newProgress, err := curve.CheckedSub(t.VirtualGraduationAmount, assetOut)
	if err != nil {
		return nil, err
	}

	transfers := []custody.Transfer{
		{Mint: mint, From: seller, To: t.CustodyAccount, Amount: tokenIn},
		{From: t.GraduationVault, To: seller, Amount: netOut},
		{From: t.GraduationVault, To: e.cfg.FeeVault, Amount: fee},
	}
	if err := e.custody.Apply(ctx, transfers); err != nil {
		return nil, fmt.Errorf("sell transfers rejected: %w", err)
	}

	t.VirtualTokenAmount = newTokenReserve
	t.VirtualAssetAmount = newAssetReserve
	t.VirtualGraduationAmount = newProgress

	e.recordTrade(ctx, t, seller, models.SideSell, tokenIn, netOut, fee)

	return &SellResult{AssetOut: assetOut, NetAsset: netOut, Fee: fee}, nil
}

// Graduate hands the token's accumulated reserves to the external pool
// through the wired orchestrator.
func (e *Engine) Graduate(ctx context.Context, mint solana.PublicKey) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.graduator == nil {
		return fmt.Errorf("no graduator configured")
	}
	t, ok := e.tokens[mint]
	if !ok {
		return ErrTokenNotCreated
	}
	return e.graduator.Graduate(ctx, e.cfg, t)
}

func (e *Engine) publish(event events.Event) {
	if e.bus == nil {
		return
	}
	if err := e.bus.Publish(event); err != nil {
		e.logger.Warn("Failed to publish event",
			zap.String("event_type", string(event.Type())),
			zap.Error(err))
	}
}

// recordToken and recordTrade are best-effort: persistence sits outside
// the operation's atomic unit and a failure is only logged.
func (e *Engine) recordToken(ctx context.Context, t *LaunchToken) {
	if e.store == nil {
		return
	}
	rec := &models.TokenRecord{
		Mint:                    t.Mint.String(),
		Creator:                 t.Creator.String(),
		Name:                    t.Metadata.Name,
		Symbol:                  t.Metadata.Symbol,
		URI:                     t.Metadata.URI,
		Status:                  t.Status.String(),
		VirtualTokenAmount:      t.VirtualTokenAmount,
		VirtualAssetAmount:      t.VirtualAssetAmount,
		VirtualGraduationAmount: t.VirtualGraduationAmount,
		CurrentK:                t.CurrentK.Dec(),
		CreatedAt:               time.Unix(t.CreatedAt, 0).UTC(),
	}
	if err := e.store.SaveToken(ctx, rec); err != nil {
		e.logger.Warn("Failed to persist token record",
			zap.String("mint", t.Mint.String()),
			zap.Error(err))
	}
}

func (e *Engine) recordTrade(ctx context.Context, t *LaunchToken, trader solana.PublicKey, side string, amountIn, amountOut, fee uint64) {
	if e.store == nil {
		return
	}
	trade := &models.TradeRecord{
		Mint:      t.Mint.String(),
		Trader:    trader.String(),
		Side:      side,
		AmountIn:  amountIn,
		AmountOut: amountOut,
		Fee:       fee,
	}
	if err := e.store.SaveTrade(ctx, trade); err != nil {
		e.logger.Warn("Failed to persist trade record",
			zap.String("mint", t.Mint.String()),
			zap.String("side", side),
			zap.Error(err))
	}
	rec := &models.TokenRecord{
		Mint:                    t.Mint.String(),
		Status:                  t.Status.String(),
		VirtualTokenAmount:      t.VirtualTokenAmount,
		VirtualAssetAmount:      t.VirtualAssetAmount,
		VirtualGraduationAmount: t.VirtualGraduationAmount,
	}
	if err := e.store.UpdateToken(ctx, rec); err != nil {
		e.logger.Warn("Failed to update token record",
			zap.String("mint", t.Mint.String()),
			zap.Error(err))
	}
}
