// internal/service/runner.go
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/solana-launchpad/internal/config"
	"github.com/rovshanmuradov/solana-launchpad/internal/custody"
	"github.com/rovshanmuradov/solana-launchpad/internal/events"
	"github.com/rovshanmuradov/solana-launchpad/internal/graduation"
	"github.com/rovshanmuradov/solana-launchpad/internal/launchpad"
	"github.com/rovshanmuradov/solana-launchpad/internal/logger"
	"github.com/rovshanmuradov/solana-launchpad/internal/pool"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage/postgres"
)

const graduationSweepInterval = 5 * time.Second

// Runner wires the launchpad stack together and drives its lifecycle.
type Runner struct {
	logger *logger.Logger
	config *config.Config

	bank       *custody.Bank
	bus        *events.Bus
	store      storage.Storage
	engine     *launchpad.Engine
	shutdown   *ShutdownHandler
	shutdownCh chan os.Signal
}

// NewRunner assembles all services from configuration.
func NewRunner(cfg *config.Config, log *logger.Logger) (*Runner, error) {
	r := &Runner{
		logger:     log,
		config:     cfg,
		shutdown:   NewShutdownHandler(log.Logger, 30*time.Second),
		shutdownCh: make(chan os.Signal, 1),
	}

	r.bank = custody.NewBank(solana.SolMint, log.Logger)
	r.bus = events.NewBus(log.Logger, cfg.EventBuffer)
	r.shutdown.AddFunc("event_bus", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return r.bus.Shutdown(ctx)
	})

	if cfg.WebhookURL != "" {
		notifier := events.NewWebhookNotifier(cfg.WebhookURL, log.Logger)
		notifier.Register(r.bus)
	}

	if cfg.PostgresURL != "" {
		store, err := postgres.NewStorage(cfg.PostgresURL, log.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		if err := store.RunMigrations(); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		r.store = store
		r.shutdown.Add("storage", store)
	}

	r.engine = launchpad.NewEngine(r.bank, r.bus, r.store, log.Logger)
	cpmm := pool.NewCPMM(r.bank, log.Logger)
	r.engine.SetGraduator(graduation.New(r.bank, cpmm, r.bus, r.store, log.Logger))

	return r, nil
}

// Engine exposes the trading engine to embedding callers.
func (r *Runner) Engine() *launchpad.Engine {
	return r.engine
}

// Bank exposes the custody bank, mainly so callers can fund accounts.
func (r *Runner) Bank() *custody.Bank {
	return r.bank
}

// Run initializes the protocol and blocks until a shutdown signal or a
// background failure. Shutdown of registered services happens before
// Run returns.
func (r *Runner) Run(ctx context.Context) error {
	signal.Notify(r.shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	authority, err := solana.PublicKeyFromBase58(r.config.Authority)
	if err != nil {
		return fmt.Errorf("invalid authority key: %w", err)
	}

	if err := r.engine.InitializeConfig(ctx,
		authority,
		r.config.AssetRate,
		uint64(time.Now().Unix()+r.config.CreatorSellDelay),
		r.config.GraduateThreshold,
		r.config.BuyFeeBps,
		r.config.SellFeeBps,
	); err != nil {
		return fmt.Errorf("failed to initialize protocol config: %w", err)
	}
	r.logger.Info("Launchpad running",
		zap.String("authority", r.config.Authority),
		zap.Uint64("asset_rate", r.config.AssetRate))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case sig := <-r.shutdownCh:
			r.logger.Info("Signal received", zap.String("signal", sig.String()))
			return context.Canceled
		case <-gctx.Done():
			return gctx.Err()
		}
	})

	g.Go(func() error {
		return r.sweepGraduations(gctx)
	})

	err = g.Wait()
	r.shutdown.Shutdown()

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// sweepGraduations periodically hands ready tokens to the pool. Trades
// only mark readiness; the actual hand-off runs here, out of band.
func (r *Runner) sweepGraduations(ctx context.Context) error {
	ticker := time.NewTicker(graduationSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, mint := range r.engine.ReadyToGraduate() {
				if err := r.engine.Graduate(ctx, mint); err != nil {
					r.logger.Error("Graduation failed",
						zap.String("mint", mint.String()),
						zap.Error(err))
				}
			}
		}
	}
}
