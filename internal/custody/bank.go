// internal/custody/bank.go
package custody

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/curve"
)

// Bank is an in-memory Service. It backs tests, the pool simulator and
// the service runner; a production deployment would put the on-chain
// transfer program behind the same interface.
type Bank struct {
	mu sync.Mutex

	wrappedMint solana.PublicKey
	assets      map[solana.PublicKey]uint64
	// tokens: mint -> account -> balance
	tokens      map[solana.PublicKey]map[solana.PublicKey]uint64
	authorities map[solana.PublicKey]solana.PublicKey
	closed      map[solana.PublicKey]bool

	logger *zap.Logger
}

// NewBank creates an empty bank. wrappedMint is the token mint that
// WrapAsset converts native balances into.
func NewBank(wrappedMint solana.PublicKey, logger *zap.Logger) *Bank {
	return &Bank{
		wrappedMint: wrappedMint,
		assets:      make(map[solana.PublicKey]uint64),
		tokens:      make(map[solana.PublicKey]map[solana.PublicKey]uint64),
		authorities: make(map[solana.PublicKey]solana.PublicKey),
		closed:      make(map[solana.PublicKey]bool),
		logger:      logger.Named("custody"),
	}
}

// Fund credits native asset out of thin air. Test and bootstrap helper:
// rent funding is an external collaborator's job.
func (b *Bank) Fund(account solana.PublicKey, amount uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.assets[account] += amount
}

func (b *Bank) MoveAsset(ctx context.Context, from, to solana.PublicKey, amount uint64) error {
	return b.Apply(ctx, []Transfer{{From: from, To: to, Amount: amount}})
}

func (b *Bank) MoveToken(ctx context.Context, mint, from, to solana.PublicKey, amount uint64) error {
	return b.Apply(ctx, []Transfer{{Mint: mint, From: from, To: to, Amount: amount}})
}

// Apply validates the whole batch against staged balances before
// committing anything, so a failing transfer leaves the bank untouched.
func (b *Bank) Apply(_ context.Context, transfers []Transfer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	stagedAssets := make(map[solana.PublicKey]uint64)
	stagedTokens := make(map[solana.PublicKey]map[solana.PublicKey]uint64)

	assetOf := func(acc solana.PublicKey) uint64 {
		if v, ok := stagedAssets[acc]; ok {
			return v
		}
		return b.assets[acc]
	}
	tokenOf := func(mint, acc solana.PublicKey) uint64 {
		if m, ok := stagedTokens[mint]; ok {
			if v, ok := m[acc]; ok {
				return v
			}
		}
		return b.tokens[mint][acc]
	}

	for i, tr := range transfers {
		if b.closed[tr.From] || b.closed[tr.To] {
			return fmt.Errorf("transfer %d: %w", i, ErrAccountClosed)
		}
		if tr.Mint.IsZero() {
			from := assetOf(tr.From)
			if from < tr.Amount {
				return fmt.Errorf("transfer %d from %s: %w", i, tr.From, ErrInsufficientFunds)
			}
			stagedAssets[tr.From] = from - tr.Amount
			stagedAssets[tr.To] = assetOf(tr.To) + tr.Amount
			continue
		}
		from := tokenOf(tr.Mint, tr.From)
		if from < tr.Amount {
			return fmt.Errorf("transfer %d from %s: %w", i, tr.From, ErrInsufficientFunds)
		}
		if stagedTokens[tr.Mint] == nil {
			stagedTokens[tr.Mint] = make(map[solana.PublicKey]uint64)
		}
		stagedTokens[tr.Mint][tr.From] = from - tr.Amount
		stagedTokens[tr.Mint][tr.To] = tokenOf(tr.Mint, tr.To) + tr.Amount
	}

	for acc, v := range stagedAssets {
		b.assets[acc] = v
	}
	for mint, accs := range stagedTokens {
		if b.tokens[mint] == nil {
			b.tokens[mint] = make(map[solana.PublicKey]uint64)
		}
		for acc, v := range accs {
			b.tokens[mint][acc] = v
		}
	}
	return nil
}

func (b *Bank) AssetBalance(_ context.Context, account solana.PublicKey) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed[account] {
		return 0, ErrAccountClosed
	}
	return b.assets[account], nil
}

func (b *Bank) TokenBalance(_ context.Context, mint, account solana.PublicKey) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed[account] {
		return 0, ErrAccountClosed
	}
	return b.tokens[mint][account], nil
}

func (b *Bank) MintTo(_ context.Context, mint, to solana.PublicKey, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed[to] {
		return ErrAccountClosed
	}
	if b.tokens[mint] == nil {
		b.tokens[mint] = make(map[solana.PublicKey]uint64)
	}
	next, err := curve.CheckedAdd(b.tokens[mint][to], amount)
	if err != nil {
		return err
	}
	b.tokens[mint][to] = next
	return nil
}

// WrapAsset mirrors the native balance into the wrapped mint and zeroes
// the native side, the in-memory equivalent of a sync-native call.
func (b *Bank) WrapAsset(_ context.Context, account solana.PublicKey) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed[account] {
		return ErrAccountClosed
	}
	amount := b.assets[account]
	if amount == 0 {
		return nil
	}
	if b.tokens[b.wrappedMint] == nil {
		b.tokens[b.wrappedMint] = make(map[solana.PublicKey]uint64)
	}
	next, err := curve.CheckedAdd(b.tokens[b.wrappedMint][account], amount)
	if err != nil {
		return err
	}
	b.tokens[b.wrappedMint][account] = next
	b.assets[account] = 0
	return nil
}

func (b *Bank) SetTokenAuthority(_ context.Context, mint, account, newAuthority solana.PublicKey) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed[account] {
		return ErrAccountClosed
	}
	b.authorities[account] = newAuthority
	b.logger.Debug("Token account authority reassigned",
		zap.String("mint", mint.String()),
		zap.String("account", account.String()),
		zap.String("authority", newAuthority.String()))
	return nil
}

// TokenAuthority reports the recorded owner of a token account.
func (b *Bank) TokenAuthority(account solana.PublicKey) solana.PublicKey {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.authorities[account]
}

// CloseAccount sweeps remaining balances to the beneficiary and zeroes
// the account's storage before release.
func (b *Bank) CloseAccount(_ context.Context, account, beneficiary solana.PublicKey) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed[account] {
		return ErrAccountClosed
	}
	if lamports := b.assets[account]; lamports > 0 {
		b.assets[beneficiary] += lamports
	}
	delete(b.assets, account)
	for mint, accs := range b.tokens {
		if bal, ok := accs[account]; ok {
			if bal > 0 {
				if b.tokens[mint] == nil {
					b.tokens[mint] = make(map[solana.PublicKey]uint64)
				}
				b.tokens[mint][beneficiary] += bal
			}
			delete(accs, account)
		}
	}
	delete(b.authorities, account)
	b.closed[account] = true
	return nil
}
