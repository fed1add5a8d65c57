// internal/storage/storage.go

// Package storage persists token and trade records for reporting.
// Writes are best-effort from the engine's point of view: a storage
// failure never rolls back a committed operation.
package storage

import (
	"context"
	"time"

	"github.com/rovshanmuradov/solana-launchpad/internal/storage/models"
)

// Storage is the persistence contract.
type Storage interface {
	SaveToken(ctx context.Context, token *models.TokenRecord) error
	UpdateToken(ctx context.Context, token *models.TokenRecord) error
	GetToken(ctx context.Context, mint string) (*models.TokenRecord, error)
	MarkGraduated(ctx context.Context, mint, poolID string, graduatedAt time.Time) error

	SaveTrade(ctx context.Context, trade *models.TradeRecord) error
	ListTrades(ctx context.Context, mint string, limit, offset int) ([]*models.TradeRecord, error)

	RunMigrations() error
	Close() error
}
