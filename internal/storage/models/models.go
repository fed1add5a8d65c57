// internal/storage/models/models.go
package models

import "time"

// TokenRecord mirrors a launch token's ledger state for reporting.
// The ledger itself is authoritative; these rows are observability.
type TokenRecord struct {
	ID                      uint   `gorm:"primaryKey"`
	Mint                    string `gorm:"uniqueIndex;size:64"`
	Creator                 string `gorm:"index;size:64"`
	Name                    string `gorm:"size:32"`
	Symbol                  string `gorm:"size:10"`
	URI                     string `gorm:"size:200"`
	Status                  string `gorm:"size:24;index"`
	VirtualTokenAmount      uint64
	VirtualAssetAmount      uint64
	VirtualGraduationAmount uint64
	// CurrentK exceeds 64 bits; stored as its decimal string.
	CurrentK    string `gorm:"size:80"`
	PoolID      string `gorm:"size:64"`
	CreatedAt   time.Time
	GraduatedAt *time.Time
	UpdatedAt   time.Time
}

// TradeRecord is one executed buy or sell.
type TradeRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Mint      string `gorm:"index;size:64"`
	Trader    string `gorm:"index;size:64"`
	Side      string `gorm:"size:4"` // "buy" or "sell"
	AmountIn  uint64
	AmountOut uint64
	Fee       uint64
	CreatedAt time.Time
}

const (
	SideBuy  = "buy"
	SideSell = "sell"
)
