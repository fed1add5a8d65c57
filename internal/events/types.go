// internal/events/types.go

// Package events carries protocol lifecycle notifications. Delivery is
// fire-and-forget: no engine logic depends on a consumer seeing an
// event.
package events

import (
	"time"
)

// EventType identifies a lifecycle notification.
type EventType string

const (
	ConfigInitialized EventType = "config.initialized"
	ProtocolPaused    EventType = "protocol.paused"
	ProtocolUnpaused  EventType = "protocol.unpaused"
	TokenCreated      EventType = "token.created"
	TokenGraduated    EventType = "token.graduated"
)

// AllTypes lists every lifecycle event, in emission order of a token's
// life.
var AllTypes = []EventType{
	ConfigInitialized,
	ProtocolPaused,
	ProtocolUnpaused,
	TokenCreated,
	TokenGraduated,
}

// Event is the base interface for all events.
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	EventType EventType `json:"type"`
	EventTime time.Time `json:"timestamp"`
}

func (e BaseEvent) Type() EventType {
	return e.EventType
}

func (e BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

// ConfigInitializedEvent is emitted once, when the protocol config is
// created.
type ConfigInitializedEvent struct {
	BaseEvent
	Authority         string `json:"authority"`
	AssetRate         uint64 `json:"asset_rate"`
	CreatorSellDelay  uint64 `json:"creator_sell_delay"`
	GraduateThreshold uint64 `json:"graduate_threshold"`
	BuyFeeBps         uint32 `json:"buy_fee_bps"`
	SellFeeBps        uint32 `json:"sell_fee_bps"`
	Status            string `json:"status"`
}

// ProtocolPausedEvent is emitted when the authority pauses trading.
type ProtocolPausedEvent struct {
	BaseEvent
}

// ProtocolUnpausedEvent is emitted when the authority resumes trading.
type ProtocolUnpausedEvent struct {
	BaseEvent
}

// TokenCreatedEvent is emitted when a launch token opens for trading.
type TokenCreatedEvent struct {
	BaseEvent
	Creator string `json:"creator"`
	Mint    string `json:"mint"`
	Status  string `json:"status"`
}

// TokenGraduatedEvent is emitted after the terminal hand-off to the
// external pool.
type TokenGraduatedEvent struct {
	BaseEvent
	Mint        string `json:"mint"`
	PoolID      string `json:"pool_id"`
	LPMint      string `json:"lp_mint"`
	AssetAmount uint64 `json:"asset_amount"`
	TokenAmount uint64 `json:"token_amount"`
	Status      string `json:"status"`
}

// New stamps a BaseEvent with the current time.
func New(t EventType, now time.Time) BaseEvent {
	return BaseEvent{EventType: t, EventTime: now}
}
