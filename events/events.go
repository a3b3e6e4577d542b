package events

import (
	"context"
	"sync"

	"gamewin/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// EventType identifies a domain event
type EventType string

const (
	EventTypeLedgerEntry             EventType = "ledger_entry"
	EventTypeUserRegistered          EventType = "user_registered"
	EventTypeTournamentCreated       EventType = "tournament_created"
	EventTypeTournamentJoined        EventType = "tournament_joined"
	EventTypeResultSettled           EventType = "result_settled"
	EventTypeTournamentStatusChanged EventType = "tournament_status_changed"
	EventTypeSpinCompleted           EventType = "spin_completed"
	EventTypeDailyBonusClaimed       EventType = "daily_bonus_claimed"
)

// AllEventTypes lists every event the services emit
var AllEventTypes = []EventType{
	EventTypeLedgerEntry,
	EventTypeUserRegistered,
	EventTypeTournamentCreated,
	EventTypeTournamentJoined,
	EventTypeResultSettled,
	EventTypeTournamentStatusChanged,
	EventTypeSpinCompleted,
	EventTypeDailyBonusClaimed,
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// LedgerEntryEvent is emitted for every committed transaction row
type LedgerEntryEvent struct {
	TransactionID   int64                  `json:"transactionId"`
	UserID          uuid.UUID              `json:"userId"`
	TransactionType models.TransactionType `json:"transactionType"`
	Amount          decimal.Decimal        `json:"amount"`
	DilAmount       int64                  `json:"dilAmount"`
	BalanceAfter    decimal.Decimal        `json:"balanceAfter"`
	DilBalanceAfter int64                  `json:"dilBalanceAfter"`
	TournamentID    *uuid.UUID             `json:"tournamentId,omitempty"`
}

func (e LedgerEntryEvent) Type() EventType {
	return EventTypeLedgerEntry
}

// UserRegisteredEvent is emitted when an account is created
type UserRegisteredEvent struct {
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
}

func (e UserRegisteredEvent) Type() EventType {
	return EventTypeUserRegistered
}

// TournamentCreatedEvent is emitted when an admin publishes a tournament
type TournamentCreatedEvent struct {
	TournamentID uuid.UUID       `json:"tournamentId"`
	Title        string          `json:"title"`
	Game         models.Game     `json:"game"`
	GameMode     models.GameMode `json:"gameMode"`
	EntryFee     decimal.Decimal `json:"entryFee"`
	PrizePool    decimal.Decimal `json:"prizePool"`
	MaxPlayers   int             `json:"maxPlayers"`
	StartTime    string          `json:"startTime"`
}

func (e TournamentCreatedEvent) Type() EventType {
	return EventTypeTournamentCreated
}

// TournamentJoinedEvent is emitted when a player pays the entry fee
type TournamentJoinedEvent struct {
	TournamentID    uuid.UUID       `json:"tournamentId"`
	TournamentTitle string          `json:"tournamentTitle"`
	RegistrationID  uuid.UUID       `json:"registrationId"`
	UserID          uuid.UUID       `json:"userId"`
	Username        string          `json:"username"`
	EntryFee        decimal.Decimal `json:"entryFee"`
	CurrentPlayers  int             `json:"currentPlayers"`
	MaxPlayers      int             `json:"maxPlayers"`
}

func (e TournamentJoinedEvent) Type() EventType {
	return EventTypeTournamentJoined
}

// ResultSettledEvent is emitted when a registration result is recorded
type ResultSettledEvent struct {
	RegistrationID  uuid.UUID       `json:"registrationId"`
	TournamentID    uuid.UUID       `json:"tournamentId"`
	TournamentTitle string          `json:"tournamentTitle"`
	UserID          uuid.UUID       `json:"userId"`
	Username        string          `json:"username"`
	Position        *int            `json:"position"`
	Kills           int             `json:"kills"`
	Prize           decimal.Decimal `json:"prize"`
}

func (e ResultSettledEvent) Type() EventType {
	return EventTypeResultSettled
}

// TournamentStatusChangedEvent is emitted on every lifecycle transition
type TournamentStatusChangedEvent struct {
	TournamentID  uuid.UUID               `json:"tournamentId"`
	Title         string                  `json:"title"`
	OldStatus     models.TournamentStatus `json:"oldStatus"`
	NewStatus     models.TournamentStatus `json:"newStatus"`
	RefundedUsers []uuid.UUID             `json:"refundedUsers,omitempty"`
}

func (e TournamentStatusChangedEvent) Type() EventType {
	return EventTypeTournamentStatusChanged
}

// SpinCompletedEvent is emitted after a committed spin
type SpinCompletedEvent struct {
	UserID      uuid.UUID         `json:"userId"`
	RewardID    int64             `json:"rewardId"`
	RewardKind  models.RewardKind `json:"rewardKind"`
	RewardValue decimal.Decimal   `json:"rewardValue"`
	DilSpent    int64             `json:"dilSpent"`
}

func (e SpinCompletedEvent) Type() EventType {
	return EventTypeSpinCompleted
}

// DailyBonusClaimedEvent is emitted after a committed daily bonus claim
type DailyBonusClaimedEvent struct {
	UserID     uuid.UUID       `json:"userId"`
	BonusDay   string          `json:"bonusDay"`
	DilAmount  int64           `json:"dilAmount"`
	CashAmount decimal.Decimal `json:"cashAmount"`
}

func (e DailyBonusClaimedEvent) Type() EventType {
	return EventTypeDailyBonusClaimed
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus dispatches committed events to subscribers
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// SubscribeAll adds the same handler for every known event type
func (b *Bus) SubscribeAll(handler Handler) {
	for _, eventType := range AllEventTypes {
		b.Subscribe(eventType, handler)
	}
}

// Emit hands the event to every subscriber, each on its own goroutine.
// A panicking handler is logged and does not affect the others.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event")

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds the events of one unit of work until it commits
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

// NewTransactionalBus creates a buffer in front of real
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish queues an event until Flush
func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Queued event on transactional bus")
}

// Flush emits queued events in publish order. Called after a successful commit.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Handlers outlive the request, so they get a fresh context
	eventCtx := context.WithoutCancel(ctx)

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	log.WithField("flushedCount", len(b.pending)).Debug("Flushed transactional bus")
	b.pending = nil
	return nil
}

// Discard drops queued events. Called after rollback.
func (b *TransactionalBus) Discard() {
	if len(b.pending) > 0 {
		log.WithField("discardedCount", len(b.pending)).Debug("Discarded events of rolled back unit of work")
	}
	b.pending = nil
}

// Pending returns the number of queued events
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}
