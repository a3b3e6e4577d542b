package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"gamewin/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLedgerEvent(userID uuid.UUID, amount string) LedgerEntryEvent {
	return LedgerEntryEvent{
		TransactionID:   1,
		UserID:          userID,
		TransactionType: models.TransactionTypeDeposit,
		Amount:          decimal.RequireFromString(amount),
		BalanceAfter:    decimal.RequireFromString(amount),
	}
}

// TestTransactionalBus_FlushDelivers covers the commit path from the unit of work to subscribers
func TestTransactionalBus_FlushDelivers(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	received := make(chan LedgerEntryEvent, 1)
	mainBus.Subscribe(EventTypeLedgerEntry, func(ctx context.Context, event Event) {
		if ledgerEvent, ok := event.(LedgerEntryEvent); ok {
			received <- ledgerEvent
		}
	})

	userID := uuid.New()
	transactionalBus.Publish(testLedgerEvent(userID, "100.00"))
	assert.Equal(t, 1, transactionalBus.Pending())

	require.NoError(t, transactionalBus.Flush(context.Background()))
	assert.Equal(t, 0, transactionalBus.Pending())

	select {
	case event := <-received:
		assert.Equal(t, userID, event.UserID)
		assert.True(t, event.Amount.Equal(decimal.RequireFromString("100")))
	case <-time.After(2 * time.Second):
		t.Fatal("Event was not received within timeout")
	}
}

func TestTransactionalBus_FlushMultiple(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	var wg sync.WaitGroup
	wg.Add(3)
	var mu sync.Mutex
	seen := make(map[uuid.UUID]bool)

	mainBus.Subscribe(EventTypeLedgerEntry, func(ctx context.Context, event Event) {
		defer wg.Done()
		mu.Lock()
		seen[event.(LedgerEntryEvent).UserID] = true
		mu.Unlock()
	})

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, id := range ids {
		transactionalBus.Publish(testLedgerEvent(id, "5.00"))
	}
	require.NoError(t, transactionalBus.Flush(context.Background()))

	waitOrFail(t, &wg)
	for _, id := range ids {
		assert.True(t, seen[id])
	}
}

func TestTransactionalBus_Discard(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	received := make(chan struct{}, 1)
	mainBus.Subscribe(EventTypeLedgerEntry, func(ctx context.Context, event Event) {
		received <- struct{}{}
	})

	transactionalBus.Publish(testLedgerEvent(uuid.New(), "50.00"))
	transactionalBus.Discard()
	require.NoError(t, transactionalBus.Flush(context.Background()))

	select {
	case <-received:
		t.Fatal("Event was received despite being discarded")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTransactionalBus_FlushOutlivesCancelledContext(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	handlerErr := make(chan error, 1)
	mainBus.Subscribe(EventTypeDailyBonusClaimed, func(ctx context.Context, event Event) {
		handlerErr <- ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	transactionalBus.Publish(DailyBonusClaimedEvent{UserID: uuid.New(), BonusDay: "2025-01-01", DilAmount: 10})
	require.NoError(t, transactionalBus.Flush(ctx))
	cancel()

	select {
	case err := <-handlerErr:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not called")
	}
}

func TestBus_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	wg.Add(1)
	bus.Subscribe(EventTypeSpinCompleted, func(ctx context.Context, event Event) {
		panic("handler failure")
	})
	bus.Subscribe(EventTypeSpinCompleted, func(ctx context.Context, event Event) {
		wg.Done()
	})

	bus.Emit(context.Background(), SpinCompletedEvent{UserID: uuid.New(), RewardKind: models.RewardKindDil})
	waitOrFail(t, &wg)
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	wg.Add(2)
	var mu sync.Mutex
	var types []EventType
	bus.SubscribeAll(func(ctx context.Context, event Event) {
		defer wg.Done()
		mu.Lock()
		types = append(types, event.Type())
		mu.Unlock()
	})

	bus.Emit(context.Background(), UserRegisteredEvent{UserID: uuid.New(), Username: "ghost"})
	bus.Emit(context.Background(), TournamentStatusChangedEvent{
		OldStatus: models.TournamentStatusUpcoming,
		NewStatus: models.TournamentStatusLive,
	})
	waitOrFail(t, &wg)

	assert.ElementsMatch(t, []EventType{EventTypeUserRegistered, EventTypeTournamentStatusChanged}, types)
}

func waitOrFail(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handlers")
	}
}
