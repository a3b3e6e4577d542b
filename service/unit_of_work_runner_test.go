package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrConflict))
	assert.True(t, IsRetryable(fmt.Errorf("failed to debit balance: %w", ErrConflict)))
	assert.False(t, IsRetryable(ErrAlreadySettled))
	assert.False(t, IsRetryable(ErrStorageUnavailable))
	assert.False(t, IsRetryable(ErrTournamentFull))
	assert.False(t, IsRetryable(nil))
}

func TestRunInUnitOfWork_AppliesTimeout(t *testing.T) {
	m := newServiceMocks()
	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	})).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)

	policy := TxPolicy{Timeout: time.Second, MaxAttempts: 1}
	err := runInUnitOfWork(context.Background(), m.factory, policy, func(ctx context.Context, uow UnitOfWork) error {
		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond)
		return nil
	})

	require.NoError(t, err)
	m.assertExpectations(t)
}

func TestRunInUnitOfWork_StopsRetryingWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := newServiceMocks()
	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)

	policy := TxPolicy{MaxAttempts: 5, BaseDelay: time.Hour}
	err := runInUnitOfWork(ctx, m.factory, policy, func(ctx context.Context, uow UnitOfWork) error {
		cancel()
		return ErrConflict
	})

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.True(t, errors.Is(err, context.Canceled))
	m.uow.AssertNumberOfCalls(t, "Begin", 1)
}

func TestRunInUnitOfWork_BeginFailure(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(ErrStorageUnavailable)

	called := false
	err := runInUnitOfWork(ctx, m.factory, testPolicy, func(ctx context.Context, uow UnitOfWork) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.False(t, called)
	m.uow.AssertNotCalled(t, "Rollback")
}

func TestWithJitter(t *testing.T) {
	assert.Equal(t, time.Duration(0), withJitter(0))
	for i := 0; i < 100; i++ {
		d := withJitter(40 * time.Millisecond)
		assert.GreaterOrEqual(t, d, 40*time.Millisecond)
		assert.LessOrEqual(t, d, 60*time.Millisecond)
	}
}
