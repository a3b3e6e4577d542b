package repository

import (
	"context"
	"fmt"
	"time"

	"gamewin/database"
	"gamewin/events"
	"gamewin/service"

	"github.com/jackc/pgx/v5"
)

const notStarted = "unit of work not started - call Begin() first"

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	lockTimeout      time.Duration
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	userRepo         service.UserRepository
	tournamentRepo   service.TournamentRepository
	registrationRepo service.RegistrationRepository
	transactionRepo  service.TransactionRepository
	spinRepo         service.SpinRepository
	dailyBonusRepo   service.DailyBonusRepository
	notificationRepo service.NotificationRepository
	adRepo           service.AdvertisementRepository
	statsRepo        service.StatsRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. Every unit runs in a
// READ COMMITTED transaction and serializes on the rows it locks; lock waits
// are bounded by lockTimeout.
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus, lockTimeout time.Duration) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:          db,
		eventBus:    eventBus,
		lockTimeout: lockTimeout,
	}
}

type unitOfWorkFactory struct {
	db          *database.DB
	eventBus    *events.Bus
	lockTimeout time.Duration
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		lockTimeout:      f.lockTimeout,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.BeginLocked(ctx, u.lockTimeout)
	if err != nil {
		return classify(err, "begin unit of work")
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.userRepo = newUserRepositoryWithTx(tx)
	u.tournamentRepo = newTournamentRepositoryWithTx(tx)
	u.registrationRepo = newRegistrationRepositoryWithTx(tx)
	u.transactionRepo = newTransactionRepositoryWithTx(tx)
	u.spinRepo = newSpinRepositoryWithTx(tx)
	u.dailyBonusRepo = newDailyBonusRepositoryWithTx(tx)
	u.notificationRepo = newNotificationRepositoryWithTx(tx)
	u.adRepo = newAdvertisementRepositoryWithTx(tx)
	u.statsRepo = newStatsRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction. A conflict at commit time is reported as
// ErrConflict so the runner can retry the whole unit.
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	u.tx = nil
	if err != nil {
		u.transactionalBus.Discard()
		return classify(err, "commit unit of work")
	}

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	// The request context may already be done; rollback must still reach the server
	err := u.tx.Rollback(context.WithoutCancel(u.ctx))
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() service.UserRepository {
	if u.userRepo == nil {
		panic(notStarted)
	}
	return u.userRepo
}

// TournamentRepository returns the tournament repository for this unit of work
func (u *unitOfWork) TournamentRepository() service.TournamentRepository {
	if u.tournamentRepo == nil {
		panic(notStarted)
	}
	return u.tournamentRepo
}

// RegistrationRepository returns the registration repository for this unit of work
func (u *unitOfWork) RegistrationRepository() service.RegistrationRepository {
	if u.registrationRepo == nil {
		panic(notStarted)
	}
	return u.registrationRepo
}

// TransactionRepository returns the ledger repository for this unit of work
func (u *unitOfWork) TransactionRepository() service.TransactionRepository {
	if u.transactionRepo == nil {
		panic(notStarted)
	}
	return u.transactionRepo
}

// SpinRepository returns the spin repository for this unit of work
func (u *unitOfWork) SpinRepository() service.SpinRepository {
	if u.spinRepo == nil {
		panic(notStarted)
	}
	return u.spinRepo
}

// DailyBonusRepository returns the daily bonus repository for this unit of work
func (u *unitOfWork) DailyBonusRepository() service.DailyBonusRepository {
	if u.dailyBonusRepo == nil {
		panic(notStarted)
	}
	return u.dailyBonusRepo
}

// NotificationRepository returns the notification repository for this unit of work
func (u *unitOfWork) NotificationRepository() service.NotificationRepository {
	if u.notificationRepo == nil {
		panic(notStarted)
	}
	return u.notificationRepo
}

// AdvertisementRepository returns the advertisement repository for this unit of work
func (u *unitOfWork) AdvertisementRepository() service.AdvertisementRepository {
	if u.adRepo == nil {
		panic(notStarted)
	}
	return u.adRepo
}

// StatsRepository returns the stats repository for this unit of work
func (u *unitOfWork) StatsRepository() service.StatsRepository {
	if u.statsRepo == nil {
		panic(notStarted)
	}
	return u.statsRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic(notStarted)
	}
	return u.transactionalBus
}
