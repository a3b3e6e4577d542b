package service

import (
	"context"
	"fmt"

	"gamewin/events"
	"gamewin/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const maxNotificationListLimit = 100

type notificationService struct {
	uowFactory UnitOfWorkFactory
	policy     TxPolicy
}

// NewNotificationService creates a new notification service
func NewNotificationService(uowFactory UnitOfWorkFactory, policy TxPolicy) NotificationService {
	return &notificationService{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error) {
	if limit <= 0 || limit > maxNotificationListLimit {
		limit = maxNotificationListLimit
	}

	var notifications []*models.Notification
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		var err error
		notifications, err = uow.NotificationRepository().ListByUser(ctx, userID, limit)
		if err != nil {
			return fmt.Errorf("failed to list notifications: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID uuid.UUID, notificationID int64) error {
	return runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		if err := uow.NotificationRepository().MarkRead(ctx, userID, notificationID); err != nil {
			return fmt.Errorf("failed to mark notification read: %w", err)
		}
		return nil
	})
}

// HandleEvent is subscribed to the event bus. It runs after the originating
// unit of work committed, so failures are logged and never reach the ledger.
func (s *notificationService) HandleEvent(ctx context.Context, event events.Event) {
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		notifications, err := s.notificationsFor(ctx, uow, event)
		if err != nil {
			return err
		}
		for _, n := range notifications {
			if err := uow.NotificationRepository().Create(ctx, n); err != nil {
				return fmt.Errorf("failed to create notification: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to create notifications")
	}
}

func (s *notificationService) notificationsFor(ctx context.Context, uow UnitOfWork, event events.Event) ([]*models.Notification, error) {
	switch e := event.(type) {
	case events.TournamentJoinedEvent:
		return []*models.Notification{{
			UserID:  e.UserID,
			Type:    models.NotificationTypeTournament,
			Title:   "Tournament joined",
			Message: fmt.Sprintf("You joined %s (%d/%d players).", e.TournamentTitle, e.CurrentPlayers, e.MaxPlayers),
		}}, nil

	case events.ResultSettledEvent:
		if !e.Prize.IsPositive() {
			return []*models.Notification{{
				UserID:  e.UserID,
				Type:    models.NotificationTypeTournament,
				Title:   "Result recorded",
				Message: fmt.Sprintf("Your result in %s has been recorded with %d kills.", e.TournamentTitle, e.Kills),
			}}, nil
		}
		return []*models.Notification{{
			UserID:  e.UserID,
			Type:    models.NotificationTypePrize,
			Title:   "Prize won",
			Message: fmt.Sprintf("You placed #%d in %s and won %s.", *e.Position, e.TournamentTitle, e.Prize.StringFixed(2)),
		}}, nil

	case events.TournamentStatusChangedEvent:
		return s.statusNotifications(ctx, uow, e)

	case events.DailyBonusClaimedEvent:
		return []*models.Notification{{
			UserID:  e.UserID,
			Type:    models.NotificationTypeBonus,
			Title:   "Daily bonus claimed",
			Message: fmt.Sprintf("You received %d DIL and %s cash.", e.DilAmount, e.CashAmount.StringFixed(2)),
		}}, nil
	}
	return nil, nil
}

func (s *notificationService) statusNotifications(ctx context.Context, uow UnitOfWork, e events.TournamentStatusChangedEvent) ([]*models.Notification, error) {
	switch e.NewStatus {
	case models.TournamentStatusCancelled:
		notifications := make([]*models.Notification, 0, len(e.RefundedUsers))
		for _, userID := range e.RefundedUsers {
			notifications = append(notifications, &models.Notification{
				UserID:  userID,
				Type:    models.NotificationTypeRefund,
				Title:   "Tournament cancelled",
				Message: fmt.Sprintf("%s was cancelled and your entry fee has been refunded.", e.Title),
			})
		}
		return notifications, nil

	case models.TournamentStatusLive:
		registrations, err := uow.RegistrationRepository().ListByTournament(ctx, e.TournamentID)
		if err != nil {
			return nil, fmt.Errorf("failed to list registrations: %w", err)
		}
		notifications := make([]*models.Notification, 0, len(registrations))
		for _, r := range registrations {
			notifications = append(notifications, &models.Notification{
				UserID:  r.UserID,
				Type:    models.NotificationTypeTournament,
				Title:   "Tournament is live",
				Message: fmt.Sprintf("%s has started. Check the room details in the app.", e.Title),
			})
		}
		return notifications, nil
	}
	return nil, nil
}
