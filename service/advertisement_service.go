package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gamewin/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type advertisementService struct {
	uowFactory UnitOfWorkFactory
	policy     TxPolicy
	now        Clock
}

// NewAdvertisementService creates a new advertisement service
func NewAdvertisementService(uowFactory UnitOfWorkFactory, policy TxPolicy) AdvertisementService {
	return &advertisementService{
		uowFactory: uowFactory,
		policy:     policy,
		now:        time.Now,
	}
}

func (s *advertisementService) Create(ctx context.Context, ad *models.Advertisement) (*models.Advertisement, error) {
	ad.ID = uuid.New()
	ad.Impressions = 0
	ad.Clicks = 0
	if err := validateAdvertisement(ad); err != nil {
		return nil, err
	}

	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		if err := uow.AdvertisementRepository().Create(ctx, ad); err != nil {
			return fmt.Errorf("failed to create advertisement: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"adID":     ad.ID,
		"position": ad.Position,
	}).Info("Advertisement created")

	return ad, nil
}

func validateAdvertisement(ad *models.Advertisement) error {
	if strings.TrimSpace(ad.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !ad.Type.Valid() {
		return fmt.Errorf("%w: unsupported ad type %q", ErrInvalidInput, ad.Type)
	}
	if !ad.Position.Valid() {
		return fmt.Errorf("%w: unsupported ad position %q", ErrInvalidInput, ad.Position)
	}
	for name, raw := range map[string]string{"image url": ad.ImageURL, "target url": ad.TargetURL} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: invalid %s", ErrInvalidInput, name)
		}
	}
	if ad.StartDate != nil && ad.EndDate != nil && !ad.EndDate.After(*ad.StartDate) {
		return fmt.Errorf("%w: end date must be after start date", ErrInvalidInput)
	}
	return nil
}

func (s *advertisementService) Update(ctx context.Context, adID uuid.UUID, update models.AdvertisementUpdate) (*models.Advertisement, error) {
	var ad *models.Advertisement
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		var err error
		ad, err = uow.AdvertisementRepository().GetByID(ctx, adID)
		if err != nil {
			return fmt.Errorf("failed to get advertisement: %w", err)
		}
		if ad == nil {
			return ErrAdvertisementNotFound
		}

		applyAdvertisementUpdate(ad, update)
		if err := validateAdvertisement(ad); err != nil {
			return err
		}
		if err := uow.AdvertisementRepository().Update(ctx, ad); err != nil {
			return fmt.Errorf("failed to update advertisement: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ad, nil
}

func applyAdvertisementUpdate(ad *models.Advertisement, update models.AdvertisementUpdate) {
	if update.Title != nil {
		ad.Title = *update.Title
	}
	if update.Description != nil {
		ad.Description = *update.Description
	}
	if update.ImageURL != nil {
		ad.ImageURL = *update.ImageURL
	}
	if update.TargetURL != nil {
		ad.TargetURL = *update.TargetURL
	}
	if update.Type != nil {
		ad.Type = *update.Type
	}
	if update.Position != nil {
		ad.Position = *update.Position
	}
	if update.IsActive != nil {
		ad.IsActive = *update.IsActive
	}
	if update.StartDate != nil {
		ad.StartDate = update.StartDate
	}
	if update.EndDate != nil {
		ad.EndDate = update.EndDate
	}
}

func (s *advertisementService) Delete(ctx context.Context, adID uuid.UUID) error {
	return runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		if err := uow.AdvertisementRepository().Delete(ctx, adID); err != nil {
			return fmt.Errorf("failed to delete advertisement: %w", err)
		}
		return nil
	})
}

func (s *advertisementService) ListAll(ctx context.Context) ([]*models.Advertisement, error) {
	var ads []*models.Advertisement
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		var err error
		ads, err = uow.AdvertisementRepository().List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list advertisements: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ads, nil
}

func (s *advertisementService) ListActive(ctx context.Context, position models.AdPosition) ([]*models.Advertisement, error) {
	if !position.Valid() {
		return nil, fmt.Errorf("%w: unsupported ad position %q", ErrInvalidInput, position)
	}

	var ads []*models.Advertisement
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		var err error
		ads, err = uow.AdvertisementRepository().ListRunning(ctx, position, s.now().UTC())
		if err != nil {
			return fmt.Errorf("failed to list running advertisements: %w", err)
		}
		if len(ads) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, len(ads))
		for i, ad := range ads {
			ids[i] = ad.ID
		}
		if err := uow.AdvertisementRepository().IncrementImpressions(ctx, ids); err != nil {
			return fmt.Errorf("failed to count impressions: %w", err)
		}
		for _, ad := range ads {
			ad.Impressions++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ads, nil
}

func (s *advertisementService) RecordClick(ctx context.Context, adID uuid.UUID) (*models.Advertisement, error) {
	var ad *models.Advertisement
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		var err error
		ad, err = uow.AdvertisementRepository().GetByID(ctx, adID)
		if err != nil {
			return fmt.Errorf("failed to get advertisement: %w", err)
		}
		if ad == nil {
			return ErrAdvertisementNotFound
		}
		if err := uow.AdvertisementRepository().IncrementClicks(ctx, adID); err != nil {
			return fmt.Errorf("failed to count click: %w", err)
		}
		ad.Clicks++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ad, nil
}
