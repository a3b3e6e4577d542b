package service

import (
	"context"
	"testing"
	"time"

	"gamewin/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdvertisementService_ListActive_CountsImpressions(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := NewAdvertisementService(m.factory, testPolicy).(*advertisementService)

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	ads := []*models.Advertisement{
		{ID: uuid.New(), Title: "Skins sale", Impressions: 4},
		{ID: uuid.New(), Title: "Energy drink", Impressions: 0},
	}
	m.expectCommit(ctx)
	m.ads.On("ListRunning", ctx, models.AdPositionHomeTop, now).Return(ads, nil)
	m.ads.On("IncrementImpressions", ctx, []uuid.UUID{ads[0].ID, ads[1].ID}).Return(nil)

	got, err := svc.ListActive(ctx, models.AdPositionHomeTop)

	require.NoError(t, err)
	assert.Equal(t, int64(5), got[0].Impressions)
	assert.Equal(t, int64(1), got[1].Impressions)
	m.assertExpectations(t)
}

func TestAdvertisementService_ListActive_UnknownPosition(t *testing.T) {
	m := newServiceMocks()
	svc := NewAdvertisementService(m.factory, testPolicy)

	_, err := svc.ListActive(context.Background(), "sidebar")

	assert.ErrorIs(t, err, ErrInvalidInput)
	m.factory.AssertNotCalled(t, "Create")
}

func TestAdvertisementService_Create_Validation(t *testing.T) {
	start := time.Now()
	end := start.Add(-time.Hour)

	tests := []struct {
		name string
		ad   models.Advertisement
	}{
		{"missing title", models.Advertisement{Type: models.AdTypeBanner, Position: models.AdPositionWallet}},
		{"bad type", models.Advertisement{Title: "x", Type: "hologram", Position: models.AdPositionWallet}},
		{"relative target", models.Advertisement{Title: "x", Type: models.AdTypeBanner, Position: models.AdPositionWallet, TargetURL: "/shop"}},
		{"end before start", models.Advertisement{Title: "x", Type: models.AdTypeBanner, Position: models.AdPositionWallet, StartDate: &start, EndDate: &end}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newServiceMocks()
			svc := NewAdvertisementService(m.factory, testPolicy)

			ad := tt.ad
			_, err := svc.Create(context.Background(), &ad)

			assert.ErrorIs(t, err, ErrInvalidInput)
			m.factory.AssertNotCalled(t, "Create")
		})
	}
}

func TestAdvertisementService_Update_Partial(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := NewAdvertisementService(m.factory, testPolicy)

	existing := &models.Advertisement{
		ID:        uuid.New(),
		Title:     "Old title",
		TargetURL: "https://example.com",
		Type:      models.AdTypeBanner,
		Position:  models.AdPositionProfile,
		IsActive:  true,
	}
	title := "New title"
	inactive := false

	m.expectCommit(ctx)
	m.ads.On("GetByID", ctx, existing.ID).Return(existing, nil)
	m.ads.On("Update", ctx, mock.MatchedBy(func(ad *models.Advertisement) bool {
		return ad.Title == "New title" && !ad.IsActive && ad.TargetURL == "https://example.com"
	})).Return(nil)

	updated, err := svc.Update(ctx, existing.ID, models.AdvertisementUpdate{Title: &title, IsActive: &inactive})

	require.NoError(t, err)
	assert.Equal(t, models.AdPositionProfile, updated.Position)
	m.assertExpectations(t)
}

func TestAdvertisementService_RecordClick_NotFound(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := NewAdvertisementService(m.factory, testPolicy)

	adID := uuid.New()
	m.expectRollback(ctx)
	m.ads.On("GetByID", ctx, adID).Return(nil, nil)

	_, err := svc.RecordClick(ctx, adID)

	assert.ErrorIs(t, err, ErrAdvertisementNotFound)
	m.assertExpectations(t)
}
