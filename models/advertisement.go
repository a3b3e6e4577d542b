package models

import (
	"time"

	"github.com/google/uuid"
)

// AdType is the presentation format of an advertisement
type AdType string

const (
	AdTypeBanner AdType = "banner"
	AdTypePopup  AdType = "popup"
	AdTypeNative AdType = "native"
	AdTypeVideo  AdType = "video"
)

// Valid reports whether t is a supported format
func (t AdType) Valid() bool {
	switch t {
	case AdTypeBanner, AdTypePopup, AdTypeNative, AdTypeVideo:
		return true
	}
	return false
}

// AdPosition is the page slot an advertisement is shown in
type AdPosition string

const (
	AdPositionHomeTop     AdPosition = "home_top"
	AdPositionHomeBottom  AdPosition = "home_bottom"
	AdPositionTournaments AdPosition = "tournaments"
	AdPositionWallet      AdPosition = "wallet"
	AdPositionProfile     AdPosition = "profile"
)

// Valid reports whether p is a supported slot
func (p AdPosition) Valid() bool {
	switch p {
	case AdPositionHomeTop, AdPositionHomeBottom, AdPositionTournaments, AdPositionWallet, AdPositionProfile:
		return true
	}
	return false
}

// Advertisement is an admin-managed ad campaign
type Advertisement struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	ImageURL    string     `db:"image_url" json:"imageUrl"`
	TargetURL   string     `db:"target_url" json:"targetUrl"`
	Type        AdType     `db:"type" json:"type"`
	Position    AdPosition `db:"position" json:"position"`
	IsActive    bool       `db:"is_active" json:"isActive"`
	StartDate   *time.Time `db:"start_date" json:"startDate,omitempty"`
	EndDate     *time.Time `db:"end_date" json:"endDate,omitempty"`
	Impressions int64      `db:"impressions" json:"impressions"`
	Clicks      int64      `db:"clicks" json:"clicks"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// IsRunning reports whether the campaign should be shown at now
func (a *Advertisement) IsRunning(now time.Time) bool {
	if !a.IsActive {
		return false
	}
	if a.StartDate != nil && now.Before(*a.StartDate) {
		return false
	}
	if a.EndDate != nil && now.After(*a.EndDate) {
		return false
	}
	return true
}

// AdvertisementUpdate carries a partial update, nil fields are left as they are
type AdvertisementUpdate struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	ImageURL    *string     `json:"imageUrl,omitempty"`
	TargetURL   *string     `json:"targetUrl,omitempty"`
	Type        *AdType     `json:"type,omitempty"`
	Position    *AdPosition `json:"position,omitempty"`
	IsActive    *bool       `json:"isActive,omitempty"`
	StartDate   *time.Time  `json:"startDate,omitempty"`
	EndDate     *time.Time  `json:"endDate,omitempty"`
}
