package domain

import "time"

// CachedLocation stores a successfully geocoded address. Besides serving as
// an exact-match cache it is the data set for the nearest-neighbor fallback
// when both geocoding providers are unavailable.
type CachedLocation struct {
	ID        int64     `json:"id"`
	Address   string    `json:"address" gorm:"uniqueIndex"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}

func (CachedLocation) TableName() string { return "cached_locations" }
