package entity

import "time"

type ListingStatus string

const (
	ListingStatusPending ListingStatus = "pending"
	ListingStatusActive  ListingStatus = "active"
	ListingStatusSold    ListingStatus = "sold"
)

// MinListingPrice is the lowest accepted price, in FCFA.
const MinListingPrice = 200

type Listing struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Price        int            `json:"price"`
	Category     string         `json:"category"`
	Condition    string         `json:"condition"`
	District     string         `json:"district"`
	Status       ListingStatus  `json:"status"`
	BoostedUntil *time.Time     `json:"boosted_until,omitempty"`
	Views        int            `json:"views"`
	Photos       []ListingPhoto `json:"photos"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type ListingPhoto struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	PhotoURL  string    `json:"photo_url"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

// IsBoosted reports whether the listing currently has a paid boost window.
func (l *Listing) IsBoosted(now time.Time) bool {
	return l.BoostedUntil != nil && l.BoostedUntil.After(now)
}

// PublishCharge describes how a publish submission was funded.
type PublishCharge string

const (
	ChargeFirstListingFree PublishCharge = "first_listing_free"
	ChargeCredit           PublishCharge = "credit"
	ChargePaymentRequired  PublishCharge = "payment_required"
)

// PublishResult is the outcome of the publish gate for one submission.
type PublishResult struct {
	Listing        *Listing      `json:"listing"`
	Charge         PublishCharge `json:"charge"`
	PaymentOptions []string      `json:"payment_options,omitempty"`
}
