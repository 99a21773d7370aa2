package entity

import "time"

type PurchaseType string

const (
	PurchaseAnnonce PurchaseType = "annonce"
	PurchaseBoost   PurchaseType = "boost"
	PurchasePack    PurchaseType = "pack"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction records one payment intent against the external gateway,
// correlated by the gateway's opaque checkout token. Once a transaction
// reaches a terminal status it is never mutated again.
type Transaction struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	ListingID     *string           `json:"listing_id,omitempty"`
	Amount        int               `json:"amount"`
	Type          PurchaseType      `json:"type"`
	Status        TransactionStatus `json:"status"`
	PayDunyaToken string            `json:"paydunya_token"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// BoostDuration maps a boost option code to its promotion window.
// Unrecognized codes get the shortest window.
func BoostDuration(option string) time.Duration {
	switch option {
	case "24h":
		return 24 * time.Hour
	case "7d":
		return 7 * 24 * time.Hour
	case "30d":
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}
