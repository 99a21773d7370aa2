package usecase

import "petit-marche/internal/entity"

// AnnoncePrice is the single-publication fee, in FCFA.
const AnnoncePrice = 200

// BoostPrice returns the fee for a boost window. Unknown options are still
// billable at a flat fallback so a stale client cannot create a free boost.
func BoostPrice(option string) int {
	switch option {
	case "24h":
		return 300
	case "7d":
		return 800
	case "30d":
		return 2500
	default:
		return 500
	}
}

// PackPrice returns the fee for a credit pack of the given size. Non-standard
// sizes are billed at the per-unit annonce price.
func PackPrice(credits int) int {
	switch credits {
	case 3:
		return 500
	case 10:
		return 1500
	case 30:
		return 3500
	default:
		return credits * AnnoncePrice
	}
}

// PurchaseAmount resolves the amount owed for a payment intent.
func PurchaseAmount(purchaseType entity.PurchaseType, boostOption string, credits int) int {
	switch purchaseType {
	case entity.PurchaseBoost:
		return BoostPrice(boostOption)
	case entity.PurchasePack:
		return PackPrice(credits)
	default:
		return AnnoncePrice
	}
}
