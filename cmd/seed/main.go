package main

import (
	"log"
	"time"

	"petit-marche/internal/model"
	"petit-marche/pkg/config"
	"petit-marche/pkg/database"

	"golang.org/x/crypto/bcrypt"
)

// Seeds a development database with a couple of accounts and listings.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	password, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	firstListingAt := time.Now().Add(-72 * time.Hour)

	seller := model.UserModel{
		Email:          "awa@example.com",
		Password:       string(password),
		FullName:       "Awa Diop",
		Phone:          "+2250707070707",
		District:       "Cocody",
		FirstListingAt: &firstListingAt,
	}
	buyer := model.UserModel{
		Email:    "moussa@example.com",
		Password: string(password),
		FullName: "Moussa Koné",
		Phone:    "+2250101010101",
		District: "Yopougon",
	}

	for _, user := range []*model.UserModel{&seller, &buyer} {
		if err := db.Where("email = ?", user.Email).FirstOrCreate(user).Error; err != nil {
			log.Fatalf("Failed to seed user %s: %v", user.Email, err)
		}
	}

	if err := db.Where("user_id = ?", seller.ID).
		FirstOrCreate(&model.CreditBalanceModel{UserID: seller.ID, Credits: 3}).Error; err != nil {
		log.Fatalf("Failed to seed credits: %v", err)
	}

	listings := []model.ListingModel{
		{
			UserID:      seller.ID,
			Title:       "Canapé 3 places",
			Description: "Canapé en tissu gris, très bon état.",
			Price:       45000,
			Category:    "maison",
			Condition:   "bon état",
			District:    "Cocody",
			Status:      "active",
		},
		{
			UserID:      seller.ID,
			Title:       "Vélo de ville",
			Description: "Vélo adulte, pneus neufs.",
			Price:       25000,
			Category:    "sport",
			Condition:   "occasion",
			District:    "Cocody",
			Status:      "active",
		},
	}
	for i := range listings {
		if err := db.Where("user_id = ? AND title = ?", listings[i].UserID, listings[i].Title).
			FirstOrCreate(&listings[i]).Error; err != nil {
			log.Fatalf("Failed to seed listing %q: %v", listings[i].Title, err)
		}
	}

	log.Printf("Seeded %d users and %d listings", 2, len(listings))
}
