package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewModel struct {
	ID         string    `gorm:"type:uuid;primary_key" json:"id"`
	ReviewerID string    `gorm:"type:uuid;not null;index:idx_reviews_reviewer_listing,unique" json:"reviewer_id"`
	ReviewedID string    `gorm:"type:uuid;not null;index" json:"reviewed_id"`
	ListingID  string    `gorm:"type:uuid;not null;index:idx_reviews_reviewer_listing,unique" json:"listing_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ReviewModel) TableName() string {
	return "reviews"
}

func (r *ReviewModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
