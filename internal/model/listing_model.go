package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListingModel struct {
	ID           string              `gorm:"type:uuid;primary_key" json:"id"`
	UserID       string              `gorm:"type:uuid;not null;index" json:"user_id"`
	Title        string              `gorm:"type:varchar(255);not null" json:"title"`
	Description  string              `gorm:"type:text" json:"description"`
	Price        int                 `gorm:"not null" json:"price"`
	Category     string              `gorm:"type:varchar(100);index" json:"category"`
	Condition    string              `gorm:"type:varchar(50)" json:"condition"`
	District     string              `gorm:"type:varchar(100);index" json:"district"`
	Status       string              `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	BoostedUntil *time.Time          `gorm:"index" json:"boosted_until"`
	Views        int                 `gorm:"default:0" json:"views"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	DeletedAt    gorm.DeletedAt      `gorm:"index" json:"-"`
	Photos       []ListingPhotoModel `gorm:"foreignKey:ListingID" json:"photos,omitempty"`
}

func (ListingModel) TableName() string {
	return "listings"
}

func (l *ListingModel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

type ListingPhotoModel struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	ListingID string         `gorm:"type:uuid;not null;index" json:"listing_id"`
	PhotoURL  string         `gorm:"type:varchar(500);not null" json:"photo_url"`
	Order     int            `gorm:"column:photo_order;default:0;index" json:"order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ListingPhotoModel) TableName() string {
	return "listing_photos"
}

func (p *ListingPhotoModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
