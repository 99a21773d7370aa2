package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreditBalanceModel backs the user_credits table. The balance column is only
// touched through atomic UPDATE expressions in the repository.
type CreditBalanceModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Credits   int       `gorm:"default:0;not null" json:"credits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CreditBalanceModel) TableName() string {
	return "user_credits"
}

func (c *CreditBalanceModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
