package entity

import "time"

type User struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Password       string     `json:"-"`
	FullName       string     `json:"full_name"`
	Phone          string     `json:"phone"`
	District       string     `json:"district"`
	Rating         *float64   `json:"rating,omitempty"`
	FirstListingAt *time.Time `json:"first_listing_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// HasUsedFreeListing reports whether the one-time free first listing was consumed.
func (u *User) HasUsedFreeListing() bool {
	return u.FirstListingAt != nil
}
