package models

import "time"

// Listing is an item a user offers to others.
type Listing struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" validate:"required,max=120"`
	Description string    `json:"description" validate:"max=2000"`
	UserID      uint      `json:"user_id" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferDeclined OfferStatus = "declined"
)

// Offer is a bid by UserID on a listing owned by someone else.
type Offer struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	ListingID   uint        `json:"listing_id" gorm:"index"`
	UserID      uint        `json:"user_id" gorm:"index"`
	AmountCents int64       `json:"amount_cents"`
	Message     string      `json:"message"`
	Status      OfferStatus `json:"status" gorm:"size:20;default:pending;index"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type CreateListingRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
}

type CreateOfferRequest struct {
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	Message     string `json:"message" validate:"max=500"`
}
