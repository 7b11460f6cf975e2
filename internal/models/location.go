package models

// Location is owned by exactly one User.
type Location struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	City  string `json:"city" validate:"required"`
	State string `json:"state" validate:"required"`
}
