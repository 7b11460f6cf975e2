package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// User is a registered member. Email, username, password digest and location
// must all be present before the row is written.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Email          string    `json:"email" gorm:"uniqueIndex" validate:"required,email"`
	Username       string    `json:"username" gorm:"uniqueIndex" validate:"required"`
	PasswordDigest string    `json:"-" validate:"required"`
	LocationID     uint      `json:"location_id" gorm:"index" validate:"required_without=Location"`
	Location       *Location `json:"location,omitempty" validate:"required_without=LocationID"`
	Avatar         string    `json:"avatar,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	Number         string    `json:"number,omitempty"`
	FirebaseUID    *string   `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BeforeCreate refuses to persist a user that is missing a required attribute.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	return u.Validate()
}

// Validate checks the presence invariant on the user and its location.
func (u *User) Validate() error {
	return ValidateStruct(u)
}

// UserCompact is the public projection embedded in feeds and notifications.
type UserCompact struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

type RegisterUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=2,max=50,alphanum"`
	Password string `json:"password" validate:"required,min=8"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	Avatar   string `json:"avatar,omitempty" validate:"omitempty,url"`
	Bio      string `json:"bio,omitempty" validate:"max=500"`
	Number   string `json:"number,omitempty"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Avatar string `json:"avatar,omitempty" validate:"omitempty,url"`
	Bio    string `json:"bio,omitempty" validate:"max=500"`
	Number string `json:"number,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
