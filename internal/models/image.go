package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image is an uploaded image's metadata, stored in MongoDB
type Image struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      uint               `json:"user_id" bson:"user_id"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	URL         string             `json:"url" bson:"url"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

type CreateImageRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
	URL         string `json:"url" validate:"required,url"`
}

type UpdateImageRequest struct {
	Name        string `json:"name,omitempty" validate:"omitempty,max=120"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000"`
	URL         string `json:"url,omitempty" validate:"omitempty,url"`
}
