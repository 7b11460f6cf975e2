package services

import (
	"context"

	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/sirupsen/logrus"
)

// UserFinder resolves a user identity.
type UserFinder interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

// FollowStore is the follow relation, queried in both directions.
type FollowStore interface {
	CreateFollow(ctx context.Context, follow *models.Follow) (bool, error)
	DeleteFollow(ctx context.Context, followerID, followedID uint) (bool, error)
	FollowedUsersOf(ctx context.Context, userID uint) ([]models.User, error)
	FollowersOf(ctx context.Context, userID uint) ([]models.User, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
}

// ListingStore resolves listings and a user's listings collection.
type ListingStore interface {
	GetListingByID(ctx context.Context, id uint) (*models.Listing, error)
	ListingsOf(ctx context.Context, userID uint) ([]models.Listing, error)
}

// Notifier records notifications. Delivery failures never fail the triggering operation.
type Notifier interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
}

func notify(ctx context.Context, n Notifier, notification *models.Notification) {
	if n == nil {
		return
	}
	if err := n.CreateNotification(ctx, notification); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"type":      notification.Type,
			"recipient": notification.RecipientID,
		}).Warn("Failed to create notification")
	}
}
