package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/tradegram/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uint) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser writes the user and, when set, its owned location.
// A user missing a required attribute is rejected by the model hook; a taken
// email or username yields ErrDuplicate.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *PostgresUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	return r.first(ctx, "firebase_uid = ?", firebaseUID)
}

func (r *PostgresUserRepository) first(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Location").Where(query, args...).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UpdateUser saves the user and its location
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(user).Error
}

// DeleteUser removes the user together with its follow edges, comments,
// listings, offers, notifications and location.
func (r *PostgresUserRepository) DeleteUser(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return fmt.Errorf("delete follows: %w", err)
		}
		if err := deleteCommentsBy(tx, id); err != nil {
			return err
		}
		if err := deleteListingsBy(tx, id); err != nil {
			return err
		}
		if err := tx.Where("actor_id = ? OR recipient_id = ?", id, id).Delete(&models.Notification{}).Error; err != nil {
			return fmt.Errorf("delete notifications: %w", err)
		}
		if err := tx.Delete(&models.User{}, id).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if user.LocationID != 0 {
			if err := tx.Delete(&models.Location{}, user.LocationID).Error; err != nil {
				return fmt.Errorf("delete location: %w", err)
			}
		}
		return nil
	})
}

// deleteListingsBy drops the user's offers, the offers others made on the
// user's listings, and the listings themselves.
func deleteListingsBy(tx *gorm.DB, userID uint) error {
	var listingIDs []uint
	if err := tx.Model(&models.Listing{}).Where("user_id = ?", userID).Pluck("id", &listingIDs).Error; err != nil {
		return fmt.Errorf("load listings: %w", err)
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.Offer{}).Error; err != nil {
		return fmt.Errorf("delete offers: %w", err)
	}
	if len(listingIDs) == 0 {
		return nil
	}
	if err := tx.Where("listing_id IN ?", listingIDs).Delete(&models.Offer{}).Error; err != nil {
		return fmt.Errorf("delete offers on listings: %w", err)
	}
	if err := tx.Delete(&models.Listing{}, listingIDs).Error; err != nil {
		return fmt.Errorf("delete listings: %w", err)
	}
	return nil
}

func deleteCommentsBy(tx *gorm.DB, userID uint) error {
	var comments []models.Comment
	if err := tx.Where("user_id = ?", userID).Find(&comments).Error; err != nil {
		return fmt.Errorf("load comments: %w", err)
	}
	var textIDs, imageIDs []uint
	for _, c := range comments {
		switch c.ContentType {
		case models.TextCommentKind:
			textIDs = append(textIDs, c.ContentID)
		case models.ImageCommentKind:
			imageIDs = append(imageIDs, c.ContentID)
		}
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	if len(textIDs) > 0 {
		if err := tx.Delete(&models.TextComment{}, textIDs).Error; err != nil {
			return fmt.Errorf("delete text comments: %w", err)
		}
	}
	if len(imageIDs) > 0 {
		if err := tx.Delete(&models.ImageComment{}, imageIDs).Error; err != nil {
			return fmt.Errorf("delete image comments: %w", err)
		}
	}
	return nil
}
