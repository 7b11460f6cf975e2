package repositories

import (
	"context"

	"github.com/anonto42/tradegram/backend/internal/models"
	"gorm.io/gorm"
)

// ListingRepository defines the interface for listing and offer data operations
type ListingRepository interface {
	CreateListing(ctx context.Context, listing *models.Listing) error
	GetListingByID(ctx context.Context, id uint) (*models.Listing, error)
	ListingsOf(ctx context.Context, userID uint) ([]models.Listing, error)
	DeleteListing(ctx context.Context, id uint) error
	CreateOffer(ctx context.Context, offer *models.Offer) error
	GetOfferByID(ctx context.Context, id uint) (*models.Offer, error)
	OffersFor(ctx context.Context, listingID uint) ([]models.Offer, error)
	UpdateOfferStatus(ctx context.Context, id uint, from, to models.OfferStatus) (bool, error)
}

// PostgresListingRepository implements ListingRepository for PostgreSQL
type PostgresListingRepository struct {
	db *gorm.DB
}

// NewPostgresListingRepository creates a new PostgresListingRepository
func NewPostgresListingRepository(db *gorm.DB) *PostgresListingRepository {
	return &PostgresListingRepository{db: db}
}

func (r *PostgresListingRepository) CreateListing(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *PostgresListingRepository) GetListingByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).First(&listing, id).Error; err != nil {
		return nil, translate(err)
	}
	return &listing, nil
}

// ListingsOf returns the listings owned by userID in creation order.
func (r *PostgresListingRepository) ListingsOf(ctx context.Context, userID uint) ([]models.Listing, error) {
	listings := []models.Listing{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&listings).Error
	return listings, err
}

// DeleteListing removes the listing and every offer made on it.
func (r *PostgresListingRepository) DeleteListing(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", id).Delete(&models.Offer{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Listing{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *PostgresListingRepository) CreateOffer(ctx context.Context, offer *models.Offer) error {
	if offer.Status == "" {
		offer.Status = models.OfferPending
	}
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *PostgresListingRepository) GetOfferByID(ctx context.Context, id uint) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.WithContext(ctx).First(&offer, id).Error; err != nil {
		return nil, translate(err)
	}
	return &offer, nil
}

// OffersFor returns the offers on a listing, newest first.
func (r *PostgresListingRepository) OffersFor(ctx context.Context, listingID uint) ([]models.Offer, error) {
	offers := []models.Offer{}
	err := r.db.WithContext(ctx).Where("listing_id = ?", listingID).Order("id DESC").Find(&offers).Error
	return offers, err
}

// UpdateOfferStatus moves an offer from one status to another. It reports false
// when the offer was no longer in the expected status.
func (r *PostgresListingRepository) UpdateOfferStatus(ctx context.Context, id uint, from, to models.OfferStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Offer{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
