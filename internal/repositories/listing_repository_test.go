package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingRepository_Offers(t *testing.T) {
	db := newTestDB(t)
	users := NewPostgresUserRepository(db)
	repo := NewPostgresListingRepository(db)
	ctx := context.Background()
	seller := createUser(t, users, "seller")
	buyer := createUser(t, users, "buyer")

	listing := &models.Listing{Name: "bike", UserID: seller.ID}
	require.NoError(t, repo.CreateListing(ctx, listing))

	first := &models.Offer{ListingID: listing.ID, UserID: buyer.ID, AmountCents: 1000}
	second := &models.Offer{ListingID: listing.ID, UserID: buyer.ID, AmountCents: 2000}
	require.NoError(t, repo.CreateOffer(ctx, first))
	require.NoError(t, repo.CreateOffer(ctx, second))
	assert.Equal(t, models.OfferPending, first.Status)

	offers, err := repo.OffersFor(ctx, listing.ID)
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, second.ID, offers[0].ID, "newest first")

	ok, err := repo.UpdateOfferStatus(ctx, first.ID, models.OfferPending, models.OfferAccepted)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateOfferStatus(ctx, first.ID, models.OfferPending, models.OfferDeclined)
	require.NoError(t, err)
	assert.False(t, ok, "offer already decided")

	got, err := repo.GetOfferByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferAccepted, got.Status)
}

func TestListingRepository_ListingsOfAndDelete(t *testing.T) {
	db := newTestDB(t)
	users := NewPostgresUserRepository(db)
	repo := NewPostgresListingRepository(db)
	ctx := context.Background()
	a := createUser(t, users, "a")
	b := createUser(t, users, "b")

	mine := &models.Listing{Name: "lamp", UserID: a.ID}
	require.NoError(t, repo.CreateListing(ctx, mine))
	require.NoError(t, repo.CreateListing(ctx, &models.Listing{Name: "desk", UserID: a.ID}))
	require.NoError(t, repo.CreateListing(ctx, &models.Listing{Name: "sofa", UserID: b.ID}))
	require.NoError(t, repo.CreateOffer(ctx, &models.Offer{ListingID: mine.ID, UserID: b.ID, AmountCents: 500}))

	listings, err := repo.ListingsOf(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "lamp", listings[0].Name)

	require.NoError(t, repo.DeleteListing(ctx, mine.ID))
	_, err = repo.GetListingByID(ctx, mine.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	offers, err := repo.OffersFor(ctx, mine.ID)
	require.NoError(t, err)
	assert.Empty(t, offers)

	assert.ErrorIs(t, repo.DeleteListing(ctx, mine.ID), ErrNotFound)
}
