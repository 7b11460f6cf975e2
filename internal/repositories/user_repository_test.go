package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateWithLocation(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()

	u := createUser(t, repo, "jb")
	assert.NotZero(t, u.ID)
	assert.NotZero(t, u.LocationID)

	got, err := repo.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "jb", got.Username)
	require.NotNil(t, got.Location, "location is preloaded")
	assert.Equal(t, "NY", got.Location.State)

	byEmail, err := repo.GetUserByEmail(ctx, "JB@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
}

func TestUserRepository_PresenceValidation(t *testing.T) {
	valid := func() *models.User {
		return &models.User{
			Email:          "abc@gmail.com",
			Username:       "jb",
			PasswordDigest: "OIUYH",
			Location:       &models.Location{City: "New York", State: "NY"},
		}
	}
	tests := []struct {
		name  string
		edit  func(*models.User)
		field string
	}{
		{"no email", func(u *models.User) { u.Email = "" }, "Email"},
		{"no username", func(u *models.User) { u.Username = "" }, "Username"},
		{"no password digest", func(u *models.User) { u.PasswordDigest = "" }, "PasswordDigest"},
		{"no location", func(u *models.User) { u.Location = nil }, "Location"},
		{"blank city", func(u *models.User) { u.Location.City = "" }, "Location.City"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			repo := NewPostgresUserRepository(db)
			u := valid()
			tt.edit(u)

			err := repo.CreateUser(context.Background(), u)

			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.True(t, verr.HasField(tt.field), "expected %s in %v", tt.field, verr.Fields)

			var users, locations int64
			require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
			require.NoError(t, db.Model(&models.Location{}).Count(&locations).Error)
			assert.Zero(t, users)
			assert.Zero(t, locations)
		})
	}
}

func TestUserRepository_ExistingLocationID(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresUserRepository(db)
	loc := &models.Location{City: "Austin", State: "TX"}
	require.NoError(t, db.Create(loc).Error)

	u := &models.User{Email: "a@gmail.com", Username: "a", PasswordDigest: "x", LocationID: loc.ID}
	require.NoError(t, repo.CreateUser(context.Background(), u))
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := NewPostgresUserRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.GetUserByID(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetUserByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.DeleteUser(ctx, 42), ErrNotFound)
}

func TestUserRepository_DeleteRemovesEdges(t *testing.T) {
	db := newTestDB(t)
	users := NewPostgresUserRepository(db)
	follows := NewPostgresFollowRepository(db)
	ctx := context.Background()
	a := createUser(t, users, "a")
	b := createUser(t, users, "b")
	c := createUser(t, users, "c")

	_, err := follows.CreateFollow(ctx, &models.Follow{FollowerID: a.ID, FollowedID: b.ID})
	require.NoError(t, err)
	_, err = follows.CreateFollow(ctx, &models.Follow{FollowerID: b.ID, FollowedID: c.ID})
	require.NoError(t, err)

	comments := NewPostgresCommentRepository(db)
	require.NoError(t, comments.CreateTextComment(ctx, &models.Comment{ImageID: "img", UserID: b.ID}, &models.TextComment{Body: "hi"}))

	require.NoError(t, users.DeleteUser(ctx, b.ID))

	followed, err := follows.FollowedUsersOf(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, followed)

	var edges int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&edges).Error)
	assert.Zero(t, edges)

	var bodies int64
	require.NoError(t, db.Model(&models.TextComment{}).Count(&bodies).Error)
	assert.Zero(t, bodies, "comment content goes with the author")

	_, err = users.GetUserByID(ctx, c.ID)
	assert.NoError(t, err, "other users are untouched")
}

func TestUserRepository_DeleteRemovesMarketplaceRows(t *testing.T) {
	db := newTestDB(t)
	users := NewPostgresUserRepository(db)
	listings := NewPostgresListingRepository(db)
	notifications := NewPostgresNotificationRepository(db)
	ctx := context.Background()
	seller := createUser(t, users, "seller")
	buyer := createUser(t, users, "buyer")
	other := createUser(t, users, "other")

	pen := &models.Listing{Name: "pen", UserID: seller.ID}
	require.NoError(t, listings.CreateListing(ctx, pen))
	lamp := &models.Listing{Name: "lamp", UserID: other.ID}
	require.NoError(t, listings.CreateListing(ctx, lamp))

	require.NoError(t, listings.CreateOffer(ctx, &models.Offer{ListingID: pen.ID, UserID: buyer.ID, AmountCents: 500}))
	require.NoError(t, listings.CreateOffer(ctx, &models.Offer{ListingID: lamp.ID, UserID: seller.ID, AmountCents: 900}))
	kept := &models.Offer{ListingID: lamp.ID, UserID: buyer.ID, AmountCents: 700}
	require.NoError(t, listings.CreateOffer(ctx, kept))

	require.NoError(t, notifications.CreateNotification(ctx, &models.Notification{ActorID: buyer.ID, RecipientID: seller.ID, Type: models.NotificationOffer}))
	require.NoError(t, notifications.CreateNotification(ctx, &models.Notification{ActorID: seller.ID, RecipientID: other.ID, Type: models.NotificationOffer}))
	require.NoError(t, notifications.CreateNotification(ctx, &models.Notification{ActorID: buyer.ID, RecipientID: other.ID, Type: models.NotificationOffer}))

	require.NoError(t, users.DeleteUser(ctx, seller.ID))

	_, err := listings.GetListingByID(ctx, pen.ID)
	assert.ErrorIs(t, err, ErrNotFound, "the seller's listing goes with them")
	_, err = listings.GetListingByID(ctx, lamp.ID)
	assert.NoError(t, err)

	var offers []models.Offer
	require.NoError(t, db.Find(&offers).Error)
	require.Len(t, offers, 1, "offers by and to the seller are gone")
	assert.Equal(t, kept.ID, offers[0].ID)

	var left []models.Notification
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, buyer.ID, left[0].ActorID)
	assert.Equal(t, other.ID, left[0].RecipientID)
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()
	createUser(t, repo, "jb")

	dup := &models.User{
		Email:          "jb@gmail.com",
		Username:       "someone-else",
		PasswordDigest: "digest",
		Location:       &models.Location{City: "Boston", State: "MA"},
	}
	assert.ErrorIs(t, repo.CreateUser(ctx, dup), ErrDuplicate)

	dup = &models.User{
		Email:          "fresh@gmail.com",
		Username:       "jb",
		PasswordDigest: "digest",
		Location:       &models.Location{City: "Boston", State: "MA"},
	}
	assert.ErrorIs(t, repo.CreateUser(ctx, dup), ErrDuplicate)

	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestUserRepository_UpdateSavesLocation(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()
	u := createUser(t, repo, "jb")

	got, err := repo.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	got.Bio = "hello"
	got.Location.City = "Boston"
	require.NoError(t, repo.UpdateUser(ctx, got))

	again, err := repo.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", again.Bio)
	assert.Equal(t, "Boston", again.Location.City)
}
