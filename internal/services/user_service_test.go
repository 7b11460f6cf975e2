package services

import (
	"context"
	"testing"

	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/anonto42/tradegram/backend/internal/repositories"
	"github.com/anonto42/tradegram/backend/internal/testing/fakes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserService(t *testing.T) (*UserService, *fakes.Store) {
	t.Helper()
	store := fakes.NewStore()
	return NewUserService(store.Users).WithBcryptCost(bcrypt.MinCost), store
}

func validRegistration() models.RegisterUserRequest {
	return models.RegisterUserRequest{
		Email:    "abc@gmail.com",
		Username: "jb",
		Password: "correct-horse",
		City:     "New York",
		State:    "NY",
	}
}

func TestUserService_Register(t *testing.T) {
	svc, store := newUserService(t)

	user, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "jb", user.Username)
	require.NotNil(t, user.Location)
	assert.Equal(t, "New York", user.Location.City)
	assert.NotEqual(t, "correct-horse", user.PasswordDigest, "password must be hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte("correct-horse")))
	assert.Equal(t, 1, store.Users.Count())
}

func TestUserService_Register_MissingAttributes(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*models.RegisterUserRequest)
		field string
	}{
		{"no email", func(r *models.RegisterUserRequest) { r.Email = "" }, "Email"},
		{"no username", func(r *models.RegisterUserRequest) { r.Username = "" }, "Username"},
		{"no password", func(r *models.RegisterUserRequest) { r.Password = "" }, "Password"},
		{"no city", func(r *models.RegisterUserRequest) { r.City = "" }, "City"},
		{"no state", func(r *models.RegisterUserRequest) { r.State = "" }, "State"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newUserService(t)
			req := validRegistration()
			tt.edit(&req)

			_, err := svc.Register(context.Background(), req)

			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.True(t, verr.HasField(tt.field), "expected %s in %v", tt.field, verr.Fields)
			assert.Equal(t, 0, store.Users.Count(), "nothing may be persisted")
		})
	}
}

func TestUserService_Register_Taken(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	sameEmail := validRegistration()
	sameEmail.Username = "other"
	_, err = svc.Register(ctx, sameEmail)
	assert.ErrorIs(t, err, ErrEmailTaken)

	sameName := validRegistration()
	sameName.Email = "other@gmail.com"
	_, err = svc.Register(ctx, sameName)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

// racingUsers misses on the next blind lookups, as if a concurrent signup
// committed between the availability check and the insert.
type racingUsers struct {
	*fakes.Users
	blind int
}

func (r *racingUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.blind > 0 {
		r.blind--
		return nil, repositories.ErrNotFound
	}
	return r.Users.GetUserByEmail(ctx, email)
}

func (r *racingUsers) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if r.blind > 0 {
		r.blind--
		return nil, repositories.ErrNotFound
	}
	return r.Users.GetUserByUsername(ctx, username)
}

func TestUserService_Register_LosesRace(t *testing.T) {
	users := &racingUsers{Users: fakes.NewUsers()}
	svc := NewUserService(users).WithBcryptCost(bcrypt.MinCost)
	ctx := context.Background()
	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	users.blind = 2
	sameEmail := validRegistration()
	sameEmail.Username = "other"
	_, err = svc.Register(ctx, sameEmail)
	assert.ErrorIs(t, err, ErrEmailTaken)

	users.blind = 2
	sameName := validRegistration()
	sameName.Email = "other@gmail.com"
	_, err = svc.Register(ctx, sameName)
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Equal(t, 1, users.Count())
}

func TestUserService_Authenticate(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()
	registered, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "ABC@gmail.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = svc.Authenticate(ctx, "abc@gmail.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@gmail.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_LinkFirebaseAccount(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()
	registered, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	user, err := svc.LinkFirebaseAccount(ctx, "fb-uid-1", "abc@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	require.NotNil(t, user.FirebaseUID)
	assert.Equal(t, "fb-uid-1", *user.FirebaseUID)

	again, err := svc.LinkFirebaseAccount(ctx, "fb-uid-1", "changed@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, again.ID, "uid lookup wins over email")

	_, err = svc.LinkFirebaseAccount(ctx, "fb-uid-2", "stranger@gmail.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()
	registered, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, registered.ID, models.UpdateUserRequest{Bio: "collector", City: "Boston", State: "MA"})
	require.NoError(t, err)
	assert.Equal(t, "collector", updated.Bio)
	assert.Equal(t, "Boston", updated.Location.City)
	assert.Equal(t, "MA", updated.Location.State)

	_, err = svc.UpdateProfile(ctx, 999, models.UpdateUserRequest{Bio: "x"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_GetAndDelete(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()
	registered, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	byName, err := svc.GetUserByUsername(ctx, "jb")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, byName.ID)

	require.NoError(t, svc.DeleteUser(ctx, registered.ID))
	_, err = svc.GetUser(ctx, registered.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, svc.DeleteUser(ctx, registered.ID), ErrUserNotFound)
}

func TestUserService_DeleteRemovesImages(t *testing.T) {
	store := fakes.NewStore()
	svc := NewUserService(store.Users).WithImages(store.Images)
	ctx := context.Background()
	jb := store.MustCreateUser("jb")
	ab := store.MustCreateUser("ab")

	for _, owner := range []uint{jb.ID, jb.ID, ab.ID} {
		require.NoError(t, store.Images.CreateImage(ctx, &models.Image{Name: "pic", URL: "https://example.com/p.png", UserID: owner}))
	}

	require.NoError(t, svc.DeleteUser(ctx, jb.ID))

	_, total, err := store.Images.GetImagesByUserIDs(ctx, []uint{jb.ID}, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	_, total, err = store.Images.GetImagesByUserIDs(ctx, []uint{ab.ID}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "other users keep their uploads")

	assert.ErrorIs(t, svc.DeleteUser(ctx, jb.ID), ErrUserNotFound)
}
