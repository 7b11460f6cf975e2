package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/anonto42/tradegram/backend/internal/repositories"
	"github.com/anonto42/tradegram/backend/pkg/metrics"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles registration, sign-in and profile changes.
type UserService struct {
	users      repositories.UserRepository
	images     repositories.ImageRepository
	bcryptCost int
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users, bcryptCost: bcrypt.DefaultCost}
}

// WithImages lets DeleteUser remove the user's uploads as well.
func (s *UserService) WithImages(images repositories.ImageRepository) *UserService {
	s.images = images
	return s
}

// WithBcryptCost overrides the hashing cost; tests use bcrypt.MinCost.
func (s *UserService) WithBcryptCost(cost int) *UserService {
	s.bcryptCost = cost
	return s
}

// Register creates a user with an owned location. Missing attributes yield a
// *models.ValidationError and nothing is written.
func (s *UserService) Register(ctx context.Context, req models.RegisterUserRequest) (*models.User, error) {
	if err := models.ValidateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, req.Email, req.Username); err != nil {
		return nil, err
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:          req.Email,
		Username:       req.Username,
		PasswordDigest: string(digest),
		Location:       &models.Location{City: req.City, State: req.State},
		Avatar:         req.Avatar,
		Bio:            req.Bio,
		Number:         req.Number,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return nil, verr
		}
		if errors.Is(err, repositories.ErrDuplicate) {
			// lost a race with a concurrent signup
			if err := s.ensureFree(ctx, req.Email, req.Username); err != nil {
				return nil, err
			}
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.UsersRegistered.Inc()
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("User registered")
	return user, nil
}

func (s *UserService) ensureFree(ctx context.Context, email, username string) error {
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("lookup email: %w", err)
	}
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("lookup username: %w", err)
	}
	return nil
}

// Authenticate checks an email and password pair.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// LinkFirebaseAccount resolves a verified Firebase identity to an existing user,
// recording the Firebase UID on first use. Firebase does not supply a location,
// so unknown identities must register first.
func (s *UserService) LinkFirebaseAccount(ctx context.Context, firebaseUID, email string) (*models.User, error) {
	user, err := s.users.GetUserByFirebaseUID(ctx, firebaseUID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("lookup firebase uid: %w", err)
	}

	user, err = s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	user.FirebaseUID = &firebaseUID
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("link firebase uid: %w", err)
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return findUser(ctx, s.users, id)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the non-empty fields of req.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, req models.UpdateUserRequest) (*models.User, error) {
	if err := models.ValidateStruct(req); err != nil {
		return nil, err
	}
	user, err := findUser(ctx, s.users, id)
	if err != nil {
		return nil, err
	}

	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.Number != "" {
		user.Number = req.Number
	}
	if req.City != "" || req.State != "" {
		if user.Location == nil {
			user.Location = &models.Location{ID: user.LocationID}
		}
		if req.City != "" {
			user.Location.City = req.City
		}
		if req.State != "" {
			user.Location.State = req.State
		}
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes the account and everything it owns. Images live in a
// separate store, so they go first and a failure there leaves the account
// in place.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	if s.images != nil {
		if _, err := findUser(ctx, s.users, id); err != nil {
			return err
		}
		n, err := s.images.DeleteImagesByUserID(ctx, id)
		if err != nil {
			return fmt.Errorf("delete images of user %d: %w", id, err)
		}
		logrus.WithFields(logrus.Fields{"user_id": id, "count": n}).Debug("Deleted user images")
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	logrus.WithField("user_id", id).Info("User deleted")
	return nil
}
