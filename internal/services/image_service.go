package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/anonto42/tradegram/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// FeedPage is one page of a user's feed with the total number of matching images.
type FeedPage struct {
	Images []models.Image
	Total  int64
}

// ImageService manages uploaded images and builds feeds from the social graph.
type ImageService struct {
	images repositories.ImageRepository
	users  UserFinder
	graph  *SocialGraph
}

func NewImageService(images repositories.ImageRepository, users UserFinder, graph *SocialGraph) *ImageService {
	return &ImageService{images: images, users: users, graph: graph}
}

func (s *ImageService) CreateImage(ctx context.Context, userID uint, req models.CreateImageRequest) (*models.Image, error) {
	if err := models.ValidateStruct(req); err != nil {
		return nil, err
	}
	if _, err := findUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	image := &models.Image{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		URL:         req.URL,
	}
	if err := s.images.CreateImage(ctx, image); err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}
	return image, nil
}

func (s *ImageService) GetImage(ctx context.Context, id string) (*models.Image, error) {
	image, err := s.images.GetImageByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("load image %s: %w", id, err)
	}
	return image, nil
}

// ListImages returns every image, newest first.
func (s *ImageService) ListImages(ctx context.Context, skip, limit int64) ([]models.Image, error) {
	images, err := s.images.GetAllImages(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return images, nil
}

// UpdateImage applies the non-empty fields of req. Only the uploader may edit.
func (s *ImageService) UpdateImage(ctx context.Context, userID uint, id string, req models.UpdateImageRequest) (*models.Image, error) {
	if err := models.ValidateStruct(req); err != nil {
		return nil, err
	}
	image, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		image.Name = req.Name
	}
	if req.Description != "" {
		image.Description = req.Description
	}
	if req.URL != "" {
		image.URL = req.URL
	}
	if err := s.images.UpdateImage(ctx, image); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("update image %s: %w", id, err)
	}
	return image, nil
}

func (s *ImageService) DeleteImage(ctx context.Context, userID uint, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.images.DeleteImage(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("delete image %s: %w", id, err)
	}
	logrus.WithFields(logrus.Fields{"image_id": id, "user_id": userID}).Info("Image deleted")
	return nil
}

// Feed returns images uploaded by userID or anyone userID follows, newest first.
func (s *ImageService) Feed(ctx context.Context, userID uint, skip, limit int64) (*FeedPage, error) {
	ids, err := s.graph.IncludesMyself(ctx, userID)
	if err != nil {
		return nil, err
	}
	images, total, err := s.images.GetImagesByUserIDs(ctx, ids, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	return &FeedPage{Images: images, Total: total}, nil
}

func (s *ImageService) owned(ctx context.Context, userID uint, id string) (*models.Image, error) {
	image, err := s.GetImage(ctx, id)
	if err != nil {
		return nil, err
	}
	if image.UserID != userID {
		return nil, ErrNotImageOwner
	}
	return image, nil
}
