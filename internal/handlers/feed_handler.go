package handlers

import (
	"net/http"

	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/anonto42/tradegram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	images *services.ImageService
	users  *services.UserService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(images *services.ImageService, users *services.UserService) *FeedHandler {
	return &FeedHandler{images: images, users: users}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// EnrichedImage is an image with its uploader's public profile
type EnrichedImage struct {
	models.Image
	Author models.UserCompact `json:"author"`
	IsMine bool               `json:"is_mine"`
}

// GetFeed returns images from the current user and everyone they follow, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}

	page, limit := pagination(c, 10)
	skip := int64((page - 1) * limit)

	feed, err := h.images.Feed(c.Request().Context(), currentUserID, skip, int64(limit))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"images": h.enrich(c, currentUserID, feed.Images),
		},
		"meta": pageMeta(page, limit, feed.Total),
	})
}

func (h *FeedHandler) enrich(c echo.Context, currentUserID uint, images []models.Image) []EnrichedImage {
	authors := make(map[uint]models.UserCompact)
	out := make([]EnrichedImage, len(images))
	for i, img := range images {
		author, seen := authors[img.UserID]
		if !seen {
			author = compactUser(c, h.users, img.UserID)
			authors[img.UserID] = author
		}
		out[i] = EnrichedImage{Image: img, Author: author, IsMine: img.UserID == currentUserID}
	}
	return out
}
