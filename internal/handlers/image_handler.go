package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/anonto42/tradegram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ImageHandler handles HTTP requests related to images
type ImageHandler struct {
	images *services.ImageService
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(images *services.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// RegisterImageRoutes registers image-related routes
func (h *ImageHandler) RegisterImageRoutes(g *echo.Group) {
	g.POST("/images", h.CreateImage)
	g.GET("/images", h.GetImages)
	g.GET("/images/:id", h.GetImage)
	g.PUT("/images/:id", h.UpdateImage)
	g.DELETE("/images/:id", h.DeleteImage)
}

// CreateImage stores metadata for an uploaded image
func (h *ImageHandler) CreateImage(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.CreateImageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	image, err := h.images.CreateImage(c.Request().Context(), currentUserID, req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return success(c, http.StatusCreated, image)
}

// GetImage retrieves an image by ID
func (h *ImageHandler) GetImage(c echo.Context) error {
	image, err := h.images.GetImage(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return success(c, http.StatusOK, image)
}

// GetImages lists every image, newest first
func (h *ImageHandler) GetImages(c echo.Context) error {
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	images, err := h.images.ListImages(c.Request().Context(), skip, limit)
	if err != nil {
		return mapServiceError(c, err)
	}
	return success(c, http.StatusOK, images)
}

// UpdateImage updates an image owned by the current user
func (h *ImageHandler) UpdateImage(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.UpdateImageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	image, err := h.images.UpdateImage(c.Request().Context(), currentUserID, c.Param("id"), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return success(c, http.StatusOK, image)
}

// DeleteImage deletes an image owned by the current user
func (h *ImageHandler) DeleteImage(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.images.DeleteImage(c.Request().Context(), currentUserID, c.Param("id")); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
