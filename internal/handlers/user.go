package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/anonto42/tradegram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	users *services.UserService
	graph *services.SocialGraph
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.UserService, graph *services.SocialGraph) *UserHandler {
	return &UserHandler{users: users, graph: graph}
}

// Profile is a user together with their follow counts
type Profile struct {
	*models.User
	services.FollowCounts
}

func (h *UserHandler) profile(c echo.Context, user *models.User) error {
	counts, err := h.graph.Counts(c.Request().Context(), user.ID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return success(c, http.StatusOK, Profile{User: user, FollowCounts: counts})
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.DELETE("/profile", h.DeleteUser)
	g.GET("/users/:id", h.GetUser)
}

// GetUser looks a user up by numeric id, falling back to username.
func (h *UserHandler) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	param := c.Param("id")

	var (
		user *models.User
		err  error
	)
	if id, parseErr := strconv.ParseUint(param, 10, 32); parseErr == nil {
		user, err = h.users.GetUser(ctx, uint(id))
		// all-digit usernames are valid, so a miss on the id is retried by name
		if errors.Is(err, services.ErrUserNotFound) {
			user, err = h.users.GetUserByUsername(ctx, param)
		}
	} else {
		user, err = h.users.GetUserByUsername(ctx, param)
	}
	if err != nil {
		return mapServiceError(c, err)
	}
	return h.profile(c, user)
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetUser(c.Request().Context(), currentUserID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return h.profile(c, user)
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), currentUserID, req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return h.profile(c, user)
}

// DeleteUser deletes the authenticated user's account
func (h *UserHandler) DeleteUser(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.users.DeleteUser(c.Request().Context(), currentUserID); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
