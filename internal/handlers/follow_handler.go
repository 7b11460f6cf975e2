package handlers

import (
	"net/http"

	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/anonto42/tradegram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	graph *services.SocialGraph
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(graph *services.SocialGraph) *FollowHandler {
	return &FollowHandler{graph: graph}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
	g.GET("/users/:id/followed-by-me", h.FollowedByMe)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	targetID, err := parseUintParam(c, "id", "user")
	if err != nil {
		return err
	}

	if err := h.graph.Follow(c.Request().Context(), currentUserID, targetID); err != nil {
		return mapServiceError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"following": true})
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	targetID, err := parseUintParam(c, "id", "user")
	if err != nil {
		return err
	}

	if err := h.graph.Unfollow(c.Request().Context(), currentUserID, targetID); err != nil {
		return mapServiceError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"following": false})
}

// GetFollowers lists the users following :id, oldest follow first
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	userID, err := parseUintParam(c, "id", "user")
	if err != nil {
		return err
	}
	users, err := h.graph.Followers(c.Request().Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"users": compact(users)})
}

// GetFollowing lists the users :id follows, oldest follow first
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	userID, err := parseUintParam(c, "id", "user")
	if err != nil {
		return err
	}
	users, err := h.graph.FollowedUsers(c.Request().Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"users": compact(users)})
}

// FollowedByMe reports whether the current user follows :id
func (h *FollowHandler) FollowedByMe(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	targetID, err := parseUintParam(c, "id", "user")
	if err != nil {
		return err
	}

	following, err := h.graph.Followings(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"following": following})
}

func compact(users []models.User) []models.UserCompact {
	out := make([]models.UserCompact, len(users))
	for i := range users {
		out[i] = users[i].ToCompact()
	}
	return out
}
