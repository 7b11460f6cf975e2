package handlers

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/tradegram/backend/internal/helpers"
	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/anonto42/tradegram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/images/:image_id/comments", h.CreateComment)
	g.GET("/images/:image_id/comments", h.GetCommentsByImageID)
	g.GET("/comments", h.GetTextComments)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.GET("/search", h.Search)
}

// CommentView is a comment as rendered to clients
type CommentView struct {
	ID          uint              `json:"id"`
	ImageID     string            `json:"image_id"`
	UserID      uint              `json:"user_id"`
	Username    string            `json:"username"`
	Content     models.ContentRef `json:"content"`
	Body        string            `json:"body,omitempty"`
	HTML        template.HTML     `json:"html,omitempty"`
	URL         string            `json:"url,omitempty"`
	CreatedTime string            `json:"created_time"`
	IsMine      bool              `json:"is_mine"`
}

func newCommentView(rc *services.ResolvedComment, currentUserID uint) CommentView {
	v := CommentView{
		ID:          rc.ID,
		ImageID:     rc.ImageID,
		UserID:      rc.UserID,
		Username:    rc.Username(),
		Content:     rc.Content(),
		CreatedTime: rc.CreatedTime(),
		IsMine:      rc.IsAuthoredBy(currentUserID),
	}
	if rc.Text != nil {
		v.Body = rc.Text.Body
		v.HTML = helpers.Linkify(rc.Text.Body)
	}
	if rc.Image != nil {
		v.URL = rc.Image.URL
	}
	return v
}

func commentViews(comments []services.ResolvedComment, currentUserID uint) []CommentView {
	out := make([]CommentView, len(comments))
	for i := range comments {
		out[i] = newCommentView(&comments[i], currentUserID)
	}
	return out
}

// CreateComment creates a text or image comment on an image
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.comments.CreateComment(c.Request().Context(), currentUserID, c.Param("image_id"), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return success(c, http.StatusCreated, newCommentView(comment, currentUserID))
}

// GetCommentsByImageID retrieves all comments on an image, oldest first
func (h *CommentHandler) GetCommentsByImageID(c echo.Context) error {
	comments, err := h.comments.CommentsForImage(c.Request().Context(), c.Param("image_id"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"comments": commentViews(comments, getUserIDFromContext(c))})
}

// GetTextComments returns the comments whose text content ids are listed in
// the comma separated text_ids query param.
func (h *CommentHandler) GetTextComments(c echo.Context) error {
	var ids []uint
	for _, raw := range strings.Split(c.QueryParam("text_ids"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid text comment ID")
		}
		ids = append(ids, uint(id))
	}

	comments, err := h.comments.TextComments(c.Request().Context(), ids)
	if err != nil {
		return mapServiceError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"comments": commentViews(comments, getUserIDFromContext(c))})
}

// DeleteComment deletes a comment authored by the current user
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	commentID, err := parseUintParam(c, "id", "comment")
	if err != nil {
		return err
	}

	if err := h.comments.DeleteComment(c.Request().Context(), currentUserID, commentID); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Search finds text comments containing ?search=, typically a hashtag
func (h *CommentHandler) Search(c echo.Context) error {
	term := c.QueryParam("search")
	comments, err := h.comments.SearchHashtag(c.Request().Context(), term)
	if err != nil {
		return mapServiceError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{
		"search":   term,
		"comments": commentViews(comments, getUserIDFromContext(c)),
	})
}
