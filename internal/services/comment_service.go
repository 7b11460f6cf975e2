package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/anonto42/tradegram/backend/internal/repositories"
)

const searchLimit = 50

// ResolvedComment is a comment with its tagged content loaded. Exactly one of
// Text or Image is set, matching Comment.ContentType.
type ResolvedComment struct {
	models.Comment
	Text  *models.TextComment
	Image *models.ImageComment
}

// CommentService manages comments on images.
type CommentService struct {
	comments      repositories.CommentRepository
	images        repositories.ImageRepository
	users         UserFinder
	notifications Notifier
}

func NewCommentService(comments repositories.CommentRepository, images repositories.ImageRepository, users UserFinder, notifications Notifier) *CommentService {
	return &CommentService{
		comments:      comments,
		images:        images,
		users:         users,
		notifications: notifications,
	}
}

// CreateComment adds a text or image comment by userID on imageID.
func (s *CommentService) CreateComment(ctx context.Context, userID uint, imageID string, req models.CreateCommentRequest) (*ResolvedComment, error) {
	if err := models.ValidateStruct(req); err != nil {
		return nil, err
	}
	author, err := findUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}
	image, err := s.image(ctx, imageID)
	if err != nil {
		return nil, err
	}

	out := &ResolvedComment{Comment: models.Comment{ImageID: image.ID.Hex(), UserID: author.ID, User: author}}
	switch req.Kind {
	case "text":
		out.Text = &models.TextComment{Body: req.Body}
		err = s.comments.CreateTextComment(ctx, &out.Comment, out.Text)
	case "image":
		out.Image = &models.ImageComment{URL: req.URL}
		err = s.comments.CreateImageComment(ctx, &out.Comment, out.Image)
	}
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if image.UserID != author.ID {
		notify(ctx, s.notifications, &models.Notification{
			Type:        models.NotificationComment,
			ActorID:     author.ID,
			RecipientID: image.UserID,
			TargetID:    image.ID.Hex(),
			TargetType:  "image",
			Message:     author.Username + " commented on " + image.Name,
		})
	}
	return out, nil
}

// CommentsForImage returns every comment on an image with content resolved, oldest first.
func (s *CommentService) CommentsForImage(ctx context.Context, imageID string) ([]ResolvedComment, error) {
	if _, err := s.image(ctx, imageID); err != nil {
		return nil, err
	}
	comments, err := s.comments.CommentsForImage(ctx, imageID)
	if err != nil {
		return nil, fmt.Errorf("load comments of %s: %w", imageID, err)
	}
	return s.resolve(ctx, comments)
}

// TextComments returns the comments whose content is one of the given text comment ids.
func (s *CommentService) TextComments(ctx context.Context, contentIDs []uint) ([]ResolvedComment, error) {
	comments, err := s.comments.TextComments(ctx, contentIDs)
	if err != nil {
		return nil, fmt.Errorf("load text comments: %w", err)
	}
	return s.resolve(ctx, comments)
}

// SearchHashtag finds text comments mentioning term, e.g. "#sunset".
func (s *CommentService) SearchHashtag(ctx context.Context, term string) ([]ResolvedComment, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []ResolvedComment{}, nil
	}
	comments, err := s.comments.SearchTextComments(ctx, term, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search comments: %w", err)
	}
	return s.resolve(ctx, comments)
}

func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("load comment %d: %w", commentID, err)
	}
	if !comment.IsAuthoredBy(userID) {
		return ErrNotCommentAuthor
	}
	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("delete comment %d: %w", commentID, err)
	}
	return nil
}

func (s *CommentService) image(ctx context.Context, id string) (*models.Image, error) {
	image, err := s.images.GetImageByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("load image %s: %w", id, err)
	}
	return image, nil
}

// resolve loads the content rows for comments, one query per content kind.
func (s *CommentService) resolve(ctx context.Context, comments []models.Comment) ([]ResolvedComment, error) {
	var textIDs, imageIDs []uint
	for _, c := range comments {
		switch c.ContentType {
		case models.TextCommentKind:
			textIDs = append(textIDs, c.ContentID)
		case models.ImageCommentKind:
			imageIDs = append(imageIDs, c.ContentID)
		}
	}

	texts, err := s.comments.TextContents(ctx, textIDs)
	if err != nil {
		return nil, fmt.Errorf("load text contents: %w", err)
	}
	imgs, err := s.comments.ImageContents(ctx, imageIDs)
	if err != nil {
		return nil, fmt.Errorf("load image contents: %w", err)
	}

	out := make([]ResolvedComment, 0, len(comments))
	for _, c := range comments {
		rc := ResolvedComment{Comment: c}
		switch c.ContentType {
		case models.TextCommentKind:
			if t, ok := texts[c.ContentID]; ok {
				rc.Text = &t
			}
		case models.ImageCommentKind:
			if i, ok := imgs[c.ContentID]; ok {
				rc.Image = &i
			}
		}
		out = append(out, rc)
	}
	return out, nil
}
