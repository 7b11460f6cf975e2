package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/tradegram/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateTextComment(ctx context.Context, comment *models.Comment, text *models.TextComment) error
	CreateImageComment(ctx context.Context, comment *models.Comment, image *models.ImageComment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	CommentsForImage(ctx context.Context, imageID string) ([]models.Comment, error)
	TextComments(ctx context.Context, contentIDs []uint) ([]models.Comment, error)
	TextContents(ctx context.Context, ids []uint) (map[uint]models.TextComment, error)
	ImageContents(ctx context.Context, ids []uint) (map[uint]models.ImageComment, error)
	SearchTextComments(ctx context.Context, term string, limit int) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id uint) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateTextComment writes the text body and the comment pointing at it in one transaction.
func (r *PostgresCommentRepository) CreateTextComment(ctx context.Context, comment *models.Comment, text *models.TextComment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(text).Error; err != nil {
			return fmt.Errorf("create text comment: %w", err)
		}
		comment.ContentType = models.TextCommentKind
		comment.ContentID = text.ID
		return tx.Create(comment).Error
	})
}

// CreateImageComment writes the image reference and the comment pointing at it in one transaction.
func (r *PostgresCommentRepository) CreateImageComment(ctx context.Context, comment *models.Comment, image *models.ImageComment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(image).Error; err != nil {
			return fmt.Errorf("create image comment: %w", err)
		}
		comment.ContentType = models.ImageCommentKind
		comment.ContentID = image.ID
		return tx.Create(comment).Error
	})
}

func (r *PostgresCommentRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

// CommentsForImage returns the comments on an image, oldest first, with authors preloaded.
func (r *PostgresCommentRepository) CommentsForImage(ctx context.Context, imageID string) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).Preload("User").
		Where("image_id = ?", imageID).
		Order("id ASC").
		Find(&comments).Error
	return comments, err
}

// TextComments returns the comments whose content is one of the given text comment ids.
func (r *PostgresCommentRepository) TextComments(ctx context.Context, contentIDs []uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	if len(contentIDs) == 0 {
		return comments, nil
	}
	err := r.db.WithContext(ctx).Preload("User").
		Where("content_type = ? AND content_id IN ?", models.TextCommentKind, contentIDs).
		Order("id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *PostgresCommentRepository) TextContents(ctx context.Context, ids []uint) (map[uint]models.TextComment, error) {
	out := make(map[uint]models.TextComment, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.TextComment
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *PostgresCommentRepository) ImageContents(ctx context.Context, ids []uint) (map[uint]models.ImageComment, error) {
	out := make(map[uint]models.ImageComment, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.ImageComment
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// SearchTextComments finds text comments whose body contains term literally, newest first.
func (r *PostgresCommentRepository) SearchTextComments(ctx context.Context, term string, limit int) ([]models.Comment, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.TextComment{}).
		Where("LOWER(body) LIKE LOWER(?) ESCAPE '!'", "%"+likeEscaper.Replace(term)+"%").
		Order("id DESC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return r.TextComments(ctx, ids)
}

// DeleteComment removes the comment and its content row.
func (r *PostgresCommentRepository) DeleteComment(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		switch comment.ContentType {
		case models.TextCommentKind:
			return tx.Delete(&models.TextComment{}, comment.ContentID).Error
		case models.ImageCommentKind:
			return tx.Delete(&models.ImageComment{}, comment.ContentID).Error
		}
		return nil
	})
}
