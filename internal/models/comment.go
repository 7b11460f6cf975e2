package models

import (
	"fmt"
	"time"
)

// ContentKind tags which table a comment's content lives in.
type ContentKind string

const (
	TextCommentKind  ContentKind = "TextComment"
	ImageCommentKind ContentKind = "ImageComment"
)

// ContentRef points at the content row of a comment.
type ContentRef struct {
	Kind ContentKind `json:"kind"`
	ID   uint        `json:"id"`
}

func (r ContentRef) String() string {
	return fmt.Sprintf("%s#%d", r.Kind, r.ID)
}

// Comment is a comment on an image. Its body is either a TextComment or an
// ImageComment, referenced through ContentType/ContentID.
type Comment struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	ImageID     string      `json:"image_id" gorm:"index"` // MongoDB ObjectID as hex
	UserID      uint        `json:"user_id" gorm:"index"`
	User        *User       `json:"-" gorm:"foreignKey:UserID"`
	ContentType ContentKind `json:"content_type" gorm:"size:20;index:idx_comment_content"`
	ContentID   uint        `json:"content_id" gorm:"index:idx_comment_content"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (c *Comment) Content() ContentRef {
	return ContentRef{Kind: c.ContentType, ID: c.ContentID}
}

// CreatedTime renders the creation time as "15:04, 01/02/2006 MST".
func (c *Comment) CreatedTime() string {
	return c.CreatedAt.Format("15:04, 01/02/2006 MST")
}

// Username is empty unless User was preloaded.
func (c *Comment) Username() string {
	if c.User == nil {
		return ""
	}
	return c.User.Username
}

func (c *Comment) IsAuthoredBy(userID uint) bool {
	return c.UserID == userID
}

type TextComment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Body      string    `json:"body" validate:"required,max=500"`
	CreatedAt time.Time `json:"created_at"`
}

type ImageComment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	URL       string    `json:"url" validate:"required,url"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommentRequest defines the request body for creating a new comment.
// Kind "text" requires Body, kind "image" requires URL.
type CreateCommentRequest struct {
	Kind string `json:"kind" validate:"required,oneof=text image"`
	Body string `json:"body,omitempty" validate:"required_if=Kind text,max=500"`
	URL  string `json:"url,omitempty" validate:"required_if=Kind image,omitempty,url"`
}
