package services

import "errors"

// Service layer errors. Handlers map these onto HTTP statuses in one place.

// ===== Not Found =====
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrListingNotFound = errors.New("listing not found")
	ErrOfferNotFound   = errors.New("offer not found")
	ErrImageNotFound   = errors.New("image not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// ===== Invalid Requests =====
var (
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
	ErrOwnListing       = errors.New("cannot make an offer on your own listing")
)

// ===== Conflicts =====
var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
	ErrOfferClosed   = errors.New("offer has already been decided")
)

// ===== Authentication / Authorization =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotListingOwner    = errors.New("only the listing owner can do that")
	ErrNotCommentAuthor   = errors.New("only the author can delete this comment")
	ErrNotImageOwner      = errors.New("only the uploader can change this image")
)
