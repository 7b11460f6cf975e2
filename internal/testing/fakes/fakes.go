package fakes

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/anonto42/tradegram/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store bundles one fake per repository, sharing a user table.
type Store struct {
	Users         *Users
	Follows       *Follows
	Listings      *Listings
	Notifications *Notifications
	Images        *Images
	Comments      *Comments
}

func NewStore() *Store {
	users := NewUsers()
	return &Store{
		Users:         users,
		Follows:       &Follows{users: users},
		Listings:      &Listings{},
		Notifications: &Notifications{},
		Images:        &Images{},
		Comments:      &Comments{users: users},
	}
}

// MustCreateUser creates a valid user with a location and returns it.
func (s *Store) MustCreateUser(username string) *models.User {
	u := &models.User{
		Email:          username + "@example.com",
		Username:       username,
		PasswordDigest: "digest-" + username,
		Location:       &models.Location{City: "New York", State: "NY"},
	}
	if err := s.Users.CreateUser(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

// ===== Users =====

type Users struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.User
	// Err, when set, is returned by every lookup.
	Err error
}

func NewUsers() *Users {
	return &Users{rows: map[uint]models.User{}}
}

var _ repositories.UserRepository = (*Users)(nil)

func (f *Users) CreateUser(_ context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if strings.EqualFold(u.Email, user.Email) || u.Username == user.Username {
			return repositories.ErrDuplicate
		}
	}
	f.nextID++
	user.ID = f.nextID
	if user.Location != nil {
		if user.Location.ID == 0 {
			user.Location.ID = user.ID
		}
		user.LocationID = user.Location.ID
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.rows[user.ID] = *user
	return nil
}

func (f *Users) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	return f.find(func(u models.User) bool { return u.ID == id })
}

func (f *Users) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return f.find(func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (f *Users) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return f.find(func(u models.User) bool { return u.Username == username })
}

func (f *Users) GetUserByFirebaseUID(_ context.Context, firebaseUID string) (*models.User, error) {
	return f.find(func(u models.User) bool { return u.FirebaseUID != nil && *u.FirebaseUID == firebaseUID })
}

func (f *Users) find(match func(models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	for _, u := range f.rows {
		if match(u) {
			out := u
			if u.Location != nil {
				loc := *u.Location
				out.Location = &loc
			}
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *Users) UpdateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	f.rows[user.ID] = *user
	return nil
}

func (f *Users) DeleteUser(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

// Count returns the number of stored users.
func (f *Users) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

// ===== Follows =====

type Follows struct {
	mu     sync.Mutex
	users  *Users
	nextID uint
	edges  []models.Follow
	// Err, when set, is returned by every call.
	Err error
}

var _ repositories.FollowRepository = (*Follows)(nil)

func (f *Follows) CreateFollow(_ context.Context, follow *models.Follow) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return false, f.Err
	}
	for _, e := range f.edges {
		if e.FollowerID == follow.FollowerID && e.FollowedID == follow.FollowedID {
			return false, nil
		}
	}
	f.nextID++
	follow.ID = f.nextID
	follow.CreatedAt = time.Now()
	f.edges = append(f.edges, *follow)
	return true, nil
}

func (f *Follows) DeleteFollow(_ context.Context, followerID, followedID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return false, f.Err
	}
	for i, e := range f.edges {
		if e.FollowerID == followerID && e.FollowedID == followedID {
			f.edges = append(f.edges[:i], f.edges[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *Follows) FollowedUsersOf(ctx context.Context, userID uint) ([]models.User, error) {
	return f.collect(ctx, func(e models.Follow) (bool, uint) { return e.FollowerID == userID, e.FollowedID })
}

func (f *Follows) FollowersOf(ctx context.Context, userID uint) ([]models.User, error) {
	return f.collect(ctx, func(e models.Follow) (bool, uint) { return e.FollowedID == userID, e.FollowerID })
}

func (f *Follows) collect(ctx context.Context, pick func(models.Follow) (bool, uint)) ([]models.User, error) {
	f.mu.Lock()
	if f.Err != nil {
		f.mu.Unlock()
		return nil, f.Err
	}
	var ids []uint
	for _, e := range f.edges {
		if ok, id := pick(e); ok {
			ids = append(ids, id)
		}
	}
	f.mu.Unlock()

	users := []models.User{}
	for _, id := range ids {
		u, err := f.users.GetUserByID(ctx, id)
		if errors.Is(err, repositories.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

func (f *Follows) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	users, err := f.FollowersOf(ctx, userID)
	return int64(len(users)), err
}

func (f *Follows) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	users, err := f.FollowedUsersOf(ctx, userID)
	return int64(len(users)), err
}

// Len returns the number of stored edges.
func (f *Follows) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.edges)
}

// ===== Listings and offers =====

type Listings struct {
	mu            sync.Mutex
	nextListingID uint
	nextOfferID   uint
	listings      []models.Listing
	offers        []models.Offer
}

var _ repositories.ListingRepository = (*Listings)(nil)

func (f *Listings) CreateListing(_ context.Context, listing *models.Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextListingID++
	listing.ID = f.nextListingID
	listing.CreatedAt = time.Now()
	listing.UpdatedAt = listing.CreatedAt
	f.listings = append(f.listings, *listing)
	return nil
}

func (f *Listings) GetListingByID(_ context.Context, id uint) (*models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.listings {
		if l.ID == id {
			out := l
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *Listings) ListingsOf(_ context.Context, userID uint) ([]models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Listing{}
	for _, l := range f.listings {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *Listings) DeleteListing(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.listings {
		if l.ID == id {
			f.listings = append(f.listings[:i], f.listings[i+1:]...)
			kept := f.offers[:0]
			for _, o := range f.offers {
				if o.ListingID != id {
					kept = append(kept, o)
				}
			}
			f.offers = kept
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *Listings) CreateOffer(_ context.Context, offer *models.Offer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextOfferID++
	offer.ID = f.nextOfferID
	if offer.Status == "" {
		offer.Status = models.OfferPending
	}
	offer.CreatedAt = time.Now()
	offer.UpdatedAt = offer.CreatedAt
	f.offers = append(f.offers, *offer)
	return nil
}

func (f *Listings) GetOfferByID(_ context.Context, id uint) (*models.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.offers {
		if o.ID == id {
			out := o
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *Listings) OffersFor(_ context.Context, listingID uint) ([]models.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Offer{}
	for i := len(f.offers) - 1; i >= 0; i-- {
		if f.offers[i].ListingID == listingID {
			out = append(out, f.offers[i])
		}
	}
	return out, nil
}

func (f *Listings) UpdateOfferStatus(_ context.Context, id uint, from, to models.OfferStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.offers {
		if f.offers[i].ID == id && f.offers[i].Status == from {
			f.offers[i].Status = to
			return true, nil
		}
	}
	return false, nil
}

// ===== Notifications =====

type Notifications struct {
	mu     sync.Mutex
	nextID uint
	rows   []models.Notification
	// Err, when set, is returned by CreateNotification.
	Err error
}

var _ repositories.NotificationRepository = (*Notifications)(nil)

func (f *Notifications) CreateNotification(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.nextID++
	n.ID = f.nextID
	n.CreatedAt = time.Now()
	f.rows = append(f.rows, *n)
	return nil
}

func (f *Notifications) GetByRecipientID(_ context.Context, recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var mine []models.Notification
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].RecipientID == recipientID {
			mine = append(mine, f.rows[i])
		}
	}
	total := int64(len(mine))
	start := (page - 1) * limit
	if start >= len(mine) {
		return []models.Notification{}, total, nil
	}
	end := start + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[start:end], total, nil
}

func (f *Notifications) GetUnreadCount(_ context.Context, recipientID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.rows {
		if r.RecipientID == recipientID && !r.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *Notifications) MarkAsRead(_ context.Context, recipientID, notificationID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == notificationID && f.rows[i].RecipientID == recipientID {
			f.rows[i].IsRead = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *Notifications) MarkAllAsRead(_ context.Context, recipientID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].RecipientID == recipientID {
			f.rows[i].IsRead = true
		}
	}
	return nil
}

// All returns a copy of every stored notification in creation order.
func (f *Notifications) All() []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Notification(nil), f.rows...)
}

// ===== Images =====

type Images struct {
	mu   sync.Mutex
	rows []models.Image
}

var _ repositories.ImageRepository = (*Images)(nil)

func (f *Images) CreateImage(_ context.Context, image *models.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	image.ID = primitive.NewObjectID()
	// Strictly increasing timestamps keep newest-first ordering stable.
	image.CreatedAt = time.Now().Add(time.Duration(len(f.rows)) * time.Millisecond)
	image.UpdatedAt = image.CreatedAt
	f.rows = append(f.rows, *image)
	return nil
}

func (f *Images) GetImageByID(_ context.Context, id string) (*models.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, img := range f.rows {
		if img.ID.Hex() == id {
			out := img
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *Images) GetAllImages(_ context.Context, skip, limit int64) ([]models.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(newestFirst(f.rows), skip, limit), nil
}

func (f *Images) GetImagesByUserIDs(_ context.Context, userIDs []uint, skip, limit int64) ([]models.Image, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		want[id] = true
	}
	var matched []models.Image
	for _, img := range f.rows {
		if want[img.UserID] {
			matched = append(matched, img)
		}
	}
	return page(newestFirst(matched), skip, limit), int64(len(matched)), nil
}

func (f *Images) UpdateImage(_ context.Context, image *models.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == image.ID {
			image.UpdatedAt = time.Now()
			f.rows[i] = *image
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *Images) DeleteImage(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, img := range f.rows {
		if img.ID.Hex() == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *Images) DeleteImagesByUserID(_ context.Context, userID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.rows[:0]
	for _, img := range f.rows {
		if img.UserID != userID {
			kept = append(kept, img)
		}
	}
	n := int64(len(f.rows) - len(kept))
	f.rows = kept
	return n, nil
}

func newestFirst(in []models.Image) []models.Image {
	out := append([]models.Image(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func page(in []models.Image, skip, limit int64) []models.Image {
	out := []models.Image{}
	for i := skip; i < int64(len(in)) && int64(len(out)) < limit; i++ {
		out = append(out, in[i])
	}
	return out
}

// ===== Comments =====

type Comments struct {
	mu       sync.Mutex
	users    *Users
	nextID   uint
	nextText uint
	nextImg  uint
	comments []models.Comment
	texts    map[uint]models.TextComment
	images   map[uint]models.ImageComment
}

var _ repositories.CommentRepository = (*Comments)(nil)

func (f *Comments) CreateTextComment(_ context.Context, comment *models.Comment, text *models.TextComment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.texts == nil {
		f.texts = map[uint]models.TextComment{}
	}
	f.nextText++
	text.ID = f.nextText
	text.CreatedAt = time.Now()
	f.texts[text.ID] = *text
	comment.ContentType = models.TextCommentKind
	comment.ContentID = text.ID
	f.add(comment)
	return nil
}

func (f *Comments) CreateImageComment(_ context.Context, comment *models.Comment, image *models.ImageComment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.images == nil {
		f.images = map[uint]models.ImageComment{}
	}
	f.nextImg++
	image.ID = f.nextImg
	image.CreatedAt = time.Now()
	f.images[image.ID] = *image
	comment.ContentType = models.ImageCommentKind
	comment.ContentID = image.ID
	f.add(comment)
	return nil
}

func (f *Comments) add(comment *models.Comment) {
	f.nextID++
	comment.ID = f.nextID
	comment.CreatedAt = time.Now()
	stored := *comment
	stored.User = nil
	f.comments = append(f.comments, stored)
}

func (f *Comments) withUser(ctx context.Context, c models.Comment) models.Comment {
	if u, err := f.users.GetUserByID(ctx, c.UserID); err == nil {
		c.User = u
	}
	return c
}

func (f *Comments) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	f.mu.Lock()
	var found *models.Comment
	for _, c := range f.comments {
		if c.ID == id {
			cc := c
			found = &cc
			break
		}
	}
	f.mu.Unlock()
	if found == nil {
		return nil, repositories.ErrNotFound
	}
	out := f.withUser(ctx, *found)
	return &out, nil
}

func (f *Comments) CommentsForImage(ctx context.Context, imageID string) ([]models.Comment, error) {
	return f.filter(ctx, func(c models.Comment) bool { return c.ImageID == imageID }), nil
}

func (f *Comments) TextComments(ctx context.Context, contentIDs []uint) ([]models.Comment, error) {
	want := make(map[uint]bool, len(contentIDs))
	for _, id := range contentIDs {
		want[id] = true
	}
	return f.filter(ctx, func(c models.Comment) bool {
		return c.ContentType == models.TextCommentKind && want[c.ContentID]
	}), nil
}

func (f *Comments) filter(ctx context.Context, keep func(models.Comment) bool) []models.Comment {
	f.mu.Lock()
	var matched []models.Comment
	for _, c := range f.comments {
		if keep(c) {
			matched = append(matched, c)
		}
	}
	f.mu.Unlock()
	out := []models.Comment{}
	for _, c := range matched {
		out = append(out, f.withUser(ctx, c))
	}
	return out
}

func (f *Comments) TextContents(_ context.Context, ids []uint) (map[uint]models.TextComment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[uint]models.TextComment{}
	for _, id := range ids {
		if t, ok := f.texts[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

func (f *Comments) ImageContents(_ context.Context, ids []uint) (map[uint]models.ImageComment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[uint]models.ImageComment{}
	for _, id := range ids {
		if i, ok := f.images[id]; ok {
			out[id] = i
		}
	}
	return out, nil
}

func (f *Comments) SearchTextComments(ctx context.Context, term string, limit int) ([]models.Comment, error) {
	f.mu.Lock()
	var ids []uint
	for id, t := range f.texts {
		if strings.Contains(strings.ToLower(t.Body), strings.ToLower(term)) {
			ids = append(ids, id)
		}
	}
	f.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return f.TextComments(ctx, ids)
}

func (f *Comments) DeleteComment(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.comments {
		if c.ID == id {
			f.comments = append(f.comments[:i], f.comments[i+1:]...)
			switch c.ContentType {
			case models.TextCommentKind:
				delete(f.texts, c.ContentID)
			case models.ImageCommentKind:
				delete(f.images, c.ContentID)
			}
			return nil
		}
	}
	return repositories.ErrNotFound
}
