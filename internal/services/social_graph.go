package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/anonto42/tradegram/backend/internal/repositories"
	"github.com/anonto42/tradegram/backend/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// SocialGraph owns the directed follow relation between users and the queries
// derived from it.
type SocialGraph struct {
	users         UserFinder
	follows       FollowStore
	listings      ListingStore
	notifications Notifier
}

// NewSocialGraph creates a SocialGraph. notifications may be nil.
func NewSocialGraph(users UserFinder, follows FollowStore, listings ListingStore, notifications Notifier) *SocialGraph {
	return &SocialGraph{
		users:         users,
		follows:       follows,
		listings:      listings,
		notifications: notifications,
	}
}

// Follow makes followerID follow targetID. Following someone already followed
// leaves the relation unchanged.
func (g *SocialGraph) Follow(ctx context.Context, followerID, targetID uint) error {
	follower, err := g.user(ctx, followerID)
	if err != nil {
		return err
	}
	target, err := g.user(ctx, targetID)
	if err != nil {
		return err
	}
	if follower.ID == target.ID {
		return ErrCannotFollowSelf
	}

	created, err := g.follows.CreateFollow(ctx, &models.Follow{FollowerID: follower.ID, FollowedID: target.ID})
	if err != nil {
		return fmt.Errorf("create follow %d->%d: %w", follower.ID, target.ID, err)
	}
	if !created {
		return nil
	}

	metrics.FollowsCreated.Inc()
	logrus.WithFields(logrus.Fields{"follower": follower.ID, "followed": target.ID}).Info("User followed")

	notify(ctx, g.notifications, &models.Notification{
		Type:        models.NotificationFollow,
		ActorID:     follower.ID,
		RecipientID: target.ID,
		TargetID:    strconv.FormatUint(uint64(follower.ID), 10),
		TargetType:  "user",
		Message:     follower.Username + " started following you",
	})
	return nil
}

// Unfollow removes the edge followerID -> targetID. Removing an edge that does
// not exist is a no-op.
func (g *SocialGraph) Unfollow(ctx context.Context, followerID, targetID uint) error {
	if _, err := g.user(ctx, followerID); err != nil {
		return err
	}
	if _, err := g.user(ctx, targetID); err != nil {
		return err
	}

	removed, err := g.follows.DeleteFollow(ctx, followerID, targetID)
	if err != nil {
		return fmt.Errorf("delete follow %d->%d: %w", followerID, targetID, err)
	}
	if removed {
		metrics.FollowsRemoved.Inc()
		logrus.WithFields(logrus.Fields{"follower": followerID, "followed": targetID}).Info("User unfollowed")
	}
	return nil
}

// Followings reports whether candidateID is among otherID's followers.
func (g *SocialGraph) Followings(ctx context.Context, candidateID, otherID uint) (bool, error) {
	if _, err := g.user(ctx, candidateID); err != nil {
		return false, err
	}
	followers, err := g.Followers(ctx, otherID)
	if err != nil {
		return false, err
	}
	for _, f := range followers {
		if f.ID == candidateID {
			return true, nil
		}
	}
	return false, nil
}

// IncludesMyself returns userID followed by the ids of everyone userID follows,
// in the order they were followed. This is the feed scope.
func (g *SocialGraph) IncludesMyself(ctx context.Context, userID uint) ([]uint, error) {
	followed, err := g.FollowedUsers(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(followed)+1)
	ids = append(ids, userID)
	for _, u := range followed {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

// CanAccept reports whether listingID belongs to userID's listings.
func (g *SocialGraph) CanAccept(ctx context.Context, userID, listingID uint) (bool, error) {
	if _, err := g.user(ctx, userID); err != nil {
		return false, err
	}
	listing, err := g.listings.GetListingByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, ErrListingNotFound
		}
		return false, fmt.Errorf("load listing %d: %w", listingID, err)
	}

	owned, err := g.listings.ListingsOf(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("load listings of %d: %w", userID, err)
	}
	for _, l := range owned {
		if l.ID == listing.ID {
			return true, nil
		}
	}
	return false, nil
}

// FollowedUsers returns the users userID follows, oldest follow first.
func (g *SocialGraph) FollowedUsers(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := g.user(ctx, userID); err != nil {
		return nil, err
	}
	users, err := g.follows.FollowedUsersOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load followed users of %d: %w", userID, err)
	}
	return users, nil
}

// Followers returns the users following userID, oldest follow first.
func (g *SocialGraph) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := g.user(ctx, userID); err != nil {
		return nil, err
	}
	users, err := g.follows.FollowersOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load followers of %d: %w", userID, err)
	}
	return users, nil
}

// FollowCounts sizes both directions of a user's follow relation.
type FollowCounts struct {
	Followers int64 `json:"followers_count"`
	Following int64 `json:"following_count"`
}

func (g *SocialGraph) Counts(ctx context.Context, userID uint) (FollowCounts, error) {
	var counts FollowCounts
	if _, err := g.user(ctx, userID); err != nil {
		return counts, err
	}
	var err error
	if counts.Followers, err = g.follows.CountFollowers(ctx, userID); err != nil {
		return counts, fmt.Errorf("count followers of %d: %w", userID, err)
	}
	if counts.Following, err = g.follows.CountFollowing(ctx, userID); err != nil {
		return counts, fmt.Errorf("count following of %d: %w", userID, err)
	}
	return counts, nil
}

func (g *SocialGraph) user(ctx context.Context, id uint) (*models.User, error) {
	return findUser(ctx, g.users, id)
}

func findUser(ctx context.Context, users UserFinder, id uint) (*models.User, error) {
	u, err := users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	return u, nil
}
