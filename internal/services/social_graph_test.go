package services

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/anonto42/tradegram/backend/internal/testing/fakes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGraph(t *testing.T) (*SocialGraph, *fakes.Store) {
	t.Helper()
	store := fakes.NewStore()
	return NewSocialGraph(store.Users, store.Follows, store.Listings, store.Notifications), store
}

func userIDs(users []models.User) []uint {
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

func TestSocialGraph_FollowAddsToFollowedUsers(t *testing.T) {
	graph, store := newGraph(t)
	ctx := context.Background()
	jb := store.MustCreateUser("jb")
	jbz := store.MustCreateUser("jbz")

	require.NoError(t, graph.Follow(ctx, jb.ID, jbz.ID))

	followed, err := graph.FollowedUsers(ctx, jb.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{jbz.ID}, userIDs(followed))

	ok, err := graph.Followings(ctx, jb.ID, jbz.ID)
	require.NoError(t, err)
	assert.True(t, ok, "jb should be among jbz's followers")

	ok, err = graph.Followings(ctx, jbz.ID, jb.ID)
	require.NoError(t, err)
	assert.False(t, ok, "the relation is directed")
}

func TestSocialGraph_IncludesMyself(t *testing.T) {
	graph, store := newGraph(t)
	ctx := context.Background()
	jb := store.MustCreateUser("jb")
	jbz := store.MustCreateUser("jbz")

	require.NoError(t, graph.Follow(ctx, jb.ID, jbz.ID))

	ids, err := graph.IncludesMyself(ctx, jb.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{jb.ID, jbz.ID}, ids)
}

func TestSocialGraph_IncludesMyself_FollowOrder(t *testing.T) {
	graph, store := newGraph(t)
	ctx := context.Background()
	me := store.MustCreateUser("me")
	a := store.MustCreateUser("a")
	b := store.MustCreateUser("b")
	c := store.MustCreateUser("c")

	// Follow out of id order; the result must follow insertion order.
	require.NoError(t, graph.Follow(ctx, me.ID, c.ID))
	require.NoError(t, graph.Follow(ctx, me.ID, a.ID))
	require.NoError(t, graph.Follow(ctx, me.ID, b.ID))

	ids, err := graph.IncludesMyself(ctx, me.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{me.ID, c.ID, a.ID, b.ID}, ids)
}

func TestSocialGraph_IncludesMyself_NoFollows(t *testing.T) {
	graph, store := newGraph(t)
	loner := store.MustCreateUser("loner")

	ids, err := graph.IncludesMyself(context.Background(), loner.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{loner.ID}, ids)
}

func TestSocialGraph_UnfollowPreservesOrder(t *testing.T) {
	graph, store := newGraph(t)
	ctx := context.Background()
	jb := store.MustCreateUser("jb")
	jbz := store.MustCreateUser("jbz")
	ab := store.MustCreateUser("ab")

	require.NoError(t, graph.Follow(ctx, jb.ID, jbz.ID))
	require.NoError(t, graph.Follow(ctx, jb.ID, ab.ID))
	require.NoError(t, graph.Unfollow(ctx, jb.ID, jbz.ID))

	followed, err := graph.FollowedUsers(ctx, jb.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{ab.ID}, userIDs(followed))

	ok, err := graph.Followings(ctx, jb.ID, jbz.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSocialGraph_UnfollowNeverFollowedIsNoop(t *testing.T) {
	graph, store := newGraph(t)
	ctx := context.Background()
	jb := store.MustCreateUser("jb")
	jbz := store.MustCreateUser("jbz")
	ab := store.MustCreateUser("ab")
	require.NoError(t, graph.Follow(ctx, jb.ID, ab.ID))

	require.NoError(t, graph.Unfollow(ctx, jb.ID, jbz.ID))

	followed, err := graph.FollowedUsers(ctx, jb.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{ab.ID}, userIDs(followed), "state must be unchanged")
}

func TestSocialGraph_DuplicateFollowIsIdempotent(t *testing.T) {
	graph, store := newGraph(t)
	ctx := context.Background()
	jb := store.MustCreateUser("jb")
	jbz := store.MustCreateUser("jbz")

	require.NoError(t, graph.Follow(ctx, jb.ID, jbz.ID))
	require.NoError(t, graph.Follow(ctx, jb.ID, jbz.ID))

	assert.Equal(t, 1, store.Follows.Len())
	assert.Len(t, store.Notifications.All(), 1, "only the first follow notifies")
}

func TestSocialGraph_CannotFollowSelf(t *testing.T) {
	graph, store := newGraph(t)
	jb := store.MustCreateUser("jb")

	err := graph.Follow(context.Background(), jb.ID, jb.ID)
	assert.ErrorIs(t, err, ErrCannotFollowSelf)
	assert.Equal(t, 0, store.Follows.Len())
}

func TestSocialGraph_UnknownUsersAreNotFound(t *testing.T) {
	graph, store := newGraph(t)
	ctx := context.Background()
	jb := store.MustCreateUser("jb")

	assert.ErrorIs(t, graph.Follow(ctx, jb.ID, 999), ErrUserNotFound)
	assert.ErrorIs(t, graph.Follow(ctx, 999, jb.ID), ErrUserNotFound)
	assert.ErrorIs(t, graph.Unfollow(ctx, jb.ID, 999), ErrUserNotFound)

	_, err := graph.Followings(ctx, 999, jb.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = graph.IncludesMyself(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = graph.CanAccept(ctx, 999, 1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSocialGraph_FollowNotifiesTarget(t *testing.T) {
	graph, store := newGraph(t)
	jb := store.MustCreateUser("jb")
	jbz := store.MustCreateUser("jbz")

	require.NoError(t, graph.Follow(context.Background(), jb.ID, jbz.ID))

	notes := store.Notifications.All()
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationFollow, notes[0].Type)
	assert.Equal(t, jb.ID, notes[0].ActorID)
	assert.Equal(t, jbz.ID, notes[0].RecipientID)
	assert.Equal(t, "jb started following you", notes[0].Message)
}

func TestSocialGraph_NotificationFailureDoesNotFailFollow(t *testing.T) {
	graph, store := newGraph(t)
	store.Notifications.Err = errors.New("notifications table gone")
	jb := store.MustCreateUser("jb")
	jbz := store.MustCreateUser("jbz")

	require.NoError(t, graph.Follow(context.Background(), jb.ID, jbz.ID))
	assert.Equal(t, 1, store.Follows.Len())
}

func TestSocialGraph_PersistenceFailurePropagates(t *testing.T) {
	graph, store := newGraph(t)
	ctx := context.Background()
	jb := store.MustCreateUser("jb")
	jbz := store.MustCreateUser("jbz")
	boom := errors.New("connection reset")
	store.Follows.Err = boom

	assert.ErrorIs(t, graph.Follow(ctx, jb.ID, jbz.ID), boom)
	assert.ErrorIs(t, graph.Unfollow(ctx, jb.ID, jbz.ID), boom)
	_, err := graph.IncludesMyself(ctx, jb.ID)
	assert.ErrorIs(t, err, boom)

	store.Follows.Err = nil
	store.Users.Err = boom
	err = graph.Follow(ctx, jb.ID, jbz.ID)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestSocialGraph_Followers(t *testing.T) {
	graph, store := newGraph(t)
	ctx := context.Background()
	star := store.MustCreateUser("star")
	a := store.MustCreateUser("a")
	b := store.MustCreateUser("b")

	require.NoError(t, graph.Follow(ctx, b.ID, star.ID))
	require.NoError(t, graph.Follow(ctx, a.ID, star.ID))

	followers, err := graph.Followers(ctx, star.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID, a.ID}, userIDs(followers))
}

func TestSocialGraph_Counts(t *testing.T) {
	graph, store := newGraph(t)
	ctx := context.Background()
	star := store.MustCreateUser("star")
	a := store.MustCreateUser("a")
	b := store.MustCreateUser("b")

	require.NoError(t, graph.Follow(ctx, a.ID, star.ID))
	require.NoError(t, graph.Follow(ctx, b.ID, star.ID))
	require.NoError(t, graph.Follow(ctx, star.ID, a.ID))

	counts, err := graph.Counts(ctx, star.ID)
	require.NoError(t, err)
	assert.Equal(t, FollowCounts{Followers: 2, Following: 1}, counts)

	counts, err = graph.Counts(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, FollowCounts{Followers: 0, Following: 1}, counts)

	_, err = graph.Counts(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSocialGraph_CanAccept(t *testing.T) {
	graph, store := newGraph(t)
	ctx := context.Background()
	owner := store.MustCreateUser("jb")
	other := store.MustCreateUser("ab")

	pen := &models.Listing{Name: "pen", Description: "black one", UserID: owner.ID}
	require.NoError(t, store.Listings.CreateListing(ctx, pen))

	ok, err := graph.CanAccept(ctx, owner.ID, pen.ID)
	require.NoError(t, err)
	assert.True(t, ok, "the owner can accept offers on their listing")

	ok, err = graph.CanAccept(ctx, other.ID, pen.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSocialGraph_CanAccept_UnknownListing(t *testing.T) {
	graph, store := newGraph(t)
	owner := store.MustCreateUser("jb")

	_, err := graph.CanAccept(context.Background(), owner.ID, 42)
	assert.ErrorIs(t, err, ErrListingNotFound)
}
