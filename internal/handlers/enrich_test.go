package handlers

import (
	"errors"
	"testing"

	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/anonto42/tradegram/backend/internal/services"
	"github.com/anonto42/tradegram/backend/internal/testing/fakes"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedHandler_EnrichLogsLookupFailures(t *testing.T) {
	store := fakes.NewStore()
	jb := store.MustCreateUser("jb")
	h := NewFeedHandler(nil, services.NewUserService(store.Users))
	hook := logtest.NewGlobal()
	c := newContext()

	out := h.enrich(c, jb.ID, []models.Image{{UserID: jb.ID}})
	require.Len(t, out, 1)
	assert.Equal(t, "jb", out[0].Author.Username)
	assert.True(t, out[0].IsMine)
	assert.Empty(t, hook.AllEntries())

	out = h.enrich(c, jb.ID, []models.Image{{UserID: 404}})
	assert.Empty(t, out[0].Author.Username)
	assert.Empty(t, hook.AllEntries(), "a deleted author is not worth a warning")

	store.Users.Err = errors.New("connection reset by peer")
	out = h.enrich(c, jb.ID, []models.Image{{UserID: jb.ID}, {UserID: jb.ID}})
	require.Len(t, out, 2)
	assert.Empty(t, out[0].Author.Username)
	require.Len(t, hook.AllEntries(), 1, "one lookup per author")
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.EqualValues(t, jb.ID, hook.LastEntry().Data["user_id"])
	hook.Reset()
}

func TestNotificationHandler_EnrichLogsLookupFailures(t *testing.T) {
	store := fakes.NewStore()
	jb := store.MustCreateUser("jb")
	h := NewNotificationHandler(store.Notifications, services.NewUserService(store.Users))
	hook := logtest.NewGlobal()

	store.Users.Err = errors.New("connection reset by peer")
	out := h.enrichNotifications(newContext(), []models.Notification{{ActorID: jb.ID}})
	require.Len(t, out, 1)
	assert.Empty(t, out[0].Actor.Username)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	hook.Reset()
}
