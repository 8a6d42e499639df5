package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zh-Andrew/foodgram-project-react/internal/apperr"
	"github.com/Zh-Andrew/foodgram-project-react/internal/pagination"
	"github.com/Zh-Andrew/foodgram-project-react/internal/service"
)

func TestSubscribeLifecycle(t *testing.T) {
	db, _ := setupServiceTest(t)
	ctx := context.Background()

	follower := createTestUser(t, db, "follower")
	author := createTestUser(t, db, "author")

	subs := service.NewSubscriptionService(db)

	got, err := subs.Subscribe(ctx, follower.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, author.ID, got.ID)
	assert.Equal(t, "author", got.Username)

	_, err = subs.Subscribe(ctx, follower.ID, author.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAlreadyExists, apperr.KindOf(err))

	subscribed, err := subs.IsSubscribed(ctx, &follower.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	require.NoError(t, subs.Unsubscribe(ctx, follower.ID, author.ID))

	// Removing a missing edge is not-found, unlike the membership sets.
	err = subs.Unsubscribe(ctx, follower.ID, author.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSubscribeToSelf(t *testing.T) {
	db, _ := setupServiceTest(t)

	user := createTestUser(t, db, "narcissist")
	subs := service.NewSubscriptionService(db)

	_, err := subs.Subscribe(context.Background(), user.ID, user.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestSubscribeUnknownAuthor(t *testing.T) {
	db, _ := setupServiceTest(t)
	ctx := context.Background()

	follower := createTestUser(t, db, "follower")
	subs := service.NewSubscriptionService(db)

	_, err := subs.Subscribe(ctx, follower.ID, 999)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	err = subs.Unsubscribe(ctx, follower.ID, 999)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSubscriptionAuthors(t *testing.T) {
	db, _ := setupServiceTest(t)
	ctx := context.Background()

	follower := createTestUser(t, db, "follower")
	first := createTestUser(t, db, "first")
	second := createTestUser(t, db, "second")
	createTestUser(t, db, "unfollowed")

	subs := service.NewSubscriptionService(db)
	_, err := subs.Subscribe(ctx, follower.ID, first.ID)
	require.NoError(t, err)
	_, err = subs.Subscribe(ctx, follower.ID, second.ID)
	require.NoError(t, err)

	authors, count, err := subs.Authors(ctx, follower.ID, pagination.NewParams("", ""))
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	require.Len(t, authors, 2)
	// Subscription order, not alphabetical.
	assert.Equal(t, "first", authors[0].Username)
	assert.Equal(t, "second", authors[1].Username)

	page, count, err := subs.Authors(ctx, follower.ID, pagination.NewParams("2", "1"))
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	require.Len(t, page, 1)
	assert.Equal(t, "second", page[0].Username)
}

func TestSubscriptionAnnotations(t *testing.T) {
	db, _ := setupServiceTest(t)
	ctx := context.Background()

	follower := createTestUser(t, db, "follower")
	author := createTestUser(t, db, "author")
	other := createTestUser(t, db, "other")

	subs := service.NewSubscriptionService(db)
	_, err := subs.Subscribe(ctx, follower.ID, author.ID)
	require.NoError(t, err)

	// Anonymous viewers are never subscribed.
	subscribed, err := subs.IsSubscribed(ctx, nil, author.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)

	ids, err := subs.SubscribedAuthorIDs(ctx, nil, []uint{author.ID, other.ID})
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = subs.SubscribedAuthorIDs(ctx, &follower.ID, []uint{author.ID, other.ID})
	require.NoError(t, err)
	assert.True(t, ids[author.ID])
	assert.False(t, ids[other.ID])
}
