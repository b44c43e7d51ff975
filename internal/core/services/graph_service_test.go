package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swathi-reddy30/pulse-app/internal/core/domain"
)

func seedUser(t *testing.T, id string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(id+"@example.com", id, "hashed:pw")
	require.NoError(t, err)
	u.ID = id
	return u
}

func TestToggleFollow_RoundTripKeepsPairConsistent(t *testing.T) {
	graph := newFakeGraphRepo()
	users := newFakeUserRepo(seedUser(t, "alice"), seedUser(t, "bob"))
	notifier := &fakeNotifier{}
	svc := NewGraphService(graph, users, notifier)

	res, err := svc.ToggleFollow(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.True(t, res.Following)
	assert.EqualValues(t, 1, res.FollowerCount)
	assert.EqualValues(t, 1, res.FollowingCount)

	// Both sides of the relation derive from the same edge.
	bobFollowers, bobFollowing, err := svc.Counts(context.Background(), "bob")
	require.NoError(t, err)
	assert.EqualValues(t, 1, bobFollowers)
	assert.EqualValues(t, 0, bobFollowing)

	aliceFollowers, aliceFollowing, err := svc.Counts(context.Background(), "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 0, aliceFollowers)
	assert.EqualValues(t, 1, aliceFollowing)

	res, err = svc.ToggleFollow(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.False(t, res.Following)
	assert.EqualValues(t, 0, res.FollowerCount)
	assert.EqualValues(t, 0, res.FollowingCount)
}

func TestToggleFollow_SelfFollowRejected(t *testing.T) {
	users := newFakeUserRepo(seedUser(t, "alice"))
	svc := NewGraphService(newFakeGraphRepo(), users, &fakeNotifier{})

	_, err := svc.ToggleFollow(context.Background(), "alice", "alice")
	assert.ErrorIs(t, err, domain.ErrSelfFollow)
}

func TestToggleFollow_UnknownTarget(t *testing.T) {
	users := newFakeUserRepo(seedUser(t, "alice"))
	svc := NewGraphService(newFakeGraphRepo(), users, &fakeNotifier{})

	_, err := svc.ToggleFollow(context.Background(), "alice", "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestToggleFollow_OnlyFollowDirectionNotifies(t *testing.T) {
	users := newFakeUserRepo(seedUser(t, "alice"), seedUser(t, "bob"))
	notifier := &fakeNotifier{}
	svc := NewGraphService(newFakeGraphRepo(), users, notifier)

	_, err := svc.ToggleFollow(context.Background(), "alice", "bob")
	require.NoError(t, err)
	_, err = svc.ToggleFollow(context.Background(), "alice", "bob")
	require.NoError(t, err)

	calls := notifier.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.KindFollow, calls[0].kind)
	assert.Equal(t, "bob", calls[0].recipient)
	assert.Equal(t, "alice", calls[0].sender)
	assert.Empty(t, calls[0].postID)
}
