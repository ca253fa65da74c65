package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forumlab/forum-api/internal/domain/entity"
)

func TestIssueAndResolve(t *testing.T) {
	m := NewManager()
	u := &entity.User{ID: 7, Username: "alice", Role: entity.RoleUser, Avatar: "/uploads/avatars/a.png"}

	token := m.Issue(u)
	require.NotEmpty(t, token)

	snap, ok := m.Resolve(token)
	require.True(t, ok)
	assert.Equal(t, int64(7), snap.UserID)
	assert.Equal(t, "alice", snap.Username)
	assert.Equal(t, entity.RoleUser, snap.Role)
	assert.Equal(t, "/uploads/avatars/a.png", snap.Avatar)
	assert.False(t, snap.Anonymous())
}

func TestResolveUnknownToken(t *testing.T) {
	m := NewManager()

	snap, ok := m.Resolve("not-a-token")
	assert.False(t, ok)
	assert.True(t, snap.Anonymous())
}

func TestSnapshotIsFrozenAtIssue(t *testing.T) {
	m := NewManager()
	u := &entity.User{ID: 1, Username: "bob", Role: entity.RoleUser}

	token := m.Issue(u)

	// Promoting the user afterwards must not leak into the session.
	u.Role = entity.RoleAdmin

	snap, ok := m.Resolve(token)
	require.True(t, ok)
	assert.Equal(t, entity.RoleUser, snap.Role)
}

func TestTokensAreUniquePerLogin(t *testing.T) {
	m := NewManager()
	u := &entity.User{ID: 1, Username: "bob", Role: entity.RoleUser}

	first := m.Issue(u)
	second := m.Issue(u)
	assert.NotEqual(t, first, second)

	_, ok := m.Resolve(first)
	assert.True(t, ok, "older sessions stay valid")
}
