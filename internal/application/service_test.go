package application

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/forumlab/forum-api/internal/authz"
	"github.com/forumlab/forum-api/internal/domain/repository"
	"github.com/forumlab/forum-api/internal/infrastructure/sqlstore"
	"github.com/forumlab/forum-api/internal/session"
	"github.com/forumlab/forum-api/internal/storage"
	"github.com/forumlab/forum-api/pkg/helpers"
	"github.com/forumlab/forum-api/pkg/markdown"
)

type testEnv struct {
	db    *sql.DB
	auth  *AuthService
	forum *ForumService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlstore.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	sessions := session.NewManager()
	files := storage.NewDiskStore(t.TempDir())
	hasher := helpers.NewPasswordHasher(bcrypt.MinCost)

	return &testEnv{
		db:    db,
		auth:  NewAuthService(sqlstore.NewUserRepository(db), sessions, hasher, files, logger, 1<<20),
		forum: NewForumService(sqlstore.NewPostRepository(db), files, markdown.New(), logger, 1<<20),
	}
}

func upload(name, content string) *UploadInput {
	return &UploadInput{Filename: name, Size: int64(len(content)), Reader: strings.NewReader(content)}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.auth.Register(ctx, "alice", "secret", nil)
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "secret", u.Password, "password is stored hashed")

	snap, token, err := env.auth.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, u.ID, snap.UserID)
	assert.Equal(t, "alice", snap.Username)
	assert.False(t, snap.Anonymous())
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "alice", "one", nil)
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, "alice", "two", nil)
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "alice", "secret", nil)
	require.NoError(t, err)

	_, _, unknownErr := env.auth.Login(ctx, "nobody", "secret")
	_, _, badPassErr := env.auth.Login(ctx, "alice", "wrong")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, badPassErr, ErrInvalidCredentials)
}

func TestRegisterWithAvatar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.auth.Register(ctx, "alice", "secret", upload("Face.PNG", "png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u.Avatar, "/uploads/avatars/"), "avatar %q", u.Avatar)

	snap, _, err := env.auth.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, u.Avatar, snap.Avatar)
}

func TestRegisterAvatarConstraints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "bob", "secret", upload("virus.exe", "x"))
	assert.ErrorIs(t, err, storage.ErrUnsupportedType)

	big := &UploadInput{Filename: "big.png", Size: 2 << 20, Reader: strings.NewReader("x")}
	_, err = env.auth.Register(ctx, "bob", "secret", big)
	assert.ErrorIs(t, err, storage.ErrTooLarge)

	// Neither failed attempt created the account.
	_, err = env.auth.Register(ctx, "bob", "secret", nil)
	assert.NoError(t, err)
}

func TestSessionStalenessAfterPromotion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "alice", "secret", nil)
	require.NoError(t, err)
	snap, _, err := env.auth.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	// Promote in the database after login; the issued session keeps the
	// old role until the user logs in again.
	_, err = env.db.Exec(`UPDATE users SET role = 'admin' WHERE username = $1`, "alice")
	require.NoError(t, err)

	assert.ErrorIs(t, authz.Authorize(snap, authz.DeletePost), authz.ErrForbidden)

	fresh, _, err := env.auth.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.NoError(t, authz.Authorize(fresh, authz.DeletePost))
}

func TestCreatePostAndFeed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author, err := env.auth.Register(ctx, "alice", "secret", nil)
	require.NoError(t, err)

	_, err = env.forum.CreatePost(ctx, author.ID, "hello", "plain words", nil)
	require.NoError(t, err)
	withFile, err := env.forum.CreatePost(ctx, author.ID, "news", "**loud**", upload("notes.txt", "n"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(withFile.Attachment, "/uploads/files/"))

	feed, err := env.forum.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	assert.Equal(t, "news", feed[0].Title, "newest first")
	assert.Contains(t, feed[0].Body, "<strong>loud</strong>", "body rendered to HTML")
	assert.Equal(t, withFile.Attachment, feed[0].Attachment)
	assert.Equal(t, "alice", feed[0].Username)
	assert.Equal(t, storage.DefaultAvatarRef, feed[0].Avatar, "missing avatar falls back to the default")
	assert.Empty(t, feed[1].Attachment)
}

func TestFeedUsesUploadedAvatar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author, err := env.auth.Register(ctx, "alice", "secret", upload("me.png", "p"))
	require.NoError(t, err)
	_, err = env.forum.CreatePost(ctx, author.ID, "t", "b", nil)
	require.NoError(t, err)

	feed, err := env.forum.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, author.Avatar, feed[0].Avatar)
}

func TestDeletePostService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author, err := env.auth.Register(ctx, "alice", "secret", nil)
	require.NoError(t, err)
	p, err := env.forum.CreatePost(ctx, author.ID, "t", "b", nil)
	require.NoError(t, err)

	require.NoError(t, env.forum.DeletePost(ctx, p.ID))
	assert.ErrorIs(t, env.forum.DeletePost(ctx, p.ID), repository.ErrNotFound)

	feed, err := env.forum.Feed(ctx)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestReplies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author, err := env.auth.Register(ctx, "alice", "secret", nil)
	require.NoError(t, err)
	p, err := env.forum.CreatePost(ctx, author.ID, "t", "b", nil)
	require.NoError(t, err)

	r, err := env.forum.CreateReply(ctx, author.ID, p.ID, "me too")
	require.NoError(t, err)
	assert.NotZero(t, r.ID)

	replies, err := env.forum.Replies(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, "me too", replies[0].Body)
}
