package repository

import (
	"context"
	"errors"

	"github.com/forumlab/forum-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUsername is returned by UserRepository.Create when
	// the username is already taken. Uniqueness is enforced by the
	// storage layer, not by the caller.
	ErrDuplicateUsername = errors.New("username already taken")
)

// UserRepository is the credential store. Users are only ever created;
// no exposed operation updates or deletes them.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}

// FeedRow is the read-side join of a post with its author's identity.
// Body is still raw markdown here; the service layer renders it.
type FeedRow struct {
	Post     entity.Post
	Username string
	Avatar   string
}

// PostRepository owns posts and replies. DeletePost is unconditional:
// the authorization decision belongs to the caller.
type PostRepository interface {
	CreatePost(ctx context.Context, p *entity.Post) error
	DeletePost(ctx context.Context, id int64) error
	ListFeed(ctx context.Context) ([]FeedRow, error)
	CreateReply(ctx context.Context, r *entity.Reply) error
	ListReplies(ctx context.Context, postID int64) ([]entity.Reply, error)
}
