package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/forumlab/forum-api/internal/domain/entity"
	"github.com/forumlab/forum-api/internal/domain/repository"
)

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// CreatePost assigns the created timestamp from the server clock at
// insertion time. Title and body are stored as given; the repository
// does not validate them.
func (r *PostRepository) CreatePost(ctx context.Context, p *entity.Post) error {
	p.Created = time.Now().UTC()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO posts (author, title, body, attachment, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, p.Author, p.Title, p.Body, nullString(p.Attachment), p.Created.UnixNano())
	return row.Scan(&p.ID)
}

// DeletePost removes the row unconditionally. Whether the caller is
// allowed to is the authorization gate's problem, not the repository's.
// Replies to the deleted post stay in place.
func (r *PostRepository) DeletePost(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListFeed returns every post joined with its author, newest first.
// The id tiebreak keeps the order stable for posts created within the
// same clock tick.
func (r *PostRepository) ListFeed(ctx context.Context) ([]repository.FeedRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.author, p.title, p.body, p.attachment, p.created_at,
		       u.username, u.avatar
		FROM posts p
		JOIN users u ON u.id = p.author
		ORDER BY p.created_at DESC, p.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	feed := []repository.FeedRow{}
	for rows.Next() {
		var (
			fr                 repository.FeedRow
			attachment, avatar sql.NullString
			created            int64
		)
		if err := rows.Scan(&fr.Post.ID, &fr.Post.Author, &fr.Post.Title, &fr.Post.Body,
			&attachment, &created, &fr.Username, &avatar); err != nil {
			return nil, err
		}
		fr.Post.Attachment = attachment.String
		fr.Post.Created = time.Unix(0, created).UTC()
		fr.Avatar = avatar.String
		feed = append(feed, fr)
	}
	return feed, rows.Err()
}

func (r *PostRepository) CreateReply(ctx context.Context, reply *entity.Reply) error {
	reply.Created = time.Now().UTC()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO replies (post, author, body, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, reply.Post, reply.Author, reply.Body, reply.Created.UnixNano())
	return row.Scan(&reply.ID)
}

// ListReplies has no public endpoint; it exists for the service layer
// and its tests.
func (r *PostRepository) ListReplies(ctx context.Context, postID int64) ([]entity.Reply, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, post, author, body, created_at
		FROM replies
		WHERE post = $1
		ORDER BY created_at ASC, id ASC
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	replies := []entity.Reply{}
	for rows.Next() {
		var (
			rep     entity.Reply
			created int64
		)
		if err := rows.Scan(&rep.ID, &rep.Post, &rep.Author, &rep.Body, &created); err != nil {
			return nil, err
		}
		rep.Created = time.Unix(0, created).UTC()
		replies = append(replies, rep)
	}
	return replies, rows.Err()
}

var _ repository.PostRepository = (*PostRepository)(nil)
