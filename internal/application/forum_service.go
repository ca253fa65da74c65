package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/forumlab/forum-api/internal/domain/entity"
	repo "github.com/forumlab/forum-api/internal/domain/repository"
	"github.com/forumlab/forum-api/internal/storage"
)

// MarkdownRenderer is what the feed needs from a renderer. The
// concrete implementation passes raw HTML through; swapping in a
// sanitizing one only touches the composition root.
type MarkdownRenderer interface {
	Render(raw string) (string, error)
}

// FeedItem is the read-side projection of a post: author identity
// joined in, body already rendered to HTML, avatar defaulted.
type FeedItem struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Attachment string    `json:"attachment,omitempty"`
	Username   string    `json:"username"`
	Avatar     string    `json:"avatar"`
	Created    time.Time `json:"created"`
}

type ForumService struct {
	Posts          repo.PostRepository
	Files          storage.BlobStore
	Markdown       MarkdownRenderer
	Logger         *logrus.Logger
	MaxUploadBytes int64
}

func NewForumService(posts repo.PostRepository, files storage.BlobStore, md MarkdownRenderer, logger *logrus.Logger, maxUploadBytes int64) *ForumService {
	return &ForumService{
		Posts:          posts,
		Files:          files,
		Markdown:       md,
		Logger:         logger,
		MaxUploadBytes: maxUploadBytes,
	}
}

// CreatePost stores the optional attachment first, then the post row
// referencing it. Title and body are deliberately not validated.
func (s *ForumService) CreatePost(ctx context.Context, authorID int64, title, body string, file *UploadInput) (*entity.Post, error) {
	p := &entity.Post{Author: authorID, Title: title, Body: body}

	if file != nil {
		if err := storage.CheckConstraints(storage.PurposePostFile, file.Filename, file.Size, s.MaxUploadBytes); err != nil {
			return nil, err
		}
		ref, err := s.Files.Save(ctx, storage.PurposePostFile, file.Filename, file.Reader)
		if err != nil {
			s.Logger.WithError(err).Warn("attachment upload failed")
			return nil, err
		}
		p.Attachment = ref
	}

	if err := s.Posts.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"post_id": p.ID, "author": authorID}).Info("post created")
	return p, nil
}

// Feed queries fresh on every call and renders each body for display.
// Authors without an avatar get the default reference.
func (s *ForumService) Feed(ctx context.Context) ([]FeedItem, error) {
	rows, err := s.Posts.ListFeed(ctx)
	if err != nil {
		return nil, err
	}

	feed := make([]FeedItem, 0, len(rows))
	for _, row := range rows {
		html, err := s.Markdown.Render(row.Post.Body)
		if err != nil {
			return nil, err
		}
		avatar := row.Avatar
		if avatar == "" {
			avatar = storage.DefaultAvatarRef
		}
		feed = append(feed, FeedItem{
			ID:         row.Post.ID,
			Title:      row.Post.Title,
			Body:       html,
			Attachment: row.Post.Attachment,
			Username:   row.Username,
			Avatar:     avatar,
			Created:    row.Post.Created,
		})
	}
	return feed, nil
}

// DeletePost removes the post unconditionally; the admin check happened
// at the authorization gate before this is called.
func (s *ForumService) DeletePost(ctx context.Context, id int64) error {
	if err := s.Posts.DeletePost(ctx, id); err != nil {
		return err
	}
	s.Logger.WithField("post_id", id).Info("post deleted")
	return nil
}

func (s *ForumService) CreateReply(ctx context.Context, authorID, postID int64, body string) (*entity.Reply, error) {
	r := &entity.Reply{Post: postID, Author: authorID, Body: body}
	if err := s.Posts.CreateReply(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Replies is intentionally not routed anywhere; the boundary has no
// reply read endpoint.
func (s *ForumService) Replies(ctx context.Context, postID int64) ([]entity.Reply, error) {
	return s.Posts.ListReplies(ctx, postID)
}
