package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/forumlab/forum-api/internal/application"
	"github.com/forumlab/forum-api/internal/authz"
	"github.com/forumlab/forum-api/internal/domain/repository"
	"github.com/forumlab/forum-api/internal/interface/middleware"
	"github.com/forumlab/forum-api/internal/storage"
	"github.com/forumlab/forum-api/pkg/response"
)

type ForumHandler struct {
	Forum  *application.ForumService
	Logger *logrus.Logger
}

func NewForumHandler(forum *application.ForumService, logger *logrus.Logger) *ForumHandler {
	return &ForumHandler{Forum: forum, Logger: logger}
}

// Create handles POST /post (multipart: title, body, optional file).
// Title and body pass through unvalidated on purpose.
func (h *ForumHandler) Create(c *gin.Context) {
	snap := middleware.CurrentSession(c)
	if err := authz.Authorize(snap, authz.CreatePost); err != nil {
		response.Error(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	title := c.PostForm("title")
	body := c.PostForm("body")

	var file *application.UploadInput
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			response.Error(c, http.StatusBadRequest, "file unreadable", nil)
			return
		}
		defer f.Close()
		file = &application.UploadInput{Filename: fh.Filename, Size: fh.Size, Reader: f}
	}

	post, err := h.Forum.CreatePost(c.Request.Context(), snap.UserID, title, body, file)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrTooLarge), errors.Is(err, storage.ErrUnsupportedType):
			response.Error(c, http.StatusBadRequest, err.Error(), nil)
		default:
			h.Logger.WithError(err).Error("create post failed")
			response.Error(c, http.StatusInternalServerError, "could not create post", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": post.ID}, "post created")
}

// Feed handles GET /posts: every post, newest first, body rendered.
func (h *ForumHandler) Feed(c *gin.Context) {
	feed, err := h.Forum.Feed(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("feed failed")
		response.Error(c, http.StatusInternalServerError, "could not load feed", nil)
		return
	}
	response.Success(c, http.StatusOK, feed, "feed")
}

// Delete handles DELETE /post/:id. Non-admin callers get 403 whether
// or not they are logged in.
func (h *ForumHandler) Delete(c *gin.Context) {
	snap := middleware.CurrentSession(c)
	if err := authz.Authorize(snap, authz.DeletePost); err != nil {
		response.Error(c, http.StatusForbidden, "admin role required", nil)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusNotFound, "post not found", nil)
		return
	}

	if err := h.Forum.DeletePost(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "post not found", nil)
			return
		}
		h.Logger.WithError(err).Error("delete post failed")
		response.Error(c, http.StatusInternalServerError, "could not delete post", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "post deleted")
}
