package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/forumlab/forum-api/internal/application"
	"github.com/forumlab/forum-api/internal/domain/repository"
	"github.com/forumlab/forum-api/internal/storage"
	"github.com/forumlab/forum-api/pkg/helpers"
	"github.com/forumlab/forum-api/pkg/response"
	"github.com/forumlab/forum-api/pkg/validation"
)

type AuthHandler struct {
	Auth    *application.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewAuthHandler(auth *application.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

// credentialsRequest binds from JSON, urlencoded or multipart bodies.
type credentialsRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Register handles POST /register. A multipart request may carry an
// optional "avatar" image; everything the upload or storage layer
// rejects comes back as 400, matching the reference surface.
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	var avatar *application.UploadInput
	if fh, err := c.FormFile("avatar"); err == nil {
		f, err := fh.Open()
		if err != nil {
			response.Error(c, http.StatusBadRequest, "avatar unreadable", nil)
			return
		}
		defer f.Close()
		avatar = &application.UploadInput{Filename: fh.Filename, Size: fh.Size, Reader: f}
	}

	if _, err := h.Auth.Register(c.Request.Context(), req.Username, req.Password, avatar); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			response.Error(c, http.StatusBadRequest, "username already taken", nil)
		case errors.Is(err, storage.ErrTooLarge), errors.Is(err, storage.ErrUnsupportedType):
			response.Error(c, http.StatusBadRequest, err.Error(), nil)
		default:
			h.Logger.WithError(err).Error("register failed")
			response.Error(c, http.StatusBadRequest, "registration failed", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, nil, "registered")
}

// Login handles POST /login. Unknown username and wrong password are
// indistinguishable in the response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	snap, token, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(c, http.StatusForbidden, "invalid credentials", nil)
		return
	}

	h.Cookies.SetSession(c, token)
	response.Success(c, http.StatusOK, gin.H{
		"username": snap.Username,
		"role":     snap.Role,
		"avatar":   snap.Avatar,
	}, "login successful")
}
