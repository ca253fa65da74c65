package application

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/forumlab/forum-api/internal/domain/entity"
	repo "github.com/forumlab/forum-api/internal/domain/repository"
	"github.com/forumlab/forum-api/internal/session"
	"github.com/forumlab/forum-api/internal/storage"
	"github.com/forumlab/forum-api/pkg/helpers"
)

// ErrInvalidCredentials covers both unknown usernames and wrong
// passwords. The caller must not be able to tell which one happened.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UploadInput carries one multipart file from the handler into a
// service. Reader is consumed exactly once.
type UploadInput struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

type AuthService struct {
	Users          repo.UserRepository
	Sessions       *session.Manager
	Hasher         *helpers.PasswordHasher
	Files          storage.BlobStore
	Logger         *logrus.Logger
	MaxUploadBytes int64
}

func NewAuthService(users repo.UserRepository, sessions *session.Manager, hasher *helpers.PasswordHasher, files storage.BlobStore, logger *logrus.Logger, maxUploadBytes int64) *AuthService {
	return &AuthService{
		Users:          users,
		Sessions:       sessions,
		Hasher:         hasher,
		Files:          files,
		Logger:         logger,
		MaxUploadBytes: maxUploadBytes,
	}
}

// Register hashes the password, stores the optional avatar upload and
// creates the user. A username collision surfaces as
// repository.ErrDuplicateUsername; upload constraint violations as
// storage.ErrTooLarge / storage.ErrUnsupportedType.
func (s *AuthService) Register(ctx context.Context, username, password string, avatar *UploadInput) (*entity.User, error) {
	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{Username: username, Password: hash}

	if avatar != nil {
		if err := storage.CheckConstraints(storage.PurposeAvatar, avatar.Filename, avatar.Size, s.MaxUploadBytes); err != nil {
			return nil, err
		}
		ref, err := s.Files.Save(ctx, storage.PurposeAvatar, avatar.Filename, avatar.Reader)
		if err != nil {
			s.Logger.WithError(err).Warn("avatar upload failed")
			return nil, err
		}
		u.Avatar = ref
	}

	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user registered")
	return u, nil
}

// Login verifies the credentials and issues a session. The returned
// snapshot is the identity frozen at this moment; later changes to the
// stored user do not reach it.
func (s *AuthService) Login(ctx context.Context, username, password string) (session.Snapshot, string, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return session.Snapshot{}, "", ErrInvalidCredentials
	}
	if !s.Hasher.Verify(password, u.Password) {
		return session.Snapshot{}, "", ErrInvalidCredentials
	}

	token := s.Sessions.Issue(u)
	snap, _ := s.Sessions.Resolve(token)
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("login")
	return snap, token, nil
}
