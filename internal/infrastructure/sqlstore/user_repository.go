package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/forumlab/forum-api/internal/domain/entity"
	"github.com/forumlab/forum-api/internal/domain/repository"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create persists a new user. The role column defaults to "user" at
// the storage layer; a username collision surfaces as
// repository.ErrDuplicateUsername.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, avatar)
		VALUES ($1, $2, $3)
		RETURNING id, role
	`, u.Username, u.Password, nullString(u.Avatar))

	if err := row.Scan(&u.ID, &u.Role); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateUsername
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	u := &entity.User{}
	var avatar sql.NullString

	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, avatar, role
		FROM users
		WHERE username = $1
	`, username)

	if err := row.Scan(&u.ID, &u.Username, &u.Password, &avatar, &u.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	u.Avatar = avatar.String
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var sqErr *sqlitedrv.Error
	if errors.As(err, &sqErr) {
		return sqErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

var _ repository.UserRepository = (*UserRepository)(nil)
