// Package authz is the policy side of the policy/mechanism split:
// repositories mutate unconditionally, this package decides who may
// ask them to. Decisions are pure functions over the session snapshot
// and are re-evaluated on every request.
package authz

import (
	"errors"

	"github.com/forumlab/forum-api/internal/domain/entity"
	"github.com/forumlab/forum-api/internal/session"
)

// Capability names a protected operation.
type Capability string

const (
	CreatePost  Capability = "create_post"
	CreateReply Capability = "create_reply"
	DeletePost  Capability = "delete_post"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
)

// Authorize decides whether the snapshot may exercise the capability.
// CreatePost and CreateReply need any authenticated session. DeletePost
// needs the admin role; an anonymous caller gets ErrForbidden too,
// matching the boundary's fixed 403 for that operation.
func Authorize(snap session.Snapshot, cap Capability) error {
	switch cap {
	case CreatePost, CreateReply:
		if snap.Anonymous() {
			return ErrUnauthenticated
		}
		return nil
	case DeletePost:
		if snap.Role != entity.RoleAdmin {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}
