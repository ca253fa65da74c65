// Package session holds the process-local session state: an opaque
// token handed to the client maps to a snapshot of the user taken at
// login. The map lives and dies with the process; there is no expiry
// and no persistence.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/forumlab/forum-api/internal/domain/entity"
)

// Snapshot is the identity captured at login. It is a copy, not a live
// reference: a role change on the stored user does not affect sessions
// already issued. Authorization decisions run against this snapshot.
type Snapshot struct {
	UserID   int64
	Username string
	Role     string
	Avatar   string
}

// Anonymous reports whether the snapshot represents no session at all.
func (s Snapshot) Anonymous() bool {
	return s.UserID == 0
}

// Manager is owned by the composition root and passed into the request
// path explicitly.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]Snapshot
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]Snapshot)}
}

// Issue stores a snapshot of u and returns the opaque token the client
// will carry in its session cookie.
func (m *Manager) Issue(u *entity.User) string {
	token := uuid.NewString()
	snap := Snapshot{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		Avatar:   u.Avatar,
	}
	m.mu.Lock()
	m.sessions[token] = snap
	m.mu.Unlock()
	return token
}

// Resolve looks up the snapshot for a token. A missing or unknown
// token is not an error; the caller gets the anonymous zero value.
func (m *Manager) Resolve(token string) (Snapshot, bool) {
	m.mu.RLock()
	snap, ok := m.sessions[token]
	m.mu.RUnlock()
	return snap, ok
}
