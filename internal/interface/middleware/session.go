package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/forumlab/forum-api/internal/session"
	"github.com/forumlab/forum-api/pkg/helpers"
)

const sessionKey = "session_snapshot"

// Session attaches the resolved session snapshot to the context when
// the request carries a valid token. It never rejects: a missing or
// unknown token just leaves the request anonymous, and the
// authorization gate decides what that means per operation.
func Session(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(helpers.SessionCookieName); err == nil && token != "" {
			if snap, ok := mgr.Resolve(token); ok {
				c.Set(sessionKey, snap)
			}
		}
		c.Next()
	}
}

// CurrentSession returns the request's snapshot, or the anonymous zero
// value when no session was resolved.
func CurrentSession(c *gin.Context) session.Snapshot {
	if v, ok := c.Get(sessionKey); ok {
		if snap, ok := v.(session.Snapshot); ok {
			return snap
		}
	}
	return session.Snapshot{}
}
