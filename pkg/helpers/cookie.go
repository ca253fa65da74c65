package helpers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionCookieName carries the opaque session token issued at login.
const SessionCookieName = "forum_session"

// CookieManager writes the session cookie. No Max-Age is set: the
// cookie lives for the browser session, mirroring the server side
// where sessions die with the process.
type CookieManager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *CookieManager {
	return &CookieManager{Domain: domain, Secure: secure}
}

func (m *CookieManager) SetSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, 0, "/", m.Domain, m.Secure, true)
}
