package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/forumlab/forum-api/internal/interface/http"
)

// AuthModule wires the unauthenticated surface: registration and
// login.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", m.Handler.Register)
	rg.POST("/login", m.Handler.Login)
}
