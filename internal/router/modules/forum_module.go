package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/forumlab/forum-api/internal/interface/http"
)

// ForumModule wires the content surface. The feed is public; the
// mutating routes consult the session snapshot inside the handlers,
// so no route-level auth middleware is attached here.
type ForumModule struct {
	Handler *handlers.ForumHandler
}

func NewForumModule(h *handlers.ForumHandler) *ForumModule {
	return &ForumModule{Handler: h}
}

func (m *ForumModule) Register(rg *gin.RouterGroup) {
	rg.POST("/post", m.Handler.Create)
	rg.GET("/posts", m.Handler.Feed)
	rg.DELETE("/post/:id", m.Handler.Delete)
}
