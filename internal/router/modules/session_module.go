package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/rimsapp/rims-activation/internal/interface/http"
	"github.com/rimsapp/rims-activation/internal/interface/middleware"
	"github.com/rimsapp/rims-activation/pkg/session"
)

// SessionModule wires login/logout and session validation routes.
// Public: POST /api/login, GET /api/session/validate
// Protected: POST /api/logout

type SessionModule struct {
	Handler  *handlers.SessionHandler
	Sessions *session.Manager
	Redis    *redis.Client
}

func NewSessionModule(h *handlers.SessionHandler, sessions *session.Manager, rdb *redis.Client) *SessionModule {
	return &SessionModule{Handler: h, Sessions: sessions, Redis: rdb}
}

func (m *SessionModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIP(), nil) // 10 req/min per IP

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.GET("/session/validate", m.Handler.Validate)

	// Protected
	auth := rg.Group("/")
	auth.Use(middleware.SessionAuth(m.Sessions))
	auth.Use(middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/logout", m.Handler.Logout)
	}
}
