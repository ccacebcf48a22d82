package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/rimsapp/rims-activation/internal/interface/http"
	"github.com/rimsapp/rims-activation/internal/interface/middleware"
)

type ActivationModule struct {
	Handler *handlers.ActivationHandler
	Redis   *redis.Client
}

func NewActivationModule(h *handlers.ActivationHandler, rdb *redis.Client) *ActivationModule {
	return &ActivationModule{Handler: h, Redis: rdb}
}

func (m *ActivationModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	resendLimiter := middleware.RateLimit(m.Redis, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	confirmLimiter := middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/activation/resend", resendLimiter, m.Handler.Resend)
	rg.POST("/activation/confirm", confirmLimiter, m.Handler.Confirm)
}
