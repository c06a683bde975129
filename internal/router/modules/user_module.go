package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/brookse/smartdoc-backend/internal/interface/http"
	"github.com/brookse/smartdoc-backend/internal/interface/middleware"
)

// UserModule wires the user CRUD endpoints:
// GET /users, GET /users/:id, POST /users, PUT /users/:id, DELETE /users/:id
type UserModule struct {
	Handler     *handlers.UserHandler
	Redis       *redis.Client
	RateLimited bool
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client, rateLimited bool) *UserModule {
	return &UserModule{Handler: h, Redis: rdb, RateLimited: rateLimited}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	if m.RateLimited {
		// Writes hit the external resolver, so they get a tighter budget
		// than reads. Private clients bypass both limits.
		readLimiter := middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
		writeLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

		users.GET("", readLimiter, m.Handler.List)
		users.GET("/:id", readLimiter, m.Handler.Get)
		users.POST("", writeLimiter, m.Handler.Create)
		users.PUT("/:id", writeLimiter, m.Handler.Update)
		users.DELETE("/:id", writeLimiter, m.Handler.Delete)
		return
	}

	users.GET("", m.Handler.List)
	users.GET("/:id", m.Handler.Get)
	users.POST("", m.Handler.Create)
	users.PUT("/:id", m.Handler.Update)
	users.DELETE("/:id", m.Handler.Delete)
}
