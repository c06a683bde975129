package router

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/brookse/smartdoc-backend/config"
	userapp "github.com/brookse/smartdoc-backend/internal/application"
	handlers "github.com/brookse/smartdoc-backend/internal/interface/http"
	"github.com/brookse/smartdoc-backend/internal/router/modules"
)

// Deps carries the process-wide components constructed in main. There is no
// ambient registry: everything a module needs is handed to it here.
type Deps struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Service *userapp.Service
	Redis   *redis.Client
}

// InitModules wires all feature modules into the registry.
func InitModules(r *Registry, deps Deps) {
	handler := handlers.NewUserHandler(deps.Service, deps.Logger)
	r.Add(modules.NewUserModule(handler, deps.Redis, deps.Config.RateLimitEnabled))
	if deps.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(deps.Redis))
	}
}
