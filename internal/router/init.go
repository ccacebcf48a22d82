package router

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rimsapp/rims-activation/config"
	"github.com/rimsapp/rims-activation/internal/application"
	"github.com/rimsapp/rims-activation/internal/infrastructure/mailqueue"
	pginfra "github.com/rimsapp/rims-activation/internal/infrastructure/postgres"
	handlers "github.com/rimsapp/rims-activation/internal/interface/http"
	"github.com/rimsapp/rims-activation/internal/router/modules"
	"github.com/rimsapp/rims-activation/pkg/activation"
	"github.com/rimsapp/rims-activation/pkg/queue"
	"github.com/rimsapp/rims-activation/pkg/session"
)

// Deps are the process-scoped handles built once at startup and passed in
// explicitly; modules never reach for shared globals.
type Deps struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	Pool   *pgxpool.Pool
	Redis  *redis.Client
	Pub    *queue.RabbitPublisher
}

// InitModules wires every application module and registers it with the
// router registry. Called once during startup.
func InitModules(r *Registry, d Deps) {
	users := pginfra.NewUserRepository(d.Pool)
	logs := pginfra.NewActivationLogRepository(d.Pool)

	auditor := application.NewAuditor(logs, d.Logger)
	tokens := activation.NewGenerator(d.Cfg.ActivationTokenTTL)
	dispatcher := mailqueue.NewDispatcher(d.Pub, d.Cfg.ActivateURL, d.Cfg.MailSendEnabled, d.Logger)

	activationSvc := application.NewActivationService(users, tokens, dispatcher, auditor, d.Logger, d.Cfg.DispatchTimeout)
	sessions := session.NewManager(d.Cfg.SessionSecret, d.Cfg.SessionTTL, d.Redis)
	authSvc := application.NewAuthService(users, sessions, d.Logger)

	activationHandler := handlers.NewActivationHandler(activationSvc, d.Logger)
	sessionHandler := handlers.NewSessionHandler(authSvc, sessions, d.Logger, d.Cfg.CookieDomain, d.Cfg.CookieSecure)

	r.Add(modules.NewActivationModule(activationHandler, d.Redis))
	r.Add(modules.NewSessionModule(sessionHandler, sessions, d.Redis))
}
