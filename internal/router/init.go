package router

import (
	userapp "user-management-api/internal/application"
	"user-management-api/internal/container"
	pginfra "user-management-api/internal/infrastructure/postgres"
	handlers "user-management-api/internal/interface/http"
	"user-management-api/internal/router/modules"
)

// InitModules builds every application module from the container singletons
// and registers it with the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	repo := pginfra.NewUserRepository(container.GetDB())
	svc := userapp.NewService(repo, container.GetLogger(), container.GetES(), cfg.ESUsersIndex)
	auth := userapp.NewAuthService(repo, container.GetJWT(), container.GetRedis(), container.GetLogger())

	userHandler := handlers.NewUserHandler(svc, container.GetLogger())
	authHandler := handlers.NewAuthHandler(auth, svc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)

	r.Add(modules.NewUserModule(userHandler, auth))
	r.Add(modules.NewAuthModule(authHandler))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
