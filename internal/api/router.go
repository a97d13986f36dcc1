package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hugh/workops/internal/access"
	"github.com/hugh/workops/internal/activity"
	"github.com/hugh/workops/internal/api/handlers"
	"github.com/hugh/workops/internal/api/middleware"
	"github.com/hugh/workops/internal/auth"
	"github.com/hugh/workops/internal/database/models"
	"github.com/hugh/workops/internal/orgs"
	"github.com/hugh/workops/internal/resources"
	"github.com/hugh/workops/pkg/crypto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client // optional, only used by /health
	Logger         *slog.Logger
	Tokens         auth.TokenService
	AuthService    auth.Authenticator
	Encryptor      *crypto.Encryptor
	Recorder       activity.Recorder
	AllowedOrigins []string
	RateLimitReqs  int // per client IP per window, 0 disables
	RateLimitSecs  int
	AuthLimitReqs  int // per client IP per window on /auth, 0 disables
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Metrics)

	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Auth-Token", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	recorder := cfg.Recorder
	if recorder == nil {
		recorder = activity.NewDBRecorder(cfg.DB, cfg.Logger)
	}

	// Services
	accessService := access.NewService(cfg.DB)
	orgService := orgs.NewService(cfg.DB, recorder, cfg.Logger)
	clientService := resources.NewClientService(cfg.DB, cfg.Encryptor, recorder, cfg.Logger)
	projectService := resources.NewProjectService(cfg.DB, recorder, cfg.Logger)
	taskService := resources.NewTaskService(cfg.DB, recorder, cfg.Logger)

	// Handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService, cfg.Logger)
	orgHandler := handlers.NewOrgHandler(orgService, cfg.Logger)
	clientHandler := handlers.NewClientHandler(clientService, cfg.Logger)
	projectHandler := handlers.NewProjectHandler(projectService, cfg.Logger)
	taskHandler := handlers.NewTaskHandler(taskService, cfg.Logger)
	activityHandler := handlers.NewActivityHandler(cfg.DB, cfg.Logger)

	// Org-scope gates. Membership is always checked before role.
	member := middleware.OrgMember(accessService, cfg.Logger)
	manager := middleware.RequireOrgRole(accessService, access.AtLeast(models.RoleManager), cfg.Logger)
	admin := middleware.RequireOrgRole(accessService, access.AtLeast(models.RoleAdmin), cfg.Logger)
	auditor := middleware.RequireOrgRole(accessService, access.OneOf(models.RoleAdmin), cfg.Logger)

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.AuthLimitReqs > 0 {
				r.Use(middleware.RateLimit(cfg.AuthLimitReqs, cfg.RateLimitSecs))
			}
			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/login", authHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Tokens))

			r.Get("/me", authHandler.Me)

			r.Get("/orgs", orgHandler.List)
			r.Post("/orgs", orgHandler.Create)

			r.Route("/orgs/{orgId}", func(r chi.Router) {
				r.With(member).Get("/", orgHandler.Get)
				r.With(admin).Patch("/", orgHandler.Rename)

				r.Route("/members", func(r chi.Router) {
					r.With(manager).Get("/", orgHandler.ListMembers)
					r.With(admin).Post("/", orgHandler.AddMember)
					r.With(admin).Patch("/{userId}", orgHandler.UpdateMemberRole)
					r.With(admin).Delete("/{userId}", orgHandler.RemoveMember)
				})

				r.Route("/clients", func(r chi.Router) {
					r.With(member).Get("/", clientHandler.List)
					r.With(manager).Post("/", clientHandler.Create)
					r.With(member).Get("/{id}", clientHandler.Get)
					r.With(manager).Put("/{id}", clientHandler.Update)
					r.With(manager).Delete("/{id}", clientHandler.Delete)
				})

				r.Route("/projects", func(r chi.Router) {
					r.With(member).Get("/", projectHandler.List)
					r.With(manager).Post("/", projectHandler.Create)
					r.With(member).Get("/{projectId}", projectHandler.Get)
					r.With(manager).Put("/{projectId}", projectHandler.Update)
					r.With(manager).Delete("/{projectId}", projectHandler.Delete)

					r.Route("/{projectId}/tasks", func(r chi.Router) {
						r.With(member).Get("/", taskHandler.List)
						r.With(manager).Post("/", taskHandler.Create)
						r.With(member).Get("/{id}", taskHandler.Get)
						r.With(manager).Put("/{id}", taskHandler.Update)
						r.With(manager).Delete("/{id}", taskHandler.Delete)
					})
				})

				r.With(auditor).Get("/activity", activityHandler.List)
			})
		})
	})

	return &Router{r}
}
