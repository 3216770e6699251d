package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/user"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries deployment settings for the router.
type RouterOptions struct {
	AllowedOrigins []string
}

func NewRouter(logger *slog.Logger, JWTService jwt.Service, kpiHandler KpiHandler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/kpi", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionKPIView)).
					Get("/{kind}/{year}/{month}", kpiHandler.Get)
				r.With(middleware.RequirePermission(user.PermissionKPIRecalculate)).
					Post("/recalc", kpiHandler.Recalculate)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
