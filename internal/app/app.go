// Package app arma el handler HTTP a partir de dependencias ya construidas.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/roleviews/internal/app/articles"
	"github.com/dropDatabas3/roleviews/internal/domain/repository"
	httperrors "github.com/dropDatabas3/roleviews/internal/http/errors"
	mw "github.com/dropDatabas3/roleviews/internal/http/middlewares"
	"github.com/dropDatabas3/roleviews/internal/http/viewset"
	jwtx "github.com/dropDatabas3/roleviews/internal/jwt"
	"github.com/dropDatabas3/roleviews/internal/metrics"
	"github.com/dropDatabas3/roleviews/internal/observability/logger"
	"github.com/dropDatabas3/roleviews/internal/rate"
	"github.com/dropDatabas3/roleviews/internal/roles"
	"github.com/dropDatabas3/roleviews/internal/store"
)

// Deps son las dependencias del handler.
type Deps struct {
	Groups     repository.GroupRepository
	Articles   repository.ArticleRepository
	Dispatcher *roles.Dispatcher
	Issuer     *jwtx.Issuer

	// Metrics es opcional: sin él no se expone /metrics.
	Metrics *metrics.Metrics

	// RateLimiter es opcional.
	RateLimiter rate.Limiter

	// Health verifica las dependencias externas. Opcional.
	Health func(ctx context.Context) error
}

// App es la aplicación ya cableada.
type App struct {
	Handler http.Handler
}

// New cablea router, middlewares y recursos.
func New(deps Deps) (*App, error) {
	if deps.Groups == nil || deps.Articles == nil || deps.Dispatcher == nil || deps.Issuer == nil {
		return nil, errors.New("app: missing dependencies")
	}

	// 1. Resources
	articlesVS, err := viewset.New(viewset.Config[repository.Article]{
		Name:       "articles",
		Dispatcher: deps.Dispatcher,
		Hooks:      articles.NewService(deps.Articles).Hooks(),
		ID:         func(a repository.Article) string { return a.ID },
		UserFor: func(r *http.Request) (string, roles.User) {
			id := mw.GetUserID(r.Context())
			return id, store.UserFor(deps.Groups, id)
		},
	})
	if err != nil {
		return nil, err
	}

	// 2. Router
	r := chi.NewRouter()
	r.Use(mw.Funcs(mw.WithRecover(), mw.WithRequestID())...)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(mw.Funcs(
		mw.OptionalAuth(deps.Issuer),
		mw.WithLogging(),
		mw.WithRateLimit(mw.RateLimitConfig{
			Limiter:   deps.RateLimiter,
			Whitelist: []string{"/healthz", "/metrics"},
		}),
	)...)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httperrors.WriteError(w, r, httperrors.ErrNotFound)
	})
	r.Get("/healthz", healthHandler(deps.Health))
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}
	r.Mount("/articles", articlesVS.Routes())

	return &App{Handler: r}, nil
}

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, status := healthResponse{Status: "ok"}, http.StatusOK
		if check != nil {
			if err := check(r.Context()); err != nil {
				logger.From(r.Context()).Warn("health check failed", logger.Err(err))
				resp, status = healthResponse{Status: "unavailable", Error: err.Error()}, http.StatusServiceUnavailable
			}
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
