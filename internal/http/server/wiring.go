package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dropDatabas3/roleviews/internal/app"
	"github.com/dropDatabas3/roleviews/internal/cache"
	"github.com/dropDatabas3/roleviews/internal/config"
	"github.com/dropDatabas3/roleviews/internal/domain/repository"
	jwtx "github.com/dropDatabas3/roleviews/internal/jwt"
	"github.com/dropDatabas3/roleviews/internal/metrics"
	"github.com/dropDatabas3/roleviews/internal/observability/logger"
	"github.com/dropDatabas3/roleviews/internal/rate"
	"github.com/dropDatabas3/roleviews/internal/roles"
	"github.com/dropDatabas3/roleviews/internal/store"

	// Adapters de storage (se registran en init)
	_ "github.com/dropDatabas3/roleviews/internal/store/adapters/memory"
	_ "github.com/dropDatabas3/roleviews/internal/store/adapters/pg"
)

// devJWTSecret se usa sólo fuera de prod cuando no hay jwt.secret.
const devJWTSecret = "roleviews-dev-secret"

// Runtime agrupa las dependencias construidas a partir de la config.
type Runtime struct {
	Config     *config.Config
	Conn       store.AdapterConnection
	Cache      cache.Client // nil si cache.kind=none
	Groups     repository.GroupRepository
	Dispatcher *roles.Dispatcher
	Issuer     *jwtx.Issuer
	Metrics    *metrics.Metrics
	Limiter    rate.Limiter // nil si rate.enabled=false
}

// Build abre el storage, arma el repositorio de grupos (breaker + cache) y el dispatcher.
// Llamar Close al terminar.
func Build(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*Runtime, error) {
	log := logger.With(logger.Component("wiring"))
	rt := &Runtime{Config: cfg}

	// 1. Storage
	conn, err := store.OpenAdapter(ctx, store.AdapterConfig{
		Name:         cfg.Storage.Driver,
		DSN:          cfg.Storage.DSN,
		Fixtures:     cfg.Storage.Fixtures,
		MaxOpenConns: cfg.Storage.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Storage.Postgres.MaxIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	rt.Conn = conn

	// 2. Groups: breaker para storage remoto, cache por encima
	groups := conn.Groups()
	if cfg.Storage.Driver == "postgres" {
		groups = store.NewBreakerGroups(groups, store.BreakerConfig{
			Name:        "groups",
			MaxFailures: cfg.Storage.Breaker.MaxFailures,
			OpenTimeout: cfg.BreakerTimeout(),
		})
	}
	if cfg.Cache.Kind != "none" {
		c, err := cache.New(cache.Config{
			Driver:     cfg.Cache.Kind,
			Addr:       cfg.Cache.Redis.Addr,
			DB:         cfg.Cache.Redis.DB,
			Prefix:     cfg.Cache.Redis.Prefix,
			DefaultTTL: cfg.CacheTTL(),
		})
		if err != nil {
			_ = rt.Close()
			return nil, fmt.Errorf("cache: %w", err)
		}
		rt.Cache = c
		groups = store.NewCachedGroups(groups, c, cfg.CacheTTL())
	}
	rt.Groups = groups

	// 3. Metrics
	if reg != nil {
		m, err := metrics.New(reg)
		if err != nil {
			_ = rt.Close()
			return nil, fmt.Errorf("metrics: %w", err)
		}
		rt.Metrics = m
	}

	// 4. Dispatcher
	set, err := roles.LoadRoleSet(ctx, cfg.Roles.RoleGroups, store.GroupLister(groups))
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	opts := []roles.Option{}
	if rt.Metrics != nil {
		opts = append(opts, roles.WithObserver(rt.Metrics))
	}
	d, err := roles.New(roles.Config{
		Hooks:     roles.NewHookRegistry(cfg.Roles.MethodRegistry...),
		Roles:     set,
		Ambiguity: cfg.AmbiguityPolicy(),
	}, opts...)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.Dispatcher = d

	// 5. JWT
	secret := cfg.JWT.Secret
	if secret == "" {
		log.Warn("jwt.secret not set, using development secret")
		secret = devJWTSecret
	}
	rt.Issuer = jwtx.NewIssuer(cfg.JWT.Issuer, []byte(secret))
	rt.Issuer.AccessTTL = cfg.AccessTTL()

	// 6. Rate limiting
	if cfg.Rate.Enabled {
		// Con cache Redis el límite se comparte entre réplicas usando la misma conexión
		if client := cache.RedisOf(rt.Cache); client != nil {
			rt.Limiter = rate.NewRedisLimiter(client, cfg.Cache.Redis.Prefix+"rl:", cfg.Rate.Max, cfg.RateWindow())
		} else {
			rt.Limiter = rate.NewMemoryLimiter(cfg.Rate.Max, cfg.RateWindow())
		}
	}

	log.Info("runtime ready",
		logger.String("storage", conn.Name()),
		logger.String("cache", cfg.Cache.Kind),
		logger.Int("roles", set.Len()),
		logger.Int("hooks", d.Hooks().Len()),
		logger.String("ambiguity", d.Ambiguity().String()),
		logger.Bool("rate_limit", rt.Limiter != nil),
	)
	return rt, nil
}

// Handler arma la app HTTP sobre el runtime.
func (rt *Runtime) Handler() (http.Handler, error) {
	a, err := app.New(app.Deps{
		Groups:      rt.Groups,
		Articles:    rt.Conn.Articles(),
		Dispatcher:  rt.Dispatcher,
		Issuer:      rt.Issuer,
		Metrics:     rt.Metrics,
		RateLimiter: rt.Limiter,
		Health:      rt.Ping,
	})
	if err != nil {
		return nil, err
	}
	return a.Handler, nil
}

// Ping verifica storage y cache.
func (rt *Runtime) Ping(ctx context.Context) error {
	if err := rt.Conn.Ping(ctx); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if rt.Cache != nil {
		if err := rt.Cache.Ping(ctx); err != nil {
			return fmt.Errorf("cache: %w", err)
		}
	}
	return nil
}

// Close libera cache y storage.
func (rt *Runtime) Close() error {
	var errs []error
	if rt.Cache != nil {
		errs = append(errs, rt.Cache.Close())
	}
	if rt.Conn != nil {
		errs = append(errs, rt.Conn.Close())
	}
	return errors.Join(errs...)
}
