package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/roleviews/internal/observability/logger"
	"github.com/dropDatabas3/roleviews/internal/roles"
)

type Config struct {
	App struct {
		// dev | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	// Roles configura el dispatch por rol. Se lee una vez al construir el dispatcher.
	Roles struct {
		// RoleGroups (ROLE_GROUPS). Vacío => todos los grupos del store, en minúsculas.
		RoleGroups []string `yaml:"role_groups"`
		// MethodRegistry (VIEWSET_METHOD_REGISTRY). Vacío => roles.DefaultHooks.
		MethodRegistry []string `yaml:"viewset_method_registry"`
		// Ambiguous: fallback | reject
		Ambiguous string `yaml:"ambiguous"`
	} `yaml:"roles"`

	Storage struct {
		Driver   string `yaml:"driver"` // memory | postgres
		DSN      string `yaml:"dsn"`
		Fixtures string `yaml:"fixtures"` // YAML con grupos/usuarios/artículos para el driver memory
		Postgres struct {
			MaxOpenConns int `yaml:"max_open_conns"`
			MaxIdleConns int `yaml:"max_idle_conns"`
		} `yaml:"postgres"`
		Breaker struct {
			MaxFailures uint32 `yaml:"max_failures"`
			OpenTimeout string `yaml:"open_timeout"`
		} `yaml:"breaker"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis | none
		TTL   string `yaml:"ttl"`
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	// Rate limiting por usuario (o IP si es anónimo). Usa Redis si cache.kind=redis.
	Rate struct {
		Enabled bool   `yaml:"enabled"`
		Max     int    `yaml:"max"`
		Window  string `yaml:"window"`
	} `yaml:"rate"`

	JWT struct {
		Issuer    string `yaml:"issuer"`
		Secret    string `yaml:"secret"`
		AccessTTL string `yaml:"access_ttl"`
	} `yaml:"jwt"`
}

// Load lee el YAML (si path no es vacío), aplica defaults y overrides por env.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	c.applyEnvOverrides()
	c.applyDefaults()

	// Fixtures relativos al directorio del YAML
	if p := strings.TrimSpace(c.Storage.Fixtures); p != "" && path != "" && !filepath.IsAbs(p) {
		c.Storage.Fixtures = filepath.Clean(filepath.Join(filepath.Dir(path), p))
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Storage.Breaker.MaxFailures == 0 {
		c.Storage.Breaker.MaxFailures = 5
	}
	if c.Storage.Breaker.OpenTimeout == "" {
		c.Storage.Breaker.OpenTimeout = "30s"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = "30s"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "roleviews:"
	}
	if c.Rate.Max == 0 {
		c.Rate.Max = 120
	}
	if c.Rate.Window == "" {
		c.Rate.Window = "1m"
	}
	if c.JWT.AccessTTL == "" {
		c.JWT.AccessTTL = "15m"
	}
	if len(c.Roles.MethodRegistry) == 0 {
		c.Roles.MethodRegistry = append([]string(nil), roles.DefaultHooks...)
	}
}

// Validate verifica combinaciones inválidas.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case "memory":
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			errs = append(errs, errors.New("config: storage.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown storage.driver %q", c.Storage.Driver))
	}

	switch c.Cache.Kind {
	case "memory", "none":
	case "redis":
		if strings.TrimSpace(c.Cache.Redis.Addr) == "" {
			errs = append(errs, errors.New("config: cache.redis.addr is required for redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown cache.kind %q", c.Cache.Kind))
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("config: log.level: %w", err))
	}

	if _, err := roles.ParseAmbiguityPolicy(c.Roles.Ambiguous); err != nil {
		errs = append(errs, fmt.Errorf("config: roles.ambiguous: %w", err))
	}

	for name, v := range map[string]string{
		"cache.ttl":                    c.Cache.TTL,
		"jwt.access_ttl":               c.JWT.AccessTTL,
		"storage.breaker.open_timeout": c.Storage.Breaker.OpenTimeout,
		"rate.window":                  c.Rate.Window,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", name, err))
		}
	}

	if c.Rate.Enabled && (c.Rate.Max <= 0 || c.RateWindow() <= 0) {
		errs = append(errs, errors.New("config: rate.max and rate.window must be positive"))
	}

	if strings.EqualFold(c.App.Env, "prod") && strings.TrimSpace(c.JWT.Secret) == "" {
		errs = append(errs, errors.New("config: jwt.secret is required in prod"))
	}

	return errors.Join(errs...)
}

// CacheTTL retorna cache.ttl ya parseado (validado en Load).
func (c *Config) CacheTTL() time.Duration {
	d, _ := time.ParseDuration(c.Cache.TTL)
	return d
}

// AccessTTL retorna jwt.access_ttl ya parseado.
func (c *Config) AccessTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.AccessTTL)
	return d
}

// BreakerTimeout retorna storage.breaker.open_timeout ya parseado.
func (c *Config) BreakerTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Storage.Breaker.OpenTimeout)
	return d
}

// RateWindow retorna rate.window ya parseado.
func (c *Config) RateWindow() time.Duration {
	d, _ := time.ParseDuration(c.Rate.Window)
	return d
}

// AmbiguityPolicy retorna roles.ambiguous ya parseado.
func (c *Config) AmbiguityPolicy() roles.AmbiguityPolicy {
	p, _ := roles.ParseAmbiguityPolicy(c.Roles.Ambiguous)
	return p
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}

	// ROLES (mismos nombres que los settings históricos)
	if v, ok := getEnvCSV("ROLE_GROUPS"); ok {
		c.Roles.RoleGroups = v
	}
	if v, ok := getEnvCSV("VIEWSET_METHOD_REGISTRY"); ok {
		c.Roles.MethodRegistry = v
	}
	if v, ok := getEnvStr("ROLES_AMBIGUOUS"); ok {
		c.Roles.Ambiguous = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvStr("STORAGE_FIXTURES"); ok {
		c.Storage.Fixtures = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_OPEN_CONNS"); ok {
		c.Storage.Postgres.MaxOpenConns = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_IDLE_CONNS"); ok {
		c.Storage.Postgres.MaxIdleConns = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("CACHE_TTL"); ok {
		c.Cache.TTL = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvInt("RATE_MAX"); ok {
		c.Rate.Max = v
	}
	if v, ok := getEnvStr("RATE_WINDOW"); ok {
		c.Rate.Window = v
	}

	// JWT
	if v, ok := getEnvStr("JWT_ISSUER"); ok {
		c.JWT.Issuer = v
	}
	if v, ok := getEnvStr("JWT_SECRET"); ok {
		c.JWT.Secret = v
	}
	if v, ok := getEnvStr("JWT_ACCESS_TTL"); ok {
		c.JWT.AccessTTL = v
	}
}
