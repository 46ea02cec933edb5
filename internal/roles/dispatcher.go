package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dropDatabas3/roleviews/internal/observability/logger"
)

// AmbiguityPolicy define qué hacer cuando el usuario coincide con más de un rol.
type AmbiguityPolicy int

const (
	// AmbiguityFallback ejecuta el default (comportamiento histórico).
	AmbiguityFallback AmbiguityPolicy = iota
	// AmbiguityReject retorna el *AmbiguousRoleError al caller.
	AmbiguityReject
)

// ParseAmbiguityPolicy acepta "fallback" (o vacío) y "reject".
func ParseAmbiguityPolicy(s string) (AmbiguityPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fallback":
		return AmbiguityFallback, nil
	case "reject":
		return AmbiguityReject, nil
	}
	return AmbiguityFallback, fmt.Errorf("roles: unknown ambiguity policy %q", s)
}

func (p AmbiguityPolicy) String() string {
	if p == AmbiguityReject {
		return "reject"
	}
	return "fallback"
}

// Outcome describe por qué se eligió una implementación.
type Outcome string

const (
	OutcomeOverride     Outcome = "override"
	OutcomeDefault      Outcome = "default"
	OutcomeNoRole       Outcome = "no_role"
	OutcomeAmbiguous    Outcome = "ambiguous"
	OutcomeUnregistered Outcome = "unregistered"
)

// Decision es el resultado de una selección. Role está vacío si no se resolvió.
type Decision struct {
	Hook    string
	Role    Role
	Outcome Outcome
}

// Observer recibe cada decisión tomada (ej: métricas).
type Observer interface {
	ObserveDispatch(d Decision)
}

// Config es la configuración inmutable del dispatcher.
type Config struct {
	Hooks     HookRegistry
	Roles     RoleSet
	Ambiguity AmbiguityPolicy
}

// Option configura dependencias opcionales del dispatcher.
type Option func(*Dispatcher)

// WithLogger fija el logger base. Sin él se usa logger.From(ctx) en cada llamada.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// WithObserver registra un Observer de decisiones.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observer = o }
}

// Dispatcher selecciona implementaciones de hooks según el rol del usuario.
// Es inmutable después de New y seguro para uso concurrente.
type Dispatcher struct {
	hooks     HookRegistry
	roles     RoleSet
	ambiguity AmbiguityPolicy
	log       *zap.Logger
	observer  Observer
}

// New construye el dispatcher. Un HookRegistry vacío se reemplaza por DefaultHooks.
// Un RoleSet vacío es válido: ningún usuario resuelve rol.
func New(cfg Config, opts ...Option) (*Dispatcher, error) {
	if cfg.Hooks.Len() == 0 {
		cfg.Hooks = NewHookRegistry(DefaultHooks...)
	}
	d := &Dispatcher{
		hooks:     cfg.Hooks,
		roles:     cfg.Roles,
		ambiguity: cfg.Ambiguity,
	}
	for _, opt := range opts {
		opt(d)
	}
	if cfg.Roles.Len() == 0 {
		// Válido (store sin grupos): todo usuario queda sin rol y corre el default
		d.logger(context.Background()).Warn("role dispatch: empty role set, every hook uses its default")
	}
	return d, nil
}

// Hooks retorna el registry configurado.
func (d *Dispatcher) Hooks() HookRegistry { return d.hooks }

// Roles retorna el RoleSet configurado.
func (d *Dispatcher) Roles() RoleSet { return d.roles }

// Ambiguity retorna la política configurada.
func (d *Dispatcher) Ambiguity() AmbiguityPolicy { return d.ambiguity }

// ResolveRole obtiene los grupos del usuario y retorna el único rol coincidente.
// No cachea: cada llamada consulta al User.
func (d *Dispatcher) ResolveRole(ctx context.Context, user User) (Role, error) {
	if user == nil {
		return "", ErrNoRole
	}
	groups, err := user.Groups(ctx)
	if err != nil {
		return "", err
	}
	return resolve(d.roles, groups)
}

// Validate reporta overrides declarados para roles fuera del RoleSet; nunca se ejecutarían.
// Overrides de hooks fuera del registry son válidos pero inertes y sólo se loguean.
func (d *Dispatcher) Validate(hooks ...Describer) error {
	var errs []error
	for _, h := range hooks {
		if !d.hooks.Has(h.Name()) && len(h.OverrideRoles()) > 0 {
			d.logger(context.Background()).Info("overrides declared on unregistered hook",
				logger.Hook(h.Name()),
				logger.Count(len(h.OverrideRoles())),
			)
		}
		for _, r := range h.OverrideRoles() {
			if !d.roles.Has(r) {
				errs = append(errs, fmt.Errorf("roles: hook %s declares override for unknown role %q", h.Name(), r))
			}
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) logger(ctx context.Context) *zap.Logger {
	if d.log != nil {
		return d.log
	}
	return logger.From(ctx).Named("dispatch")
}

func (d *Dispatcher) observe(ctx context.Context, dec Decision, err error) {
	if d.observer != nil {
		d.observer.ObserveDispatch(dec)
	}
	log := d.logger(ctx)
	fields := []zap.Field{
		logger.Hook(dec.Hook),
		logger.Role(string(dec.Role)),
		logger.Outcome(string(dec.Outcome)),
	}
	switch dec.Outcome {
	case OutcomeAmbiguous:
		log.Warn("role dispatch: ambiguous role", append(fields, logger.Err(err))...)
	case OutcomeNoRole:
		log.Debug("role dispatch: no role, using default", fields...)
	default:
		log.Debug("role dispatch", fields...)
	}
}

// Select elige la implementación de h para el usuario.
//
// La función retornada es la declarada en el hook, sin envolver: el caller la invoca
// con sus propios argumentos. Errores de resolución de rol no se propagan (salvo
// AmbiguityReject); errores obteniendo los grupos sí.
func Select[F any](ctx context.Context, d *Dispatcher, h *Hook[F], user User) (F, Decision, error) {
	var zero F
	dec := Decision{Hook: h.Name()}

	if !d.hooks.Has(h.Name()) {
		dec.Outcome = OutcomeUnregistered
		return fallback(ctx, d, h, dec, nil)
	}

	role, err := d.ResolveRole(ctx, user)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoRole):
		dec.Outcome = OutcomeNoRole
		return fallback(ctx, d, h, dec, err)
	case errors.Is(err, ErrAmbiguousRole):
		dec.Outcome = OutcomeAmbiguous
		if d.ambiguity == AmbiguityReject {
			d.observe(ctx, dec, err)
			return zero, dec, err
		}
		return fallback(ctx, d, h, dec, err)
	default:
		return zero, dec, fmt.Errorf("roles: resolve role for %s: %w", h.Name(), err)
	}

	dec.Role = role
	if fn, ok := h.Override(role); ok {
		dec.Outcome = OutcomeOverride
		d.observe(ctx, dec, nil)
		return fn, dec, nil
	}
	dec.Outcome = OutcomeDefault
	return fallback(ctx, d, h, dec, nil)
}

func fallback[F any](ctx context.Context, d *Dispatcher, h *Hook[F], dec Decision, cause error) (F, Decision, error) {
	d.observe(ctx, dec, cause)
	fn, ok := h.Default()
	if !ok {
		var zero F
		return zero, dec, fmt.Errorf("%w: %s", ErrHookNotImplemented, h.Name())
	}
	return fn, dec, nil
}

// GroupLister lista todos los nombres de grupo del store de usuarios.
type GroupLister interface {
	GroupNames(ctx context.Context) ([]string, error)
}

// LoadRoleSet usa los roles configurados; si no hay, deriva el conjunto de todos los
// grupos existentes en el store (en minúsculas).
func LoadRoleSet(ctx context.Context, configured []string, lister GroupLister) (RoleSet, error) {
	if set := NewRoleSet(configured...); set.Len() > 0 {
		return set, nil
	}
	if lister == nil {
		return RoleSet{}, errors.New("roles: no role groups configured and no group store")
	}
	names, err := lister.GroupNames(ctx)
	if err != nil {
		return RoleSet{}, fmt.Errorf("roles: list groups: %w", err)
	}
	return NewRoleSet(names...), nil
}
