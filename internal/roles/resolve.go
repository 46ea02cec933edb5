package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoRole indica que ningún grupo del usuario es un rol válido.
	ErrNoRole = errors.New("roles: user is not a member of any role group")

	// ErrAmbiguousRole indica que el usuario pertenece a más de un grupo de rol.
	ErrAmbiguousRole = errors.New("roles: user is a member of multiple role groups")

	// ErrHookNotImplemented indica que no hay override aplicable ni implementación default.
	ErrHookNotImplemented = errors.New("roles: hook not implemented")
)

// AmbiguousRoleError detalla qué roles coincidieron. errors.Is(err, ErrAmbiguousRole) es true.
type AmbiguousRoleError struct {
	Matched []Role
}

func (e *AmbiguousRoleError) Error() string {
	names := make([]string, len(e.Matched))
	for i, r := range e.Matched {
		names[i] = string(r)
	}
	return fmt.Sprintf("%s: %s", ErrAmbiguousRole.Error(), strings.Join(names, ", "))
}

func (e *AmbiguousRoleError) Unwrap() error { return ErrAmbiguousRole }

// IsResolutionError indica si err es un fallo de resolución de rol (sin rol o ambiguo).
func IsResolutionError(err error) bool {
	return errors.Is(err, ErrNoRole) || errors.Is(err, ErrAmbiguousRole)
}

// User es la entidad externa de la que se obtiene la pertenencia a grupos.
type User interface {
	Groups(ctx context.Context) ([]string, error)
}

// GroupList es un User con grupos fijos.
type GroupList []string

func (g GroupList) Groups(context.Context) ([]string, error) { return g, nil }

// UserFunc adapta una función a User.
type UserFunc func(ctx context.Context) ([]string, error)

func (f UserFunc) Groups(ctx context.Context) ([]string, error) { return f(ctx) }

// resolve aplica la regla de intersección única sobre un RoleSet.
func resolve(set RoleSet, groups []string) (Role, error) {
	matched := set.Intersect(groups)
	switch len(matched) {
	case 0:
		return "", ErrNoRole
	case 1:
		return matched[0], nil
	default:
		return "", &AmbiguousRoleError{Matched: matched}
	}
}
