package roles

import "sort"

// Describer expone la forma de un hook sin importar el tipo de su función.
// Lo usa Dispatcher.Validate.
type Describer interface {
	Name() string
	OverrideRoles() []Role
	HasDefault() bool
}

// Hook es un hook nombrado con implementación default opcional y overrides por rol.
// F suele ser un tipo función; el dispatcher lo devuelve tal cual, sin envolverlo.
//
// Los overrides se declaran durante el setup con For y no deben modificarse
// una vez que el hook empieza a servir requests.
type Hook[F any] struct {
	name       string
	def        F
	hasDefault bool
	overrides  map[Role]F
}

// NewHook crea un hook con implementación default.
func NewHook[F any](name string, def F) *Hook[F] {
	return &Hook[F]{name: name, def: def, hasDefault: true, overrides: map[Role]F{}}
}

// NewAbstractHook crea un hook sin default: si no hay override aplicable,
// Select retorna ErrHookNotImplemented.
func NewAbstractHook[F any](name string) *Hook[F] {
	return &Hook[F]{name: name, overrides: map[Role]F{}}
}

// For declara la implementación del hook para un rol. Retorna el hook para encadenar.
func (h *Hook[F]) For(role string, fn F) *Hook[F] {
	h.overrides[NormalizeRole(role)] = fn
	return h
}

// Override busca la implementación declarada para el rol.
func (h *Hook[F]) Override(role Role) (F, bool) {
	fn, ok := h.overrides[NormalizeRole(string(role))]
	return fn, ok
}

// Default retorna la implementación default, si existe.
func (h *Hook[F]) Default() (F, bool) { return h.def, h.hasDefault }

func (h *Hook[F]) Name() string     { return h.name }
func (h *Hook[F]) HasDefault() bool { return h.hasDefault }

// OverrideRoles retorna los roles con override declarado, ordenados.
func (h *Hook[F]) OverrideRoles() []Role {
	out := make([]Role, 0, len(h.overrides))
	for r := range h.overrides {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
