package roles

import (
	"sort"
	"strings"
)

// Nombres de los hooks estándar del ciclo de vida de un viewset.
const (
	HookGetQueryset        = "get_queryset"
	HookGetSerializerClass = "get_serializer_class"
	HookPerformCreate      = "perform_create"
	HookPerformUpdate      = "perform_update"
	HookPerformDestroy     = "perform_destroy"
)

// DefaultHooks es el registry usado cuando la configuración no define uno.
var DefaultHooks = []string{
	HookGetQueryset,
	HookGetSerializerClass,
	HookPerformCreate,
	HookPerformUpdate,
	HookPerformDestroy,
}

// HookRegistry es el conjunto de hooks que admiten override por rol.
type HookRegistry struct {
	names map[string]struct{}
}

// NewHookRegistry construye el registry. Sin nombres, usa DefaultHooks.
func NewHookRegistry(names ...string) HookRegistry {
	if len(names) == 0 {
		names = DefaultHooks
	}
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		m[n] = struct{}{}
	}
	return HookRegistry{names: m}
}

// Has indica si el hook está registrado.
func (h HookRegistry) Has(name string) bool {
	_, ok := h.names[name]
	return ok
}

// Names retorna los hooks registrados, ordenados.
func (h HookRegistry) Names() []string {
	out := make([]string, 0, len(h.names))
	for n := range h.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Len retorna la cantidad de hooks registrados.
func (h HookRegistry) Len() int { return len(h.names) }
