package roles

import (
	"sort"
	"strings"
)

// Role es una etiqueta de rol normalizada (minúsculas, sin espacios alrededor).
type Role string

// NormalizeRole convierte un nombre de grupo en Role.
func NormalizeRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

func (r Role) String() string { return string(r) }

// RoleSet es el conjunto de roles válidos. Inmutable una vez construido.
type RoleSet struct {
	set map[Role]struct{}
}

// NewRoleSet construye un RoleSet normalizando cada label. Los vacíos se descartan.
func NewRoleSet(labels ...string) RoleSet {
	set := make(map[Role]struct{}, len(labels))
	for _, l := range labels {
		r := NormalizeRole(l)
		if r == "" {
			continue
		}
		set[r] = struct{}{}
	}
	return RoleSet{set: set}
}

// Has indica si el rol pertenece al conjunto.
func (s RoleSet) Has(r Role) bool {
	_, ok := s.set[NormalizeRole(string(r))]
	return ok
}

// Len retorna la cantidad de roles.
func (s RoleSet) Len() int { return len(s.set) }

// Slice retorna los roles ordenados.
func (s RoleSet) Slice() []Role {
	out := make([]Role, 0, len(s.set))
	for r := range s.set {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Intersect retorna, ordenados y sin duplicados, los grupos que son roles válidos.
func (s RoleSet) Intersect(groups []string) []Role {
	seen := make(map[Role]struct{}, len(groups))
	out := make([]Role, 0, 1)
	for _, g := range groups {
		r := NormalizeRole(g)
		if _, ok := s.set[r]; !ok {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
