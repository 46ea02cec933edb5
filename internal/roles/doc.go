// Package roles enruta hooks de un handler hacia implementaciones específicas por rol.
//
// Un Hook tiene un nombre (ej: "get_queryset"), una implementación default y una tabla
// explícita rol → implementación. El Dispatcher resuelve el rol del usuario actual
// (intersección de sus grupos con el RoleSet) y elige la implementación a ejecutar.
//
// # Reglas de selección
//
//   - Hook fuera del HookRegistry: siempre default, sin resolver rol.
//   - Ningún grupo coincide (ErrNoRole): default.
//   - Más de un grupo coincide (ErrAmbiguousRole): default, salvo AmbiguityReject.
//   - Rol resuelto con override declarado: override.
//   - Rol resuelto sin override: default.
//   - Sin default al momento del fallback: ErrHookNotImplemented.
//
// # Usage
//
//	d, err := roles.New(roles.Config{
//	    Hooks: roles.NewHookRegistry(roles.DefaultHooks...),
//	    Roles: roles.NewRoleSet("admin", "viewer"),
//	})
//
//	queryset := roles.NewHook("get_queryset", listPublished).
//	    For("admin", listAll)
//
//	fn, _, err := roles.Select(ctx, d, queryset, user)
//	if err != nil {
//	    return err
//	}
//	items, err := fn(ctx, req)
package roles
