package repository

import "context"

// Group representa un grupo de usuarios. Los nombres de grupo son la fuente de los roles.
type Group struct {
	ID   string
	Name string
}

// GroupRepository define operaciones sobre grupos y pertenencia de usuarios.
type GroupRepository interface {
	// ListGroups lista todos los grupos existentes.
	ListGroups(ctx context.Context) ([]Group, error)

	// UserGroups retorna los grupos de un usuario. Usuario desconocido => slice vacío.
	UserGroups(ctx context.Context, userID string) ([]Group, error)

	// AddMember agrega al usuario al grupo (por nombre). Crea el grupo si no existe.
	AddMember(ctx context.Context, userID, group string) error

	// RemoveMember quita al usuario del grupo. ErrNotFound si no era miembro.
	RemoveMember(ctx context.Context, userID, group string) error
}

// GroupNames extrae los nombres de una lista de grupos.
func GroupNames(groups []Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Name
	}
	return out
}
