package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dropDatabas3/roleviews/internal/domain/repository"
)

type groupRepo struct {
	mu      sync.RWMutex
	byName  map[string]repository.Group    // key: nombre en minúsculas
	members map[string]map[string]struct{} // userID -> set de nombres (minúsculas)
}

func newGroupRepo() *groupRepo {
	return &groupRepo{
		byName:  make(map[string]repository.Group),
		members: make(map[string]map[string]struct{}),
	}
}

func groupKey(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

// ensure crea el grupo si no existe. Requiere no tener el lock tomado.
func (r *groupRepo) ensure(name string) repository.Group {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureLocked(name)
}

func (r *groupRepo) ensureLocked(name string) repository.Group {
	k := groupKey(name)
	if g, ok := r.byName[k]; ok {
		return g
	}
	g := repository.Group{ID: uuid.NewString(), Name: strings.TrimSpace(name)}
	r.byName[k] = g
	return g
}

func (r *groupRepo) ListGroups(ctx context.Context) ([]repository.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]repository.Group, 0, len(r.byName))
	for _, g := range r.byName {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *groupRepo) UserGroups(ctx context.Context, userID string) ([]repository.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.members[userID]
	out := make([]repository.Group, 0, len(set))
	for k := range set {
		out = append(out, r.byName[k])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *groupRepo) AddMember(ctx context.Context, userID, group string) error {
	if strings.TrimSpace(userID) == "" || groupKey(group) == "" {
		return repository.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLocked(group)
	set, ok := r.members[userID]
	if !ok {
		set = make(map[string]struct{})
		r.members[userID] = set
	}
	set[groupKey(group)] = struct{}{}
	return nil
}

func (r *groupRepo) RemoveMember(ctx context.Context, userID, group string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.members[userID]
	k := groupKey(group)
	if _, ok := set[k]; !ok {
		return repository.ErrNotFound
	}
	delete(set, k)
	return nil
}
