package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/roleviews/internal/domain/repository"
)

type articleRepo struct {
	mu   sync.RWMutex
	byID map[string]repository.Article
}

func newArticleRepo() *articleRepo {
	return &articleRepo{byID: make(map[string]repository.Article)}
}

func (r *articleRepo) List(ctx context.Context) ([]repository.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]repository.Article, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *articleRepo) Get(ctx context.Context, id string) (*repository.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *articleRepo) Create(ctx context.Context, a *repository.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if _, exists := r.byID[a.ID]; exists {
		return repository.ErrConflict
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	r.byID[a.ID] = *a
	return nil
}

func (r *articleRepo) Update(ctx context.Context, a *repository.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.byID[a.ID]
	if !ok {
		return repository.ErrNotFound
	}
	a.CreatedAt = prev.CreatedAt
	a.UpdatedAt = time.Now().UTC()
	r.byID[a.ID] = *a
	return nil
}

func (r *articleRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
