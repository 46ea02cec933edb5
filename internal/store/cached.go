package store

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/roleviews/internal/cache"
	"github.com/dropDatabas3/roleviews/internal/domain/repository"
	"github.com/dropDatabas3/roleviews/internal/observability/logger"
)

// CachedGroups cachea UserGroups por usuario. Thread-safe; usa singleflight para
// que misses concurrentes del mismo usuario hagan una sola consulta.
// Las escrituras de membresía invalidan la entrada del usuario.
type CachedGroups struct {
	next  repository.GroupRepository
	cache cache.Client
	ttl   time.Duration
	sf    singleflight.Group
}

// NewCachedGroups envuelve next. Si c es nil retorna next sin cambios.
func NewCachedGroups(next repository.GroupRepository, c cache.Client, ttl time.Duration) repository.GroupRepository {
	if c == nil {
		return next
	}
	return &CachedGroups{next: next, cache: c, ttl: ttl}
}

// sharedLookupTimeout acota la consulta compartida por singleflight.
const sharedLookupTimeout = 10 * time.Second

func userGroupsKey(userID string) string { return "user_groups:" + userID }

func (r *CachedGroups) ListGroups(ctx context.Context) ([]repository.Group, error) {
	return r.next.ListGroups(ctx)
}

func (r *CachedGroups) UserGroups(ctx context.Context, userID string) ([]repository.Group, error) {
	key := userGroupsKey(userID)
	if b, err := r.cache.Get(ctx, key); err == nil {
		var groups []repository.Group
		if err := json.Unmarshal(b, &groups); err == nil {
			return groups, nil
		}
	} else if !cache.IsNotFound(err) {
		// Cache caído: degradar a consulta directa
		logger.From(ctx).Warn("group cache get failed", logger.UserID(userID), logger.Err(err))
	}

	v, err, _ := r.sf.Do(key, func() (any, error) {
		// La consulta es compartida: no depende de la cancelación del primer caller
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLookupTimeout)
		defer cancel()
		groups, err := r.next.UserGroups(ctx, userID)
		if err != nil {
			return nil, err
		}
		if b, err := json.Marshal(groups); err == nil {
			if err := r.cache.Set(ctx, key, b, r.ttl); err != nil {
				logger.From(ctx).Warn("group cache set failed", logger.UserID(userID), logger.Err(err))
			}
		}
		return groups, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]repository.Group), nil
}

func (r *CachedGroups) AddMember(ctx context.Context, userID, group string) error {
	if err := r.next.AddMember(ctx, userID, group); err != nil {
		return err
	}
	return r.cache.Delete(ctx, userGroupsKey(userID))
}

func (r *CachedGroups) RemoveMember(ctx context.Context, userID, group string) error {
	if err := r.next.RemoveMember(ctx, userID, group); err != nil {
		return err
	}
	return r.cache.Delete(ctx, userGroupsKey(userID))
}
