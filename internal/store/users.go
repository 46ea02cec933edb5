package store

import (
	"context"

	"github.com/dropDatabas3/roleviews/internal/domain/repository"
	"github.com/dropDatabas3/roleviews/internal/roles"
)

// UserFor retorna un roles.User cuyos grupos se consultan en repo en cada llamada.
// userID vacío => usuario anónimo sin grupos.
func UserFor(repo repository.GroupRepository, userID string) roles.User {
	return roles.UserFunc(func(ctx context.Context) ([]string, error) {
		if userID == "" {
			return nil, nil
		}
		groups, err := repo.UserGroups(ctx, userID)
		if err != nil {
			return nil, err
		}
		return repository.GroupNames(groups), nil
	})
}

// GroupLister adapta un GroupRepository a roles.GroupLister.
func GroupLister(repo repository.GroupRepository) roles.GroupLister {
	return groupLister{repo: repo}
}

type groupLister struct{ repo repository.GroupRepository }

func (l groupLister) GroupNames(ctx context.Context) ([]string, error) {
	groups, err := l.repo.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	return repository.GroupNames(groups), nil
}
