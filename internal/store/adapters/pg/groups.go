package pg

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/roleviews/internal/domain/repository"
)

type groupRepo struct {
	pool *pgxpool.Pool
}

func (r *groupRepo) ListGroups(ctx context.Context) ([]repository.Group, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, name FROM groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.Group
	for rows.Next() {
		var g repository.Group
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *groupRepo) UserGroups(ctx context.Context, userID string) ([]repository.Group, error) {
	const q = `
		SELECT g.id::text, g.name
		FROM user_groups ug
		JOIN groups g ON g.id = ug.group_id
		WHERE ug.user_id = $1
		ORDER BY g.name`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []repository.Group{}
	for rows.Next() {
		var g repository.Group
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *groupRepo) AddMember(ctx context.Context, userID, group string) error {
	group = strings.TrimSpace(group)
	if strings.TrimSpace(userID) == "" || group == "" {
		return repository.ErrInvalidInput
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Upsert del grupo por nombre case-insensitive
	var groupID string
	err = tx.QueryRow(ctx, `
		INSERT INTO groups (name) VALUES ($1)
		ON CONFLICT ((lower(name))) DO UPDATE SET name = groups.name
		RETURNING id::text`, group).Scan(&groupID)
	if err != nil {
		return mapError(err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_groups (user_id, group_id) VALUES ($1, $2::uuid)
		ON CONFLICT DO NOTHING`, userID, groupID)
	if err != nil {
		return mapError(err)
	}
	return tx.Commit(ctx)
}

func (r *groupRepo) RemoveMember(ctx context.Context, userID, group string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM user_groups ug
		USING groups g
		WHERE g.id = ug.group_id AND ug.user_id = $1 AND lower(g.name) = lower($2)`,
		userID, strings.TrimSpace(group))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
