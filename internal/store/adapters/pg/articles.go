package pg

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/roleviews/internal/domain/repository"
)

type articleRepo struct {
	pool *pgxpool.Pool
}

const articleColumns = `id, title, body, status, author_id, internal_notes, created_at, updated_at`

func scanArticle(row pgx.Row) (*repository.Article, error) {
	var a repository.Article
	err := row.Scan(&a.ID, &a.Title, &a.Body, &a.Status, &a.AuthorID, &a.InternalNotes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *articleRepo) List(ctx context.Context) ([]repository.Article, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+articleColumns+` FROM articles ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []repository.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *articleRepo) Get(ctx context.Context, id string) (*repository.Article, error) {
	a, err := scanArticle(r.pool.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return a, err
}

func (r *articleRepo) Create(ctx context.Context, a *repository.Article) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = repository.ArticleDraft
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO articles (id, title, body, status, author_id, internal_notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		a.ID, a.Title, a.Body, a.Status, a.AuthorID, a.InternalNotes,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return mapError(err)
}

func (r *articleRepo) Update(ctx context.Context, a *repository.Article) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE articles
		SET title = $2, body = $3, status = $4, author_id = $5, internal_notes = $6, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		a.ID, a.Title, a.Body, a.Status, a.AuthorID, a.InternalNotes,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	return mapError(err)
}

func (r *articleRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
