package repository

import (
	"context"
	"time"
)

// Estados de un artículo.
const (
	ArticleDraft     = "draft"
	ArticlePublished = "published"
)

// Article es el recurso de ejemplo servido por el viewset.
type Article struct {
	ID            string
	Title         string
	Body          string
	Status        string
	AuthorID      string
	InternalNotes string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ArticleRepository define el CRUD de artículos.
type ArticleRepository interface {
	List(ctx context.Context) ([]Article, error)
	Get(ctx context.Context, id string) (*Article, error)
	// Create asigna ID y timestamps si están vacíos.
	Create(ctx context.Context, a *Article) error
	// Update reemplaza el artículo. ErrNotFound si no existe.
	Update(ctx context.Context, a *Article) error
	Delete(ctx context.Context, id string) error
}
