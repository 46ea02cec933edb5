package articles

import (
	"time"

	"github.com/dropDatabas3/roleviews/internal/domain/repository"
)

// ArticleResponse es la representación pública de un artículo.
type ArticleResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	AuthorID  string    `json:"author_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdminArticleResponse agrega campos internos.
type AdminArticleResponse struct {
	ArticleResponse
	InternalNotes string `json:"internal_notes"`
}

// ArticleRequest es el body de create/update. Campos ausentes no se modifican.
type ArticleRequest struct {
	Title  *string `json:"title"`
	Body   *string `json:"body"`
	Status *string `json:"status"`
}

// AdminArticleRequest permite además editar las notas internas.
type AdminArticleRequest struct {
	ArticleRequest
	InternalNotes *string `json:"internal_notes"`
}

func toResponse(a repository.Article) ArticleResponse {
	return ArticleResponse{
		ID:        a.ID,
		Title:     a.Title,
		Body:      a.Body,
		Status:    a.Status,
		AuthorID:  a.AuthorID,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toAdminResponse(a repository.Article) AdminArticleResponse {
	return AdminArticleResponse{ArticleResponse: toResponse(a), InternalNotes: a.InternalNotes}
}

func (in ArticleRequest) apply(a *repository.Article) {
	if in.Title != nil {
		a.Title = *in.Title
	}
	if in.Body != nil {
		a.Body = *in.Body
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
}

func (in AdminArticleRequest) apply(a *repository.Article) {
	in.ArticleRequest.apply(a)
	if in.InternalNotes != nil {
		a.InternalNotes = *in.InternalNotes
	}
}
