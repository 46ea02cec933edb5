// Package articles es el recurso de ejemplo: artículos cuyo acceso depende del rol
// (admin, editor, viewer) del usuario autenticado.
package articles

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/roleviews/internal/audit"
	"github.com/dropDatabas3/roleviews/internal/domain/repository"
	"github.com/dropDatabas3/roleviews/internal/http/errors"
	"github.com/dropDatabas3/roleviews/internal/http/viewset"
	"github.com/dropDatabas3/roleviews/internal/observability/logger"
	"github.com/dropDatabas3/roleviews/internal/roles"
)

// Roles usados por el recurso.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

type (
	article    = repository.Article
	serializer = viewset.Serializer[repository.Article]
)

var (
	publicSerializer = viewset.FieldSerializer[article, ArticleRequest]{
		Out:   func(a article) any { return toResponse(a) },
		Apply: func(in ArticleRequest, a *article) { in.apply(a) },
	}
	adminSerializer = viewset.FieldSerializer[article, AdminArticleRequest]{
		Out:   func(a article) any { return toAdminResponse(a) },
		Apply: func(in AdminArticleRequest, a *article) { in.apply(a) },
	}
)

// Service implementa los hooks del recurso sobre un ArticleRepository.
type Service struct {
	repo repository.ArticleRepository
}

// NewService crea el servicio.
func NewService(repo repository.ArticleRepository) *Service {
	return &Service{repo: repo}
}

// Hooks retorna los hooks con sus overrides por rol.
func (s *Service) Hooks() viewset.Hooks[repository.Article] {
	return viewset.Hooks[article]{
		Queryset: roles.NewHook[viewset.QuerysetFunc[article]](roles.HookGetQueryset, s.publishedQueryset).
			For(RoleAdmin, s.allQueryset).
			For(RoleEditor, s.editorQueryset),

		Serializer: roles.NewHook[viewset.SerializerFunc[article]](roles.HookGetSerializerClass, publicSerializerFor).
			For(RoleAdmin, adminSerializerFor),

		Create: roles.NewHook[viewset.WriteFunc[article]](roles.HookPerformCreate, forbidWrite).
			For(RoleAdmin, s.adminCreate).
			For(RoleEditor, s.editorCreate),

		Update: roles.NewHook[viewset.WriteFunc[article]](roles.HookPerformUpdate, forbidWrite).
			For(RoleAdmin, s.adminUpdate).
			For(RoleEditor, s.editorUpdate),

		Destroy: roles.NewHook[viewset.DestroyFunc[article]](roles.HookPerformDestroy, forbidDestroy).
			For(RoleAdmin, s.adminDestroy),
	}
}

// ─── get_queryset ───

func (s *Service) publishedQueryset(ctx context.Context, _ *viewset.Request) ([]article, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, func(a article) bool { return a.Status == repository.ArticlePublished }), nil
}

func (s *Service) allQueryset(ctx context.Context, _ *viewset.Request) ([]article, error) {
	return s.repo.List(ctx)
}

func (s *Service) editorQueryset(ctx context.Context, req *viewset.Request) ([]article, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, func(a article) bool {
		return a.Status == repository.ArticlePublished || a.AuthorID == req.UserID
	}), nil
}

func filter(in []article, keep func(article) bool) []article {
	out := make([]article, 0, len(in))
	for _, a := range in {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// ─── get_serializer_class ───

func publicSerializerFor(context.Context, *viewset.Request) (serializer, error) {
	return publicSerializer, nil
}

func adminSerializerFor(context.Context, *viewset.Request) (serializer, error) {
	return adminSerializer, nil
}

// ─── perform_create / perform_update ───

func forbidWrite(context.Context, *viewset.Request, *article) error {
	return errors.ErrForbidden
}

func (s *Service) adminCreate(ctx context.Context, req *viewset.Request, a *article) error {
	if a.Status == "" {
		a.Status = repository.ArticleDraft
	}
	if a.AuthorID == "" {
		a.AuthorID = req.UserID
	}
	if err := validate(a); err != nil {
		return err
	}
	return s.create(ctx, a)
}

func (s *Service) editorCreate(ctx context.Context, req *viewset.Request, a *article) error {
	a.AuthorID = req.UserID
	a.Status = repository.ArticleDraft
	if err := validate(a); err != nil {
		return err
	}
	return s.create(ctx, a)
}

func (s *Service) create(ctx context.Context, a *article) error {
	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}
	audit.Log(ctx, "article.created", logger.ID(a.ID), logger.UserID(a.AuthorID))
	return nil
}

func (s *Service) adminUpdate(ctx context.Context, _ *viewset.Request, a *article) error {
	if err := validate(a); err != nil {
		return err
	}
	return s.update(ctx, a)
}

// editorUpdate sólo permite editar artículos propios y no cambia su estado.
func (s *Service) editorUpdate(ctx context.Context, req *viewset.Request, a *article) error {
	current, err := s.repo.Get(ctx, a.ID)
	if err != nil {
		return err
	}
	if current.AuthorID != req.UserID {
		return errors.ErrForbidden.WithDetail("editors can only update their own articles")
	}
	a.AuthorID = current.AuthorID
	a.Status = current.Status
	if err := validate(a); err != nil {
		return err
	}
	return s.update(ctx, a)
}

func (s *Service) update(ctx context.Context, a *article) error {
	if err := s.repo.Update(ctx, a); err != nil {
		return err
	}
	audit.Log(ctx, "article.updated", logger.ID(a.ID), logger.String("status", a.Status))
	return nil
}

func validate(a *article) error {
	if strings.TrimSpace(a.Title) == "" {
		return errors.ErrUnprocessableEntity.WithDetail("title is required")
	}
	switch a.Status {
	case repository.ArticleDraft, repository.ArticlePublished:
		return nil
	}
	return errors.ErrUnprocessableEntity.WithDetail(fmt.Sprintf("unknown status %q", a.Status))
}

// ─── perform_destroy ───

func forbidDestroy(context.Context, *viewset.Request, article) error {
	return errors.ErrForbidden
}

func (s *Service) adminDestroy(ctx context.Context, _ *viewset.Request, a article) error {
	if err := s.repo.Delete(ctx, a.ID); err != nil {
		return err
	}
	audit.Log(ctx, "article.deleted", logger.ID(a.ID))
	return nil
}
