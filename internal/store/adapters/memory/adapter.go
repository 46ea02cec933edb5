// Package memory implementa el adapter in-process para store.
// Los datos viven en mapas protegidos por mutex; opcionalmente se siembran desde un YAML.
package memory

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/roleviews/internal/domain/repository"
	store "github.com/dropDatabas3/roleviews/internal/store"
)

func init() {
	store.RegisterAdapter(&memoryAdapter{})
}

type memoryAdapter struct{}

func (a *memoryAdapter) Name() string { return "memory" }

func (a *memoryAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	conn := New()
	if cfg.Fixtures == "" {
		return conn, nil
	}
	b, err := os.ReadFile(cfg.Fixtures)
	if err != nil {
		return nil, fmt.Errorf("memory: read fixtures: %w", err)
	}
	var fx Fixtures
	if err := yaml.Unmarshal(b, &fx); err != nil {
		return nil, fmt.Errorf("memory: parse fixtures: %w", err)
	}
	if err := conn.Seed(ctx, fx); err != nil {
		return nil, err
	}
	return conn, nil
}

// Fixtures es el formato YAML de datos iniciales.
type Fixtures struct {
	Groups   []string         `yaml:"groups"`
	Users    []FixtureUser    `yaml:"users"`
	Articles []FixtureArticle `yaml:"articles"`
}

type FixtureUser struct {
	ID     string   `yaml:"id"`
	Groups []string `yaml:"groups"`
}

type FixtureArticle struct {
	ID            string `yaml:"id"`
	Title         string `yaml:"title"`
	Body          string `yaml:"body"`
	Status        string `yaml:"status"`
	AuthorID      string `yaml:"author_id"`
	InternalNotes string `yaml:"internal_notes"`
}

// Conn es una conexión en memoria. Exportada para tests de otros paquetes.
type Conn struct {
	groups   *groupRepo
	articles *articleRepo
}

// New crea una conexión vacía.
func New() *Conn {
	return &Conn{groups: newGroupRepo(), articles: newArticleRepo()}
}

// Seed carga fixtures.
func (c *Conn) Seed(ctx context.Context, fx Fixtures) error {
	for _, g := range fx.Groups {
		c.groups.ensure(g)
	}
	for _, u := range fx.Users {
		for _, g := range u.Groups {
			if err := c.groups.AddMember(ctx, u.ID, g); err != nil {
				return fmt.Errorf("memory: seed user %s: %w", u.ID, err)
			}
		}
	}
	for _, a := range fx.Articles {
		art := repository.Article{
			ID:            a.ID,
			Title:         a.Title,
			Body:          a.Body,
			Status:        a.Status,
			AuthorID:      a.AuthorID,
			InternalNotes: a.InternalNotes,
		}
		if err := c.articles.Create(ctx, &art); err != nil {
			return fmt.Errorf("memory: seed article %s: %w", a.ID, err)
		}
	}
	return nil
}

func (c *Conn) Name() string               { return "memory" }
func (c *Conn) Ping(context.Context) error { return nil }
func (c *Conn) Close() error               { return nil }

func (c *Conn) Groups() repository.GroupRepository     { return c.groups }
func (c *Conn) Articles() repository.ArticleRepository { return c.articles }
