package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/roleviews/internal/domain/repository"
	store "github.com/dropDatabas3/roleviews/internal/store"
)

func TestConnect_SeedsFromFixtures(t *testing.T) {
	p := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
groups: [Admin, Viewer]
users:
  - id: u1
    groups: [admin, editor]
articles:
  - id: a1
    title: Hello
    status: published
`), 0o600))

	conn, err := store.OpenAdapter(context.Background(), store.AdapterConfig{Name: "memory", Fixtures: p})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ctx := context.Background()
	groups, err := conn.Groups().ListGroups(ctx)
	require.NoError(t, err)
	// "editor" se crea al agregar el miembro; "admin" reusa el grupo "Admin"
	assert.Equal(t, []string{"Admin", "Viewer", "editor"}, repository.GroupNames(groups))

	ug, err := conn.Groups().UserGroups(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Admin", "editor"}, repository.GroupNames(ug))

	a, err := conn.Articles().Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Hello", a.Title)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestConnect_BadFixtures(t *testing.T) {
	_, err := store.OpenAdapter(context.Background(), store.AdapterConfig{Name: "memory", Fixtures: "/does/not/exist.yaml"})
	require.Error(t, err)
}

func TestGroups_Membership(t *testing.T) {
	ctx := context.Background()
	g := New().Groups()

	require.NoError(t, g.AddMember(ctx, "u1", "Admin"))
	require.NoError(t, g.AddMember(ctx, "u1", "admin"))
	ug, err := g.UserGroups(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, ug, 1)

	unknown, err := g.UserGroups(ctx, "ghost")
	require.NoError(t, err)
	assert.Empty(t, unknown)

	require.Error(t, g.AddMember(ctx, "", "admin"))
	assert.ErrorIs(t, g.RemoveMember(ctx, "u1", "viewer"), repository.ErrNotFound)
	require.NoError(t, g.RemoveMember(ctx, "u1", "ADMIN"))
	ug, err = g.UserGroups(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, ug)
}

func TestArticles_CRUD(t *testing.T) {
	ctx := context.Background()
	r := New().Articles()

	a := &repository.Article{Title: "x", Status: repository.ArticleDraft}
	require.NoError(t, r.Create(ctx, a))
	require.NotEmpty(t, a.ID)
	assert.ErrorIs(t, r.Create(ctx, &repository.Article{ID: a.ID}), repository.ErrConflict)

	b := &repository.Article{ID: "b", Title: "y"}
	require.NoError(t, r.Create(ctx, b))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.ElementsMatch(t, []string{a.ID, "b"}, []string{list[0].ID, list[1].ID})

	created := a.CreatedAt
	a.Title = "edited"
	require.NoError(t, r.Update(ctx, a))
	got, err := r.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Title)
	assert.Equal(t, created, got.CreatedAt)

	assert.ErrorIs(t, r.Update(ctx, &repository.Article{ID: "missing"}), repository.ErrNotFound)
	require.NoError(t, r.Delete(ctx, "b"))
	assert.ErrorIs(t, r.Delete(ctx, "b"), repository.ErrNotFound)
	_, err = r.Get(ctx, "b")
	assert.True(t, repository.IsNotFound(err))
}
