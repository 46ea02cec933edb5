package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/roleviews/internal/config"
	"github.com/dropDatabas3/roleviews/internal/rate"
	"github.com/dropDatabas3/roleviews/internal/roles"
	"github.com/dropDatabas3/roleviews/internal/store"
)

const fixturesYAML = `
groups: [admin, editor, viewer]
users:
  - id: u-admin
    groups: [Admin]
  - id: u-multi
    groups: [admin, editor]
articles:
  - id: a1
    title: Hello
    status: published
`

func loadConfig(t *testing.T, extra string) *config.Config {
	t.Helper()
	return loadConfigWithFixtures(t, fixturesYAML, extra)
}

func loadConfigWithFixtures(t *testing.T, fixtures, extra string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fixtures.yaml"), []byte(fixtures), 0o600))
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("storage:\n  driver: memory\n  fixtures: fixtures.yaml\n"+extra), 0o600))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	return cfg
}

func storeUser(rt *Runtime, id string) roles.User {
	return store.UserFor(rt.Groups, id)
}

func TestBuild_DerivesRolesFromStore(t *testing.T) {
	cfg := loadConfig(t, "")
	rt, err := Build(context.Background(), cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	assert.Equal(t, []roles.Role{"admin", "editor", "viewer"}, rt.Dispatcher.Roles().Slice())
	assert.Equal(t, 5, rt.Dispatcher.Hooks().Len())

	role, err := rt.Dispatcher.ResolveRole(context.Background(), storeUser(rt, "u-admin"))
	require.NoError(t, err)
	assert.Equal(t, roles.Role("admin"), role)

	_, err = rt.Dispatcher.ResolveRole(context.Background(), storeUser(rt, "u-multi"))
	assert.ErrorIs(t, err, roles.ErrAmbiguousRole)
}

func TestBuild_ConfiguredRolesAndPolicy(t *testing.T) {
	cfg := loadConfig(t, "roles:\n  role_groups: [Admin]\n  ambiguous: reject\n  viewset_method_registry: [get_queryset]\ncache:\n  kind: none\n")
	rt, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	assert.Equal(t, []roles.Role{"admin"}, rt.Dispatcher.Roles().Slice())
	assert.Equal(t, []string{"get_queryset"}, rt.Dispatcher.Hooks().Names())
	assert.Equal(t, roles.AmbiguityReject, rt.Dispatcher.Ambiguity())
	assert.Nil(t, rt.Cache)
	assert.Nil(t, rt.Metrics)

	// u-multi sólo tiene un grupo que es rol
	role, err := rt.Dispatcher.ResolveRole(context.Background(), storeUser(rt, "u-multi"))
	require.NoError(t, err)
	assert.Equal(t, roles.Role("admin"), role)
}

func TestRuntime_Handler(t *testing.T) {
	cfg := loadConfig(t, "")
	rt, err := Build(context.Background(), cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	h, err := rt.Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	tok, err := rt.Issuer.Sign("u-admin", 0)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/articles/a1", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_notes")
}

func TestBuild_EmptyStoreStartsWithoutRoles(t *testing.T) {
	cfg := loadConfigWithFixtures(t, "users:\n  - id: u1\n    groups: []\n", "")
	rt, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	assert.Equal(t, 0, rt.Dispatcher.Roles().Len())
	_, err = rt.Dispatcher.ResolveRole(context.Background(), storeUser(rt, "u1"))
	assert.ErrorIs(t, err, roles.ErrNoRole)
}

func TestBuild_RateLimiterFollowsCache(t *testing.T) {
	cfg := loadConfig(t, "rate:\n  enabled: true\n  max: 5\n")
	rt, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	assert.IsType(t, &rate.MemoryLimiter{}, rt.Limiter)

	cfg = loadConfig(t, "")
	rt, err = Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	assert.Nil(t, rt.Limiter)
}

func TestBuild_UnknownDriver(t *testing.T) {
	cfg := loadConfig(t, "")
	cfg.Storage.Driver = "mysql"
	_, err := Build(context.Background(), cfg, nil)
	require.Error(t, err)
}
